package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"donorbase/internal/barcode"
	"donorbase/internal/imaging"
	"donorbase/internal/model"
	"donorbase/internal/store"
)

// ItemsHandler handles item CRUD endpoints. Items are scoped to the
// requesting user's organization.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PartnerKey  string `json:"partner_key"`
}

type updateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PartnerKey  string `json:"partner_key"`
	Status      string `json:"status"`
}

// getScopedItem fetches an item and checks it belongs to the request's
// organization. Writes the error response itself when it returns nil.
func (h *ItemsHandler) getScopedItem(w http.ResponseWriter, r *http.Request) *model.Item {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return nil
	}

	orgID, ok := organizationID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "no organization context")
		return nil
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return nil
	}
	if item == nil || item.OrganizationID != orgID {
		jsonError(w, http.StatusNotFound, "item not found")
		return nil
	}
	return item
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := organizationID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "no organization context")
		return
	}

	status := r.URL.Query().Get("status")
	items, err := store.ListItems(r.Context(), h.DB, orgID, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := organizationID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "no organization context")
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, orgID, req.Name, req.Description, req.PartnerKey)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item := h.getScopedItem(w, r)
	if item == nil {
		return
	}

	barcodes, err := barcode.FindByOwner(r.Context(), h.DB, model.OwnerKindItem, item.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list item barcodes")
		return
	}
	if barcodes == nil {
		barcodes = []model.Barcode{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"item":     item,
		"barcodes": barcodes,
	})
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	item := h.getScopedItem(w, r)
	if item == nil {
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if req.Status == "" {
		req.Status = model.ItemStatusActive
	}
	if req.Status != model.ItemStatusActive && req.Status != model.ItemStatusRetired {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := store.UpdateItem(r.Context(), h.DB, item.ID, req.Name, req.Description, req.PartnerKey, req.Status); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	updated, _ := store.GetItem(r.Context(), h.DB, item.ID)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item := h.getScopedItem(w, r)
	if item == nil {
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, item.ID); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// RegisterBarcode handles POST /api/items/{id}/barcodes.
func (h *ItemsHandler) RegisterBarcode(w http.ResponseWriter, r *http.Request) {
	item := h.getScopedItem(w, r)
	if item == nil {
		return
	}

	var req struct {
		Value    string `json:"value"`
		Quantity string `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orgID := item.OrganizationID
	b, err := barcode.Create(r.Context(), h.DB, barcode.Candidate{
		Value:          req.Value,
		Quantity:       req.Quantity,
		OwnerKind:      model.OwnerKindItem,
		OwnerID:        item.ID,
		OrganizationID: &orgID,
	})
	if err != nil {
		writeBarcodeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, b)
}

// ListBarcodes handles GET /api/items/{id}/barcodes.
func (h *ItemsHandler) ListBarcodes(w http.ResponseWriter, r *http.Request) {
	item := h.getScopedItem(w, r)
	if item == nil {
		return
	}

	barcodes, err := barcode.FindByOwner(r.Context(), h.DB, model.OwnerKindItem, item.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list barcodes")
		return
	}
	if barcodes == nil {
		barcodes = []model.Barcode{}
	}
	jsonResponse(w, http.StatusOK, barcodes)
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	item := h.getScopedItem(w, r)
	if item == nil {
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	mime := header.Header.Get("Content-Type")
	if mime != "image/jpeg" && mime != "image/png" && mime != "image/webp" {
		jsonError(w, http.StatusBadRequest, "image must be JPEG, PNG, or WebP")
		return
	}

	result, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, item.ID, result.Data, result.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	item := h.getScopedItem(w, r)
	if item == nil {
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, item.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
