package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"donorbase/internal/barcode"
	"donorbase/internal/model"
	"donorbase/internal/store"
)

// CanonicalHandler handles the shared catalog endpoints. Reads are open to
// every authenticated user; writes are admin only, wired in the router.
type CanonicalHandler struct {
	DB *sql.DB
}

type canonicalRequest struct {
	Name       string `json:"name"`
	PartnerKey string `json:"partner_key"`
}

// List handles GET /api/canonical-items.
func (h *CanonicalHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListCanonicalItems(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list canonical items")
		return
	}
	if items == nil {
		items = []model.CanonicalItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/canonical-items.
func (h *CanonicalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req canonicalRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.PartnerKey == "" {
		jsonError(w, http.StatusBadRequest, "name and partner_key required")
		return
	}

	item, err := store.CreateCanonicalItem(r.Context(), h.DB, req.Name, req.PartnerKey)
	if err != nil {
		jsonError(w, http.StatusConflict, "partner key already exists")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/canonical-items/{id}.
func (h *CanonicalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid canonical item id")
		return
	}

	item, err := store.GetCanonicalItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get canonical item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "canonical item not found")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/canonical-items/{id}.
func (h *CanonicalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid canonical item id")
		return
	}

	var req canonicalRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.PartnerKey == "" {
		jsonError(w, http.StatusBadRequest, "name and partner_key required")
		return
	}

	if err := store.UpdateCanonicalItem(r.Context(), h.DB, id, req.Name, req.PartnerKey); err != nil {
		jsonError(w, http.StatusConflict, "failed to update canonical item")
		return
	}

	item, _ := store.GetCanonicalItem(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, item)
}

// RegisterBarcode handles POST /api/canonical-items/{id}/barcodes. The
// created barcode is global.
func (h *CanonicalHandler) RegisterBarcode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid canonical item id")
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

	b, err := barcode.Create(r.Context(), h.DB, barcode.Candidate{
		Value:     req.Value,
		Quantity:  req.Quantity,
		OwnerKind: model.OwnerKindCanonical,
		OwnerID:   id,
	})
	if err != nil {
		writeBarcodeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, b)
}

// ListBarcodes handles GET /api/canonical-items/{id}/barcodes.
func (h *CanonicalHandler) ListBarcodes(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid canonical item id")
		return
	}

	barcodes, err := barcode.FindByOwner(r.Context(), h.DB, model.OwnerKindCanonical, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list barcodes")
		return
	}
	if barcodes == nil {
		barcodes = []model.Barcode{}
	}
	jsonResponse(w, http.StatusOK, barcodes)
}
