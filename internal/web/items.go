package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"donorbase/internal/barcode"
	"donorbase/internal/imaging"
	"donorbase/internal/model"
	"donorbase/internal/store"
)

// ItemsPage handles GET /items.
func (s *Server) ItemsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	var items []model.Item
	if orgID, ok := webOrganizationID(r); ok {
		var err error
		items, err = store.ListItems(r.Context(), s.DB, orgID, "")
		if err != nil {
			slog.Error("failed to list items", "error", err)
		}
	}

	s.Templates.Render(w, "items.html", &struct {
		PageData
		Items []model.Item
	}{
		PageData: PageData{Title: "Items", User: claims, Token: GetWebToken(r.Context())},
		Items:    items,
	})
}

// ItemDetailPage handles GET /items/{id}.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	orgID, ok := webOrganizationID(r)
	if !ok {
		http.Error(w, "no organization", http.StatusForbidden)
		return
	}

	item, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if item == nil || item.OrganizationID != orgID {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}

	barcodes, err := barcode.FindByOwner(r.Context(), s.DB, model.OwnerKindItem, item.ID)
	if err != nil {
		slog.Error("failed to list item barcodes", "error", err)
	}

	barcodeError := r.URL.Query().Get("barcode_error")

	s.Templates.Render(w, "item_detail.html", &struct {
		PageData
		Item     *model.Item
		Barcodes []model.Barcode
	}{
		PageData: PageData{Title: item.Name, User: claims, Token: GetWebToken(r.Context()), Error: barcodeError},
		Item:     item,
		Barcodes: barcodes,
	})
}

// ItemCreateSubmit handles POST /items.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !model.RoleAtLeast(claims.Role, model.RoleManager) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	orgID, ok := webOrganizationID(r)
	if !ok {
		http.Error(w, "no organization", http.StatusForbidden)
		return
	}

	name := r.FormValue("name")
	description := r.FormValue("description")
	partnerKey := r.FormValue("partner_key")

	if name == "" {
		http.Redirect(w, r, "/items", http.StatusSeeOther)
		return
	}

	if _, err := store.CreateItem(r.Context(), s.DB, orgID, name, description, partnerKey); err != nil {
		slog.Error("failed to create item", "error", err)
	} else {
		slog.Info("item created", "user", claims.Username, "item", name)
	}
	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// ItemUpdateSubmit handles POST /items/{id}.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !model.RoleAtLeast(claims.Role, model.RoleManager) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	description := r.FormValue("description")
	partnerKey := r.FormValue("partner_key")
	status := r.FormValue("status")
	if status == "" {
		status = model.ItemStatusActive
	}

	if err := store.UpdateItem(r.Context(), s.DB, id, name, description, partnerKey, status); err != nil {
		slog.Error("failed to update item", "error", err)
		http.Error(w, "failed to update", http.StatusInternalServerError)
		return
	}

	slog.Info("item updated", "user", claims.Username, "item", name, "status", status)
	http.Redirect(w, r, fmt.Sprintf("/items/%d", id), http.StatusSeeOther)
}

// ItemBarcodeSubmit handles POST /items/{id}/barcodes.
func (s *Server) ItemBarcodeSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !model.RoleAtLeast(claims.Role, model.RoleManager) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	orgID, ok := webOrganizationID(r)
	if !ok {
		http.Error(w, "no organization", http.StatusForbidden)
		return
	}

	value := r.FormValue("value")
	quantity := r.FormValue("quantity")

	b, err := barcode.Create(r.Context(), s.DB, barcode.Candidate{
		Value:          value,
		Quantity:       quantity,
		OwnerKind:      model.OwnerKindItem,
		OwnerID:        id,
		OrganizationID: &orgID,
	})
	if err != nil {
		if verrs, ok := barcode.AsValidationErrors(err); ok {
			slog.Warn("barcode rejected", "user", claims.Username, "value", value, "failures", len(verrs))
			http.Redirect(w, r, fmt.Sprintf("/items/%d?barcode_error=%s", id, url.QueryEscape(verrs.Error())), http.StatusSeeOther)
			return
		}
		slog.Error("failed to register barcode", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.Info("barcode registered", "user", claims.Username, "value", b.Value, "item", id)
	http.Redirect(w, r, fmt.Sprintf("/items/%d", id), http.StatusSeeOther)
}

// ItemImageSubmit handles POST /items/{id}/image.
func (s *Server) ItemImageSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !model.RoleAtLeast(claims.Role, model.RoleManager) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		http.Error(w, "file too large", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := store.SetItemImage(r.Context(), s.DB, id, result.Data, result.MIME); err != nil {
		slog.Error("failed to save image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.Info("item image updated", "user", claims.Username, "item", id)
	http.Redirect(w, r, fmt.Sprintf("/items/%d", id), http.StatusSeeOther)
}
