package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"donorbase/internal/barcode"
	"donorbase/internal/model"
	"donorbase/internal/store"
)

// CatalogPage handles GET /catalog: the shared catalog with its global
// barcodes.
func (s *Server) CatalogPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	items, err := store.ListCanonicalItems(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list canonical items", "error", err)
	}

	barcodesByItem := make(map[int64][]model.Barcode, len(items))
	for _, item := range items {
		barcodes, err := barcode.FindByOwner(r.Context(), s.DB, model.OwnerKindCanonical, item.ID)
		if err != nil {
			slog.Error("failed to list catalog barcodes", "error", err)
			continue
		}
		barcodesByItem[item.ID] = barcodes
	}

	s.Templates.Render(w, "catalog.html", &struct {
		PageData
		Items          []model.CanonicalItem
		BarcodesByItem map[int64][]model.Barcode
	}{
		PageData:       PageData{Title: "Catalog", User: claims, Token: GetWebToken(r.Context()), Error: r.URL.Query().Get("error")},
		Items:          items,
		BarcodesByItem: barcodesByItem,
	})
}

// CatalogCreateSubmit handles POST /catalog (admin only).
func (s *Server) CatalogCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if claims.Role != model.RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	name := r.FormValue("name")
	partnerKey := r.FormValue("partner_key")
	if name == "" || partnerKey == "" {
		http.Redirect(w, r, "/catalog", http.StatusSeeOther)
		return
	}

	if _, err := store.CreateCanonicalItem(r.Context(), s.DB, name, partnerKey); err != nil {
		slog.Error("failed to create canonical item", "error", err)
		http.Redirect(w, r, "/catalog?error="+url.QueryEscape("partner key already exists"), http.StatusSeeOther)
		return
	}

	slog.Info("canonical item created", "user", claims.Username, "name", name)
	http.Redirect(w, r, "/catalog", http.StatusSeeOther)
}

// CatalogBarcodeSubmit handles POST /catalog/{id}/barcodes (admin only).
// The registered barcode is global.
func (s *Server) CatalogBarcodeSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if claims.Role != model.RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	b, err := barcode.Create(r.Context(), s.DB, barcode.Candidate{
		Value:     r.FormValue("value"),
		Quantity:  r.FormValue("quantity"),
		OwnerKind: model.OwnerKindCanonical,
		OwnerID:   id,
	})
	if err != nil {
		if verrs, ok := barcode.AsValidationErrors(err); ok {
			http.Redirect(w, r, "/catalog?error="+url.QueryEscape(verrs.Error()), http.StatusSeeOther)
			return
		}
		slog.Error("failed to register global barcode", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.Info("global barcode registered", "user", claims.Username, "value", b.Value, "canonical_item", id)
	http.Redirect(w, r, fmt.Sprintf("/catalog#item-%d", id), http.StatusSeeOther)
}
