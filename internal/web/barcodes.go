package web

import (
	"errors"
	"log/slog"
	"net/http"

	"donorbase/internal/barcode"
	"donorbase/internal/model"
	"donorbase/internal/store"
)

// BarcodesPage handles GET /barcodes: the organization's barcodes, with
// global ones folded in when requested.
func (s *Server) BarcodesPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	includeGlobal := r.URL.Query().Get("include_global") == "true"

	var barcodes []model.Barcode
	if orgID, ok := webOrganizationID(r); ok {
		var err error
		barcodes, err = barcode.ListForOrganization(r.Context(), s.DB, orgID, includeGlobal)
		if err != nil {
			slog.Error("failed to list barcodes", "error", err)
		}
	}

	s.Templates.Render(w, "barcodes.html", &struct {
		PageData
		Barcodes      []model.Barcode
		IncludeGlobal bool
	}{
		PageData:      PageData{Title: "Barcodes", User: claims, Token: GetWebToken(r.Context())},
		Barcodes:      barcodes,
		IncludeGlobal: includeGlobal,
	})
}

// ScanPage handles GET /scan.
func (s *Server) ScanPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	s.Templates.Render(w, "scan.html", &struct {
		PageData
		Result *store.ScanResult
	}{
		PageData: PageData{Title: "Scan", User: claims, Token: GetWebToken(r.Context())},
	})
}

// ScanSubmit handles POST /scan: resolve the scanned value and credit the
// organization's stock.
func (s *Server) ScanSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	orgID, ok := webOrganizationID(r)
	if !ok {
		http.Error(w, "no organization", http.StatusForbidden)
		return
	}

	value := r.FormValue("value")
	if value == "" {
		http.Redirect(w, r, "/scan", http.StatusSeeOther)
		return
	}

	page := &struct {
		PageData
		Result *store.ScanResult
	}{
		PageData: PageData{Title: "Scan", User: claims, Token: GetWebToken(r.Context())},
	}

	result, err := store.ReceiveScan(r.Context(), s.DB, orgID, value, 1)
	switch {
	case errors.Is(err, barcode.ErrNotFound):
		page.Error = "No barcode matches " + value + "."
	case err != nil:
		slog.Error("scan failed", "error", err, "value", value)
		page.Error = err.Error()
	default:
		slog.Info("scan received", "user", claims.Username, "value", value, "item", result.Item.Name, "quantity", result.Quantity)
		page.Result = result
		page.Success = "Scan recorded."
	}

	s.Templates.Render(w, "scan.html", page)
}
