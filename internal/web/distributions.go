package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"donorbase/internal/model"
	"donorbase/internal/store"
)

// DistributionsPage handles GET /distributions.
func (s *Server) DistributionsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	var distributions []model.Distribution
	var stock []model.Stock
	if orgID, ok := webOrganizationID(r); ok {
		var err error
		distributions, err = store.ListDistributions(r.Context(), s.DB, orgID)
		if err != nil {
			slog.Error("failed to list distributions", "error", err)
		}
		stock, err = store.ListStock(r.Context(), s.DB, orgID)
		if err != nil {
			slog.Error("failed to list stock", "error", err)
		}
	}

	s.Templates.Render(w, "distributions.html", &struct {
		PageData
		Distributions []model.Distribution
		Stock         []model.Stock
	}{
		PageData:      PageData{Title: "Distributions", User: claims, Token: GetWebToken(r.Context()), Error: r.URL.Query().Get("error")},
		Distributions: distributions,
		Stock:         stock,
	})
}

// DistributionCreateSubmit handles POST /distributions.
func (s *Server) DistributionCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	orgID, ok := webOrganizationID(r)
	if !ok {
		http.Error(w, "no organization", http.StatusForbidden)
		return
	}

	itemID, _ := strconv.ParseInt(r.FormValue("item_id"), 10, 64)
	quantity, _ := strconv.ParseInt(r.FormValue("quantity"), 10, 64)
	notes := r.FormValue("notes")

	if itemID <= 0 || quantity <= 0 {
		http.Redirect(w, r, "/distributions", http.StatusSeeOther)
		return
	}

	userID := claims.UserID
	d, err := store.CreateDistribution(r.Context(), s.DB, orgID, itemID, quantity, notes, &userID)
	if err != nil {
		slog.Warn("failed to create distribution", "error", err)
		http.Redirect(w, r, "/distributions?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	slog.Info("distribution recorded", "user", claims.Username, "item", d.ItemName, "quantity", d.Quantity)
	http.Redirect(w, r, "/distributions", http.StatusSeeOther)
}
