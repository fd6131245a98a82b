package web

import (
	"log/slog"
	"net/http"

	"donorbase/internal/model"
	"donorbase/internal/store"
)

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	var stock []model.Stock
	var distributions []model.Distribution
	if orgID, ok := webOrganizationID(r); ok {
		var err error
		stock, err = store.ListStock(r.Context(), s.DB, orgID)
		if err != nil {
			slog.Error("failed to list stock for dashboard", "error", err)
		}
		distributions, err = store.ListDistributions(r.Context(), s.DB, orgID)
		if err != nil {
			slog.Error("failed to list distributions for dashboard", "error", err)
		}
	}

	// Limit recent distributions to 10.
	if len(distributions) > 10 {
		distributions = distributions[:10]
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Stock               []model.Stock
		RecentDistributions []model.Distribution
	}{
		PageData:            PageData{Title: "Dashboard", User: claims, Token: GetWebToken(r.Context())},
		Stock:               stock,
		RecentDistributions: distributions,
	})
}
