package web

import (
	"log/slog"
	"net/http"

	"donorbase/internal/model"
	"donorbase/internal/store"
)

// OrganizationsPage handles GET /organizations (admin only).
func (s *Server) OrganizationsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if claims.Role != model.RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	orgs, err := store.ListOrganizations(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list organizations", "error", err)
	}

	s.Templates.Render(w, "organizations.html", &struct {
		PageData
		Organizations []model.Organization
	}{
		PageData:      PageData{Title: "Organizations", User: claims, Token: GetWebToken(r.Context())},
		Organizations: orgs,
	})
}

// OrganizationCreateSubmit handles POST /organizations (admin only).
func (s *Server) OrganizationCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if claims.Role != model.RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		http.Redirect(w, r, "/organizations", http.StatusSeeOther)
		return
	}

	if _, err := store.CreateOrganization(r.Context(), s.DB, name); err != nil {
		slog.Error("failed to create organization", "error", err)
	} else {
		slog.Info("organization created", "user", claims.Username, "name", name)
	}
	http.Redirect(w, r, "/organizations", http.StatusSeeOther)
}
