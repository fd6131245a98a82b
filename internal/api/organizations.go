package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"donorbase/internal/model"
	"donorbase/internal/store"
)

// OrganizationsHandler handles organization endpoints.
type OrganizationsHandler struct {
	DB *sql.DB
}

type organizationRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/organizations.
func (h *OrganizationsHandler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := store.ListOrganizations(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list organizations", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list organizations")
		return
	}
	if orgs == nil {
		orgs = []model.Organization{}
	}
	jsonResponse(w, http.StatusOK, orgs)
}

// Create handles POST /api/organizations.
func (h *OrganizationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req organizationRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	org, err := store.CreateOrganization(r.Context(), h.DB, req.Name)
	if err != nil {
		jsonError(w, http.StatusConflict, "organization name already exists")
		return
	}

	jsonResponse(w, http.StatusCreated, org)
}

// Get handles GET /api/organizations/{id}.
func (h *OrganizationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid organization id")
		return
	}

	org, err := store.GetOrganization(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get organization")
		return
	}
	if org == nil {
		jsonError(w, http.StatusNotFound, "organization not found")
		return
	}

	jsonResponse(w, http.StatusOK, org)
}

// Update handles PUT /api/organizations/{id}.
func (h *OrganizationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid organization id")
		return
	}

	var req organizationRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateOrganization(r.Context(), h.DB, id, req.Name); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update organization")
		return
	}

	org, _ := store.GetOrganization(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, org)
}

// Delete handles DELETE /api/organizations/{id}.
func (h *OrganizationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid organization id")
		return
	}

	if err := store.DeleteOrganization(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "organization deleted"})
}

// GetStock handles GET /api/organizations/{id}/stock.
func (h *OrganizationsHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid organization id")
		return
	}

	stock, err := store.ListStock(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list stock")
		return
	}
	if stock == nil {
		stock = []model.Stock{}
	}
	jsonResponse(w, http.StatusOK, stock)
}
