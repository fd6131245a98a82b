package api

import (
	"database/sql"
	"net/http"

	"donorbase/internal/model"
	"donorbase/internal/store"
)

// DistributionsHandler handles distribution endpoints.
type DistributionsHandler struct {
	DB *sql.DB
}

type createDistributionRequest struct {
	ItemID   int64  `json:"item_id"`
	Quantity int64  `json:"quantity"`
	Notes    string `json:"notes"`
}

// Create handles POST /api/distributions.
func (h *DistributionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := organizationID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "no organization context")
		return
	}

	var req createDistributionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemID <= 0 || req.Quantity <= 0 {
		jsonError(w, http.StatusBadRequest, "item_id and positive quantity required")
		return
	}

	claims := GetClaims(r.Context())
	var userID *int64
	if claims != nil {
		userID = &claims.UserID
	}

	d, err := store.CreateDistribution(r.Context(), h.DB, orgID, req.ItemID, req.Quantity, req.Notes, userID)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	jsonResponse(w, http.StatusCreated, d)
}

// List handles GET /api/distributions.
func (h *DistributionsHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := organizationID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "no organization context")
		return
	}

	distributions, err := store.ListDistributions(r.Context(), h.DB, orgID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list distributions")
		return
	}
	if distributions == nil {
		distributions = []model.Distribution{}
	}
	jsonResponse(w, http.StatusOK, distributions)
}
