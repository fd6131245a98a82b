package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"donorbase/internal/barcode"
	"donorbase/internal/model"
	"donorbase/internal/store"
)

// BarcodesHandler handles barcode listing, resolution, and export.
type BarcodesHandler struct {
	DB *sql.DB
}

// writeBarcodeError maps engine errors onto HTTP responses. Validation
// failures carry the full failure set; a missing barcode is 404; anything
// else is a store failure.
func writeBarcodeError(w http.ResponseWriter, err error) {
	if verrs, ok := barcode.AsValidationErrors(err); ok {
		jsonResponse(w, http.StatusBadRequest, map[string]any{
			"error":             "validation failed",
			"validation_errors": verrs,
		})
		return
	}
	if errors.Is(err, barcode.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "barcode not found")
		return
	}
	jsonError(w, http.StatusInternalServerError, "internal error")
}

// List handles GET /api/barcodes. Supports include_global, value,
// item_partner_key, and canonical_partner_key filters.
func (h *BarcodesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if key := q.Get("canonical_partner_key"); key != "" {
		barcodes, err := barcode.ListByCanonicalPartnerKey(ctx, h.DB, key)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to list barcodes")
			return
		}
		writeBarcodes(w, barcodes)
		return
	}

	if key := q.Get("item_partner_key"); key != "" {
		barcodes, err := barcode.ListByItemPartnerKey(ctx, h.DB, key)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to list barcodes")
			return
		}
		writeBarcodes(w, barcodes)
		return
	}

	orgID, ok := organizationID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "no organization context")
		return
	}

	if value := q.Get("value"); value != "" {
		barcodes, err := barcode.FindByValueIncludingGlobal(ctx, h.DB, orgID, value)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to list barcodes")
			return
		}
		writeBarcodes(w, barcodes)
		return
	}

	includeGlobal := q.Get("include_global") == "true"
	barcodes, err := barcode.ListForOrganization(ctx, h.DB, orgID, includeGlobal)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list barcodes")
		return
	}
	writeBarcodes(w, barcodes)
}

func writeBarcodes(w http.ResponseWriter, barcodes []model.Barcode) {
	if barcodes == nil {
		barcodes = []model.Barcode{}
	}
	jsonResponse(w, http.StatusOK, barcodes)
}

// Get handles GET /api/barcodes/{id}.
func (h *BarcodesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid barcode id")
		return
	}

	b, err := barcode.Get(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get barcode")
		return
	}
	if b == nil {
		jsonError(w, http.StatusNotFound, "barcode not found")
		return
	}

	jsonResponse(w, http.StatusOK, b)
}

// Resolve handles GET /api/barcodes/resolve?value=. The caller's
// organization's own barcode wins over a global one; an unknown value is a
// plain 404, not a failure.
func (h *BarcodesHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	if value == "" {
		jsonError(w, http.StatusBadRequest, "value required")
		return
	}

	orgID, ok := organizationID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "no organization context")
		return
	}

	b, err := barcode.Resolve(r.Context(), h.DB, orgID, value)
	if err != nil {
		writeBarcodeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, b)
}

// Export handles GET /api/barcodes/export: the organization's barcodes
// (plus global ones) in digest form, keyed by value.
func (h *BarcodesHandler) Export(w http.ResponseWriter, r *http.Request) {
	orgID, ok := organizationID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "no organization context")
		return
	}

	barcodes, err := barcode.ListForOrganization(r.Context(), h.DB, orgID, true)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to export barcodes")
		return
	}

	// Local entries are listed first, so a local barcode wins the key when
	// the same value exists in both tiers.
	digests := make(map[string]model.BarcodeDigest, len(barcodes))
	for i := len(barcodes) - 1; i >= 0; i-- {
		b := barcodes[i]
		digests[b.Value] = b.Digest()
	}

	jsonResponse(w, http.StatusOK, digests)
}

// ScansHandler handles intake scans.
type ScansHandler struct {
	DB *sql.DB
}

type scanRequest struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// Create handles POST /api/scans: resolve a scanned value and credit the
// organization's stock.
func (h *ScansHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := organizationID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "no organization context")
		return
	}

	var req scanRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Value == "" {
		jsonError(w, http.StatusBadRequest, "value required")
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}
	if req.Count < 0 {
		jsonError(w, http.StatusBadRequest, "count must be positive")
		return
	}

	result, err := store.ReceiveScan(r.Context(), h.DB, orgID, req.Value, req.Count)
	if err != nil {
		if errors.Is(err, barcode.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "barcode not found")
			return
		}
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, result)
}

// StockHandler handles stock listing and adjustment for the requesting
// organization.
type StockHandler struct {
	DB *sql.DB
}

type adjustStockRequest struct {
	ItemID int64 `json:"item_id"`
	Delta  int64 `json:"delta"`
}

// List handles GET /api/stock.
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := organizationID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "no organization context")
		return
	}

	stock, err := store.ListStock(r.Context(), h.DB, orgID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list stock")
		return
	}
	if stock == nil {
		stock = []model.Stock{}
	}
	jsonResponse(w, http.StatusOK, stock)
}

// Adjust handles POST /api/stock/adjust.
func (h *StockHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	orgID, ok := organizationID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "no organization context")
		return
	}

	var req adjustStockRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemID <= 0 || req.Delta == 0 {
		jsonError(w, http.StatusBadRequest, "item_id and non-zero delta required")
		return
	}

	if err := store.AdjustStock(r.Context(), h.DB, orgID, req.ItemID, req.Delta); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "stock adjusted"})
}
