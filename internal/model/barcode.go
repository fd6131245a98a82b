package model

import "time"

// Barcode associates a scannable value and a quantity with an owning entity.
// A barcode is either local (OrganizationID set, owned by that organization's
// item) or global (OrganizationID nil, owned by a canonical item). The
// pairing of owner kind and organization is fixed at creation and never
// re-derived.
type Barcode struct {
	ID             int64      `json:"id"`
	Value          string     `json:"value"`
	Quantity       int64      `json:"quantity"`
	OwnerKind      string     `json:"owner_kind"`
	OwnerID        int64      `json:"owner_id"`
	OrganizationID *int64     `json:"organization_id,omitempty"`
	Global         bool       `json:"global"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Barcode owner kinds.
const (
	OwnerKindItem      = "item"
	OwnerKindCanonical = "canonical_item"
)

// BarcodeDigest is the export/summary form of a barcode. Organization and
// timestamps are intentionally omitted.
type BarcodeDigest struct {
	OwnerID   int64  `json:"owner_id"`
	OwnerKind string `json:"owner_kind"`
	Quantity  int64  `json:"quantity"`
}

// Digest returns the export form of the barcode.
func (b *Barcode) Digest() BarcodeDigest {
	return BarcodeDigest{
		OwnerID:   b.OwnerID,
		OwnerKind: b.OwnerKind,
		Quantity:  b.Quantity,
	}
}
