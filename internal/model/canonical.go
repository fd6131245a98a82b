package model

import "time"

// CanonicalItem represents a shared catalog item, visible to all
// organizations. Global barcodes always point at a canonical item.
type CanonicalItem struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	PartnerKey   string    `json:"partner_key"`
	BarcodeCount int64     `json:"barcode_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
