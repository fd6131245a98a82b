package model

import "time"

// Item represents an organization-scoped inventory item.
type Item struct {
	ID             int64      `json:"id"`
	OrganizationID int64      `json:"organization_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	PartnerKey     string     `json:"partner_key,omitempty"`
	BarcodeCount   int64      `json:"barcode_count"`
	ImageMime      string     `json:"image_mime,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// Item statuses.
const (
	ItemStatusActive  = "active"
	ItemStatusRetired = "retired"
)
