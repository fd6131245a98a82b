package model

import "time"

// Organization represents a tenant (e.g. a donation bank). Items and local
// barcodes are scoped to exactly one organization.
type Organization struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
