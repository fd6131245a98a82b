package model

import "time"

// Distribution records stock leaving an organization (e.g. handed out to a
// partner agency).
type Distribution struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	ItemID         int64     `json:"item_id"`
	Quantity       int64     `json:"quantity"`
	Notes          string    `json:"notes,omitempty"`
	DistributedAt  time.Time `json:"distributed_at"`
	DistributedBy  *int64    `json:"distributed_by,omitempty"`
	ItemName       string    `json:"item_name,omitempty"`
}
