package model

// Stock is an organization's current quantity of one item.
type Stock struct {
	OrganizationID int64  `json:"organization_id"`
	ItemID         int64  `json:"item_id"`
	Quantity       int64  `json:"quantity"`
	ItemName       string `json:"item_name,omitempty"`
}
