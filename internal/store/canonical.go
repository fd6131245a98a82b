package store

import (
	"context"
	"database/sql"
	"fmt"

	"donorbase/internal/model"
)

// CreateCanonicalItem creates a new shared catalog item.
func CreateCanonicalItem(ctx context.Context, db *sql.DB, name, partnerKey string) (*model.CanonicalItem, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO canonical_items (name, partner_key) VALUES (?, ?)`,
		name, partnerKey,
	)
	if err != nil {
		return nil, fmt.Errorf("creating canonical item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting canonical item id: %w", err)
	}

	return GetCanonicalItem(ctx, db, id)
}

// GetCanonicalItem returns a canonical item by ID.
func GetCanonicalItem(ctx context.Context, db *sql.DB, id int64) (*model.CanonicalItem, error) {
	c := &model.CanonicalItem{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, partner_key, barcode_count, created_at, updated_at
		 FROM canonical_items WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.PartnerKey, &c.BarcodeCount, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting canonical item: %w", err)
	}
	return c, nil
}

// GetCanonicalItemByPartnerKey returns a canonical item by its partner key.
func GetCanonicalItemByPartnerKey(ctx context.Context, db *sql.DB, partnerKey string) (*model.CanonicalItem, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM canonical_items WHERE partner_key = ?`, partnerKey,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting canonical item by partner key: %w", err)
	}
	return GetCanonicalItem(ctx, db, id)
}

// ListCanonicalItems returns the whole shared catalog.
func ListCanonicalItems(ctx context.Context, db *sql.DB) ([]model.CanonicalItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, partner_key, barcode_count, created_at, updated_at
		 FROM canonical_items ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing canonical items: %w", err)
	}
	defer rows.Close()

	var items []model.CanonicalItem
	for rows.Next() {
		var c model.CanonicalItem
		if err := rows.Scan(&c.ID, &c.Name, &c.PartnerKey, &c.BarcodeCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning canonical item: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// UpdateCanonicalItem updates a canonical item's name and partner key.
func UpdateCanonicalItem(ctx context.Context, db *sql.DB, id int64, name, partnerKey string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE canonical_items SET name = ?, partner_key = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, partnerKey, id,
	)
	if err != nil {
		return fmt.Errorf("updating canonical item: %w", err)
	}
	return nil
}
