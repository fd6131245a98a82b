package store

import (
	"context"
	"database/sql"
	"fmt"

	"donorbase/internal/model"
)

const itemColumns = `id, organization_id, name, description, partner_key, barcode_count,
	image_mime, status, created_at, updated_at, deleted_at`

// CreateItem creates a new item for an organization.
func CreateItem(ctx context.Context, db *sql.DB, organizationID int64, name, description, partnerKey string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (organization_id, name, description, partner_key) VALUES (?, ?, ?, ?)`,
		organizationID, name, description, partnerKey,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var description, partnerKey, imageMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.OrganizationID, &item.Name, &description, &partnerKey, &item.BarcodeCount,
		&imageMime, &item.Status, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Description = description.String
	item.PartnerKey = partnerKey.String
	item.ImageMime = imageMime.String
	return item, nil
}

// ListItems returns an organization's non-deleted items, optionally filtered
// by status.
func ListItems(ctx context.Context, db *sql.DB, organizationID int64, status string) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE deleted_at IS NULL AND organization_id = ?`
	args := []any{organizationID}

	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var description, partnerKey, imageMime sql.NullString
		if err := rows.Scan(&item.ID, &item.OrganizationID, &item.Name, &description, &partnerKey, &item.BarcodeCount,
			&imageMime, &item.Status, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Description = description.String
		item.PartnerKey = partnerKey.String
		item.ImageMime = imageMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetItemByPartnerKey returns an organization's item with the given partner
// key, or nil if none matches.
func GetItemByPartnerKey(ctx context.Context, db *sql.DB, organizationID int64, partnerKey string) (*model.Item, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM items WHERE organization_id = ? AND partner_key = ? AND deleted_at IS NULL`,
		organizationID, partnerKey,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item by partner key: %w", err)
	}
	return GetItem(ctx, db, id)
}

// UpdateItem updates an item's metadata.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, name, description, partnerKey, status string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, partner_key = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, description, partnerKey, status, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem soft-deletes an item.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// SetItemImage sets an item's image data.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
