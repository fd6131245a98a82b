package barcode

import (
	"context"
	"database/sql"
	"fmt"

	"donorbase/internal/model"
)

const barcodeColumns = `id, value, quantity, owner_kind, owner_id, organization_id, created_at, updated_at`

// Resolve maps a scanned value to the single authoritative barcode for the
// requesting organization. A local match always wins over a global one,
// regardless of creation order; other organizations' records are never
// candidates. Returns ErrNotFound when neither tier matches.
func Resolve(ctx context.Context, db *sql.DB, orgID int64, value string) (*model.Barcode, error) {
	b := &model.Barcode{}
	err := db.QueryRowContext(ctx,
		`SELECT `+barcodeColumns+`
		 FROM barcodes
		 WHERE value = ? AND (organization_id = ? OR organization_id IS NULL)
		 ORDER BY organization_id IS NULL, id
		 LIMIT 1`, value, orgID,
	).Scan(&b.ID, &b.Value, &b.Quantity, &b.OwnerKind, &b.OwnerID, &b.OrganizationID, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolving barcode: %w", err)
	}
	b.Global = b.OrganizationID == nil
	return b, nil
}

// FindByOwner returns all barcodes attached to one owning entity.
func FindByOwner(ctx context.Context, db *sql.DB, ownerKind string, ownerID int64) ([]model.Barcode, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+barcodeColumns+` FROM barcodes
		 WHERE owner_kind = ? AND owner_id = ? ORDER BY id`,
		ownerKind, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing barcodes by owner: %w", err)
	}
	defer rows.Close()

	return scanBarcodes(rows)
}

// FindByValueGlobalOnly returns global barcodes matching value.
func FindByValueGlobalOnly(ctx context.Context, db *sql.DB, value string) ([]model.Barcode, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+barcodeColumns+` FROM barcodes
		 WHERE value = ? AND organization_id IS NULL ORDER BY id`, value,
	)
	if err != nil {
		return nil, fmt.Errorf("listing global barcodes by value: %w", err)
	}
	defer rows.Close()

	return scanBarcodes(rows)
}

// FindByValueInOrganization returns one organization's barcodes matching value.
func FindByValueInOrganization(ctx context.Context, db *sql.DB, value string, orgID int64) ([]model.Barcode, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+barcodeColumns+` FROM barcodes
		 WHERE value = ? AND organization_id = ? ORDER BY id`, value, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing organization barcodes by value: %w", err)
	}
	defer rows.Close()

	return scanBarcodes(rows)
}

// FindByValueIncludingGlobal returns the union of the organization's local
// matches and all global matches for value.
func FindByValueIncludingGlobal(ctx context.Context, db *sql.DB, orgID int64, value string) ([]model.Barcode, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+barcodeColumns+` FROM barcodes
		 WHERE value = ? AND (organization_id = ? OR organization_id IS NULL)
		 ORDER BY organization_id IS NULL, id`, value, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing barcodes by value: %w", err)
	}
	defer rows.Close()

	return scanBarcodes(rows)
}

// ListForOrganization returns all of an organization's own barcodes, plus
// every global barcode when includeGlobal is set.
func ListForOrganization(ctx context.Context, db *sql.DB, orgID int64, includeGlobal bool) ([]model.Barcode, error) {
	query := `SELECT ` + barcodeColumns + ` FROM barcodes WHERE organization_id = ?`
	if includeGlobal {
		query += ` OR organization_id IS NULL`
	}
	query += ` ORDER BY organization_id IS NULL, value`

	rows, err := db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing organization barcodes: %w", err)
	}
	defer rows.Close()

	return scanBarcodes(rows)
}

// ListByCanonicalPartnerKey returns global barcodes whose canonical item
// carries the given partner key.
func ListByCanonicalPartnerKey(ctx context.Context, db *sql.DB, partnerKey string) ([]model.Barcode, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT b.id, b.value, b.quantity, b.owner_kind, b.owner_id, b.organization_id, b.created_at, b.updated_at
		 FROM barcodes b
		 JOIN canonical_items c ON c.id = b.owner_id AND b.owner_kind = 'canonical_item'
		 WHERE c.partner_key = ?
		 ORDER BY b.id`, partnerKey,
	)
	if err != nil {
		return nil, fmt.Errorf("listing barcodes by canonical partner key: %w", err)
	}
	defer rows.Close()

	return scanBarcodes(rows)
}

// ListByItemPartnerKey returns local barcodes whose item carries the given
// partner key.
func ListByItemPartnerKey(ctx context.Context, db *sql.DB, partnerKey string) ([]model.Barcode, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT b.id, b.value, b.quantity, b.owner_kind, b.owner_id, b.organization_id, b.created_at, b.updated_at
		 FROM barcodes b
		 JOIN items i ON i.id = b.owner_id AND b.owner_kind = 'item'
		 WHERE i.partner_key = ?
		 ORDER BY b.id`, partnerKey,
	)
	if err != nil {
		return nil, fmt.Errorf("listing barcodes by item partner key: %w", err)
	}
	defer rows.Close()

	return scanBarcodes(rows)
}

func scanBarcodes(rows *sql.Rows) ([]model.Barcode, error) {
	var barcodes []model.Barcode
	for rows.Next() {
		var b model.Barcode
		if err := rows.Scan(&b.ID, &b.Value, &b.Quantity, &b.OwnerKind, &b.OwnerID, &b.OrganizationID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning barcode: %w", err)
		}
		b.Global = b.OrganizationID == nil
		barcodes = append(barcodes, b)
	}
	return barcodes, rows.Err()
}
