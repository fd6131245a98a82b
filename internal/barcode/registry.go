package barcode

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"donorbase/internal/model"
)

// Create validates the candidate and, if it passes, persists the barcode and
// increments the owner's barcode counter, all in one transaction. On
// validation failure nothing is persisted and the full failure set is
// returned as a ValidationErrors error.
func Create(ctx context.Context, db *sql.DB, c Candidate) (*model.Barcode, error) {
	// Global barcodes are canonical-owned by construction: any organization
	// on a canonical candidate is discarded, not validated.
	if c.OwnerKind == model.OwnerKindCanonical {
		c.OrganizationID = nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	quantity, verrs, err := validate(ctx, tx, c)
	if err != nil {
		return nil, err
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO barcodes (value, quantity, owner_kind, owner_id, organization_id)
		 VALUES (?, ?, ?, ?, ?)`,
		c.Value, quantity, c.OwnerKind, c.OwnerID, c.OrganizationID,
	)
	if err != nil {
		// The partial unique indexes close the race between the uniqueness
		// check and the insert: a concurrent writer that won the race shows
		// up here as a constraint violation, reported as a duplicate.
		if isUniqueViolation(err) {
			return nil, ValidationErrors{{KindDuplicateValue, "value has already been taken"}}
		}
		return nil, fmt.Errorf("creating barcode: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting barcode id: %w", err)
	}

	if err := incrementOwnerCount(ctx, tx, c.OwnerKind, c.OwnerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing barcode: %w", err)
	}

	return Get(ctx, db, id)
}

// Get returns a barcode by ID.
func Get(ctx context.Context, db *sql.DB, id int64) (*model.Barcode, error) {
	b := &model.Barcode{}
	err := db.QueryRowContext(ctx,
		`SELECT id, value, quantity, owner_kind, owner_id, organization_id, created_at, updated_at
		 FROM barcodes WHERE id = ?`, id,
	).Scan(&b.ID, &b.Value, &b.Quantity, &b.OwnerKind, &b.OwnerID, &b.OrganizationID, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting barcode: %w", err)
	}
	b.Global = b.OrganizationID == nil
	return b, nil
}

// incrementOwnerCount bumps the owner's barcode counter by one. A single
// UPDATE keeps the increment atomic in the store; the engine never
// read-modifies the counter.
func incrementOwnerCount(ctx context.Context, tx *sql.Tx, kind string, id int64) error {
	var query string
	switch kind {
	case model.OwnerKindItem:
		query = `UPDATE items SET barcode_count = barcode_count + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	case model.OwnerKindCanonical:
		query = `UPDATE canonical_items SET barcode_count = barcode_count + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	default:
		return fmt.Errorf("unknown owner kind: %s", kind)
	}

	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("incrementing barcode count: %w", err)
	}
	return nil
}

// Recount recomputes every owner's barcode counter from the live records.
// The counters are a derived aggregate, not a source of truth; this is
// background maintenance, not part of the insert path.
func Recount(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET barcode_count =
		   (SELECT COUNT(*) FROM barcodes WHERE owner_kind = 'item' AND owner_id = items.id)`,
	)
	if err != nil {
		return fmt.Errorf("recounting item barcodes: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE canonical_items SET barcode_count =
		   (SELECT COUNT(*) FROM barcodes WHERE owner_kind = 'canonical_item' AND owner_id = canonical_items.id)`,
	)
	if err != nil {
		return fmt.Errorf("recounting canonical item barcodes: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint
// failure on the barcodes table. Violations of the partial indexes are
// reported by index name ("index 'idx_barcodes_value_org'"), not by column.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, "barcodes")
}
