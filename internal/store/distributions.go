package store

import (
	"context"
	"database/sql"
	"fmt"

	"donorbase/internal/model"
)

// CreateDistribution records stock leaving an organization, decrementing the
// stock in the same transaction.
func CreateDistribution(ctx context.Context, db *sql.DB, organizationID, itemID, quantity int64, notes string, distributedBy *int64) (*model.Distribution, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var available int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(quantity, 0) FROM inventory WHERE organization_id = ? AND item_id = ?`,
		organizationID, itemID,
	).Scan(&available)
	if err == sql.ErrNoRows {
		available = 0
	} else if err != nil {
		return nil, fmt.Errorf("checking available quantity: %w", err)
	}

	if available < quantity {
		return nil, fmt.Errorf("insufficient stock: have %d, need %d", available, quantity)
	}

	newQty := available - quantity
	if newQty == 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM inventory WHERE organization_id = ? AND item_id = ?`,
			organizationID, itemID,
		)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE inventory SET quantity = ? WHERE organization_id = ? AND item_id = ?`,
			newQty, organizationID, itemID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("updating stock: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO distributions (organization_id, item_id, quantity, notes, distributed_by)
		 VALUES (?, ?, ?, ?, ?)`,
		organizationID, itemID, quantity, notes, distributedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("recording distribution: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing distribution: %w", err)
	}

	id, _ := result.LastInsertId()
	return GetDistribution(ctx, db, id)
}

// GetDistribution returns a distribution by ID.
func GetDistribution(ctx context.Context, db *sql.DB, id int64) (*model.Distribution, error) {
	d := &model.Distribution{}
	var notes sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT d.id, d.organization_id, d.item_id, d.quantity, d.notes, d.distributed_at, d.distributed_by,
		        i.name AS item_name
		 FROM distributions d
		 JOIN items i ON i.id = d.item_id
		 WHERE d.id = ?`, id,
	).Scan(&d.ID, &d.OrganizationID, &d.ItemID, &d.Quantity, &notes, &d.DistributedAt, &d.DistributedBy, &d.ItemName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting distribution: %w", err)
	}
	d.Notes = notes.String
	return d, nil
}

// ListDistributions returns an organization's distributions, newest first.
func ListDistributions(ctx context.Context, db *sql.DB, organizationID int64) ([]model.Distribution, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT d.id, d.organization_id, d.item_id, d.quantity, d.notes, d.distributed_at, d.distributed_by,
		        i.name AS item_name
		 FROM distributions d
		 JOIN items i ON i.id = d.item_id
		 WHERE d.organization_id = ?
		 ORDER BY d.distributed_at DESC, d.id DESC`, organizationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing distributions: %w", err)
	}
	defer rows.Close()

	var distributions []model.Distribution
	for rows.Next() {
		var d model.Distribution
		var notes sql.NullString
		if err := rows.Scan(&d.ID, &d.OrganizationID, &d.ItemID, &d.Quantity, &notes, &d.DistributedAt, &d.DistributedBy, &d.ItemName); err != nil {
			return nil, fmt.Errorf("scanning distribution: %w", err)
		}
		d.Notes = notes.String
		distributions = append(distributions, d)
	}
	return distributions, rows.Err()
}
