package store

import (
	"context"
	"database/sql"
	"fmt"

	"donorbase/internal/barcode"
	"donorbase/internal/model"
)

// ScanResult describes one processed intake scan.
type ScanResult struct {
	Barcode  *model.Barcode `json:"barcode"`
	Item     *model.Item    `json:"item"`
	Quantity int64          `json:"quantity"`
}

// ReceiveScan resolves a scanned value for the organization and credits the
// resolved quantity to the organization's stock. A local barcode credits its
// own item directly; a global barcode is mapped to the organization's item
// through the canonical item's partner key.
func ReceiveScan(ctx context.Context, db *sql.DB, organizationID int64, value string, scans int64) (*ScanResult, error) {
	if scans <= 0 {
		return nil, fmt.Errorf("scan count must be positive")
	}

	b, err := barcode.Resolve(ctx, db, organizationID, value)
	if err != nil {
		return nil, err
	}

	var item *model.Item
	switch b.OwnerKind {
	case model.OwnerKindItem:
		item, err = GetItem(ctx, db, b.OwnerID)
		if err != nil {
			return nil, err
		}
	case model.OwnerKindCanonical:
		canonical, err := GetCanonicalItem(ctx, db, b.OwnerID)
		if err != nil {
			return nil, err
		}
		if canonical == nil {
			return nil, fmt.Errorf("canonical item %d not found", b.OwnerID)
		}
		item, err = GetItemByPartnerKey(ctx, db, organizationID, canonical.PartnerKey)
		if err != nil {
			return nil, err
		}
	}
	if item == nil {
		return nil, fmt.Errorf("no item matches barcode %q in this organization", value)
	}

	quantity := b.Quantity * scans
	if quantity > 0 {
		if err := AddStock(ctx, db, organizationID, item.ID, quantity); err != nil {
			return nil, err
		}
	}

	return &ScanResult{Barcode: b, Item: item, Quantity: quantity}, nil
}

// AddStock credits quantity of an item to an organization's stock.
func AddStock(ctx context.Context, db *sql.DB, organizationID, itemID, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO inventory (organization_id, item_id, quantity) VALUES (?, ?, ?)
		 ON CONFLICT (organization_id, item_id) DO UPDATE SET quantity = quantity + ?`,
		organizationID, itemID, quantity, quantity,
	)
	if err != nil {
		return fmt.Errorf("adding stock: %w", err)
	}
	return nil
}

// AdjustStock corrects an organization's stock of an item by delta, which
// may be negative. A resulting quantity of zero removes the row.
func AdjustStock(ctx context.Context, db *sql.DB, organizationID, itemID, delta int64) error {
	if delta == 0 {
		return fmt.Errorf("delta must be non-zero")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var current int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(quantity, 0) FROM inventory WHERE organization_id = ? AND item_id = ?`,
		organizationID, itemID,
	).Scan(&current)
	if err == sql.ErrNoRows {
		current = 0
	} else if err != nil {
		return fmt.Errorf("checking current quantity: %w", err)
	}

	newQty := current + delta
	if newQty < 0 {
		return fmt.Errorf("adjustment would result in negative quantity: %d + %d = %d", current, delta, newQty)
	}

	if newQty == 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM inventory WHERE organization_id = ? AND item_id = ?`,
			organizationID, itemID,
		)
	} else if current == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO inventory (organization_id, item_id, quantity) VALUES (?, ?, ?)`,
			organizationID, itemID, newQty,
		)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE inventory SET quantity = ? WHERE organization_id = ? AND item_id = ?`,
			newQty, organizationID, itemID,
		)
	}
	if err != nil {
		return fmt.Errorf("adjusting stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing adjustment: %w", err)
	}
	return nil
}

// ListStock returns an organization's current stock.
func ListStock(ctx context.Context, db *sql.DB, organizationID int64) ([]model.Stock, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT inv.organization_id, inv.item_id, inv.quantity, i.name AS item_name
		 FROM inventory inv
		 JOIN items i ON i.id = inv.item_id
		 WHERE inv.organization_id = ?
		 ORDER BY i.name`, organizationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing stock: %w", err)
	}
	defer rows.Close()

	var stock []model.Stock
	for rows.Next() {
		var s model.Stock
		if err := rows.Scan(&s.OrganizationID, &s.ItemID, &s.Quantity, &s.ItemName); err != nil {
			return nil, fmt.Errorf("scanning stock: %w", err)
		}
		stock = append(stock, s)
	}
	return stock, rows.Err()
}
