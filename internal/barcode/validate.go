package barcode

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"donorbase/internal/model"
)

// Candidate is a barcode registration request. Quantity is kept as the raw
// input string so that non-numeric input surfaces as a validation failure
// rather than being rejected at the transport layer.
type Candidate struct {
	Value          string
	Quantity       string
	OwnerKind      string
	OwnerID        int64
	OrganizationID *int64
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// validate runs every check against the candidate and collects all failures.
// The returned error reports store failures during the checks themselves;
// validation outcomes are in the ValidationErrors slice.
func validate(ctx context.Context, q querier, c Candidate) (int64, ValidationErrors, error) {
	var errs ValidationErrors

	ownerOK, err := ownerExists(ctx, q, c.OwnerKind, c.OwnerID)
	if err != nil {
		return 0, nil, err
	}
	if !ownerOK {
		errs = append(errs, ValidationError{KindMissingOwner, "owner must exist"})
	}

	if strings.TrimSpace(c.Value) == "" {
		errs = append(errs, ValidationError{KindMissingValue, "value can't be blank"})
	}

	quantity, qtyErr := parseQuantity(c.Quantity)
	if qtyErr != nil {
		errs = append(errs, *qtyErr)
	}

	// Item-owned barcodes are organization-scoped and must carry the
	// organization. Canonical-owned barcodes are global and never do.
	if c.OwnerKind == model.OwnerKindItem && c.OrganizationID == nil {
		errs = append(errs, ValidationError{KindMissingOrganization, "organization can't be blank"})
	}

	dup, err := valueTaken(ctx, q, c.Value, c.OrganizationID)
	if err != nil {
		return 0, nil, err
	}
	if dup {
		errs = append(errs, ValidationError{KindDuplicateValue, "value has already been taken"})
	}

	return quantity, errs, nil
}

func parseQuantity(raw string) (int64, *ValidationError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ValidationError{KindMissingQuantity, "quantity can't be blank"}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ValidationError{KindInvalidQuantity, "quantity is not a number"}
	}
	if n < 0 {
		return 0, &ValidationError{KindNegativeQuantity, "quantity must be greater than or equal to 0"}
	}
	return n, nil
}

// ownerExists checks that the owner reference resolves to a live entity.
func ownerExists(ctx context.Context, q querier, kind string, id int64) (bool, error) {
	var query string
	switch kind {
	case model.OwnerKindItem:
		query = `SELECT COUNT(*) FROM items WHERE id = ? AND deleted_at IS NULL`
	case model.OwnerKindCanonical:
		query = `SELECT COUNT(*) FROM canonical_items WHERE id = ?`
	default:
		return false, nil
	}

	var count int
	if err := q.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return false, fmt.Errorf("checking barcode owner: %w", err)
	}
	return count > 0, nil
}

// valueTaken checks the candidate's uniqueness domain: the global set when
// orgID is nil, otherwise that single organization. The two domains are
// independent; a local value never collides with a global one.
func valueTaken(ctx context.Context, q querier, value string, orgID *int64) (bool, error) {
	var (
		count int
		err   error
	)
	if orgID == nil {
		err = q.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM barcodes WHERE value = ? AND organization_id IS NULL`,
			value,
		).Scan(&count)
	} else {
		err = q.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM barcodes WHERE value = ? AND organization_id = ?`,
			value, *orgID,
		).Scan(&count)
	}
	if err != nil {
		return false, fmt.Errorf("checking barcode value uniqueness: %w", err)
	}
	return count > 0, nil
}
