package barcode

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by Resolve when no barcode matches the scanned
// value in either the organization's local set or the global set. It is an
// expected outcome, distinct from store failures, which propagate as
// wrapped driver errors.
var ErrNotFound = errors.New("barcode not found")

// Validation failure kinds.
const (
	KindMissingOwner        = "missing_owner"
	KindMissingValue        = "missing_value"
	KindMissingQuantity     = "missing_quantity"
	KindInvalidQuantity     = "invalid_quantity"
	KindNegativeQuantity    = "negative_quantity"
	KindMissingOrganization = "missing_organization"
	KindDuplicateValue      = "duplicate_value"
)

// ValidationError describes a single rejected aspect of a candidate.
type ValidationError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ValidationErrors is the full set of failures for a candidate. All checks
// run; nothing short-circuits on the first failure.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Message
	}
	return "invalid barcode: " + strings.Join(msgs, "; ")
}

// Has reports whether the set contains a failure of the given kind.
func (ve ValidationErrors) Has(kind string) bool {
	for _, e := range ve {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// AsValidationErrors unwraps err into ValidationErrors if it is one.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
