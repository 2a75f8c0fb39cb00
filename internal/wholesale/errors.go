package wholesale

import (
	"errors"
	"fmt"
)

// ErrOrderNumberConflict is returned by the store when the generated
// order number collides with an existing one; the orchestrator
// regenerates and retries.
var ErrOrderNumberConflict = errors.New("order number conflict")

// AuthorizationError: the buyer has no active wholesale grant for the
// seller.
type AuthorizationError struct {
	BuyerID  string
	SellerID string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("buyer %s has no wholesale access to seller %s", e.BuyerID, e.SellerID)
}

type NotFoundError struct {
	Resource string // "product", "buyer", "order"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// OwnershipError: the product exists but belongs to another seller.
type OwnershipError struct {
	ProductID string
	SellerID  string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("product %s does not belong to seller %s", e.ProductID, e.SellerID)
}

// ValidationError carries the full validation picture so callers can
// render field-level feedback. Result is nil for standalone calculator
// failures.
type ValidationError struct {
	Message string
	Result  *ValidationResult
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Result != nil && len(e.Result.Errors) > 0 {
		return "order validation failed: " + e.Result.Errors[0]
	}
	return "order validation failed"
}

type UnknownTermsError struct {
	Terms string
}

func (e *UnknownTermsError) Error() string {
	return fmt.Sprintf("unknown payment terms: %q", e.Terms)
}

// PersistenceError wraps a transaction failure. Everything was rolled
// back; no order id leaks to the caller.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "order could not be persisted" }
func (e *PersistenceError) Unwrap() error { return e.Err }
