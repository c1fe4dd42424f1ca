package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports malformed input on a specific field. Never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError covers both a genuinely missing record and a record owned by
// another tenant; callers cannot tell the two apart.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// OverpaymentError rejects a payment that would exceed the open balance. It
// carries the actual remaining amount so the caller can present it; the
// payment is never silently clamped.
type OverpaymentError struct {
	Remaining decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment exceeds remaining balance of %s", e.Remaining)
}

// ConcurrencyConflictError means a concurrent mutation invalidated this one.
// Callers should retry the whole operation: re-read, re-validate, re-apply.
type ConcurrencyConflictError struct {
	Resource string
	ID       string
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently", e.Resource, e.ID)
}
