package store

import (
	"fmt"

	"github.com/coinbook/coinbook/validate"
)

// ValidationError is returned when a mutation is rejected by a rule engine.
// It wraps the field-tagged result so callers can surface every finding.
type ValidationError struct {
	Result *validate.Result
}

func (e *ValidationError) Error() string {
	if len(e.Result.Errors) == 1 {
		return e.Result.Errors[0].String()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Result.Errors))
}

// NewValidationError wraps a failed validation result.
func NewValidationError(res *validate.Result) *ValidationError {
	return &ValidationError{Result: res}
}

// NotFoundError is returned when a mutation targets an entity that does not
// exist in the record set.
type NotFoundError struct {
	Kind string // "currency", "account", "transaction", "exchangeRate"
	Ref  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Ref)
}

// NewNotFoundError creates a NotFoundError for the given entity.
func NewNotFoundError(kind, ref string) *NotFoundError {
	return &NotFoundError{Kind: kind, Ref: ref}
}

// UsageError is returned when a deletion is blocked by live references.
// Count and Kind are machine-readable so a caller can render
// "N transactions reference this".
type UsageError struct {
	Kind  string // what was being deleted
	Ref   string // its identifier
	Count int    // number of live references
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("cannot delete %s %s: referenced by %d posting(s)", e.Kind, e.Ref, e.Count)
}

// Details returns the machine-readable detail map for diagnostics.
func (e *UsageError) Details() map[string]any {
	return map[string]any{"type": e.Kind, "count": e.Count}
}

// NewUsageError creates a UsageError for a blocked deletion.
func NewUsageError(kind, ref string, count int) *UsageError {
	return &UsageError{Kind: kind, Ref: ref, Count: count}
}
