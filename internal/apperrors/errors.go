package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidState indicates that an operation is not legal for the resource's
// current lifecycle state (e.g. rolling back a transaction twice).
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrPersistence indicates a storage-layer failure during an atomic commit.
// Nothing partial was written, so the operation is safe to retry.
var ErrPersistence = errors.New("persistence failure")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Violation describes a single validation failure within a posting group.
// LineIndex is -1 for entry-level violations.
type Violation struct {
	EntryIndex int    `json:"entryIndex"`
	LineIndex  int    `json:"lineIndex"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Violation codes reported by the posting validator.
const (
	CodeMissingAccount   = "MISSING_ACCOUNT"
	CodeInvalidAmount    = "INVALID_AMOUNT"
	CodeAmbiguousLine    = "AMBIGUOUS_LINE"
	CodeEmptyLine        = "EMPTY_LINE"
	CodeEmptyEntry       = "EMPTY_ENTRY"
	CodeUnbalancedEntry  = "UNBALANCED_ENTRY"
	CodeCurrencyMismatch = "CURRENCY_MISMATCH"
	CodeMissingCurrency  = "MISSING_CURRENCY"
	CodeUnknownAccount   = "UNKNOWN_ACCOUNT"
	CodeInactiveAccount  = "INACTIVE_ACCOUNT"
	CodeAccountCurrency  = "ACCOUNT_CURRENCY_MISMATCH"
)

// ValidationErrors carries every violation found in one validation pass so that
// callers get a complete diagnostic in a single round trip.
type ValidationErrors struct {
	Violations []Violation
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = fmt.Sprintf("entry %d line %d [%s]: %s", v.EntryIndex, v.LineIndex, v.Code, v.Message)
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(msgs, "; "))
}

// Unwrap lets errors.Is(err, ErrValidation) match a ValidationErrors value.
func (e *ValidationErrors) Unwrap() error {
	return ErrValidation
}

// NewValidationErrors wraps a non-empty violation list into an error.
func NewValidationErrors(violations []Violation) *ValidationErrors {
	return &ValidationErrors{Violations: violations}
}
