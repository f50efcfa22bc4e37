// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports malformed input. Each problem names the violated rule,
// e.g. "week 1 day 3 has no exercises and is not marked rest".
type ValidationError struct {
	Problems []string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Problems: []string{fmt.Sprintf(format, args...)}}
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// NotFoundError reports an operation on a missing Plan, Week, Day or Session.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// TransactionError wraps a failure of the underlying store transaction.
// It is surfaced as-is and never retried.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsTransaction(err error) bool {
	var te *TransactionError
	return errors.As(err, &te)
}
