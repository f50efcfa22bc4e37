package service

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
)

// --- Error Definitions ---
var ErrNoArchiveTarget = errors.New("export archiving is not configured")

func errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// toValidationError folds the errors collected by multierr into one
// ValidationError, one problem per error.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	errs := multierr.Errors(err)
	problems := make([]string, 0, len(errs))
	for _, e := range errs {
		problems = append(problems, e.Error())
	}
	return &domain.ValidationError{Problems: problems}
}

// notFound turns repository.ErrNotFound into a NotFoundError naming the entity.
func notFound(err error, entity, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return err
}

// txError passes domain errors through and wraps anything else the store
// returned as a TransactionError.
func txError(op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsValidation(err) || domain.IsNotFound(err) || domain.IsTransaction(err) {
		return err
	}
	return &domain.TransactionError{Op: op, Err: err}
}
