package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/QuangMinh07/BE-NOM-sub000/repository"
)

// Error kinds returned by services. Callers match them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUpstream     = errors.New("upstream service failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

func notFound(what string) error {
	return fmt.Errorf("%w: %s not found", ErrNotFound, what)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func upstream(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstream, what, err)
}

// dbErr translates storage errors into the service error kinds.
func dbErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(what)
	case errors.Is(err, repository.ErrStaleVersion):
		return conflict("%s was modified concurrently, retry", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return conflict("%s already exists", what)
	default:
		return err
	}
}

var errStorageDisabled = errors.New("object storage is not configured")
