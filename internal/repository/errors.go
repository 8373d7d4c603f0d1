package repository

import (
	"errors"

	"github.com/zimstream/stream-ops-service/internal/store"
)

// Domain-level errors I prefer to bubble up from repository implementations.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnavailable   = errors.New("store unavailable")
)

// MapStoreError translates store sentinel errors to domain errors.
// I only map what I expect to handle explicitly at higher layers; everything
// else passes through.
func MapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrConflict):
		return ErrAlreadyExists
	case errors.Is(err, store.ErrUnavailable), errors.Is(err, store.ErrUnauthorized):
		return ErrUnavailable
	default:
		return err
	}
}
