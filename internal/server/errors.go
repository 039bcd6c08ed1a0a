package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/portfolio-keeper/internal/autosave"
	"github.com/jonathan/portfolio-keeper/internal/kv"
	"github.com/jonathan/portfolio-keeper/internal/persistence"
	"github.com/jonathan/portfolio-keeper/internal/transfer"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		unknownField   *autosave.UnknownFieldError
		unknownSection *autosave.UnknownSectionError
		importErr      *transfer.ImportError
		indexErr       *persistence.BackupIndexError
		corruptErr     *persistence.CorruptBackupError
		unavailableErr *persistence.StorageUnavailableError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &unknownField):
		return http.StatusBadRequest
	case errors.As(err, &unknownSection), errors.As(err, &indexErr):
		return http.StatusNotFound
	case errors.As(err, &importErr):
		if importErr.Kind == transfer.KindStorage {
			return storageStatus(importErr.Cause)
		}
		return http.StatusUnprocessableEntity
	case errors.As(err, &corruptErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavailableErr), kv.IsUnavailable(err), kv.IsQuotaExceeded(err):
		return storageStatus(err)
	case errors.Is(err, autosave.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func storageStatus(err error) int {
	if kv.IsQuotaExceeded(err) {
		return http.StatusInsufficientStorage
	}
	return http.StatusServiceUnavailable
}
