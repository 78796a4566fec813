// Package server provides the HTTP API for parsing uploaded resumes.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-parser/internal/extract"
	"github.com/jonathan/resume-parser/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a stored record was not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrStorageDisabled indicates a storage endpoint was called without a database
type ErrStorageDisabled struct{}

func (e *ErrStorageDisabled) Error() string {
	return "storage is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		unsupportedErr *extract.UnsupportedFormatError
		sizeErr        *types.SizeLimitError
		extractionErr  *extract.ExtractionError
		notFoundErr    *ErrNotFound
		disabledErr    *ErrStorageDisabled
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &unsupportedErr), errors.As(err, &sizeErr):
		return http.StatusBadRequest
	case errors.As(err, &extractionErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &disabledErr):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
