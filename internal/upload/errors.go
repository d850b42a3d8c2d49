package upload

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"conspect-web/internal/metrics"
)

var (
	ErrMissingFile        = errors.New("file not found")
	ErrInvalidType        = errors.New("invalid file type")
	ErrEmptyFile          = errors.New("file is empty")
	ErrFileTooLarge       = errors.New("file is too large")
	ErrInvalidParams      = errors.New("invalid parameters")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// ValidationError describes a rejected upload before anything was sent to the backend.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BackendError carries a non-OK response from the backend so the proxy can relay its status.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("Backend error: %d - %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("%s: %v", ErrBackendUnavailable, e.cause)
}

func (e *unavailableError) Unwrap() []error {
	return []error{ErrBackendUnavailable, e.cause}
}

// ProcessingError covers every failure that is neither a validation nor a backend answer.
type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("error processing audio: %v", e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// StatusCode maps an upload error to the HTTP status the proxy answers with.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var maxBytesErr *http.MaxBytesError
	if errors.Is(err, ErrFileTooLarge) || errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	if errors.Is(err, ErrBackendUnavailable) {
		return http.StatusServiceUnavailable
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		if backendErr.StatusCode >= 400 && backendErr.StatusCode <= 599 {
			return backendErr.StatusCode
		}
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// Message renders err the way it is shown to the client in {"error": ...}.
func Message(err error) string {
	var validationErr *ValidationError
	var backendErr *BackendError
	var processingErr *ProcessingError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.Is(err, ErrBackendUnavailable):
		return err.Error()
	case errors.As(err, &backendErr):
		return backendErr.Error()
	case errors.As(err, &processingErr):
		return processingErr.Error()
	default:
		return (&ProcessingError{Err: err}).Error()
	}
}

func outcome(err error) string {
	var validationErr *ValidationError
	var backendErr *BackendError

	switch {
	case err == nil:
		return metrics.UploadOutcomeSuccess
	case errors.As(err, &validationErr):
		return metrics.UploadOutcomeInvalid
	case errors.Is(err, ErrBackendUnavailable):
		return metrics.UploadOutcomeBackendUnavailable
	case errors.As(err, &backendErr):
		return metrics.UploadOutcomeBackendError
	default:
		return metrics.UploadOutcomeFailed
	}
}
