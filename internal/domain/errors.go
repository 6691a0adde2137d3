package domain

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNetwork      = errors.New("network failure")
	ErrValidation   = errors.New("validation failed")
	ErrBusy         = errors.New("operation already in progress")
)

// GenericMessage is shown when the server did not say what went wrong.
const GenericMessage = "Something went wrong. Please try again."

// APIError is a non-2xx answer from the upstream API.
// Fields carries per-field validation messages when the server sent them.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return GenericMessage
	}
	return e.Message
}

// Is lets callers test the status class with errors.Is(err, ErrConflict) etc.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	}
	return false
}

// ValidationError is a client-side rejection; no request was sent.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Message returns the text to show in the error banner for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Error()
	}
	if errors.Is(err, ErrNetwork) {
		return "Could not reach the server. Check your connection and try again."
	}
	if errors.Is(err, ErrBusy) {
		return "Another operation is still running on this screen."
	}
	return GenericMessage
}

// FieldErrors returns the per-field messages carried by err, if any.
func FieldErrors(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}
