package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindAuth       Kind = "auth_error"
	KindValidation Kind = "validation_error"
	KindExtraction Kind = "extraction_error"
	KindUpstream   Kind = "upstream_error"
	KindGeneration Kind = "generation_error"
	KindNotFound   Kind = "not_found"
	KindTimeout    Kind = "timeout"
	KindInternal   Kind = "internal_error"
)

// Error carries a Kind through wrapped error chains so the HTTP boundary can
// pick a status code without string matching.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Auth(message string) error       { return New(KindAuth, message) }
func Validation(message string) error { return New(KindValidation, message) }
func NotFound(message string) error   { return New(KindNotFound, message) }
func Extraction(message string) error { return New(KindExtraction, message) }

func Upstream(message string, err error) error   { return Wrap(KindUpstream, message, err) }
func Generation(message string, err error) error { return Wrap(KindGeneration, message, err) }
func Internal(message string, err error) error   { return Wrap(KindInternal, message, err) }

// KindOf returns the outermost Kind in the chain. A deadline anywhere in the
// chain wins so that pipeline timeouts surface as timeouts.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func StatusCode(err error) int {
	switch KindOf(err) {
	case KindAuth:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindExtraction:
		return http.StatusUnprocessableEntity
	case KindUpstream, KindGeneration:
		return http.StatusBadGateway
	case KindNotFound:
		return http.StatusNotFound
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
