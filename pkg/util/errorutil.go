package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Taxonomy codes. Every failure the engine produces carries one of these.
const (
	CodeValidation             = "VALIDATION_FAILED"
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeTerminalState          = "TERMINAL_STATE"
	CodeMissingEvidence        = "MISSING_EVIDENCE"
	CodeForbidden              = "FORBIDDEN"
	CodeConcurrentModification = "CONFLICT"
	CodeTimeout                = "TIMEOUT"
	CodeNotFound               = "NOT_FOUND"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeInternal               = "INTERNAL_ERROR"
)

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

// NewInvalidTransition reports an illegal state change attempt.
func NewInvalidTransition(current, attempted string) error {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("transition %s not legal from %s", attempted, current),
		http.StatusConflict,
		map[string]any{"current_status": current, "attempted": attempted})
}

// NewTerminalState reports a transition attempt on an absorbed ticket.
// Likely a duplicate UI action; the stored record is untouched.
func NewTerminalState(current string) error {
	return NewDomainError(CodeTerminalState,
		fmt.Sprintf("ticket already %s", current),
		http.StatusConflict,
		map[string]any{"current_status": current})
}

// NewMissingEvidence reports completion without an "after" reference.
func NewMissingEvidence() error {
	return NewDomainError(CodeMissingEvidence,
		"completion requires an evidence reference",
		http.StatusBadRequest, nil)
}

// NewConcurrentModification reports a lost optimistic-guard race.
// Safe to retry once with a fresh read.
func NewConcurrentModification(details map[string]any) error {
	return NewDomainError(CodeConcurrentModification,
		"ticket changed concurrently", http.StatusConflict, details)
}

// NewTimeout reports an exhausted store deadline. Retryable with backoff.
func NewTimeout(err error) error {
	return &DomainError{
		Code:       CodeTimeout,
		Message:    "record store timed out",
		HTTPStatus: http.StatusGatewayTimeout,
		Err:        err,
	}
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := CodeInternal
		switch fiberErr.Code {
		case http.StatusUnauthorized:
			code = CodeUnauthorized
		case http.StatusForbidden:
			code = CodeForbidden
		case http.StatusNotFound:
			code = CodeNotFound
		case http.StatusBadRequest:
			code = CodeValidation
		}
		return &DomainError{Code: code, Message: fiberErr.Message, HTTPStatus: fiberErr.Code}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		if de, ok := NewTimeout(err).(*DomainError); ok {
			return de
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
