package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalService = errors.New("external service error")
	ErrValidation      = errors.New("validation error")
	ErrConfiguration   = errors.New("configuration error")
	ErrNotFound        = errors.New("not found")
	ErrTimeout         = errors.New("timeout")
	ErrTransient       = errors.New("transient failure")
)

// ErrorKind labels the broad failure category derived from the sentinel markers.
type ErrorKind string

const (
	KindExternalService ErrorKind = "external_service"
	KindValidation      ErrorKind = "validation"
	KindConfiguration   ErrorKind = "configuration"
	KindNotFound        ErrorKind = "not_found"
	KindTimeout         ErrorKind = "timeout"
	KindTransient       ErrorKind = "transient"
)

// Wrap builds an error message that includes step context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, step, operation, message string, err error) error {
	detail := buildDetail(step, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

type hintedError struct {
	err  error
	hint string
}

func (h *hintedError) Error() string { return h.err.Error() }

func (h *hintedError) Unwrap() error { return h.err }

// WithHint attaches an operator-facing remediation hint to an error.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return err
	}
	return &hintedError{err: err, hint: hint}
}

// ErrorDetails captures the classified view of a step failure for logging and
// user-facing messages.
type ErrorDetails struct {
	Kind    ErrorKind
	Message string
	Hint    string
	Cause   error
}

// Details classifies an error produced by a step adapter.
func Details(err error) ErrorDetails {
	details := ErrorDetails{Kind: KindTransient}
	if err == nil {
		return details
	}
	details.Message = strings.TrimSpace(err.Error())
	details.Cause = err
	switch {
	case errors.Is(err, ErrValidation):
		details.Kind = KindValidation
	case errors.Is(err, ErrConfiguration):
		details.Kind = KindConfiguration
	case errors.Is(err, ErrNotFound):
		details.Kind = KindNotFound
	case errors.Is(err, ErrTimeout):
		details.Kind = KindTimeout
	case errors.Is(err, ErrExternalService):
		details.Kind = KindExternalService
	}
	var hinted *hintedError
	if errors.As(err, &hinted) {
		details.Hint = hinted.hint
	}
	return details
}

func buildDetail(step, operation, message string) string {
	parts := make([]string, 0, 3)
	if step = strings.TrimSpace(step); step != "" {
		parts = append(parts, step)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
