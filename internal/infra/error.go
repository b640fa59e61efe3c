package infra

import (
	"errors"
	"fmt"
	"net/http"
)

// Category buckets an upstream failure for retry and status mapping.
type Category string

const (
	CategoryValidation  Category = "validation"
	CategoryRateLimited Category = "rate_limited"
	CategoryUnavailable Category = "upstream_unavailable"
	CategoryNotFound    Category = "not_found"
	CategoryAuth        Category = "auth"
	CategoryUnknown     Category = "unknown"
)

// Error is a classified upstream failure: category, retryability, the
// HTTP status this service should surface, and the original failure for
// diagnostics. Created fresh per failure, never mutated.
type Error struct {
	Category  Category
	Retryable bool
	Message   string
	err       error
}

func (e *Error) Error() string {
	if e.err != nil {
		return string(e.Category) + ": " + e.Message + ": " + e.err.Error()
	}
	return string(e.Category) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.err
}

// SuggestedStatus is the external HTTP status for this category.
func (e *Error) SuggestedStatus() int {
	switch e.Category {
	case CategoryValidation:
		return http.StatusBadRequest
	case CategoryRateLimited:
		return http.StatusTooManyRequests
	case CategoryUnavailable:
		return http.StatusServiceUnavailable
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryAuth:
		// Upstream credential failure is never the caller's fault here.
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func IsCategory(err error, cat Category) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == cat
	}
	return false
}

func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// StatusError is a raw non-2xx response from the upstream API, before
// classification. Slug is the machine slug from the error envelope.
type StatusError struct {
	Code int
	Slug string
	Body string
}

func (e *StatusError) Error() string {
	if e.Slug != "" {
		return fmt.Sprintf("upstream returned %d (%s)", e.Code, e.Slug)
	}
	return fmt.Sprintf("upstream returned %d", e.Code)
}
