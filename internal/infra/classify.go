package infra

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// ErrNoAvailableRates is returned by the lock step when the upstream
// reports the rate can no longer be honored within the tolerance.
// Terminal: the caller must re-quote.
var ErrNoAvailableRates = errors.New("no available rates")

// slug values the upstream error envelope uses for not-found semantics.
var notFoundSlugs = map[string]bool{
	"order_not_found": true,
	"not_found":       true,
	"hash_not_found":  true,
}

var transportFailureFragments = []string{
	"connection aborted",
	"connection reset",
	"connection refused",
	"broken pipe",
	"no such host",
	"timed out",
	"timeout",
	"eof",
}

// Classify turns a raw transport/HTTP failure into a classified Error.
// Pure function of the input; rules are checked in order, first match
// wins.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, ErrNoAvailableRates) {
		return &Error{
			Category:  CategoryValidation,
			Retryable: false,
			Message:   "rate no longer available within tolerance",
			err:       err,
		}
	}

	if isTransportFailure(err) {
		return &Error{
			Category:  CategoryUnavailable,
			Retryable: true,
			Message:   "upstream transport failure",
			err:       err,
		}
	}

	var status *StatusError
	if errors.As(err, &status) {
		return classifyStatus(status)
	}

	return &Error{
		Category:  CategoryUnknown,
		Retryable: false,
		Message:   "unclassified upstream failure",
		err:       err,
	}
}

func classifyStatus(status *StatusError) *Error {
	switch status.Code {
	case 408, 500, 502, 503, 504:
		return &Error{
			Category:  CategoryUnavailable,
			Retryable: true,
			Message:   "upstream temporarily unavailable",
			err:       status,
		}
	case 429:
		return &Error{
			Category:  CategoryRateLimited,
			Retryable: true,
			Message:   "upstream rate limit exceeded",
			err:       status,
		}
	case 404:
		if notFoundSlugs[status.Slug] || strings.Contains(strings.ToLower(status.Body), "not found") {
			return &Error{
				Category:  CategoryNotFound,
				Retryable: false,
				Message:   "upstream resource not found",
				err:       status,
			}
		}
		// A bare 404 without not-found semantics is a caller problem.
		return &Error{
			Category:  CategoryValidation,
			Retryable: false,
			Message:   "upstream rejected the request",
			err:       status,
		}
	case 401, 403:
		return &Error{
			Category:  CategoryAuth,
			Retryable: false,
			Message:   "upstream rejected credentials",
			err:       status,
		}
	}

	if status.Code >= 400 && status.Code < 500 {
		return &Error{
			Category:  CategoryValidation,
			Retryable: false,
			Message:   "upstream rejected the request",
			err:       status,
		}
	}

	return &Error{
		Category:  CategoryUnknown,
		Retryable: false,
		Message:   "unexpected upstream response",
		err:       status,
	}
}

func isTransportFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	s := strings.ToLower(err.Error())
	for _, frag := range transportFailureFragments {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
