package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/aluiziolira/go-scrape-eats/payload"
)

// Error categories used as metric labels and in run summaries.
const (
	errTimeout     = "timeout"
	errConnection  = "connection"
	errForbidden   = "forbidden"
	errNotFound    = "not_found"
	errRateLimited = "rate_limited"
	errPayload     = "payload"
	errOther       = "other"
)

// FetchError is a transport or HTTP failure tagged with its category.
type FetchError struct {
	Category string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// classifyError sorts a request failure into one of the categories
// above. Transport-level failures take precedence over HTTP status.
func classifyError(err error, statusCode int) *FetchError {
	if errors.Is(err, payload.ErrNoPayload) {
		return &FetchError{Category: errPayload, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Category: errTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &FetchError{Category: errTimeout, Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &FetchError{Category: errConnection, Err: err}
	}

	if statusCode != 0 {
		wrapped := err
		if wrapped == nil {
			wrapped = fmt.Errorf("http status %d", statusCode)
		}
		switch statusCode {
		case http.StatusForbidden:
			return &FetchError{Category: errForbidden, Err: wrapped}
		case http.StatusNotFound:
			return &FetchError{Category: errNotFound, Err: wrapped}
		case http.StatusTooManyRequests:
			return &FetchError{Category: errRateLimited, Err: wrapped}
		}
	}

	if err == nil {
		err = fmt.Errorf("unknown failure")
	}
	return &FetchError{Category: errOther, Err: err}
}
