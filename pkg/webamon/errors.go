package webamon

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

const upgradeURL = "https://webamon.com/pricing"

// AuthError indicates a missing or invalid API key for a pro-only operation.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "authentication failed, check your API key"
}

// QuotaError indicates the daily query quota has been exhausted. It carries
// upgrade guidance so callers can surface it to the user.
type QuotaError struct {
	FreeTier bool
}

func (e *QuotaError) Error() string {
	if e.FreeTier {
		return fmt.Sprintf("rate limit exceeded, you've hit the daily quota (20 queries/day for free tier); upgrade to Pro for 1,000+ daily queries: %s", upgradeURL)
	}
	return fmt.Sprintf("rate limit exceeded, you've hit your daily API quota; check your usage or upgrade your plan at %s", upgradeURL)
}

// ForbiddenError indicates the key is valid but lacks permission.
type ForbiddenError struct{}

func (e *ForbiddenError) Error() string {
	return "access forbidden, check your permissions"
}

// NotFoundError indicates an unknown resource (report id, screenshot id, ...).
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return "resource not found"
}

// TransportError wraps network-level failures (connection refused, timeouts).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("connection failed, check your network and API URL: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError is raised locally, before any network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ExportError indicates an export target could not be written. It is the only
// error in the taxonomy that is recovered locally: the rendered artifact is
// still handed back to the caller so the result is never lost to a
// filesystem problem.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to write export to %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// errorFromStatus maps an HTTP response status to the error taxonomy. The
// free/pro distinction matters for 403 and 429: the free endpoint reports
// quota exhaustion as 403.
func errorFromStatus(status int, hasKey bool, body []byte) error {
	switch status {
	case http.StatusUnauthorized:
		return &AuthError{}
	case http.StatusForbidden:
		if !hasKey {
			return &QuotaError{FreeTier: true}
		}
		return &ForbiddenError{}
	case http.StatusNotFound:
		return &NotFoundError{}
	case http.StatusTooManyRequests:
		return &QuotaError{FreeTier: !hasKey}
	}

	if msg := gjson.GetBytes(body, "message"); msg.Exists() {
		return fmt.Errorf("API error: %s", msg.String())
	}
	return fmt.Errorf("API error: unexpected status %d", status)
}
