package neon

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors matched by APIError.Is. Declared as variables for err113 compliance.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrResourceNotFound = errors.New("resource not found")
	ErrRateLimited      = errors.New("rate limited")
)

// Argument and construction errors.
var (
	ErrEmptyPathSegment = errors.New("path segment is empty")
	ErrConfigRequired   = errors.New("config is required")
	ErrAPIKeyRequired   = errors.New("API key is required")
)

// APIError is returned for every non-2xx response. Body holds the raw
// response text; it is never parsed.
type APIError struct {
	StatusCode int
	Body       string
	Method     string
	Path       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("neon API error: %s %s returned %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}

	return msg
}

// Is maps well-known status codes to the package sentinels.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return target == ErrUnauthorized
	case http.StatusForbidden:
		return target == ErrForbidden
	case http.StatusNotFound:
		return target == ErrResourceNotFound
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	}

	return false
}

// SchemaError reports a response body that does not match the declared record shape.
type SchemaError struct {
	Record   string
	Field    string
	Expected string
	Got      string
	Err      error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder

	b.WriteString("schema mismatch for ")
	b.WriteString(e.Record)

	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}

	if e.Expected != "" || e.Got != "" {
		fmt.Fprintf(&b, ": expected %s, got %s", e.Expected, e.Got)
	}

	return b.String()
}

// Unwrap returns the underlying decode error, if any.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned by Collection.Lookup when no record matches.
type NotFoundError struct {
	Keys  []string
	Value string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no record with %s = %q", strings.Join(e.Keys, " or "), e.Value)
}

// ConfigurationError is returned when a client cannot be constructed.
type ConfigurationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Reason
	}

	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// IsNotFound checks if the error is a 404 from the API or a failed collection lookup.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrResourceNotFound) {
		return true
	}

	notFound := &NotFoundError{}

	return errors.As(err, &notFound)
}

// IsUnauthorized checks if the error is a 401 from the API.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if the error is a 403 from the API.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
