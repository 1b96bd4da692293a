package neon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{
		StatusCode: http.StatusNotFound,
		Body:       `{"message":"project not found"}` + "\n",
		Method:     http.MethodDelete,
		Path:       "projects/p404",
	}

	assert.Equal(t, `neon API error: DELETE projects/p404 returned 404 Not Found: {"message":"project not found"}`, err.Error())

	empty := &APIError{StatusCode: http.StatusBadGateway, Method: http.MethodGet, Path: "projects"}
	assert.Equal(t, "neon API error: GET projects returned 502 Bad Gateway", empty.Error())
}

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrResourceNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := fmt.Errorf("getting project: %w", &APIError{StatusCode: tt.status})

			assert.ErrorIs(t, err, tt.sentinel)

			for _, other := range tests {
				if other.sentinel != tt.sentinel {
					assert.NotErrorIs(t, err, other.sentinel)
				}
			}
		})
	}

	assert.NotErrorIs(t, &APIError{StatusCode: http.StatusInternalServerError}, ErrResourceNotFound)
}

func TestErrorHelpers(t *testing.T) {
	notFound := fmt.Errorf("wrapped: %w", &APIError{StatusCode: http.StatusNotFound})
	lookupMiss := &NotFoundError{Keys: []string{"id", "name"}, Value: "p1"}

	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsNotFound(lookupMiss))
	assert.False(t, IsNotFound(errors.New("other")))

	assert.True(t, IsUnauthorized(&APIError{StatusCode: http.StatusUnauthorized}))
	assert.False(t, IsUnauthorized(notFound))
	assert.True(t, IsForbidden(&APIError{StatusCode: http.StatusForbidden}))

	assert.Equal(t, `no record with id or name = "p1"`, lookupMiss.Error())
}

func TestSchemaError(t *testing.T) {
	cause := &json.UnmarshalTypeError{Value: "string", Field: "id"}
	err := &SchemaError{Record: "Database", Field: "database.id", Expected: "int64", Got: "string", Err: cause}

	assert.Equal(t, "schema mismatch for Database field database.id: expected int64, got string", err.Error())

	var typeErr *json.UnmarshalTypeError
	require.ErrorAs(t, fmt.Errorf("parsing: %w", err), &typeErr)
	assert.Equal(t, "id", typeErr.Field)

	bare := &SchemaError{Record: "Project"}
	assert.Equal(t, "schema mismatch for Project", bare.Error())
}

func TestConfigurationError(t *testing.T) {
	assert.Equal(t, "invalid configuration: APIKey is required", (&ConfigurationError{Field: "APIKey", Reason: "is required"}).Error())
	assert.Equal(t, "invalid configuration: no API key", (&ConfigurationError{Reason: "no API key"}).Error())
}
