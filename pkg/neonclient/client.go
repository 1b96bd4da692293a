// Package neonclient provides the main entry point for creating Neon API clients
package neonclient

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/neondatabase/neon-api-go/internal/client"
	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

var validate = validator.New()

// New creates a new Neon API client. Empty BaseURL, UserAgent and HTTPTimeout
// are filled with defaults; the caller's config is not modified.
func New(config *neon.Config) (neon.Client, error) {
	if config == nil {
		return nil, neon.ErrConfigRequired
	}

	resolved := withDefaults(*config)

	err := validateConfig(&resolved)
	if err != nil {
		return nil, err
	}

	c, err := client.New(&resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewWithAPIKey creates a new client for the default API root.
func NewWithAPIKey(apiKey string) (neon.Client, error) {
	return New(&neon.Config{
		APIKey: apiKey,
	})
}

// NewFromEnv creates a new client from NEON_API_KEY and, when set,
// NEON_API_BASE_URL. A missing key fails without sending any request.
func NewFromEnv() (neon.Client, error) {
	apiKey := strings.TrimSpace(os.Getenv(constants.EnvAPIKey))
	if apiKey == "" {
		return nil, &neon.ConfigurationError{
			Field:  "APIKey",
			Reason: "is required: set " + constants.EnvAPIKey,
		}
	}

	return New(&neon.Config{
		APIKey:  apiKey,
		BaseURL: strings.TrimSpace(os.Getenv(constants.EnvBaseURL)),
	})
}

func withDefaults(config neon.Config) neon.Config {
	if config.BaseURL == "" {
		config.BaseURL = constants.DefaultBaseURL
	}

	if config.UserAgent == "" {
		config.UserAgent = constants.UserAgent
	}

	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = constants.DefaultHTTPTimeout
	}

	return config
}

// validateConfig reports the first violated rule as a ConfigurationError.
func validateConfig(config *neon.Config) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return &neon.ConfigurationError{Reason: err.Error()}
	}

	first := validationErrors[0]

	return &neon.ConfigurationError{Field: first.Field(), Reason: reasonFor(first.Tag())}
}

func reasonFor(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "http_url":
		return "must be an http or https URL"
	case "gte":
		return "must not be negative"
	default:
		return "failed rule " + tag
	}
}
