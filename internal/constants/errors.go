package constants

import "errors"

// CLI configuration errors.
var (
	ErrNoAPIKey          = errors.New("no API key configured, use 'neon config set-api-key' or set NEON_API_KEY")
	ErrEmptyAPIKey       = errors.New("API key must not be empty")
	ErrUnsupportedOutput = errors.New("unsupported output format, use table, json or yaml")
)

// CLI listing errors.
var (
	ErrCursorRepeated = errors.New("pagination cursor repeated")
)
