// Package conninfo inspects and checks the Postgres connection URIs returned
// by the connection_uri endpoint.
package conninfo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/neondatabase/neon-api-go/internal/constants"
)

var (
	// ErrNoPassword is returned by Password when the URI carries none.
	ErrNoPassword = errors.New("connection URI has no password")
	// ErrNotRedactable is returned by Redact for keyword/value connection
	// strings that carry a password.
	ErrNotRedactable = errors.New("cannot redact a keyword/value connection string")
)

// poolerSuffix marks the pooled host of a Neon endpoint.
const poolerSuffix = "-pooler"

// Info is the parsed, password-free view of a connection URI.
type Info struct {
	Host     string `json:"host"     yaml:"host"`
	Port     uint16 `json:"port"     yaml:"port"`
	Database string `json:"database" yaml:"database"`
	User     string `json:"user"     yaml:"user"`
	TLS      bool   `json:"tls"      yaml:"tls"`
	Pooled   bool   `json:"pooled"   yaml:"pooled"`
}

// Parse parses a connection URI the way pgx would connect with it.
func Parse(uri string) (*Info, error) {
	cfg, err := pgconn.ParseConfig(uri)
	if err != nil {
		return nil, fmt.Errorf("parsing connection uri: %w", err)
	}

	endpointID, _, _ := strings.Cut(cfg.Host, ".")

	return &Info{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Database: cfg.Database,
		User:     cfg.User,
		TLS:      cfg.TLSConfig != nil,
		Pooled:   strings.HasSuffix(endpointID, poolerSuffix),
	}, nil
}

// Password returns the password embedded in the URI.
func Password(uri string) (string, error) {
	cfg, err := pgconn.ParseConfig(uri)
	if err != nil {
		return "", fmt.Errorf("parsing connection uri: %w", err)
	}

	if cfg.Password == "" {
		return "", ErrNoPassword
	}

	return cfg.Password, nil
}

// Redact replaces the password of a URL-form connection string with a
// placeholder. The rest of the URI is kept verbatim. A keyword/value string
// with a password is refused rather than returned unmasked.
func Redact(uri string) (string, error) {
	if _, err := Password(uri); err != nil {
		if errors.Is(err, ErrNoPassword) {
			return uri, nil
		}

		return "", err
	}

	if !strings.HasPrefix(uri, "postgres://") && !strings.HasPrefix(uri, "postgresql://") {
		return "", ErrNotRedactable
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parsing connection uri: %w", err)
	}

	// The password may come from the environment rather than the URI.
	if parsed.User == nil {
		return uri, nil
	}

	if _, ok := parsed.User.Password(); !ok {
		return uri, nil
	}

	parsed.User = url.UserPassword(parsed.User.Username(), constants.RedactedPassword)

	return parsed.String(), nil
}

// Ping opens a single connection with the URI and pings the server.
func Ping(ctx context.Context, uri string) error {
	conn, err := pgx.Connect(ctx, uri)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	defer func() { _ = conn.Close(ctx) }()

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
