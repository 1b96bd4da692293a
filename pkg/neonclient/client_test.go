package neonclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/neondatabase/neon-api-go/pkg/neon"
	"github.com/neondatabase/neon-api-go/pkg/neonclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates client with config", func(t *testing.T) {
		t.Parallel()

		client, err := neonclient.New(&neon.Config{APIKey: "k1"})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("does not modify the caller's config", func(t *testing.T) {
		t.Parallel()

		config := &neon.Config{APIKey: "k1"}

		_, err := neonclient.New(config)
		require.NoError(t, err)
		assert.Empty(t, config.BaseURL)
		assert.Zero(t, config.HTTPTimeout)
	})

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := neonclient.New(nil)
		require.ErrorIs(t, err, neon.ErrConfigRequired)
	})

	invalid := []struct {
		name   string
		config *neon.Config
		field  string
	}{
		{"missing API key", &neon.Config{}, "APIKey"},
		{"relative base URL", &neon.Config{APIKey: "k1", BaseURL: "console.neon.tech"}, "BaseURL"},
		{"non-http base URL", &neon.Config{APIKey: "k1", BaseURL: "ftp://console.neon.tech"}, "BaseURL"},
		{"negative timeout", &neon.Config{APIKey: "k1", HTTPTimeout: -time.Second}, "HTTPTimeout"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := neonclient.New(tt.config)
			require.Error(t, err)
			assert.Nil(t, client)

			var cfgErr *neon.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestNewWithAPIKey(t *testing.T) {
	t.Parallel()

	client, err := neonclient.NewWithAPIKey("k1")
	require.NoError(t, err)
	assert.NotNil(t, client)

	_, err = neonclient.NewWithAPIKey("")
	require.Error(t, err)
}

// Environment tests use t.Setenv and therefore cannot run in parallel.

func TestNewFromEnv_MissingKey(t *testing.T) {
	t.Setenv("NEON_API_KEY", "")

	client, err := neonclient.NewFromEnv()
	require.Error(t, err)
	assert.Nil(t, client)

	var cfgErr *neon.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "APIKey", cfgErr.Field)
	assert.Contains(t, cfgErr.Reason, "NEON_API_KEY")
}

func TestNewFromEnv(t *testing.T) {
	var auth, path string

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		auth = request.Header.Get("Authorization")
		path = request.URL.Path

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"id":"u1","email":"dev@example.com"}`))
	}))
	defer server.Close()

	t.Setenv("NEON_API_KEY", "env-key")
	t.Setenv("NEON_API_BASE_URL", server.URL+"/api/v2")

	client, err := neonclient.NewFromEnv()
	require.NoError(t, err)

	me, err := client.Users().Me(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "u1", me.Record().ID)
	assert.Equal(t, "Bearer env-key", auth)
	assert.Equal(t, "/api/v2/users/me", path)
}
