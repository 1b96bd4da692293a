package client

import (
	"context"
	"fmt"

	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/internal/http"
	"github.com/neondatabase/neon-api-go/internal/materialize"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

var apiKeyKeys = []neon.Key[neon.APIKey]{
	{Name: "id", Value: func(k neon.APIKey) string { return k.ID.String() }},
	{Name: "name", Value: func(k neon.APIKey) string { return k.Name }},
}

// APIKeysClient implements the neon.APIKeysClient interface.
type APIKeysClient struct {
	httpClient *http.Client
}

// NewAPIKeysClient creates a new APIKeysClient.
func NewAPIKeysClient(httpClient *http.Client) *APIKeysClient {
	return &APIKeysClient{
		httpClient: httpClient,
	}
}

// List lists the API keys of the account. The API returns a bare array.
func (c *APIKeysClient) List(ctx context.Context) (*neon.Collection[neon.APIKey], error) {
	path, err := buildPath(constants.SegmentAPIKeys)
	if err != nil {
		return nil, fmt.Errorf("listing api keys: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing api keys: %w", err)
	}

	keys, err := materialize.Array[neon.APIKey](resp.Body, "")
	if err != nil {
		return nil, fmt.Errorf("parsing api keys list response: %w", err)
	}

	return neon.NewCollection(keys, nil, 0, apiKeyKeys...), nil
}

// Create creates a new API key. The secret is only returned here.
func (c *APIKeysClient) Create(ctx context.Context, payload neon.APIKeyPayload) (*neon.Item[neon.APIKeyCreated], error) {
	path, err := buildPath(constants.SegmentAPIKeys)
	if err != nil {
		return nil, fmt.Errorf("creating api key: %w", err)
	}

	var body any = neon.Fields{}.APIKeyBody()
	if payload != nil {
		body = payload.APIKeyBody()
	}

	resp, err := c.httpClient.Post(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("creating api key: %w", err)
	}

	created, err := materialize.Singleton[neon.APIKeyCreated](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing api key response: %w", err)
	}

	return neon.NewItem(created), nil
}

// Revoke revokes an API key and returns its final state.
func (c *APIKeysClient) Revoke(ctx context.Context, keyID string) (*neon.Item[neon.APIKeyRevoked], error) {
	path, err := buildPath(constants.SegmentAPIKeys, keyID)
	if err != nil {
		return nil, fmt.Errorf("revoking api key: %w", err)
	}

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("revoking api key: %w", err)
	}

	revoked, err := materialize.Singleton[neon.APIKeyRevoked](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing api key response: %w", err)
	}

	return neon.NewItem(revoked), nil
}
