package client

import (
	"context"
	"fmt"

	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/internal/http"
	"github.com/neondatabase/neon-api-go/internal/materialize"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

// UsersClient implements the neon.UsersClient interface.
type UsersClient struct {
	httpClient *http.Client
}

// NewUsersClient creates a new UsersClient.
func NewUsersClient(httpClient *http.Client) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
	}
}

// Me retrieves the account the API key belongs to.
func (c *UsersClient) Me(ctx context.Context) (*neon.Item[neon.CurrentUserInfo], error) {
	path, err := buildPath(constants.SegmentUsers, constants.SegmentMe)
	if err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}

	user, err := materialize.Singleton[neon.CurrentUserInfo](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing current user response: %w", err)
	}

	return neon.NewItem(user), nil
}
