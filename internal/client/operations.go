package client

import (
	"context"
	"fmt"

	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/internal/http"
	"github.com/neondatabase/neon-api-go/internal/materialize"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

var operationKeys = []neon.Key[neon.Operation]{
	{Name: "id", Value: func(o neon.Operation) string { return o.ID }},
}

// OperationsClient implements the neon.OperationsClient interface.
type OperationsClient struct {
	httpClient *http.Client
}

// NewOperationsClient creates a new OperationsClient.
func NewOperationsClient(httpClient *http.Client) *OperationsClient {
	return &OperationsClient{
		httpClient: httpClient,
	}
}

// List lists the operations of a project, newest first.
func (c *OperationsClient) List(ctx context.Context, projectID string, opts *neon.ListOptions) (*neon.Collection[neon.Operation], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentOperations)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, opts.Values())
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}

	operations, pagination, err := materialize.Page[neon.Operation](resp.Body, constants.KeyOperations)
	if err != nil {
		return nil, fmt.Errorf("parsing operations list response: %w", err)
	}

	limit := 0
	if opts != nil {
		limit = opts.Limit
	}

	return neon.NewCollection(operations, pagination, limit, operationKeys...), nil
}

// Get retrieves a specific operation.
func (c *OperationsClient) Get(ctx context.Context, projectID, operationID string) (*neon.Item[neon.Operation], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentOperations, operationID)
	if err != nil {
		return nil, fmt.Errorf("getting operation: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting operation: %w", err)
	}

	operation, err := materialize.SubKey[neon.Operation](resp.Body, constants.KeyOperation)
	if err != nil {
		return nil, fmt.Errorf("parsing operation response: %w", err)
	}

	return neon.NewItem(operation), nil
}
