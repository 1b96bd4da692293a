package client

import (
	"context"
	"fmt"

	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/internal/http"
	"github.com/neondatabase/neon-api-go/internal/materialize"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

var consumptionKeys = []neon.Key[neon.ProjectConsumption]{
	{Name: "project_id", Value: func(p neon.ProjectConsumption) string { return p.ProjectID }},
}

// ConsumptionClient implements the neon.ConsumptionClient interface.
type ConsumptionClient struct {
	httpClient *http.Client
}

// NewConsumptionClient creates a new ConsumptionClient.
func NewConsumptionClient(httpClient *http.Client) *ConsumptionClient {
	return &ConsumptionClient{
		httpClient: httpClient,
	}
}

// ListProjects lists per-project consumption within the requested window.
func (c *ConsumptionClient) ListProjects(ctx context.Context, opts *neon.ConsumptionListOptions) (*neon.Collection[neon.ProjectConsumption], error) {
	path, err := buildPath(constants.SegmentConsumption, constants.SegmentProjects)
	if err != nil {
		return nil, fmt.Errorf("listing project consumption: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, opts.Values())
	if err != nil {
		return nil, fmt.Errorf("listing project consumption: %w", err)
	}

	projects, pagination, err := materialize.Page[neon.ProjectConsumption](resp.Body, constants.KeyProjects)
	if err != nil {
		return nil, fmt.Errorf("parsing project consumption response: %w", err)
	}

	limit := 0
	if opts != nil {
		limit = opts.Limit
	}

	return neon.NewCollection(projects, pagination, limit, consumptionKeys...), nil
}
