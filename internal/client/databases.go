package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/internal/http"
	"github.com/neondatabase/neon-api-go/internal/materialize"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

var databaseKeys = []neon.Key[neon.Database]{
	{Name: "name", Value: func(d neon.Database) string { return d.Name }},
	{Name: "id", Value: func(d neon.Database) string { return strconv.FormatInt(d.ID, 10) }},
}

// DatabasesClient implements the neon.DatabasesClient interface.
type DatabasesClient struct {
	httpClient *http.Client
}

// NewDatabasesClient creates a new DatabasesClient.
func NewDatabasesClient(httpClient *http.Client) *DatabasesClient {
	return &DatabasesClient{
		httpClient: httpClient,
	}
}

// List lists the databases of a branch.
func (c *DatabasesClient) List(ctx context.Context, projectID, branchID string, opts *neon.ListOptions) (*neon.Collection[neon.Database], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentBranches, branchID, constants.SegmentDatabases)
	if err != nil {
		return nil, fmt.Errorf("listing databases: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, opts.Values())
	if err != nil {
		return nil, fmt.Errorf("listing databases: %w", err)
	}

	databases, pagination, err := materialize.Page[neon.Database](resp.Body, constants.KeyDatabases)
	if err != nil {
		return nil, fmt.Errorf("parsing databases list response: %w", err)
	}

	limit := 0
	if opts != nil {
		limit = opts.Limit
	}

	return neon.NewCollection(databases, pagination, limit, databaseKeys...), nil
}

// Get retrieves a database by name.
func (c *DatabasesClient) Get(ctx context.Context, projectID, branchID, databaseName string) (*neon.Item[neon.Database], error) {
	path, err := databasePath(projectID, branchID, databaseName)
	if err != nil {
		return nil, fmt.Errorf("getting database: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting database: %w", err)
	}

	return databaseItem(resp)
}

// Create creates a database on a branch.
func (c *DatabasesClient) Create(ctx context.Context, projectID, branchID string, payload neon.DatabasePayload) (*neon.Item[neon.Database], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentBranches, branchID, constants.SegmentDatabases)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, path, databaseBody(payload))
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	return databaseItem(resp)
}

// Update renames a database or changes its owner.
func (c *DatabasesClient) Update(ctx context.Context, projectID, branchID, databaseName string, payload neon.DatabasePayload) (*neon.Item[neon.Database], error) {
	path, err := databasePath(projectID, branchID, databaseName)
	if err != nil {
		return nil, fmt.Errorf("updating database: %w", err)
	}

	resp, err := c.httpClient.Patch(ctx, path, databaseBody(payload))
	if err != nil {
		return nil, fmt.Errorf("updating database: %w", err)
	}

	return databaseItem(resp)
}

// Delete deletes a database and returns its last state.
func (c *DatabasesClient) Delete(ctx context.Context, projectID, branchID, databaseName string) (*neon.Item[neon.Database], error) {
	path, err := databasePath(projectID, branchID, databaseName)
	if err != nil {
		return nil, fmt.Errorf("deleting database: %w", err)
	}

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting database: %w", err)
	}

	return databaseItem(resp)
}

func databasePath(projectID, branchID, databaseName string) (string, error) {
	return buildPath(constants.SegmentProjects, projectID, constants.SegmentBranches, branchID, constants.SegmentDatabases, databaseName)
}

func databaseBody(payload neon.DatabasePayload) any {
	if payload == nil {
		return neon.Fields{}.DatabaseBody()
	}

	return payload.DatabaseBody()
}

func databaseItem(resp *http.Response) (*neon.Item[neon.Database], error) {
	database, err := materialize.SubKey[neon.Database](resp.Body, constants.KeyDatabase)
	if err != nil {
		return nil, fmt.Errorf("parsing database response: %w", err)
	}

	return neon.NewItem(database), nil
}
