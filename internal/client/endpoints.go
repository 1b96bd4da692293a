package client

import (
	"context"
	"fmt"

	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/internal/http"
	"github.com/neondatabase/neon-api-go/internal/materialize"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

var endpointKeys = []neon.Key[neon.Endpoint]{
	{Name: "id", Value: func(e neon.Endpoint) string { return e.ID }},
	{Name: "host", Value: func(e neon.Endpoint) string { return e.Host }},
}

// EndpointsClient implements the neon.EndpointsClient interface.
type EndpointsClient struct {
	httpClient *http.Client
}

// NewEndpointsClient creates a new EndpointsClient.
func NewEndpointsClient(httpClient *http.Client) *EndpointsClient {
	return &EndpointsClient{
		httpClient: httpClient,
	}
}

// List lists the compute endpoints of a project.
func (c *EndpointsClient) List(ctx context.Context, projectID string) (*neon.Collection[neon.Endpoint], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentEndpoints)
	if err != nil {
		return nil, fmt.Errorf("listing endpoints: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing endpoints: %w", err)
	}

	endpoints, err := materialize.Array[neon.Endpoint](resp.Body, constants.KeyEndpoints)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoints list response: %w", err)
	}

	return neon.NewCollection(endpoints, nil, 0, endpointKeys...), nil
}

// Get retrieves a specific endpoint.
func (c *EndpointsClient) Get(ctx context.Context, projectID, endpointID string) (*neon.Item[neon.Endpoint], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentEndpoints, endpointID)
	if err != nil {
		return nil, fmt.Errorf("getting endpoint: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting endpoint: %w", err)
	}

	endpoint, err := materialize.SubKey[neon.Endpoint](resp.Body, constants.KeyEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint response: %w", err)
	}

	return neon.NewItem(endpoint), nil
}

// Create creates a compute endpoint on a branch.
func (c *EndpointsClient) Create(ctx context.Context, projectID string, payload neon.EndpointPayload) (*neon.Item[neon.EndpointOperations], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentEndpoints)
	if err != nil {
		return nil, fmt.Errorf("creating endpoint: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, path, endpointBody(payload))
	if err != nil {
		return nil, fmt.Errorf("creating endpoint: %w", err)
	}

	return endpointOperationsItem(resp)
}

// Update changes the settings of an endpoint.
func (c *EndpointsClient) Update(ctx context.Context, projectID, endpointID string, payload neon.EndpointPayload) (*neon.Item[neon.EndpointOperations], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentEndpoints, endpointID)
	if err != nil {
		return nil, fmt.Errorf("updating endpoint: %w", err)
	}

	resp, err := c.httpClient.Patch(ctx, path, endpointBody(payload))
	if err != nil {
		return nil, fmt.Errorf("updating endpoint: %w", err)
	}

	return endpointOperationsItem(resp)
}

// Delete deletes an endpoint.
func (c *EndpointsClient) Delete(ctx context.Context, projectID, endpointID string) (*neon.Item[neon.EndpointOperations], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentEndpoints, endpointID)
	if err != nil {
		return nil, fmt.Errorf("deleting endpoint: %w", err)
	}

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting endpoint: %w", err)
	}

	return endpointOperationsItem(resp)
}

// Start starts a suspended endpoint.
func (c *EndpointsClient) Start(ctx context.Context, projectID, endpointID string) (*neon.Item[neon.EndpointOperations], error) {
	return c.action(ctx, projectID, endpointID, constants.SegmentStart)
}

// Suspend suspends an active endpoint.
func (c *EndpointsClient) Suspend(ctx context.Context, projectID, endpointID string) (*neon.Item[neon.EndpointOperations], error) {
	return c.action(ctx, projectID, endpointID, constants.SegmentSuspend)
}

// Restart restarts an endpoint.
func (c *EndpointsClient) Restart(ctx context.Context, projectID, endpointID string) (*neon.Item[neon.EndpointOperations], error) {
	return c.action(ctx, projectID, endpointID, constants.SegmentRestart)
}

func (c *EndpointsClient) action(ctx context.Context, projectID, endpointID, action string) (*neon.Item[neon.EndpointOperations], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentEndpoints, endpointID, action)
	if err != nil {
		return nil, fmt.Errorf("%s endpoint: %w", action, err)
	}

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s endpoint: %w", action, err)
	}

	return endpointOperationsItem(resp)
}

func endpointBody(payload neon.EndpointPayload) any {
	if payload == nil {
		return neon.Fields{}.EndpointBody()
	}

	return payload.EndpointBody()
}

func endpointOperationsItem(resp *http.Response) (*neon.Item[neon.EndpointOperations], error) {
	result, err := materialize.Singleton[neon.EndpointOperations](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint response: %w", err)
	}

	return neon.NewItem(result), nil
}
