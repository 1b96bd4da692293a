package client

import (
	"context"
	"fmt"

	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/internal/http"
	"github.com/neondatabase/neon-api-go/internal/materialize"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

var branchKeys = []neon.Key[neon.Branch]{
	{Name: "id", Value: func(b neon.Branch) string { return b.ID }},
	{Name: "name", Value: func(b neon.Branch) string { return b.Name }},
}

// BranchesClient implements the neon.BranchesClient interface.
type BranchesClient struct {
	httpClient *http.Client
}

// NewBranchesClient creates a new BranchesClient.
func NewBranchesClient(httpClient *http.Client) *BranchesClient {
	return &BranchesClient{
		httpClient: httpClient,
	}
}

// List lists the branches of a project.
func (c *BranchesClient) List(ctx context.Context, projectID string, opts *neon.BranchListOptions) (*neon.Collection[neon.Branch], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentBranches)
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, opts.Values())
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}

	branches, pagination, err := materialize.Page[neon.Branch](resp.Body, constants.KeyBranches)
	if err != nil {
		return nil, fmt.Errorf("parsing branches list response: %w", err)
	}

	limit := 0
	if opts != nil {
		limit = opts.Limit
	}

	return neon.NewCollection(branches, pagination, limit, branchKeys...), nil
}

// Get retrieves a specific branch.
func (c *BranchesClient) Get(ctx context.Context, projectID, branchID string) (*neon.Item[neon.Branch], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentBranches, branchID)
	if err != nil {
		return nil, fmt.Errorf("getting branch: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting branch: %w", err)
	}

	branch, err := materialize.SubKey[neon.Branch](resp.Body, constants.KeyBranch)
	if err != nil {
		return nil, fmt.Errorf("parsing branch response: %w", err)
	}

	return neon.NewItem(branch), nil
}

// Create creates a branch, together with any endpoints the payload lists.
func (c *BranchesClient) Create(ctx context.Context, projectID string, payload neon.BranchPayload) (*neon.Item[neon.BranchOperations], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentBranches)
	if err != nil {
		return nil, fmt.Errorf("creating branch: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, path, branchBody(payload))
	if err != nil {
		return nil, fmt.Errorf("creating branch: %w", err)
	}

	return branchOperationsItem(resp)
}

// Update renames or protects a branch.
func (c *BranchesClient) Update(ctx context.Context, projectID, branchID string, payload neon.BranchPayload) (*neon.Item[neon.BranchOperations], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentBranches, branchID)
	if err != nil {
		return nil, fmt.Errorf("updating branch: %w", err)
	}

	resp, err := c.httpClient.Patch(ctx, path, branchBody(payload))
	if err != nil {
		return nil, fmt.Errorf("updating branch: %w", err)
	}

	return branchOperationsItem(resp)
}

// Delete deletes a branch.
func (c *BranchesClient) Delete(ctx context.Context, projectID, branchID string) (*neon.Item[neon.BranchOperations], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentBranches, branchID)
	if err != nil {
		return nil, fmt.Errorf("deleting branch: %w", err)
	}

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting branch: %w", err)
	}

	return branchOperationsItem(resp)
}

// SetAsDefault makes a branch the project's default branch.
func (c *BranchesClient) SetAsDefault(ctx context.Context, projectID, branchID string) (*neon.Item[neon.BranchOperations], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentBranches, branchID, constants.SegmentSetAsDefault)
	if err != nil {
		return nil, fmt.Errorf("setting default branch: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("setting default branch: %w", err)
	}

	return branchOperationsItem(resp)
}

func branchBody(payload neon.BranchPayload) any {
	if payload == nil {
		return neon.Fields{}.BranchBody()
	}

	return payload.BranchBody()
}

func branchOperationsItem(resp *http.Response) (*neon.Item[neon.BranchOperations], error) {
	result, err := materialize.Singleton[neon.BranchOperations](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing branch response: %w", err)
	}

	return neon.NewItem(result), nil
}
