package client

import (
	"context"
	"fmt"

	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/internal/http"
	"github.com/neondatabase/neon-api-go/internal/materialize"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

var roleKeys = []neon.Key[neon.Role]{
	{Name: "name", Value: func(r neon.Role) string { return r.Name }},
}

// RolesClient implements the neon.RolesClient interface.
type RolesClient struct {
	httpClient *http.Client
}

// NewRolesClient creates a new RolesClient.
func NewRolesClient(httpClient *http.Client) *RolesClient {
	return &RolesClient{
		httpClient: httpClient,
	}
}

// List lists the roles of a branch. The listing is not paginated.
func (c *RolesClient) List(ctx context.Context, projectID, branchID string) (*neon.Collection[neon.Role], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentBranches, branchID, constants.SegmentRoles)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}

	roles, err := materialize.Array[neon.Role](resp.Body, constants.KeyRoles)
	if err != nil {
		return nil, fmt.Errorf("parsing roles list response: %w", err)
	}

	return neon.NewCollection(roles, nil, 0, roleKeys...), nil
}

// Get retrieves a role by name.
func (c *RolesClient) Get(ctx context.Context, projectID, branchID, roleName string) (*neon.Item[neon.Role], error) {
	path, err := rolePath(projectID, branchID, roleName)
	if err != nil {
		return nil, fmt.Errorf("getting role: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting role: %w", err)
	}

	role, err := materialize.SubKey[neon.Role](resp.Body, constants.KeyRole)
	if err != nil {
		return nil, fmt.Errorf("parsing role response: %w", err)
	}

	return neon.NewItem(role), nil
}

// Create creates a role. The generated password is part of the returned role.
func (c *RolesClient) Create(ctx context.Context, projectID, branchID, roleName string) (*neon.Item[neon.RoleOperations], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentBranches, branchID, constants.SegmentRoles)
	if err != nil {
		return nil, fmt.Errorf("creating role: %w", err)
	}

	request := &neon.RoleCreateRequest{Role: neon.RoleCreate{Name: roleName}}

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("creating role: %w", err)
	}

	return roleOperationsItem(resp)
}

// Delete deletes a role.
func (c *RolesClient) Delete(ctx context.Context, projectID, branchID, roleName string) (*neon.Item[neon.RoleOperations], error) {
	path, err := rolePath(projectID, branchID, roleName)
	if err != nil {
		return nil, fmt.Errorf("deleting role: %w", err)
	}

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting role: %w", err)
	}

	return roleOperationsItem(resp)
}

// RevealPassword returns the stored password of a role.
func (c *RolesClient) RevealPassword(ctx context.Context, projectID, branchID, roleName string) (*neon.Item[neon.RolePassword], error) {
	path, err := rolePath(projectID, branchID, roleName, constants.SegmentRevealPassword)
	if err != nil {
		return nil, fmt.Errorf("revealing role password: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("revealing role password: %w", err)
	}

	password, err := materialize.Singleton[neon.RolePassword](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing role password response: %w", err)
	}

	return neon.NewItem(password), nil
}

// ResetPassword generates a new password for a role.
func (c *RolesClient) ResetPassword(ctx context.Context, projectID, branchID, roleName string) (*neon.Item[neon.RoleOperations], error) {
	path, err := rolePath(projectID, branchID, roleName, constants.SegmentResetPassword)
	if err != nil {
		return nil, fmt.Errorf("resetting role password: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("resetting role password: %w", err)
	}

	return roleOperationsItem(resp)
}

func rolePath(projectID, branchID, roleName string, rest ...string) (string, error) {
	segments := []string{constants.SegmentProjects, projectID, constants.SegmentBranches, branchID, constants.SegmentRoles, roleName}

	return buildPath(append(segments, rest...)...)
}

func roleOperationsItem(resp *http.Response) (*neon.Item[neon.RoleOperations], error) {
	result, err := materialize.Singleton[neon.RoleOperations](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing role response: %w", err)
	}

	return neon.NewItem(result), nil
}
