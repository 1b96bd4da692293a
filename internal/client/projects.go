package client

import (
	"context"
	"fmt"

	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/internal/http"
	"github.com/neondatabase/neon-api-go/internal/materialize"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

var projectKeys = []neon.Key[neon.Project]{
	{Name: "id", Value: func(p neon.Project) string { return p.ID }},
	{Name: "name", Value: func(p neon.Project) string { return p.Name }},
}

var permissionKeys = []neon.Key[neon.ProjectPermission]{
	{Name: "id", Value: func(p neon.ProjectPermission) string { return p.ID }},
	{Name: "granted_to_email", Value: func(p neon.ProjectPermission) string { return p.GrantedToEmail }},
}

// ProjectsClient implements the neon.ProjectsClient interface.
type ProjectsClient struct {
	httpClient *http.Client
}

// NewProjectsClient creates a new ProjectsClient.
func NewProjectsClient(httpClient *http.Client) *ProjectsClient {
	return &ProjectsClient{
		httpClient: httpClient,
	}
}

// List lists owned projects, or the ones shared with the caller when opts.Shared is set.
func (c *ProjectsClient) List(ctx context.Context, opts *neon.ProjectListOptions) (*neon.Collection[neon.Project], error) {
	segments := []string{constants.SegmentProjects}
	if opts != nil && opts.Shared {
		segments = append(segments, constants.SegmentShared)
	}

	path, err := buildPath(segments...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, opts.Values())
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	projects, pagination, err := materialize.Page[neon.Project](resp.Body, constants.KeyProjects)
	if err != nil {
		return nil, fmt.Errorf("parsing projects list response: %w", err)
	}

	limit := 0
	if opts != nil {
		limit = opts.Limit
	}

	return neon.NewCollection(projects, pagination, limit, projectKeys...), nil
}

// Get retrieves a specific project.
func (c *ProjectsClient) Get(ctx context.Context, projectID string) (*neon.Item[neon.Project], error) {
	path, err := buildPath(constants.SegmentProjects, projectID)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}

	return projectItem(resp)
}

// Create creates a new project.
func (c *ProjectsClient) Create(ctx context.Context, payload neon.ProjectPayload) (*neon.Item[neon.Project], error) {
	path, err := buildPath(constants.SegmentProjects)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, path, projectBody(payload))
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	return projectItem(resp)
}

// Update updates a project's settings.
func (c *ProjectsClient) Update(ctx context.Context, projectID string, payload neon.ProjectPayload) (*neon.Item[neon.Project], error) {
	path, err := buildPath(constants.SegmentProjects, projectID)
	if err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	resp, err := c.httpClient.Patch(ctx, path, projectBody(payload))
	if err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	return projectItem(resp)
}

// Delete deletes a project and returns its last state.
func (c *ProjectsClient) Delete(ctx context.Context, projectID string) (*neon.Item[neon.Project], error) {
	path, err := buildPath(constants.SegmentProjects, projectID)
	if err != nil {
		return nil, fmt.Errorf("deleting project: %w", err)
	}

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting project: %w", err)
	}

	return projectItem(resp)
}

// Permissions lists who the project is shared with.
func (c *ProjectsClient) Permissions(ctx context.Context, projectID string) (*neon.Collection[neon.ProjectPermission], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentPermissions)
	if err != nil {
		return nil, fmt.Errorf("listing project permissions: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing project permissions: %w", err)
	}

	permissions, err := materialize.Array[neon.ProjectPermission](resp.Body, constants.KeyProjectPermissions)
	if err != nil {
		return nil, fmt.Errorf("parsing project permissions response: %w", err)
	}

	return neon.NewCollection(permissions, nil, 0, permissionKeys...), nil
}

// GrantPermission shares the project with another account.
func (c *ProjectsClient) GrantPermission(ctx context.Context, projectID string, payload neon.PermissionPayload) (*neon.Item[neon.ProjectPermission], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentPermissions)
	if err != nil {
		return nil, fmt.Errorf("granting project permission: %w", err)
	}

	var body any = neon.Fields{}.PermissionBody()
	if payload != nil {
		body = payload.PermissionBody()
	}

	resp, err := c.httpClient.Post(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("granting project permission: %w", err)
	}

	return permissionItem(resp)
}

// RevokePermission removes a grant and returns its final state.
func (c *ProjectsClient) RevokePermission(ctx context.Context, projectID, permissionID string) (*neon.Item[neon.ProjectPermission], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentPermissions, permissionID)
	if err != nil {
		return nil, fmt.Errorf("revoking project permission: %w", err)
	}

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("revoking project permission: %w", err)
	}

	return permissionItem(resp)
}

// ConnectionURI returns a connection string for the project, optionally
// narrowed to a branch, endpoint, database and role.
func (c *ProjectsClient) ConnectionURI(ctx context.Context, projectID string, opts *neon.ConnectionURIOptions) (*neon.Item[neon.ConnectionURI], error) {
	path, err := buildPath(constants.SegmentProjects, projectID, constants.SegmentConnectionURI)
	if err != nil {
		return nil, fmt.Errorf("getting connection uri: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, path, opts.Values())
	if err != nil {
		return nil, fmt.Errorf("getting connection uri: %w", err)
	}

	uri, err := materialize.Singleton[neon.ConnectionURI](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing connection uri response: %w", err)
	}

	return neon.NewItem(uri), nil
}

func projectBody(payload neon.ProjectPayload) any {
	if payload == nil {
		return neon.Fields{}.ProjectBody()
	}

	return payload.ProjectBody()
}

func projectItem(resp *http.Response) (*neon.Item[neon.Project], error) {
	project, err := materialize.SubKey[neon.Project](resp.Body, constants.KeyProject)
	if err != nil {
		return nil, fmt.Errorf("parsing project response: %w", err)
	}

	return neon.NewItem(project), nil
}

func permissionItem(resp *http.Response) (*neon.Item[neon.ProjectPermission], error) {
	permission, err := materialize.Singleton[neon.ProjectPermission](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing project permission response: %w", err)
	}

	return neon.NewItem(permission), nil
}
