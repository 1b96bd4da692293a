package client_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	. "github.com/neondatabase/neon-api-go/internal/client"
	"github.com/neondatabase/neon-api-go/pkg/neon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	projectJSON     = `{"project":{"id":"p1","name":"n1"}}`
	permissionJSON  = `{"id":"perm1","granted_to_email":"dev@example.com"}`
	branchOpsJSON   = `{"branch":{"id":"br1","name":"main"},"operations":[{"id":"op1","action":"create_branch","status":"running"}]}`
	databaseJSON    = `{"database":{"id":7,"name":"app","owner_name":"owner"}}`
	roleOpsJSON     = `{"role":{"name":"alice","password":"pw"},"operations":[]}`
	endpointOpsJSON = `{"endpoint":{"id":"ep1","host":"ep1.neon.tech"},"operations":[{"id":"op2"}]}`
)

type operationCase struct {
	name     string
	response string
	call     func(ctx context.Context, c *Client) error
	method   string
	path     string
	query    string
	body     string
}

func ignore[T any](_ T, err error) error {
	return err
}

//nolint:funlen // one table covering every resource operation
func TestResourceOperations(t *testing.T) {
	t.Parallel()

	pooled := true
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []operationCase{
		{
			name:     "users me",
			response: `{"id":"u1","email":"dev@example.com"}`,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Users().Me(ctx)) },
			method:   http.MethodGet,
			path:     "/api/v2/users/me",
		},
		{
			name:     "api keys list",
			response: `[{"id":1,"name":"ci"}]`,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.APIKeys().List(ctx)) },
			method:   http.MethodGet,
			path:     "/api/v2/api_keys",
		},
		{
			name:     "api keys create without payload",
			response: `{"id":1,"key":"secret"}`,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.APIKeys().Create(ctx, nil)) },
			method:   http.MethodPost,
			path:     "/api/v2/api_keys",
			body:     `{}`,
		},
		{
			name:     "api keys revoke",
			response: `{"id":1,"revoked":true}`,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.APIKeys().Revoke(ctx, "1")) },
			method:   http.MethodDelete,
			path:     "/api/v2/api_keys/1",
		},
		{
			name:     "projects list shared",
			response: `{"projects":[]}`,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Projects().List(ctx, &neon.ProjectListOptions{Shared: true, OrgID: "org-1"}))
			},
			method: http.MethodGet,
			path:   "/api/v2/projects/shared",
			query:  "org_id=org-1",
		},
		{
			name:     "projects get",
			response: projectJSON,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Projects().Get(ctx, "p1")) },
			method:   http.MethodGet,
			path:     "/api/v2/projects/p1",
		},
		{
			name:     "projects create with fields",
			response: projectJSON,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Projects().Create(ctx, neon.Fields{"name": "n1", "region_id": nil}))
			},
			method: http.MethodPost,
			path:   "/api/v2/projects",
			body:   `{"project":{"name":"n1"}}`,
		},
		{
			name:     "projects create without payload",
			response: projectJSON,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Projects().Create(ctx, nil)) },
			method:   http.MethodPost,
			path:     "/api/v2/projects",
			body:     `{"project":{}}`,
		},
		{
			name:     "projects update",
			response: projectJSON,
			call: func(ctx context.Context, c *Client) error {
				name := "renamed"
				return ignore(c.Projects().Update(ctx, "p1", &neon.ProjectUpdateRequest{Project: neon.ProjectUpdate{Name: &name}}))
			},
			method: http.MethodPatch,
			path:   "/api/v2/projects/p1",
			body:   `{"project":{"name":"renamed"}}`,
		},
		{
			name:     "projects delete",
			response: projectJSON,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Projects().Delete(ctx, "p1")) },
			method:   http.MethodDelete,
			path:     "/api/v2/projects/p1",
		},
		{
			name:     "projects permissions",
			response: `{"project_permissions":[` + permissionJSON + `]}`,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Projects().Permissions(ctx, "p1")) },
			method:   http.MethodGet,
			path:     "/api/v2/projects/p1/permissions",
		},
		{
			name:     "projects grant permission",
			response: permissionJSON,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Projects().GrantPermission(ctx, "p1", &neon.PermissionGrantRequest{Email: "dev@example.com"}))
			},
			method: http.MethodPost,
			path:   "/api/v2/projects/p1/permissions",
			body:   `{"email":"dev@example.com"}`,
		},
		{
			name:     "projects revoke permission",
			response: permissionJSON,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Projects().RevokePermission(ctx, "p1", "perm1"))
			},
			method: http.MethodDelete,
			path:   "/api/v2/projects/p1/permissions/perm1",
		},
		{
			name:     "projects connection uri",
			response: `{"uri":"postgresql://alice:pw@ep1.neon.tech/app"}`,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Projects().ConnectionURI(ctx, "p1", &neon.ConnectionURIOptions{
					DatabaseName: "app",
					RoleName:     "alice",
					Pooled:       &pooled,
				}))
			},
			method: http.MethodGet,
			path:   "/api/v2/projects/p1/connection_uri",
			query:  "database_name=app&pooled=true&role_name=alice",
		},
		{
			name:     "branches list",
			response: `{"branches":[{"id":"br1","name":"main"}]}`,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Branches().List(ctx, "p1", &neon.BranchListOptions{Search: "ma"}))
			},
			method: http.MethodGet,
			path:   "/api/v2/projects/p1/branches",
			query:  "search=ma",
		},
		{
			name:     "branches get",
			response: `{"branch":{"id":"br1","name":"main"}}`,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Branches().Get(ctx, "p1", "br1")) },
			method:   http.MethodGet,
			path:     "/api/v2/projects/p1/branches/br1",
		},
		{
			name:     "branches create without payload",
			response: branchOpsJSON,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Branches().Create(ctx, "p1", nil)) },
			method:   http.MethodPost,
			path:     "/api/v2/projects/p1/branches",
			body:     `{"branch":{}}`,
		},
		{
			name:     "branches create with endpoint",
			response: branchOpsJSON,
			call: func(ctx context.Context, c *Client) error {
				name := "dev"
				return ignore(c.Branches().Create(ctx, "p1", &neon.BranchCreateRequest{
					Branch:    &neon.BranchCreate{Name: &name},
					Endpoints: []neon.BranchEndpointCreate{{Type: neon.EndpointTypeReadWrite}},
				}))
			},
			method: http.MethodPost,
			path:   "/api/v2/projects/p1/branches",
			body:   `{"branch":{"name":"dev"},"endpoints":[{"type":"read_write"}]}`,
		},
		{
			name:     "branches update",
			response: branchOpsJSON,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Branches().Update(ctx, "p1", "br1", neon.Fields{"protected": true}))
			},
			method: http.MethodPatch,
			path:   "/api/v2/projects/p1/branches/br1",
			body:   `{"branch":{"protected":true}}`,
		},
		{
			name:     "branches delete",
			response: branchOpsJSON,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Branches().Delete(ctx, "p1", "br1")) },
			method:   http.MethodDelete,
			path:     "/api/v2/projects/p1/branches/br1",
		},
		{
			name:     "branches set as default",
			response: branchOpsJSON,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Branches().SetAsDefault(ctx, "p1", "br1")) },
			method:   http.MethodPost,
			path:     "/api/v2/projects/p1/branches/br1/set_as_default",
		},
		{
			name:     "databases list",
			response: `{"databases":[{"id":7,"name":"app"}]}`,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Databases().List(ctx, "p1", "br1", &neon.ListOptions{Limit: 5}))
			},
			method: http.MethodGet,
			path:   "/api/v2/projects/p1/branches/br1/databases",
			query:  "limit=5",
		},
		{
			name:     "databases get",
			response: databaseJSON,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Databases().Get(ctx, "p1", "br1", "app")) },
			method:   http.MethodGet,
			path:     "/api/v2/projects/p1/branches/br1/databases/app",
		},
		{
			name:     "databases create",
			response: databaseJSON,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Databases().Create(ctx, "p1", "br1", &neon.DatabaseCreateRequest{
					Database: neon.DatabaseCreate{Name: "app", OwnerName: "owner"},
				}))
			},
			method: http.MethodPost,
			path:   "/api/v2/projects/p1/branches/br1/databases",
			body:   `{"database":{"name":"app","owner_name":"owner"}}`,
		},
		{
			name:     "databases update",
			response: databaseJSON,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Databases().Update(ctx, "p1", "br1", "app", neon.Fields{"owner_name": "bob"}))
			},
			method: http.MethodPatch,
			path:   "/api/v2/projects/p1/branches/br1/databases/app",
			body:   `{"database":{"owner_name":"bob"}}`,
		},
		{
			name:     "databases delete",
			response: databaseJSON,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Databases().Delete(ctx, "p1", "br1", "app")) },
			method:   http.MethodDelete,
			path:     "/api/v2/projects/p1/branches/br1/databases/app",
		},
		{
			name:     "roles list",
			response: `{"roles":[{"name":"alice"}]}`,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Roles().List(ctx, "p1", "br1")) },
			method:   http.MethodGet,
			path:     "/api/v2/projects/p1/branches/br1/roles",
		},
		{
			name:     "roles get",
			response: `{"role":{"name":"alice"}}`,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Roles().Get(ctx, "p1", "br1", "alice")) },
			method:   http.MethodGet,
			path:     "/api/v2/projects/p1/branches/br1/roles/alice",
		},
		{
			name:     "roles create",
			response: roleOpsJSON,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Roles().Create(ctx, "p1", "br1", "alice")) },
			method:   http.MethodPost,
			path:     "/api/v2/projects/p1/branches/br1/roles",
			body:     `{"role":{"name":"alice"}}`,
		},
		{
			name:     "roles delete",
			response: roleOpsJSON,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Roles().Delete(ctx, "p1", "br1", "alice")) },
			method:   http.MethodDelete,
			path:     "/api/v2/projects/p1/branches/br1/roles/alice",
		},
		{
			name:     "roles reveal password",
			response: `{"password":"pw"}`,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Roles().RevealPassword(ctx, "p1", "br1", "alice"))
			},
			method: http.MethodGet,
			path:   "/api/v2/projects/p1/branches/br1/roles/alice/reveal_password",
		},
		{
			name:     "roles reset password",
			response: roleOpsJSON,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Roles().ResetPassword(ctx, "p1", "br1", "alice"))
			},
			method: http.MethodPost,
			path:   "/api/v2/projects/p1/branches/br1/roles/alice/reset_password",
		},
		{
			name:     "endpoints list",
			response: `{"endpoints":[{"id":"ep1","host":"ep1.neon.tech"}]}`,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Endpoints().List(ctx, "p1")) },
			method:   http.MethodGet,
			path:     "/api/v2/projects/p1/endpoints",
		},
		{
			name:     "endpoints get",
			response: `{"endpoint":{"id":"ep1","host":"ep1.neon.tech"}}`,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Endpoints().Get(ctx, "p1", "ep1")) },
			method:   http.MethodGet,
			path:     "/api/v2/projects/p1/endpoints/ep1",
		},
		{
			name:     "endpoints create",
			response: endpointOpsJSON,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Endpoints().Create(ctx, "p1", &neon.EndpointCreateRequest{
					Endpoint: neon.EndpointCreate{BranchID: "br1", Type: neon.EndpointTypeReadOnly},
				}))
			},
			method: http.MethodPost,
			path:   "/api/v2/projects/p1/endpoints",
			body:   `{"endpoint":{"branch_id":"br1","type":"read_only"}}`,
		},
		{
			name:     "endpoints update",
			response: endpointOpsJSON,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Endpoints().Update(ctx, "p1", "ep1", neon.Fields{"suspend_timeout_seconds": 300}))
			},
			method: http.MethodPatch,
			path:   "/api/v2/projects/p1/endpoints/ep1",
			body:   `{"endpoint":{"suspend_timeout_seconds":300}}`,
		},
		{
			name:     "endpoints delete",
			response: endpointOpsJSON,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Endpoints().Delete(ctx, "p1", "ep1")) },
			method:   http.MethodDelete,
			path:     "/api/v2/projects/p1/endpoints/ep1",
		},
		{
			name:     "endpoints start",
			response: endpointOpsJSON,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Endpoints().Start(ctx, "p1", "ep1")) },
			method:   http.MethodPost,
			path:     "/api/v2/projects/p1/endpoints/ep1/start",
		},
		{
			name:     "endpoints suspend",
			response: endpointOpsJSON,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Endpoints().Suspend(ctx, "p1", "ep1")) },
			method:   http.MethodPost,
			path:     "/api/v2/projects/p1/endpoints/ep1/suspend",
		},
		{
			name:     "endpoints restart",
			response: endpointOpsJSON,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Endpoints().Restart(ctx, "p1", "ep1")) },
			method:   http.MethodPost,
			path:     "/api/v2/projects/p1/endpoints/ep1/restart",
		},
		{
			name:     "operations list",
			response: `{"operations":[{"id":"op1"}],"pagination":{"cursor":"op1"}}`,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Operations().List(ctx, "p1", &neon.ListOptions{Cursor: "op0"}))
			},
			method: http.MethodGet,
			path:   "/api/v2/projects/p1/operations",
			query:  "cursor=op0",
		},
		{
			name:     "operations get",
			response: `{"operation":{"id":"op1","status":"finished"}}`,
			call:     func(ctx context.Context, c *Client) error { return ignore(c.Operations().Get(ctx, "p1", "op1")) },
			method:   http.MethodGet,
			path:     "/api/v2/projects/p1/operations/op1",
		},
		{
			name:     "consumption projects",
			response: `{"projects":[{"project_id":"p1","periods":[]}]}`,
			call: func(ctx context.Context, c *Client) error {
				return ignore(c.Consumption().ListProjects(ctx, &neon.ConsumptionListOptions{From: from}))
			},
			method: http.MethodGet,
			path:   "/api/v2/consumption/projects",
			query:  "from=2024-01-01T00%3A00%3A00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, api := newTestClient(t, http.StatusOK, tt.response)

			require.NoError(t, tt.call(context.Background(), client))

			req := api.last(t)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, tt.query, req.Query)

			if tt.body != "" {
				assert.JSONEq(t, tt.body, req.Body)
			} else {
				assert.Empty(t, req.Body)
			}
		})
	}
}

func TestBranchesClient_CreateResult(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.StatusCreated, branchOpsJSON)

	created, err := client.Branches().Create(context.Background(), "p1", nil)
	require.NoError(t, err)

	record := created.Record()
	assert.Equal(t, "br1", record.Branch.ID)
	require.Len(t, record.Operations, 1)
	require.NotNil(t, record.Operations[0].Status)
	assert.Equal(t, neon.OperationStatusRunning, *record.Operations[0].Status)
}

func TestDatabasesClient_LookupByID(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.StatusOK, `{"databases":[{"id":7,"name":"app"},{"id":8,"name":"7"}]}`)

	databases, err := client.Databases().List(context.Background(), "p1", "br1", nil)
	require.NoError(t, err)

	// Names are tried before ids.
	db, err := databases.Lookup("7")
	require.NoError(t, err)
	assert.Equal(t, int64(8), db.ID)

	db, err = databases.Lookup("app")
	require.NoError(t, err)
	assert.Equal(t, int64(7), db.ID)
	assert.False(t, databases.HasNext())
}

func TestRolesClient_ListIsUnpaginated(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.StatusOK, `{"roles":[{"name":"alice"},{"name":"bob"}]}`)

	roles, err := client.Roles().List(context.Background(), "p1", "br1")
	require.NoError(t, err)
	assert.Equal(t, 2, roles.Len())
	assert.Nil(t, roles.Pagination())

	_, ok := roles.NextPage()
	assert.False(t, ok)
}

func TestAPIKeysClient_ListLookup(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.StatusOK, `[{"id":11,"name":"ci"},{"id":"12","name":"deploy"}]`)

	keys, err := client.APIKeys().List(context.Background())
	require.NoError(t, err)

	key, err := keys.Lookup("11")
	require.NoError(t, err)
	assert.Equal(t, "ci", key.Name)

	key, err = keys.Lookup("deploy")
	require.NoError(t, err)
	assert.Equal(t, neon.APIKeyID("12"), key.ID)
}

func TestEndpointsClient_ActionFailure(t *testing.T) {
	t.Parallel()

	client, api := newTestClient(t, http.StatusLocked, `{"message":"project already has running operations"}`)

	_, err := client.Endpoints().Start(context.Background(), "p1", "ep1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start endpoint")

	var apiErr *neon.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusLocked, apiErr.StatusCode)
	assert.Equal(t, 1, api.count())
}
