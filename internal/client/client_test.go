package client_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	. "github.com/neondatabase/neon-api-go/internal/client"
	"github.com/neondatabase/neon-api-go/pkg/neon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := New(nil)
		require.ErrorIs(t, err, neon.ErrConfigRequired)
	})

	t.Run("requires API key", func(t *testing.T) {
		t.Parallel()

		_, err := New(&neon.Config{BaseURL: "https://console.neon.tech/api/v2/"})
		require.Error(t, err)

		var cfgErr *neon.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "APIKey", cfgErr.Field)
	})

	t.Run("exposes every resource client", func(t *testing.T) {
		t.Parallel()

		client, err := New(&neon.Config{APIKey: "k1", BaseURL: "https://console.neon.tech/api/v2/"})
		require.NoError(t, err)

		assert.Equal(t, "https://console.neon.tech/api/v2", client.BaseURL())
		assert.NotNil(t, client.Users())
		assert.NotNil(t, client.APIKeys())
		assert.NotNil(t, client.Consumption())
		assert.NotNil(t, client.Projects())
		assert.NotNil(t, client.Branches())
		assert.NotNil(t, client.Databases())
		assert.NotNil(t, client.Roles())
		assert.NotNil(t, client.Endpoints())
		assert.NotNil(t, client.Operations())

		var _ neon.Client = client
	})
}

func TestClient_ListProjectsAndLookup(t *testing.T) {
	t.Parallel()

	client, api := newTestClient(t, http.StatusOK,
		`{"projects":[{"id":"p1","name":"n1"},{"id":"p2","name":"n2"}],"pagination":{"cursor":"p2"}}`)

	projects, err := client.Projects().List(context.Background(), nil)
	require.NoError(t, err)

	req := api.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/v2/projects", req.Path)
	assert.Equal(t, "Bearer "+testAPIKey, req.Auth)

	require.Equal(t, 2, projects.Len())

	project, err := projects.Lookup("p1")
	require.NoError(t, err)
	assert.Equal(t, "n1", project.Name)

	byName, err := projects.Lookup("n2")
	require.NoError(t, err)
	assert.Equal(t, "p2", byName.ID)

	again, err := projects.Lookup("p1")
	require.NoError(t, err)
	assert.Equal(t, project, again)
	assert.Equal(t, 1, api.count())

	_, err = projects.Lookup("missing")
	require.Error(t, err)
	assert.True(t, neon.IsNotFound(err))
}

func TestClient_NextPageRequest(t *testing.T) {
	t.Parallel()

	client, api := newTestClient(t, http.StatusOK,
		`{"projects":[{"id":"p1","name":"n1"}],"pagination":{"cursor":"p1"}}`)

	first, err := client.Projects().List(context.Background(), &neon.ProjectListOptions{
		ListOptions: neon.ListOptions{Limit: 1},
		Search:      "n",
	})
	require.NoError(t, err)
	assert.Equal(t, "limit=1&search=n", api.last(t).Query)

	require.True(t, first.HasNext())

	next, ok := first.NextPage()
	require.True(t, ok)
	assert.Equal(t, neon.ListOptions{Cursor: "p1", Limit: 1}, next)

	_, err = client.Projects().List(context.Background(), &neon.ProjectListOptions{ListOptions: next})
	require.NoError(t, err)
	assert.Equal(t, "cursor=p1&limit=1", api.last(t).Query)
}

func TestClient_CreateAPIKey(t *testing.T) {
	t.Parallel()

	client, api := newTestClient(t, http.StatusOK,
		`{"id":42,"key":"napi_secret","name":"ci-key","created_at":"2024-01-02T03:04:05Z"}`)

	created, err := client.APIKeys().Create(context.Background(), &neon.APIKeyCreateRequest{KeyName: "ci-key"})
	require.NoError(t, err)

	req := api.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v2/api_keys", req.Path)
	assert.JSONEq(t, `{"key_name":"ci-key"}`, req.Body)

	record := created.Record()
	assert.Equal(t, "ci-key", record.Name)
	assert.Equal(t, neon.APIKeyID("42"), record.ID)
	assert.Equal(t, "napi_secret", record.Key)
}

func TestClient_DeleteMissingProject(t *testing.T) {
	t.Parallel()

	client, api := newTestClient(t, http.StatusNotFound, `{"code":"","message":"project not found"}`)

	deleted, err := client.Projects().Delete(context.Background(), "p404")
	require.Error(t, err)
	assert.Nil(t, deleted)

	assert.Equal(t, http.MethodDelete, api.last(t).Method)
	assert.Equal(t, "/api/v2/projects/p404", api.last(t).Path)
	assert.Equal(t, 1, api.count())

	var apiErr *neon.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "not found")
	assert.ErrorIs(t, err, neon.ErrResourceNotFound)
	assert.True(t, neon.IsNotFound(err))
}

func TestClient_SchemaErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing identity field", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestClient(t, http.StatusOK, `{"project":{"name":"n1"}}`)

		_, err := client.Projects().Get(context.Background(), "p1")
		require.Error(t, err)

		var schemaErr *neon.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "Project", schemaErr.Record)
		assert.Equal(t, "project.id", schemaErr.Field)
	})

	t.Run("missing envelope key", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestClient(t, http.StatusOK, `{"items":[]}`)

		_, err := client.Branches().List(context.Background(), "p1", nil)
		require.Error(t, err)

		var schemaErr *neon.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "missing", schemaErr.Got)
	})

	t.Run("wrong type", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestClient(t, http.StatusOK, `{"roles":{"name":"r"}}`)

		_, err := client.Roles().List(context.Background(), "p1", "br1")
		require.Error(t, err)

		var schemaErr *neon.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "array", schemaErr.Expected)
	})
}

func TestClient_EmptyPathSegment(t *testing.T) {
	t.Parallel()

	client, api := newTestClient(t, http.StatusOK, `{}`)

	_, err := client.Branches().Get(context.Background(), "p1", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, neon.ErrEmptyPathSegment))

	_, err = client.Projects().Get(context.Background(), "//")
	require.ErrorIs(t, err, neon.ErrEmptyPathSegment)

	assert.Equal(t, 0, api.count())
}

func TestClient_PathNormalization(t *testing.T) {
	t.Parallel()

	client, api := newTestClient(t, http.StatusOK, `{"project":{"id":"p1","name":"n1"}}`)

	_, err := client.Projects().Get(context.Background(), "p1")
	require.NoError(t, err)
	plain := api.last(t).Path

	_, err = client.Projects().Get(context.Background(), "/p1/")
	require.NoError(t, err)
	assert.Equal(t, plain, api.last(t).Path)

	_, err = client.Projects().Get(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/projects/a%20b", api.last(t).Path)
}

func TestClient_NestedPathNormalization(t *testing.T) {
	t.Parallel()

	client, api := newTestClient(t, http.StatusOK, `{"database":{"id":7,"name":"app"}}`)

	database, err := client.Databases().Get(context.Background(), "/p1", "br1/", "/app/")
	require.NoError(t, err)
	assert.Equal(t, "app", database.Record().Name)
	assert.Equal(t, "/api/v2/projects/p1/branches/br1/databases/app", api.last(t).Path)

	_, err = client.Databases().Get(context.Background(), "p1", "br1", "")
	require.ErrorIs(t, err, neon.ErrEmptyPathSegment)
}
