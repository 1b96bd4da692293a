package neon

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var testProjectKeys = []Key[Project]{
	{Name: "id", Value: func(p Project) string { return p.ID }},
	{Name: "name", Value: func(p Project) string { return p.Name }},
}

func TestCollection_Lookup(t *testing.T) {
	projects := []Project{
		{ID: "p1", Name: "p2"},
		{ID: "p2", Name: "n2"},
	}
	collection := NewCollection(projects, nil, 0, testProjectKeys...)

	t.Run("first key wins across the whole collection", func(t *testing.T) {
		found, err := collection.Lookup("p2")
		require.NoError(t, err)
		assert.Equal(t, "n2", found.Name)
	})

	t.Run("falls back to later keys", func(t *testing.T) {
		found, err := collection.Lookup("n2")
		require.NoError(t, err)
		assert.Equal(t, "p2", found.ID)
	})

	t.Run("miss", func(t *testing.T) {
		_, err := collection.Lookup("nope")
		require.Error(t, err)

		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, []string{"id", "name"}, notFound.Keys)
		assert.Equal(t, "nope", notFound.Value)
	})

	t.Run("repeatable", func(t *testing.T) {
		first, err := collection.Lookup("p1")
		require.NoError(t, err)

		second, err := collection.Lookup("p1")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestCollection_Immutable(t *testing.T) {
	projects := []Project{{ID: "p1", Name: "n1"}}
	collection := NewCollection(projects, &Pagination{Cursor: "c1"}, 10, testProjectKeys...)

	projects[0].Name = "changed"
	assert.Equal(t, "n1", collection.At(0).Name)

	items := collection.Items()
	items[0].Name = "changed"
	assert.Equal(t, "n1", collection.At(0).Name)

	pagination := collection.Pagination()
	pagination.Cursor = "changed"
	assert.Equal(t, "c1", collection.Pagination().Cursor)
}

func TestCollection_DeepCopies(t *testing.T) {
	region := "aws-us-east-2"
	projects := []Project{{
		ID:       "p1",
		Name:     "n1",
		RegionID: &region,
		Settings: map[string]any{"quota": map[string]any{"active_time": 100}},
	}}
	collection := NewCollection(projects, nil, 10, testProjectKeys...)

	region = "changed"
	assert.Equal(t, "aws-us-east-2", *collection.At(0).RegionID)

	*collection.At(0).RegionID = "changed"
	collection.Items()[0].Settings["quota"].(map[string]any)["active_time"] = 0

	for _, project := range collection.All() {
		*project.RegionID = "changed"
	}

	found, err := collection.Lookup("p1")
	require.NoError(t, err)
	*found.RegionID = "changed"

	assert.Equal(t, "aws-us-east-2", *collection.At(0).RegionID)
	assert.Equal(t, 100, collection.At(0).Settings["quota"].(map[string]any)["active_time"])
}

func TestItem_DeepCopies(t *testing.T) {
	region := "aws-us-east-2"
	item := NewItem(&Project{ID: "p1", Name: "n1", RegionID: &region, Settings: map[string]any{"a": 1}})

	region = "changed"
	*item.Ptr().RegionID = "hacked"

	record := item.Record()
	record.Settings["a"] = 2

	assert.Equal(t, "aws-us-east-2", *item.Record().RegionID)
	assert.Equal(t, 1, item.Record().Settings["a"])
	assert.True(t, item.Equal(NewItem(item.Ptr())))
}

func TestCollection_All(t *testing.T) {
	collection := NewCollection([]Project{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}, nil, 0)

	var ids []string

	for i, p := range collection.All() {
		ids = append(ids, p.ID)

		if i == 1 {
			break
		}
	}

	assert.Equal(t, []string{"p1", "p2"}, ids)
	assert.Equal(t, 3, collection.Len())
}

func TestCollection_NextPage(t *testing.T) {
	t.Run("with cursor", func(t *testing.T) {
		collection := NewCollection([]Project{{ID: "p1"}}, &Pagination{Cursor: "p1"}, 25)

		assert.True(t, collection.HasNext())

		next, ok := collection.NextPage()
		require.True(t, ok)
		assert.Equal(t, ListOptions{Cursor: "p1", Limit: 25}, next)
		assert.Equal(t, "cursor=p1&limit=25", next.Values().Encode())
	})

	t.Run("empty cursor", func(t *testing.T) {
		collection := NewCollection([]Project{}, &Pagination{}, 25)

		assert.False(t, collection.HasNext())

		_, ok := collection.NextPage()
		assert.False(t, ok)
	})

	t.Run("no pagination", func(t *testing.T) {
		collection := NewCollection([]Project{}, nil, 0)

		assert.Nil(t, collection.Pagination())
		assert.False(t, collection.HasNext())
	})
}

func TestCollection_Marshal(t *testing.T) {
	collection := NewCollection([]Role{{Name: "alice"}, {Name: "bob"}}, nil, 0)

	data, err := json.Marshal(collection)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"alice"},{"name":"bob"}]`, string(data))

	out, err := yaml.Marshal(collection)
	require.NoError(t, err)
	assert.Equal(t, "- name: alice\n- name: bob\n", string(out))
}

func TestItem(t *testing.T) {
	name := "dev@example.com"
	record := &CurrentUserInfo{ID: "u1", Email: &name}

	item := NewItem(record)
	record.ID = "changed"

	assert.Equal(t, "u1", item.Record().ID)

	ptr := item.Ptr()
	ptr.ID = "changed"
	assert.Equal(t, "u1", item.Record().ID)

	other := NewItem(&CurrentUserInfo{ID: "u1", Email: &name})
	assert.True(t, item.Equal(other))
	assert.False(t, item.Equal(NewItem(&CurrentUserInfo{ID: "u2"})))
	assert.False(t, item.Equal(nil))

	var nilItem *Item[CurrentUserInfo]
	assert.True(t, nilItem.Equal(nil))

	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","email":"dev@example.com"}`, string(data))

	out, err := yaml.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(out), "email: dev@example.com")
}
