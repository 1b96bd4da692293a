package neon

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected APIKeyID
		wantErr  bool
	}{
		{"integer", `123`, "123", false},
		{"string", `"abc"`, "abc", false},
		{"numeric string", `"42"`, "42", false},
		{"padded integer", ` 7 `, "7", false},
		{"float", `1.5`, "", true},
		{"object", `{}`, "", true},
		{"bool", `true`, "", true},
		{"null leaves the id unset", `null`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id APIKeyID

			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				typeErr := &json.UnmarshalTypeError{}
				require.ErrorAs(t, err, &typeErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
			assert.Equal(t, string(tt.expected), id.String())
		})
	}
}

func TestAPIKeyID_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(APIKey{ID: "123", Name: "ci"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":123,"name":"ci"}`, string(data))

	data, err = json.Marshal(APIKeyID("key-abc"))
	require.NoError(t, err)
	assert.Equal(t, `"key-abc"`, string(data))
}

func TestRecords_UnknownFieldsAndStates(t *testing.T) {
	var endpoint Endpoint

	err := json.Unmarshal([]byte(`{
		"id": "ep1",
		"host": "ep1.neon.tech",
		"current_state": "hibernating",
		"type": "read_write",
		"brand_new_field": {"nested": true}
	}`), &endpoint)
	require.NoError(t, err)

	require.NotNil(t, endpoint.CurrentState)
	assert.Equal(t, EndpointState("hibernating"), *endpoint.CurrentState)
	require.NotNil(t, endpoint.Type)
	assert.Equal(t, EndpointTypeReadWrite, *endpoint.Type)
	assert.Nil(t, endpoint.PoolerMode)

	data, err := json.Marshal(endpoint)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"ep1","host":"ep1.neon.tech","current_state":"hibernating","type":"read_write"}`, string(data))
}
