package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		expectError  bool
		expectedID   int
		expectedName string
	}{
		{
			name:       "bare numeric id",
			payload:    `7`,
			expectedID: 7,
		},
		{
			name:       "numeric string id",
			payload:    `"42"`,
			expectedID: 42,
		},
		{
			name:         "embedded object",
			payload:      `{"id": 3, "name": "Bella"}`,
			expectedID:   3,
			expectedName: "Bella",
		},
		{
			name:       "object without name",
			payload:    `{"id": 9}`,
			expectedID: 9,
		},
		{
			name:        "non-numeric string",
			payload:     `"bella"`,
			expectError: true,
		},
		{
			name:        "array",
			payload:     `[1, 2]`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref Ref
			err := json.Unmarshal([]byte(tt.payload), &ref)

			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedID, ref.ID)
			assert.Equal(t, tt.expectedName, ref.Name)
		})
	}
}

func TestRef_UnmarshalJSON_InsideRecord(t *testing.T) {
	payloads := []string{
		`{"id": 1, "cow": 5, "status": "healthy"}`,
		`{"id": 1, "cow": "5", "status": "healthy"}`,
		`{"id": 1, "cow": {"id": 5, "name": "Daisy"}, "status": "healthy"}`,
	}

	for _, payload := range payloads {
		var check HealthCheck
		require.NoError(t, json.Unmarshal([]byte(payload), &check))
		assert.Equal(t, 5, check.Cow.ID, "payload %s", payload)
	}
}

func TestRef_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Ref{ID: 12, Name: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "12", string(data))
}

func TestRef_Valid(t *testing.T) {
	assert.True(t, Ref{ID: 1}.Valid())
	assert.False(t, Ref{}.Valid())
	assert.False(t, Ref{ID: -2}.Valid())
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAdmin.SeesAllRecords())
	assert.True(t, RoleSupervisor.SeesAllRecords())
	assert.False(t, RoleFarmer.SeesAllRecords())

	assert.True(t, Role(3).Valid())
	assert.False(t, Role(0).Valid())
	assert.False(t, Role(9).Valid())

	assert.Equal(t, "farmer", RoleFarmer.String())
	assert.Equal(t, "unknown", RoleUnknown.String())
}

func TestHealthStatus_Terminal(t *testing.T) {
	assert.True(t, StatusHealthy.Terminal())
	assert.True(t, StatusHandled.Terminal())
	assert.False(t, StatusNotHandled.Terminal())
	assert.False(t, HealthStatus("").Terminal())
}

func TestNewCowSet(t *testing.T) {
	set := NewCowSet([]Cow{{ID: 1}, {ID: 4}})

	assert.True(t, set.Contains(1))
	assert.True(t, set.Contains(4))
	assert.False(t, set.Contains(2))

	var empty CowSet
	assert.False(t, empty.Contains(1))
}
