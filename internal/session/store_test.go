package session

import (
	"testing"

	. "herdview/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseStoredUser(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Session
		ok       bool
	}{
		{
			name:     "current blob shape",
			raw:      `{"user_id": 7, "role_id": 3, "name": "Sari", "email": "sari@farm.test"}`,
			expected: Session{UserID: 7, Role: RoleFarmer, Name: "Sari"},
			ok:       true,
		},
		{
			name:     "legacy blob with id field",
			raw:      `{"id": 12, "role_id": 1, "name": "Admin"}`,
			expected: Session{UserID: 12, Role: RoleAdmin, Name: "Admin"},
			ok:       true,
		},
		{
			name:     "user_id wins over id",
			raw:      `{"user_id": 7, "id": 99, "role_id": 2, "name": "Super"}`,
			expected: Session{UserID: 7, Role: RoleSupervisor, Name: "Super"},
			ok:       true,
		},
		{
			name: "malformed json",
			raw:  `{"user_id": 7,`,
		},
		{
			name: "not an object",
			raw:  `"token"`,
		},
		{
			name: "missing user id",
			raw:  `{"role_id": 3, "name": "Nobody"}`,
		},
		{
			name: "zero user id",
			raw:  `{"user_id": 0, "role_id": 3}`,
		},
		{
			name: "unknown role",
			raw:  `{"user_id": 7, "role_id": 8}`,
		},
		{
			name: "missing role",
			raw:  `{"user_id": 7}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, ok := ParseStoredUser([]byte(tt.raw))

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, session)
		})
	}
}
