package actiongate

import (
	"testing"

	. "herdview/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFor_CapabilityTable(t *testing.T) {
	tests := []struct {
		name      string
		role      Role
		class     RecordClass
		canCreate bool
		canEdit   bool
		canDelete bool
		reason    string
	}{
		{
			name:      "admin has full herd rights",
			role:      RoleAdmin,
			class:     ClassHerd,
			canCreate: true,
			canEdit:   true,
			canDelete: true,
		},
		{
			name:   "supervisor is read-only on herd records",
			role:   RoleSupervisor,
			class:  ClassHerd,
			reason: ReasonRoleReadOnly,
		},
		{
			name:   "farmer is read-only on herd records",
			role:   RoleFarmer,
			class:  ClassHerd,
			reason: ReasonRoleReadOnly,
		},
		{
			name:      "farmer has full clinical rights",
			role:      RoleFarmer,
			class:     ClassClinical,
			canCreate: true,
			canEdit:   true,
			canDelete: true,
		},
		{
			name:   "admin is read-only on clinical records",
			role:   RoleAdmin,
			class:  ClassClinical,
			reason: ReasonRoleReadOnly,
		},
		{
			name:      "farmer can write but never delete archive records",
			role:      RoleFarmer,
			class:     ClassArchive,
			canCreate: true,
			canEdit:   true,
			canDelete: false,
			reason:    ReasonArchiveDelete,
		},
		{
			name:   "admin cannot delete archive records either",
			role:   RoleAdmin,
			class:  ClassArchive,
			reason: ReasonRoleReadOnly,
		},
		{
			name:   "unknown role gets nothing",
			role:   RoleUnknown,
			class:  ClassClinical,
			reason: ReasonRoleReadOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := For(tt.role, tt.class)

			assert.Equal(t, tt.canCreate, actions.CanCreate)
			assert.Equal(t, tt.canEdit, actions.CanEdit)
			assert.Equal(t, tt.canDelete, actions.CanDelete)
			assert.Equal(t, tt.reason, actions.Reason)
		})
	}
}

func TestFor_ArchiveDeleteDeniedForEveryRole(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleSupervisor, RoleFarmer, RoleUnknown} {
		assert.False(t, For(role, ClassArchive).CanDelete, "role %s", role)
	}
}

func TestForRecord_TerminalStatusBlocksEdit(t *testing.T) {
	tests := []struct {
		name    string
		status  HealthStatus
		canEdit bool
		reason  string
	}{
		{
			name:    "open check stays editable",
			status:  StatusNotHandled,
			canEdit: true,
		},
		{
			name:   "healthy check is frozen",
			status: StatusHealthy,
			reason: ReasonTerminalStatus,
		},
		{
			name:   "handled check is frozen",
			status: StatusHandled,
			reason: ReasonTerminalStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := ForRecord(RoleFarmer, ClassClinical, tt.status)

			assert.Equal(t, tt.canEdit, actions.CanEdit)
			assert.Equal(t, tt.reason, actions.Reason)
		})
	}
}

func TestForRecord_TerminalStatusDoesNotGrantAnything(t *testing.T) {
	// An admin has no clinical edit rights to lose; the terminal status
	// must not flip any flag on.
	actions := ForRecord(RoleAdmin, ClassClinical, StatusHealthy)

	assert.False(t, actions.CanCreate)
	assert.False(t, actions.CanEdit)
	assert.False(t, actions.CanDelete)
	assert.Equal(t, ReasonRoleReadOnly, actions.Reason)
}

func TestCanCreateHealthCheck(t *testing.T) {
	cows := []Cow{{ID: 1}, {ID: 2}, {ID: 3}}

	tests := []struct {
		name     string
		checks   []HealthCheck
		expected bool
	}{
		{
			name:     "no checks at all",
			checks:   nil,
			expected: true,
		},
		{
			name: "one cow still free",
			checks: []HealthCheck{
				{Cow: Ref{ID: 1}, Status: StatusNotHandled},
				{Cow: Ref{ID: 2}, Status: StatusNotHandled},
			},
			expected: true,
		},
		{
			name: "every cow has an open check",
			checks: []HealthCheck{
				{Cow: Ref{ID: 1}, Status: StatusNotHandled},
				{Cow: Ref{ID: 2}, Status: StatusNotHandled},
				{Cow: Ref{ID: 3}, Status: StatusNotHandled},
			},
			expected: false,
		},
		{
			name: "terminal checks free their cows",
			checks: []HealthCheck{
				{Cow: Ref{ID: 1}, Status: StatusHealthy},
				{Cow: Ref{ID: 2}, Status: StatusHandled},
				{Cow: Ref{ID: 3}, Status: StatusNotHandled},
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanCreateHealthCheck(cows, tt.checks))
		})
	}
}

func TestCanCreateHealthCheck_NoCows(t *testing.T) {
	assert.False(t, CanCreateHealthCheck(nil, nil))
}
