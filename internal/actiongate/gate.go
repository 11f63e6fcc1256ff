package actiongate

import (
	"herdview/internal/models"
)

// RecordClass groups resources that share one permission row.
type RecordClass int

const (
	// ClassHerd covers cows and users: administrative records.
	ClassHerd RecordClass = iota
	// ClassClinical covers health checks and symptoms: day-to-day
	// clinical records owned by the farmer role.
	ClassClinical
	// ClassArchive covers disease histories and reproduction records:
	// the medical archive, which is never deleted.
	ClassArchive
)

// Actions reports whether create/edit/delete are permitted for one
// record, with a human-readable reason for the first denied action.
// The reason is surfaced as a disabled-control tooltip.
type Actions struct {
	CanCreate bool   `json:"canCreate"`
	CanEdit   bool   `json:"canEdit"`
	CanDelete bool   `json:"canDelete"`
	Reason    string `json:"reason,omitempty"`
}

const (
	ReasonArchiveDelete  = "medical archive records cannot be deleted"
	ReasonTerminalStatus = "a resolved health check can no longer be edited"
	ReasonRoleReadOnly   = "your role has read-only access to these records"
	ReasonNoEligibleCow  = "every cow already has an open health check"
)

type capability struct {
	create, edit, delete bool
}

// One row per (class, role). Roles outside the table get nothing.
var capabilities = map[RecordClass]map[models.Role]capability{
	ClassHerd: {
		models.RoleAdmin:      {create: true, edit: true, delete: true},
		models.RoleSupervisor: {},
		models.RoleFarmer:     {},
	},
	ClassClinical: {
		models.RoleAdmin:      {},
		models.RoleSupervisor: {},
		models.RoleFarmer:     {create: true, edit: true, delete: true},
	},
	ClassArchive: {
		models.RoleAdmin:      {},
		models.RoleSupervisor: {},
		models.RoleFarmer:     {create: true, edit: true},
	},
}

// For computes the base permissions for a role and record class,
// before any per-record status refinement.
func For(role models.Role, class RecordClass) Actions {
	cap, ok := capabilities[class][role]
	if !ok {
		return Actions{Reason: ReasonRoleReadOnly}
	}

	actions := Actions{
		CanCreate: cap.create,
		CanEdit:   cap.edit,
		CanDelete: cap.delete,
	}

	switch {
	case !cap.create && !cap.edit && !cap.delete:
		actions.Reason = ReasonRoleReadOnly
	case class == ClassArchive && !cap.delete:
		actions.Reason = ReasonArchiveDelete
	}

	return actions
}

// ForRecord refines the base permissions with the record's own status.
// A terminal status blocks edit for every role, including the farmer
// that otherwise holds edit rights.
func ForRecord(role models.Role, class RecordClass, status models.HealthStatus) Actions {
	actions := For(role, class)

	if status.Terminal() && actions.CanEdit {
		actions.CanEdit = false
		actions.Reason = ReasonTerminalStatus
	}

	return actions
}

// CanCreateHealthCheck scans the fetched collection for an eligible
// target: a cow with no open (non-terminal) health check. Creation is
// blocked when every candidate cow already has one.
func CanCreateHealthCheck(cows []models.Cow, checks []models.HealthCheck) bool {
	open := make(map[int]struct{}, len(checks))
	for _, check := range checks {
		if !check.Status.Terminal() {
			open[check.Cow.ID] = struct{}{}
		}
	}

	for _, cow := range cows {
		if _, busy := open[cow.ID]; !busy {
			return true
		}
	}

	return false
}
