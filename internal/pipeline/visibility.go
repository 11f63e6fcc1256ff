package pipeline

import (
	"herdview/internal/models"
)

// Visible reduces a fetched collection to the subset the session's role
// is entitled to see. Admin and Supervisor see everything. A Farmer sees
// only records whose owning cow is in their managed set; records whose
// owner cannot be resolved are dropped rather than leaked. A Farmer with
// an empty managed set sees an empty list on every page.
func Visible[T any](items []T, role models.Role, managed models.CowSet, ownerOf func(T) (int, bool)) []T {
	if role.SeesAllRecords() {
		return items
	}

	visible := make([]T, 0, len(items))
	for _, item := range items {
		cowID, ok := ownerOf(item)
		if !ok {
			continue
		}
		if managed.Contains(cowID) {
			visible = append(visible, item)
		}
	}

	return visible
}
