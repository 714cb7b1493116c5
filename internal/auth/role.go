package auth

import (
	"fmt"
	"strings"
)

// Role is one of the fixed identity categories the portal recognises.
// The set is closed; there is no runtime role administration.
type Role string

const (
	RoleDirector       Role = "Director"
	RoleProjectManager Role = "ProjectManager"
	RoleClient         Role = "Client"
	RoleTechnician     Role = "Technician"
)

// Roles lists every known role in display order.
func Roles() []Role {
	return []Role{RoleDirector, RoleProjectManager, RoleClient, RoleTechnician}
}

// Action is an authorizable operation category.
type Action string

const (
	ActionRead   Action = "Read"
	ActionCreate Action = "Create"
	ActionUpdate Action = "Update"
)

// ResourceKind is a category of domain entity subject to authorization.
type ResourceKind string

const (
	ResourceSiteInspection     ResourceKind = "SiteInspection"
	ResourceComplianceTemplate ResourceKind = "ComplianceTemplate"
	ResourceAuditLog           ResourceKind = "AuditLog"
)

// permissions is the closed-world permission matrix. Absence means denied.
// It is immutable after init and safe for unsynchronized concurrent reads.
var permissions = map[Role]map[ResourceKind]map[Action]struct{}{
	RoleDirector: {
		ResourceSiteInspection:     allow(ActionRead, ActionCreate, ActionUpdate),
		ResourceComplianceTemplate: allow(ActionRead),
		ResourceAuditLog:           allow(ActionRead),
	},
	RoleProjectManager: {
		ResourceSiteInspection:     allow(ActionRead, ActionCreate, ActionUpdate),
		ResourceComplianceTemplate: allow(ActionRead),
		ResourceAuditLog:           allow(ActionRead),
	},
	RoleClient: {
		ResourceSiteInspection:     allow(ActionRead),
		ResourceComplianceTemplate: allow(ActionRead),
	},
	RoleTechnician: {
		ResourceSiteInspection:     allow(ActionRead, ActionCreate),
		ResourceComplianceTemplate: allow(ActionRead),
	},
}

func allow(actions ...Action) map[Action]struct{} {
	set := make(map[Action]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// Authorize reports whether role may perform action on the given resource
// kind. An empty role never has permissions.
func Authorize(role Role, action Action, kind ResourceKind) bool {
	byKind, ok := permissions[role]
	if !ok {
		return false
	}
	actions, ok := byKind[kind]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}

// ParseRole maps a wire-format role name onto a known Role.
func ParseRole(raw string) (Role, error) {
	candidate := Role(strings.TrimSpace(raw))
	for _, r := range Roles() {
		if candidate == r {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
}
