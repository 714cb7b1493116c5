package auth

import "testing"

func TestAuthorizeMatchesMatrix(t *testing.T) {
	type grant struct {
		role    Role
		kind    ResourceKind
		actions []Action
	}
	granted := []grant{
		{RoleDirector, ResourceSiteInspection, []Action{ActionRead, ActionCreate, ActionUpdate}},
		{RoleDirector, ResourceComplianceTemplate, []Action{ActionRead}},
		{RoleDirector, ResourceAuditLog, []Action{ActionRead}},
		{RoleProjectManager, ResourceSiteInspection, []Action{ActionRead, ActionCreate, ActionUpdate}},
		{RoleProjectManager, ResourceComplianceTemplate, []Action{ActionRead}},
		{RoleProjectManager, ResourceAuditLog, []Action{ActionRead}},
		{RoleClient, ResourceSiteInspection, []Action{ActionRead}},
		{RoleClient, ResourceComplianceTemplate, []Action{ActionRead}},
		{RoleTechnician, ResourceSiteInspection, []Action{ActionRead, ActionCreate}},
		{RoleTechnician, ResourceComplianceTemplate, []Action{ActionRead}},
	}

	allowed := map[Role]map[ResourceKind]map[Action]bool{}
	for _, g := range granted {
		if allowed[g.role] == nil {
			allowed[g.role] = map[ResourceKind]map[Action]bool{}
		}
		if allowed[g.role][g.kind] == nil {
			allowed[g.role][g.kind] = map[Action]bool{}
		}
		for _, a := range g.actions {
			allowed[g.role][g.kind][a] = true
		}
	}

	kinds := []ResourceKind{ResourceSiteInspection, ResourceComplianceTemplate, ResourceAuditLog}
	actions := []Action{ActionRead, ActionCreate, ActionUpdate}
	for _, role := range Roles() {
		for _, kind := range kinds {
			for _, action := range actions {
				want := allowed[role][kind][action]
				if got := Authorize(role, action, kind); got != want {
					t.Fatalf("Authorize(%s, %s, %s)=%v, want %v", role, action, kind, got, want)
				}
			}
		}
	}
}

func TestAuthorizeClientCannotMutateInspections(t *testing.T) {
	if !Authorize(RoleClient, ActionRead, ResourceSiteInspection) {
		t.Fatal("client should read site inspections")
	}
	if Authorize(RoleClient, ActionCreate, ResourceSiteInspection) {
		t.Fatal("client must not create site inspections")
	}
	if Authorize(RoleClient, ActionUpdate, ResourceSiteInspection) {
		t.Fatal("client must not update site inspections")
	}
}

func TestAuthorizeUnknownRoleDeniedEverywhere(t *testing.T) {
	for _, kind := range []ResourceKind{ResourceSiteInspection, ResourceComplianceTemplate, ResourceAuditLog} {
		for _, action := range []Action{ActionRead, ActionCreate, ActionUpdate} {
			if Authorize("", action, kind) {
				t.Fatalf("empty role must be denied %s on %s", action, kind)
			}
			if Authorize("Intern", action, kind) {
				t.Fatalf("unknown role must be denied %s on %s", action, kind)
			}
		}
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" ProjectManager ")
	if err != nil {
		t.Fatalf("ParseRole: %v", err)
	}
	if role != RoleProjectManager {
		t.Fatalf("unexpected role: %s", role)
	}
	if _, err := ParseRole("manager"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
