package domain

import "testing"

func TestRolePrecedence(t *testing.T) {
	ordered := []Role{RoleAdmin, RoleManager, RoleMember, RoleViewer, RoleBlocked}

	for i := 0; i < len(ordered)-1; i++ {
		higher, lower := ordered[i], ordered[i+1]
		if higher.Precedence() <= lower.Precedence() {
			t.Errorf("expected %s to outrank %s", higher, lower)
		}
	}

	if Role("bogus").Precedence() >= RoleBlocked.Precedence() {
		t.Error("expected unknown role to rank below blocked")
	}
}

func TestRoleElevated(t *testing.T) {
	if !RoleAdmin.Elevated() || !RoleManager.Elevated() {
		t.Error("expected admin and manager to be elevated")
	}
	for _, r := range []Role{RoleMember, RoleViewer, RoleBlocked} {
		if r.Elevated() {
			t.Errorf("expected %s not to be elevated", r)
		}
	}
}

func TestParseRole(t *testing.T) {
	t.Run("valid roles including blocked wire form", func(t *testing.T) {
		for _, s := range []string{"admin", "manager", "member", "viewer", "-blocked-"} {
			role, err := ParseRole(s)
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", s, err)
			}
			if string(role) != s {
				t.Errorf("expected %q, got %q", s, role)
			}
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		if _, err := ParseRole("owner"); err == nil {
			t.Error("expected error for unknown role")
		}
	})

	t.Run("blocked without dashes is rejected", func(t *testing.T) {
		if _, err := ParseRole("blocked"); err == nil {
			t.Error("expected error, wire form is -blocked-")
		}
	})
}

func TestManagedMapHasACL(t *testing.T) {
	m := ManagedMap{ACLID: "acl-1"}
	if m.HasACL() {
		t.Error("expected false when api key missing")
	}

	m.ACLAPIKey = "key"
	if !m.HasACL() {
		t.Error("expected true when both id and key set")
	}
}

func TestManagedMapACLRef(t *testing.T) {
	m := ManagedMap{
		WandererURL: "https://wanderer.example",
		ACLID:       "acl-1",
		ACLAPIKey:   "secret",
	}

	ref := m.ACLRef()
	if ref.BaseURL != m.WandererURL || ref.ID != m.ACLID || ref.APIKey != m.ACLAPIKey {
		t.Errorf("unexpected ref: %+v", ref)
	}
}

func TestManagedACLName(t *testing.T) {
	if got := ManagedACLName("home-map"); got != "AA ACL home-map" {
		t.Errorf("unexpected name: %q", got)
	}
}
