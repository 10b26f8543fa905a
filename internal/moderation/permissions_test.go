package moderation

import "testing"

func TestAdminHasEveryCapability(t *testing.T) {
	caps := CapabilitiesFor(RoleAdmin)
	if !caps.CanViewUsers || !caps.CanViewUserDetails || !caps.CanSuspendUsers ||
		!caps.CanRestoreUsers || !caps.CanSetInactive {
		t.Fatalf("expected all admin capabilities, got %+v", caps)
	}
}

func TestModeratorCannotSetInactive(t *testing.T) {
	caps := CapabilitiesFor(RoleModerator)
	if caps.CanSetInactive {
		t.Fatal("moderators must not be able to set users inactive")
	}
	if !caps.CanViewUsers || !caps.CanViewUserDetails || !caps.CanSuspendUsers || !caps.CanRestoreUsers {
		t.Fatalf("expected every other moderator capability, got %+v", caps)
	}
}

func TestUnknownRolesHaveNoCapabilities(t *testing.T) {
	for _, role := range []string{"", "USER", "admin", "Moderator", "SUPERUSER", "root"} {
		if got := CapabilitiesFor(role); got != (CapabilitySet{}) {
			t.Fatalf("role %q: expected zero capabilities, got %+v", role, got)
		}
	}
}
