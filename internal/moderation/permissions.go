package moderation

// Roles the console recognises. Any other role claim, including absence of
// one, carries zero capabilities.
const (
	RoleAdmin     = "ADMIN"
	RoleModerator = "MODERATOR"
)

// CapabilitySet enumerates the moderation actions a role may attempt from
// the client. It is advisory: the server re-checks every mutating call, so
// callers still handle a remote permission rejection.
type CapabilitySet struct {
	CanViewUsers       bool
	CanViewUserDetails bool
	CanSuspendUsers    bool
	CanRestoreUsers    bool
	CanSetInactive     bool
}

// CapabilitiesFor maps a role claim to its capability set. It is pure and
// total; unrecognised roles degrade to all-false. Setting a user inactive
// is reserved for full administrators, while suspend/restore are routine
// moderation actions delegated to moderators.
func CapabilitiesFor(role string) CapabilitySet {
	switch role {
	case RoleAdmin:
		return CapabilitySet{
			CanViewUsers:       true,
			CanViewUserDetails: true,
			CanSuspendUsers:    true,
			CanRestoreUsers:    true,
			CanSetInactive:     true,
		}
	case RoleModerator:
		return CapabilitySet{
			CanViewUsers:       true,
			CanViewUserDetails: true,
			CanSuspendUsers:    true,
			CanRestoreUsers:    true,
			CanSetInactive:     false,
		}
	default:
		return CapabilitySet{}
	}
}
