package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amoura-app/amoura-console/internal/api"
)

// RoleSource yields the acting operator's role claim. Satisfied by the
// session manager through a small adapter in the composition root.
type RoleSource interface {
	CurrentRole(ctx context.Context) string
}

// Service is the user status workflow: every operation checks the
// capability matrix before touching the network, and denied mutations
// return the same permission error shape a server-side 403 would, so
// callers render feedback uniformly.
type Service struct {
	client *api.Client
	roles  RoleSource
	logger *slog.Logger
}

// NewService constructs the workflow over the given client and role source.
func NewService(client *api.Client, roles RoleSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, roles: roles, logger: logger}
}

// Capabilities returns the acting operator's capability set.
func (s *Service) Capabilities(ctx context.Context) CapabilitySet {
	return CapabilitiesFor(s.roles.CurrentRole(ctx))
}

// List fetches one page of users in natural order.
func (s *Service) List(ctx context.Context, req api.PageRequest) (api.Page[User], error) {
	if !s.Capabilities(ctx).CanViewUsers {
		return api.Page[User]{}, api.NewError(api.KindPermission, "You do not have permission to view users.")
	}
	return api.FetchPage[User](ctx, s.client, "/admin/users", nil, req)
}

// Search fetches one page of users matching term. Search keeps its own
// cursor lineage: cursors from List and Search are not interchangeable.
func (s *Service) Search(ctx context.Context, term string, req api.PageRequest) (api.Page[User], error) {
	if !s.Capabilities(ctx).CanViewUsers {
		return api.Page[User]{}, api.NewError(api.KindPermission, "You do not have permission to view users.")
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return api.Page[User]{}, api.NewError(api.KindValidation, "Search term is required.")
	}
	return api.FetchPage[User](ctx, s.client, "/admin/users/search", map[string]string{"q": term}, req)
}

// GetByID fetches a single user record.
func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	if !s.Capabilities(ctx).CanViewUserDetails {
		return User{}, api.NewError(api.KindPermission, "You do not have permission to view user details.")
	}
	var user User
	if err := s.client.Get(ctx, fmt.Sprintf("/admin/users/%d", id), nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Suspend moves a user to SUSPEND. A blank reason is replaced with
// DefaultSuspendReason so the backend never receives an empty field; days,
// when present, must be one of SuspensionDays, and nil means permanent.
func (s *Service) Suspend(ctx context.Context, id int64, reason string, days *int) (StatusUpdate, error) {
	if !s.Capabilities(ctx).CanSuspendUsers {
		return StatusUpdate{}, api.NewError(api.KindPermission, "You do not have permission to suspend users.")
	}
	if days != nil && !validSuspensionDays(*days) {
		return StatusUpdate{}, api.NewError(api.KindValidation,
			fmt.Sprintf("Suspension duration must be one of %v days.", SuspensionDays))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultSuspendReason
	}
	return s.updateStatus(ctx, id, statusUpdateRequest{
		Status:         StatusSuspend,
		Reason:         reason,
		SuspensionDays: days,
	})
}

// Restore moves a suspended user back to ACTIVE. The reason is optional.
func (s *Service) Restore(ctx context.Context, id int64, reason string) (StatusUpdate, error) {
	if !s.Capabilities(ctx).CanRestoreUsers {
		return StatusUpdate{}, api.NewError(api.KindPermission, "You do not have permission to restore users.")
	}
	return s.updateStatus(ctx, id, statusUpdateRequest{
		Status: StatusActive,
		Reason: strings.TrimSpace(reason),
	})
}

// SetInactive moves a user to the INACTIVE administrative state. Reserved
// for administrators; moderators are rejected here without a round trip.
func (s *Service) SetInactive(ctx context.Context, id int64, reason string) (StatusUpdate, error) {
	if !s.Capabilities(ctx).CanSetInactive {
		return StatusUpdate{}, api.NewError(api.KindPermission, "Only administrators can set users inactive.")
	}
	return s.updateStatus(ctx, id, statusUpdateRequest{
		Status: StatusInactive,
		Reason: strings.TrimSpace(reason),
	})
}

// Reactivate moves an INACTIVE user back to ACTIVE. Gated like SetInactive:
// leaving the inactive state is as administrative as entering it.
func (s *Service) Reactivate(ctx context.Context, id int64, reason string) (StatusUpdate, error) {
	if !s.Capabilities(ctx).CanSetInactive {
		return StatusUpdate{}, api.NewError(api.KindPermission, "Only administrators can reactivate inactive users.")
	}
	return s.updateStatus(ctx, id, statusUpdateRequest{
		Status: StatusActive,
		Reason: strings.TrimSpace(reason),
	})
}

func (s *Service) updateStatus(ctx context.Context, id int64, req statusUpdateRequest) (StatusUpdate, error) {
	var update StatusUpdate
	if err := s.client.Put(ctx, fmt.Sprintf("/admin/users/%d/status", id), req, &update); err != nil {
		return StatusUpdate{}, err
	}
	s.logger.Info("user status updated",
		slog.Int64("user_id", update.UserID),
		slog.String("previous", string(update.PreviousStatus)),
		slog.String("new", string(update.NewStatus)))
	return update, nil
}

func validSuspensionDays(days int) bool {
	for _, d := range SuspensionDays {
		if d == days {
			return true
		}
	}
	return false
}
