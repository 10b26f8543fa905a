package main

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoura-app/amoura-console/internal/api"
	"github.com/amoura-app/amoura-console/internal/auth"
	"github.com/amoura-app/amoura-console/internal/moderation"
	"github.com/amoura-app/amoura-console/internal/session"
	"github.com/amoura-app/amoura-console/internal/stats"
)

type console struct {
	auth  *auth.Service
	users *moderation.Service
	stats *stats.Service
}

// newConsole wires the full client stack against the fixture backend, the
// same way cmd/amoura-console does it.
func newConsole(t *testing.T, baseURL string) *console {
	t.Helper()
	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	sessions := session.NewManager(store, nil)
	client := api.New(baseURL, sessions)
	authSvc := auth.NewService(client, sessions, nil)
	return &console{
		auth:  authSvc,
		users: moderation.NewService(client, authSvc, nil),
		stats: stats.NewService(client),
	}
}

func startBackend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(newServer(nil).routes())
	t.Cleanup(srv.Close)
	return srv.URL
}

func login(t *testing.T, c *console, email, password string) {
	t.Helper()
	_, err := c.auth.Login(context.Background(), auth.Credentials{
		Email:     email,
		Password:  password,
		LoginType: auth.LoginEmailPassword,
	})
	require.NoError(t, err)
}

func TestAdminEndToEnd(t *testing.T) {
	url := startBackend(t)
	c := newConsole(t, url)
	ctx := context.Background()

	login(t, c, "admin@amoura.app", "admin123")
	require.True(t, c.auth.IsAuthenticated(ctx))

	// Walk all 45 fixture users forward in three disjoint pages.
	seen := make(map[int64]bool)
	req := api.PageRequest{Limit: 20}
	pages := 0
	for {
		page, err := c.users.List(ctx, req)
		require.NoError(t, err)
		pages++
		for _, u := range page.Items {
			require.False(t, seen[u.ID], "user %d served twice", u.ID)
			seen[u.ID] = true
		}
		if !page.HasNext {
			break
		}
		req.Cursor = page.NextCursor
	}
	assert.Equal(t, 3, pages)
	assert.Len(t, seen, 45)

	// Step back from the second page boundary.
	first, err := c.users.List(ctx, api.PageRequest{Limit: 20})
	require.NoError(t, err)
	second, err := c.users.List(ctx, api.PageRequest{Limit: 20, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.True(t, second.HasPrevious)
	back, err := c.users.List(ctx, api.PageRequest{
		Limit: 20, Cursor: second.PreviousCursor, Direction: api.DirectionPrevious,
	})
	require.NoError(t, err)
	require.Len(t, back.Items, 20)
	assert.Equal(t, first.Items[0].ID, back.Items[0].ID, "previous page must return to the first window")

	// Detail, suspend, restore.
	u, err := c.users.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, moderation.StatusActive, u.Status)

	days := 7
	update, err := c.users.Suspend(ctx, 5, "", &days)
	require.NoError(t, err)
	assert.Equal(t, moderation.StatusSuspend, update.NewStatus)
	assert.Equal(t, moderation.StatusActive, update.PreviousStatus)
	assert.Equal(t, moderation.DefaultSuspendReason, update.Reason)

	u, err = c.users.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, moderation.StatusSuspend, u.Status)

	_, err = c.users.Restore(ctx, 5, "appeal accepted")
	require.NoError(t, err)

	d, err := c.stats.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(45), d.TotalUsers)

	require.NoError(t, c.auth.Logout(ctx))
	assert.False(t, c.auth.IsAuthenticated(ctx))
	_, err = c.users.List(ctx, api.PageRequest{})
	require.Error(t, err, "a cleared session must not reach admin routes")
	assert.Equal(t, api.KindPermission, api.KindOf(err),
		"signed out, the client-side matrix denies before the network")
}

func TestModeratorBlockedFromInactiveAccounts(t *testing.T) {
	url := startBackend(t)
	ctx := context.Background()

	admin := newConsole(t, url)
	login(t, admin, "admin@amoura.app", "admin123")
	_, err := admin.users.SetInactive(ctx, 11, "account closure request")
	require.NoError(t, err)

	mod := newConsole(t, url)
	login(t, mod, "moderator@amoura.app", "moderator123")

	// Client-side: deactivating at all is admin-only.
	_, err = mod.users.SetInactive(ctx, 12, "")
	require.Error(t, err)
	assert.Equal(t, api.KindPermission, api.KindOf(err))

	// Server-side: restoring an inactive account passes the local matrix
	// but the backend refuses it.
	_, err = mod.users.Restore(ctx, 11, "")
	require.Error(t, err)
	assert.Equal(t, api.KindPermission, api.KindOf(err))
	assert.Equal(t, "Only administrators can manage inactive accounts", err.Error())

	// Ordinary suspensions still work for moderators.
	_, err = mod.users.Suspend(ctx, 12, "spam reports", nil)
	require.NoError(t, err)
}

func TestPlainUserCannotSignIn(t *testing.T) {
	url := startBackend(t)
	c := newConsole(t, url)

	_, err := c.auth.Login(context.Background(), auth.Credentials{
		Email:     "user@amoura.app",
		Password:  "user123",
		LoginType: auth.LoginEmailPassword,
	})
	require.Error(t, err)
	assert.Equal(t, api.KindAuth, api.KindOf(err))
	assert.False(t, c.auth.IsAuthenticated(context.Background()))
}

func TestSearchFiltersAndPaginates(t *testing.T) {
	url := startBackend(t)
	c := newConsole(t, url)
	ctx := context.Background()
	login(t, c, "admin@amoura.app", "admin123")

	page, err := c.users.Search(ctx, "member0", api.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 9, "member01..member09 match")
	for _, u := range page.Items {
		assert.Contains(t, u.Username, "member0")
	}

	one, err := c.users.Search(ctx, "member42@example.com", api.PageRequest{})
	require.NoError(t, err)
	require.Len(t, one.Items, 1)
	assert.Equal(t, int64(42), one.Items[0].ID)
}

func TestRefreshAgainstBackend(t *testing.T) {
	url := startBackend(t)
	c := newConsole(t, url)
	ctx := context.Background()
	login(t, c, "moderator@amoura.app", "moderator123")

	next, err := c.auth.Refresh(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, next.AccessToken)
	assert.Equal(t, "MODERATOR", next.Role())

	// The rotated access token works; the whole stack stays signed in.
	_, err = c.users.List(ctx, api.PageRequest{Limit: 5})
	require.NoError(t, err)

	// Rotation is repeatable with the stored token.
	again, err := c.auth.Refresh(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, next.RefreshToken, again.RefreshToken)
	require.True(t, c.auth.IsAuthenticated(ctx))
}
