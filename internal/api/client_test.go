package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoura-app/amoura-console/internal/api"
	"github.com/amoura-app/amoura-console/internal/session"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	return session.NewManager(store, nil)
}

func signIn(t *testing.T, m *session.Manager, token, role string) {
	t.Helper()
	err := m.Set(context.Background(), session.Session{
		AccessToken:  token,
		RefreshToken: "refresh",
		Account:      json.RawMessage(`{"roleName":"` + role + `"}`),
		LoggedIn:     true,
	})
	require.NoError(t, err)
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sessions := newManager(t)
	client := api.New(srv.URL, sessions)

	require.NoError(t, client.Get(context.Background(), "/ping", nil, nil))
	assert.Empty(t, gotAuth, "unauthenticated request must not carry a bearer header")

	signIn(t, sessions, "tok-123", "ADMIN")
	require.NoError(t, client.Get(context.Background(), "/ping", nil, nil))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClientReReadsCredentialPerRequest(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sessions := newManager(t)
	client := api.New(srv.URL, sessions)

	signIn(t, sessions, "before", "ADMIN")
	require.NoError(t, client.Get(context.Background(), "/ping", nil, nil))
	require.Equal(t, "Bearer before", gotAuth)

	// A concurrent refresh rotates the token; the next call picks it up
	// without reconstructing the client.
	signIn(t, sessions, "after", "ADMIN")
	require.NoError(t, client.Get(context.Background(), "/ping", nil, nil))
	assert.Equal(t, "Bearer after", gotAuth)
}

func TestClientTransportFailure(t *testing.T) {
	sessions := newManager(t)
	// Nothing listens here.
	client := api.New("http://127.0.0.1:1", sessions)

	err := client.Get(context.Background(), "/ping", nil, nil)
	require.Error(t, err)
	assert.Equal(t, api.KindNetwork, api.KindOf(err))
	assert.Equal(t, "Network connection failed", err.Error())
}

func TestClientClassifiesServerUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := api.New(srv.URL, newManager(t))
	err := client.Get(context.Background(), "/ping", nil, nil)
	require.Error(t, err)
	assert.Equal(t, api.KindNetwork, api.KindOf(err))
	assert.Equal(t, "Backend service unavailable", err.Error())
}

func TestClientTearsDownSessionOn401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sessions := newManager(t)
	signIn(t, sessions, "stale", "ADMIN")

	fired := 0
	unsubscribe := sessions.SubscribeExpiry(func() { fired++ })
	defer unsubscribe()

	client := api.New(srv.URL, sessions)
	err := client.Get(context.Background(), "/admin/users", nil, nil)
	require.Error(t, err)
	assert.Equal(t, api.KindAuth, api.KindOf(err))

	assert.True(t, sessions.Current(context.Background()).IsZero(),
		"stored credential must be gone after a 401")
	assert.Equal(t, 1, fired, "expiry signal must fire exactly once")
}

func TestClientClassifiesPermissionAndNotFound(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind api.ErrorKind
		wantMsg  string
	}{
		{"forbidden with message", http.StatusForbidden, `{"message":"Only administrators can manage inactive accounts"}`, api.KindPermission, "Only administrators can manage inactive accounts"},
		{"forbidden bare", http.StatusForbidden, ``, api.KindPermission, "Access forbidden"},
		{"not found", http.StatusNotFound, `{"message":"User not found with ID: 7"}`, api.KindNotFound, "User not found with ID: 7"},
		{"server error with message", http.StatusConflict, `{"error":"duplicate action"}`, api.KindServer, "duplicate action"},
		{"server error bare", http.StatusTeapot, ``, api.KindServer, "HTTP Error: 418"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.body != "" {
					w.Header().Set("Content-Type", "application/json")
				}
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := api.New(srv.URL, newManager(t))
			err := client.Get(context.Background(), "/x", nil, nil)
			require.Error(t, err)
			assert.Equal(t, tc.wantKind, api.KindOf(err))
			assert.Equal(t, tc.wantMsg, err.Error())
		})
	}
}

func TestClientProtocolErrorOnUnparsableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"half":`))
	}))
	defer srv.Close()

	client := api.New(srv.URL, newManager(t))
	var out map[string]any
	err := client.Get(context.Background(), "/x", nil, &out)
	require.Error(t, err)
	assert.Equal(t, api.KindProtocol, api.KindOf(err))
	assert.Equal(t, "Invalid response from server.", err.Error())
}

func TestClientEmptyBodySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := api.New(srv.URL, newManager(t))
	out := map[string]any{"untouched": true}
	require.NoError(t, client.Get(context.Background(), "/x", nil, &out))
	assert.Equal(t, map[string]any{"untouched": true}, out,
		"an absent value must leave out untouched")
}

func TestClientDecodesSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "v", r.URL.Query().Get("k"))
		w.Write([]byte(`{"greeting":"hello"}`))
	}))
	defer srv.Close()

	client := api.New(srv.URL, newManager(t))
	var out struct {
		Greeting string `json:"greeting"`
	}
	require.NoError(t, client.Get(context.Background(), "/x", map[string]string{"k": "v"}, &out))
	assert.Equal(t, "hello", out.Greeting)
}
