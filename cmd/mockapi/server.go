package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/amoura-app/amoura-console/internal/moderation"
	"github.com/amoura-app/amoura-console/internal/platform/httpx"
)

// account is a console login identity, distinct from the managed platform
// users below.
type account struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	Username     string `json:"username"`
	RoleName     string `json:"roleName"`
	passwordHash []byte
}

type server struct {
	logger *slog.Logger

	mu       sync.RWMutex
	accounts map[string]*account // by email
	users    map[int64]*moderation.User
	order    []int64 // user ids ascending, insertion order of the backend

	tokens   map[string]*account // access token -> account
	refresh  map[string]*account // refresh token -> account
}

func newServer(logger *slog.Logger) *server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &server{
		logger:   logger,
		accounts: make(map[string]*account),
		users:    make(map[int64]*moderation.User),
		tokens:   make(map[string]*account),
		refresh:  make(map[string]*account),
	}
	s.seed()
	return s
}

func (s *server) seed() {
	hash := func(pw string) []byte {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		return h
	}
	for _, a := range []*account{
		{ID: 1, Email: "admin@amoura.app", PhoneNumber: "+84900000001", Username: "admin", RoleName: "ADMIN", passwordHash: hash("admin123")},
		{ID: 2, Email: "moderator@amoura.app", PhoneNumber: "+84900000002", Username: "moderator", RoleName: "MODERATOR", passwordHash: hash("moderator123")},
		{ID: 3, Email: "user@amoura.app", PhoneNumber: "+84900000003", Username: "plainuser", RoleName: "USER", passwordHash: hash("user123")},
	} {
		s.accounts[a.Email] = a
	}

	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	for i := int64(1); i <= 45; i++ {
		u := &moderation.User{
			ID:          i,
			Username:    fmt.Sprintf("member%02d", i),
			Email:       fmt.Sprintf("member%02d@example.com", i),
			PhoneNumber: fmt.Sprintf("+8491%07d", i),
			FirstName:   fmt.Sprintf("First%02d", i),
			LastName:    fmt.Sprintf("Last%02d", i),
			FullName:    fmt.Sprintf("First%02d Last%02d", i, i),
			RoleName:    "USER",
			Status:      moderation.StatusActive,
			LastLogin:   base.Add(time.Duration(i) * time.Hour),
			CreatedAt:   base.Add(-time.Duration(i) * 24 * time.Hour),
			UpdatedAt:   base,
			HasProfile:  i%4 != 0,
			PhotoCount:  int(i % 6),
		}
		if i%9 == 0 {
			u.Status = moderation.StatusSuspend
		}
		s.users[i] = u
		s.order = append(s.order, i)
	}
	sort.Slice(s.order, func(a, b int) bool { return s.order[a] < s.order[b] })
}

// ---- auth ----

type loginRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	OTPCode     string `json:"otpCode"`
	LoginType   string `json:"loginType"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Malformed login request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var acct *account
	switch req.LoginType {
	case "PHONE_PASSWORD":
		for _, a := range s.accounts {
			if a.PhoneNumber == req.PhoneNumber {
				acct = a
				break
			}
		}
	default:
		acct = s.accounts[req.Email]
	}
	if acct == nil {
		httpx.Message(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if req.LoginType == "EMAIL_OTP" {
		// Fixture OTP, good enough for local development.
		if req.OTPCode != "000000" {
			httpx.Message(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
	} else if bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)) != nil {
		httpx.Message(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	access := uuid.NewString()
	refresh := uuid.NewString()
	s.tokens[access] = acct
	s.refresh[refresh] = acct

	httpx.JSON(w, http.StatusOK, map[string]any{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         acct,
	})
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var refresh string
	if err := httpx.DecodeJSON(r, &refresh); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Malformed logout request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if acct, ok := s.refresh[refresh]; ok {
		delete(s.refresh, refresh)
		for tok, a := range s.tokens {
			if a == acct {
				delete(s.tokens, tok)
			}
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var refresh string
	if err := httpx.DecodeJSON(r, &refresh); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Malformed refresh request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.refresh[refresh]
	if !ok {
		httpx.Message(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	delete(s.refresh, refresh)
	access := uuid.NewString()
	next := uuid.NewString()
	s.tokens[access] = acct
	s.refresh[next] = acct

	httpx.JSON(w, http.StatusOK, map[string]any{
		"accessToken":  access,
		"refreshToken": next,
		"user":         acct,
	})
}

func (s *server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			httpx.Message(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		s.mu.RLock()
		acct := s.tokens[token]
		s.mu.RUnlock()
		if acct == nil {
			httpx.Message(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(withAccount(r.Context(), acct)))
	})
}

// ---- admin ----

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := int64(0)
	for _, u := range s.users {
		if u.Status == moderation.StatusActive {
			active++
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"totalUsers":       len(s.users),
		"totalMatches":     128,
		"totalMessages":    4096,
		"todayUsers":       3,
		"todayMatches":     7,
		"todayMessages":    42,
		"activeUsersToday": active,
		"userGrowthChart": []map[string]any{
			{"date": "2025-01-14", "newUsers": 5},
			{"date": "2025-01-15", "newUsers": 3},
		},
		"matchingSuccessChart": []map[string]any{
			{"date": "2025-01-14", "totalSwipes": 210, "totalMatches": 12},
			{"date": "2025-01-15", "totalSwipes": 180, "totalMatches": 9},
		},
		"recentActivities": []map[string]any{},
	})
}

func (s *server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.respondPage(w, r, s.order)
}

func (s *server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if q == "" {
		httpx.Message(w, http.StatusBadRequest, "Search term is required")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []int64
	for _, id := range s.order {
		u := s.users[id]
		if strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Email), q) ||
			strings.Contains(strings.ToLower(u.FullName), q) {
			matched = append(matched, id)
		}
	}
	s.respondPage(w, r, matched)
}

// respondPage slices ids (ascending) into a cursor page. The cursor is the
// boundary user id from the previous response, exactly like the production
// backend. Callers must hold s.mu.
func (s *server) respondPage(w http.ResponseWriter, r *http.Request, ids []int64) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	var cursor *int64
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Message(w, http.StatusBadRequest, "Malformed cursor")
			return
		}
		cursor = &n
	}
	direction := r.URL.Query().Get("direction")
	if direction == "" {
		direction = "NEXT"
	}

	var window []int64
	switch direction {
	case "NEXT":
		start := 0
		if cursor != nil {
			for i, id := range ids {
				if id > *cursor {
					start = i
					break
				}
				start = len(ids)
			}
		}
		end := start + limit
		if end > len(ids) {
			end = len(ids)
		}
		window = ids[start:end]
	case "PREVIOUS":
		end := len(ids)
		if cursor != nil {
			end = 0
			for i, id := range ids {
				if id < *cursor {
					end = i + 1
				}
			}
		}
		start := end - limit
		if start < 0 {
			start = 0
		}
		window = ids[start:end]
	default:
		httpx.Message(w, http.StatusBadRequest, "Direction must be NEXT or PREVIOUS")
		return
	}

	items := make([]*moderation.User, 0, len(window))
	for _, id := range window {
		items = append(items, s.users[id])
	}

	resp := map[string]any{
		"data":        items,
		"count":       len(items),
		"hasNext":     false,
		"hasPrevious": false,
	}
	if len(window) > 0 {
		last := window[len(window)-1]
		first := window[0]
		for _, id := range ids {
			if id > last {
				resp["hasNext"] = true
				resp["nextCursor"] = last
				break
			}
		}
		for _, id := range ids {
			if id < first {
				resp["hasPrevious"] = true
				resp["previousCursor"] = first
			}
		}
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (s *server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Malformed user id")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		httpx.Message(w, http.StatusNotFound, fmt.Sprintf("User not found with ID: %d", id))
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

type statusUpdateRequest struct {
	Status         moderation.Status `json:"status"`
	Reason         string            `json:"reason"`
	SuspensionDays *int              `json:"suspensionDays"`
}

func (s *server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Malformed user id")
		return
	}
	var req statusUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Malformed status update request")
		return
	}
	switch req.Status {
	case moderation.StatusActive, moderation.StatusSuspend, moderation.StatusInactive:
	default:
		httpx.Message(w, http.StatusBadRequest, "Status must be ACTIVE, INACTIVE, or SUSPEND")
		return
	}

	acct := accountFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		httpx.Message(w, http.StatusNotFound, fmt.Sprintf("User not found with ID: %d", id))
		return
	}

	// The server is the authoritative permission check; the client matrix
	// is only advisory.
	if acct.RoleName != "ADMIN" {
		if acct.RoleName != "MODERATOR" {
			httpx.Message(w, http.StatusForbidden, "Access forbidden")
			return
		}
		if req.Status == moderation.StatusInactive || u.Status == moderation.StatusInactive {
			httpx.Message(w, http.StatusForbidden, "Only administrators can manage inactive accounts")
			return
		}
	}

	previous := u.Status
	u.Status = req.Status
	u.UpdatedAt = time.Now().UTC()

	httpx.JSON(w, http.StatusOK, map[string]any{
		"userId":         u.ID,
		"previousStatus": previous,
		"newStatus":      u.Status,
		"reason":         req.Reason,
		"message":        "User status updated successfully",
	})
}
