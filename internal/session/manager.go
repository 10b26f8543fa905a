package session

import (
	"context"
	"log/slog"
	"sync"
)

// Manager is the single owner of credential state: an in-memory snapshot
// over a durable Store. Reads are cheap snapshot copies; writes go through
// Set and Clear only. By convention the sole mutators are the login/logout
// flows and the API client's 401 teardown; everything else just reads.
type Manager struct {
	store  Store
	logger *slog.Logger

	mu       sync.RWMutex
	current  Session
	hydrated bool

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewManager constructs a Manager over the given durable store.
func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		logger: logger,
		subs:   make(map[int]func()),
	}
}

// Set persists the session durably and then replaces the in-memory
// snapshot, so a crash between the two steps loses the cache, never the
// credential.
func (m *Manager) Set(ctx context.Context, sess Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(ctx, sess); err != nil {
		return err
	}
	m.current = sess
	m.hydrated = true
	return nil
}

// Current returns the session snapshot, re-hydrating from durable storage
// on first use after a restart. Hydration failures degrade to an empty
// session; the next request will surface the auth failure properly.
func (m *Manager) Current(ctx context.Context) Session {
	m.mu.RLock()
	if m.hydrated {
		sess := m.current
		m.mu.RUnlock()
		return sess
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hydrated {
		return m.current
	}
	sess, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("session hydration failed", slog.Any("error", err))
		return Session{}
	}
	m.current = sess
	m.hydrated = true
	return sess
}

// Clear wipes the in-memory snapshot and every durable key: tokens, the
// account blob and the logged-in flag. Clearing an empty manager is a
// no-op.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = Session{}
	m.hydrated = true
	return m.store.Clear(ctx)
}

// SubscribeExpiry registers fn to run whenever a session expiry is
// observed. The returned function removes the subscription.
func (m *Manager) SubscribeExpiry(fn func()) (unsubscribe func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

// NotifyExpired invokes every expiry subscriber once. Fired by the API
// client after it observes a 401 and tears the session down.
func (m *Manager) NotifyExpired() {
	m.subMu.Lock()
	fns := make([]func(), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
