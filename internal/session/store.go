package session

import "context"

// Store persists a session across process restarts. Implementations must
// treat Save and Clear as all-or-nothing over every key they own: tokens,
// the account blob and the logged-in flag travel together.
type Store interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}
