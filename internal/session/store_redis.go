package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyAccount      = "account"
	keyLoggedIn     = "logged_in"
)

// RedisStore persists the session in Redis under four keys that are always
// written and deleted together, for deployments where several console
// processes share one operator session.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore constructs a RedisStore. All keys are namespaced under
// prefix, e.g. "amoura:console:access_token".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "amoura:console"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + ":" + name
}

// Load reads the persisted session. Missing keys read as an empty session.
func (s *RedisStore) Load(ctx context.Context) (Session, error) {
	vals, err := s.client.MGet(ctx,
		s.key(keyAccessToken),
		s.key(keyRefreshToken),
		s.key(keyAccount),
		s.key(keyLoggedIn),
	).Result()
	if err != nil {
		return Session{}, fmt.Errorf("session: redis load: %w", err)
	}

	var sess Session
	if v, ok := vals[0].(string); ok {
		sess.AccessToken = v
	}
	if v, ok := vals[1].(string); ok {
		sess.RefreshToken = v
	}
	if v, ok := vals[2].(string); ok && v != "" {
		sess.Account = []byte(v)
	}
	if v, ok := vals[3].(string); ok {
		sess.LoggedIn = v == "true"
	}
	return sess, nil
}

// Save writes all four keys in one transaction.
func (s *RedisStore) Save(ctx context.Context, sess Session) error {
	loggedIn := "false"
	if sess.LoggedIn {
		loggedIn = "true"
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(keyAccessToken), sess.AccessToken, 0)
		pipe.Set(ctx, s.key(keyRefreshToken), sess.RefreshToken, 0)
		pipe.Set(ctx, s.key(keyAccount), string(sess.Account), 0)
		pipe.Set(ctx, s.key(keyLoggedIn), loggedIn, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("session: redis save: %w", err)
	}
	return nil
}

// Clear deletes every session key. Deleting keys that are already gone is
// not an error.
func (s *RedisStore) Clear(ctx context.Context) error {
	err := s.client.Del(ctx,
		s.key(keyAccessToken),
		s.key(keyRefreshToken),
		s.key(keyAccount),
		s.key(keyLoggedIn),
	).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("session: redis clear: %w", err)
	}
	return nil
}
