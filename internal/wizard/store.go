package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrDraftNotFound means the session has no draft (never started or expired).
var ErrDraftNotFound = errors.New("wizard: draft not found")

// Store persists drafts across reloads, keyed by session id. Persistence is
// best-effort: a lost draft just means the wizard starts over.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Draft, error)
	Save(ctx context.Context, d *Draft) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore keeps drafts as JSON values with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func draftKey(sessionID string) string { return "wizard:draft:" + sessionID }

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Draft, error) {
	raw, err := s.client.Get(ctx, draftKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *RedisStore) Save(ctx context.Context, d *Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, draftKey(d.SessionID), raw, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, draftKey(sessionID)).Err()
}
