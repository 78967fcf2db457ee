package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"shootdispatch/models"
)

// SessionStore persists dispatch sessions. The revision is kept apart from
// the session body so it can be bumped without rewriting the body.
type SessionStore interface {
	Create(ctx context.Context, sess *models.DispatchSession) error
	Get(ctx context.Context, id string) (*models.DispatchSession, error)
	// BumpRevision increments and returns the session revision.
	BumpRevision(ctx context.Context, id string) (int64, error)
	// Update applies mutate to the stored session and writes it back. A
	// non-zero rev must still match the stored revision, otherwise the write
	// is refused with ErrStaleView. The revision itself is left unchanged.
	Update(ctx context.Context, id string, rev int64, mutate func(*models.DispatchSession)) (*models.DispatchSession, error)
	Delete(ctx context.Context, id string) error
}

const (
	sessionKeyPrefix = "dispatch:session:"
	// updateRetries bounds optimistic retries when a concurrent write lands
	// between read and commit.
	updateRetries = 3
)

func sessionKey(id string) string  { return sessionKeyPrefix + id }
func revisionKey(id string) string { return sessionKeyPrefix + id + ":rev" }

// RedisSessionStore keeps sessions in Redis with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Create(ctx context.Context, sess *models.DispatchSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch session: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, sessionKey(sess.ID), data, s.ttl)
		p.Set(ctx, revisionKey(sess.ID), sess.Revision, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store dispatch session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.DispatchSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dispatch session: %w", err)
	}
	rev, err := s.client.Get(ctx, revisionKey(id)).Int64()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dispatch session revision: %w", err)
	}

	var sess models.DispatchSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse dispatch session: %w", err)
	}
	sess.Revision = rev
	return &sess, nil
}

func (s *RedisSessionStore) BumpRevision(ctx context.Context, id string) (int64, error) {
	n, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to check dispatch session: %w", err)
	}
	if n == 0 {
		return 0, ErrSessionNotFound
	}

	var incr *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, revisionKey(id))
		p.Expire(ctx, revisionKey(id), s.ttl)
		p.Expire(ctx, sessionKey(id), s.ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to bump dispatch session revision: %w", err)
	}
	return incr.Val(), nil
}

func (s *RedisSessionStore) Update(ctx context.Context, id string, rev int64, mutate func(*models.DispatchSession)) (*models.DispatchSession, error) {
	var updated *models.DispatchSession
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, sessionKey(id)).Bytes()
		if err == redis.Nil {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		current, err := tx.Get(ctx, revisionKey(id)).Int64()
		if err == redis.Nil {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		if rev != 0 && current != rev {
			return ErrStaleView
		}

		var sess models.DispatchSession
		if err := json.Unmarshal(data, &sess); err != nil {
			return err
		}
		mutate(&sess)
		sess.ID = id
		sess.Revision = current
		data, err = json.Marshal(&sess)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, sessionKey(id), data, s.ttl)
			p.Expire(ctx, revisionKey(id), s.ttl)
			return nil
		})
		if err == nil {
			updated = &sess
		}
		return err
	}

	var err error
	for i := 0; i < updateRetries; i++ {
		err = s.client.Watch(ctx, txf, sessionKey(id), revisionKey(id))
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}

	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, redis.TxFailedErr):
		return nil, ErrStaleView
	case errors.Is(err, ErrStaleView), errors.Is(err, ErrSessionNotFound):
		return nil, err
	default:
		return nil, fmt.Errorf("failed to update dispatch session: %w", err)
	}
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id), revisionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to cancel dispatch session: %w", err)
	}
	return nil
}

// MemorySessionStore is a single-process SessionStore for development and tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, memorySession]
}

type memorySession struct {
	data []byte
	rev  int64
}

func NewMemorySessionStore(size int, ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{sessions: expirable.NewLRU[string, memorySession](size, nil, ttl)}
}

func (m *MemorySessionStore) Create(_ context.Context, sess *models.DispatchSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch session: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions.Add(sess.ID, memorySession{data: data, rev: sess.Revision})
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (*models.DispatchSession, error) {
	m.mu.Lock()
	entry, ok := m.sessions.Get(id)
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	var sess models.DispatchSession
	if err := json.Unmarshal(entry.data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse dispatch session: %w", err)
	}
	sess.Revision = entry.rev
	return &sess, nil
}

func (m *MemorySessionStore) BumpRevision(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.sessions.Get(id)
	if !ok {
		return 0, ErrSessionNotFound
	}
	entry.rev++
	m.sessions.Add(id, entry)
	return entry.rev, nil
}

func (m *MemorySessionStore) Update(_ context.Context, id string, rev int64, mutate func(*models.DispatchSession)) (*models.DispatchSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if rev != 0 && entry.rev != rev {
		return nil, ErrStaleView
	}
	var sess models.DispatchSession
	if err := json.Unmarshal(entry.data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse dispatch session: %w", err)
	}
	mutate(&sess)
	sess.ID = id
	sess.Revision = entry.rev
	data, err := json.Marshal(&sess)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dispatch session: %w", err)
	}
	m.sessions.Add(id, memorySession{data: data, rev: entry.rev})
	return &sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions.Remove(id)
	return nil
}
