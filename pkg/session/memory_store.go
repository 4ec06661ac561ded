package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore is the volatile in-process fallback. Sessions stored here are
// lost on restart; that is the accepted availability-over-durability tradeoff
// when the durable backend is down.
type MemoryStore struct {
	cache *cache.Cache
}

var _ Store = &MemoryStore{}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	// Purge expired items every 10 minutes
	return &MemoryStore{cache: cache.New(ttl, 10*time.Minute)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	if x, found := s.cache.Get(sessionID); found {
		return x.(*Session), nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Put(_ context.Context, sess *Session) error {
	s.cache.Set(sess.ID, sess, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.cache.Delete(sessionID)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Session, error) {
	items := s.cache.Items()
	sessions := make([]*Session, 0, len(items))
	for _, item := range items {
		sessions = append(sessions, item.Object.(*Session))
	}
	return sessions, nil
}
