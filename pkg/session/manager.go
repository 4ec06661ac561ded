package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"clinic-voice-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Manager owns the session lifecycle: creation, retrieval, mutation, expiry
// and fallback selection between the durable and volatile stores.
//
// Fallback is sticky: once a session degrades to the volatile store it stays
// there for the rest of the process lifetime, preventing double-write races
// against a flapping durable backend.
type Manager struct {
	primary  Store
	fallback *MemoryStore
	ttl      time.Duration
	logger   logger.ILogger

	mu       sync.Mutex
	degraded map[string]bool // session ids pinned to the volatile store

	lockMu sync.Mutex
	locks  map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager wires the two-tier store policy. primary may be nil (no durable
// backend configured), in which case every session lives in the volatile
// store from the start.
func NewManager(primary Store, ttl time.Duration, log logger.ILogger) *Manager {
	return &Manager{
		primary:  primary,
		fallback: NewMemoryStore(ttl),
		ttl:      ttl,
		logger:   log,
		degraded: make(map[string]bool),
		locks:    make(map[string]*sessionLock),
	}
}

// Lock serializes turns for one session id. The returned func releases the
// lock; callers must hold it for the whole load→mutate→save cycle.
func (m *Manager) Lock(sessionID string) func() {
	m.lockMu.Lock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		m.locks[sessionID] = l
	}
	l.refs++
	m.lockMu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		m.lockMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, sessionID)
		}
		m.lockMu.Unlock()
	}
}

// GetOrCreate returns the live session for sessionID, or mints a fresh one if
// the id is empty, unknown, or expired. An expired record is never
// resurrected: the old id is abandoned and a new one issued.
func (m *Manager) GetOrCreate(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID != "" {
		sess, err := m.get(ctx, sessionID)
		if err == nil {
			if !sess.Expired(time.Now()) {
				return sess, nil
			}
			m.logger.Info("SessionManager", "Session expired, minting new id", map[string]interface{}{
				"old_session_id": sessionID,
			})
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return m.newSession(), nil
}

// Get returns the live session for sessionID, or ErrNotFound when the id is
// unknown or the record has expired.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := m.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Expired(time.Now()) {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Save persists the full record, refreshing last_active_at. On durable-store
// failure it retries once, then degrades the session to the volatile store.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	sess.LastActiveAt = time.Now().UTC()

	if m.primary == nil || m.isDegraded(sess.ID) {
		return m.fallback.Put(ctx, sess)
	}

	err := m.primary.Put(ctx, sess)
	if err != nil {
		err = m.primary.Put(ctx, sess) // one retry
	}
	if err != nil {
		m.degrade(sess.ID, "save", err)
		return m.fallback.Put(ctx, sess)
	}
	return nil
}

// Delete removes the session from whichever store holds it.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	if m.primary != nil && !m.isDegraded(sessionID) {
		if err := m.primary.Delete(ctx, sessionID); err != nil {
			m.logger.Warn("SessionManager", "Durable delete failed", map[string]interface{}{
				"session_id": sessionID, "error": err.Error(),
			})
		}
	}
	return m.fallback.Delete(ctx, sessionID)
}

// ListActive returns non-expired sessions across both tiers.
func (m *Manager) ListActive(ctx context.Context) ([]*Session, error) {
	now := time.Now()
	seen := make(map[string]bool)
	var out []*Session

	if m.primary != nil {
		durable, err := m.primary.List(ctx)
		if err != nil {
			m.logger.Warn("SessionManager", "Durable list failed, volatile tier only", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			for _, s := range durable {
				if !s.Expired(now) {
					out = append(out, s)
					seen[s.ID] = true
				}
			}
		}
	}

	volatile, _ := m.fallback.List(ctx)
	for _, s := range volatile {
		if !seen[s.ID] && !s.Expired(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Manager) get(ctx context.Context, sessionID string) (*Session, error) {
	if m.primary == nil || m.isDegraded(sessionID) {
		return m.fallback.Get(ctx, sessionID)
	}

	sess, err := m.primary.Get(ctx, sessionID)
	if err == nil || errors.Is(err, ErrNotFound) {
		return sess, err
	}

	// Durable backend unreachable: serve from the volatile tier and pin the
	// session there.
	m.degrade(sessionID, "get", err)
	return m.fallback.Get(ctx, sessionID)
}

func (m *Manager) newSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    now.Add(m.ttl),
		Verification: Verification{State: StateUnverified},
	}
}

func (m *Manager) isDegraded(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.degraded[sessionID]
}

func (m *Manager) degrade(sessionID, op string, cause error) {
	m.mu.Lock()
	already := m.degraded[sessionID]
	m.degraded[sessionID] = true
	m.mu.Unlock()

	if !already {
		m.logger.Warn("SessionManager", "Durable store unavailable, session degraded to volatile store", map[string]interface{}{
			"session_id": sessionID,
			"op":         op,
			"error":      cause.Error(),
		})
	}
}
