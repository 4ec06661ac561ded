package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get when no record exists for the id.
var ErrNotFound = errors.New("session not found")

// Store is the persistence contract. The durable implementation enforces TTL
// server-side; the volatile implementation is bounded by process lifetime and
// relies on the Manager's own expiry check.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
	Put(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, sessionID string) error

	// List returns all live sessions (admin/monitoring).
	List(ctx context.Context) ([]*Session, error)
}
