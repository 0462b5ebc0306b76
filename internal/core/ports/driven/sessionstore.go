package driven

import (
	"context"

	"github.com/kridos/AITabManager/internal/core/domain"
)

// SessionStore persists the session collection, newest-first.
//
// The backing medium stores the collection as a whole, so every mutation must
// be a find-by-id, replace-that-entry, write-back-the-collection cycle under a
// serializing lock. Update exists so callers cannot bypass that discipline:
// concurrent enrichment completions for different sessions must never lose
// each other's writes.
type SessionStore interface {
	// Save inserts a new session at the head of the collection.
	Save(ctx context.Context, session *domain.Session) error

	// Get returns a session by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// List returns all sessions, most recently captured first.
	List(ctx context.Context) ([]domain.Session, error)

	// Update applies mutate to the session with the given ID and persists the
	// result, merging by identifier under the store's write lock. Returns
	// domain.ErrNotFound for unknown IDs; mutate errors abort the write.
	Update(ctx context.Context, id string, mutate func(*domain.Session) error) error

	// Delete removes a session by ID, or returns domain.ErrNotFound.
	Delete(ctx context.Context, id string) error
}
