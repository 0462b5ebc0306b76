package driving

import (
	"context"

	"github.com/kridos/AITabManager/internal/core/domain"
)

// CaptureInput is a raw snapshot of open tabs and windows.
type CaptureInput struct {
	// Name is the display label; a timestamp-derived name is assigned when empty.
	Name string

	// Tabs is the ordered tab snapshot.
	Tabs []domain.Tab

	// Windows is the ordered window snapshot.
	Windows []domain.Window
}

// SessionService manages captured sessions.
type SessionService interface {
	// Capture persists a new session and, when auto-context is enabled, kicks
	// off enrichment in the background. Returns as soon as the raw session is
	// durable; callers never wait for enrichment.
	Capture(ctx context.Context, input CaptureInput) (*domain.Session, error)

	// Get returns a session by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// List returns all sessions, most recently captured first.
	List(ctx context.Context) ([]domain.Session, error)

	// Rename updates a session's display label.
	Rename(ctx context.Context, id, name string) error

	// Delete removes a session and its embedding record.
	Delete(ctx context.Context, id string) error

	// Restore returns the session to reopen. Physically opening tabs is the
	// caller's concern.
	Restore(ctx context.Context, id string) (*domain.Session, error)
}
