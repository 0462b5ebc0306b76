package driven

import (
	"context"

	"github.com/kridos/AITabManager/internal/core/domain"
)

// VectorStore persists session summary embeddings, keyed 1:1 by session ID.
// Operations are atomic per key; failures reflect storage unavailability and
// are reported, never swallowed.
type VectorStore interface {
	// Put stores or overwrites the vector for a session, stamping current time.
	Put(ctx context.Context, sessionID string, vector []float32) error

	// Get returns the record for a session, or domain.ErrNotFound.
	Get(ctx context.Context, sessionID string) (*domain.EmbeddingRecord, error)

	// GetAll returns every record in no particular order. Similarity search
	// scans the full set; index sizes are hundreds, not millions.
	GetAll(ctx context.Context) ([]domain.EmbeddingRecord, error)

	// Delete removes the record for a session. Deleting an absent record is not
	// an error.
	Delete(ctx context.Context, sessionID string) error

	// Clear removes all records.
	Clear(ctx context.Context) error
}
