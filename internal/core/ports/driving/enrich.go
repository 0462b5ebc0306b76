package driving

import (
	"context"

	"github.com/kridos/AITabManager/internal/core/domain"
)

// EnrichmentService derives summary, grouping and embedding for sessions.
type EnrichmentService interface {
	// Enrich runs the full workflow for one session and blocks until it
	// reaches a terminal state. The returned error mirrors what the session's
	// generation status records.
	Enrich(ctx context.Context, sessionID string) error

	// EnrichAsync starts the workflow in the background and returns once the
	// generating state is persisted, so concurrent readers observe progress.
	EnrichAsync(ctx context.Context, sessionID string) error

	// Status reports the current workflow state for a session.
	Status(ctx context.Context, sessionID string) (domain.GenerationStatus, error)
}
