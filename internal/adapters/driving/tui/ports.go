package tui

import (
	"github.com/kridos/AITabManager/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides tiered session search.
	Search driving.SearchService

	// Session manages captured sessions.
	Session driving.SessionService

	// Enrich runs the enrichment workflow. Optional; the sessions view hides
	// the enrich binding when nil.
	Enrich driving.EnrichmentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Session == nil {
		return ErrMissingSessionService
	}
	return nil
}
