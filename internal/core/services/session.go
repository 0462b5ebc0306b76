package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driven"
	"github.com/kridos/AITabManager/internal/core/ports/driving"
	"github.com/kridos/AITabManager/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService manages captured sessions and triggers enrichment.
type SessionService struct {
	sessions driven.SessionStore
	vectors  driven.VectorStore
	enricher driving.EnrichmentService
	config   driven.ConfigStore
	now      func() time.Time
}

// NewSessionService creates a session service.
// The enricher is optional; when nil, captured sessions stay unenriched until
// an explicit enrich run.
func NewSessionService(
	sessions driven.SessionStore,
	vectors driven.VectorStore,
	enricher driving.EnrichmentService,
	config driven.ConfigStore,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		vectors:  vectors,
		enricher: enricher,
		config:   config,
		now:      time.Now,
	}
}

// Capture persists a new session and fires enrichment in the background when
// auto-context is enabled. The caller gets the raw session back as soon as it
// is durable; enrichment progress is visible through the generation status.
func (s *SessionService) Capture(ctx context.Context, input driving.CaptureInput) (*domain.Session, error) {
	if len(input.Tabs) == 0 {
		return nil, fmt.Errorf("%w: a session needs at least one tab", domain.ErrInvalidInput)
	}

	capturedAt := s.now()
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "Session " + capturedAt.Format("Jan 2 15:04")
	}

	session := &domain.Session{
		ID:         uuid.NewString(),
		Name:       name,
		Tabs:       input.Tabs,
		Windows:    input.Windows,
		Timestamp:  capturedAt,
		Generation: domain.GenerationStatus{State: domain.GenerationIdle},
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	logger.Info("Captured session %s (%d tabs)", session.ID, len(session.Tabs))

	if s.enricher != nil {
		settings, err := s.config.Load()
		if err != nil {
			logger.Warn("Load settings after capture failed: %v (skipping enrichment)", err)
			return session, nil
		}
		if settings.AutoContext {
			if err := s.enricher.EnrichAsync(ctx, session.ID); err != nil {
				// Capture already succeeded; enrichment problems surface via
				// the session's generation status, not this call.
				logger.Warn("Auto-enrichment for %s did not start: %v", session.ID, err)
			}
		}
	}

	return session, nil
}

// Get returns a session by ID.
func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.sessions.Get(ctx, id)
}

// List returns all sessions, most recently captured first.
func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	return s.sessions.List(ctx)
}

// Rename updates a session's display label.
func (s *SessionService) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", domain.ErrInvalidInput)
	}
	return s.sessions.Update(ctx, id, func(session *domain.Session) error {
		session.Name = name
		return nil
	})
}

// Delete removes a session and its embedding record.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.vectors.Delete(ctx, id); err != nil {
		logger.Warn("Deleting embedding for %s failed: %v", id, err)
	}
	return nil
}

// Restore returns the session to reopen. The browser-side tab manipulation is
// an external collaborator's concern.
func (s *SessionService) Restore(ctx context.Context, id string) (*domain.Session, error) {
	return s.sessions.Get(ctx, id)
}
