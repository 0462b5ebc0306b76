package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kridos/AITabManager/internal/adapters/driven/storage/kv"
	"github.com/kridos/AITabManager/internal/adapters/driven/storage/memory"
	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driving"
)

// mockEnricher records EnrichAsync calls.
type mockEnricher struct {
	mu       sync.Mutex
	asyncIDs []string
	asyncErr error
}

func (m *mockEnricher) Enrich(_ context.Context, _ string) error {
	return nil
}

func (m *mockEnricher) EnrichAsync(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.asyncIDs = append(m.asyncIDs, sessionID)
	return m.asyncErr
}

func (m *mockEnricher) Status(_ context.Context, _ string) (domain.GenerationStatus, error) {
	return domain.GenerationStatus{State: domain.GenerationIdle}, nil
}

func (m *mockEnricher) asyncCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.asyncIDs...)
}

// sessionFixture wires a session service over in-memory stores.
type sessionFixture struct {
	service  *SessionService
	sessions *kv.SessionStore
	vectors  *memory.VectorStore
	enricher *mockEnricher
	config   *mockConfigStore
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	sessions := kv.NewSessionStore(memory.NewKVStore())
	vectors := memory.NewVectorStore()
	enricher := &mockEnricher{}
	config := newMockConfigStore(configuredSettings())

	service := NewSessionService(sessions, vectors, enricher, config)
	service.now = func() time.Time {
		return time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	}

	return &sessionFixture{
		service:  service,
		sessions: sessions,
		vectors:  vectors,
		enricher: enricher,
		config:   config,
	}
}

func captureInput(name string) driving.CaptureInput {
	return driving.CaptureInput{
		Name: name,
		Tabs: []domain.Tab{
			{URL: "https://go.dev", Title: "Go"},
			{URL: "https://pkg.go.dev", Title: "Packages"},
		},
		Windows: []domain.Window{{TabCount: 2, Focused: true}},
	}
}

func TestSessionService_Capture(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.service.Capture(ctx, captureInput("Morning reading"))

	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "Morning reading", session.Name)
	assert.Len(t, session.Tabs, 2)
	assert.Equal(t, domain.GenerationIdle, session.GenerationState())

	stored, err := f.sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Name, stored.Name)
}

func TestSessionService_Capture_NoTabs(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.service.Capture(context.Background(), driving.CaptureInput{Name: "Empty"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionService_Capture_DefaultName(t *testing.T) {
	f := newSessionFixture(t)

	session, err := f.service.Capture(context.Background(), captureInput("   "))

	require.NoError(t, err)
	assert.Equal(t, "Session Mar 1 14:30", session.Name)
}

func TestSessionService_Capture_AutoEnrich(t *testing.T) {
	f := newSessionFixture(t)

	session, err := f.service.Capture(context.Background(), captureInput("n"))

	require.NoError(t, err)
	assert.Equal(t, []string{session.ID}, f.enricher.asyncCalls())
}

func TestSessionService_Capture_AutoContextDisabled(t *testing.T) {
	f := newSessionFixture(t)
	settings := configuredSettings()
	settings.AutoContext = false
	f.config.settings = settings

	_, err := f.service.Capture(context.Background(), captureInput("n"))

	require.NoError(t, err)
	assert.Empty(t, f.enricher.asyncCalls())
}

func TestSessionService_Capture_NoEnricher(t *testing.T) {
	f := newSessionFixture(t)
	f.service.enricher = nil

	session, err := f.service.Capture(context.Background(), captureInput("n"))

	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
}

func TestSessionService_Capture_EnrichStartFailureIsNotFatal(t *testing.T) {
	f := newSessionFixture(t)
	f.enricher.asyncErr = errors.New("llm not configured")

	session, err := f.service.Capture(context.Background(), captureInput("n"))

	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
}

func TestSessionService_List_NewestFirst(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	first, err := f.service.Capture(ctx, captureInput("first"))
	require.NoError(t, err)
	second, err := f.service.Capture(ctx, captureInput("second"))
	require.NoError(t, err)

	sessions, err := f.service.List(ctx)

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)
	assert.Equal(t, first.ID, sessions[1].ID)
}

func TestSessionService_Rename(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	session, err := f.service.Capture(ctx, captureInput("old"))
	require.NoError(t, err)

	require.NoError(t, f.service.Rename(ctx, session.ID, "  new name  "))

	stored, err := f.service.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "new name", stored.Name)
}

func TestSessionService_Rename_Invalid(t *testing.T) {
	f := newSessionFixture(t)

	err := f.service.Rename(context.Background(), "any", "   ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionService_Rename_UnknownSession(t *testing.T) {
	f := newSessionFixture(t)

	err := f.service.Rename(context.Background(), "missing", "name")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionService_Delete_RemovesSessionAndVector(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	session, err := f.service.Capture(ctx, captureInput("n"))
	require.NoError(t, err)
	require.NoError(t, f.vectors.Put(ctx, session.ID, []float32{1, 2}))

	require.NoError(t, f.service.Delete(ctx, session.ID))

	_, err = f.service.Get(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.vectors.Get(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionService_Delete_UnknownSession(t *testing.T) {
	f := newSessionFixture(t)

	err := f.service.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionService_Restore(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	session, err := f.service.Capture(ctx, captureInput("n"))
	require.NoError(t, err)

	restored, err := f.service.Restore(ctx, session.ID)

	require.NoError(t, err)
	assert.Equal(t, session.ID, restored.ID)
	assert.Len(t, restored.Tabs, 2)
}
