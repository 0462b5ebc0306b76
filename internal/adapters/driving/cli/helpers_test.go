package cli

import (
	"context"
	"errors"
	"time"

	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driving"
)

// mockSearchService implements driving.SearchService.
type mockSearchService struct {
	response domain.SearchResponse
	err      error
}

func (m *mockSearchService) Search(_ context.Context, _ string) (domain.SearchResponse, error) {
	return m.response, m.err
}

// mockSessionService implements driving.SessionService.
type mockSessionService struct {
	sessions  []domain.Session
	renamed   map[string]string
	deleted   []string
	captureIn *driving.CaptureInput
}

func (m *mockSessionService) Capture(_ context.Context, input driving.CaptureInput) (*domain.Session, error) {
	m.captureIn = &input
	if len(input.Tabs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	name := input.Name
	if name == "" {
		name = "Session Mar 1 12:00"
	}
	return &domain.Session{ID: "captured-id", Name: name, Tabs: input.Tabs}, nil
}

func (m *mockSessionService) Get(_ context.Context, id string) (*domain.Session, error) {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			return &m.sessions[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionService) List(_ context.Context) ([]domain.Session, error) {
	return m.sessions, nil
}

func (m *mockSessionService) Rename(_ context.Context, id, name string) error {
	if m.renamed == nil {
		m.renamed = make(map[string]string)
	}
	m.renamed[id] = name
	return nil
}

func (m *mockSessionService) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSessionService) Restore(ctx context.Context, id string) (*domain.Session, error) {
	return m.Get(ctx, id)
}

// mockEnrichmentService implements driving.EnrichmentService.
type mockEnrichmentService struct {
	enriched []string
	async    []string
	status   domain.GenerationStatus
	err      error
}

func (m *mockEnrichmentService) Enrich(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.enriched = append(m.enriched, id)
	return nil
}

func (m *mockEnrichmentService) EnrichAsync(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.async = append(m.async, id)
	return nil
}

func (m *mockEnrichmentService) Status(_ context.Context, _ string) (domain.GenerationStatus, error) {
	if m.err != nil {
		return domain.GenerationStatus{}, m.err
	}
	return m.status, nil
}

// mockSettingsService implements driving.SettingsService.
type mockSettingsService struct {
	settings domain.Settings
	getErr   error
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	if m.getErr != nil {
		return domain.Settings{}, m.getErr
	}
	return m.settings, nil
}

func (m *mockSettingsService) Save(settings domain.Settings) error {
	m.settings = settings
	return nil
}

func (m *mockSettingsService) SetProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.Provider = provider
	m.settings.Model = model
	m.settings.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetSearchSensitivity(sensitivity int) error {
	if sensitivity < domain.MinSearchSensitivity || sensitivity > domain.MaxSearchSensitivity {
		return domain.ErrInvalidInput
	}
	m.settings.SearchSensitivity = sensitivity
	return nil
}

// mockSearchServiceError always fails.
type mockSearchServiceError struct{}

func (m *mockSearchServiceError) Search(_ context.Context, _ string) (domain.SearchResponse, error) {
	return domain.SearchResponse{}, errors.New("backend unavailable")
}

func cliTestSessions() []domain.Session {
	return []domain.Session{
		{
			ID:        "sess-1",
			Name:      "Morning research",
			Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			Tabs: []domain.Tab{
				{URL: "https://go.dev", Title: "Go"},
				{URL: "https://pkg.go.dev", Title: "Packages"},
			},
			Windows:    []domain.Window{{TabCount: 2, Focused: true}},
			Context:    "reading Go documentation",
			TabGroups:  []domain.TabGroup{{Name: "Docs", TabIndices: []int{1, 2}}},
			Generation: domain.GenerationStatus{State: domain.GenerationComplete},
		},
	}
}

// setupTestServices installs mock services and returns a cleanup that restores
// the previous ones.
func setupTestServices() func() {
	oldSearch := searchService
	oldSession := sessionService
	oldEnrich := enrichService
	oldSettings := settingsService

	searchService = &mockSearchService{
		response: domain.SearchResponse{
			Results: cliTestSessions(),
			Method:  domain.SearchMethodText,
		},
	}
	sessionService = &mockSessionService{sessions: cliTestSessions()}
	enrichService = &mockEnrichmentService{
		status: domain.GenerationStatus{State: domain.GenerationComplete},
	}
	settingsService = &mockSettingsService{settings: domain.DefaultSettings()}

	return func() {
		searchService = oldSearch
		sessionService = oldSession
		enrichService = oldEnrich
		settingsService = oldSettings
	}
}
