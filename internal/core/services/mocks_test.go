package services

import (
	"context"
	"sync"
	"time"

	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	mu       sync.Mutex
	settings domain.Settings
	loadErr  error
	saveErr  error
}

func newMockConfigStore(settings domain.Settings) *mockConfigStore {
	return &mockConfigStore{settings: settings}
}

func (m *mockConfigStore) Load() (domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return domain.Settings{}, m.loadErr
	}
	return m.settings, nil
}

func (m *mockConfigStore) Save(settings domain.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.settings = settings
	return nil
}

func (m *mockConfigStore) Path() string {
	return ""
}

// mockLLMService implements driven.LLMService for testing. Replies are
// consumed in order; the last one repeats once the script runs out.
type mockLLMService struct {
	mu          sync.Mutex
	replies     []string
	generateErr error
	panicMsg    string
	calls       []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	m.calls = append(m.calls, prompt)
	if m.generateErr != nil {
		return "", m.generateErr
	}
	if len(m.replies) == 0 {
		return "", nil
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return reply, nil
}

func (m *mockLLMService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error

	// embedFor maps input text to a specific vector, overriding embedding.
	embedFor map[string][]float32
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.embedFor[text]; ok {
		return v, nil
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.embedding)
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// --- Test helpers ---

// testSession builds a minimal session with one tab.
func testSession(id, name, summary string) domain.Session {
	s := domain.Session{
		ID:        id,
		Name:      name,
		Tabs:      []domain.Tab{{URL: "https://example.com/" + id, Title: name}},
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Context:   summary,
	}
	if summary != "" {
		s.Generation = domain.GenerationStatus{State: domain.GenerationComplete}
	}
	return s
}

// configuredSettings returns valid ollama settings with defaults applied.
func configuredSettings() domain.Settings {
	settings := domain.DefaultSettings()
	settings.Provider = domain.AIProviderOllama
	settings.Model = "llama3.2"
	settings.EmbeddingModel = "nomic-embed-text"
	return settings
}
