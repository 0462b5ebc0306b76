package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kridos/AITabManager/internal/adapters/driven/storage/kv"
	"github.com/kridos/AITabManager/internal/adapters/driven/storage/memory"
	"github.com/kridos/AITabManager/internal/core/domain"
)

// enrichFixture wires an enrichment service over in-memory stores.
type enrichFixture struct {
	service  *EnrichmentService
	sessions *kv.SessionStore
	vectors  *memory.VectorStore
	llm      *mockLLMService
	embedder *mockEmbeddingService
	config   *mockConfigStore
}

func newEnrichFixture(t *testing.T, llm *mockLLMService, embedder *mockEmbeddingService) *enrichFixture {
	t.Helper()

	sessions := kv.NewSessionStore(memory.NewKVStore())
	vectors := memory.NewVectorStore()
	config := newMockConfigStore(configuredSettings())

	var service *EnrichmentService
	if embedder != nil {
		service = NewEnrichmentService(sessions, vectors, llm, embedder, config)
	} else {
		service = NewEnrichmentService(sessions, vectors, llm, nil, config)
	}

	return &enrichFixture{
		service:  service,
		sessions: sessions,
		vectors:  vectors,
		llm:      llm,
		embedder: embedder,
		config:   config,
	}
}

func (f *enrichFixture) saveSession(t *testing.T, session domain.Session) {
	t.Helper()
	require.NoError(t, f.sessions.Save(context.Background(), &session))
}

func multiTabSession(id string) domain.Session {
	return domain.Session{
		ID:   id,
		Name: "Research",
		Tabs: []domain.Tab{
			{URL: "https://go.dev/doc", Title: "Go docs"},
			{URL: "https://pkg.go.dev", Title: "Go packages"},
			{URL: "https://news.example.com", Title: "News"},
		},
		Windows: []domain.Window{{TabCount: 3, Focused: true}},
	}
}

func TestEnrichmentService_Enrich_FullWorkflow(t *testing.T) {
	llm := &mockLLMService{replies: []string{
		"A Go documentation research session.",
		`[{"name": "Go", "tabs": [1, 2]}, {"name": "News", "tabs": [3]}]`,
	}}
	embedder := &mockEmbeddingService{embedding: []float32{0.1, 0.2, 0.3}}
	f := newEnrichFixture(t, llm, embedder)
	f.saveSession(t, multiTabSession("s1"))
	ctx := context.Background()

	require.NoError(t, f.service.Enrich(ctx, "s1"))

	session, err := f.sessions.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "A Go documentation research session.", session.Context)
	assert.Equal(t, domain.GenerationComplete, session.GenerationState())
	require.Len(t, session.TabGroups, 2)
	assert.Equal(t, "Go", session.TabGroups[0].Name)
	assert.Equal(t, []int{1, 2}, session.TabGroups[0].TabIndices)

	record, err := f.vectors.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, record.Vector)
}

func TestEnrichmentService_Enrich_SummaryFailureIsFatal(t *testing.T) {
	llm := &mockLLMService{generateErr: errors.New("model offline")}
	f := newEnrichFixture(t, llm, nil)
	f.saveSession(t, multiTabSession("s1"))
	ctx := context.Background()

	err := f.service.Enrich(ctx, "s1")

	require.Error(t, err)
	session, getErr := f.sessions.Get(ctx, "s1")
	require.NoError(t, getErr)
	assert.Equal(t, domain.GenerationError, session.GenerationState())
	assert.Contains(t, session.Generation.Message, "model offline")
	assert.Empty(t, session.Context)
}

func TestEnrichmentService_Enrich_EmptySummaryIsFatal(t *testing.T) {
	llm := &mockLLMService{replies: []string{"   "}}
	f := newEnrichFixture(t, llm, nil)
	f.saveSession(t, multiTabSession("s1"))

	err := f.service.Enrich(context.Background(), "s1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty summary")
}

func TestEnrichmentService_Enrich_GroupingFailureIsNotFatal(t *testing.T) {
	llm := &mockLLMService{replies: []string{
		"A research session.",
		"no json here, sorry",
	}}
	f := newEnrichFixture(t, llm, nil)
	f.saveSession(t, multiTabSession("s1"))
	ctx := context.Background()

	require.NoError(t, f.service.Enrich(ctx, "s1"))

	session, err := f.sessions.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationComplete, session.GenerationState())
	assert.Equal(t, "A research session.", session.Context)
	assert.Empty(t, session.TabGroups)
}

func TestEnrichmentService_Enrich_EmbeddingFailureIsNotFatal(t *testing.T) {
	llm := &mockLLMService{replies: []string{"A research session."}}
	embedder := &mockEmbeddingService{embedErr: errors.New("embed offline")}
	f := newEnrichFixture(t, llm, embedder)

	settings := configuredSettings()
	settings.AutoGroup = false
	f.config.settings = settings

	f.saveSession(t, multiTabSession("s1"))
	ctx := context.Background()

	require.NoError(t, f.service.Enrich(ctx, "s1"))

	session, err := f.sessions.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationComplete, session.GenerationState())

	_, err = f.vectors.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnrichmentService_Enrich_AutoGroupDisabled(t *testing.T) {
	llm := &mockLLMService{replies: []string{"A research session."}}
	f := newEnrichFixture(t, llm, nil)

	settings := configuredSettings()
	settings.AutoGroup = false
	f.config.settings = settings

	f.saveSession(t, multiTabSession("s1"))

	require.NoError(t, f.service.Enrich(context.Background(), "s1"))
	assert.Equal(t, 1, llm.callCount(), "only the summary call expected")
}

func TestEnrichmentService_Enrich_SingleTabSkipsGrouping(t *testing.T) {
	llm := &mockLLMService{replies: []string{"One lonely tab."}}
	f := newEnrichFixture(t, llm, nil)
	f.saveSession(t, testSession("s1", "Solo", ""))

	require.NoError(t, f.service.Enrich(context.Background(), "s1"))
	assert.Equal(t, 1, llm.callCount())
}

func TestEnrichmentService_Enrich_NoLLMConfigured(t *testing.T) {
	f := newEnrichFixture(t, &mockLLMService{}, nil)
	f.service.llm = nil
	f.saveSession(t, multiTabSession("s1"))

	err := f.service.Enrich(context.Background(), "s1")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestEnrichmentService_Enrich_UnknownSession(t *testing.T) {
	llm := &mockLLMService{replies: []string{"summary"}}
	f := newEnrichFixture(t, llm, nil)

	err := f.service.Enrich(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnrichmentService_Enrich_AlreadyInProgress(t *testing.T) {
	llm := &mockLLMService{replies: []string{"summary"}}
	f := newEnrichFixture(t, llm, nil)
	f.saveSession(t, multiTabSession("s1"))

	f.service.mu.Lock()
	f.service.inFlight["s1"] = struct{}{}
	f.service.mu.Unlock()

	err := f.service.Enrich(context.Background(), "s1")

	assert.ErrorIs(t, err, domain.ErrGenerationInProgress)
}

func TestEnrichmentService_Enrich_PanicBecomesErrorState(t *testing.T) {
	llm := &mockLLMService{panicMsg: "nil deref in provider"}
	f := newEnrichFixture(t, llm, nil)
	f.saveSession(t, multiTabSession("s1"))
	ctx := context.Background()

	err := f.service.Enrich(ctx, "s1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "enrichment panic")

	session, getErr := f.sessions.Get(ctx, "s1")
	require.NoError(t, getErr)
	assert.Equal(t, domain.GenerationError, session.GenerationState())
}

func TestEnrichmentService_Enrich_RetryAfterErrorClearsMessage(t *testing.T) {
	llm := &mockLLMService{generateErr: errors.New("model offline")}
	f := newEnrichFixture(t, llm, nil)
	f.saveSession(t, multiTabSession("s1"))
	ctx := context.Background()

	require.Error(t, f.service.Enrich(ctx, "s1"))

	llm.mu.Lock()
	llm.generateErr = nil
	llm.replies = []string{"Recovered summary.", "[]"}
	llm.mu.Unlock()

	require.NoError(t, f.service.Enrich(ctx, "s1"))

	session, err := f.sessions.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationComplete, session.GenerationState())
	assert.Empty(t, session.Generation.Message)
	assert.Equal(t, "Recovered summary.", session.Context)
}

func TestEnrichmentService_Enrich_ConcurrentSessionsBothComplete(t *testing.T) {
	llm := &mockLLMService{replies: []string{"A shared summary."}}
	f := newEnrichFixture(t, llm, nil)

	settings := configuredSettings()
	settings.AutoGroup = false
	f.config.settings = settings

	f.saveSession(t, multiTabSession("a"))
	f.saveSession(t, multiTabSession("b"))
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, f.service.Enrich(ctx, id))
		}(id)
	}
	wg.Wait()

	// Neither completion may overwrite the other's write.
	for _, id := range []string{"a", "b"} {
		session, err := f.sessions.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.GenerationComplete, session.GenerationState(), "session %s", id)
		assert.Equal(t, "A shared summary.", session.Context, "session %s", id)
	}
}

func TestEnrichmentService_Status(t *testing.T) {
	llm := &mockLLMService{replies: []string{"summary"}}
	f := newEnrichFixture(t, llm, nil)

	session := multiTabSession("s1")
	session.Generation = domain.GenerationStatus{State: domain.GenerationError, Message: "boom"}
	f.saveSession(t, session)

	status, err := f.service.Status(context.Background(), "s1")

	require.NoError(t, err)
	assert.Equal(t, domain.GenerationError, status.State)
	assert.Equal(t, "boom", status.Message)
}

func TestParseTabGroups(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		tabCount int
		want     []domain.TabGroup
	}{
		{
			name:     "well formed",
			reply:    `[{"name": "Work", "tabs": [1, 2]}, {"name": "Fun", "tabs": [3]}]`,
			tabCount: 3,
			want: []domain.TabGroup{
				{Name: "Work", TabIndices: []int{1, 2}},
				{Name: "Fun", TabIndices: []int{3}},
			},
		},
		{
			name:     "prose around the array",
			reply:    "Here you go: [{\"name\": \"Work\", \"tabs\": [1]}] hope that helps",
			tabCount: 2,
			want:     []domain.TabGroup{{Name: "Work", TabIndices: []int{1}}},
		},
		{
			name:     "out of range indices dropped",
			reply:    `[{"name": "Work", "tabs": [0, 1, 5]}]`,
			tabCount: 2,
			want:     []domain.TabGroup{{Name: "Work", TabIndices: []int{1}}},
		},
		{
			name:     "duplicate index kept by first group only",
			reply:    `[{"name": "A", "tabs": [1, 2]}, {"name": "B", "tabs": [2, 3]}]`,
			tabCount: 3,
			want: []domain.TabGroup{
				{Name: "A", TabIndices: []int{1, 2}},
				{Name: "B", TabIndices: []int{3}},
			},
		},
		{
			name:     "unnamed group dropped",
			reply:    `[{"name": "", "tabs": [1]}, {"name": "B", "tabs": [2]}]`,
			tabCount: 2,
			want:     []domain.TabGroup{{Name: "B", TabIndices: []int{2}}},
		},
		{
			name:     "nothing usable",
			reply:    `[{"name": "A", "tabs": [9]}]`,
			tabCount: 2,
			want:     nil,
		},
		{
			name:     "not json",
			reply:    "the tabs look like work stuff",
			tabCount: 2,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTabGroups(tt.reply, tt.tabCount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"bare array", `[1, 2]`, `[1, 2]`, true},
		{"nested arrays", `[{"tabs": [1, 2]}]`, `[{"tabs": [1, 2]}]`, true},
		{"bracket inside string", `[{"name": "a ] b", "tabs": [1]}]`, `[{"name": "a ] b", "tabs": [1]}]`, true},
		{"prose around", `sure: [1] done`, `[1]`, true},
		{"unbalanced", `[1, 2`, "", false},
		{"no array", `nothing`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONArray(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
