package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driven"
	"github.com/kridos/AITabManager/internal/core/ports/driving"
	"github.com/kridos/AITabManager/internal/logger"
)

// Ensure EnrichmentService implements the interface.
var _ driving.EnrichmentService = (*EnrichmentService)(nil)

const summaryPromptTemplate = `Summarise what the user was working on in this browser session in 1-2 sentences.
Mention the main topics. Reply with the summary only.

Session %q, captured tabs:
%s`

const groupingPromptTemplate = `Group the tabs of this browser session into 2-5 named topical clusters.
Each tab number may appear in at most one cluster.

Tabs:
%s
Reply with ONLY a JSON array like: [{"name": "Cluster name", "tabs": [1, 2]}]`

// EnrichmentService runs the per-session enrichment workflow: summary,
// optional topical grouping, optional embedding. It is the exclusive writer of
// a session's Context, TabGroups and Generation fields.
type EnrichmentService struct {
	sessions driven.SessionStore
	vectors  driven.VectorStore
	llm      driven.LLMService
	embedder driven.EmbeddingService
	config   driven.ConfigStore

	// In-flight workflows, keyed by session ID. A session has at most one
	// workflow running; distinct sessions may run concurrently.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewEnrichmentService creates an enrichment service.
// The embedder is optional (nil disables the embedding step); the llm is
// required for the workflow to run but may be nil at construction time.
func NewEnrichmentService(
	sessions driven.SessionStore,
	vectors driven.VectorStore,
	llm driven.LLMService,
	embedder driven.EmbeddingService,
	config driven.ConfigStore,
) *EnrichmentService {
	return &EnrichmentService{
		sessions: sessions,
		vectors:  vectors,
		llm:      llm,
		embedder: embedder,
		config:   config,
		inFlight: make(map[string]struct{}),
	}
}

// Enrich runs the workflow for one session and blocks until it reaches a
// terminal state.
func (s *EnrichmentService) Enrich(ctx context.Context, sessionID string) error {
	settings, err := s.begin(ctx, sessionID)
	if err != nil {
		return err
	}
	defer s.release(sessionID)

	return s.execute(ctx, sessionID, settings)
}

// EnrichAsync starts the workflow in the background. It returns once the
// generating state is persisted so concurrent readers observe progress; the
// workflow itself is fire-and-forget and runs detached from the caller's
// context (there is no cancellation once issued).
func (s *EnrichmentService) EnrichAsync(ctx context.Context, sessionID string) error {
	settings, err := s.begin(ctx, sessionID)
	if err != nil {
		return err
	}

	go func() {
		defer s.release(sessionID)
		if err := s.execute(context.Background(), sessionID, settings); err != nil {
			logger.Warn("Background enrichment for %s failed: %v", sessionID, err)
		}
	}()

	return nil
}

// Status reports the current workflow state for a session.
func (s *EnrichmentService) Status(ctx context.Context, sessionID string) (domain.GenerationStatus, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.GenerationStatus{}, err
	}
	return domain.GenerationStatus{State: session.GenerationState(), Message: session.Generation.Message}, nil
}

// begin validates configuration, claims the in-flight slot and persists the
// generating state. Configuration errors surface here with no mutation.
func (s *EnrichmentService) begin(ctx context.Context, sessionID string) (domain.Settings, error) {
	if s.llm == nil {
		return domain.Settings{}, domain.ErrLLMUnavailable
	}

	settings, err := s.config.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	s.mu.Lock()
	if _, running := s.inFlight[sessionID]; running {
		s.mu.Unlock()
		return domain.Settings{}, domain.ErrGenerationInProgress
	}
	s.inFlight[sessionID] = struct{}{}
	s.mu.Unlock()

	// Persist generating before any model call; clears a stale error message
	// from a prior failed attempt.
	err = s.sessions.Update(ctx, sessionID, func(session *domain.Session) error {
		session.Generation = domain.GenerationStatus{State: domain.GenerationRunning}
		return nil
	})
	if err != nil {
		s.release(sessionID)
		return domain.Settings{}, err
	}

	return settings, nil
}

// release frees the in-flight slot for a session.
func (s *EnrichmentService) release(sessionID string) {
	s.mu.Lock()
	delete(s.inFlight, sessionID)
	s.mu.Unlock()
}

// execute runs the workflow steps and records the terminal state. Any panic in
// a step is caught at this boundary and recorded as an error state rather than
// crashing the host process.
func (s *EnrichmentService) execute(ctx context.Context, sessionID string, settings domain.Settings) error {
	err := s.runSteps(ctx, sessionID, settings)
	if err != nil {
		logger.Warn("Enrichment for %s failed: %v", sessionID, err)
		message := err.Error()
		if updateErr := s.sessions.Update(ctx, sessionID, func(session *domain.Session) error {
			session.Generation = domain.GenerationStatus{State: domain.GenerationError, Message: message}
			return nil
		}); updateErr != nil {
			logger.Warn("Recording enrichment failure for %s failed: %v", sessionID, updateErr)
		}
		return err
	}
	return nil
}

// runSteps performs the enrichment sequence for one session.
func (s *EnrichmentService) runSteps(ctx context.Context, sessionID string, settings domain.Settings) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("enrichment panic: %v", r)
		}
	}()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	logger.Section("Enrichment")
	logger.Debug("Session %s: %d tabs, %d windows", sessionID, len(session.Tabs), len(session.Windows))

	// Step 1: summary. Failure is fatal to the whole workflow.
	summary, err := s.summarise(ctx, session)
	if err != nil {
		return fmt.Errorf("generate summary: %w", err)
	}
	logger.Debug("Summary: %q", summary)

	// Step 2: topical grouping. Failure degrades to no grouping.
	var groups []domain.TabGroup
	if settings.AutoGroup {
		groups = s.proposeGroups(ctx, session)
		logger.Debug("Grouping: %d clusters", len(groups))
	}

	// Step 3: embedding. Failure degrades to no vector; the session stays
	// reachable via text matching and reranking only.
	if s.embedder != nil {
		if embedErr := s.embedSummary(ctx, sessionID, summary); embedErr != nil {
			logger.Warn("Embedding for %s failed: %v (continuing without vector)", sessionID, embedErr)
		}
	} else {
		logger.Debug("No embedding service, skipping vector generation")
	}

	// Step 4: persist results and mark complete.
	return s.sessions.Update(ctx, sessionID, func(session *domain.Session) error {
		session.Context = summary
		session.TabGroups = groups
		session.Generation = domain.GenerationStatus{State: domain.GenerationComplete}
		return nil
	})
}

// summarise asks the language model for a natural-language session summary.
func (s *EnrichmentService) summarise(ctx context.Context, session *domain.Session) (string, error) {
	prompt := fmt.Sprintf(summaryPromptTemplate, session.Name, formatTabList(session.Tabs))

	summary, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("model returned an empty summary")
	}
	return summary, nil
}

// proposeGroups asks the model to cluster tabs topically. Malformed replies
// degrade to no grouping; they never abort the workflow.
func (s *EnrichmentService) proposeGroups(ctx context.Context, session *domain.Session) []domain.TabGroup {
	if len(session.Tabs) < 2 {
		return nil
	}

	prompt := fmt.Sprintf(groupingPromptTemplate, formatTabList(session.Tabs))

	reply, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   400,
		Temperature: 0.3,
	})
	if err != nil {
		logger.Warn("Grouping call failed: %v (continuing without grouping)", err)
		return nil
	}

	groups := parseTabGroups(reply, len(session.Tabs))
	if groups == nil {
		logger.Warn("Grouping reply not parseable, continuing without grouping")
	}
	return groups
}

// embedSummary generates and persists the summary embedding.
func (s *EnrichmentService) embedSummary(ctx context.Context, sessionID, summary string) error {
	vector, err := s.embedder.Embed(ctx, summary)
	if err != nil {
		return err
	}
	return s.vectors.Put(ctx, sessionID, vector)
}

// formatTabList renders tabs as a numbered "title (url)" list for prompts.
func formatTabList(tabs []domain.Tab) string {
	var b strings.Builder
	for i, tab := range tabs {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, tab.Title, tab.URL)
	}
	return b.String()
}

// parseTabGroups extracts the first JSON array from a model reply and decodes
// it into tab groups. Indices outside [1,tabCount] are dropped; an index
// already claimed by an earlier group is dropped to keep clusters disjoint.
// Returns nil when nothing usable remains.
func parseTabGroups(reply string, tabCount int) []domain.TabGroup {
	raw, ok := extractJSONArray(reply)
	if !ok {
		return nil
	}

	var decoded []struct {
		Name string `json:"name"`
		Tabs []int  `json:"tabs"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil
	}

	seen := make(map[int]bool)
	groups := make([]domain.TabGroup, 0, len(decoded))
	for _, g := range decoded {
		if g.Name == "" {
			continue
		}
		var indices []int
		for _, idx := range g.Tabs {
			if idx < 1 || idx > tabCount || seen[idx] {
				continue
			}
			seen[idx] = true
			indices = append(indices, idx)
		}
		if len(indices) > 0 {
			groups = append(groups, domain.TabGroup{Name: g.Name, TabIndices: indices})
		}
	}

	if len(groups) == 0 {
		return nil
	}
	return groups
}

// extractJSONArray returns the first balanced bracketed array in text,
// tolerating prose around it. Bracket depth is tracked outside JSON strings so
// nested arrays survive.
func extractJSONArray(text string) (string, bool) {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
