package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driven"
	"github.com/kridos/AITabManager/internal/core/ports/driving"
	"github.com/kridos/AITabManager/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// maxSearchResults caps non-reranked result sets.
const maxSearchResults = 10

// SearchService turns a free-text query into a ranked session list through a
// tiered fallback pipeline: similarity search, text matching, AI reranking.
type SearchService struct {
	sessions driven.SessionStore
	vectors  driven.VectorStore
	embedder driven.EmbeddingService
	reranker *Reranker
	config   driven.ConfigStore
}

// NewSearchService creates a search service.
// The embedder and reranker parameters are optional (can be nil); the
// corresponding tiers are skipped when absent.
func NewSearchService(
	sessions driven.SessionStore,
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
	reranker *Reranker,
	config driven.ConfigStore,
) *SearchService {
	return &SearchService{
		sessions: sessions,
		vectors:  vectors,
		embedder: embedder,
		reranker: reranker,
		config:   config,
	}
}

// Search applies the tiers in fixed order and always returns a response
// object. Only configuration errors preceding any tier produce an error.
func (s *SearchService) Search(ctx context.Context, query string) (domain.SearchResponse, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	settings, err := s.config.Load()
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("load settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return domain.SearchResponse{}, fmt.Errorf("%w: settings invalid", err)
	}

	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		logger.Debug("No sessions stored, skipping all tiers")
		return domain.SearchResponse{Results: []domain.Session{}, Method: domain.SearchMethodNone}, nil
	}

	query = strings.TrimSpace(query)

	anySummary := false
	for i := range sessions {
		if sessions[i].HasContext() {
			anySummary = true
			break
		}
	}

	var warnings []string
	var candidates []domain.Session
	method := domain.SearchMethodText
	tierOneRan := false

	// Tier 1: similarity over summary embeddings.
	if s.embedder != nil && settings.EmbeddingConfigured() && anySummary {
		ranked, warning := s.similaritySearch(ctx, query, sessions, settings.SearchSensitivity)
		if warning != "" {
			warnings = append(warnings, warning)
		} else {
			tierOneRan = true
			candidates = ranked
			method = domain.SearchMethodEmbedding
			logger.Debug("Similarity tier: %d candidates", len(candidates))
		}
	} else {
		logger.Debug("Similarity tier skipped: embedder=%t, configured=%t, summaries=%t",
			s.embedder != nil, settings.EmbeddingConfigured(), anySummary)
	}

	// Tier 2: substring matching, when tier 1 did not run or came up empty.
	if !tierOneRan || len(candidates) == 0 {
		candidates = matchText(query, sessions)
		method = domain.SearchMethodText
		logger.Debug("Text tier: %d candidates", len(candidates))
	}

	// Tier 3: AI reranking. A non-empty reranked set is authoritative.
	if settings.AIRerank && settings.LLMConfigured() && s.reranker != nil && anySummary {
		pool := withContext(candidates)
		if len(pool) == 0 {
			// The only path that can surface a session whose keywords never
			// matched the query at all.
			pool = withContext(sessions)
			logger.Debug("Rerank pool empty, widening to all %d summarised sessions", len(pool))
		}

		ranked, warning := s.reranker.Rerank(ctx, query, pool)
		if warning != "" {
			warnings = append(warnings, warning)
		}
		if len(ranked) > 0 {
			logger.Info("Final results: %d (method %s)", len(ranked), domain.SearchMethodAIRanked)
			return domain.SearchResponse{
				Results:  ranked,
				Method:   domain.SearchMethodAIRanked,
				Warnings: warnings,
			}, nil
		}
	}

	if len(candidates) > maxSearchResults {
		candidates = candidates[:maxSearchResults]
	}
	if candidates == nil {
		candidates = []domain.Session{}
	}

	logger.Info("Final results: %d (method %s)", len(candidates), method)
	return domain.SearchResponse{Results: candidates, Method: method, Warnings: warnings}, nil
}

// similaritySearch embeds the query and ranks sessions by cosine similarity.
// Upstream failures degrade to the next tier via a warning, never an error.
func (s *SearchService) similaritySearch(
	ctx context.Context, query string, sessions []domain.Session, sensitivity int,
) ([]domain.Session, string) {
	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v (falling back to text tier)", err)
		return nil, fmt.Sprintf("query embedding failed: %v", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(queryVector))

	records, err := s.vectors.GetAll(ctx)
	if err != nil {
		logger.Warn("Vector store read failed: %v (falling back to text tier)", err)
		return nil, fmt.Sprintf("vector store read failed: %v", err)
	}
	logger.Debug("Vector store: %d records", len(records))

	return rankBySimilarity(queryVector, records, sessions, sensitivity), ""
}

// withContext filters sessions to those with a summary.
func withContext(sessions []domain.Session) []domain.Session {
	var result []domain.Session
	for _, s := range sessions {
		if s.HasContext() {
			result = append(result, s)
		}
	}
	return result
}
