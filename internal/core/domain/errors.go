package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates a required setting (provider, API key) is missing.
	// Configuration errors are surfaced immediately, before any search tier runs.
	ErrNotConfigured = errors.New("not configured")

	// ErrLLMUnavailable indicates the language model service is not configured.
	// Summaries, grouping and AI reranking are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Similarity search is disabled; sessions stay reachable via text matching.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationInProgress indicates enrichment is already running for a session.
	ErrGenerationInProgress = errors.New("generation in progress")
)
