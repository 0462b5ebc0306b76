package domain

// SearchMethod records which search tier produced a result set.
type SearchMethod string

// Search methods, in tier order.
const (
	// SearchMethodNone means no sessions exist; no tier ran.
	SearchMethodNone SearchMethod = "none"

	// SearchMethodEmbedding means cosine similarity over summary embeddings.
	SearchMethodEmbedding SearchMethod = "embedding"

	// SearchMethodText means case-insensitive substring matching.
	SearchMethodText SearchMethod = "text"

	// SearchMethodAIRanked means the LLM reranker produced the final ordering.
	SearchMethodAIRanked SearchMethod = "ai-ranked"
)

// IsValid returns true if the method is recognised.
func (m SearchMethod) IsValid() bool {
	switch m {
	case SearchMethodNone, SearchMethodEmbedding, SearchMethodText, SearchMethodAIRanked:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m SearchMethod) String() string {
	return string(m)
}

// Description returns a human-readable description of the method.
func (m SearchMethod) Description() string {
	switch m {
	case SearchMethodNone:
		return "No sessions stored"
	case SearchMethodEmbedding:
		return "Similarity search over summaries"
	case SearchMethodText:
		return "Text matching on name and summary"
	case SearchMethodAIRanked:
		return "AI-assisted reranking"
	default:
		return unknownDescription
	}
}

// SearchResponse is the outcome of a session search. Search always produces a
// response object, possibly with no results, rather than failing mid-pipeline.
type SearchResponse struct {
	// Results are the matched sessions, best first.
	Results []Session

	// Method is the tier that produced Results.
	Method SearchMethod

	// Warnings lists recoverable degradations hit along the way
	// (failed embedding call, unparseable reranker reply).
	Warnings []string
}
