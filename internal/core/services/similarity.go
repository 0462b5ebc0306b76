package services

import (
	"math"
	"sort"

	"github.com/kridos/AITabManager/internal/core/domain"
)

// scoredSession pairs a session ID with its similarity to the query vector.
type scoredSession struct {
	sessionID  string
	similarity float64
}

// cosineSimilarity computes dot(a,b) / (‖a‖·‖b‖).
// Returns 0 when lengths differ or either norm is zero - a nonsensical
// comparison is treated as a non-match rather than reported.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// rankBySimilarity scores every embedding record against the query vector,
// keeps those at or above the sensitivity-derived threshold, and maps them
// back to sessions in descending similarity order.
//
// Records with mismatched dimensionality are skipped (a different embedding
// model produced them), as are records whose session no longer exists.
// Ties keep the input record order (sort.SliceStable).
func rankBySimilarity(
	query []float32,
	records []domain.EmbeddingRecord,
	sessions []domain.Session,
	sensitivity int,
) []domain.Session {
	threshold := domain.SimilarityThreshold(sensitivity)

	scored := make([]scoredSession, 0, len(records))
	for _, rec := range records {
		if len(rec.Vector) != len(query) {
			continue
		}
		sim := cosineSimilarity(query, rec.Vector)
		if sim >= threshold {
			scored = append(scored, scoredSession{sessionID: rec.SessionID, similarity: sim})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].similarity > scored[j].similarity
	})

	byID := make(map[string]domain.Session, len(sessions))
	for _, s := range sessions {
		byID[s.ID] = s
	}

	results := make([]domain.Session, 0, len(scored))
	for _, sc := range scored {
		if session, ok := byID[sc.sessionID]; ok {
			results = append(results, session)
		}
	}

	return results
}
