package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driven"
	"github.com/kridos/AITabManager/internal/logger"
)

// rerankTopN is how many candidates the model is asked to pick, regardless of
// candidate-set size. Matches the original product behaviour; flagged for
// product review rather than tuned here.
const rerankTopN = 3

// intArrayPattern matches the first bracketed integer list in a model reply,
// tolerating prose around it, e.g. "Sure! [2, 1, 3] as requested."
var intArrayPattern = regexp.MustCompile(`\[\s*\d+(?:\s*,\s*\d+)*\s*\]`)

const rerankPromptTemplate = `You are ranking saved browser sessions by relevance to a search query.

Query: %q

Sessions:
%s
Reply with ONLY a JSON array of the 1-based numbers of the top %d most relevant sessions, most relevant first. Example: [2, 5, 1]`

// Reranker narrows and reorders a candidate set using an external language
// model's judgment. Parse failures never propagate: the reranker degrades to
// the first candidates unranked and reports the failure as a warning.
type Reranker struct {
	llm driven.LLMService
}

// NewReranker creates a reranker over the given LLM service.
func NewReranker(llm driven.LLMService) *Reranker {
	return &Reranker{llm: llm}
}

// Rerank asks the model for the most relevant candidates. Every candidate must
// already have a summary; sessions without one are not eligible for this stage
// and the caller filters them out. The returned warning is empty on a clean run.
func (r *Reranker) Rerank(
	ctx context.Context, query string, candidates []domain.Session,
) ([]domain.Session, string) {
	if len(candidates) == 0 {
		return []domain.Session{}, ""
	}
	if r.llm == nil {
		return firstN(candidates, rerankTopN), "rerank skipped: LLM service unavailable"
	}

	var list strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&list, "%d. %s - %s\n", i+1, c.Name, c.Context)
	}

	prompt := fmt.Sprintf(rerankPromptTemplate, query, list.String(), rerankTopN)

	reply, err := r.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   50,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Rerank call failed: %v (returning first %d candidates)", err, rerankTopN)
		return firstN(candidates, rerankTopN), fmt.Sprintf("rerank failed: %v", err)
	}

	indices, ok := extractIntArray(reply)
	if !ok {
		logger.Warn("Rerank reply had no integer array: %q", reply)
		return firstN(candidates, rerankTopN), "rerank reply not parseable"
	}

	// Out-of-range indices are dropped, not fatal.
	results := make([]domain.Session, 0, len(indices))
	for _, idx := range indices {
		if idx < 1 || idx > len(candidates) {
			logger.Debug("Rerank index %d out of range [1,%d], dropped", idx, len(candidates))
			continue
		}
		results = append(results, candidates[idx-1])
	}

	logger.Debug("Rerank: %d candidates -> %d results", len(candidates), len(results))
	return results, ""
}

// extractIntArray scans text for the first bracketed integer-list pattern and
// decodes it. Returns false when no well-formed array is present.
func extractIntArray(text string) ([]int, bool) {
	match := intArrayPattern.FindString(text)
	if match == "" {
		return nil, false
	}

	var indices []int
	if err := json.Unmarshal([]byte(match), &indices); err != nil {
		return nil, false
	}
	return indices, true
}

// firstN returns up to n leading sessions, order unchanged.
func firstN(sessions []domain.Session, n int) []domain.Session {
	if len(sessions) <= n {
		return sessions
	}
	return sessions[:n]
}
