package driving

import (
	"context"

	"github.com/kridos/AITabManager/internal/core/domain"
)

// SearchService retrieves sessions by natural-language query.
type SearchService interface {
	// Search runs the tiered pipeline (similarity, text match, AI rerank) and
	// always returns a response object, possibly empty. Only configuration
	// errors preceding any tier produce an error.
	Search(ctx context.Context, query string) (domain.SearchResponse, error)
}
