package retrieval

import (
	"context"

	"github.com/insurai/miria/internal/advisor"
)

// Client fetches ranked document excerpts for a query. Implementations must
// return results in ranking order and at most topK entries.
type Client interface {
	Search(ctx context.Context, query string, profile *advisor.Profile, topK int) ([]advisor.Snippet, error)
}
