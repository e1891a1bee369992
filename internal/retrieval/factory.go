package retrieval

import (
	"strings"
	"time"
)

// NewClient returns an HTTP client when a search service URL is configured,
// otherwise the deterministic mock.
func NewClient(url string, timeout time.Duration) Client {
	if strings.TrimSpace(url) == "" {
		return NewMockClient()
	}
	return NewHTTPClient(url, timeout)
}
