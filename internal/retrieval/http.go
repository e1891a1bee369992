package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/insurai/miria/internal/advisor"
)

// HTTPClient talks to the external document search service.
type HTTPClient struct {
	url    string
	client *http.Client
}

func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		url: strings.TrimSpace(url),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type searchProfile struct {
	VehicleType string `json:"vehicleType"`
	City        string `json:"city"`
	FloodRisk   bool   `json:"floodRisk"`
	UsageType   string `json:"usageType"`
}

type searchRequest struct {
	Query   string         `json:"query"`
	Profile *searchProfile `json:"profile"`
	TopK    int            `json:"top_k"`
}

type searchChunk struct {
	Content  string `json:"content"`
	DocTitle string `json:"doc_title"`
	Section  string `json:"section"`
	Source   string `json:"source"`
}

type searchResponse struct {
	Chunks []searchChunk `json:"chunks"`
}

// Search posts the query to the search service and maps the chunk payloads
// into snippets, preserving ranking order and honoring topK.
func (c *HTTPClient) Search(ctx context.Context, query string, profile *advisor.Profile, topK int) ([]advisor.Snippet, error) {
	req := searchRequest{Query: query, TopK: topK}
	if profile != nil {
		req.Profile = &searchProfile{
			VehicleType: profile.VehicleType,
			City:        profile.City,
			FloodRisk:   profile.FloodRisk,
			UsageType:   profile.UsageType,
		}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send search request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, fmt.Errorf("search service status %d: %s", res.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	chunks := result.Chunks
	if topK > 0 && len(chunks) > topK {
		chunks = chunks[:topK]
	}
	snippets := make([]advisor.Snippet, 0, len(chunks))
	for _, chunk := range chunks {
		snippets = append(snippets, advisor.Snippet{
			Content:  chunk.Content,
			DocTitle: chunk.DocTitle,
			Section:  chunk.Section,
			Source:   chunk.Source,
		})
	}
	return snippets, nil
}
