package retrieval

import (
	"context"
	"strings"
	"testing"
)

func TestMockClientMatchesTitleWords(t *testing.T) {
	client := NewMockClient()

	snippets, err := client.Search(context.Background(), "asuransi motopro untuk motor", nil, 6)
	if err != nil {
		t.Fatalf("Search error = %v", err)
	}
	if len(snippets) == 0 {
		t.Fatalf("no snippets for a motopro query")
	}
	for _, s := range snippets {
		if !strings.Contains(strings.ToLower(s.DocTitle), "motor") {
			t.Fatalf("unrelated snippet matched: %q", s.DocTitle)
		}
	}
}

func TestMockClientGenericQueryFallsBack(t *testing.T) {
	client := NewMockClient()

	snippets, err := client.Search(context.Background(), "halo apa kabar", nil, 2)
	if err != nil {
		t.Fatalf("Search error = %v", err)
	}
	if len(snippets) != 2 {
		t.Fatalf("snippets = %d, want 2 from the corpus head", len(snippets))
	}
}

func TestMockClientHonorsTopK(t *testing.T) {
	client := NewMockClient()

	snippets, err := client.Search(context.Background(), "autocillin comprehensive banjir perluasan", nil, 1)
	if err != nil {
		t.Fatalf("Search error = %v", err)
	}
	if len(snippets) != 1 {
		t.Fatalf("snippets = %d, want 1", len(snippets))
	}
}

func TestMockClientCancelledContext(t *testing.T) {
	client := NewMockClient()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Search(ctx, "autocillin", nil, 3); err == nil {
		t.Fatalf("Search error = nil, want context error")
	}
}
