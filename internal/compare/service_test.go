package compare

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/insurai/miria/internal/advisor"
	"github.com/insurai/miria/internal/catalog"
	"github.com/insurai/miria/internal/generation"
)

type stubRetriever struct {
	snippets []advisor.Snippet
	err      error
	queries  []string
}

func (s *stubRetriever) Search(_ context.Context, query string, _ *advisor.Profile, topK int) ([]advisor.Snippet, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	if topK > 0 && len(s.snippets) > topK {
		return s.snippets[:topK], nil
	}
	return s.snippets, nil
}

type stubGenerator struct {
	text       string
	err        error
	lastPrompt string
}

func (s *stubGenerator) Complete(_ context.Context, req generation.Request, _ generation.DeltaHandler) (generation.Response, error) {
	s.lastPrompt = req.SystemInstructions
	if s.err != nil {
		return generation.Response{}, s.err
	}
	return generation.Response{Text: s.text}, nil
}

func comparisonJSON() string {
	return `{
  "productA": {"name": "Autocillin Comprehensive", "coverage": "comprehensive", "features": ["a"], "suitableFor": ["b"], "limitations": ["c"]},
  "productB": {"name": "Autocillin TLO", "coverage": "tlo", "features": ["d"], "suitableFor": ["e"], "limitations": ["f"]},
  "summary": "Comprehensive menanggung lebih banyak risiko dibanding TLO."
}`
}

func TestCompare(t *testing.T) {
	retriever := &stubRetriever{snippets: []advisor.Snippet{
		{Content: "Autocillin menanggung kerusakan comprehensive.", DocTitle: "Autocillin RIPLAY", Section: "Manfaat"},
	}}
	generator := &stubGenerator{text: "Berikut perbandingannya:\n```json\n" + comparisonJSON() + "\n```"}
	svc := NewService(catalog.NewInMemoryStore(), retriever, generator, nil, nil)

	result, err := svc.Compare(context.Background(), 1, 2, &advisor.Profile{VehicleType: "car", City: "jakarta"})
	if err != nil {
		t.Fatalf("Compare error = %v", err)
	}
	if result.ProductA.Name != "Autocillin Comprehensive" || result.ProductB.Name != "Autocillin TLO" {
		t.Fatalf("result = %+v", result)
	}
	if result.Summary == "" {
		t.Fatalf("missing summary")
	}

	// Four scoped queries per product.
	if len(retriever.queries) != 8 {
		t.Fatalf("queries = %d, want 8", len(retriever.queries))
	}
	for _, q := range retriever.queries[:4] {
		if !strings.HasPrefix(q, "Autocillin Comprehensive ") {
			t.Fatalf("query not product-scoped: %q", q)
		}
	}
	if !strings.Contains(generator.lastPrompt, "PRODUCT A: Autocillin Comprehensive") {
		t.Fatalf("prompt missing product A header")
	}
	if !strings.Contains(generator.lastPrompt, "Autocillin RIPLAY - Manfaat") {
		t.Fatalf("prompt missing snippet context")
	}
}

func TestCompareUnknownProduct(t *testing.T) {
	svc := NewService(catalog.NewInMemoryStore(), &stubRetriever{}, &stubGenerator{text: comparisonJSON()}, nil, nil)

	if _, err := svc.Compare(context.Background(), 1, 99, nil); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Fatalf("error = %v, want ErrProductNotFound", err)
	}
}

func TestCompareRetrievalFailureStillCompares(t *testing.T) {
	retriever := &stubRetriever{err: errors.New("search down")}
	generator := &stubGenerator{text: comparisonJSON()}
	svc := NewService(catalog.NewInMemoryStore(), retriever, generator, nil, nil)

	result, err := svc.Compare(context.Background(), 1, 2, nil)
	if err != nil {
		t.Fatalf("Compare error = %v, want fallback to basic product info", err)
	}
	if result.ProductA.Name == "" {
		t.Fatalf("result = %+v", result)
	}
	if !strings.Contains(generator.lastPrompt, "Basic product info: Autocillin Comprehensive") {
		t.Fatalf("prompt missing basic-info fallback")
	}
}

func TestCompareGenerationFailure(t *testing.T) {
	svc := NewService(catalog.NewInMemoryStore(), &stubRetriever{}, &stubGenerator{err: errors.New("upstream 500")}, nil, nil)

	if _, err := svc.Compare(context.Background(), 1, 2, nil); err == nil {
		t.Fatalf("Compare error = nil, want generation error")
	}
}

func TestGatherProductSnippetsFiltersAndDedups(t *testing.T) {
	// Each of the four queries returns the same three snippets; one is about
	// the product, one shares its brand token, one is unrelated.
	retriever := &stubRetriever{snippets: []advisor.Snippet{
		{Content: "Autocillin Comprehensive menanggung kecelakaan.", DocTitle: "Autocillin Comprehensive RIPLAY"},
		{Content: "Brosur autocillin terbaru.", DocTitle: "Brosur Produk"},
		{Content: "Panduan hidup sehat.", DocTitle: "Artikel Kesehatan"},
	}}
	svc := NewService(catalog.NewInMemoryStore(), retriever, &stubGenerator{}, nil, nil)

	product, err := catalog.NewInMemoryStore().GetProduct(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetProduct error = %v", err)
	}

	got := svc.gatherProductSnippets(context.Background(), product, nil)
	if len(got) != 2 {
		t.Fatalf("snippets = %d, want 2 after filter and dedup", len(got))
	}
	for _, s := range got {
		if s.DocTitle == "Artikel Kesehatan" {
			t.Fatalf("unrelated snippet kept: %+v", s)
		}
	}
}

func TestGatherProductSnippetsCap(t *testing.T) {
	var distinct []advisor.Snippet
	for i := 0; i < queriesTopK; i++ {
		distinct = append(distinct, advisor.Snippet{
			Content:  fmt.Sprintf("Manfaat autocillin nomor %d.", i),
			DocTitle: "Autocillin RIPLAY",
		})
	}
	retriever := &perQueryRetriever{base: distinct}
	svc := NewService(catalog.NewInMemoryStore(), retriever, &stubGenerator{}, nil, nil)

	product, err := catalog.NewInMemoryStore().GetProduct(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetProduct error = %v", err)
	}

	got := svc.gatherProductSnippets(context.Background(), product, nil)
	if len(got) != maxProductSnips {
		t.Fatalf("snippets = %d, want cap of %d", len(got), maxProductSnips)
	}
}

// perQueryRetriever returns distinct content per query so the dedup pass
// keeps every snippet and only the cap limits the result.
type perQueryRetriever struct {
	base []advisor.Snippet
	call int
}

func (r *perQueryRetriever) Search(_ context.Context, _ string, _ *advisor.Profile, _ int) ([]advisor.Snippet, error) {
	r.call++
	out := make([]advisor.Snippet, len(r.base))
	for i, s := range r.base {
		out[i] = s
		out[i].Content = fmt.Sprintf("%s (query %d)", s.Content, r.call)
	}
	return out, nil
}

func TestParseComparison(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"fenced json", "Berikut hasilnya:\n```json\n" + comparisonJSON() + "\n```\nSemoga membantu.", false},
		{"bare json", comparisonJSON(), false},
		{"json with prose", "Perbandingan: " + comparisonJSON() + " demikian hasilnya", false},
		{"no json", "Maaf, aku tidak bisa membandingkan produk ini.", true},
		{"missing names", `{"productA": {"name": ""}, "productB": {"name": ""}, "summary": "x"}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := parseComparison(tc.text)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseComparison error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseComparison error = %v", err)
			}
			if result.ProductA.Name != "Autocillin Comprehensive" {
				t.Fatalf("result = %+v", result)
			}
		})
	}
}
