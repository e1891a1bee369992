package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/insurai/miria/internal/advisor"
	"github.com/insurai/miria/internal/catalog"
	"github.com/insurai/miria/internal/generation"
	"github.com/insurai/miria/internal/retrieval"
)

// Snippets gathered per product: four scoped queries at three results each,
// merged, filtered, deduplicated and capped.
const (
	queriesTopK     = 3
	maxProductSnips = 6
)

// ProductComparison is one side of the comparison result.
type ProductComparison struct {
	Name        string   `json:"name"`
	Coverage    string   `json:"coverage"`
	Features    []string `json:"features"`
	SuitableFor []string `json:"suitableFor"`
	Limitations []string `json:"limitations"`
}

// Result is the structured product-to-product comparison.
type Result struct {
	ProductA ProductComparison `json:"productA"`
	ProductB ProductComparison `json:"productB"`
	Summary  string            `json:"summary"`
}

// Service builds grounded product comparisons from product-scoped retrieval
// plus generation.
type Service struct {
	store     catalog.Store
	retriever retrieval.Client
	generator generation.Adapter
	vocab     *advisor.Vocabulary
	log       *zap.Logger
}

func NewService(store catalog.Store, retriever retrieval.Client, generator generation.Adapter, vocab *advisor.Vocabulary, log *zap.Logger) *Service {
	if vocab == nil {
		vocab = advisor.DefaultVocabulary()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:     store,
		retriever: retriever,
		generator: generator,
		vocab:     vocab,
		log:       log,
	}
}

// Compare loads both products, gathers their document snippets and asks the
// generation backend for a structured comparison.
func (s *Service) Compare(ctx context.Context, productAID, productBID int, profile *advisor.Profile) (Result, error) {
	productA, err := s.store.GetProduct(ctx, productAID)
	if err != nil {
		return Result{}, err
	}
	productB, err := s.store.GetProduct(ctx, productBID)
	if err != nil {
		return Result{}, err
	}

	snippetsA := s.gatherProductSnippets(ctx, productA, profile)
	snippetsB := s.gatherProductSnippets(ctx, productB, profile)
	s.log.Info("gathered comparison snippets",
		zap.String("product_a", productA.Name),
		zap.Int("snippets_a", len(snippetsA)),
		zap.String("product_b", productB.Name),
		zap.Int("snippets_b", len(snippetsB)),
	)

	prompt := comparisonPrompt(productA, productB, profile, snippetsA, snippetsB)

	resp, err := s.generator.Complete(ctx, generation.Request{
		SystemInstructions: prompt,
		UserMessage:        "Please provide the comparison analysis.",
	}, nil)
	if err != nil {
		return Result{}, fmt.Errorf("comparison generation: %w", err)
	}

	result, err := parseComparison(resp.Text)
	if err != nil {
		return Result{}, fmt.Errorf("comparison generation: %w", err)
	}
	return result, nil
}

// gatherProductSnippets issues the product-scoped queries and keeps only
// snippets that stay on-product, preventing cross-product bleed when the
// search service returns broad matches. Per-query failures are skipped; a
// product with no usable snippets still gets a basic-info fallback in the
// prompt.
func (s *Service) gatherProductSnippets(ctx context.Context, product catalog.Product, profile *advisor.Profile) []advisor.Snippet {
	queries := []string{
		product.Name + " manfaat fitur",
		product.Name + " syarat ketentuan",
		product.Name + " coverage perlindungan",
		product.Name + " premi tarif",
	}

	var all []advisor.Snippet
	for _, query := range queries {
		snippets, err := s.retriever.Search(ctx, query, profile, queriesTopK)
		if err != nil {
			s.log.Warn("product snippet query failed",
				zap.String("product", product.Name), zap.Error(err))
			continue
		}
		for _, snippet := range snippets {
			if s.relevantToProduct(snippet, product) {
				all = append(all, snippet)
			}
		}
	}

	seen := make(map[string]struct{}, len(all))
	out := make([]advisor.Snippet, 0, maxProductSnips)
	for _, snippet := range all {
		if len(out) >= maxProductSnips {
			break
		}
		if _, ok := seen[snippet.Content]; ok {
			continue
		}
		seen[snippet.Content] = struct{}{}
		out = append(out, snippet)
	}
	return out
}

func (s *Service) relevantToProduct(snippet advisor.Snippet, product catalog.Product) bool {
	title := strings.ToLower(snippet.DocTitle)
	content := strings.ToLower(snippet.Content)
	name := strings.ToLower(product.Name)

	if strings.Contains(title, name) {
		return true
	}
	for _, brand := range s.vocab.ProductBrandTokens {
		if strings.Contains(title, brand) || strings.Contains(content, brand) {
			return true
		}
	}
	if coverage := strings.ToLower(product.MainCoverage); coverage != "" && strings.Contains(content, coverage) {
		return true
	}
	return false
}

func comparisonPrompt(productA, productB catalog.Product, profile *advisor.Profile, snippetsA, snippetsB []advisor.Snippet) string {
	var b strings.Builder
	b.WriteString(`You are an Indonesian insurance expert. Compare these two insurance products based on the provided document excerpts and known insurance principles.

INSTRUCTIONS:
1. PRIMARY: Use information from the provided document excerpts when available
2. SECONDARY: Apply general insurance knowledge to fill gaps logically
3. FOCUS: Highlight key differences between products, especially coverage types
4. LANGUAGE: Respond in Indonesian language
5. ACCURACY: Be factual and helpful`)

	fmt.Fprintf(&b, "\n\nPRODUCT A: %s (Coverage: %s)\nDOCUMENT EXCERPTS:\n%s\n",
		productA.Name, coverageOrUnknown(productA), productContext(productA, snippetsA))
	fmt.Fprintf(&b, "\nPRODUCT B: %s (Coverage: %s)\nDOCUMENT EXCERPTS:\n%s\n",
		productB.Name, coverageOrUnknown(productB), productContext(productB, snippetsB))

	b.WriteString("\n" + profileContext(profile))

	b.WriteString(`

COMPARISON FOCUS:
- If comparing Comprehensive vs TLO: Emphasize coverage scope differences, premium implications, and suitable use cases
- If comparing same coverage types: Focus on feature differences, service quality, and specific benefits
- Consider user profile for personalized recommendations

Provide a detailed comparison in Indonesian with this JSON structure:
`)
	fmt.Fprintf(&b, `{
  "productA": {
    "name": %q,
    "coverage": %q,
    "features": ["feature1", "feature2", "feature3", "feature4"],
    "suitableFor": ["suitable1", "suitable2", "suitable3"],
    "limitations": ["limitation1", "limitation2", "limitation3"]
  },
  "productB": {
    "name": %q,
    "coverage": %q,
    "features": ["feature1", "feature2", "feature3", "feature4"],
    "suitableFor": ["suitable1", "suitable2", "suitable3"],
    "limitations": ["limitation1", "limitation2", "limitation3"]
  },
  "summary": "Detailed comparison summary explaining key differences and providing recommendation based on coverage types and user profile"
}`, productA.Name, coverageOrUnknown(productA), productB.Name, coverageOrUnknown(productB))

	return b.String()
}

func productContext(product catalog.Product, snippets []advisor.Snippet) string {
	if len(snippets) == 0 {
		return fmt.Sprintf("Basic product info: %s (%s coverage for %s)",
			product.Name, coverageOrUnknown(product), product.VehicleKind)
	}
	blocks := make([]string, 0, len(snippets))
	for _, s := range snippets {
		blocks = append(blocks, fmt.Sprintf("[%s - %s]\n%s", s.DocTitle, s.Section, s.Content))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}

func profileContext(profile *advisor.Profile) string {
	if profile == nil {
		return "No user profile provided"
	}
	floodRisk := "No"
	if profile.FloodRisk {
		floodRisk = "Yes"
	}
	return fmt.Sprintf(`User Profile:
- Vehicle: %s (%d)
- Location: %s
- Usage: %s
- Flood Risk Area: %s`,
		advisor.VehicleTypeLabel(profile.VehicleType), profile.VehicleYear,
		advisor.CityLabel(profile.City),
		advisor.UsageTypeLabel(profile.UsageType),
		floodRisk)
}

func coverageOrUnknown(p catalog.Product) string {
	if p.MainCoverage == "" {
		return "Unknown"
	}
	return p.MainCoverage
}

var jsonFence = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// parseComparison tolerates markdown fences and prose around the JSON the
// model returns.
func parseComparison(text string) (Result, error) {
	jsonStr := text
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		jsonStr = m[1]
	} else {
		first := strings.Index(text, "{")
		last := strings.LastIndex(text, "}")
		if first != -1 && last != -1 && first < last {
			jsonStr = text[first : last+1]
		}
	}

	var result Result
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return Result{}, fmt.Errorf("parse comparison JSON: %w", err)
	}
	if result.ProductA.Name == "" || result.ProductB.Name == "" {
		return Result{}, fmt.Errorf("comparison JSON missing product names")
	}
	return result, nil
}
