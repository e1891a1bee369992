package advisor

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the fixed term tables the pipeline matches against.
// The tables are data, not code: deployments can extend them from a YAML
// file without touching pipeline logic. The defaults match the Indonesian
// vehicle-insurance catalog the advisor was built for.
type Vocabulary struct {
	Version int `yaml:"version"`

	// Product and topic detection over the recent conversation.
	Products []string `yaml:"products"`
	Topics   []string `yaml:"topics"`

	// Concepts and phrase patterns already explained by the assistant.
	Concepts          []string `yaml:"concepts"`
	KeyPhrasePatterns []string `yaml:"key_phrase_patterns"`

	// Both markers must appear in one assistant turn for the disclaimer
	// to count as shown.
	DisclaimerMarkers []string `yaml:"disclaimer_markers"`

	// Focus keywords, checked against the latest user turn in this order.
	PremiumKeywords  []string `yaml:"premium_keywords"`
	BenefitsKeywords []string `yaml:"benefits_keywords"`
	ClaimsKeywords   []string `yaml:"claims_keywords"`

	// Validator tables.
	HedgeWords  []string `yaml:"hedge_words"`
	DomainTerms []string `yaml:"domain_terms"`

	// Vehicle-category cue words in user messages and answers.
	CarMessageTerms        []string `yaml:"car_message_terms"`
	MotorcycleMessageTerms []string `yaml:"motorcycle_message_terms"`

	// Query expansion and exclusion term groups, appended verbatim.
	CarExpansion               string `yaml:"car_expansion"`
	CarExclusion               string `yaml:"car_exclusion"`
	MotorcycleExpansion        string `yaml:"motorcycle_expansion"`
	MotorcycleExclusion        string `yaml:"motorcycle_exclusion"`
	CarProfileExpansion        string `yaml:"car_profile_expansion"`
	MotorcycleProfileExpansion string `yaml:"motorcycle_profile_expansion"`
	FloodExpansion             string `yaml:"flood_expansion"`

	// Document-title category markers for the citation cross-filter.
	CarDocMarkers        []string `yaml:"car_doc_markers"`
	MotorcycleDocMarkers []string `yaml:"motorcycle_doc_markers"`

	// Brand tokens used to keep multi-query comparison snippets on-product.
	ProductBrandTokens []string `yaml:"product_brand_tokens"`

	keyPhraseRegexps []*regexp.Regexp
}

// DefaultVocabulary returns the built-in tables.
func DefaultVocabulary() *Vocabulary {
	v := &Vocabulary{
		Version:  1,
		Products: []string{"autocillin", "motopro", "mobilite", "motolite", "comprehensive", "tlo"},
		Topics: []string{
			"manfaat", "premi", "klaim", "coverage", "perlindungan",
			"banjir", "flood", "kecelakaan", "pencurian",
		},
		Concepts: []string{
			"autocillin", "comprehensive", "perluasan perlindungan", "zurich care",
			"premi calculation", "banjir protection", "bengkel atpm",
			"fasilitas bengkel", "perlindungan dari banjir", "angin topan", "gempa bumi",
		},
		KeyPhrasePatterns: []string{
			`(?is)fasilitas bengkel atpm.*?layanan darurat 24 jam`,
			`(?is)perlindungan.*?bencana alam.*?banjir`,
			`(?is)kerusakan akibat.*?kecelakaan`,
			`(?is)penggantian kerugian.*?100%`,
			`(?is)syarat dan ketentuan.*?berlaku`,
		},
		DisclaimerMarkers: []string{"informasi umum", "kontrak"},
		PremiumKeywords:   []string{"premi"},
		BenefitsKeywords:  []string{"manfaat", "coverage"},
		ClaimsKeywords:    []string{"klaim"},
		HedgeWords:        []string{"mungkin", "kira-kira", "kemungkinan", "perkiraan"},
		DomainTerms: []string{
			"asuransi", "autocillin", "motopro", "comprehensive", "tlo",
			"perlindungan", "coverage", "premi", "klaim", "manfaat",
		},
		CarMessageTerms:            []string{"mobil", "car"},
		MotorcycleMessageTerms:     []string{"motor", "motorcycle", "sepeda motor"},
		CarExpansion:               "asuransi mobil autocillin car automotive kendaraan bermotor roda empat",
		CarExclusion:               "-motor -motorcycle -sepeda -roda dua",
		MotorcycleExpansion:        "asuransi motor motopro motorcycle sepeda motor roda dua",
		MotorcycleExclusion:        "-mobil -car -automotive -autocillin",
		CarProfileExpansion:        "mobil car autocillin automotive",
		MotorcycleProfileExpansion: "motor motorcycle motopro sepeda motor",
		FloodExpansion:             "banjir flood perluasan perlindungan alam",
		CarDocMarkers:              []string{"autocillin", "mobil"},
		MotorcycleDocMarkers:       []string{"motor", "motopro"},
		ProductBrandTokens:         []string{"autocillin", "motopro"},
	}
	if err := v.compile(); err != nil {
		// Built-in patterns are covered by tests; a bad one is a programming error.
		panic(err)
	}
	return v
}

// LoadVocabulary reads a vocabulary table from a YAML file. An empty path
// returns the defaults.
func LoadVocabulary(path string) (*Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	v := &Vocabulary{}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	if err := v.compile(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vocabulary) compile() error {
	v.keyPhraseRegexps = v.keyPhraseRegexps[:0]
	for _, pat := range v.KeyPhrasePatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return fmt.Errorf("compile key phrase pattern %q: %w", pat, err)
		}
		v.keyPhraseRegexps = append(v.keyPhraseRegexps, re)
	}
	return nil
}
