package advisor

import (
	"strings"
	"testing"
)

func TestEnhanceQueryCarMessage(t *testing.T) {
	vocab := DefaultVocabulary()
	got := EnhanceQuery("Apa manfaat asuransi mobil?", Memory{}, vocab)

	if !strings.HasPrefix(got, "Apa manfaat asuransi mobil?") {
		t.Fatalf("query does not start with the original message: %q", got)
	}
	if !strings.Contains(got, vocab.CarExpansion) {
		t.Fatalf("query missing car expansion terms: %q", got)
	}
	if !strings.Contains(got, "-motor") {
		t.Fatalf("query missing motorcycle exclusion terms: %q", got)
	}
}

func TestEnhanceQueryMotorcycleMessage(t *testing.T) {
	vocab := DefaultVocabulary()
	got := EnhanceQuery("Berapa premi asuransi motor?", Memory{}, vocab)

	if !strings.Contains(got, vocab.MotorcycleExpansion) {
		t.Fatalf("query missing motorcycle expansion terms: %q", got)
	}
	if !strings.Contains(got, "-mobil") {
		t.Fatalf("query missing car exclusion terms: %q", got)
	}
}

func TestEnhanceQueryGenericMessageHasNoExclusions(t *testing.T) {
	vocab := DefaultVocabulary()
	got := EnhanceQuery("Bagaimana cara mengajukan klaim?", Memory{}, vocab)

	if strings.Contains(got, "-mobil") || strings.Contains(got, "-motor") {
		t.Fatalf("generic query was narrowed with exclusions: %q", got)
	}
}

func TestEnhanceQueryProfileAndMemoryTerms(t *testing.T) {
	vocab := DefaultVocabulary()
	mem := Memory{
		Profile: &Profile{
			VehicleType: "car",
			City:        "jakarta",
			FloodRisk:   true,
		},
		LastProductMentioned: "autocillin",
		TopicsDiscussed:      []string{"banjir", "premi", "klaim", "manfaat"},
	}
	got := EnhanceQuery("Apakah banjir ditanggung?", mem, vocab)

	for _, term := range []string{vocab.CarProfileExpansion, vocab.FloodExpansion, "jakarta", "autocillin"} {
		if !strings.Contains(got, term) {
			t.Fatalf("query missing %q: %q", term, got)
		}
	}
	// Only the first three discussed topics are appended.
	if !strings.Contains(got, "banjir premi klaim") {
		t.Fatalf("query missing topic terms: %q", got)
	}
	if strings.HasSuffix(got, "manfaat") {
		t.Fatalf("fourth topic should not be appended: %q", got)
	}
}

func TestEnhanceQueryMotorcycleProfile(t *testing.T) {
	vocab := DefaultVocabulary()
	mem := Memory{Profile: &Profile{VehicleType: "motorcycle"}}
	got := EnhanceQuery("Apa yang ditanggung polis?", mem, vocab)

	if !strings.Contains(got, vocab.MotorcycleProfileExpansion) {
		t.Fatalf("query missing motorcycle profile terms: %q", got)
	}
}
