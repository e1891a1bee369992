package advisor

import (
	"strings"
	"testing"
)

func TestComposePromptSections(t *testing.T) {
	mem := Memory{
		ExplainedConcepts: []string{"perluasan perlindungan"},
		KeyPhrases:        []string{"fasilitas bengkel atpm dan layanan darurat 24 jam"},
		DisclaimerShown:   true,
	}
	profile := &Profile{VehicleType: "car", City: "jakarta", VehicleYear: 2021, FloodRisk: true, UsageType: "daily"}
	history := []Turn{
		{Role: RoleUser, Content: "Apa manfaat Autocillin?"},
		{Role: RoleAssistant, Content: "Autocillin melindungi mobilmu dari kecelakaan."},
	}
	snippets := []Snippet{
		{Content: "Perlindungan komprehensif.", DocTitle: "Autocillin RIPLAY", Section: "Manfaat"},
	}

	prompt := ComposePrompt(mem, profile, history, snippets)

	for _, want := range []string{
		"Aku Miria",
		"MEMORI PERCAKAPAN:",
		"JANGAN ULANGI topik ini: perluasan perlindungan",
		"fasilitas bengkel atpm dan layanan darurat 24 jam",
		"Disclaimer sudah pernah disebutkan",
		"Pengguna: Apa manfaat Autocillin?",
		"Miria: Autocillin melindungi mobilmu dari kecelakaan.",
		"Kendaraan: Mobil (2021)",
		"Lokasi: Jakarta",
		"Area rawan banjir: Ya",
		"perlindungan banjir",
		"**Autocillin RIPLAY**",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestComposePromptFreshConversation(t *testing.T) {
	prompt := ComposePrompt(Memory{}, nil, nil, nil)

	if !strings.Contains(prompt, "Percakapan baru - mulai dengan ramah") {
		t.Fatalf("prompt missing fresh-conversation directive")
	}
	if !strings.Contains(prompt, "Belum ada profil") {
		t.Fatalf("prompt missing missing-profile directive")
	}
	if !strings.Contains(prompt, "Tambahkan disclaimer jika relevan") {
		t.Fatalf("prompt missing disclaimer directive")
	}
	if strings.Contains(prompt, "PERCAKAPAN TERAKHIR:") {
		t.Fatalf("prompt has a conversation section for empty history")
	}
}

func TestFormatRecentConversationKeepsLastFourTurns(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "satu"},
		{Role: RoleAssistant, Content: "dua"},
		{Role: RoleUser, Content: "tiga"},
		{Role: RoleAssistant, Content: "empat"},
		{Role: RoleUser, Content: "lima"},
	}
	got := formatRecentConversation(history)

	if strings.Contains(got, "satu") {
		t.Fatalf("turn outside the window included: %q", got)
	}
	if !strings.HasPrefix(got, "Miria: dua") || !strings.HasSuffix(got, "Pengguna: lima") {
		t.Fatalf("unexpected conversation rendering: %q", got)
	}
}

func TestFormatSnippetsCap(t *testing.T) {
	snippets := make([]Snippet, maxPromptSnippets+2)
	for i := range snippets {
		snippets[i] = Snippet{DocTitle: "Dok", Content: "isi"}
	}
	got := formatSnippets(snippets)

	if n := strings.Count(got, "**Dok**"); n != maxPromptSnippets {
		t.Fatalf("snippet blocks = %d, want %d", n, maxPromptSnippets)
	}
}
