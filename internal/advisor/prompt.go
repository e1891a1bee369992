package advisor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Snippets injected into a prompt are capped to the first six, in the
// retrieval service's ranking order.
const maxPromptSnippets = 6

const personaRules = `Aku Miria, konsultan asuransi berpengalaman yang ramah dan dapat dipercaya. Aku berbicara dengan bahasa yang mudah dipahami dan natural, seperti berbincang dengan teman. Aku selalu mengutamakan akurasi informasi dan memberikan penjelasan yang jelas.

KEPRIBADIAN AKU:
- Ramah dan sabar dalam menjelaskan
- Bicara natural dan mudah dipahami seperti teman dekat
- Menggunakan contoh konkret dari kehidupan sehari-hari
- Menyebutkan nama produk spesifik
- Menghindari pengulangan yang tidak perlu

ATURAN BAHASA PENTING:
- SELALU gunakan "aku" untuk diri sendiri, JANGAN "saya"
- SELALU gunakan "kamu" untuk pengguna, JANGAN "Anda" atau "anda"
- Gunakan gaya bahasa santai dan akrab seperti berbicara dengan teman

ATURAN PENTING:
1. Jawab HANYA berdasarkan DOKUMEN di bawah ini
2. Jangan menyebutkan nama dokumen dalam teks jawaban - nama dokumen sudah ditampilkan sebagai metadata
3. Gunakan referensi natural seperti "menurut dokumen resmi", "berdasarkan informasi yang aku miliki"
4. JANGAN spekulasi atau menambah informasi di luar dokumen
5. Jika informasi tidak ada di dokumen, katakan "Maaf, informasi ini tidak tersedia dalam dokumen resmi yang aku miliki"
6. Gunakan bahasa Indonesia yang natural dan hangat seperti percakapan biasa`

// ComposePrompt assembles the single instruction block sent to the
// generation gateway: persona rules, anti-repetition directives derived
// from memory, the recent conversation, the profile summary, and the
// retrieved document excerpts.
func ComposePrompt(mem Memory, profile *Profile, history []Turn, snippets []Snippet) string {
	var b strings.Builder
	b.WriteString(personaRules)

	b.WriteString("\n\nMEMORI PERCAKAPAN:\n")
	b.WriteString(memoryJSON(mem))

	b.WriteString("\n\nPANDUAN ANTI-REPETISI:\n")
	if len(mem.ExplainedConcepts) > 0 {
		fmt.Fprintf(&b, "- JANGAN ULANGI topik ini: %s\n", strings.Join(mem.ExplainedConcepts, ", "))
		b.WriteString("- Berikan informasi BARU dan detail yang BELUM dijelaskan\n")
		b.WriteString("- Hindari menyebutkan hal yang sama lagi\n")
	} else {
		b.WriteString("- Percakapan baru - mulai dengan ramah\n")
	}
	if len(mem.KeyPhrases) > 0 {
		b.WriteString("- JANGAN GUNAKAN kalimat serupa dengan ini lagi:\n")
		for _, phrase := range mem.KeyPhrases {
			fmt.Fprintf(&b, "  * %q\n", truncate(phrase, 80))
		}
		b.WriteString("- Cari cara BERBEDA untuk menjelaskan informasi yang sama\n")
	}
	if mem.DisclaimerShown {
		b.WriteString("- Disclaimer sudah pernah disebutkan - JANGAN ulangi\n")
	} else {
		b.WriteString("- Tambahkan disclaimer jika relevan\n")
	}

	if recent := formatRecentConversation(history); recent != "" {
		b.WriteString("\nPERCAKAPAN TERAKHIR:\n")
		b.WriteString(recent)
		b.WriteString("\n")
	}

	b.WriteString("\nPROFIL PENGGUNA:\n")
	if profile != nil {
		fmt.Fprintf(&b, "- Kendaraan: %s (%d)\n", VehicleTypeLabel(profile.VehicleType), profile.VehicleYear)
		fmt.Fprintf(&b, "- Lokasi: %s\n", CityLabel(profile.City))
		fmt.Fprintf(&b, "- Penggunaan: %s\n", UsageTypeLabel(profile.UsageType))
		fmt.Fprintf(&b, "- Area rawan banjir: %s\n", yaTidak(profile.FloodRisk))
		guidance := "perlindungan umum"
		if profile.FloodRisk {
			guidance = "perlindungan banjir"
		}
		fmt.Fprintf(&b, "\nBerikan saran yang relevan dengan profil ini, terutama %s untuk daerah %s.\n", guidance, profile.City)
	} else {
		b.WriteString("Belum ada profil - berikan informasi umum\n")
	}

	b.WriteString("\nDOKUMEN SUMBER:\n")
	b.WriteString(formatSnippets(snippets))

	b.WriteString("\n\nBerdasarkan HANYA pada dokumen di atas dan memori percakapan, jawab pertanyaan dengan cara Miria yang ramah dan natural. INGAT: Selalu gunakan \"aku\" dan \"kamu\" secara konsisten!")

	return b.String()
}

func memoryJSON(mem Memory) string {
	raw, err := json.MarshalIndent(mem, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// formatRecentConversation renders the last two exchanges as speaker lines.
func formatRecentConversation(history []Turn) string {
	if len(history) == 0 {
		return ""
	}
	recent := history
	if len(recent) > 4 {
		recent = recent[len(recent)-4:]
	}
	lines := make([]string, 0, len(recent))
	for _, t := range recent {
		speaker := "Miria"
		if t.Role == RoleUser {
			speaker = "Pengguna"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, t.Content))
	}
	return strings.Join(lines, "\n")
}

func formatSnippets(snippets []Snippet) string {
	if len(snippets) > maxPromptSnippets {
		snippets = snippets[:maxPromptSnippets]
	}
	blocks := make([]string, 0, len(snippets))
	for _, s := range snippets {
		blocks = append(blocks, fmt.Sprintf("**%s**\n%s", s.DocTitle, s.Content))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func yaTidak(v bool) string {
	if v {
		return "Ya"
	}
	return "Tidak"
}
