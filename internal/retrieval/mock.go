package retrieval

import (
	"context"
	"strings"

	"github.com/insurai/miria/internal/advisor"
)

// MockClient serves canned excerpts when no search service is configured,
// so the full pipeline remains exercisable in local development.
type MockClient struct {
	corpus []advisor.Snippet
}

func NewMockClient() *MockClient {
	return &MockClient{corpus: mockCorpus()}
}

func (c *MockClient) Search(ctx context.Context, query string, _ *advisor.Profile, topK int) ([]advisor.Snippet, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	lower := strings.ToLower(query)
	out := make([]advisor.Snippet, 0, topK)
	for _, s := range c.corpus {
		if topK > 0 && len(out) >= topK {
			break
		}
		if mockMatches(lower, s) {
			out = append(out, s)
		}
	}
	// Generic queries still get the head of the corpus, mirroring a broad
	// vector match.
	if len(out) == 0 {
		n := topK
		if n <= 0 || n > len(c.corpus) {
			n = len(c.corpus)
		}
		out = append(out, c.corpus[:n]...)
	}
	return out, nil
}

func mockMatches(query string, s advisor.Snippet) bool {
	for _, word := range strings.Fields(strings.ToLower(s.DocTitle)) {
		if len(word) > 3 && strings.Contains(query, word) {
			return true
		}
	}
	return false
}

func mockCorpus() []advisor.Snippet {
	return []advisor.Snippet{
		{
			DocTitle: "Autocillin Comprehensive RIPLAY",
			Section:  "Manfaat Perlindungan",
			Content: "Asuransi Autocillin Comprehensive memberikan perlindungan menyeluruh untuk mobil kamu, " +
				"termasuk kerusakan akibat tabrakan, kecelakaan, pencurian, dan dapat diperluas dengan " +
				"perlindungan banjir serta bencana alam lainnya.",
			Source: "/docs/autocillin-comprehensive",
		},
		{
			DocTitle: "Autocillin TLO RIPLAY",
			Section:  "Ringkasan Produk",
			Content: "Autocillin Total Loss Only (TLO) menanggung kerugian total akibat pencurian atau " +
				"kerusakan dengan biaya perbaikan mencapai 75% dari harga kendaraan, dengan premi yang " +
				"lebih terjangkau dibanding comprehensive.",
			Source: "/docs/autocillin-tlo",
		},
		{
			DocTitle: "Motopro Motor Comprehensive RIPLAY",
			Section:  "Manfaat Perlindungan",
			Content: "Motopro memberikan perlindungan comprehensive untuk sepeda motor, mencakup kerusakan " +
				"akibat kecelakaan, pencurian, dan tanggung jawab hukum terhadap pihak ketiga.",
			Source: "/docs/motopro-comprehensive",
		},
		{
			DocTitle: "Perluasan Perlindungan Banjir",
			Section:  "Syarat dan Ketentuan",
			Content: "Perluasan perlindungan banjir dan bencana alam dapat ditambahkan pada polis asuransi " +
				"kendaraan untuk wilayah rawan banjir seperti Jakarta, dengan tambahan premi sesuai zona risiko.",
			Source: "/docs/perluasan-banjir",
		},
	}
}
