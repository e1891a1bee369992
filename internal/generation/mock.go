package generation

import (
	"context"
	"fmt"
	"strings"
)

// MockAdapter provides deterministic local replies when no generation
// backend is configured. The reply is long enough and on-topic enough to
// pass the answer validator, so the whole pipeline stays exercisable.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

func (a *MockAdapter) Complete(ctx context.Context, req Request, onDelta DeltaHandler) (Response, error) {
	select {
	case <-ctx.Done():
		return Response{}, ctx.Err()
	default:
	}

	text := buildMockReply(req)
	if onDelta != nil {
		// Stream in two fragments so delta handling is observable.
		runes := []rune(text)
		half := len(runes) / 2
		for _, part := range []string{string(runes[:half]), string(runes[half:])} {
			if part == "" {
				continue
			}
			if err := onDelta(part); err != nil {
				return Response{}, err
			}
		}
	}
	return Response{Text: text}, nil
}

func buildMockReply(req Request) string {
	question := strings.TrimSpace(req.UserMessage)
	if question == "" {
		question = "pertanyaan kamu"
	}
	return fmt.Sprintf(
		"Berdasarkan informasi yang aku miliki, asuransi kendaraan memberikan perlindungan "+
			"sesuai dokumen resmi produk. Untuk %q, aku sarankan kamu melihat manfaat perlindungan "+
			"comprehensive pada polis kamu. Ini informasi umum, detail lengkap ada di kontrak polis.",
		question,
	)
}
