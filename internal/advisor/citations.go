package advisor

import (
	"regexp"
	"strings"
)

const (
	citationPreviewLength = 150
	// Word-length cutoffs for the lexical relevance test.
	minTitleWordLength   = 4
	minContentWordLength = 6
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// PDF extraction sometimes leaves stray spacing between letters
	// ("A u t o c i l l i n"); collapse it for the preview only.
	interLetterSpacing = regexp.MustCompile(`([a-zA-Z])\s+([a-zA-Z])`)
)

// ExtractCitations matches the accepted answer against this turn's snippets
// and returns a deduplicated citation list in snippet (retrieval) order.
func ExtractCitations(answer string, snippets []Snippet, vocab *Vocabulary) []Citation {
	citations := []Citation{}
	seen := make(map[string]struct{})

	responseText := strings.ToLower(answer)
	carAnswer := answerMentionsCar(responseText, vocab)
	motorcycleAnswer := containsAny(responseText, vocab.MotorcycleMessageTerms) &&
		!containsAny(responseText, vocab.CarMessageTerms)

	for _, snippet := range snippets {
		docTitle := strings.ToLower(snippet.DocTitle)
		motorcycleDoc := containsAny(docTitle, vocab.MotorcycleDocMarkers)
		carDoc := containsAny(docTitle, vocab.CarDocMarkers)

		// Never cite a document about the other vehicle class.
		if (carAnswer && motorcycleDoc) || (motorcycleAnswer && carDoc) {
			continue
		}

		if !snippetReferenced(answer, responseText, snippet, docTitle) {
			continue
		}

		key := snippet.DocTitle + "-" + snippet.Section
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		citations = append(citations, Citation{
			DocTitle: snippet.DocTitle,
			Section:  snippet.Section,
			Snippet:  previewSnippet(snippet.Content),
			Source:   snippet.Source,
		})
	}

	return citations
}

func answerMentionsCar(responseText string, vocab *Vocabulary) bool {
	return containsAny(responseText, vocab.CarMessageTerms) ||
		containsAny(responseText, vocab.CarDocMarkers)
}

// snippetReferenced applies the lexical relevance test: exact title match,
// a title word longer than four characters, or a content word longer than
// six characters appearing in the answer.
func snippetReferenced(answer, responseText string, snippet Snippet, docTitle string) bool {
	if strings.Contains(answer, snippet.DocTitle) {
		return true
	}
	for _, word := range strings.Fields(docTitle) {
		if len(word) > minTitleWordLength && strings.Contains(responseText, word) {
			return true
		}
	}
	for _, word := range strings.Fields(strings.ToLower(snippet.Content)) {
		if len(word) > minContentWordLength && strings.Contains(responseText, word) {
			return true
		}
	}
	return false
}

func previewSnippet(content string) string {
	clean := whitespaceRun.ReplaceAllString(content, " ")
	clean = interLetterSpacing.ReplaceAllString(clean, "$1$2")
	clean = strings.TrimSpace(clean)
	runes := []rune(clean)
	if len(runes) > citationPreviewLength {
		runes = runes[:citationPreviewLength]
	}
	return string(runes) + "..."
}
