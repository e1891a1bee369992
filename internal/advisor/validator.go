package advisor

import "strings"

// Validation thresholds carried over from observed behavior. They were
// tuned empirically; keep them as-is rather than re-deriving values.
const (
	minAnswerLength = 50
	maxHedgeWords   = 1
)

// validationRule is one row of the validator's decision table. Rules run
// in order and the first rejection wins, so new rules can be inserted with
// an explicit priority.
type validationRule struct {
	reason RejectReason
	reject func(answer string, snippets []Snippet, vocab *Vocabulary) bool
}

var validationRules = []validationRule{
	{
		reason: ReasonTooShort,
		reject: func(answer string, _ []Snippet, _ *Vocabulary) bool {
			return len(answer) < minAnswerLength
		},
	},
	{
		reason: ReasonExcessiveSpeculation,
		reject: func(answer string, _ []Snippet, vocab *Vocabulary) bool {
			// A single hedge word is tolerated.
			lower := strings.ToLower(answer)
			count := 0
			for _, word := range vocab.HedgeWords {
				if strings.Contains(lower, strings.ToLower(word)) {
					count++
				}
			}
			return count > maxHedgeWords
		},
	},
	{
		reason: ReasonOffTopic,
		reject: func(answer string, snippets []Snippet, vocab *Vocabulary) bool {
			if len(snippets) == 0 {
				return false
			}
			return !containsAny(strings.ToLower(answer), vocab.DomainTerms)
		},
	},
}

// Validate is the anti-hallucination gate: an ordered, total function over
// the candidate answer and this turn's snippets.
func Validate(answer string, snippets []Snippet, vocab *Vocabulary) ValidationResult {
	for _, rule := range validationRules {
		if rule.reject(answer, snippets, vocab) {
			return ValidationResult{IsValid: false, Reason: rule.reason}
		}
	}
	return ValidationResult{IsValid: true}
}
