package advisor

import "strings"

// EnhanceQuery expands the raw user message into a richer retrieval query.
// Each expansion is additive and appends distinct terms, so their order does
// not affect correctness. Messages that mention neither vehicle category get
// no exclusion terms: generic questions must not be narrowed.
func EnhanceQuery(message string, mem Memory, vocab *Vocabulary) string {
	var b strings.Builder
	b.WriteString(message)
	lower := strings.ToLower(message)

	if containsAny(lower, vocab.CarMessageTerms) {
		b.WriteString(" " + vocab.CarExpansion)
		b.WriteString(" " + vocab.CarExclusion)
	} else if containsAny(lower, vocab.MotorcycleMessageTerms) {
		b.WriteString(" " + vocab.MotorcycleExpansion)
		b.WriteString(" " + vocab.MotorcycleExclusion)
	}

	if profile := mem.Profile; profile != nil {
		switch profile.VehicleType {
		case "car":
			b.WriteString(" " + vocab.CarProfileExpansion)
		case "motorcycle":
			b.WriteString(" " + vocab.MotorcycleProfileExpansion)
		}
		if profile.FloodRisk {
			b.WriteString(" " + vocab.FloodExpansion)
		}
		if profile.City != "" {
			b.WriteString(" " + profile.City)
		}
	}

	if mem.LastProductMentioned != "" {
		b.WriteString(" " + mem.LastProductMentioned)
	}

	if len(mem.TopicsDiscussed) > 0 {
		topics := mem.TopicsDiscussed
		if len(topics) > 3 {
			topics = topics[:3]
		}
		b.WriteString(" " + strings.Join(topics, " "))
	}

	return b.String()
}
