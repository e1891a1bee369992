package advisor

import (
	"regexp"
	"strings"
)

const defaultTone = "friendly_professional"

// Turns scanned for topic/product detection: the last three exchanges.
const memoryWindow = 6

var keywordPattern = regexp.MustCompile(`\b\w{4,}\b`)

// BuildMemory derives the conversation summary for one turn. It is a pure
// function of the caller-supplied history and profile, so identical inputs
// always produce identical memory.
func BuildMemory(history []Turn, profile *Profile, vocab *Vocabulary) Memory {
	mem := Memory{
		Profile:           profile,
		ConversationTone:  defaultTone,
		TopicsDiscussed:   []string{},
		Keywords:          []string{},
		ExplainedConcepts: []string{},
		PreviousResponses: []string{},
		KeyPhrases:        []string{},
	}

	recent := history
	if len(recent) > memoryWindow {
		recent = recent[len(recent)-memoryWindow:]
	}

	var parts []string
	for _, t := range recent {
		parts = append(parts, t.Content)
	}
	allText := strings.ToLower(strings.Join(parts, " "))

	for _, product := range vocab.Products {
		if strings.Contains(allText, product) {
			mem.LastProductMentioned = product
			mem.TopicsDiscussed = append(mem.TopicsDiscussed, product)
		}
	}

	for _, topic := range vocab.Topics {
		if strings.Contains(allText, topic) {
			mem.TopicsDiscussed = append(mem.TopicsDiscussed, topic)
		}
	}

	var assistantTexts []string
	for _, t := range recent {
		if t.Role == RoleAssistant {
			mem.PreviousResponses = append(mem.PreviousResponses, t.Content)
			assistantTexts = append(assistantTexts, strings.ToLower(t.Content))
		}
	}

	for _, concept := range vocab.Concepts {
		needle := strings.ToLower(concept)
		for _, text := range assistantTexts {
			if strings.Contains(text, needle) {
				mem.ExplainedConcepts = append(mem.ExplainedConcepts, concept)
				break
			}
		}
	}

	for _, text := range assistantTexts {
		for _, re := range vocab.keyPhraseRegexps {
			for _, match := range re.FindAllString(text, -1) {
				// Only track substantial phrases.
				if len(match) > 20 {
					mem.KeyPhrases = append(mem.KeyPhrases, strings.TrimSpace(match))
				}
			}
		}
	}

	mem.DisclaimerShown = disclaimerShown(assistantTexts, vocab.DisclaimerMarkers)
	mem.CurrentFocus = detectFocus(history, vocab)

	mem.Keywords = uniqueStrings(keywordPattern.FindAllString(allText, -1))
	if len(mem.Keywords) > 10 {
		mem.Keywords = mem.Keywords[:10]
	}

	mem.TopicsDiscussed = uniqueStrings(mem.TopicsDiscussed)

	return mem
}

func disclaimerShown(assistantTexts, markers []string) bool {
	if len(markers) == 0 {
		return false
	}
	for _, text := range assistantTexts {
		all := true
		for _, marker := range markers {
			if !strings.Contains(text, strings.ToLower(marker)) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// detectFocus inspects only the most recent user turn. Premium wins over
// benefits, benefits over claims.
func detectFocus(history []Turn, vocab *Vocabulary) Focus {
	var lastUser string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			lastUser = strings.ToLower(history[i].Content)
			break
		}
	}
	if lastUser == "" {
		return ""
	}
	if containsAny(lastUser, vocab.PremiumKeywords) {
		return FocusPremium
	}
	if containsAny(lastUser, vocab.BenefitsKeywords) {
		return FocusBenefits
	}
	if containsAny(lastUser, vocab.ClaimsKeywords) {
		return FocusClaims
	}
	return ""
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
