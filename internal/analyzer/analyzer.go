// Package analyzer classifies user messages along five independent
// dimensions (intent, emotional tone, complexity, life context, urgency) and
// extracts content keywords. Classification is deterministic keyword
// matching over ordered rule tables; there is no statistical model.
package analyzer

import (
	"regexp"
	"strings"

	"github.com/mguerin/compagnon/pkg/types"
)

const maxKeywords = 10

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	wordSplit     = regexp.MustCompile(`\s+`)
	nonWord       = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// Analyze classifies a message. It is a total function: empty or
// whitespace-only input yields the neutral analysis, never an error.
func Analyze(text string) types.Analysis {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return types.NeutralAnalysis()
	}

	lower := strings.ToLower(trimmed)

	return types.Analysis{
		Intent:        classify(lower, intentRules, types.IntentGeneral),
		EmotionalTone: classify(lower, toneRules, types.ToneNeutral),
		Complexity:    assessComplexity(lower),
		ContextType:   classify(lower, contextRules, types.ContextGeneral),
		Urgency:       classify(lower, urgencyRules, types.UrgencyLow),
		Keywords:      ExtractKeywords(trimmed),
	}
}

// assessComplexity grades a message by sentence length, total word count and
// the presence of subordinating connectives.
func assessComplexity(lower string) types.Complexity {
	sentences := 0
	for _, s := range sentenceSplit.Split(lower, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	words := len(wordSplit.Split(strings.TrimSpace(lower), -1))
	avgWordsPerSentence := float64(words) / float64(sentences)

	switch {
	case avgWordsPerSentence > 15 || words > 30 || complexConnectives.MatchString(lower):
		return types.ComplexityHigh
	case avgWordsPerSentence > 8 || words > 15:
		return types.ComplexityMedium
	default:
		return types.ComplexityLow
	}
}

// ExtractKeywords returns up to 10 lower-cased content words in original
// order: punctuation stripped, tokens of length ≤ 2 and stop words dropped,
// duplicates removed by first occurrence.
func ExtractKeywords(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")

	var (
		keywords []string
		seen     = make(map[string]struct{})
	)
	for _, w := range wordSplit.Split(strings.TrimSpace(cleaned), -1) {
		if len([]rune(w)) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
