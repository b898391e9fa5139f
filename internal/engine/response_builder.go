package engine

import (
	"fmt"
	"strings"

	"github.com/mguerin/compagnon/pkg/types"
)

// responseBuilder assembles a reply from the fragments named by a strategy
// approach, then applies the approach's presentation format.
type responseBuilder struct {
	tracker *variantTracker
}

func newResponseBuilder() *responseBuilder {
	return &responseBuilder{tracker: newVariantTracker()}
}

// build renders each element of the approach, joins the fragments with
// blank lines, and applies the approach format. recentContents is the
// trailing window of assistant messages used for repetition avoidance.
func (b *responseBuilder) build(strategy types.ResponseStrategy, sessionID string, recentContents []string) string {
	var fragments []string
	for _, element := range strategy.Approach.Elements {
		pool, ok := fragmentPools[element]
		if !ok {
			continue
		}
		if fragment := b.tracker.pick(sessionID, element, pool, recentContents); fragment != "" {
			fragments = append(fragments, fragment)
		}
	}

	return formatContent(strings.Join(fragments, "\n\n"), strategy.Approach.Format)
}

// greeting returns a short greeting reply, rotating through the pool.
func (b *responseBuilder) greeting(sessionID string, recentContents []string) string {
	return b.tracker.pick(sessionID, "greeting", greetingResponses, recentContents)
}

// defaultReply returns a generic fallback reply, rotating through the pool.
func (b *responseBuilder) defaultReply(sessionID string, recentContents []string) string {
	return b.tracker.pick(sessionID, "default", defaultResponses, recentContents)
}

// formatContent reshapes the assembled text per the approach format.
// The natural format leaves the fragments as written.
func formatContent(content string, format types.Format) string {
	switch format {
	case types.FormatNumberedList:
		return decorateLines(content, func(i int, line string) string {
			return fmt.Sprintf("%d. %s", i+1, line)
		})
	case types.FormatBulletPoints:
		return decorateLines(content, func(i int, line string) string {
			return "• " + line
		})
	case types.FormatStepByStep:
		return decorateLines(content, func(i int, line string) string {
			return fmt.Sprintf("Étape %d : %s", i+1, line)
		})
	case types.FormatChecklist:
		return decorateLines(content, func(i int, line string) string {
			return "☐ " + line
		})
	default:
		return content
	}
}

func decorateLines(content string, decorate func(int, string) string) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = decorate(i, line)
	}
	return strings.Join(out, "\n")
}

// renderPattern adapts a learned pattern's most recent successful reply to
// the current message. The literal token "exemple" acts as a placeholder
// and is replaced with the message's first keyword; the reply is then
// adjusted for the user's functioning type.
func renderPattern(pattern *types.ResponsePattern, analysis types.Analysis, profile *types.UserProfile) string {
	reply := pattern.LatestReply()
	if reply == "" {
		return ""
	}

	if len(analysis.Keywords) > 0 && strings.Contains(reply, "exemple") {
		reply = strings.Replace(reply, "exemple", analysis.Keywords[0], 1)
	}

	switch functioningType(profile) {
	case types.FunctioningTSA:
		reply = adaptForTSA(reply, analysis)
	case types.FunctioningTDAH:
		reply = adaptForTDAH(reply, analysis)
	}

	return reply
}

// adaptForTSA tightens structure: long replies are truncated to their first
// lines and anxious turns get an explicit reassurance.
func adaptForTSA(reply string, analysis types.Analysis) string {
	if analysis.Complexity == types.ComplexityHigh {
		lines := nonEmptyLines(reply)
		if len(lines) > 5 {
			lines = lines[:5]
		}
		reply = strings.Join(lines, "\n")
	}

	if analysis.EmotionalTone == types.ToneAnxious {
		reply += "\n\nRappelle-toi : tu fais de ton mieux avec ce que tu as."
	}

	return reply
}

// adaptForTDAH raises energy: neutral turns get a motivational close and
// complex replies are broken into numbered steps.
func adaptForTDAH(reply string, analysis types.Analysis) string {
	if analysis.EmotionalTone == types.ToneNeutral {
		reply += "\n\nLet's go ! Tu peux le faire !"
	}

	if analysis.Complexity == types.ComplexityHigh && !strings.Contains(reply, ")") {
		sentences := strings.Split(reply, ". ")
		var steps []string
		for _, sentence := range sentences {
			sentence = strings.TrimSpace(sentence)
			if sentence == "" {
				continue
			}
			if !strings.HasSuffix(sentence, ".") && !strings.HasSuffix(sentence, "!") {
				sentence += "."
			}
			steps = append(steps, fmt.Sprintf("%d) %s", len(steps)+1, sentence))
		}
		reply = strings.Join(steps, "\n")
	}

	return reply
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
