package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mguerin/compagnon/pkg/types"
)

func TestFormatContent(t *testing.T) {
	content := "première ligne\ndeuxième ligne\n\ntroisième ligne"

	tests := []struct {
		format types.Format
		want   string
	}{
		{types.FormatNatural, content},
		{types.FormatNumberedList, "1. première ligne\n2. deuxième ligne\n3. troisième ligne"},
		{types.FormatBulletPoints, "• première ligne\n• deuxième ligne\n• troisième ligne"},
		{types.FormatStepByStep, "Étape 1 : première ligne\nÉtape 2 : deuxième ligne\nÉtape 3 : troisième ligne"},
		{types.FormatChecklist, "☐ première ligne\n☐ deuxième ligne\n☐ troisième ligne"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatContent(content, tt.format), "format %s", tt.format)
	}
}

func TestBuildJoinsElements(t *testing.T) {
	b := newResponseBuilder()
	strategy := types.ResponseStrategy{
		Approach: types.Approach{
			Format:   types.FormatNatural,
			Elements: []types.ElementTag{ElementAcknowledgment, ElementQuestion},
		},
	}

	got := b.build(strategy, "s1", nil)

	parts := strings.Split(got, "\n\n")
	require.Len(t, parts, 2)
	assert.Equal(t, fragmentPools[ElementAcknowledgment][0], parts[0])
	assert.Equal(t, fragmentPools[ElementQuestion][0], parts[1])
}

func TestBuildSkipsUnknownElements(t *testing.T) {
	b := newResponseBuilder()
	strategy := types.ResponseStrategy{
		Approach: types.Approach{
			Format:   types.FormatNatural,
			Elements: []types.ElementTag{"does_not_exist", ElementGuidance},
		},
	}

	got := b.build(strategy, "s1", nil)
	assert.Equal(t, fragmentPools[ElementGuidance][0], got)
}

func TestRenderPatternReplacesPlaceholder(t *testing.T) {
	pattern := &types.ResponsePattern{Fingerprint: "fp"}
	pattern.AppendReply("Commence par un exemple concret, puis généralise.", time.Now())

	analysis := types.Analysis{Keywords: []string{"rapport", "travail"}}
	got := renderPattern(pattern, analysis, nil)

	assert.Equal(t, "Commence par un rapport concret, puis généralise.", got)
}

func TestRenderPatternEmptyWithoutReplies(t *testing.T) {
	pattern := &types.ResponsePattern{Fingerprint: "fp"}
	assert.Empty(t, renderPattern(pattern, types.Analysis{}, nil))
}

func TestAdaptForTSA(t *testing.T) {
	long := "l1\nl2\nl3\nl4\nl5\nl6\nl7"
	got := adaptForTSA(long, types.Analysis{Complexity: types.ComplexityHigh, EmotionalTone: types.ToneNeutral})
	assert.Equal(t, "l1\nl2\nl3\nl4\nl5", got)

	got = adaptForTSA("Une réponse courte.", types.Analysis{EmotionalTone: types.ToneAnxious})
	assert.True(t, strings.HasSuffix(got, "Rappelle-toi : tu fais de ton mieux avec ce que tu as."))
}

func TestAdaptForTDAH(t *testing.T) {
	got := adaptForTDAH("Une réponse simple.", types.Analysis{EmotionalTone: types.ToneNeutral})
	assert.True(t, strings.HasSuffix(got, "Let's go ! Tu peux le faire !"))

	// Complex replies are split into numbered steps.
	got = adaptForTDAH("Ouvre le document. Écris le titre. Relis le tout.",
		types.Analysis{EmotionalTone: types.ToneAnxious, Complexity: types.ComplexityHigh})
	assert.Equal(t, "1) Ouvre le document.\n2) Écris le titre.\n3) Relis le tout.", got)

	// Already-numbered replies are left alone.
	numbered := "1) Ouvre. 2) Écris."
	got = adaptForTDAH(numbered, types.Analysis{EmotionalTone: types.ToneAnxious, Complexity: types.ComplexityHigh})
	assert.Equal(t, numbered, got)
}

func TestRenderPatternAppliesFunctioningAdaptation(t *testing.T) {
	pattern := &types.ResponsePattern{Fingerprint: "fp"}
	pattern.AppendReply("Voici comment avancer.", time.Now())

	got := renderPattern(pattern, types.Analysis{EmotionalTone: types.ToneAnxious}, profileOf(types.FunctioningTSA))
	assert.Contains(t, got, "Rappelle-toi")

	got = renderPattern(pattern, types.Analysis{EmotionalTone: types.ToneNeutral}, profileOf(types.FunctioningTDAH))
	assert.Contains(t, got, "Let's go !")
}
