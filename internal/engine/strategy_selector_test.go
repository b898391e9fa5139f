package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mguerin/compagnon/pkg/types"
)

func profileOf(functioning string) *types.UserProfile {
	p := types.NewUserProfile("u")
	p.FunctioningType = functioning
	return p
}

func TestSelectStrategyByIntent(t *testing.T) {
	tests := []struct {
		intent   types.Intent
		wantType types.StrategyType
		priority types.Priority
		followUp bool
	}{
		{types.IntentHelpRequest, types.StrategySupportiveGuidance, types.PriorityHigh, true},
		{types.IntentBlockage, types.StrategyProblemSolving, types.PriorityHigh, true},
		{types.IntentAnxiety, types.StrategyEmotionalSupport, types.PriorityUrgent, true},
		{types.IntentProcrastination, types.StrategyMotivationalCoaching, types.PriorityMedium, false},
		{types.IntentRoutine, types.StrategyPracticalAssistance, types.PriorityMedium, false},
		{types.IntentPlanning, types.StrategyStructuredGuidance, types.PriorityMedium, true},
		{types.IntentGeneral, types.StrategyAdaptiveConversation, types.PriorityNormal, false},
	}

	for _, tt := range tests {
		got := SelectStrategy(types.Analysis{Intent: tt.intent, EmotionalTone: types.ToneNeutral}, nil)
		assert.Equal(t, tt.wantType, got.Type, "intent %s", tt.intent)
		assert.Equal(t, tt.priority, got.Priority, "intent %s", tt.intent)
		assert.Equal(t, tt.followUp, got.FollowUp, "intent %s", tt.intent)
	}
}

func TestHelpApproachPerFunctioningType(t *testing.T) {
	analysis := types.Analysis{Intent: types.IntentHelpRequest, EmotionalTone: types.ToneNeutral}

	tsa := SelectStrategy(analysis, profileOf(types.FunctioningTSA))
	assert.Equal(t, types.FormatNumberedList, tsa.Approach.Format)
	assert.Equal(t, []types.ElementTag{ElementClarification, ElementBreakdown, ElementSimpleSteps}, tsa.Approach.Elements)

	tdah := SelectStrategy(analysis, profileOf(types.FunctioningTDAH))
	assert.Equal(t, types.FormatBulletPoints, tdah.Approach.Format)
	assert.Equal(t, []types.ElementTag{ElementImmediateAction, ElementMotivation, ElementQuickWins}, tdah.Approach.Elements)

	unknown := SelectStrategy(analysis, nil)
	assert.Equal(t, types.FormatNatural, unknown.Approach.Format)
	assert.Equal(t, []types.ElementTag{ElementOptions, ElementFlexibility, ElementUserChoice}, unknown.Approach.Elements)
}

func TestBlockageToneOverrides(t *testing.T) {
	anxious := SelectStrategy(types.Analysis{Intent: types.IntentBlockage, EmotionalTone: types.ToneAnxious}, profileOf(types.FunctioningTSA))
	assert.Equal(t, []types.ElementTag{ElementBreathing, ElementGrounding, ElementMicroAction}, anxious.Approach.Elements)
	assert.Equal(t, "calming_reassuring", anxious.Approach.Tone)
	// The format override leaves the functioning-type format intact.
	assert.Equal(t, types.FormatNumberedList, anxious.Approach.Format)

	angry := SelectStrategy(types.Analysis{Intent: types.IntentBlockage, EmotionalTone: types.ToneAngry}, nil)
	assert.Equal(t, []types.ElementTag{ElementAcknowledgment, ElementReframing, ElementAlternative}, angry.Approach.Elements)
	assert.Equal(t, "validating_empathetic", angry.Approach.Tone)

	neutral := SelectStrategy(types.Analysis{Intent: types.IntentBlockage, EmotionalTone: types.ToneNeutral}, nil)
	assert.Equal(t, []types.ElementTag{ElementOptions, ElementFlexibility, ElementUserChoice}, neutral.Approach.Elements)
}

func TestGeneralApproachBranches(t *testing.T) {
	anxious := SelectStrategy(types.Analysis{Intent: types.IntentGeneral, EmotionalTone: types.ToneAnxious}, profileOf(types.FunctioningTSA))
	// Anxious general conversation borrows the full anxiety approach.
	assert.Equal(t, []types.ElementTag{ElementBreathing, ElementSensoryGrounding, ElementRealityCheck}, anxious.Approach.Elements)
	assert.Equal(t, types.FormatStepByStep, anxious.Approach.Format)

	tired := SelectStrategy(types.Analysis{Intent: types.IntentGeneral, EmotionalTone: types.ToneTired}, nil)
	assert.Equal(t, []types.ElementTag{ElementAcknowledgment, ElementRest, ElementGentleAction}, tired.Approach.Elements)

	complex := SelectStrategy(types.Analysis{Intent: types.IntentGeneral, EmotionalTone: types.ToneNeutral, Complexity: types.ComplexityHigh}, nil)
	assert.Equal(t, []types.ElementTag{ElementClarification, ElementSimpleSteps, ElementBreakdown}, complex.Approach.Elements)

	plain := SelectStrategy(types.Analysis{Intent: types.IntentGeneral, EmotionalTone: types.ToneNeutral}, nil)
	assert.Equal(t, []types.ElementTag{ElementAcknowledgment, ElementQuestion, ElementGuidance}, plain.Approach.Elements)
}

func TestRoutineApproachUsesChecklistForTSA(t *testing.T) {
	got := SelectStrategy(types.Analysis{Intent: types.IntentRoutine, EmotionalTone: types.ToneNeutral}, profileOf(types.FunctioningTSA))
	assert.Equal(t, types.FormatChecklist, got.Approach.Format)
	assert.Equal(t, []types.ElementTag{ElementSequence, ElementVisualCues, ElementConsistency}, got.Approach.Elements)
}

func TestEveryStrategyElementHasAFragmentPool(t *testing.T) {
	profiles := []*types.UserProfile{nil, profileOf(types.FunctioningTSA), profileOf(types.FunctioningTDAH), profileOf(types.FunctioningMixte)}
	intents := []types.Intent{
		types.IntentHelpRequest, types.IntentBlockage, types.IntentAnxiety,
		types.IntentProcrastination, types.IntentRoutine, types.IntentPlanning, types.IntentGeneral,
	}
	tones := []types.EmotionalTone{types.ToneNeutral, types.ToneAnxious, types.ToneAngry, types.ToneTired}

	for _, profile := range profiles {
		for _, intent := range intents {
			for _, tone := range tones {
				strategy := SelectStrategy(types.Analysis{Intent: intent, EmotionalTone: tone}, profile)
				for _, element := range strategy.Approach.Elements {
					pool, ok := fragmentPools[element]
					assert.True(t, ok, "element %s has no pool", element)
					assert.NotEmpty(t, pool, "element %s pool is empty", element)
				}
			}
		}
	}
}
