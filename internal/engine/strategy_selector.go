package engine

import "github.com/mguerin/compagnon/pkg/types"

// SelectStrategy maps a message analysis and user profile to a response
// strategy. The intent picks the strategy template; the functioning type
// picks the approach bucket inside it; the emotional tone can then override
// the element list (a blocked anxious user needs grounding before
// problem-solving).
func SelectStrategy(analysis types.Analysis, profile *types.UserProfile) types.ResponseStrategy {
	switch analysis.Intent {
	case types.IntentHelpRequest:
		return types.ResponseStrategy{
			Type:     types.StrategySupportiveGuidance,
			Priority: types.PriorityHigh,
			Approach: helpApproach(profile),
			FollowUp: true,
		}
	case types.IntentBlockage:
		return types.ResponseStrategy{
			Type:     types.StrategyProblemSolving,
			Priority: types.PriorityHigh,
			Approach: blockageApproach(profile, analysis),
			FollowUp: true,
		}
	case types.IntentAnxiety:
		return types.ResponseStrategy{
			Type:     types.StrategyEmotionalSupport,
			Priority: types.PriorityUrgent,
			Approach: anxietyApproach(profile),
			FollowUp: true,
		}
	case types.IntentProcrastination:
		return types.ResponseStrategy{
			Type:     types.StrategyMotivationalCoaching,
			Priority: types.PriorityMedium,
			Approach: procrastinationApproach(profile),
			FollowUp: false,
		}
	case types.IntentRoutine:
		return types.ResponseStrategy{
			Type:     types.StrategyPracticalAssistance,
			Priority: types.PriorityMedium,
			Approach: routineApproach(profile),
			FollowUp: false,
		}
	case types.IntentPlanning:
		return types.ResponseStrategy{
			Type:     types.StrategyStructuredGuidance,
			Priority: types.PriorityMedium,
			Approach: planningApproach(profile),
			FollowUp: true,
		}
	default:
		return types.ResponseStrategy{
			Type:     types.StrategyAdaptiveConversation,
			Priority: types.PriorityNormal,
			Approach: generalApproach(profile, analysis),
			FollowUp: false,
		}
	}
}

func functioningType(profile *types.UserProfile) string {
	if profile == nil {
		return ""
	}
	return profile.FunctioningType
}

func helpApproach(profile *types.UserProfile) types.Approach {
	switch functioningType(profile) {
	case types.FunctioningTSA:
		return types.Approach{
			Style:    "structured_step_by_step",
			Tone:     "clear_reassuring",
			Format:   types.FormatNumberedList,
			Elements: []types.ElementTag{ElementClarification, ElementBreakdown, ElementSimpleSteps},
		}
	case types.FunctioningTDAH:
		return types.Approach{
			Style:    "dynamic_action_oriented",
			Tone:     "energetic_encouraging",
			Format:   types.FormatBulletPoints,
			Elements: []types.ElementTag{ElementImmediateAction, ElementMotivation, ElementQuickWins},
		}
	default:
		return types.Approach{
			Style:    "balanced_flexible",
			Tone:     "supportive_adaptive",
			Format:   types.FormatNatural,
			Elements: []types.ElementTag{ElementOptions, ElementFlexibility, ElementUserChoice},
		}
	}
}

// blockageApproach starts from the help approach and swaps the elements when
// the emotional tone calls for de-escalation before problem-solving.
func blockageApproach(profile *types.UserProfile, analysis types.Analysis) types.Approach {
	approach := helpApproach(profile)

	switch analysis.EmotionalTone {
	case types.ToneAnxious:
		approach.Elements = []types.ElementTag{ElementBreathing, ElementGrounding, ElementMicroAction}
		approach.Tone = "calming_reassuring"
	case types.ToneAngry:
		approach.Elements = []types.ElementTag{ElementAcknowledgment, ElementReframing, ElementAlternative}
		approach.Tone = "validating_empathetic"
	}

	return approach
}

func anxietyApproach(profile *types.UserProfile) types.Approach {
	switch functioningType(profile) {
	case types.FunctioningTSA:
		return types.Approach{
			Style:    "grounding_techniques",
			Tone:     "calming_structured",
			Format:   types.FormatStepByStep,
			Elements: []types.ElementTag{ElementBreathing, ElementSensoryGrounding, ElementRealityCheck},
		}
	case types.FunctioningTDAH:
		return types.Approach{
			Style:    "action_distraction",
			Tone:     "energetic_redirecting",
			Format:   types.FormatNatural,
			Elements: []types.ElementTag{ElementPhysicalMovement, ElementFocusShift, ElementImmediateTask},
		}
	default:
		return types.Approach{
			Style:    "balanced_coping",
			Tone:     "supportive_flexible",
			Format:   types.FormatNatural,
			Elements: []types.ElementTag{ElementBreathing, ElementImmediateAction, ElementUserChoice},
		}
	}
}

func procrastinationApproach(profile *types.UserProfile) types.Approach {
	switch functioningType(profile) {
	case types.FunctioningTSA:
		return types.Approach{
			Style:    "micro_task_breakdown",
			Tone:     "gentle_structured",
			Format:   types.FormatStepByStep,
			Elements: []types.ElementTag{ElementReduceToAbsurd, ElementTimeBoxing, ElementNoPerfection},
		}
	case types.FunctioningTDAH:
		return types.Approach{
			Style:    "gamification",
			Tone:     "energetic_challenging",
			Format:   types.FormatNatural,
			Elements: []types.ElementTag{ElementTimerChallenge, ElementRewardSystem, ElementImmediateStart},
		}
	default:
		return types.Approach{
			Style:    "flexible_motivation",
			Tone:     "encouraging_adaptive",
			Format:   types.FormatNatural,
			Elements: []types.ElementTag{ElementMicroAction, ElementRewardSystem, ElementFlexibility},
		}
	}
}

func routineApproach(profile *types.UserProfile) types.Approach {
	switch functioningType(profile) {
	case types.FunctioningTSA:
		return types.Approach{
			Style:    "structured_routine",
			Tone:     "predictable_clear",
			Format:   types.FormatChecklist,
			Elements: []types.ElementTag{ElementSequence, ElementVisualCues, ElementConsistency},
		}
	case types.FunctioningTDAH:
		return types.Approach{
			Style:    "dynamic_routine",
			Tone:     "energetic_varied",
			Format:   types.FormatNatural,
			Elements: []types.ElementTag{ElementVariety, ElementEnergyManagement, ElementQuickWins},
		}
	default:
		return types.Approach{
			Style:    "balanced_routine",
			Tone:     "supportive_flexible",
			Format:   types.FormatNatural,
			Elements: []types.ElementTag{ElementStructure, ElementFlexibility, ElementUserChoice},
		}
	}
}

func planningApproach(profile *types.UserProfile) types.Approach {
	switch functioningType(profile) {
	case types.FunctioningTSA:
		return types.Approach{
			Style:    "visual_planning",
			Tone:     "structured_clear",
			Format:   types.FormatStepByStep,
			Elements: []types.ElementTag{ElementBreakdown, ElementVisualTimeline, ElementCheckpoints},
		}
	case types.FunctioningTDAH:
		return types.Approach{
			Style:    "action_planning",
			Tone:     "dynamic_motivating",
			Format:   types.FormatNatural,
			Elements: []types.ElementTag{ElementTimeBlocks, ElementEnergyMatching, ElementImmediateStart},
		}
	default:
		return types.Approach{
			Style:    "flexible_planning",
			Tone:     "balanced_supportive",
			Format:   types.FormatNatural,
			Elements: []types.ElementTag{ElementOptions, ElementFlexibility, ElementStructure},
		}
	}
}

// generalApproach adapts to the emotional tone and complexity rather than
// the functioning type. Anxiety borrows the full anxiety approach, tiredness
// gets a gentle low-demand shape, and a highly complex message gets
// simplification.
func generalApproach(profile *types.UserProfile, analysis types.Analysis) types.Approach {
	switch {
	case analysis.EmotionalTone == types.ToneAnxious:
		return anxietyApproach(profile)
	case analysis.EmotionalTone == types.ToneTired:
		return types.Approach{
			Style:    "gentle_support",
			Tone:     "caring_understanding",
			Format:   types.FormatNatural,
			Elements: []types.ElementTag{ElementAcknowledgment, ElementRest, ElementGentleAction},
		}
	case analysis.Complexity == types.ComplexityHigh:
		return types.Approach{
			Style:    "simplification",
			Tone:     "clear_patient",
			Format:   types.FormatNatural,
			Elements: []types.ElementTag{ElementClarification, ElementSimpleSteps, ElementBreakdown},
		}
	default:
		return types.Approach{
			Style:    "conversational",
			Tone:     "friendly_supportive",
			Format:   types.FormatNatural,
			Elements: []types.ElementTag{ElementAcknowledgment, ElementQuestion, ElementGuidance},
		}
	}
}
