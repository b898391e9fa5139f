// Package types defines the core data structures for the Compagnon dialogue
// engine: message analyses, sessions, user profiles, learned response
// patterns, response strategies, and feedback records.
package types

// Intent is the coarse categorical label of what a user message is trying to do.
type Intent string

// EmotionalTone is the detected emotional colour of a user message.
type EmotionalTone string

// Complexity grades the structural complexity of a message.
type Complexity string

// ContextType is the coarse life-context a message refers to.
type ContextType string

// Urgency grades how time-pressured a message is.
type Urgency string

// Intent constants. The analyzer resolves these first-match-wins against an
// ordered rule table; the declaration order here mirrors that table.
const (
	IntentHelpRequest     Intent = "help_request"
	IntentBlockage        Intent = "blockage"
	IntentStartAction     Intent = "start_action"
	IntentCompletion      Intent = "completion"
	IntentPlanning        Intent = "planning"
	IntentProcrastination Intent = "procrastination"
	IntentAnxiety         Intent = "anxiety"
	IntentFatigue         Intent = "fatigue"
	IntentFrustration     Intent = "frustration"
	IntentConfusion       Intent = "confusion"
	IntentMotivation      Intent = "motivation"
	IntentRoutine         Intent = "routine"
	IntentWork            Intent = "work"
	IntentPersonal        Intent = "personal"
	IntentHealth          Intent = "health"
	IntentGeneral         Intent = "general"
)

// Emotional tone constants.
const (
	ToneAnxious     EmotionalTone = "anxious"
	ToneSad         EmotionalTone = "sad"
	ToneAngry       EmotionalTone = "angry"
	ToneHappy       EmotionalTone = "happy"
	ToneCalm        EmotionalTone = "calm"
	ToneTired       EmotionalTone = "tired"
	ToneConfused    EmotionalTone = "confused"
	ToneMotivated   EmotionalTone = "motivated"
	ToneOverwhelmed EmotionalTone = "overwhelmed"
	ToneNeutral     EmotionalTone = "neutral"
)

// Complexity constants.
const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Context type constants.
const (
	ContextWork      ContextType = "work"
	ContextHome      ContextType = "home"
	ContextSchool    ContextType = "school"
	ContextSocial    ContextType = "social"
	ContextHealth    ContextType = "health"
	ContextRoutine   ContextType = "routine"
	ContextEmotional ContextType = "emotional"
	ContextGeneral   ContextType = "general"
)

// Urgency constants.
const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Analysis is the structured output of the message analyzer for one user
// message. It is derived purely from the message text and is never persisted
// independently of the message it belongs to.
type Analysis struct {
	Intent        Intent        `json:"intent"`
	EmotionalTone EmotionalTone `json:"emotional_tone"`
	Complexity    Complexity    `json:"complexity"`
	ContextType   ContextType   `json:"context_type"`
	Urgency       Urgency       `json:"urgency"`

	// Keywords holds up to 10 lower-cased content words in original order,
	// stop words removed, deduplicated by first occurrence.
	Keywords []string `json:"keywords,omitempty"`
}

// NeutralAnalysis returns the analysis produced for empty or whitespace-only
// input. Keeping the pipeline total means empty text classifies instead of
// failing.
func NeutralAnalysis() Analysis {
	return Analysis{
		Intent:        IntentGeneral,
		EmotionalTone: ToneNeutral,
		Complexity:    ComplexityLow,
		ContextType:   ContextGeneral,
		Urgency:       UrgencyLow,
	}
}

// SharedKeywords returns the number of keywords the two analyses have in common.
func (a Analysis) SharedKeywords(other Analysis) int {
	if len(a.Keywords) == 0 || len(other.Keywords) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(other.Keywords))
	for _, k := range other.Keywords {
		set[k] = struct{}{}
	}
	shared := 0
	for _, k := range a.Keywords {
		if _, ok := set[k]; ok {
			shared++
		}
	}
	return shared
}
