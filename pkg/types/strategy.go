package types

// StrategyType names the overall response posture selected for a turn.
type StrategyType string

// Strategy type constants.
const (
	StrategySupportiveGuidance   StrategyType = "supportive_guidance"
	StrategyProblemSolving       StrategyType = "problem_solving"
	StrategyEmotionalSupport     StrategyType = "emotional_support"
	StrategyMotivationalCoaching StrategyType = "motivational_coaching"
	StrategyPracticalAssistance  StrategyType = "practical_assistance"
	StrategyStructuredGuidance   StrategyType = "structured_guidance"
	StrategyAdaptiveConversation StrategyType = "adaptive_conversation"
)

// Priority grades how pressing a strategy is.
type Priority string

// Priority constants.
const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityNormal Priority = "normal"
)

// Format is the structural formatting applied to a built response.
type Format string

// Format constants. Anything not matching a structural transform renders as
// natural prose.
const (
	FormatNumberedList Format = "numbered_list"
	FormatBulletPoints Format = "bullet_points"
	FormatStepByStep   Format = "step_by_step"
	FormatChecklist    Format = "checklist"
	FormatNatural      Format = "natural"
)

// ElementTag names one content-fragment generator of the response builder.
type ElementTag string

// Approach describes how a strategy should be rendered: stylistic tone,
// structural format, and the ordered content elements to emit.
type Approach struct {
	Style    string       `json:"style"`
	Tone     string       `json:"tone"`
	Format   Format       `json:"format"`
	Elements []ElementTag `json:"elements"`
}

// ResponseStrategy is the ephemeral descriptor produced by the strategy
// selector for one turn. It is never persisted: identical inputs always
// produce an identical strategy.
type ResponseStrategy struct {
	Type     StrategyType `json:"type"`
	Priority Priority     `json:"priority"`
	Approach Approach     `json:"approach"`
	FollowUp bool         `json:"follow_up"`
}
