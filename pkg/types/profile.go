package types

// Functioning type constants. Free-form tags in principle, but these three
// drive the strategy selector's approach buckets.
const (
	FunctioningTSA   = "TSA"
	FunctioningTDAH  = "TDAH"
	FunctioningMixte = "mixte"
)

// Preferred response length constants.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// Preferences holds per-user communication preferences, partly declared at
// onboarding and partly inferred from interactions.
type Preferences struct {
	CommunicationStyle string `json:"communication_style"`
	PreferredLength    string `json:"preferred_length"`
	EmotionalSupport   bool   `json:"emotional_support"`
	SensitivityLevel   string `json:"sensitivity_level"`
}

// UserProfile is the per-user preference and adaptation record. Created
// lazily on first session start; never deleted automatically.
type UserProfile struct {
	UserID          string      `json:"user_id"`
	FunctioningType string      `json:"functioning_type"`
	Preferences     Preferences `json:"preferences"`

	// LearnedPatternKeys records the fingerprints this user contributed
	// positive feedback to, set semantics.
	LearnedPatternKeys []string `json:"learned_pattern_keys,omitempty"`

	// AdaptationScore counts positive feedback events.
	AdaptationScore int `json:"adaptation_score"`
}

// NewUserProfile returns a neutral profile for a first-time user. The engine
// stays usable with no onboarding data.
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:          userID,
		FunctioningType: "",
		Preferences: Preferences{
			CommunicationStyle: communicationStyleFor(""),
			PreferredLength:    LengthMedium,
			SensitivityLevel:   "normale",
		},
	}
}

// Normalize fills empty preference fields with defaults and derives the
// communication style from the functioning type when unset. Unknown fields
// never enter this closed type; callers decode into it directly.
func (p *UserProfile) Normalize() {
	if p.Preferences.CommunicationStyle == "" {
		p.Preferences.CommunicationStyle = communicationStyleFor(p.FunctioningType)
	}
	if p.Preferences.PreferredLength == "" {
		p.Preferences.PreferredLength = LengthMedium
	}
	if p.Preferences.SensitivityLevel == "" {
		p.Preferences.SensitivityLevel = "normale"
	}
}

// HasLearnedPattern reports whether the fingerprint was already recorded.
func (p *UserProfile) HasLearnedPattern(fingerprint string) bool {
	for _, k := range p.LearnedPatternKeys {
		if k == fingerprint {
			return true
		}
	}
	return false
}

func communicationStyleFor(functioningType string) string {
	switch functioningType {
	case FunctioningTSA:
		return "structured_literal"
	case FunctioningTDAH:
		return "dynamic_engaging"
	default:
		return "balanced_flexible"
	}
}
