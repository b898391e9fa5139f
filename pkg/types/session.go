package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserState is a coarse label describing the user's recent emotional pattern
// within a session, derived from the last few analyzed messages.
type UserState string

// User state constants.
const (
	UserStateUnknown                UserState = "unknown"
	UserStateStable                 UserState = "stable"
	UserStateConsistentlyAnxious    UserState = "consistently_anxious"
	UserStateConsistentlyFrustrated UserState = "consistently_frustrated"
	UserStateConsistentlyTired      UserState = "consistently_tired"
)

// Message is one turn of a conversation. Messages are immutable once created
// and owned exclusively by their session.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`

	// Analysis is present only for user messages.
	Analysis *Analysis `json:"analysis,omitempty"`

	// Context is a snapshot of conversation state at the moment the message
	// was appended.
	Context MessageContext `json:"context"`
}

// MessageContext captures derived conversation state at message-append time.
type MessageContext struct {
	ConversationLength int       `json:"conversation_length"`
	SecondsSinceLast   int64     `json:"seconds_since_last"`
	SessionDuration    int64     `json:"session_duration"`
	UserState          UserState `json:"user_state"`
}

// SessionContext is the rolling conversational state of one session.
type SessionContext struct {
	// CurrentTopic is the most recent non-general intent, empty until one is seen.
	CurrentTopic Intent `json:"current_topic,omitempty"`

	// EmotionalState is the last non-neutral tone observed, "neutral" by default.
	EmotionalState EmotionalTone `json:"emotional_state"`

	// PreviousTopics records every non-general intent seen this session, in
	// first-seen order with set semantics.
	PreviousTopics []Intent `json:"previous_topics,omitempty"`

	LastInteractionAt time.Time `json:"last_interaction_at"`
}

// HasTopic reports whether the topic was already recorded this session.
func (c *SessionContext) HasTopic(topic Intent) bool {
	for _, t := range c.PreviousTopics {
		if t == topic {
			return true
		}
	}
	return false
}

// Session is one conversational thread: one user, one calendar day.
type Session struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Messages  []Message      `json:"messages"`
	Context   SessionContext `json:"context"`
	StartedAt time.Time      `json:"started_at"`
}

// LastUserMessage returns the most recent user message, or nil.
func (s *Session) LastUserMessage() *Message {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].IsUser {
			return &s.Messages[i]
		}
	}
	return nil
}

// RecentAssistantContents returns the contents of the last n assistant
// messages, newest last. Used to rebuild anti-repetition state.
func (s *Session) RecentAssistantContents(n int) []string {
	var out []string
	for i := len(s.Messages) - 1; i >= 0 && len(out) < n; i-- {
		if !s.Messages[i].IsUser {
			out = append(out, s.Messages[i].Content)
		}
	}
	// Reverse to newest-last order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ContextSnapshot is the read-only view of a session's rolling state returned
// to callers.
type ContextSnapshot struct {
	SessionID         string        `json:"session_id"`
	UserID            string        `json:"user_id"`
	CurrentTopic      Intent        `json:"current_topic,omitempty"`
	EmotionalState    EmotionalTone `json:"emotional_state"`
	MessageCount      int           `json:"message_count"`
	LastInteractionAt time.Time     `json:"last_interaction_at"`
	SessionDuration   int64         `json:"session_duration"`
}

// SessionID builds the deterministic session identifier for a user on a given
// day. One session per user per calendar day.
func SessionID(userID string, at time.Time) string {
	return userID + "_" + at.Format("2006-01-02")
}

// NewMessageID returns a unique message identifier. UUIDv7 keeps IDs
// time-ordered, which gives the "monotonic-enough" ordering the feedback
// lookup relies on.
func NewMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the entropy source fails; fall back to v4.
		return uuid.NewString()
	}
	return id.String()
}

// IsGreeting reports whether the text is a short greeting-only message
// ("bonjour", "salut !", ...). Greeting turns get a short local reply and
// never trigger external generation.
func IsGreeting(text string) bool {
	t := strings.TrimSpace(strings.ToLower(text))
	if t == "" || len(t) >= 30 {
		return false
	}
	for _, g := range []string{"bonjour", "salut", "coucou", "hey", "hi", "hello", "yo"} {
		if t == g {
			return true
		}
		if strings.HasPrefix(t, g) {
			rest := t[len(g):]
			if strings.TrimLeft(rest, " !.,") == "" {
				return true
			}
		}
	}
	return false
}
