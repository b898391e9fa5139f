package types

import "time"

// FeedbackRecord is one helpful/not-helpful signal on an assistant message.
// The feedback log is append-only; records are never mutated. Negative
// feedback is recorded for audit but drives no unlearning.
type FeedbackRecord struct {
	SessionID string    `json:"session_id"`
	MessageID string    `json:"message_id"`
	Helpful   bool      `json:"helpful"`
	Comment   string    `json:"comment,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
