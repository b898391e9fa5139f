package types

import (
	"strings"
	"time"
)

// MaxRepliesPerPattern caps the successful replies stored per pattern.
// Oldest entries are evicted first.
const MaxRepliesPerPattern = 10

// Fingerprint builds the composite key identifying a class of
// (intent, tone, context, functioning-type) situations for pattern learning.
func Fingerprint(a Analysis, functioningType string) string {
	if functioningType == "" {
		functioningType = "unknown"
	}
	return strings.Join([]string{
		string(a.Intent),
		string(a.EmotionalTone),
		string(a.ContextType),
		functioningType,
	}, "_")
}

// ReplyRecord is one stored successful reply within a pattern.
type ReplyRecord struct {
	Reply      string    `json:"reply"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ResponsePattern is a learned association between a situation fingerprint
// and the replies that worked for it. Created on the first positive-feedback
// event for a fingerprint; grown on every subsequent one. Patterns are never
// decayed or removed by negative feedback.
type ResponsePattern struct {
	Fingerprint string `json:"fingerprint"`

	// Situation features captured when the pattern was created, used by
	// similarity retrieval.
	Intent          Intent        `json:"intent"`
	EmotionalTone   EmotionalTone `json:"emotional_tone"`
	ContextType     ContextType   `json:"context_type"`
	FunctioningType string        `json:"functioning_type"`
	Keywords        []string      `json:"keywords,omitempty"`

	// SuccessfulReplies is newest-last, capped at MaxRepliesPerPattern.
	SuccessfulReplies []ReplyRecord `json:"successful_replies"`

	SuccessCount int       `json:"success_count"`
	LastUsedAt   time.Time `json:"last_used_at"`
}

// Features returns the pattern's stored situation as an Analysis so it can be
// compared against incoming queries.
func (p *ResponsePattern) Features() Analysis {
	return Analysis{
		Intent:        p.Intent,
		EmotionalTone: p.EmotionalTone,
		ContextType:   p.ContextType,
		Keywords:      p.Keywords,
	}
}

// LatestReply returns the most recent successful reply, or "" when empty.
func (p *ResponsePattern) LatestReply() string {
	if len(p.SuccessfulReplies) == 0 {
		return ""
	}
	return p.SuccessfulReplies[len(p.SuccessfulReplies)-1].Reply
}

// AppendReply records a new successful reply, evicting the oldest once the
// cap is exceeded, and updates the success counters.
func (p *ResponsePattern) AppendReply(reply string, at time.Time) {
	p.SuccessfulReplies = append(p.SuccessfulReplies, ReplyRecord{Reply: reply, RecordedAt: at})
	if len(p.SuccessfulReplies) > MaxRepliesPerPattern {
		p.SuccessfulReplies = p.SuccessfulReplies[len(p.SuccessfulReplies)-MaxRepliesPerPattern:]
	}
	p.SuccessCount++
	p.LastUsedAt = at
}
