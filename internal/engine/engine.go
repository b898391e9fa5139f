package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mguerin/compagnon/internal/analyzer"
	"github.com/mguerin/compagnon/internal/storage"
	"github.com/mguerin/compagnon/pkg/types"
)

// ConversationEngine tracks sessions, analyses user messages, and generates
// context-aware replies. All state lives in the storage backends; the engine
// itself only holds bounded anti-repetition state.
type ConversationEngine struct {
	stores  storage.Stores
	cfg     Config
	learner *PatternLearner
	builder *responseBuilder

	// sessionLock serialises writers per session ID.
	sessionLock sync.Map // sessionID -> *sync.Mutex

	now func() time.Time
}

// New creates a conversation engine over the given stores.
func New(stores storage.Stores, cfg Config) *ConversationEngine {
	if cfg.MaxSessionMessages == 0 {
		cfg = DefaultConfig()
	}
	return &ConversationEngine{
		stores:  stores,
		cfg:     cfg,
		learner: NewPatternLearner(stores.Patterns, cfg.Retrieval),
		builder: newResponseBuilder(),
		now:     time.Now,
	}
}

// Learner exposes the pattern learner, mainly for handlers that report
// retrieval results.
func (e *ConversationEngine) Learner() *PatternLearner {
	return e.learner
}

func (e *ConversationEngine) lockSession(sessionID string) *sync.Mutex {
	mu, _ := e.sessionLock.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// StartSession returns the session ID for the user's current calendar day,
// creating the session and a neutral profile on first contact. Calling it
// again the same day is a no-op returning the same ID.
func (e *ConversationEngine) StartSession(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: user ID is required", storage.ErrInvalidInput)
	}

	now := e.now()
	sessionID := types.SessionID(userID, now)

	mu := e.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	if _, err := e.stores.Sessions.Get(ctx, sessionID); err == nil {
		return sessionID, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("failed to check session: %w", err)
	}

	session := &types.Session{
		ID:     sessionID,
		UserID: userID,
		Context: types.SessionContext{
			EmotionalState:    types.ToneNeutral,
			LastInteractionAt: now,
		},
		StartedAt: now,
	}
	if err := e.stores.Sessions.Put(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	if _, err := e.profileFor(ctx, userID); err != nil {
		return "", err
	}

	log.Printf("engine: started session %s", sessionID)
	return sessionID, nil
}

// profileFor loads the user's profile, creating a neutral one for first-time
// users.
func (e *ConversationEngine) profileFor(ctx context.Context, userID string) (*types.UserProfile, error) {
	profile, err := e.stores.Profiles.Get(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile = types.NewUserProfile(userID)
	if err := e.stores.Profiles.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

// AddMessage appends one turn to a session. User messages are analysed and
// update the rolling context and inferred preferences; assistant messages
// are stored as-is.
func (e *ConversationEngine) AddMessage(ctx context.Context, sessionID, text string, isUser bool) (*types.Message, error) {
	mu := e.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	return e.addMessageLocked(ctx, sessionID, text, isUser)
}

func (e *ConversationEngine) addMessageLocked(ctx context.Context, sessionID, text string, isUser bool) (*types.Message, error) {
	session, err := e.stores.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	message, err := e.appendMessage(ctx, session, text, isUser)
	if err != nil {
		return nil, err
	}

	if err := e.stores.Sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return message, nil
}

// appendMessage mutates the session in memory; the caller persists it.
func (e *ConversationEngine) appendMessage(ctx context.Context, session *types.Session, text string, isUser bool) (*types.Message, error) {
	now := e.now()

	message := types.Message{
		ID:        types.NewMessageID(),
		Content:   text,
		IsUser:    isUser,
		Timestamp: now,
		Context: types.MessageContext{
			ConversationLength: len(session.Messages) + 1,
			SecondsSinceLast:   secondsSince(session.Context.LastInteractionAt, now),
			SessionDuration:    secondsSince(session.StartedAt, now),
			UserState:          assessUserState(session),
		},
	}

	if isUser {
		analysis := analyzer.Analyze(text)
		message.Analysis = &analysis

		updateSessionContext(session, analysis)

		if err := e.inferPreferences(ctx, session.UserID, analysis); err != nil {
			// Preference inference is best effort; the turn still counts.
			log.Printf("Warning: failed to update preferences for %s: %v", session.UserID, err)
		}
	}

	session.Messages = append(session.Messages, message)
	if len(session.Messages) > e.cfg.MaxSessionMessages {
		session.Messages = session.Messages[len(session.Messages)-e.cfg.MaxSessionMessages:]
	}
	session.Context.LastInteractionAt = now

	return &session.Messages[len(session.Messages)-1], nil
}

func secondsSince(from, to time.Time) int64 {
	if from.IsZero() || to.Before(from) {
		return 0
	}
	return int64(to.Sub(from).Seconds())
}

// assessUserState inspects the last five analysed user messages for a
// persistent emotional pattern.
func assessUserState(session *types.Session) types.UserState {
	var tones []types.EmotionalTone
	for i := len(session.Messages) - 1; i >= 0 && len(tones) < 5; i-- {
		m := session.Messages[i]
		if m.IsUser && m.Analysis != nil {
			tones = append(tones, m.Analysis.EmotionalTone)
		}
	}

	if len(tones) == 0 {
		return types.UserStateUnknown
	}

	var anxious, frustrated, tired int
	for _, tone := range tones {
		switch tone {
		case types.ToneAnxious:
			anxious++
		case types.ToneAngry:
			frustrated++
		case types.ToneTired:
			tired++
		}
	}

	switch {
	case anxious >= 2:
		return types.UserStateConsistentlyAnxious
	case frustrated >= 2:
		return types.UserStateConsistentlyFrustrated
	case tired >= 2:
		return types.UserStateConsistentlyTired
	default:
		return types.UserStateStable
	}
}

// updateSessionContext folds one analysis into the session's rolling state.
// Neutral tone and general intent leave the previous values in place.
func updateSessionContext(session *types.Session, analysis types.Analysis) {
	if analysis.EmotionalTone != types.ToneNeutral {
		session.Context.EmotionalState = analysis.EmotionalTone
	}
	if analysis.Intent != types.IntentGeneral {
		session.Context.CurrentTopic = analysis.Intent
		if !session.Context.HasTopic(analysis.Intent) {
			session.Context.PreviousTopics = append(session.Context.PreviousTopics, analysis.Intent)
		}
	}
}

// inferPreferences adjusts the stored profile from observed message traits:
// message complexity steers preferred reply length, and a strong tone
// steers the communication style.
func (e *ConversationEngine) inferPreferences(ctx context.Context, userID string, analysis types.Analysis) error {
	profile, err := e.profileFor(ctx, userID)
	if err != nil {
		return err
	}

	changed := false

	switch analysis.Complexity {
	case types.ComplexityLow:
		if profile.Preferences.PreferredLength != types.LengthShort {
			profile.Preferences.PreferredLength = types.LengthShort
			changed = true
		}
	case types.ComplexityHigh:
		if profile.Preferences.PreferredLength != types.LengthLong {
			profile.Preferences.PreferredLength = types.LengthLong
			changed = true
		}
	}

	switch analysis.EmotionalTone {
	case types.ToneAnxious:
		if profile.Preferences.CommunicationStyle != "supportive_reassuring" {
			profile.Preferences.CommunicationStyle = "supportive_reassuring"
			changed = true
		}
	case types.ToneMotivated:
		if profile.Preferences.CommunicationStyle != "energetic_encouraging" {
			profile.Preferences.CommunicationStyle = "energetic_encouraging"
			changed = true
		}
	}

	if !changed {
		return nil
	}
	return e.stores.Profiles.Save(ctx, profile)
}

// GetCurrentContext returns a read-only snapshot of a session's rolling state.
func (e *ConversationEngine) GetCurrentContext(ctx context.Context, sessionID string) (*types.ContextSnapshot, error) {
	session, err := e.stores.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &types.ContextSnapshot{
		SessionID:         session.ID,
		UserID:            session.UserID,
		CurrentTopic:      session.Context.CurrentTopic,
		EmotionalState:    session.Context.EmotionalState,
		MessageCount:      len(session.Messages),
		LastInteractionAt: session.Context.LastInteractionAt,
		SessionDuration:   secondsSince(session.StartedAt, session.Context.LastInteractionAt),
	}, nil
}

// GetHistory returns the last limit messages of a session, oldest first.
// A non-positive limit returns the full retained history.
func (e *ConversationEngine) GetHistory(ctx context.Context, sessionID string, limit int) ([]types.Message, error) {
	session, err := e.stores.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	messages := session.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

// Cleanup removes sessions idle for longer than retentionDays and returns
// how many were removed. A non-positive retentionDays uses the configured
// default. Profiles and learned patterns survive.
func (e *ConversationEngine) Cleanup(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		retentionDays = e.cfg.RetentionDays
	}
	cutoff := e.now().AddDate(0, 0, -retentionDays)

	ids, err := e.stores.Sessions.ListIdleBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list idle sessions: %w", err)
	}

	removed := 0
	for _, id := range ids {
		mu := e.lockSession(id)
		mu.Lock()
		err := e.stores.Sessions.Delete(ctx, id)
		mu.Unlock()

		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Printf("ERROR: failed to delete session %s: %v", id, err)
			continue
		}
		e.builder.tracker.forget(id)
		e.sessionLock.Delete(id)
		removed++
	}

	if removed > 0 {
		log.Printf("engine: cleanup removed %d idle sessions", removed)
	}
	return removed, nil
}

// GenerateReply records the user message and produces the assistant's answer:
// a short greeting for greeting-only turns, then a learned pattern when one
// matches the situation, then a strategy-built reply, and a generic fallback
// when everything else produces nothing.
func (e *ConversationEngine) GenerateReply(ctx context.Context, sessionID, text string) (*types.Message, error) {
	mu := e.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := e.stores.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	userMessage, err := e.appendMessage(ctx, session, text, true)
	if err != nil {
		return nil, err
	}
	analysis := *userMessage.Analysis

	profile, err := e.profileFor(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	recent := session.RecentAssistantContents(e.cfg.RecentWindow)
	content := ""

	switch {
	case types.IsGreeting(text):
		content = e.builder.greeting(sessionID, recent)
	default:
		if matches, err := e.learner.FindSimilar(ctx, analysis); err != nil {
			log.Printf("Warning: pattern retrieval failed: %v", err)
		} else if len(matches) > 0 {
			content = renderPattern(matches[0].Pattern, analysis, profile)
		}

		if content == "" {
			strategy := SelectStrategy(analysis, profile)
			content = e.builder.build(strategy, sessionID, recent)
		}
	}

	if strings.TrimSpace(content) == "" {
		content = e.builder.defaultReply(sessionID, recent)
	}

	reply, err := e.appendMessage(ctx, session, content, false)
	if err != nil {
		return nil, err
	}

	if err := e.stores.Sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return reply, nil
}

// RecordExternalReply stores a reply produced outside the engine (typically
// an LLM) as the next assistant message, keeping context tracking and
// anti-repetition aware of it.
func (e *ConversationEngine) RecordExternalReply(ctx context.Context, sessionID, text string) (*types.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: reply text is required", storage.ErrInvalidInput)
	}
	return e.AddMessage(ctx, sessionID, text, false)
}

// SubmitFeedback records user feedback on an assistant message. Positive
// feedback teaches the pattern learner the (situation, reply) pair and
// bumps the user's adaptation score; negative feedback is logged only.
func (e *ConversationEngine) SubmitFeedback(ctx context.Context, sessionID, messageID string, helpful bool, comment string) error {
	mu := e.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := e.stores.Sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	target := -1
	for i, m := range session.Messages {
		if m.ID == messageID {
			target = i
			break
		}
	}
	if target == -1 {
		return fmt.Errorf("%w: message %s not in session", storage.ErrNotFound, messageID)
	}
	if session.Messages[target].IsUser {
		return fmt.Errorf("%w: feedback applies to assistant messages", storage.ErrInvalidInput)
	}

	record := &types.FeedbackRecord{
		SessionID: sessionID,
		MessageID: messageID,
		Helpful:   helpful,
		Comment:   comment,
		Timestamp: e.now(),
	}
	if err := e.stores.Feedback.Append(ctx, record); err != nil {
		return fmt.Errorf("failed to store feedback: %w", err)
	}

	if !helpful {
		log.Printf("engine: negative feedback on %s (session %s)", messageID, sessionID)
		return nil
	}

	// Learn from the user message that triggered this reply.
	var analysis *types.Analysis
	for i := target - 1; i >= 0; i-- {
		if session.Messages[i].IsUser && session.Messages[i].Analysis != nil {
			analysis = session.Messages[i].Analysis
			break
		}
	}
	if analysis == nil {
		return nil
	}

	profile, err := e.profileFor(ctx, session.UserID)
	if err != nil {
		return err
	}

	fingerprint, err := e.learner.RecordSuccess(ctx, *analysis, profile, session.Messages[target].Content)
	if err != nil {
		return fmt.Errorf("failed to record pattern: %w", err)
	}

	profile.AdaptationScore++
	if !profile.HasLearnedPattern(fingerprint) {
		profile.LearnedPatternKeys = append(profile.LearnedPatternKeys, fingerprint)
	}
	if err := e.stores.Profiles.Save(ctx, profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}
