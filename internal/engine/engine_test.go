package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mguerin/compagnon/internal/storage"
	"github.com/mguerin/compagnon/internal/storage/memory"
	"github.com/mguerin/compagnon/pkg/types"
)

func newTestEngine(t *testing.T) *ConversationEngine {
	t.Helper()
	return New(memory.NewStore().Stores(), DefaultConfig())
}

func TestStartSessionIdempotentPerDay(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	first, err := e.StartSession(ctx, "alice")
	require.NoError(t, err)
	second, err := e.StartSession(ctx, "alice")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "alice_"))

	// A new calendar day starts a new session.
	e.now = func() time.Time { return time.Now().AddDate(0, 0, 1) }
	third, err := e.StartSession(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestStartSessionCreatesProfile(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStore().Stores()
	e := New(stores, DefaultConfig())

	_, err := e.StartSession(ctx, "alice")
	require.NoError(t, err)

	profile, err := stores.Profiles.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, types.LengthMedium, profile.Preferences.PreferredLength)
}

func TestAddMessageAnalysesAndUpdatesContext(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	sessionID, err := e.StartSession(ctx, "alice")
	require.NoError(t, err)

	msg, err := e.AddMessage(ctx, sessionID, "je suis bloqué sur mon rapport au travail", true)
	require.NoError(t, err)
	require.NotNil(t, msg.Analysis)
	assert.Equal(t, types.IntentBlockage, msg.Analysis.Intent)

	snapshot, err := e.GetCurrentContext(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, types.IntentBlockage, snapshot.CurrentTopic)
	assert.Equal(t, 1, snapshot.MessageCount)
}

func TestAddMessageNeutralKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	sessionID, _ := e.StartSession(ctx, "alice")
	_, err := e.AddMessage(ctx, sessionID, "je suis stressé par mon examen", true)
	require.NoError(t, err)
	_, err = e.AddMessage(ctx, sessionID, "rien de neuf", true)
	require.NoError(t, err)

	snapshot, err := e.GetCurrentContext(ctx, sessionID)
	require.NoError(t, err)
	// General intent and neutral tone don't overwrite the rolling state.
	assert.Equal(t, types.IntentAnxiety, snapshot.CurrentTopic)
	assert.Equal(t, types.ToneAnxious, snapshot.EmotionalState)
}

func TestAddMessageFIFOCap(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.MaxSessionMessages = 4
	e := New(memory.NewStore().Stores(), cfg)

	sessionID, _ := e.StartSession(ctx, "alice")
	for i := 0; i < 6; i++ {
		_, err := e.AddMessage(ctx, sessionID, "message numéro "+strings.Repeat("x", i+1), true)
		require.NoError(t, err)
	}

	history, err := e.GetHistory(ctx, sessionID, 0)
	require.NoError(t, err)
	require.Len(t, history, 4)
	// Oldest two were evicted.
	assert.Equal(t, "message numéro xxx", history[0].Content)
}

func TestGetHistoryLimit(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	sessionID, _ := e.StartSession(ctx, "alice")
	for _, text := range []string{"un", "deux", "trois"} {
		_, err := e.AddMessage(ctx, sessionID, text, true)
		require.NoError(t, err)
	}

	history, err := e.GetHistory(ctx, sessionID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "deux", history[0].Content)
	assert.Equal(t, "trois", history[1].Content)
}

func TestUserStateConsistentlyAnxious(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	sessionID, _ := e.StartSession(ctx, "alice")
	_, err := e.AddMessage(ctx, sessionID, "je suis anxieux", true)
	require.NoError(t, err)
	_, err = e.AddMessage(ctx, sessionID, "toujours aussi stressé", true)
	require.NoError(t, err)

	msg, err := e.AddMessage(ctx, sessionID, "et maintenant ?", true)
	require.NoError(t, err)
	assert.Equal(t, types.UserStateConsistentlyAnxious, msg.Context.UserState)
}

func TestCleanupRemovesIdleSessions(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStore().Stores()
	e := New(stores, DefaultConfig())

	base := time.Now()
	e.now = func() time.Time { return base.AddDate(0, 0, -10) }
	oldID, err := e.StartSession(ctx, "alice")
	require.NoError(t, err)

	e.now = func() time.Time { return base }
	freshID, err := e.StartSession(ctx, "bob")
	require.NoError(t, err)

	removed, err := e.Cleanup(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = stores.Sessions.Get(ctx, oldID)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
	_, err = stores.Sessions.Get(ctx, freshID)
	assert.NoError(t, err)
}

func TestGenerateReplyGreeting(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	sessionID, _ := e.StartSession(ctx, "alice")
	reply, err := e.GenerateReply(ctx, sessionID, "bonjour !")
	require.NoError(t, err)

	assert.False(t, reply.IsUser)
	assert.NotEmpty(t, reply.Content)
	// Greeting replies come from the short greeting pool, not a strategy.
	assert.Contains(t, greetingResponses, reply.Content)
}

func TestGenerateReplyStrategyPath(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStore().Stores()
	e := New(stores, DefaultConfig())

	sessionID, _ := e.StartSession(ctx, "alice")
	profile, _ := stores.Profiles.Get(ctx, "alice")
	profile.FunctioningType = types.FunctioningTSA
	require.NoError(t, stores.Profiles.Save(ctx, profile))

	reply, err := e.GenerateReply(ctx, sessionID, "j'ai besoin d'aide pour mon dossier")
	require.NoError(t, err)

	// help_request with a TSA profile renders as a numbered list.
	lines := strings.Split(reply.Content, "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "1. "), "first line %q", lines[0])
}

func TestGenerateReplyNoRepeatAcrossTurns(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	sessionID, _ := e.StartSession(ctx, "alice")

	// Two consecutive anxious blockage turns must not produce the same text.
	first, err := e.GenerateReply(ctx, sessionID, "je suis bloqué et très anxieux")
	require.NoError(t, err)
	second, err := e.GenerateReply(ctx, sessionID, "je suis bloqué et très anxieux")
	require.NoError(t, err)

	assert.NotEqual(t, first.Content, second.Content)
}

func TestGenerateReplyRecordsBothTurns(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	sessionID, _ := e.StartSession(ctx, "alice")
	_, err := e.GenerateReply(ctx, sessionID, "je procrastine encore")
	require.NoError(t, err)

	history, err := e.GetHistory(ctx, sessionID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].IsUser)
	assert.False(t, history[1].IsUser)
}

func TestRecordExternalReply(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	sessionID, _ := e.StartSession(ctx, "alice")
	_, err := e.AddMessage(ctx, sessionID, "je suis bloqué", true)
	require.NoError(t, err)

	msg, err := e.RecordExternalReply(ctx, sessionID, "Voici une réponse générée ailleurs.")
	require.NoError(t, err)
	assert.False(t, msg.IsUser)

	_, err = e.RecordExternalReply(ctx, sessionID, "   ")
	assert.True(t, errors.Is(err, storage.ErrInvalidInput))
}

func TestSubmitFeedbackLearnsFromPositive(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStore().Stores()
	e := New(stores, DefaultConfig())

	sessionID, _ := e.StartSession(ctx, "alice")
	reply, err := e.GenerateReply(ctx, sessionID, "je suis bloqué sur mon rapport au travail")
	require.NoError(t, err)

	require.NoError(t, e.SubmitFeedback(ctx, sessionID, reply.ID, true, "super"))

	// The (situation, reply) pair became a retrievable pattern.
	matches, err := e.Learner().FindSimilar(ctx, *mustLastUserAnalysis(t, ctx, stores, sessionID))
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-9)
	assert.Equal(t, reply.Content, matches[0].Pattern.LatestReply())

	profile, err := stores.Profiles.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.AdaptationScore)
	assert.Len(t, profile.LearnedPatternKeys, 1)
}

func TestSubmitFeedbackNegativeIsLoggedOnly(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStore().Stores()
	e := New(stores, DefaultConfig())

	sessionID, _ := e.StartSession(ctx, "alice")
	reply, err := e.GenerateReply(ctx, sessionID, "je suis bloqué")
	require.NoError(t, err)

	require.NoError(t, e.SubmitFeedback(ctx, sessionID, reply.ID, false, "pas utile"))

	patterns, err := stores.Patterns.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, patterns)

	records, err := stores.Feedback.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Helpful)
}

func TestSubmitFeedbackRejectsUserMessage(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	sessionID, _ := e.StartSession(ctx, "alice")
	msg, err := e.AddMessage(ctx, sessionID, "je suis bloqué", true)
	require.NoError(t, err)

	err = e.SubmitFeedback(ctx, sessionID, msg.ID, true, "")
	assert.True(t, errors.Is(err, storage.ErrInvalidInput))

	err = e.SubmitFeedback(ctx, sessionID, "missing-id", true, "")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestGenerateReplyUsesLearnedPattern(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStore().Stores()
	e := New(stores, DefaultConfig())

	sessionID, _ := e.StartSession(ctx, "alice")
	reply, err := e.GenerateReply(ctx, sessionID, "je suis bloqué sur mon rapport au travail")
	require.NoError(t, err)
	require.NoError(t, e.SubmitFeedback(ctx, sessionID, reply.ID, true, ""))

	// The same situation next day retrieves the learned reply.
	e.now = func() time.Time { return time.Now().AddDate(0, 0, 1) }
	nextSession, err := e.StartSession(ctx, "alice")
	require.NoError(t, err)
	next, err := e.GenerateReply(ctx, nextSession, "je suis bloqué sur mon rapport au travail")
	require.NoError(t, err)

	assert.Equal(t, reply.Content, next.Content)
}

func mustLastUserAnalysis(t *testing.T, ctx context.Context, stores storage.Stores, sessionID string) *types.Analysis {
	t.Helper()

	session, err := stores.Sessions.Get(ctx, sessionID)
	require.NoError(t, err)
	msg := session.LastUserMessage()
	require.NotNil(t, msg)
	require.NotNil(t, msg.Analysis)
	return msg.Analysis
}
