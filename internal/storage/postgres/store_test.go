package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mguerin/compagnon/internal/storage"
	"github.com/mguerin/compagnon/pkg/types"
)

// newTestStore connects to the database named by COMPAGNON_TEST_POSTGRES_DSN
// and skips the test when the variable is unset. Each test cleans the tables
// it uses rather than assuming an empty database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("COMPAGNON_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("COMPAGNON_TEST_POSTGRES_DSN not set; skipping postgres tests")
	}

	store, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		for _, table := range []string{"sessions", "profiles", "patterns", "feedback"} {
			store.db.Exec("DELETE FROM " + table)
		}
		store.Close()
	})
	return store
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	stores := newTestStore(t).Stores()

	now := time.Now().UTC().Truncate(time.Second)
	session := &types.Session{
		ID:     types.SessionID("alice", now),
		UserID: "alice",
		Messages: []types.Message{
			{ID: types.NewMessageID(), Content: "je suis bloqué", IsUser: true, Timestamp: now},
		},
		Context: types.SessionContext{
			CurrentTopic:      types.IntentBlockage,
			EmotionalState:    types.ToneAnxious,
			LastInteractionAt: now,
		},
		StartedAt: now,
	}

	require.NoError(t, stores.Sessions.Put(ctx, session))

	got, err := stores.Sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserID)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, types.IntentBlockage, got.Context.CurrentTopic)

	require.NoError(t, stores.Sessions.Delete(ctx, session.ID))
	_, err = stores.Sessions.Get(ctx, session.ID)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestProfileAndPatternRoundTrip(t *testing.T) {
	ctx := context.Background()
	stores := newTestStore(t).Stores()

	profile := types.NewUserProfile("bob")
	profile.FunctioningType = types.FunctioningMixte
	require.NoError(t, stores.Profiles.Save(ctx, profile))

	gotProfile, err := stores.Profiles.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, types.FunctioningMixte, gotProfile.FunctioningType)

	pattern := &types.ResponsePattern{
		Fingerprint:     "help_request_neutral_work_mixte",
		Intent:          types.IntentHelpRequest,
		EmotionalTone:   types.ToneNeutral,
		ContextType:     types.ContextWork,
		FunctioningType: string(types.FunctioningMixte),
	}
	pattern.AppendReply("Voici une première étape.", time.Now().UTC())
	require.NoError(t, stores.Patterns.Put(ctx, pattern))

	all, err := stores.Patterns.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 1, all[0].SuccessCount)
}

func TestFeedbackList(t *testing.T) {
	ctx := context.Background()
	stores := newTestStore(t).Stores()

	for _, helpful := range []bool{true, false} {
		require.NoError(t, stores.Feedback.Append(ctx, &types.FeedbackRecord{
			SessionID: "s1",
			MessageID: types.NewMessageID(),
			Helpful:   helpful,
			Timestamp: time.Now().UTC(),
		}))
	}

	records, err := stores.Feedback.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.False(t, records[0].Helpful)
}
