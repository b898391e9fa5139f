package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mguerin/compagnon/internal/storage"
	"github.com/mguerin/compagnon/pkg/types"
)

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	stores := NewStore().Stores()

	now := time.Now()
	session := &types.Session{
		ID:     types.SessionID("alice", now),
		UserID: "alice",
		Messages: []types.Message{
			{ID: types.NewMessageID(), Content: "bonjour", IsUser: true, Timestamp: now},
		},
		Context:   types.SessionContext{CurrentTopic: types.IntentGeneral, LastInteractionAt: now},
		StartedAt: now,
	}

	require.NoError(t, stores.Sessions.Put(ctx, session))

	got, err := stores.Sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "bonjour", got.Messages[0].Content)
}

func TestSessionGetNotFound(t *testing.T) {
	stores := NewStore().Stores()

	_, err := stores.Sessions.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestSessionPutIsolatesCaller(t *testing.T) {
	ctx := context.Background()
	stores := NewStore().Stores()

	session := &types.Session{
		ID:       "s1",
		UserID:   "alice",
		Messages: []types.Message{{ID: "m1", Content: "un"}},
	}
	require.NoError(t, stores.Sessions.Put(ctx, session))

	// Mutating the caller's copy must not leak into the store.
	session.Messages[0].Content = "mutated"

	got, err := stores.Sessions.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "un", got.Messages[0].Content)
}

func TestSessionDelete(t *testing.T) {
	ctx := context.Background()
	stores := NewStore().Stores()

	require.NoError(t, stores.Sessions.Put(ctx, &types.Session{ID: "s1", UserID: "alice"}))
	require.NoError(t, stores.Sessions.Delete(ctx, "s1"))

	_, err := stores.Sessions.Get(ctx, "s1")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	err = stores.Sessions.Delete(ctx, "s1")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestListIdleBefore(t *testing.T) {
	ctx := context.Background()
	stores := NewStore().Stores()

	now := time.Now()
	old := &types.Session{
		ID: "old", UserID: "alice",
		Context: types.SessionContext{LastInteractionAt: now.Add(-8 * 24 * time.Hour)},
	}
	fresh := &types.Session{
		ID: "fresh", UserID: "bob",
		Context: types.SessionContext{LastInteractionAt: now},
	}
	require.NoError(t, stores.Sessions.Put(ctx, old))
	require.NoError(t, stores.Sessions.Put(ctx, fresh))

	ids, err := stores.Sessions.ListIdleBefore(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, ids)
}

func TestProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	stores := NewStore().Stores()

	_, err := stores.Profiles.Get(ctx, "alice")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	profile := types.NewUserProfile("alice")
	profile.FunctioningType = types.FunctioningTSA
	require.NoError(t, stores.Profiles.Save(ctx, profile))

	got, err := stores.Profiles.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, types.FunctioningTSA, got.FunctioningType)
}

func TestPatternRoundTripAndAll(t *testing.T) {
	ctx := context.Background()
	stores := NewStore().Stores()

	a := &types.ResponsePattern{Fingerprint: "help_request_anxious_work_tsa", Intent: types.IntentHelpRequest}
	b := &types.ResponsePattern{Fingerprint: "blockage_neutral_home_tdah", Intent: types.IntentBlockage}
	require.NoError(t, stores.Patterns.Put(ctx, a))
	require.NoError(t, stores.Patterns.Put(ctx, b))

	got, err := stores.Patterns.Get(ctx, a.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, types.IntentHelpRequest, got.Intent)

	all, err := stores.Patterns.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Sorted by fingerprint for deterministic iteration.
	assert.Equal(t, b.Fingerprint, all[0].Fingerprint)
	assert.Equal(t, a.Fingerprint, all[1].Fingerprint)
}

func TestFeedbackAppendAndList(t *testing.T) {
	ctx := context.Background()
	stores := NewStore().Stores()

	for i, helpful := range []bool{true, false, true} {
		err := stores.Feedback.Append(ctx, &types.FeedbackRecord{
			SessionID: "s1",
			MessageID: types.NewMessageID(),
			Helpful:   helpful,
			Timestamp: time.Now().Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	records, err := stores.Feedback.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Newest first.
	assert.True(t, records[0].Helpful)
	assert.False(t, records[1].Helpful)
}

func TestInvalidInput(t *testing.T) {
	ctx := context.Background()
	stores := NewStore().Stores()

	assert.True(t, errors.Is(stores.Sessions.Put(ctx, &types.Session{}), storage.ErrInvalidInput))
	assert.True(t, errors.Is(stores.Profiles.Save(ctx, nil), storage.ErrInvalidInput))
	assert.True(t, errors.Is(stores.Patterns.Put(ctx, &types.ResponsePattern{}), storage.ErrInvalidInput))
	assert.True(t, errors.Is(stores.Feedback.Append(ctx, &types.FeedbackRecord{}), storage.ErrInvalidInput))

	_, err := stores.Sessions.Get(ctx, "")
	assert.True(t, errors.Is(err, storage.ErrInvalidInput))
}
