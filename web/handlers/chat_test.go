package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mguerin/compagnon/internal/engine"
	"github.com/mguerin/compagnon/internal/storage"
	"github.com/mguerin/compagnon/internal/storage/memory"
)

// fakeGenerator is a canned llm.TextGenerator for handler tests.
type fakeGenerator struct {
	reply  string
	err    error
	called bool
}

func (f *fakeGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	f.called = true
	return f.reply, f.err
}

func (f *fakeGenerator) GetModel() string { return "fake" }

func newChatEnv(t *testing.T, gen *fakeGenerator) (*ChatHandlers, storage.Stores) {
	t.Helper()
	stores := memory.NewStore().Stores()
	eng := engine.New(stores, engine.DefaultConfig())
	if gen == nil {
		return NewChatHandlers(eng, nil, nil), stores
	}
	return NewChatHandlers(eng, gen, nil), stores
}

func doChat(t *testing.T, h *ChatHandlers, userID, message string) (*httptest.ResponseRecorder, ChatResponse) {
	t.Helper()
	body, err := json.Marshal(ChatRequest{UserID: userID, Message: message})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.PostChat(rec, req)

	var resp ChatResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestPostChatEngineOnly(t *testing.T) {
	h, _ := newChatEnv(t, nil)

	rec, resp := doChat(t, h, "alice", "je suis bloqué sur mon rapport")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "engine", resp.Source)
	assert.NotEmpty(t, resp.Reply)
	assert.NotEmpty(t, resp.MessageID)
}

func TestPostChatUsesValidExternalReply(t *testing.T) {
	gen := &fakeGenerator{reply: "Commence par ouvrir ton document et écris une seule phrase."}
	h, _ := newChatEnv(t, gen)

	rec, resp := doChat(t, h, "alice", "je suis bloqué sur mon rapport")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gen.called)
	assert.Equal(t, "llm", resp.Source)
	assert.Equal(t, gen.reply, resp.Reply)
}

func TestPostChatRejectsGenericExternalReply(t *testing.T) {
	gen := &fakeGenerator{reply: "Bonjour !"}
	h, _ := newChatEnv(t, gen)

	rec, resp := doChat(t, h, "alice", "je suis bloqué sur mon rapport")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gen.called)
	// The generic reply failed validation, so the engine answered.
	assert.Equal(t, "engine", resp.Source)
	assert.NotEqual(t, gen.reply, resp.Reply)
}

func TestPostChatFallsBackOnGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection refused")}
	h, _ := newChatEnv(t, gen)

	rec, resp := doChat(t, h, "alice", "je suis bloqué sur mon rapport")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "engine", resp.Source)
	assert.NotEmpty(t, resp.Reply)
}

func TestPostChatGreetingSkipsGenerator(t *testing.T) {
	gen := &fakeGenerator{reply: "une réponse qui ne devrait jamais servir ici"}
	h, _ := newChatEnv(t, gen)

	rec, resp := doChat(t, h, "alice", "bonjour !")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, gen.called)
	assert.Equal(t, "engine", resp.Source)
}

func TestPostChatBareChoiceSkipsGenerator(t *testing.T) {
	gen := &fakeGenerator{reply: "une réponse qui ne devrait jamais servir ici"}
	h, _ := newChatEnv(t, gen)

	rec, _ := doChat(t, h, "alice", "2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, gen.called)
}

func TestPostChatValidation(t *testing.T) {
	h, _ := newChatEnv(t, nil)

	rec, _ := doChat(t, h, "", "coucou")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doChat(t, h, "alice", "   ")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte("not json")))
	rec = httptest.NewRecorder()
	h.PostChat(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostChatExternalTurnIsRecorded(t *testing.T) {
	gen := &fakeGenerator{reply: "Commence par ouvrir ton document et écris une seule phrase."}
	h, stores := newChatEnv(t, gen)

	_, resp := doChat(t, h, "alice", "je suis bloqué sur mon rapport")

	session, err := stores.Sessions.Get(context.Background(), resp.SessionID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.True(t, session.Messages[0].IsUser)
	assert.False(t, session.Messages[1].IsUser)
	assert.Equal(t, gen.reply, session.Messages[1].Content)
}
