package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/mguerin/compagnon/internal/engine"
	"github.com/mguerin/compagnon/internal/llm"
	"github.com/mguerin/compagnon/pkg/types"
)

// historyWindow is how many trailing messages are included in the prompt
// sent to the external generator.
const historyWindow = 6

// bareChoice matches a message that is just an option pick ("1", "2", "3").
// Those answer a list the engine itself produced, so they stay local.
var bareChoice = regexp.MustCompile(`^[1-3][).]?$`)

// ChatHandlers serves the conversation endpoint. When an external generator
// is configured it is tried first; replies that fail validation fall back to
// the engine's own strategy-based generation.
type ChatHandlers struct {
	engine    *engine.ConversationEngine
	generator llm.TextGenerator
	hub       *WebSocketHub
}

// NewChatHandlers creates chat handlers. generator and hub may be nil.
func NewChatHandlers(eng *engine.ConversationEngine, generator llm.TextGenerator, hub *WebSocketHub) *ChatHandlers {
	return &ChatHandlers{engine: eng, generator: generator, hub: hub}
}

// PostChat handles POST /api/chat - run one conversation turn.
func (h *ChatHandlers) PostChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required", nil)
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		respondError(w, http.StatusBadRequest, "message is required", nil)
		return
	}

	ctx := r.Context()

	sessionID, err := h.engine.StartSession(ctx, req.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to start session", err)
		return
	}

	reply, source, err := h.generateTurn(ctx, sessionID, message)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate reply", err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(map[string]interface{}{
			"type":       "chat",
			"session_id": sessionID,
			"message_id": reply.ID,
			"source":     source,
		})
	}

	respondJSON(w, http.StatusOK, ChatResponse{
		SessionID: sessionID,
		MessageID: reply.ID,
		Reply:     reply.Content,
		Source:    source,
	})
}

// generateTurn runs the LLM-first orchestration for one user message. The
// external generator is skipped for greetings and bare option picks; its
// reply is only used when it passes validation.
func (h *ChatHandlers) generateTurn(ctx context.Context, sessionID, message string) (*types.Message, string, error) {
	if h.generator != nil && !types.IsGreeting(message) && !bareChoice.MatchString(message) {
		if reply, ok := h.tryExternal(ctx, sessionID, message); ok {
			return reply, "llm", nil
		}
	}

	reply, err := h.engine.GenerateReply(ctx, sessionID, message)
	if err != nil {
		return nil, "", err
	}
	return reply, "engine", nil
}

// tryExternal asks the external generator for a reply. On any failure the
// turn has not been recorded yet, so the caller can fall back cleanly.
func (h *ChatHandlers) tryExternal(ctx context.Context, sessionID, message string) (*types.Message, bool) {
	prompt, err := h.buildPrompt(ctx, sessionID, message)
	if err != nil {
		log.Printf("Warning: failed to build prompt: %v", err)
		return nil, false
	}

	raw, err := h.generator.Complete(ctx, prompt)
	if err != nil {
		log.Printf("Warning: external generation failed: %v", err)
		return nil, false
	}
	if !llm.ValidReply(raw) {
		log.Printf("engine: rejected external reply for session %s", sessionID)
		return nil, false
	}

	if _, err := h.engine.AddMessage(ctx, sessionID, message, true); err != nil {
		log.Printf("ERROR: failed to record user message: %v", err)
		return nil, false
	}
	reply, err := h.engine.RecordExternalReply(ctx, sessionID, strings.TrimSpace(raw))
	if err != nil {
		log.Printf("ERROR: failed to record external reply: %v", err)
		return nil, false
	}
	return reply, true
}

// buildPrompt assembles the contextual prompt for the external generator:
// the assistant's role, the session's rolling state, the trailing history,
// and the new message.
func (h *ChatHandlers) buildPrompt(ctx context.Context, sessionID, message string) (string, error) {
	snapshot, err := h.engine.GetCurrentContext(ctx, sessionID)
	if err != nil {
		return "", err
	}
	history, err := h.engine.GetHistory(ctx, sessionID, historyWindow)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Tu es un assistant de soutien pour des personnes TSA et TDAH. ")
	b.WriteString("Réponds en français, avec bienveillance, en phrases courtes et concrètes. ")
	b.WriteString("Propose une seule action à la fois.\n\n")

	if snapshot.CurrentTopic != "" {
		fmt.Fprintf(&b, "Sujet actuel : %s\n", snapshot.CurrentTopic)
	}
	if snapshot.EmotionalState != types.ToneNeutral {
		fmt.Fprintf(&b, "État émotionnel : %s\n", snapshot.EmotionalState)
	}

	if len(history) > 0 {
		b.WriteString("\nConversation récente :\n")
		for _, m := range history {
			speaker := "Assistant"
			if m.IsUser {
				speaker = "Utilisateur"
			}
			fmt.Fprintf(&b, "%s : %s\n", speaker, m.Content)
		}
	}

	fmt.Fprintf(&b, "\nUtilisateur : %s\nAssistant :", message)
	return b.String(), nil
}
