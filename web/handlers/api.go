package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mguerin/compagnon/internal/engine"
	"github.com/mguerin/compagnon/internal/storage"
	"github.com/mguerin/compagnon/pkg/types"
)

// APIHandlers serves the session-context, history, profile and feedback
// endpoints.
type APIHandlers struct {
	engine *engine.ConversationEngine
	stores storage.Stores
	hub    *WebSocketHub
}

// NewAPIHandlers creates the API handlers. hub may be nil.
func NewAPIHandlers(eng *engine.ConversationEngine, stores storage.Stores, hub *WebSocketHub) *APIHandlers {
	return &APIHandlers{engine: eng, stores: stores, hub: hub}
}

// GetContext handles GET /api/context - return a session's rolling state.
func (h *APIHandlers) GetContext(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "session_id is required", nil)
		return
	}

	snapshot, err := h.engine.GetCurrentContext(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "session not found", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to get context", err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// GetHistory handles GET /api/history - return a session's messages, oldest
// first. The optional limit parameter returns only the trailing messages.
func (h *APIHandlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "session_id is required", nil)
		return
	}
	limit := queryInt(r, "limit", 0)

	messages, err := h.engine.GetHistory(r.Context(), sessionID, limit)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "session not found", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to get history", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"messages":   messages,
	})
}

// GetProfile handles GET /api/profile - return a user profile.
func (h *APIHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	profile, err := h.stores.Profiles.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "profile not found", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to get profile", err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// PostProfile handles POST /api/profile - update declared profile fields.
// Only fields present in the body change; the profile is created when the
// user has none yet.
func (h *APIHandlers) PostProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	ctx := r.Context()
	profile, err := h.stores.Profiles.Get(ctx, req.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		profile = nil
	} else if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load profile", err)
		return
	}
	if profile == nil {
		profile = types.NewUserProfile(req.UserID)
	}

	if req.FunctioningType != nil {
		profile.FunctioningType = *req.FunctioningType
	}
	if req.CommunicationStyle != nil {
		profile.Preferences.CommunicationStyle = *req.CommunicationStyle
	}
	if req.PreferredLength != nil {
		profile.Preferences.PreferredLength = *req.PreferredLength
	}
	if req.EmotionalSupport != nil {
		profile.Preferences.EmotionalSupport = *req.EmotionalSupport
	}
	if req.SensitivityLevel != nil {
		profile.Preferences.SensitivityLevel = *req.SensitivityLevel
	}
	profile.Normalize()

	if err := h.stores.Profiles.Save(ctx, profile); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save profile", err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// GetFeedback handles GET /api/feedback - list recorded feedback, newest
// first, capped by the optional limit parameter.
func (h *APIHandlers) GetFeedback(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)

	records, err := h.stores.Feedback.List(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list feedback", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"feedback": records,
		"count":    len(records),
	})
}

// PostFeedback handles POST /api/feedback - record feedback on an assistant
// message and, when positive, feed the pattern learner.
func (h *APIHandlers) PostFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}
	if req.SessionID == "" || req.MessageID == "" {
		respondError(w, http.StatusBadRequest, "session_id and message_id are required", nil)
		return
	}

	err := h.engine.SubmitFeedback(r.Context(), req.SessionID, req.MessageID, req.Helpful, req.Comment)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "message not found", err)
			return
		}
		if errors.Is(err, storage.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "invalid feedback target", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to record feedback", err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(map[string]interface{}{
			"type":       "feedback",
			"session_id": req.SessionID,
			"message_id": req.MessageID,
			"helpful":    req.Helpful,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "recorded"})
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, name string, defaultValue int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return val
}
