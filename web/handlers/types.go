// Package handlers provides the HTTP handlers and middleware for the
// Compagnon chat API.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the standard error response format for the API.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ChatRequest is the request body for POST /api/chat.
type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// ChatResponse is the response for POST /api/chat. Source is "llm" when the
// reply came from the external generator and "engine" otherwise.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	MessageID string `json:"message_id"`
	Reply     string `json:"reply"`
	Source    string `json:"source"`
}

// FeedbackRequest is the request body for POST /api/feedback.
type FeedbackRequest struct {
	SessionID string `json:"session_id"`
	MessageID string `json:"message_id"`
	Helpful   bool   `json:"helpful"`
	Comment   string `json:"comment,omitempty"`
}

// ProfileRequest is the request body for POST /api/profile. Pointer fields
// distinguish "absent" from "set to zero"; absent fields keep their stored
// values. Unknown JSON fields are dropped at this boundary.
type ProfileRequest struct {
	UserID             string  `json:"user_id"`
	FunctioningType    *string `json:"functioning_type,omitempty"`
	CommunicationStyle *string `json:"communication_style,omitempty"`
	PreferredLength    *string `json:"preferred_length,omitempty"`
	EmotionalSupport   *bool   `json:"emotional_support,omitempty"`
	SensitivityLevel   *string `json:"sensitivity_level,omitempty"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers already sent, nothing more we can do.
		fmt.Printf("failed to encode JSON response: %v\n", err)
	}
}

// respondError writes an error response with the given status code.
func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	errResp := ErrorResponse{
		Error: message,
		Code:  http.StatusText(statusCode),
	}

	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}
	}

	respondJSON(w, statusCode, errResp)
}
