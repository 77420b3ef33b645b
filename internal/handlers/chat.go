package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"faqchat-backend/internal/middleware"
	"faqchat-backend/internal/models"
	"faqchat-backend/internal/services"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Ask accepts either a JSON body or form fields (question, conversation_id).
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid form body", r))
			return
		}
		req.Question = r.PostFormValue("question")
		req.ConversationID = r.PostFormValue("conversation_id")
	}

	// An id that does not parse is treated like an unknown conversation: the
	// turn lands in a freshly created one.
	var conversationID *uuid.UUID
	if req.ConversationID != "" {
		if id, err := uuid.Parse(req.ConversationID); err == nil {
			conversationID = &id
		}
	}

	userID := middleware.GetUserID(r.Context())

	result, err := h.chatService.Ask(r.Context(), userID, conversationID, req.Question)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
