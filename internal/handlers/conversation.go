package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"faqchat-backend/internal/middleware"
	"faqchat-backend/internal/models"
	"faqchat-backend/internal/services"
)

type conversationRepository interface {
	Create(ctx context.Context, userID uuid.UUID, title string) (*models.Conversation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ConversationSummary, error)
	GetWithMessages(ctx context.Context, userID, conversationID uuid.UUID) (*models.ConversationWithMessages, error)
	Rename(ctx context.Context, userID, conversationID uuid.UUID, title string) error
}

type ConversationHandler struct {
	conversations conversationRepository
}

func NewConversationHandler(conversations conversationRepository) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	summaries, err := h.conversations.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid conversation ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	conversation, err := h.conversations.GetWithMessages(r.Context(), userID, conversationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Conversation not found", r))
			return
		}
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, conversation)
}

func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = services.DefaultConversationTitle(time.Now())
	}

	userID := middleware.GetUserID(r.Context())

	conversation, err := h.conversations.Create(r.Context(), userID, title)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    conversation.ID,
		"title": conversation.Title,
	})
}

func (h *ConversationHandler) RenameTitle(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid conversation ID", r))
		return
	}

	var req models.RenameConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Title is required", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	if err := h.conversations.Rename(r.Context(), userID, conversationID, title); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Conversation not found", r))
			return
		}
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":    conversationID,
		"title": title,
	})
}
