package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"faqchat-backend/internal/models"
)

// answerer is the external LLM collaborator seen by the orchestrator.
type answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// conversationStore is the slice of the conversation repository the
// orchestrator needs.
type conversationStore interface {
	AppendTurn(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, fallbackTitle, question, answer string) (uuid.UUID, error)
}

// ChatService forwards a question to the collaborator and records the
// resulting turn. Availability wins over consistency twice: a collaborator
// failure degrades to an inline error answer, and a persistence failure is
// reported in the result while the answer is still returned.
type ChatService struct {
	llm           answerer
	conversations conversationStore
	logger        *zap.Logger
}

func NewChatService(llm answerer, conversations conversationStore, logger *zap.Logger) *ChatService {
	return &ChatService{
		llm:           llm,
		conversations: conversations,
		logger:        logger,
	}
}

func (s *ChatService) Ask(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, question string) (*models.AskResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, &ValidationError{Fields: map[string]string{"question": "Question is required"}}
	}

	answer, err := s.llm.Answer(ctx, question)
	if err != nil {
		s.logger.Warn("collaborator call failed, degrading to inline error answer", zap.Error(err))
		answer = fmt.Sprintf("An error occurred: %s", err)
	}

	result := &models.AskResult{Answer: answer, Persisted: true}

	convID, err := s.conversations.AppendTurn(ctx, userID, conversationID, TitleFromQuestion(question), question, answer)
	if err != nil {
		s.logger.Error("failed to persist conversation turn", zap.Error(err))
		result.Persisted = false
		result.PersistError = err.Error()
		return result, nil
	}

	result.ConversationID = &convID
	return result, nil
}

// TitleFromQuestion derives an implicit conversation title from the first
// question, truncated to 50 runes plus an ellipsis.
func TitleFromQuestion(question string) string {
	runes := []rune(question)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return question
}

// DefaultConversationTitle labels conversations created without a title.
func DefaultConversationTitle(now time.Time) string {
	return "Conversation " + now.Format("Jan 2, 2006 15:04")
}
