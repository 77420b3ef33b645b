package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubAnswerer struct {
	answer string
	err    error
	calls  int
}

func (s *stubAnswerer) Answer(ctx context.Context, question string) (string, error) {
	s.calls++
	return s.answer, s.err
}

type stubConversationStore struct {
	returnID    uuid.UUID
	err         error
	calls       int
	gotConvID   *uuid.UUID
	gotTitle    string
	gotQuestion string
	gotAnswer   string
}

func (s *stubConversationStore) AppendTurn(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, fallbackTitle, question, answer string) (uuid.UUID, error) {
	s.calls++
	s.gotConvID = conversationID
	s.gotTitle = fallbackTitle
	s.gotQuestion = question
	s.gotAnswer = answer
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return s.returnID, nil
}

func newTestChatService(llm *stubAnswerer, store *stubConversationStore) *ChatService {
	return NewChatService(llm, store, zap.NewNop())
}

func TestAsk_EmptyQuestion(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		llm := &stubAnswerer{}
		store := &stubConversationStore{}
		svc := newTestChatService(llm, store)

		_, err := svc.Ask(context.Background(), uuid.New(), nil, q)
		if _, ok := err.(*ValidationError); !ok {
			t.Fatalf("question %q: expected *ValidationError, got %v", q, err)
		}
		if llm.calls != 0 {
			t.Error("collaborator called for empty question")
		}
		if store.calls != 0 {
			t.Error("store called for empty question")
		}
	}
}

func TestAsk_PersistsTurn(t *testing.T) {
	convID := uuid.New()
	llm := &stubAnswerer{answer: "Arogga cash is a virtual wallet."}
	store := &stubConversationStore{returnID: convID}
	svc := newTestChatService(llm, store)

	result, err := svc.Ask(context.Background(), uuid.New(), nil, "What is arogga cash?")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	if result.Answer != "Arogga cash is a virtual wallet." {
		t.Errorf("unexpected answer %q", result.Answer)
	}
	if !result.Persisted {
		t.Error("expected persisted result")
	}
	if result.ConversationID == nil || *result.ConversationID != convID {
		t.Errorf("expected conversation id %s, got %v", convID, result.ConversationID)
	}
	if store.gotQuestion != "What is arogga cash?" || store.gotAnswer != llm.answer {
		t.Errorf("turn recorded wrong content: %q / %q", store.gotQuestion, store.gotAnswer)
	}
	if store.gotTitle != "What is arogga cash?" {
		t.Errorf("short question should title the conversation verbatim, got %q", store.gotTitle)
	}
	if store.gotConvID != nil {
		t.Error("expected nil conversation id to be forwarded for implicit creation")
	}
}

func TestAsk_CollaboratorFailureDegradesToAnswer(t *testing.T) {
	llm := &stubAnswerer{err: errors.New("model overloaded")}
	store := &stubConversationStore{returnID: uuid.New()}
	svc := newTestChatService(llm, store)

	result, err := svc.Ask(context.Background(), uuid.New(), nil, "What is arogga cash?")
	if err != nil {
		t.Fatalf("ask should not fail on collaborator error: %v", err)
	}

	if !strings.Contains(result.Answer, "An error occurred:") || !strings.Contains(result.Answer, "model overloaded") {
		t.Errorf("expected degraded error answer, got %q", result.Answer)
	}
	if !result.Persisted {
		t.Error("degraded answer should still be persisted")
	}
	if store.gotAnswer != result.Answer {
		t.Error("degraded answer not recorded in transcript")
	}
}

func TestAsk_PersistFailureStillReturnsAnswer(t *testing.T) {
	llm := &stubAnswerer{answer: "some answer"}
	store := &stubConversationStore{err: errors.New("connection reset")}
	svc := newTestChatService(llm, store)

	result, err := svc.Ask(context.Background(), uuid.New(), nil, "What is arogga cash?")
	if err != nil {
		t.Fatalf("ask should not fail on persistence error: %v", err)
	}

	if result.Answer != "some answer" {
		t.Errorf("answer lost on persistence failure: %q", result.Answer)
	}
	if result.Persisted {
		t.Error("expected persisted=false")
	}
	if !strings.Contains(result.PersistError, "connection reset") {
		t.Errorf("expected persist error to be surfaced, got %q", result.PersistError)
	}
	if result.ConversationID != nil {
		t.Error("no conversation id should be reported when the turn was not recorded")
	}
}

func TestTitleFromQuestion(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{"short question unchanged", "What is arogga cash?", "What is arogga cash?"},
		{"exactly fifty runes unchanged", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"long question truncated", strings.Repeat("a", 60), strings.Repeat("a", 50) + "..."},
		{"multibyte runes counted as one", strings.Repeat("ক", 60), strings.Repeat("ক", 50) + "..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TitleFromQuestion(tc.question); got != tc.want {
				t.Errorf("TitleFromQuestion(%q) = %q, want %q", tc.question, got, tc.want)
			}
		})
	}
}

func TestDefaultConversationTitle(t *testing.T) {
	title := DefaultConversationTitle(time.Date(2025, time.March, 5, 14, 30, 0, 0, time.UTC))
	if title == "" {
		t.Fatal("expected non-empty title")
	}
	if !strings.HasPrefix(title, "Conversation ") {
		t.Errorf("unexpected title %q", title)
	}
	if !strings.Contains(title, "Mar 5, 2025") {
		t.Errorf("expected date in title, got %q", title)
	}
}
