package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"faqchat-backend/internal/middleware"
	"faqchat-backend/internal/models"
)

type stubConversationRepo struct {
	listResult []models.ConversationSummary
	getResult  *models.ConversationWithMessages
	getErr     error
	created    *models.Conversation
	renameErr  error
	renamedTo  string
}

func (s *stubConversationRepo) Create(ctx context.Context, userID uuid.UUID, title string) (*models.Conversation, error) {
	s.created = &models.Conversation{ID: uuid.New(), UserID: userID, Title: title, CreatedAt: time.Now()}
	return s.created, nil
}

func (s *stubConversationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ConversationSummary, error) {
	return s.listResult, nil
}

func (s *stubConversationRepo) GetWithMessages(ctx context.Context, userID, conversationID uuid.UUID) (*models.ConversationWithMessages, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getResult, nil
}

func (s *stubConversationRepo) Rename(ctx context.Context, userID, conversationID uuid.UUID, title string) error {
	if s.renameErr != nil {
		return s.renameErr
	}
	s.renamedTo = title
	return nil
}

func conversationRouter(repo *stubConversationRepo) http.Handler {
	h := NewConversationHandler(repo)
	r := chi.NewRouter()
	r.Get("/conversations", h.List)
	r.Post("/conversations", h.Create)
	r.Get("/conversations/{id}", h.Get)
	r.Put("/conversations/{id}/title", h.RenameTitle)
	return r
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, uuid.New()))
}

func TestConversationHandler_List(t *testing.T) {
	repo := &stubConversationRepo{
		listResult: []models.ConversationSummary{
			{ID: uuid.New(), Title: "newer", CreatedAt: time.Now()},
			{ID: uuid.New(), Title: "older", CreatedAt: time.Now().Add(-time.Hour)},
		},
	}

	rr := httptest.NewRecorder()
	conversationRouter(repo).ServeHTTP(rr, authedRequest(http.MethodGet, "/conversations", ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var result []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("expected 2 summaries, got %d", len(result))
	}
}

func TestConversationHandler_Get_InvalidID(t *testing.T) {
	rr := httptest.NewRecorder()
	conversationRouter(&stubConversationRepo{}).ServeHTTP(rr, authedRequest(http.MethodGet, "/conversations/not-a-uuid", ""))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestConversationHandler_Get_NotOwned(t *testing.T) {
	// Ownership misses surface as not-found, never as leaked data.
	repo := &stubConversationRepo{getErr: pgx.ErrNoRows}

	rr := httptest.NewRecorder()
	conversationRouter(repo).ServeHTTP(rr, authedRequest(http.MethodGet, "/conversations/"+uuid.NewString(), ""))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND code, got %q", resp.Error.Code)
	}
}

func TestConversationHandler_Get_WithMessages(t *testing.T) {
	convID := uuid.New()
	repo := &stubConversationRepo{
		getResult: &models.ConversationWithMessages{
			ID:        convID,
			Title:     "t",
			CreatedAt: time.Now(),
			Messages: []models.Message{
				{ID: 1, IsUser: true, Content: "q", CreatedAt: time.Now()},
				{ID: 2, IsUser: false, Content: "a", CreatedAt: time.Now()},
			},
		},
	}

	rr := httptest.NewRecorder()
	conversationRouter(repo).ServeHTTP(rr, authedRequest(http.MethodGet, "/conversations/"+convID.String(), ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var result struct {
		Messages []models.Message `json:"messages"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Messages) != 2 || !result.Messages[0].IsUser || result.Messages[1].IsUser {
		t.Errorf("unexpected messages: %+v", result.Messages)
	}
}

func TestConversationHandler_Create_DefaultTitle(t *testing.T) {
	repo := &stubConversationRepo{}

	rr := httptest.NewRecorder()
	conversationRouter(repo).ServeHTTP(rr, authedRequest(http.MethodPost, "/conversations", "{}"))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if repo.created == nil || repo.created.Title == "" {
		t.Fatal("expected a generated non-empty title")
	}
	if !strings.HasPrefix(repo.created.Title, "Conversation ") {
		t.Errorf("unexpected default title %q", repo.created.Title)
	}
}

func TestConversationHandler_Create_ExplicitTitle(t *testing.T) {
	repo := &stubConversationRepo{}

	rr := httptest.NewRecorder()
	conversationRouter(repo).ServeHTTP(rr, authedRequest(http.MethodPost, "/conversations", `{"title":"Returns"}`))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if repo.created.Title != "Returns" {
		t.Errorf("expected explicit title, got %q", repo.created.Title)
	}
}

func TestConversationHandler_Rename(t *testing.T) {
	repo := &stubConversationRepo{}
	target := "/conversations/" + uuid.NewString() + "/title"

	// Empty title rejected before touching the store
	rr := httptest.NewRecorder()
	conversationRouter(repo).ServeHTTP(rr, authedRequest(http.MethodPut, target, `{"title":"   "}`))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty title, got %d", rr.Code)
	}

	// Not owned
	repo.renameErr = pgx.ErrNoRows
	rr = httptest.NewRecorder()
	conversationRouter(repo).ServeHTTP(rr, authedRequest(http.MethodPut, target, `{"title":"New name"}`))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for foreign conversation, got %d", rr.Code)
	}

	// Success
	repo.renameErr = nil
	rr = httptest.NewRecorder()
	conversationRouter(repo).ServeHTTP(rr, authedRequest(http.MethodPut, target, `{"title":"New name"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if repo.renamedTo != "New name" {
		t.Errorf("rename did not reach the store: %q", repo.renamedTo)
	}
}
