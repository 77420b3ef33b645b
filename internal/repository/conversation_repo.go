package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"faqchat-backend/internal/models"
)

type ConversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

func (r *ConversationRepo) Create(ctx context.Context, userID uuid.UUID, title string) (*models.Conversation, error) {
	c := &models.Conversation{
		ID:     uuid.New(),
		UserID: userID,
		Title:  title,
	}

	query := `INSERT INTO conversations (id, user_id, title)
		VALUES ($1, $2, $3) RETURNING created_at`

	if err := r.pool.QueryRow(ctx, query, c.ID, c.UserID, c.Title).Scan(&c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ConversationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ConversationSummary, error) {
	query := `SELECT id, title, created_at FROM conversations
		WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.ConversationSummary, 0)
	for rows.Next() {
		var s models.ConversationSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// GetWithMessages loads a conversation and its full transcript. Ownership is
// part of the lookup, so a conversation belonging to another user reads as
// pgx.ErrNoRows rather than leaking.
func (r *ConversationRepo) GetWithMessages(ctx context.Context, userID, conversationID uuid.UUID) (*models.ConversationWithMessages, error) {
	c := &models.ConversationWithMessages{}
	query := `SELECT id, title, created_at FROM conversations
		WHERE id = $1 AND user_id = $2`

	err := r.pool.QueryRow(ctx, query, conversationID, userID).Scan(&c.ID, &c.Title, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, is_user, content, created_at FROM messages
		WHERE conversation_id = $1 ORDER BY created_at ASC, id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c.Messages = make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.IsUser, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		c.Messages = append(c.Messages, m)
	}

	return c, rows.Err()
}

func (r *ConversationRepo) Rename(ctx context.Context, userID, conversationID uuid.UUID, title string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE conversations SET title = $1 WHERE id = $2 AND user_id = $3",
		title, conversationID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AppendTurn records one question/answer pair in a single transaction. When
// conversationID is nil or does not resolve to a conversation owned by userID,
// a new conversation titled fallbackTitle is created inside the same
// transaction. The question message is inserted before the answer message so
// the serial id preserves turn order.
func (r *ConversationRepo) AppendTurn(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, fallbackTitle, question, answer string) (uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var convID uuid.UUID
	resolved := false

	if conversationID != nil {
		var id uuid.UUID
		err := tx.QueryRow(ctx,
			"SELECT id FROM conversations WHERE id = $1 AND user_id = $2",
			*conversationID, userID,
		).Scan(&id)
		switch {
		case err == nil:
			convID = id
			resolved = true
		case errors.Is(err, pgx.ErrNoRows):
			// fall through to implicit creation
		default:
			return uuid.Nil, err
		}
	}

	if !resolved {
		convID = uuid.New()
		_, err := tx.Exec(ctx,
			"INSERT INTO conversations (id, user_id, title) VALUES ($1, $2, $3)",
			convID, userID, fallbackTitle,
		)
		if err != nil {
			return uuid.Nil, err
		}
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO messages (conversation_id, is_user, content) VALUES ($1, TRUE, $2)",
		convID, question,
	)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO messages (conversation_id, is_user, content) VALUES ($1, FALSE, $2)",
		convID, answer,
	)
	if err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit turn: %w", err)
	}

	return convID, nil
}
