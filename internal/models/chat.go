package models

import "github.com/google/uuid"

// AskRequest is the payload sent to the ask endpoint.
type AskRequest struct {
	Question       string `json:"question"`
	ConversationID string `json:"conversation_id"`
}

// AskResult is the outcome of one question/answer turn. The answer is always
// present; Persisted reports whether the transcript write succeeded, and
// PersistError carries the storage failure when it did not.
type AskResult struct {
	Answer         string     `json:"answer"`
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	Persisted      bool       `json:"persisted"`
	PersistError   string     `json:"persist_error,omitempty"`
}
