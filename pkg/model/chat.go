package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn sent to the completion endpoint
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type SessionID string

// NewSessionID generates a new unique SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// Transcript is a persisted chat session. Metadata lives in the content
// store; messages are kept in object storage due to document size limits.
type Transcript struct {
	ID        SessionID
	ProductID ProductID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time

	Messages []Message `firestore:"-"`
}

// TurnErrorKind classifies a failed chat turn for the caller
type TurnErrorKind string

const (
	TurnErrorConfiguration  TurnErrorKind = "configuration"
	TurnErrorRateLimited    TurnErrorKind = "rate_limited"
	TurnErrorQuotaExhausted TurnErrorKind = "quota_exhausted"
	TurnErrorUpstream       TurnErrorKind = "upstream"
)

// TurnError is the typed error surfaced by the chat turn interface.
// Message is user-facing; the original failure stays in server logs.
type TurnError struct {
	Kind    TurnErrorKind
	Message string
}

func (e *TurnError) Error() string {
	return e.Message
}
