package chat

import (
	"context"

	"github.com/m-mizutani/faro/pkg/adapter"
	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/faro/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

// Session manages a grounded help-center chat for one product scope
type Session struct {
	store      repository.ContentStore
	completion adapter.Completion
	storage    adapter.Storage

	productID  model.ProductID
	transcript *model.Transcript

	// Listing used for the most recent turn, kept so the caller can
	// validate emitted reference tags against it
	listing *model.ReferenceListing
}

// NewInput contains parameters for creating a chat session
type NewInput struct {
	Store      repository.ContentStore
	Completion adapter.Completion
	Storage    adapter.Storage // Optional: transcript persistence disabled when nil

	ProductID model.ProductID // Optional: empty means no product selected yet
	SessionID *model.SessionID // Optional: specify to resume an existing conversation
}

// New creates a chat session, resuming a stored transcript when a
// session ID is given
func New(ctx context.Context, input NewInput) (*Session, error) {
	s := &Session{
		store:      input.Store,
		completion: input.Completion,
		storage:    input.Storage,
		productID:  input.ProductID,
		transcript: &model.Transcript{ProductID: input.ProductID},
	}

	if input.SessionID != nil {
		transcript, err := loadTranscript(ctx, input.Store, input.Storage, *input.SessionID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to resume session", goerr.Value("id", *input.SessionID))
		}
		s.transcript = transcript
		if s.productID == "" {
			s.productID = transcript.ProductID
		}
	}

	return s, nil
}

// Listing returns the reference listing compiled for the latest turn.
// Nil when no product is selected or no turn has run yet.
func (s *Session) Listing() *model.ReferenceListing {
	return s.listing
}

// Messages returns the conversation so far
func (s *Session) Messages() []model.Message {
	out := make([]model.Message, len(s.transcript.Messages))
	copy(out, s.transcript.Messages)
	return out
}
