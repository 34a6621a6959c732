package chat

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/m-mizutani/faro/pkg/adapter"
	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Send runs one chat turn: assemble the reference listing, compile the
// grounding directive, relay to the completion endpoint. The steps are
// strictly sequential and a failure at any step aborts the turn; a
// partial directive is never sent.
func (s *Session) Send(ctx context.Context, message string) (json.RawMessage, error) {
	listing, err := buildListing(ctx, s.store, s.productID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to assemble reference listing")
	}
	s.listing = listing

	directive := compileDirective(listing)

	turns := make([]model.Message, 0, len(s.transcript.Messages)+1)
	turns = append(turns, s.transcript.Messages...)
	turns = append(turns, model.Message{Role: model.RoleUser, Content: message})

	raw, err := s.completion.Complete(ctx, directive, turns)
	if err != nil {
		// Typed relay errors pass through for the caller's taxonomy
		return nil, err
	}

	// Commit the turn only after the relay succeeded
	s.transcript.Messages = turns
	if text, err := adapter.ExtractText(raw); err == nil {
		s.transcript.Messages = append(s.transcript.Messages, model.Message{
			Role:    model.RoleAssistant,
			Content: text,
		})
		if s.transcript.Title == "" {
			s.transcript.Title = previewOf(message)
		}
	}

	return raw, nil
}

// AsTurnError maps a turn failure to the typed, user-facing error of
// the chat surface. Each taxonomy entry keeps a distinct message; the
// original failure is for server logs only.
func AsTurnError(err error) *model.TurnError {
	switch {
	case errors.Is(err, adapter.ErrNoCredential):
		return &model.TurnError{
			Kind:    model.TurnErrorConfiguration,
			Message: "The assistant is not available right now. Please contact support.",
		}
	case errors.Is(err, adapter.ErrRateLimited):
		return &model.TurnError{
			Kind:    model.TurnErrorRateLimited,
			Message: "The assistant is handling too many requests. Please try again later.",
		}
	case errors.Is(err, adapter.ErrQuotaExhausted):
		return &model.TurnError{
			Kind:    model.TurnErrorQuotaExhausted,
			Message: "The assistant is out of credits. Please add credits to continue.",
		}
	default:
		return &model.TurnError{
			Kind:    model.TurnErrorUpstream,
			Message: "The assistant could not respond. Please try again.",
		}
	}
}
