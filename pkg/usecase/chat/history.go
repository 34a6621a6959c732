package chat

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/m-mizutani/faro/pkg/adapter"
	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/faro/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

func transcriptKey(id model.SessionID) string {
	return "transcripts/" + string(id) + ".json"
}

// loadTranscript loads session metadata from the content store and the
// message log from blob storage
func loadTranscript(ctx context.Context, store repository.ContentStore, storage adapter.Storage, id model.SessionID) (*model.Transcript, error) {
	transcript, err := store.GetTranscript(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get transcript metadata")
	}

	if storage == nil {
		return transcript, nil
	}

	reader, err := storage.Get(ctx, transcriptKey(id))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get transcript messages from storage")
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read transcript messages")
	}

	var messages []model.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal transcript messages")
	}

	transcript.Messages = messages
	return transcript, nil
}

// Save persists the session: messages to blob storage, metadata to the
// content store. No-op when the session has no storage configured.
func (s *Session) Save(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}

	if s.transcript.ID == "" {
		s.transcript.ID = model.NewSessionID()
		s.transcript.ProductID = s.productID
		s.transcript.CreatedAt = time.Now()
	}
	s.transcript.UpdatedAt = time.Now()

	writer, err := s.storage.Put(ctx, transcriptKey(s.transcript.ID))
	if err != nil {
		return goerr.Wrap(err, "failed to create storage writer")
	}

	data, err := json.Marshal(s.transcript.Messages)
	if err != nil {
		writer.Close()
		return goerr.Wrap(err, "failed to marshal transcript messages")
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return goerr.Wrap(err, "failed to write transcript to storage")
	}
	if err := writer.Close(); err != nil {
		return goerr.Wrap(err, "failed to close storage writer")
	}

	if err := s.store.PutTranscript(ctx, s.transcript); err != nil {
		return goerr.Wrap(err, "failed to put transcript metadata")
	}

	return nil
}

// ID returns the persisted session ID, empty until the first Save
func (s *Session) ID() model.SessionID {
	return s.transcript.ID
}
