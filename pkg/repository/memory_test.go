package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/faro/pkg/repository"
	"github.com/m-mizutani/gt"
)

func setupMemory(t *testing.T) *repository.Memory {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemory()

	gt.NoError(t, store.PutProduct(ctx, &model.Product{
		ID:       "P1",
		Name:     "PPA",
		Category: "analytics",
	}))
	gt.NoError(t, store.PutProduct(ctx, &model.Product{
		ID:   "P2",
		Name: "Gateway",
	}))

	gt.NoError(t, store.PutDocument(ctx, &model.Document{
		ID:        "D1",
		ProductID: "P1",
		Title:     "PPA Dashboard Setup",
		Body:      []model.Block{{Type: "paragraph", Text: "How to configure widgets."}},
		Status:    model.StatusPublished,
	}))
	gt.NoError(t, store.PutDocument(ctx, &model.Document{
		ID:        "D2",
		ProductID: "P1",
		Title:     "Alert Routing",
		Body:      []model.Block{{Type: "paragraph", Text: "Route alerts to the dashboard inbox."}},
		Status:    model.StatusPublished,
	}))
	gt.NoError(t, store.PutDocument(ctx, &model.Document{
		ID:        "D3",
		ProductID: "P1",
		Title:     "Dashboard Drafting",
		Status:    model.StatusDraft,
	}))

	gt.NoError(t, store.PutResource(ctx, &model.Resource{
		ID:          "R1",
		ProductID:   "P1",
		Title:       "Install Manual",
		Description: "Full dashboard reference",
		Type:        "pdf",
	}))

	gt.NoError(t, store.PutChangelog(ctx, &model.Changelog{
		ID:        "C1",
		ProductID: "P1",
		Title:     "Spring release",
		Version:   "2.4.0",
		Status:    model.StatusPublished,
	}))

	gt.NoError(t, store.PutVideo(ctx, &model.Video{
		ID: "V2", ProductID: "P1", Title: "Advanced", Caption: "Dashboard deep dive", SortIndex: 2,
	}))
	gt.NoError(t, store.PutVideo(ctx, &model.Video{
		ID: "V1", ProductID: "P1", Title: "Account Setup", Caption: "First steps", SortIndex: 1,
	}))

	return store
}

func TestMemoryQueryDocumentsTitle(t *testing.T) {
	store := setupMemory(t)
	ctx := context.Background()

	docs, err := store.QueryDocuments(ctx, repository.QueryInput{
		Pattern: "DASH", PublishedOnly: true, Limit: 20,
	})
	gt.NoError(t, err)
	// D1 matches by title, D2 by body; draft D3 is excluded
	gt.Equal(t, len(docs), 2)
	gt.Equal(t, docs[0].ID, model.DocumentID("D1"))
	gt.Equal(t, docs[0].ProductName, "PPA")
	gt.Equal(t, docs[0].ProductCategory, "analytics")
	gt.Equal(t, docs[1].ID, model.DocumentID("D2"))
}

func TestMemoryQueryDocumentsLimit(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	for i := 0; i < 30; i++ {
		gt.NoError(t, store.PutDocument(ctx, &model.Document{
			ID:        model.DocumentID(fmt.Sprintf("D%03d", i)),
			ProductID: "P1",
			Title:     fmt.Sprintf("Guide %d", i),
			Status:    model.StatusPublished,
		}))
	}

	docs, err := store.QueryDocuments(ctx, repository.QueryInput{Pattern: "guide", Limit: 20})
	gt.NoError(t, err)
	gt.Equal(t, len(docs), 20)
}

func TestMemoryQueryResources(t *testing.T) {
	store := setupMemory(t)
	ctx := context.Background()

	// Description match
	rows, err := store.QueryResources(ctx, repository.QueryInput{Pattern: "reference", Limit: 10})
	gt.NoError(t, err)
	gt.Equal(t, len(rows), 1)
	gt.Equal(t, rows[0].ID, model.ResourceID("R1"))

	// No body fallback for resources
	rows, err = store.QueryResources(ctx, repository.QueryInput{Pattern: "widgets", Limit: 10})
	gt.NoError(t, err)
	gt.Equal(t, len(rows), 0)
}

func TestMemoryQueryChangelogsVersion(t *testing.T) {
	store := setupMemory(t)
	ctx := context.Background()

	rows, err := store.QueryChangelogs(ctx, repository.QueryInput{
		Pattern: "2.4", PublishedOnly: true, Limit: 20,
	})
	gt.NoError(t, err)
	gt.Equal(t, len(rows), 1)
	gt.Equal(t, rows[0].ID, model.ChangelogID("C1"))
}

func TestMemoryQueryVideosCaption(t *testing.T) {
	store := setupMemory(t)
	ctx := context.Background()

	rows, err := store.QueryVideos(ctx, repository.QueryInput{Pattern: "deep dive", Limit: 10})
	gt.NoError(t, err)
	gt.Equal(t, len(rows), 1)
	gt.Equal(t, rows[0].ID, model.VideoID("V2"))
}

func TestMemoryQueryScope(t *testing.T) {
	store := setupMemory(t)
	ctx := context.Background()

	rows, err := store.QueryDocuments(ctx, repository.QueryInput{
		Pattern: "dash", ProductID: "P2", PublishedOnly: true, Limit: 20,
	})
	gt.NoError(t, err)
	gt.Equal(t, len(rows), 0)
}

func TestMemoryListVideosOrder(t *testing.T) {
	store := setupMemory(t)
	ctx := context.Background()

	videos, err := store.ListVideos(ctx, "P1")
	gt.NoError(t, err)
	gt.Equal(t, len(videos), 2)
	gt.Equal(t, videos[0].ID, model.VideoID("V1"))
	gt.Equal(t, videos[1].ID, model.VideoID("V2"))
}

func TestMemoryListDocumentsPublishedOnly(t *testing.T) {
	store := setupMemory(t)
	ctx := context.Background()

	docs, err := store.ListDocuments(ctx, "P1")
	gt.NoError(t, err)
	gt.Equal(t, len(docs), 2)
	for _, d := range docs {
		gt.Equal(t, d.Status, model.StatusPublished)
	}
}

func TestMemoryGetProductNotFound(t *testing.T) {
	store := setupMemory(t)
	ctx := context.Background()

	_, err := store.GetProduct(ctx, "missing")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrProductNotFound))
}

func TestMemoryTranscript(t *testing.T) {
	store := setupMemory(t)
	ctx := context.Background()

	transcript := &model.Transcript{
		ID:        model.NewSessionID(),
		ProductID: "P1",
		Title:     "billing question",
	}
	gt.NoError(t, store.PutTranscript(ctx, transcript))

	loaded, err := store.GetTranscript(ctx, transcript.ID)
	gt.NoError(t, err)
	gt.Equal(t, loaded.Title, "billing question")

	_, err = store.GetTranscript(ctx, "missing")
	gt.True(t, errors.Is(err, repository.ErrTranscriptNotFound))
}
