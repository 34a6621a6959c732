package search_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/faro/pkg/repository"
	"github.com/m-mizutani/faro/pkg/usecase/search"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func seedCatalog(t *testing.T) *repository.Memory {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemory()

	gt.NoError(t, store.PutProduct(ctx, &model.Product{ID: "P1", Name: "PPA", Category: "analytics"}))

	gt.NoError(t, store.PutDocument(ctx, &model.Document{
		ID: "D1", ProductID: "P1", Title: "Dashboard Setup", Status: model.StatusPublished,
	}))
	gt.NoError(t, store.PutDocument(ctx, &model.Document{
		ID:        "D2",
		ProductID: "P1",
		Title:     "Alert Routing",
		Body:      []model.Block{{Type: "paragraph", Text: "Pin alerts to the dashboard."}},
		Status:    model.StatusPublished,
	}))
	gt.NoError(t, store.PutDocument(ctx, &model.Document{
		ID: "D3", ProductID: "P1", Title: "Dashboard Draft", Status: model.StatusDraft,
	}))

	gt.NoError(t, store.PutResource(ctx, &model.Resource{
		ID: "R1", ProductID: "P1", Title: "Install Manual", Description: "Dashboard reference", Type: "pdf",
	}))
	gt.NoError(t, store.PutChangelog(ctx, &model.Changelog{
		ID: "C1", ProductID: "P1", Title: "Dashboard release", Version: "2.4.0", Status: model.StatusPublished,
	}))
	gt.NoError(t, store.PutVideo(ctx, &model.Video{
		ID: "V1", ProductID: "P1", Title: "Tour", Caption: "Dashboard walkthrough", SortIndex: 1,
	}))

	return store
}

func TestFanOutAggregationOrder(t *testing.T) {
	store := seedCatalog(t)

	results := search.FanOutForTest(context.Background(), store, "dashboard")
	gt.Equal(t, len(results), 5)

	// Documents, then resources, then changelogs, then videos
	gt.Equal(t, results[0].Type, model.ResultTypeDocument)
	gt.Equal(t, results[0].ID, "D1")
	gt.Equal(t, results[1].Type, model.ResultTypeDocument)
	gt.Equal(t, results[1].ID, "D2")
	gt.Equal(t, results[2].Type, model.ResultTypeResource)
	gt.Equal(t, results[2].ID, "R1")
	gt.Equal(t, results[3].Type, model.ResultTypeChangelog)
	gt.Equal(t, results[3].ID, "C1")
	gt.Equal(t, results[4].Type, model.ResultTypeVideo)
	gt.Equal(t, results[4].ID, "V1")
}

func TestFanOutBodyOnlyMatchIncluded(t *testing.T) {
	store := seedCatalog(t)

	results := search.FanOutForTest(context.Background(), store, "pin alerts")
	gt.Equal(t, len(results), 1)
	gt.Equal(t, results[0].ID, "D2")
	gt.Equal(t, results[0].Type, model.ResultTypeDocument)
}

func TestFanOutNormalization(t *testing.T) {
	store := seedCatalog(t)

	results := search.FanOutForTest(context.Background(), store, "2.4.0")
	gt.Equal(t, len(results), 1)

	r := results[0]
	gt.Equal(t, r.Type, model.ResultTypeChangelog)
	gt.Equal(t, r.Title, "Dashboard release")
	gt.Equal(t, r.Description, "2.4.0")
	gt.Equal(t, r.ProductName, "PPA")
	gt.Equal(t, r.Category, "analytics")
}

func TestFanOutSourceFailureIsolated(t *testing.T) {
	catalog := seedCatalog(t)
	store := &mockStore{
		ContentStore: catalog,
		queryDocuments: func(ctx context.Context, input repository.QueryInput) ([]*model.Document, error) {
			return nil, goerr.New("document source down")
		},
		queryResources:  catalog.QueryResources,
		queryChangelogs: catalog.QueryChangelogs,
		queryVideos:     catalog.QueryVideos,
	}

	results := search.FanOutForTest(context.Background(), store, "dashboard")

	// Documents are gone; the other three sources still settle
	gt.Equal(t, len(results), 3)
	gt.Equal(t, results[0].Type, model.ResultTypeResource)
	gt.Equal(t, results[1].Type, model.ResultTypeChangelog)
	gt.Equal(t, results[2].Type, model.ResultTypeVideo)
}
