package search

import (
	"context"
	"sync"

	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/faro/pkg/repository"
	"github.com/m-mizutani/faro/pkg/utils/logging"
)

// Per-source row caps. These and the debounce window are the only
// backpressure on the store.
const (
	documentLimit  = 20
	resourceLimit  = 10
	changelogLimit = 20
	videoLimit     = 10
)

// fanOut issues the four collection lookups concurrently and aggregates
// them in fixed source order. Each lookup settles independently; a
// failed source is logged and contributes an empty slice, it never
// aborts the other three.
func fanOut(ctx context.Context, store repository.ContentStore, query string) []*model.SearchResult {
	var (
		documents  []*model.Document
		resources  []*model.Resource
		changelogs []*model.Changelog
		videos     []*model.Video
	)

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		rows, err := store.QueryDocuments(ctx, repository.QueryInput{
			Pattern:       query,
			PublishedOnly: true,
			Limit:         documentLimit,
		})
		if err != nil {
			logging.From(ctx).Warn("document lookup failed", "error", err, "query", query)
			return
		}
		documents = keepMatchingDocuments(rows, query)
	}()

	go func() {
		defer wg.Done()
		rows, err := store.QueryResources(ctx, repository.QueryInput{
			Pattern: query,
			Limit:   resourceLimit,
		})
		if err != nil {
			logging.From(ctx).Warn("resource lookup failed", "error", err, "query", query)
			return
		}
		resources = rows
	}()

	go func() {
		defer wg.Done()
		rows, err := store.QueryChangelogs(ctx, repository.QueryInput{
			Pattern:       query,
			PublishedOnly: true,
			Limit:         changelogLimit,
		})
		if err != nil {
			logging.From(ctx).Warn("changelog lookup failed", "error", err, "query", query)
			return
		}
		changelogs = keepMatchingChangelogs(rows, query)
	}()

	go func() {
		defer wg.Done()
		rows, err := store.QueryVideos(ctx, repository.QueryInput{
			Pattern: query,
			Limit:   videoLimit,
		})
		if err != nil {
			logging.From(ctx).Warn("video lookup failed", "error", err, "query", query)
			return
		}
		videos = rows
	}()

	wg.Wait()

	results := make([]*model.SearchResult, 0, len(documents)+len(resources)+len(changelogs)+len(videos))
	for _, d := range documents {
		results = append(results, normalizeDocument(d))
	}
	for _, x := range resources {
		results = append(results, normalizeResource(x))
	}
	for _, c := range changelogs {
		results = append(results, normalizeChangelog(c))
	}
	for _, v := range videos {
		results = append(results, normalizeVideo(v))
	}
	return results
}

// FanOutForTest exposes fanOut
func FanOutForTest(ctx context.Context, store repository.ContentStore, query string) []*model.SearchResult {
	return fanOut(ctx, store, query)
}

// keepMatchingDocuments re-tests each candidate against title or
// flattened body. Bodies are rich content, so candidates from an
// index-backed store may include rows whose title alone does not match.
func keepMatchingDocuments(rows []*model.Document, query string) []*model.Document {
	var out []*model.Document
	for _, d := range rows {
		if matchFold(d.Title, query) || matchFold(d.BodyText(), query) {
			out = append(out, d)
		}
	}
	return out
}

// keepMatchingChangelogs keeps a candidate if title, version or
// flattened body matches
func keepMatchingChangelogs(rows []*model.Changelog, query string) []*model.Changelog {
	var out []*model.Changelog
	for _, c := range rows {
		if matchFold(c.Title, query) || matchFold(c.Version, query) || matchFold(c.BodyText(), query) {
			out = append(out, c)
		}
	}
	return out
}
