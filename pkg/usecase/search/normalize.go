package search

import (
	"strings"

	"github.com/m-mizutani/faro/pkg/model"
)

// matchFold is the case-insensitive substring test used across the
// search pipeline
func matchFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func normalizeDocument(d *model.Document) *model.SearchResult {
	return &model.SearchResult{
		ID:          string(d.ID),
		Type:        model.ResultTypeDocument,
		Title:       d.Title,
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		Category:    d.ProductCategory,
	}
}

func normalizeResource(x *model.Resource) *model.SearchResult {
	return &model.SearchResult{
		ID:          string(x.ID),
		Type:        model.ResultTypeResource,
		Title:       x.Title,
		Description: x.Description,
		ProductID:   x.ProductID,
		ProductName: x.ProductName,
		Category:    x.ProductCategory,
	}
}

func normalizeChangelog(c *model.Changelog) *model.SearchResult {
	return &model.SearchResult{
		ID:          string(c.ID),
		Type:        model.ResultTypeChangelog,
		Title:       c.Title,
		Description: c.Version,
		ProductID:   c.ProductID,
		ProductName: c.ProductName,
		Category:    c.ProductCategory,
	}
}

func normalizeVideo(v *model.Video) *model.SearchResult {
	return &model.SearchResult{
		ID:          string(v.ID),
		Type:        model.ResultTypeVideo,
		Title:       v.Title,
		Description: v.Caption,
		ProductID:   v.ProductID,
		ProductName: v.ProductName,
		Category:    v.ProductCategory,
	}
}
