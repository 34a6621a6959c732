package search

import (
	"github.com/m-mizutani/faro/pkg/model"
)

// resolveNavigation maps a selected result to its destination, keyed
// purely on the result type. Documents open in the document viewer with
// the query passed through for highlight-on-arrival; the other types
// share the per-product documentation surface.
func resolveNavigation(result *model.SearchResult, query string) model.Navigation {
	switch result.Type {
	case model.ResultTypeDocument:
		return model.Navigation{
			Path: "/products/" + string(result.ProductID) + "/docs/" + result.ID,
			Params: map[string]string{
				"q": query,
			},
		}
	case model.ResultTypeResource, model.ResultTypeChangelog:
		return model.Navigation{
			Path: "/products/" + string(result.ProductID) + "/documentation",
			Params: map[string]string{
				"type": string(result.Type),
				"id":   result.ID,
			},
		}
	case model.ResultTypeVideo:
		return model.Navigation{
			Path: "/products/" + string(result.ProductID) + "/documentation",
			Params: map[string]string{
				"type": string(result.Type),
				"id":   result.ID,
				"tab":  "videos",
			},
		}
	default:
		// Type is a closed set; an unknown value can only come from a
		// caller-constructed result
		return model.Navigation{Path: "/"}
	}
}

// ResolveNavigationForTest exposes resolveNavigation
func ResolveNavigationForTest(result *model.SearchResult, query string) model.Navigation {
	return resolveNavigation(result, query)
}
