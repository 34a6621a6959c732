package model

import (
	"github.com/m-mizutani/goerr/v2"
)

var ErrInvalidResultType = goerr.New("invalid result type")

// ResultType is the closed set of content types a search can return
type ResultType string

const (
	ResultTypeDocument  ResultType = "document"
	ResultTypeResource  ResultType = "resource"
	ResultTypeChangelog ResultType = "changelog"
	ResultTypeVideo     ResultType = "video"
)

// Validate checks if the result type is valid
func (t ResultType) Validate() error {
	switch t {
	case ResultTypeDocument, ResultTypeResource, ResultTypeChangelog, ResultTypeVideo:
		return nil
	default:
		return goerr.Wrap(ErrInvalidResultType, "unknown type", goerr.Value("type", t))
	}
}

// SearchResult is the uniform record produced by the search normalizer.
// The (Type, ID) pair is a stable collision-free key; results are built
// fresh per search cycle and carry no persisted identity.
type SearchResult struct {
	ID          string
	Type        ResultType
	Title       string
	Description string
	ProductID   ProductID

	// Denormalized display fields resolved via the owning product
	ProductName string
	Category    string
}

// Key returns the rendering/navigation key for the result
func (r *SearchResult) Key() string {
	return string(r.Type) + ":" + r.ID
}

// Navigation is a resolved destination for a selected search result
type Navigation struct {
	Path   string
	Params map[string]string
}
