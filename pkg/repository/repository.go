package repository

import (
	"context"
	"strings"

	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrProductNotFound    = goerr.New("product not found")
	ErrTranscriptNotFound = goerr.New("transcript not found")
)

// QueryInput is a per-collection pattern query. Pattern is a
// case-insensitive substring; an empty ProductID means unscoped.
type QueryInput struct {
	Pattern       string
	ProductID     model.ProductID
	PublishedOnly bool
	Limit         int
}

// ContentStore is the gateway to the help-center content collections.
//
// Query operations match the pattern against indexed display fields:
// documents on title, resources on title or description, changelogs on
// title or version, videos on title or caption. Documents and changelogs
// additionally match on their flattened rich body, since the body is not
// covered by any indexed field and the store is the only layer that can
// scan it without another round trip. Returned rows carry denormalized
// owning-product name/category where the product is known.
type ContentStore interface {
	QueryDocuments(ctx context.Context, input QueryInput) ([]*model.Document, error)
	QueryResources(ctx context.Context, input QueryInput) ([]*model.Resource, error)
	QueryChangelogs(ctx context.Context, input QueryInput) ([]*model.Changelog, error)
	QueryVideos(ctx context.Context, input QueryInput) ([]*model.Video, error)

	// GetProduct retrieves a single product by ID
	GetProduct(ctx context.Context, id model.ProductID) (*model.Product, error)

	// ListProducts retrieves all products
	ListProducts(ctx context.Context) ([]*model.Product, error)

	// ListDocuments retrieves all published documents of a product
	ListDocuments(ctx context.Context, productID model.ProductID) ([]*model.Document, error)

	// ListResources retrieves all resources of a product
	ListResources(ctx context.Context, productID model.ProductID) ([]*model.Resource, error)

	// ListVideos retrieves all videos of a product ordered by sort index
	ListVideos(ctx context.Context, productID model.ProductID) ([]*model.Video, error)

	PutProduct(ctx context.Context, product *model.Product) error
	PutDocument(ctx context.Context, doc *model.Document) error
	PutResource(ctx context.Context, resource *model.Resource) error
	PutChangelog(ctx context.Context, changelog *model.Changelog) error
	PutVideo(ctx context.Context, video *model.Video) error

	// PutTranscript saves chat session metadata
	PutTranscript(ctx context.Context, transcript *model.Transcript) error

	// GetTranscript retrieves chat session metadata by ID
	GetTranscript(ctx context.Context, id model.SessionID) (*model.Transcript, error)
}

// containsFold is the substring predicate shared by all store
// implementations
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
