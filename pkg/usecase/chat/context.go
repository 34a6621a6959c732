package chat

import (
	"context"

	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/faro/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

// Document bodies go into the directive as short previews only; full
// text stays out of the model context.
const previewLength = 150

// buildListing assembles the full per-product reference listing: every
// published document, every resource, and every video in sort order,
// with IDs copied verbatim from the store. Rebuilt on every call so the
// listing always reflects current store state. Returns nil without
// error when no product is selected.
func buildListing(ctx context.Context, store repository.ContentStore, productID model.ProductID) (*model.ReferenceListing, error) {
	if productID == "" {
		return nil, nil
	}

	product, err := store.GetProduct(ctx, productID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get product for listing")
	}

	documents, err := store.ListDocuments(ctx, productID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list documents for listing")
	}

	resources, err := store.ListResources(ctx, productID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list resources for listing")
	}

	videos, err := store.ListVideos(ctx, productID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list videos for listing")
	}

	listing := &model.ReferenceListing{
		ProductID:          product.ID,
		ProductName:        product.Name,
		ProductDescription: product.Description,
	}

	for _, doc := range documents {
		listing.Documents = append(listing.Documents, model.DocumentRef{
			ID:      doc.ID,
			Title:   doc.Title,
			Preview: previewOf(doc.BodyText()),
		})
	}
	for _, resource := range resources {
		listing.Resources = append(listing.Resources, model.ResourceRef{
			ID:          resource.ID,
			Title:       resource.Title,
			Description: resource.Description,
			Type:        resource.Type,
		})
	}
	for _, video := range videos {
		listing.Videos = append(listing.Videos, model.VideoRef{
			ID:      video.ID,
			Title:   video.Title,
			Caption: video.Caption,
		})
	}

	return listing, nil
}

func previewOf(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}

// BuildListingForTest exposes buildListing
func BuildListingForTest(ctx context.Context, store repository.ContentStore, productID model.ProductID) (*model.ReferenceListing, error) {
	return buildListing(ctx, store, productID)
}
