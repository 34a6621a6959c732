package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionProducts    = "products"
	collectionDocuments   = "documents"
	collectionResources   = "resources"
	collectionChangelogs  = "changelogs"
	collectionVideos      = "videos"
	collectionTranscripts = "transcripts"

	// Firestore has no substring operator, so pattern queries scan a
	// bounded window and filter client-side.
	patternScanLimit = 500
)

// Firestore implements ContentStore using Cloud Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore content store
func NewFirestore(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying client
func (r *Firestore) Close() error {
	if err := r.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}

// productCache avoids refetching the same product while denormalizing
// rows of one query
type productCache map[model.ProductID]*model.Product

func (r *Firestore) cachedProduct(ctx context.Context, cache productCache, id model.ProductID) *model.Product {
	if id == "" {
		return nil
	}
	if p, ok := cache[id]; ok {
		return p
	}

	p, err := r.GetProduct(ctx, id)
	if err != nil {
		// Denormalized fields are optional; a missing product just
		// leaves them empty
		cache[id] = nil
		return nil
	}
	cache[id] = p
	return p
}

func (r *Firestore) QueryDocuments(ctx context.Context, input QueryInput) ([]*model.Document, error) {
	q := r.client.Collection(collectionDocuments).Query
	if input.ProductID != "" {
		q = q.Where("ProductID", "==", string(input.ProductID))
	}
	if input.PublishedOnly {
		q = q.Where("Status", "==", string(model.StatusPublished))
	}

	iter := q.Limit(patternScanLimit).Documents(ctx)
	defer iter.Stop()

	cache := productCache{}
	var out []*model.Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents")
		}

		var doc model.Document
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode document", goerr.Value("ref", snap.Ref.ID))
		}
		if input.Pattern != "" && !containsFold(doc.Title, input.Pattern) && !containsFold(doc.BodyText(), input.Pattern) {
			continue
		}

		if p := r.cachedProduct(ctx, cache, doc.ProductID); p != nil {
			doc.ProductName = p.Name
			doc.ProductCategory = p.Category
		}
		out = append(out, &doc)
		if input.Limit > 0 && len(out) >= input.Limit {
			break
		}
	}
	return out, nil
}

func (r *Firestore) QueryResources(ctx context.Context, input QueryInput) ([]*model.Resource, error) {
	q := r.client.Collection(collectionResources).Query
	if input.ProductID != "" {
		q = q.Where("ProductID", "==", string(input.ProductID))
	}

	iter := q.Limit(patternScanLimit).Documents(ctx)
	defer iter.Stop()

	cache := productCache{}
	var out []*model.Resource
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate resources")
		}

		var resource model.Resource
		if err := snap.DataTo(&resource); err != nil {
			return nil, goerr.Wrap(err, "failed to decode resource", goerr.Value("ref", snap.Ref.ID))
		}
		if input.Pattern != "" && !containsFold(resource.Title, input.Pattern) && !containsFold(resource.Description, input.Pattern) {
			continue
		}

		if p := r.cachedProduct(ctx, cache, resource.ProductID); p != nil {
			resource.ProductName = p.Name
			resource.ProductCategory = p.Category
		}
		out = append(out, &resource)
		if input.Limit > 0 && len(out) >= input.Limit {
			break
		}
	}
	return out, nil
}

func (r *Firestore) QueryChangelogs(ctx context.Context, input QueryInput) ([]*model.Changelog, error) {
	q := r.client.Collection(collectionChangelogs).Query
	if input.ProductID != "" {
		q = q.Where("ProductID", "==", string(input.ProductID))
	}
	if input.PublishedOnly {
		q = q.Where("Status", "==", string(model.StatusPublished))
	}

	iter := q.Limit(patternScanLimit).Documents(ctx)
	defer iter.Stop()

	cache := productCache{}
	var out []*model.Changelog
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate changelogs")
		}

		var changelog model.Changelog
		if err := snap.DataTo(&changelog); err != nil {
			return nil, goerr.Wrap(err, "failed to decode changelog", goerr.Value("ref", snap.Ref.ID))
		}
		if input.Pattern != "" && !containsFold(changelog.Title, input.Pattern) && !containsFold(changelog.Version, input.Pattern) && !containsFold(changelog.BodyText(), input.Pattern) {
			continue
		}

		if p := r.cachedProduct(ctx, cache, changelog.ProductID); p != nil {
			changelog.ProductName = p.Name
			changelog.ProductCategory = p.Category
		}
		out = append(out, &changelog)
		if input.Limit > 0 && len(out) >= input.Limit {
			break
		}
	}
	return out, nil
}

func (r *Firestore) QueryVideos(ctx context.Context, input QueryInput) ([]*model.Video, error) {
	q := r.client.Collection(collectionVideos).Query
	if input.ProductID != "" {
		q = q.Where("ProductID", "==", string(input.ProductID))
	}

	iter := q.Limit(patternScanLimit).Documents(ctx)
	defer iter.Stop()

	cache := productCache{}
	var out []*model.Video
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate videos")
		}

		var video model.Video
		if err := snap.DataTo(&video); err != nil {
			return nil, goerr.Wrap(err, "failed to decode video", goerr.Value("ref", snap.Ref.ID))
		}
		if input.Pattern != "" && !containsFold(video.Title, input.Pattern) && !containsFold(video.Caption, input.Pattern) {
			continue
		}

		if p := r.cachedProduct(ctx, cache, video.ProductID); p != nil {
			video.ProductName = p.Name
			video.ProductCategory = p.Category
		}
		out = append(out, &video)
		if input.Limit > 0 && len(out) >= input.Limit {
			break
		}
	}
	return out, nil
}

func (r *Firestore) GetProduct(ctx context.Context, id model.ProductID) (*model.Product, error) {
	snap, err := r.client.Collection(collectionProducts).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrProductNotFound, "no such product", goerr.Value("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get product", goerr.Value("id", id))
	}

	var product model.Product
	if err := snap.DataTo(&product); err != nil {
		return nil, goerr.Wrap(err, "failed to decode product", goerr.Value("id", id))
	}
	return &product, nil
}

func (r *Firestore) ListProducts(ctx context.Context) ([]*model.Product, error) {
	iter := r.client.Collection(collectionProducts).Documents(ctx)
	defer iter.Stop()

	var out []*model.Product
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate products")
		}

		var product model.Product
		if err := snap.DataTo(&product); err != nil {
			return nil, goerr.Wrap(err, "failed to decode product", goerr.Value("ref", snap.Ref.ID))
		}
		out = append(out, &product)
	}
	return out, nil
}

func (r *Firestore) ListDocuments(ctx context.Context, productID model.ProductID) ([]*model.Document, error) {
	iter := r.client.Collection(collectionDocuments).
		Where("ProductID", "==", string(productID)).
		Where("Status", "==", string(model.StatusPublished)).
		Documents(ctx)
	defer iter.Stop()

	var out []*model.Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents")
		}

		var doc model.Document
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode document", goerr.Value("ref", snap.Ref.ID))
		}
		out = append(out, &doc)
	}
	return out, nil
}

func (r *Firestore) ListResources(ctx context.Context, productID model.ProductID) ([]*model.Resource, error) {
	iter := r.client.Collection(collectionResources).
		Where("ProductID", "==", string(productID)).
		Documents(ctx)
	defer iter.Stop()

	var out []*model.Resource
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate resources")
		}

		var resource model.Resource
		if err := snap.DataTo(&resource); err != nil {
			return nil, goerr.Wrap(err, "failed to decode resource", goerr.Value("ref", snap.Ref.ID))
		}
		out = append(out, &resource)
	}
	return out, nil
}

func (r *Firestore) ListVideos(ctx context.Context, productID model.ProductID) ([]*model.Video, error) {
	iter := r.client.Collection(collectionVideos).
		Where("ProductID", "==", string(productID)).
		OrderBy("SortIndex", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var out []*model.Video
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate videos")
		}

		var video model.Video
		if err := snap.DataTo(&video); err != nil {
			return nil, goerr.Wrap(err, "failed to decode video", goerr.Value("ref", snap.Ref.ID))
		}
		out = append(out, &video)
	}
	return out, nil
}

func (r *Firestore) PutProduct(ctx context.Context, product *model.Product) error {
	if _, err := r.client.Collection(collectionProducts).Doc(string(product.ID)).Set(ctx, product); err != nil {
		return goerr.Wrap(err, "failed to put product", goerr.Value("id", product.ID))
	}
	return nil
}

func (r *Firestore) PutDocument(ctx context.Context, doc *model.Document) error {
	if _, err := r.client.Collection(collectionDocuments).Doc(string(doc.ID)).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put document", goerr.Value("id", doc.ID))
	}
	return nil
}

func (r *Firestore) PutResource(ctx context.Context, resource *model.Resource) error {
	if _, err := r.client.Collection(collectionResources).Doc(string(resource.ID)).Set(ctx, resource); err != nil {
		return goerr.Wrap(err, "failed to put resource", goerr.Value("id", resource.ID))
	}
	return nil
}

func (r *Firestore) PutChangelog(ctx context.Context, changelog *model.Changelog) error {
	if _, err := r.client.Collection(collectionChangelogs).Doc(string(changelog.ID)).Set(ctx, changelog); err != nil {
		return goerr.Wrap(err, "failed to put changelog", goerr.Value("id", changelog.ID))
	}
	return nil
}

func (r *Firestore) PutVideo(ctx context.Context, video *model.Video) error {
	if _, err := r.client.Collection(collectionVideos).Doc(string(video.ID)).Set(ctx, video); err != nil {
		return goerr.Wrap(err, "failed to put video", goerr.Value("id", video.ID))
	}
	return nil
}

func (r *Firestore) PutTranscript(ctx context.Context, transcript *model.Transcript) error {
	if _, err := r.client.Collection(collectionTranscripts).Doc(string(transcript.ID)).Set(ctx, transcript); err != nil {
		return goerr.Wrap(err, "failed to put transcript", goerr.Value("id", transcript.ID))
	}
	return nil
}

func (r *Firestore) GetTranscript(ctx context.Context, id model.SessionID) (*model.Transcript, error) {
	snap, err := r.client.Collection(collectionTranscripts).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrTranscriptNotFound, "no such transcript", goerr.Value("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get transcript", goerr.Value("id", id))
	}

	var transcript model.Transcript
	if err := snap.DataTo(&transcript); err != nil {
		return nil, goerr.Wrap(err, "failed to decode transcript", goerr.Value("id", id))
	}
	return &transcript, nil
}
