package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Memory implements ContentStore in process memory. Used for local
// development and tests, seeded from a content pack file.
type Memory struct {
	mu          sync.RWMutex
	products    []*model.Product
	documents   []*model.Document
	resources   []*model.Resource
	changelogs  []*model.Changelog
	videos      []*model.Video
	transcripts map[model.SessionID]*model.Transcript
}

// NewMemory creates an empty in-memory content store
func NewMemory() *Memory {
	return &Memory{
		transcripts: make(map[model.SessionID]*model.Transcript),
	}
}

func (r *Memory) productOf(id model.ProductID) *model.Product {
	for _, p := range r.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Memory) QueryDocuments(ctx context.Context, input QueryInput) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Document
	for _, d := range r.documents {
		if input.ProductID != "" && d.ProductID != input.ProductID {
			continue
		}
		if input.PublishedOnly && d.Status != model.StatusPublished {
			continue
		}
		if input.Pattern != "" && !containsFold(d.Title, input.Pattern) && !containsFold(d.BodyText(), input.Pattern) {
			continue
		}

		row := *d
		if p := r.productOf(d.ProductID); p != nil {
			row.ProductName = p.Name
			row.ProductCategory = p.Category
		}
		out = append(out, &row)
		if input.Limit > 0 && len(out) >= input.Limit {
			break
		}
	}
	return out, nil
}

func (r *Memory) QueryResources(ctx context.Context, input QueryInput) ([]*model.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Resource
	for _, x := range r.resources {
		if input.ProductID != "" && x.ProductID != input.ProductID {
			continue
		}
		if input.Pattern != "" && !containsFold(x.Title, input.Pattern) && !containsFold(x.Description, input.Pattern) {
			continue
		}

		row := *x
		if p := r.productOf(x.ProductID); p != nil {
			row.ProductName = p.Name
			row.ProductCategory = p.Category
		}
		out = append(out, &row)
		if input.Limit > 0 && len(out) >= input.Limit {
			break
		}
	}
	return out, nil
}

func (r *Memory) QueryChangelogs(ctx context.Context, input QueryInput) ([]*model.Changelog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Changelog
	for _, c := range r.changelogs {
		if input.ProductID != "" && c.ProductID != input.ProductID {
			continue
		}
		if input.PublishedOnly && c.Status != model.StatusPublished {
			continue
		}
		if input.Pattern != "" && !containsFold(c.Title, input.Pattern) && !containsFold(c.Version, input.Pattern) && !containsFold(c.BodyText(), input.Pattern) {
			continue
		}

		row := *c
		if p := r.productOf(c.ProductID); p != nil {
			row.ProductName = p.Name
			row.ProductCategory = p.Category
		}
		out = append(out, &row)
		if input.Limit > 0 && len(out) >= input.Limit {
			break
		}
	}
	return out, nil
}

func (r *Memory) QueryVideos(ctx context.Context, input QueryInput) ([]*model.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Video
	for _, v := range r.videos {
		if input.ProductID != "" && v.ProductID != input.ProductID {
			continue
		}
		if input.Pattern != "" && !containsFold(v.Title, input.Pattern) && !containsFold(v.Caption, input.Pattern) {
			continue
		}

		row := *v
		if p := r.productOf(v.ProductID); p != nil {
			row.ProductName = p.Name
			row.ProductCategory = p.Category
		}
		out = append(out, &row)
		if input.Limit > 0 && len(out) >= input.Limit {
			break
		}
	}
	return out, nil
}

func (r *Memory) GetProduct(ctx context.Context, id model.ProductID) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p := r.productOf(id); p != nil {
		product := *p
		return &product, nil
	}
	return nil, goerr.Wrap(ErrProductNotFound, "no such product", goerr.Value("id", id))
}

func (r *Memory) ListProducts(ctx context.Context) ([]*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Product, 0, len(r.products))
	for _, p := range r.products {
		product := *p
		out = append(out, &product)
	}
	return out, nil
}

func (r *Memory) ListDocuments(ctx context.Context, productID model.ProductID) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Document
	for _, d := range r.documents {
		if d.ProductID != productID || d.Status != model.StatusPublished {
			continue
		}
		doc := *d
		out = append(out, &doc)
	}
	return out, nil
}

func (r *Memory) ListResources(ctx context.Context, productID model.ProductID) ([]*model.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Resource
	for _, x := range r.resources {
		if x.ProductID != productID {
			continue
		}
		resource := *x
		out = append(out, &resource)
	}
	return out, nil
}

func (r *Memory) ListVideos(ctx context.Context, productID model.ProductID) ([]*model.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Video
	for _, v := range r.videos {
		if v.ProductID != productID {
			continue
		}
		video := *v
		out = append(out, &video)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortIndex < out[j].SortIndex
	})
	return out, nil
}

func (r *Memory) PutProduct(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := *product
	for i, existing := range r.products {
		if existing.ID == p.ID {
			r.products[i] = &p
			return nil
		}
	}
	r.products = append(r.products, &p)
	return nil
}

func (r *Memory) PutDocument(ctx context.Context, doc *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := *doc
	for i, existing := range r.documents {
		if existing.ID == d.ID {
			r.documents[i] = &d
			return nil
		}
	}
	r.documents = append(r.documents, &d)
	return nil
}

func (r *Memory) PutResource(ctx context.Context, resource *model.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	x := *resource
	for i, existing := range r.resources {
		if existing.ID == x.ID {
			r.resources[i] = &x
			return nil
		}
	}
	r.resources = append(r.resources, &x)
	return nil
}

func (r *Memory) PutChangelog(ctx context.Context, changelog *model.Changelog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *changelog
	for i, existing := range r.changelogs {
		if existing.ID == c.ID {
			r.changelogs[i] = &c
			return nil
		}
	}
	r.changelogs = append(r.changelogs, &c)
	return nil
}

func (r *Memory) PutVideo(ctx context.Context, video *model.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := *video
	for i, existing := range r.videos {
		if existing.ID == v.ID {
			r.videos[i] = &v
			return nil
		}
	}
	r.videos = append(r.videos, &v)
	return nil
}

func (r *Memory) PutTranscript(ctx context.Context, transcript *model.Transcript) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := *transcript
	r.transcripts[t.ID] = &t
	return nil
}

func (r *Memory) GetTranscript(ctx context.Context, id model.SessionID) (*model.Transcript, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.transcripts[id]
	if !ok {
		return nil, goerr.Wrap(ErrTranscriptNotFound, "no such transcript", goerr.Value("id", id))
	}
	transcript := *t
	return &transcript, nil
}
