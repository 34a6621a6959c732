package repository

import (
	"context"
	"os"

	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// ContentPack is a YAML-loadable bundle of help-center content, used to
// seed a store for local development and demos
type ContentPack struct {
	Products   []*model.Product   `yaml:"products"`
	Documents  []*model.Document  `yaml:"documents"`
	Resources  []*model.Resource  `yaml:"resources"`
	Changelogs []*model.Changelog `yaml:"changelogs"`
	Videos     []*model.Video     `yaml:"videos"`
}

// LoadContentPack reads and parses a content pack file
func LoadContentPack(path string) (*ContentPack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read content pack", goerr.Value("path", path))
	}

	var pack ContentPack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, goerr.Wrap(err, "failed to parse content pack", goerr.Value("path", path))
	}

	return &pack, nil
}

// Apply writes every entry of the pack into the store. Entries without
// an ID get one assigned.
func (p *ContentPack) Apply(ctx context.Context, store ContentStore) error {
	for _, product := range p.Products {
		if product.ID == "" {
			product.ID = model.NewProductID()
		}
		if err := store.PutProduct(ctx, product); err != nil {
			return goerr.Wrap(err, "failed to put product", goerr.Value("name", product.Name))
		}
	}

	for _, doc := range p.Documents {
		if doc.ID == "" {
			doc.ID = model.NewDocumentID()
		}
		if err := store.PutDocument(ctx, doc); err != nil {
			return goerr.Wrap(err, "failed to put document", goerr.Value("title", doc.Title))
		}
	}

	for _, resource := range p.Resources {
		if resource.ID == "" {
			resource.ID = model.NewResourceID()
		}
		if err := store.PutResource(ctx, resource); err != nil {
			return goerr.Wrap(err, "failed to put resource", goerr.Value("title", resource.Title))
		}
	}

	for _, changelog := range p.Changelogs {
		if changelog.ID == "" {
			changelog.ID = model.NewChangelogID()
		}
		if err := store.PutChangelog(ctx, changelog); err != nil {
			return goerr.Wrap(err, "failed to put changelog", goerr.Value("title", changelog.Title))
		}
	}

	for _, video := range p.Videos {
		if video.ID == "" {
			video.ID = model.NewVideoID()
		}
		if err := store.PutVideo(ctx, video); err != nil {
			return goerr.Wrap(err, "failed to put video", goerr.Value("title", video.Title))
		}
	}

	return nil
}
