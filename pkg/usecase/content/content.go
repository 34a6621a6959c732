package content

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/faro/pkg/repository"
	"github.com/m-mizutani/faro/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// UseCase provides content administration operations
type UseCase struct {
	store  repository.ContentStore
	output io.Writer
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithOutput sets the output writer
func WithOutput(w io.Writer) Option {
	return func(uc *UseCase) {
		uc.output = w
	}
}

// New creates a new content UseCase instance
func New(store repository.ContentStore, opts ...Option) *UseCase {
	uc := &UseCase{
		store:  store,
		output: os.Stdout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Import loads a content pack file and writes it into the store
func (u *UseCase) Import(ctx context.Context, path string) error {
	pack, err := repository.LoadContentPack(path)
	if err != nil {
		return goerr.Wrap(err, "failed to load content pack")
	}

	if err := pack.Apply(ctx, u.store); err != nil {
		return goerr.Wrap(err, "failed to apply content pack")
	}

	logging.From(ctx).Info("imported content pack",
		"path", path,
		"products", len(pack.Products),
		"documents", len(pack.Documents),
		"resources", len(pack.Resources),
		"changelogs", len(pack.Changelogs),
		"videos", len(pack.Videos),
	)

	fmt.Fprintf(u.output, "Imported %d products, %d documents, %d resources, %d changelogs, %d videos\n",
		len(pack.Products), len(pack.Documents), len(pack.Resources), len(pack.Changelogs), len(pack.Videos))
	return nil
}

// Products prints all products with their IDs, for picking a chat scope
func (u *UseCase) Products(ctx context.Context) error {
	products, err := u.store.ListProducts(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list products")
	}

	if len(products) == 0 {
		fmt.Fprintf(u.output, "No products found\n")
		return nil
	}

	for _, p := range products {
		fmt.Fprintf(u.output, "%s\t%s\t%s\n", p.ID, p.Name, p.Category)
	}
	return nil
}
