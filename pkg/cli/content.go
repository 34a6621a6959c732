package cli

import (
	"context"

	"github.com/m-mizutani/faro/pkg/usecase/content"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func contentCommand() *cli.Command {
	var cfg config

	importCmd := &cli.Command{
		Name:      "import",
		Usage:     "Import a YAML content pack into the content store",
		ArgsUsage: "<pack-file>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			path := c.Args().First()
			if path == "" {
				return goerr.New("content pack path is required")
			}

			store, err := cfg.newContentStore(ctx)
			if err != nil {
				return err
			}

			uc := content.New(store, content.WithOutput(c.Root().Writer))
			return uc.Import(ctx, path)
		},
	}

	productsCmd := &cli.Command{
		Name:  "products",
		Usage: "List products and their IDs",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			store, err := cfg.newContentStore(ctx)
			if err != nil {
				return err
			}

			uc := content.New(store, content.WithOutput(c.Root().Writer))
			return uc.Products(ctx)
		},
	}

	return &cli.Command{
		Name:  "content",
		Usage: "Content store administration",
		Commands: []*cli.Command{
			importCmd,
			productsCmd,
		},
	}
}
