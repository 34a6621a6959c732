package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/faro/pkg/adapter"
	"github.com/m-mizutani/faro/pkg/repository"
	"github.com/m-mizutani/faro/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Content store
	project     string
	database    string
	contentPack string

	// Completion relay
	apiKey          string
	baseURL         string
	completionModel string

	// Transcript storage
	bucket string

	logLevel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID for Firestore",
			Sources:     cli.EnvVars("FARO_FIRESTORE_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FARO_FIRESTORE_DATABASE"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "content",
			Usage:       "Path to a YAML content pack; uses the in-memory store instead of Firestore",
			Sources:     cli.EnvVars("FARO_CONTENT_PACK"),
			Destination: &cfg.contentPack,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("FARO_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// completionFlags returns flags for the completion relay with destination config
func completionFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-key",
			Usage:       "Completion endpoint API key",
			Sources:     cli.EnvVars("FARO_API_KEY"),
			Destination: &cfg.apiKey,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Completion endpoint base URL",
			Sources:     cli.EnvVars("FARO_BASE_URL"),
			Destination: &cfg.baseURL,
		},
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "Completion model name",
			Sources:     cli.EnvVars("FARO_MODEL"),
			Destination: &cfg.completionModel,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket for chat transcripts (persistence disabled when empty)",
			Sources:     cli.EnvVars("FARO_BUCKET"),
			Destination: &cfg.bucket,
		},
	}
}

// loggerContext attaches a leveled logger to the context
func (cfg *config) loggerContext(ctx context.Context) context.Context {
	return logging.With(ctx, logging.New(cfg.logLevel, os.Stderr))
}

// newContentStore creates the content store: in-memory when a content
// pack is given, Firestore otherwise
func (cfg *config) newContentStore(ctx context.Context) (repository.ContentStore, error) {
	if cfg.contentPack != "" {
		store := repository.NewMemory()
		pack, err := repository.LoadContentPack(cfg.contentPack)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load content pack")
		}
		if err := pack.Apply(ctx, store); err != nil {
			return nil, goerr.Wrap(err, "failed to seed content store")
		}
		return store, nil
	}

	if cfg.project == "" {
		return nil, goerr.New("project is required when no content pack is given")
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	store, err := repository.NewFirestore(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create content store")
	}
	return store, nil
}

// newCompletion creates the completion relay. A missing API key is not
// rejected here; it surfaces as a configuration error on the first turn.
func (cfg *config) newCompletion() adapter.Completion {
	var opts []adapter.CompletionOption
	if cfg.baseURL != "" {
		opts = append(opts, adapter.WithBaseURL(cfg.baseURL))
	}
	if cfg.completionModel != "" {
		opts = append(opts, adapter.WithModel(cfg.completionModel))
	}
	return adapter.NewCompletion(cfg.apiKey, opts...)
}

// newStorage creates the transcript storage, or nil when no bucket is
// configured
func (cfg *config) newStorage(ctx context.Context) (adapter.Storage, error) {
	if cfg.bucket == "" {
		return nil, nil
	}

	storage, err := adapter.NewStorage(ctx, cfg.bucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}
