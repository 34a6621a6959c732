package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/faro/pkg/adapter"
	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/faro/pkg/usecase/chat"
	"github.com/m-mizutani/faro/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func chatCommand() *cli.Command {
	var (
		cfg       config
		productID string
		sessionID string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "product",
			Usage:       "Product ID to scope the conversation",
			Sources:     cli.EnvVars("FARO_PRODUCT_ID"),
			Destination: &productID,
		},
		&cli.StringFlag{
			Name:        "session",
			Usage:       "Session ID to resume a stored conversation",
			Sources:     cli.EnvVars("FARO_SESSION_ID"),
			Destination: &sessionID,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, completionFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Grounded help-center conversation for one product",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			store, err := cfg.newContentStore(ctx)
			if err != nil {
				return err
			}

			storage, err := cfg.newStorage(ctx)
			if err != nil {
				return err
			}

			input := chat.NewInput{
				Store:      store,
				Completion: cfg.newCompletion(),
				Storage:    storage,
				ProductID:  model.ProductID(productID),
			}
			if sessionID != "" {
				id := model.SessionID(sessionID)
				input.SessionID = &id
			}

			session, err := chat.New(ctx, input)
			if err != nil {
				return goerr.Wrap(err, "failed to create chat session")
			}

			rl, err := readline.New("> ")
			if err != nil {
				return err
			}
			defer rl.Close()

			w := c.Root().Writer
			fmt.Fprintf(w, "Chat session started. Type 'exit' to quit.\n")

			for {
				line, err := rl.Readline()
				if err == readline.ErrInterrupt || err == io.EOF {
					break
				}
				if err != nil {
					return err
				}

				message := strings.TrimSpace(line)
				if message == "exit" {
					break
				}
				if message == "" {
					continue
				}

				runTurn(ctx, w, session, message)
			}

			fmt.Fprintf(w, "\nChat session completed\n")
			return nil
		},
	}
}

// runTurn sends one message and renders the reply. Turn failures are
// shown with their taxonomy message and the loop continues; resubmitting
// is the retry path.
func runTurn(ctx context.Context, w io.Writer, session *chat.Session, message string) {
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = " thinking..."
	sp.Start()
	raw, err := session.Send(ctx, message)
	sp.Stop()

	if err != nil {
		turnErr := chat.AsTurnError(err)
		logging.From(ctx).Error("chat turn failed", "error", err, "kind", turnErr.Kind)
		fmt.Fprintf(w, "%s\n", turnErr.Message)
		return
	}

	text, err := adapter.ExtractText(raw)
	if err != nil {
		logging.From(ctx).Error("failed to extract completion text", "error", err)
		fmt.Fprintf(w, "The assistant could not respond. Please try again.\n")
		return
	}

	fmt.Fprintf(w, "%s\n", renderTags(text, session.Listing()))

	if err := session.Save(ctx); err != nil {
		logging.From(ctx).Warn("failed to save transcript", "error", err)
	}
}

// renderTags validates each emitted reference tag against the listing
// of the same turn. Grounded tags become links; ungrounded tags degrade
// to plain text.
func renderTags(text string, listing *model.ReferenceListing) string {
	for _, tag := range model.FindReferenceTags(text) {
		if listing.Allows(tag) {
			text = strings.ReplaceAll(text, tag.String(),
				fmt.Sprintf("<%s/%s>", tag.Kind, tag.ItemID))
		} else {
			text = strings.ReplaceAll(text, tag.String(), tag.ItemID)
		}
	}
	return text
}
