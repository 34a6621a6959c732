package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/faro/pkg/usecase/search"
	"github.com/urfave/cli/v3"
)

func searchCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "search",
		Usage: "Interactive search across documents, resources, changelogs and videos",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			store, err := cfg.newContentStore(ctx)
			if err != nil {
				return err
			}

			// Line input has no keystroke stream to debounce; keep the
			// quiet period short so each entered query dispatches
			// immediately
			dispatcher := search.New(store, search.WithDebounce(10*time.Millisecond))
			defer dispatcher.Close()

			rl, err := readline.New("search> ")
			if err != nil {
				return err
			}
			defer rl.Close()

			w := c.Root().Writer
			fmt.Fprintf(w, "Type a query (2+ characters), 'open <n>' to select, 'exit' to quit.\n")

			var last search.State
			for {
				line, err := rl.Readline()
				if err == readline.ErrInterrupt || err == io.EOF {
					break
				}
				if err != nil {
					return err
				}

				input := strings.TrimSpace(line)
				switch {
				case input == "exit":
					return nil
				case input == "":
					continue
				case strings.HasPrefix(input, "open "):
					n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(input, "open ")))
					if err != nil || n < 1 || n > len(last.Results) {
						fmt.Fprintf(w, "No such result\n")
						continue
					}
					nav := dispatcher.Select(last.Results[n-1])
					fmt.Fprintf(w, "-> %s%s\n", nav.Path, paramString(nav.Params))
					last = search.State{}
				default:
					dispatcher.Update(ctx, input)
					last = awaitResults(dispatcher)
					printResults(w, last)
				}
			}

			return nil
		},
	}
}

// awaitResults blocks until the dispatcher's fan-out settles
func awaitResults(d *search.Dispatcher) search.State {
	deadline := time.Now().Add(10 * time.Second)
	time.Sleep(30 * time.Millisecond)
	for time.Now().Before(deadline) {
		st := d.Snapshot()
		if !st.IsSearching {
			return st
		}
		time.Sleep(20 * time.Millisecond)
	}
	return d.Snapshot()
}

func printResults(w io.Writer, st search.State) {
	if !st.IsVisible {
		fmt.Fprintf(w, "(query too short)\n")
		return
	}
	if len(st.Results) == 0 {
		fmt.Fprintf(w, "No results\n")
		return
	}

	for i, r := range st.Results {
		line := fmt.Sprintf("%2d. [%-9s] %s", i+1, r.Type, r.Title)
		if r.Description != "" {
			line += " - " + r.Description
		}
		if r.ProductName != "" {
			line += " (" + r.ProductName + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func paramString(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return "?" + strings.Join(pairs, "&")
}
