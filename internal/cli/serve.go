package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cratescore/internal/server"
	"github.com/matzehuels/cratescore/pkg/catalog"
)

const defaultAddr = "localhost:8080"

// serveCommand creates the serve command, a read-only HTTP view over a
// generated dataset.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [generated.yaml]",
		Short: "Serve a generated dataset over HTTP",
		Long: `Serve loads a dataset written by scrape and answers read-only JSON queries:

  GET /crates            all entries (?topic=, ?sort=score|name, ?limit=)
  GET /crates/{name}     one entry
  GET /topics            topics with crate counts
  GET /topics/{topic}    entries of a topic, best score first
  GET /healthz           liveness`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := catalog.DefaultOutputPath
			if len(args) == 1 {
				path = args[0]
			}
			entries, err := catalog.ReadYAML(path)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			printInfo("Serving %d entries from %s", len(entries), path)
			printDetail("http://%s/crates", addr)
			return server.New(entries, loggerFromContext(ctx)).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	return cmd
}
