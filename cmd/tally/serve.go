package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/api"
)

func newServeCmd(g *globalOpts) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a local tally API server",
		Long: `Serves the tally REST API on localhost, backed by the configured storage.
Score history needs Postgres and is only available from tallyd.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.config()
			port = firstNonEmpty(port, cfg.Server.Port, "7700")

			engine, weights, err := engineFromConfig(cfg)
			if err != nil {
				return err
			}
			docs, err := g.store(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			h := api.NewHandler(engine, weights, docs, nil, api.NewSessionCache(cfg.Server.CacheSize))
			mux := http.NewServeMux()
			h.RegisterRoutes(mux)

			fmt.Fprintf(os.Stderr, "Tally API server\n")
			fmt.Fprintf(os.Stderr, "  Storage:    %s\n", firstNonEmpty(cfg.Storage.Backend, "local"))
			fmt.Fprintf(os.Stderr, "  Listening:  http://localhost:%s\n", port)

			return http.ListenAndServe(":"+port, api.Wrap(mux, cfg.Server))
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Port to serve on (default: server.port or 7700)")
	return cmd
}
