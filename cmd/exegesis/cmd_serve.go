package main

import (
	"github.com/spf13/cobra"

	"exegesis/internal/server"
)

var serveAddr string

// serveCmd runs the HTTP API until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serves study generation over HTTP:

  POST   /api/studies          {"passage","translation","depth"} -> study JSON
  POST   /api/export/{format}  study JSON -> file download
  POST   /api/publish/{format} study JSON -> stored object (needs artifact.enabled)
  GET    /api/share?ref=..     generate from share-link parameters
  GET    /api/share/link       ?passage=&translation=&depth= -> {"url"}
  GET    /api/history          recent queries
  DELETE /api/history          clear them
  GET    /health`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, appOptions{model: true, publisher: true})
		if err != nil {
			return err
		}
		defer a.Close()

		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}
		srv := server.New(a.service, a.history, a.exports, a.publisher, server.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			ShareBaseURL:   cfg.Server.ShareBaseURL,
			RequestTimeout: cfg.GetRequestTimeout(),
		})
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default server.addr)")
}
