package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/staffscope-cli/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis pipeline over HTTP",
	Long: `Serve starts an HTTP server with these routes:

  GET  /api/healthz
  POST /api/analyze?filename=staff.xlsx[&lang=en&company=...&sheet=...]
  POST /api/hierarchy?filename=staff.csv

The request body is the file content.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		popt, err := parseOptions()
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" && cfg != nil {
			addr = cfg.ServerAddr
		}
		if addr == "" {
			addr = ":8080"
		}
		var maxUpload int64
		if cfg != nil && cfg.MaxUploadMB > 0 {
			maxUpload = int64(cfg.MaxUploadMB) << 20
		}
		srv := server.New(server.Config{
			Analysis:       analysisOptions(),
			Parse:          popt,
			MaxUploadBytes: maxUpload,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Listening on %s\n", addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server_addr, \":8080\")")
}
