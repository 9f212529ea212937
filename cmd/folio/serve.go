package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/folio-cv/folio/internal/citation"
	"github.com/folio-cv/folio/internal/config"
	"github.com/folio-cv/folio/internal/site"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from global config, 127.0.0.1:8080)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the citations page and JSON API",
	Long: `Serve the citations page and a read-only JSON API.

Routes:
  GET /                                    citations page (?style=)
  GET /api/styles                          supported styles
  GET /api/publications                    publications (?type=, ?group=true)
  GET /api/publications/{id}               one publication
  GET /api/publications/{id}/citation      one citation (?style=)
  GET /api/publications/{id}/citations     every style plus BibTeX
  GET /api/publications/{id}/bibtex        BibTeX download
  GET /api/details?q=                      journal details decomposition
  GET /healthz                             liveness
  GET /metrics                             Prometheus metrics

Server settings (server.addr, server.rate_limit, server.burst, timeouts)
come from ~/.config/folio/config.yml or FOLIO_SERVER_* variables.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	global := mustLoadGlobalConfig()
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	style := config.ResolveStyle(cfg, global)

	addr := global.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := site.NewServer(site.Config{
		Address:         addr,
		Title:           cfg.SiteTitle,
		Owner:           cfg.Owner,
		DefaultStyle:    style,
		RateLimit:       global.Server.RateLimit,
		Burst:           global.Server.Burst,
		ReadTimeout:     global.Server.ReadTimeout,
		WriteTimeout:    global.Server.WriteTimeout,
		ShutdownTimeout: global.Server.ShutdownTimeout,
	}, db, logger)

	if humanOutput {
		fmt.Printf("Serving citations on http://%s (Ctrl-C to stop)\n", addr)
	} else {
		outputJSON(StatusResponse{Status: "serving", Path: addr})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}

// mustParseStyle resolves a style name already checked by config validation.
func mustParseStyle(name string) citation.Style {
	style, ok := citation.ParseStyle(name)
	if !ok {
		exitWithError(ExitConfigError, "unknown citation style: %s", name)
	}
	return style
}
