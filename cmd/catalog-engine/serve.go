// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IT2357/catalog-engine/internal/catalog"
	"github.com/IT2357/catalog-engine/internal/selection"
	"github.com/IT2357/catalog-engine/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve search and menu selection over HTTP",
	Long: `Serve starts an HTTP server exposing /search, /catalog, /selection,
/metrics, and /healthz. The server stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := engineConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := catalog.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	agg, err := newAggregator(ctx, cfg, store)
	if err != nil {
		return err
	}
	defer agg.Close()

	engine, err := selection.NewEngine(ctx, store, cfg.Selection, selection.WithLogger(log))
	if err != nil {
		return err
	}

	return server.New(agg, engine, log).Run(ctx, cfg.Server)
}
