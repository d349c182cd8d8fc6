package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nuclearfleet/internal/app"
)

var (
	servePort int
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the chart and serve it with its data on a local viewer",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "viewer port (default from config)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the viewer in the browser once it is ready")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveOpen {
		cfg.Server.OpenBrowser = true
	}
	// The viewer replaces opening the written file
	cfg.Output.Show = false
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	ctx, logger, err := runLogger(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := buildChart(ctx, cfg, logger)
	if err != nil {
		return err
	}

	viewer := app.New(cfg, result.Document, result.Aggregates, result.Summary, logger)
	return viewer.Run(ctx)
}
