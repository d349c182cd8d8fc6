package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nuclearfleet/internal/config"
	"nuclearfleet/internal/infrastructure"
	"nuclearfleet/pkg/contracts"
)

// cliOptions holds the flags shared by every command
type cliOptions struct {
	configPath string
	input      string
	sheet      string
	output     string
	csvPath    string
	recordsCSV string
	pngPath    string
	colorScale string
	logLevel   string
	show       bool
}

var opts cliOptions

var rootCmd = &cobra.Command{
	Use:           "fleetchart",
	Short:         "Chart the count and average age of operating nuclear reactors by year",
	Version:       contracts.GetFullVersionString(),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBuild,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "configuration file (default: config.yaml or configs/config.yaml if present)")
	f.StringVarP(&opts.input, "input", "i", "", "commissioning workbook (.xlsx)")
	f.StringVar(&opts.sheet, "sheet", "", "worksheet name (default: first sheet)")
	f.StringVarP(&opts.output, "output", "o", "", "HTML chart path")
	f.StringVar(&opts.csvPath, "csv", "", "also export the yearly aggregates as CSV")
	f.StringVar(&opts.recordsCSV, "records-csv", "", "also export the parsed workbook rows as CSV")
	f.StringVar(&opts.pngPath, "png", "", "also save a PNG snapshot (needs Chrome)")
	f.StringVar(&opts.colorScale, "color-scale", "", "bar colour scale: emrld, kindlmann or blackbody")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.BoolVar(&opts.show, "show", false, "open the written chart in the browser")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	ctx, logger, err := runLogger(ctx, cfg)
	if err != nil {
		return err
	}

	_, err = buildChart(ctx, cfg, logger)
	return err
}

// runLogger initialises logging and binds a fresh run ID to ctx and the logger
func runLogger(ctx context.Context, cfg *config.Config) (context.Context, *slog.Logger, error) {
	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		return ctx, nil, fmt.Errorf("init logger: %w", err)
	}
	ctx = infrastructure.EnsureRunID(ctx)
	return ctx, infrastructure.LoggerFromContext(ctx), nil
}

// loadConfig layers the command-line flags over the loaded configuration
func loadConfig(o cliOptions) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg, o)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// applyFlags overrides cfg with every flag that was set
func applyFlags(cfg *config.Config, o cliOptions) {
	if o.input != "" {
		cfg.Input.Path = o.input
	}
	if o.sheet != "" {
		cfg.Input.Sheet = o.sheet
	}
	if o.output != "" {
		cfg.Output.HTMLPath = o.output
	}
	if o.csvPath != "" {
		cfg.Output.CSVPath = o.csvPath
	}
	if o.recordsCSV != "" {
		cfg.Output.RecordsCSVPath = o.recordsCSV
	}
	if o.pngPath != "" {
		cfg.Output.PNGPath = o.pngPath
	}
	if o.colorScale != "" {
		cfg.Chart.ColorScale = o.colorScale
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.show {
		cfg.Output.Show = true
	}
}
