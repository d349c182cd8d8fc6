package main

import (
	"context"
	"log/slog"
	"time"

	"nuclearfleet/internal/app"
	"nuclearfleet/internal/config"
	"nuclearfleet/internal/dataprocessing"
	apperrors "nuclearfleet/internal/errors"
	"nuclearfleet/internal/exporter"
	"nuclearfleet/internal/report"
	"nuclearfleet/internal/validation"
	"nuclearfleet/pkg/contracts/domain"
)

// chartResult is everything one run produced
type chartResult struct {
	InputPath  string
	Records    []domain.ReactorRecord
	Aggregates []domain.YearlyAggregate
	Summary    domain.FleetSummary
	Document   *report.Document
}

// openBrowser is swapped out in tests
var openBrowser = app.OpenBrowser

// buildChart runs load → aggregate → render → write, then the optional
// exports. Any error aborts the run.
func buildChart(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*chartResult, error) {
	start := time.Now()

	paths, err := config.GetPaths()
	if err != nil {
		logger.WarnContext(ctx, "Executable directory unavailable, resolving input against the working directory",
			slog.String("error", err.Error()))
		paths = nil
	} else {
		paths.LogPathResolution(logger)
	}

	input, err := cfg.ResolveInputPath(paths)
	if err != nil {
		return nil, apperrors.NewFileError("failed to resolve input workbook", err).
			WithContext("path", cfg.Input.Path)
	}

	output := resolveOutputs(cfg.Output, paths)

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateWorkbook(input); err != nil {
		return nil, err
	}
	if err := validator.ValidateOutputFiles(output.HTMLPath, output.CSVPath,
		output.RecordsCSVPath, output.PNGPath); err != nil {
		return nil, err
	}

	records, stats, err := dataprocessing.ParseFileWithStats(input, dataprocessing.ParseOptions{
		Sheet:   cfg.Input.Sheet,
		Columns: columnsFromConfig(cfg.Input.Columns),
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Workbook loaded",
		slog.String("path", input),
		slog.String("sheet", stats.Sheet),
		slog.Int("records", len(records)),
		slog.Int("unparseable_cells", stats.TotalFailures()))

	capture, err := cfg.Aggregation.CaptureTime()
	if err != nil {
		return nil, apperrors.NewConfigError("invalid capture date", err)
	}
	aggs, err := dataprocessing.Aggregate(records, dataprocessing.AggregateOptions{
		FirstYear: cfg.Aggregation.FirstYear,
		LastYear:  cfg.Aggregation.LastYear,
		Reference: dataprocessing.CaptureReference(capture),
	})
	if err != nil {
		return nil, err
	}
	summary := dataprocessing.Summarize(records, aggs)

	renderOpts := report.OptionsFromConfig(cfg.Chart)
	renderOpts.Logger = logger
	doc, err := report.NewRenderer(renderOpts).Render(aggs)
	if err != nil {
		return nil, err
	}
	if err := doc.WriteFile(output.HTMLPath); err != nil {
		return nil, err
	}

	if err := writeExports(ctx, output, records, aggs, logger); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Fleet chart written",
		slog.String("html_path", output.HTMLPath),
		slog.Int("records", summary.RecordsLoaded),
		slog.Int("missing_commercial_date", summary.MissingCommercial),
		slog.Int("still_operating", summary.StillOperating),
		slog.Int("first_year", summary.FirstYear),
		slog.Int("last_year", summary.LastYear),
		slog.Int("peak_year", summary.PeakYear),
		slog.Int("peak_count", summary.PeakCount),
		slog.Int("latest_count", summary.LatestCount),
		slog.Float64("latest_average_age", summary.LatestAverageAge),
		slog.Duration("elapsed", time.Since(start)))

	if output.Show {
		showChart(ctx, output.HTMLPath, logger)
	}

	return &chartResult{
		InputPath:  input,
		Records:    records,
		Aggregates: aggs,
		Summary:    summary,
		Document:   doc,
	}, nil
}

// writeExports writes the configured CSV files and the PNG snapshot
func writeExports(ctx context.Context, out config.OutputConfig, records []domain.ReactorRecord, aggs []domain.YearlyAggregate, logger *slog.Logger) error {
	csv := exporter.NewCSVWriter("", logger)

	if out.CSVPath != "" {
		if err := csv.ExportAggregates(out.CSVPath, aggs); err != nil {
			return err
		}
	}
	if out.RecordsCSVPath != "" {
		if err := csv.ExportRecords(out.RecordsCSVPath, records); err != nil {
			return err
		}
	}
	if out.PNGPath != "" {
		snap := report.DefaultSnapshotOptions()
		snap.Logger = logger
		if err := report.Snapshot(ctx, out.HTMLPath, out.PNGPath, snap); err != nil {
			return err
		}
	}
	return nil
}

// resolveOutputs anchors relative output paths to the working directory.
// Without resolved paths the output locations are used as given.
func resolveOutputs(out config.OutputConfig, paths *config.Paths) config.OutputConfig {
	if paths == nil {
		return out
	}
	for _, p := range []*string{&out.HTMLPath, &out.CSVPath, &out.RecordsCSVPath, &out.PNGPath} {
		if *p != "" {
			*p = paths.GetOutputPath(*p)
		}
	}
	return out
}

// showChart opens the written page; a missing browser is not an error
func showChart(ctx context.Context, htmlPath string, logger *slog.Logger) {
	target, err := report.FileURL(htmlPath)
	if err != nil {
		logger.WarnContext(ctx, "Cannot show chart", slog.String("error", err.Error()))
		return
	}
	if err := openBrowser(target); err != nil {
		logger.WarnContext(ctx, "Cannot show chart, open it manually",
			slog.String("url", target),
			slog.String("error", err.Error()))
	}
}

func columnsFromConfig(c config.ColumnsConfig) dataprocessing.Columns {
	return dataprocessing.Columns{
		ConstructionStart: c.ConstructionStart,
		GridSync:          c.GridSync,
		Commercial:        c.Commercial,
		Shutdown:          c.Shutdown,
		Cancelled:         c.Cancelled,
	}
}
