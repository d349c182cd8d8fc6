package exporter

import (
	"fmt"
	"log/slog"
	"sort"

	"nuclearfleet/pkg/contracts/domain"
)

// AggregateHeaders is the header row of the yearly aggregate export
var AggregateHeaders = []string{"year", "reactor_count", "average_age_years"}

// RecordHeaders is the header row of the reactor record export. Pass-through
// columns follow in alphabetical order.
var RecordHeaders = []string{
	"row", "construction_start", "grid_sync", "commercial_date", "shutdown_date", "cancelled",
}

// AggregateRows converts yearly aggregates to CSV rows
func AggregateRows(aggs []domain.YearlyAggregate) [][]string {
	rows := make([][]string, len(aggs))
	for i, a := range aggs {
		rows[i] = []string{
			formatInt(a.Year),
			formatInt(a.Count),
			formatFloat(a.AverageAge),
		}
	}
	return rows
}

// ExportAggregates writes one row per year to filePath, replacing the file
func (w *CSVWriter) ExportAggregates(filePath string, aggs []domain.YearlyAggregate) error {
	if err := w.WriteSimpleCSV(filePath, AggregateHeaders, AggregateRows(aggs)); err != nil {
		return fmt.Errorf("failed to export aggregates: %w", err)
	}
	return nil
}

// ExportRecords streams the loaded reactor records to filePath with dates in
// ISO form, which is handy for checking what the loader made of the workbook.
func (w *CSVWriter) ExportRecords(filePath string, records []domain.ReactorRecord) error {
	extra := attributeNames(records)
	headers := append(append([]string{}, RecordHeaders...), extra...)

	stream, err := w.CreateStreamWriter(filePath, headers)
	if err != nil {
		return fmt.Errorf("failed to export records: %w", err)
	}

	for _, r := range records {
		row := []string{
			formatInt(r.Row),
			formatDate(r.ConstructionStart),
			formatDate(r.GridSync),
			formatDate(r.CommercialDate),
			formatDate(r.ShutdownDate),
			formatDate(r.Cancelled),
		}
		for _, name := range extra {
			row = append(row, r.Attribute(name))
		}
		if err := stream.WriteRecord(row); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record row %d: %w", r.Row, err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to finish record export: %w", err)
	}

	w.logger.Info("Reactor records exported",
		slog.String("file_path", filePath),
		slog.Int("rows", stream.Rows()))
	return nil
}

func attributeNames(records []domain.ReactorRecord) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		for name := range r.Attributes {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
