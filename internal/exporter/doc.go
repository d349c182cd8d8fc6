// Package exporter provides CSV export of the fleet data.
//
// CSVWriter: core CSV writing with headers, appending, streaming and a
// UTF-8 BOM for Excel compatibility.
//
// ExportAggregates writes the yearly figures behind the chart
// (year, reactor_count, average_age_years); ExportRecords dumps the parsed
// reactor rows.
//
// Example usage:
//
//	w := exporter.NewCSVWriter("", logger)
//	err := w.ExportAggregates("fleet_by_year.csv", aggs)
package exporter
