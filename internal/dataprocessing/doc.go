// Package dataprocessing turns the reactor commissioning workbook into yearly
// fleet figures. It covers loading the spreadsheet and aggregating the
// operating fleet per calendar year.
//
// # Architecture
//
// The package has two components:
//
// 1. Parser: reads the workbook with excelize and yields one ReactorRecord per row
// 2. Aggregator: counts operating reactors per year and averages their age
//
// # Usage
//
// Loading the workbook:
//
//	records, err := dataprocessing.ParseFile("nuclear_power_plants.xlsx", dataprocessing.ParseOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Aggregating over 1955-2023 with the capture date as the reference of 2023:
//
//	aggs, err := dataprocessing.Aggregate(records, dataprocessing.DefaultAggregateOptions())
//
// Tests and callers that need a deterministic reference instant pass their own:
//
//	opts := dataprocessing.AggregateOptions{
//	    FirstYear: 2000,
//	    LastYear:  2010,
//	    Reference: dataprocessing.YearEndReference,
//	}
//
// # Data Flow
//
//	Excel File → Parser → ReactorRecords → Aggregator → YearlyAggregates → report
//
// # Operating Predicate
//
// A reactor operates in year Y when its commercial operation date is on or
// before 31 December of Y and it has no shutdown date or one on or after
// that day. Age is measured in 365.25-day years from the commercial
// operation date to the reference instant of the year.
//
// # Error Handling
//
// File level failures (missing file, unreadable workbook, unknown sheet,
// missing header) are returned as FILE AppErrors. A date cell that cannot be
// parsed never aborts the load: it is logged at debug level, counted in
// ParseStats and treated as missing.
package dataprocessing
