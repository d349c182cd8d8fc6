package domain

import (
	"time"
)

// ReactorRecord is one row of the commissioning workbook.
// Date fields are nil when the cell was empty or could not be parsed.
type ReactorRecord struct {
	Row               int               `json:"row"`
	ConstructionStart *time.Time        `json:"construction_start,omitempty"`
	GridSync          *time.Time        `json:"grid_sync,omitempty"`
	CommercialDate    *time.Time        `json:"commercial_date,omitempty"`
	ShutdownDate      *time.Time        `json:"shutdown_date,omitempty"`
	Cancelled         *time.Time        `json:"cancelled,omitempty"`
	Attributes        map[string]string `json:"attributes,omitempty"`
}

// OperatingAt reports whether the reactor was in commercial operation at the
// cutoff instant: commissioned on or before it and not shut down before it.
func (r ReactorRecord) OperatingAt(cutoff time.Time) bool {
	if r.CommercialDate == nil || r.CommercialDate.After(cutoff) {
		return false
	}
	return r.ShutdownDate == nil || !r.ShutdownDate.Before(cutoff)
}

// Attribute returns a pass-through column value by header name
func (r ReactorRecord) Attribute(name string) string {
	if r.Attributes == nil {
		return ""
	}
	return r.Attributes[name]
}

// YearlyAggregate holds the operating fleet figures for one calendar year.
type YearlyAggregate struct {
	Year       int       `json:"year"`
	Count      int       `json:"reactor_count"`
	AverageAge float64   `json:"average_age_years"`
	Reference  time.Time `json:"reference"`
}

// HasReactors distinguishes an empty year (AverageAge pinned to 0) from a
// year whose computed average happens to be 0.
func (a YearlyAggregate) HasReactors() bool {
	return a.Count > 0
}

// FleetSummary describes a loaded dataset and its aggregation
type FleetSummary struct {
	RecordsLoaded     int     `json:"records_loaded"`
	MissingCommercial int     `json:"missing_commercial_date"`
	StillOperating    int     `json:"still_operating"`
	FirstYear         int     `json:"first_year"`
	LastYear          int     `json:"last_year"`
	PeakYear          int     `json:"peak_year"`
	PeakCount         int     `json:"peak_count"`
	LatestCount       int     `json:"latest_count"`
	LatestAverageAge  float64 `json:"latest_average_age_years"`
}
