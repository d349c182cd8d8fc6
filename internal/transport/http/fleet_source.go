package http

import "nuclearfleet/pkg/contracts/domain"

// FleetSource supplies the aggregated fleet data served by the viewer.
// Implementations must be safe for concurrent reads.
type FleetSource interface {
	Aggregates() []domain.YearlyAggregate
	Summary() domain.FleetSummary
}

// StaticFleet serves a fixed result computed once at startup
type StaticFleet struct {
	aggregates []domain.YearlyAggregate
	summary    domain.FleetSummary
}

// NewStaticFleet wraps a computed aggregation
func NewStaticFleet(aggs []domain.YearlyAggregate, summary domain.FleetSummary) *StaticFleet {
	return &StaticFleet{aggregates: aggs, summary: summary}
}

// Aggregates returns the yearly rows in ascending year order
func (s *StaticFleet) Aggregates() []domain.YearlyAggregate {
	return s.aggregates
}

// Summary returns the dataset summary
func (s *StaticFleet) Summary() domain.FleetSummary {
	return s.summary
}
