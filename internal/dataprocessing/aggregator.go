package dataprocessing

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	apperrors "nuclearfleet/internal/errors"
	"nuclearfleet/pkg/contracts/domain"
)

// DaysPerYear is the year length used for reactor ages
const DaysPerYear = 365.25

// Default aggregation window and the date the source data was captured
const (
	DefaultFirstYear = 1955
	DefaultLastYear  = 2023
)

// DefaultCaptureDate is the cutoff of the source dataset
var DefaultCaptureDate = time.Date(2023, time.May, 7, 0, 0, 0, 0, time.UTC)

// ReferenceFunc returns the instant ages are measured against for a year
type ReferenceFunc func(year int) time.Time

// YearEnd returns 31 December of year at midnight UTC, the cutoff of the
// operating predicate.
func YearEnd(year int) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// YearEndReference measures every year against its 31 December
func YearEndReference(year int) time.Time {
	return YearEnd(year)
}

// CaptureReference measures the capture year against the capture instant
// and every other year against its 31 December, so the final partial year
// reflects the data cutoff rather than a future date.
func CaptureReference(capture time.Time) ReferenceFunc {
	return func(year int) time.Time {
		if year == capture.Year() {
			return capture
		}
		return YearEnd(year)
	}
}

// AggregateOptions configures Aggregate
type AggregateOptions struct {
	FirstYear int
	LastYear  int
	// Reference defaults to YearEndReference when nil
	Reference ReferenceFunc
}

// DefaultAggregateOptions returns the 1955–2023 window measured against the
// dataset capture date.
func DefaultAggregateOptions() AggregateOptions {
	return AggregateOptions{
		FirstYear: DefaultFirstYear,
		LastYear:  DefaultLastYear,
		Reference: CaptureReference(DefaultCaptureDate),
	}
}

// Aggregate computes, for every year of the closed window, the number of
// operating reactors and their mean age. Years with no operating reactor
// get an AverageAge of exactly 0.
func Aggregate(records []domain.ReactorRecord, opts AggregateOptions) ([]domain.YearlyAggregate, error) {
	if opts.FirstYear > opts.LastYear {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("first year %d is after last year %d", opts.FirstYear, opts.LastYear))
	}
	reference := opts.Reference
	if reference == nil {
		reference = YearEndReference
	}

	aggregates := make([]domain.YearlyAggregate, 0, opts.LastYear-opts.FirstYear+1)
	ages := make([]float64, 0, len(records))

	for year := opts.FirstYear; year <= opts.LastYear; year++ {
		cutoff := YearEnd(year)
		ref := reference(year)

		ages = ages[:0]
		for _, r := range records {
			if !r.OperatingAt(cutoff) {
				continue
			}
			ages = append(ages, AgeInYears(*r.CommercialDate, ref))
		}

		avg := 0.0
		if len(ages) > 0 {
			avg = stat.Mean(ages, nil)
		}

		aggregates = append(aggregates, domain.YearlyAggregate{
			Year:       year,
			Count:      len(ages),
			AverageAge: avg,
			Reference:  ref,
		})
	}

	return aggregates, nil
}

// AgeInYears returns the elapsed time from since to ref in 365.25-day years.
// It is negative when ref precedes since.
func AgeInYears(since, ref time.Time) float64 {
	return ref.Sub(since).Hours() / 24 / DaysPerYear
}

// Summarize describes the loaded records and their aggregation
func Summarize(records []domain.ReactorRecord, aggregates []domain.YearlyAggregate) domain.FleetSummary {
	summary := domain.FleetSummary{RecordsLoaded: len(records)}

	for _, r := range records {
		if r.CommercialDate == nil {
			summary.MissingCommercial++
			continue
		}
		if r.ShutdownDate == nil {
			summary.StillOperating++
		}
	}

	if len(aggregates) == 0 {
		return summary
	}

	summary.FirstYear = aggregates[0].Year
	summary.LastYear = aggregates[len(aggregates)-1].Year
	for _, a := range aggregates {
		if a.Count > summary.PeakCount {
			summary.PeakCount = a.Count
			summary.PeakYear = a.Year
		}
	}
	latest := aggregates[len(aggregates)-1]
	summary.LatestCount = latest.Count
	summary.LatestAverageAge = latest.AverageAge

	return summary
}
