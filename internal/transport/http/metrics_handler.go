package http

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nuclearfleet/pkg/contracts/domain"
)

const metricsNamespace = "nuclearfleet"

// FleetMetrics exposes the aggregates as Prometheus gauges on a private registry
type FleetMetrics struct {
	registry   *prometheus.Registry
	operating  *prometheus.GaugeVec
	averageAge *prometheus.GaugeVec
	records    prometheus.Gauge
}

// NewFleetMetrics registers the fleet gauges
func NewFleetMetrics() *FleetMetrics {
	m := &FleetMetrics{
		registry: prometheus.NewRegistry(),
		operating: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "operating_reactors",
			Help:      "Number of reactors in commercial operation at the reference date of the year.",
		}, []string{"year"}),
		averageAge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "average_age_years",
			Help:      "Mean age in years of the operating reactors, 0 when none operated.",
		}, []string{"year"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "records_loaded",
			Help:      "Workbook rows loaded.",
		}),
	}
	m.registry.MustRegister(m.operating, m.averageAge, m.records)
	return m
}

// Observe sets the gauges from a computed aggregation
func (m *FleetMetrics) Observe(aggs []domain.YearlyAggregate, summary domain.FleetSummary) {
	m.operating.Reset()
	m.averageAge.Reset()
	for _, a := range aggs {
		year := strconv.Itoa(a.Year)
		m.operating.WithLabelValues(year).Set(float64(a.Count))
		m.averageAge.WithLabelValues(year).Set(a.AverageAge)
	}
	m.records.Set(float64(summary.RecordsLoaded))
}

// Registry returns the underlying registry
func (m *FleetMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the text exposition for GET /metrics
func (m *FleetMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
