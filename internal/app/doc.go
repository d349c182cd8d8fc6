// Package app runs the local chart viewer: a chi server that serves the
// rendered page, the aggregates as JSON and the fleet gauges for Prometheus.
//
// The data is computed before New is called and never changes while the
// server runs, so handlers share it without locking.
//
// # Usage
//
//	viewer := app.New(cfg, doc, aggs, summary, logger)
//	if err := viewer.Run(ctx); err != nil {
//	    return err
//	}
//
// Run returns after ctx is cancelled and in-flight requests have drained,
// or as soon as the listener fails.
package app
