// Package http implements the viewer's HTTP handlers. Handlers only deal
// with request parsing and response formatting; the data they serve is
// computed before the server starts and read through FleetSource.
//
// # Routes
//
//	GET /                         rendered chart page (ServeDocument)
//	GET /api/aggregates           all yearly rows
//	GET /api/aggregates/{year}    one row, 404 when the year is outside the window
//	GET /api/summary              dataset summary
//	GET /api/health               {"status":"ok", ...}
//	GET /metrics                  Prometheus exposition (FleetMetrics)
//
// JSON responses go through go-chi/render. Errors use the APIError body
// from internal/errors.
package http
