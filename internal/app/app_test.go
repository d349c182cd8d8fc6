package app

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nuclearfleet/internal/config"
	"nuclearfleet/internal/report"
	"nuclearfleet/internal/shared/testutil"
	"nuclearfleet/pkg/contracts/domain"
)

func testAggregates() []domain.YearlyAggregate {
	var aggs []domain.YearlyAggregate
	for year := 1968; year <= 1972; year++ {
		a := domain.YearlyAggregate{
			Year:      year,
			Reference: time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		}
		if year >= 1970 {
			a.Count = year - 1968
			a.AverageAge = float64(year-1970) + 0.5
		}
		aggs = append(aggs, a)
	}
	return aggs
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 2 * time.Second
	cfg.Server.RateLimit.RPS = 0
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	aggs := testAggregates()

	doc, err := report.NewRenderer(report.DefaultOptions()).Render(aggs)
	require.NoError(t, err)

	summary := domain.FleetSummary{RecordsLoaded: 4, FirstYear: 1968, LastYear: 1972, PeakYear: 1972, PeakCount: 4}
	return New(cfg, doc, aggs, summary, logger)
}

func serve(t *testing.T, a *Application, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	a := newTestApp(t, testConfig())

	t.Run("chart page", func(t *testing.T) {
		rec := serve(t, a, "/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), `class="bar-hit"`)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("health", func(t *testing.T) {
		rec := serve(t, a, "/api/health")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("version", func(t *testing.T) {
		rec := serve(t, a, "/api/version")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"version":"1.0.0"`)
	})

	t.Run("aggregates", func(t *testing.T) {
		rec := serve(t, a, "/api/aggregates")
		require.Equal(t, http.StatusOK, rec.Code)

		var got []domain.YearlyAggregate
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 5)
	})

	t.Run("single year", func(t *testing.T) {
		rec := serve(t, a, "/api/aggregates/1971")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"reactor_count":3`)

		assert.Equal(t, http.StatusNotFound, serve(t, a, "/api/aggregates/1900").Code)
	})

	t.Run("summary", func(t *testing.T) {
		rec := serve(t, a, "/api/summary")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"peak_count":4`)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := serve(t, a, "/metrics")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `nuclearfleet_operating_reactors{year="1972"} 4`)
		assert.Contains(t, rec.Body.String(), `nuclearfleet_average_age_years{year="1971"} 1.5`)
	})

	t.Run("unknown path", func(t *testing.T) {
		rec := serve(t, a, "/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "NOT_FOUND")
	})
}

func TestRoutes_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit.RPS = 0.001
	cfg.Server.RateLimit.Burst = 1
	a := newTestApp(t, cfg)

	assert.Equal(t, http.StatusOK, serve(t, a, "/api/summary").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(t, a, "/api/summary").Code)
	assert.Equal(t, http.StatusOK, serve(t, a, "/").Code, "page is not limited")
}

func TestRun_ServesAndShutsDown(t *testing.T) {
	a := newTestApp(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	select {
	case <-a.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	require.NoError(t, a.StartErr())

	resp, err := http.Get(a.URL() + "/api/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_OpensBrowserWhenHealthy(t *testing.T) {
	cfg := testConfig()
	cfg.Server.OpenBrowser = true
	a := newTestApp(t, cfg)

	opened := make(chan string, 1)
	a.openBrowser = func(url string) error {
		opened <- url
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	select {
	case url := <-opened:
		assert.True(t, strings.HasPrefix(url, "http://127.0.0.1:"))
	case <-time.After(10 * time.Second):
		t.Fatal("browser was not opened")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testConfig()
	cfg.Server.Port = ln.Addr().(*net.TCPAddr).Port
	a := newTestApp(t, cfg)

	assert.NoError(t, a.StartErr(), "not started yet")

	err = a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")

	select {
	case <-a.Ready():
	case <-time.After(time.Second):
		t.Fatal("Ready stays open after a listen error")
	}
	assert.Equal(t, err, a.StartErr())

	assert.NotPanics(t, func() {
		err = a.Run(context.Background())
	})
	assert.EqualError(t, err, "viewer already started")
}

func TestURL(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Host = ""
	cfg.Server.Port = 8050
	a := newTestApp(t, cfg)

	assert.Equal(t, "http://localhost:8050", a.URL())
}

func TestBrowserOpenMethods(t *testing.T) {
	tests := []struct {
		goos      string
		wantFirst string
		wantLen   int
	}{
		{goos: "windows", wantFirst: "rundll32", wantLen: 3},
		{goos: "darwin", wantFirst: "open", wantLen: 1},
		{goos: "linux", wantFirst: "xdg-open", wantLen: 4},
		{goos: "freebsd", wantFirst: "xdg-open", wantLen: 4},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			methods := browserOpenMethods(tt.goos, "http://localhost:8050")
			require.Len(t, methods, tt.wantLen)
			assert.Equal(t, tt.wantFirst, methods[0].cmd)
			assert.Equal(t, "http://localhost:8050", methods[0].args[len(methods[0].args)-1])
		})
	}
}
