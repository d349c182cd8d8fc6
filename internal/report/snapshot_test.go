package report

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileURL(t *testing.T) {
	dir := t.TempDir()
	u, err := FileURL(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file:///"), u)
	assert.True(t, strings.HasSuffix(u, "/index.html"), u)
}

func findChrome() string {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}

func TestSnapshot(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping headless browser test in short mode")
	}
	chrome := findChrome()
	if chrome == "" {
		t.Skip("no Chrome or Chromium binary on PATH")
	}

	doc, err := NewRenderer(DefaultOptions()).Render(sampleAggregates())
	require.NoError(t, err)

	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "index.html")
	require.NoError(t, doc.WriteFile(htmlPath))

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	pngPath := filepath.Join(dir, "chart.png")
	require.NoError(t, Snapshot(ctx, htmlPath, pngPath, SnapshotOptions{ExecPath: chrome}))

	data, err := os.ReadFile(pngPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\x89PNG"))
}
