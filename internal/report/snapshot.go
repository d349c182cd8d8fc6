package report

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"nuclearfleet/internal/config"
	apperrors "nuclearfleet/internal/errors"
)

// SnapshotOptions configures the headless browser capture
type SnapshotOptions struct {
	// Width and Height size the browser window in CSS pixels
	Width  int
	Height int

	Timeout time.Duration

	// ExecPath overrides the Chrome binary lookup
	ExecPath string

	Logger *slog.Logger
}

// DefaultSnapshotOptions leaves room around the default chart size
func DefaultSnapshotOptions() SnapshotOptions {
	return SnapshotOptions{
		Width:   1400,
		Height:  1000,
		Timeout: 60 * time.Second,
	}
}

// Snapshot opens the written chart page in headless Chrome and saves a PNG
// screenshot of the full page to pngPath.
func Snapshot(ctx context.Context, htmlPath, pngPath string, opts SnapshotOptions) error {
	def := DefaultSnapshotOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pageURL, err := FileURL(htmlPath)
	if err != nil {
		return apperrors.NewFileError("failed to resolve chart path", err).
			WithContext("path", htmlPath)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.WindowSize(opts.Width, opts.Height),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, opts.Timeout)
	defer cancelTimeout()

	logger.Info("Capturing chart snapshot",
		slog.String("url", pageURL),
		slog.String("png_path", pngPath))

	var png []byte
	err = chromedp.Run(taskCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("#chart svg", chromedp.ByQuery),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return apperrors.NewRenderError("headless browser capture failed", err).
			WithContext("url", pageURL)
	}

	if err := config.EnsureDir(pngPath); err != nil {
		return apperrors.NewFileError("failed to create snapshot directory", err).
			WithContext("path", pngPath)
	}
	if err := os.WriteFile(pngPath, png, 0644); err != nil {
		return apperrors.NewFileError("failed to write snapshot", err).
			WithContext("path", pngPath)
	}

	logger.Info("Snapshot saved",
		slog.String("png_path", pngPath),
		slog.Int("bytes", len(png)))
	return nil
}

// FileURL turns a local path into an absolute file:// URL
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String(), nil
}
