// Package shared holds helpers used across the fleet chart packages that do
// not belong to any single stage of the pipeline.
//
// # Test Utilities
//
// The testutil subpackage provides a buffering slog.Handler and assertion
// helpers so tests can check what the loader, renderer and viewer logged:
//
//	logger, handler := testutil.NewTestLogger(t)
//	records, err := dataprocessing.ParseFile(path, dataprocessing.ParseOptions{Logger: logger})
//	testutil.AssertLogAttr(t, handler, "total_records", int64(4))
//
// This package should only contain generic helpers with no domain logic and
// no dependencies on other internal packages.
package shared
