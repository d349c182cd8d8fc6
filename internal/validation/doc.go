// Package validation checks the files a run reads and writes before any
// work is done, so a wrong path fails fast with a FILE error.
package validation
