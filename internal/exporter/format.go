package exporter

import (
	"fmt"
	"time"
)

// dateLayout is used for every date column
const dateLayout = "2006-01-02"

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	// 13.4 is written as 13.40 so columns line up in spreadsheets
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an integer value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatDate formats an optional date; missing dates become empty cells
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
