// Command fleetchart charts the operating nuclear reactor fleet by year
// from the commissioning workbook.
package main

import (
	"errors"
	"log/slog"
	"os"

	apperrors "nuclearfleet/internal/errors"
	"nuclearfleet/internal/infrastructure"
)

func main() {
	err := Execute()
	if err != nil {
		logError(err)
	}
	_ = infrastructure.CloseLogFile()
	if err != nil {
		os.Exit(1)
	}
}

// logError reports a failed run with the error taxonomy when available
func logError(err error) {
	attrs := []any{slog.String("error", err.Error())}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		attrs = append(attrs, slog.String("error_type", string(appErr.Type)))
		for k, v := range appErr.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
	}
	slog.Error("fleetchart failed", attrs...)
}
