// Package logging wires slog for the service: JSON to stdout for log
// aggregation, with ERROR+ records mirrored into the database by PGHandler.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs the baseline JSON logger. main swaps in the multi-handler
// once the database connection exists.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
