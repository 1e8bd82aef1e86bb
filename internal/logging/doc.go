// Package logging assembles structured slog loggers and formatting helpers
// used across Blackspot.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes attr helpers so scan code tags log lines with run IDs,
// item keys, and decisions in a uniform shape. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
