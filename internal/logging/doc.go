// Package logging assembles structured slog loggers used across cutout.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so component code can automatically tag
// log lines with record IDs and correlation IDs. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
