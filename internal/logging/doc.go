// Package logging constructs the slog loggers used across the pipeline.
//
// Two handler formats are supported: a compact console handler that prints
// key=value attributes with an optional component prefix, and a JSON handler
// for machine consumption. When the configured format is "console" but
// stdout is not a terminal, output switches to JSON so batch logs stay
// parseable.
package logging
