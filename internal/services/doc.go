// Package services defines the shared error taxonomy for pipeline stages.
//
// Stage failures are tagged with sentinel markers (input, configuration,
// render, external tool, timeout) so callers can classify them without
// string matching. Wrap attaches stage and operation context to a failure;
// ExitCode maps a job outcome to the CLI exit convention (0 success,
// 1 completed with warnings, 2 fatal).
package services
