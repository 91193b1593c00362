package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInput marks malformed or unrecognized input documents (transcripts,
	// reference scripts, persisted EDLs).
	ErrInput = errors.New("input error")
	// ErrConfiguration marks option values outside their valid range or a
	// malformed configuration file.
	ErrConfiguration = errors.New("configuration error")
	// ErrRender marks failures of the render stage: missing engine, probe
	// failure, or a non-zero render exit.
	ErrRender = errors.New("render error")
	// ErrExternalTool marks unexpected failures of collaborator binaries.
	ErrExternalTool = errors.New("external tool error")
	// ErrTimeout marks an external invocation that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
)

// CLI exit codes.
const (
	ExitOK       = 0
	ExitWarnings = 1
	ExitFailure  = 2
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a job outcome to the process exit code. A fatal error always
// wins; otherwise outstanding warnings demote success to ExitWarnings.
func ExitCode(err error, warningCount int) int {
	if err != nil {
		return ExitFailure
	}
	if warningCount > 0 {
		return ExitWarnings
	}
	return ExitOK
}

// IsFatalBeforeProcessing reports whether the error should abort the job
// before any stage output is produced.
func IsFatalBeforeProcessing(err error) bool {
	return errors.Is(err, ErrInput) || errors.Is(err, ErrConfiguration)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
