package textnorm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Converter is the narrow collaborator interface for the optional external
// script-conversion tool (e.g. traditional/simplified normalization).
type Converter interface {
	Convert(ctx context.Context, text string) (string, error)
}

// ExecConverter shells out to a conversion binary that reads stdin and
// writes the converted text to stdout.
type ExecConverter struct {
	binary string
	args   []string

	// runner overrides process execution in tests.
	runner func(ctx context.Context, binary string, args []string, input string) (string, error)
}

// NewExecConverter builds a converter around the configured binary. Returns
// nil when binary is empty, which disables the conversion step.
func NewExecConverter(binary string, args []string) *ExecConverter {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil
	}
	return &ExecConverter{binary: binary, args: args}
}

// WithRunner sets a custom process runner (for testing).
func (c *ExecConverter) WithRunner(runner func(ctx context.Context, binary string, args []string, input string) (string, error)) {
	c.runner = runner
}

// Convert runs the external tool. Any failure (missing binary, non-zero
// exit) is returned to the caller, which treats it as a skip, not an abort.
func (c *ExecConverter) Convert(ctx context.Context, text string) (string, error) {
	if c.runner != nil {
		return c.runner(ctx, c.binary, c.args, text)
	}
	cmd := exec.CommandContext(ctx, c.binary, c.args...)
	cmd.Stdin = strings.NewReader(text)
	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", c.binary, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimRight(out.String(), "\n"), nil
}
