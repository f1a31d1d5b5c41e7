package identity

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// defaultExecTimeout bounds each external generator invocation.
const defaultExecTimeout = 15 * time.Second

// ExecSource runs external one-shot generator commands and takes their
// trimmed stdout as the value. It exists for deployments that keep their
// own generator scripts; most setups use [Generator] instead.
type ExecSource struct {
	// MacCommand, SerialCommand and ArgsCommand are invoked through the
	// platform shell; each must print exactly one value to stdout.
	MacCommand    string
	SerialCommand string
	ArgsCommand   string

	// Timeout bounds each invocation. Zero means defaultExecTimeout.
	Timeout time.Duration
}

// NextMacAddress implements Source.
func (s *ExecSource) NextMacAddress(ctx context.Context) (string, error) {
	return s.run(ctx, s.MacCommand, "mac address")
}

// NextSerial implements Source.
func (s *ExecSource) NextSerial(ctx context.Context) (string, error) {
	return s.run(ctx, s.SerialCommand, "disk serial")
}

// NextArgsBlock implements Source.
func (s *ExecSource) NextArgsBlock(ctx context.Context) (string, error) {
	return s.run(ctx, s.ArgsCommand, "args block")
}

func (s *ExecSource) run(ctx context.Context, command, what string) (string, error) {
	if command == "" {
		return "", fmt.Errorf("no generator command configured for %s", what)
	}

	timeout := s.Timeout
	if timeout == 0 {
		timeout = defaultExecTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(runCtx, "sh", "-c", command).Output()
	if err != nil {
		return "", fmt.Errorf("%s generator failed: %w", what, err)
	}

	value := strings.TrimSpace(string(out))
	if value == "" {
		return "", fmt.Errorf("%s generator produced no output within %v", what, timeout)
	}
	return value, nil
}
