package gcloud

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// runCommand executes one invocation of the management CLI and returns its
// stdout. The invocation is bounded by the given timeout; a timeout kills
// the process and surfaces like any other command failure.
//
// Stderr is captured separately and folded into the returned error, since
// gcloud writes its diagnostics there and they are the only useful signal
// when a call fails.
func (c *Client) runCommand(ctx context.Context, timeout time.Duration, opName string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binaryPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s timed out after %s: %w", opName, timeout, ctx.Err())
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s failed with exit code %d: %s",
				opName, exitErr.ExitCode(), summarizeStderr(&stderr))
		}
		return nil, fmt.Errorf("%s failed to start: %w", opName, err)
	}

	return stdout.Bytes(), nil
}

// summarizeStderr trims the captured stderr for error messages. An empty
// capture still gets a placeholder so the wrapped error reads sensibly.
func summarizeStderr(stderr *bytes.Buffer) string {
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		return "(no stderr output)"
	}
	return msg
}
