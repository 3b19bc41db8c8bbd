package oracle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single oracle invocation.
const DefaultTimeout = 120 * time.Second

var (
	// ErrUnavailable means the oracle binary is not on PATH.
	ErrUnavailable = errors.New("oracle: binary not found")

	// ErrEmptyResponse means the binary exited cleanly with no output.
	ErrEmptyResponse = errors.New("oracle: empty response")
)

// Invoker produces an advisory response for a prompt and a set of screenshot
// paths. Implementations must honor ctx cancellation.
type Invoker interface {
	Invoke(ctx context.Context, prompt string, imagePaths []string) (string, error)
}

// ExecInvoker shells out to an oracle CLI, attaching each screenshot with -i
// and passing the prompt as the final argument after --.
type ExecInvoker struct {
	// Bin is the binary name or path, resolved through PATH per call so the
	// oracle can be installed while the server is running.
	Bin string

	// Model selects the oracle model via -m.
	Model string

	// Timeout bounds the invocation; DefaultTimeout when zero.
	Timeout time.Duration
}

func (e *ExecInvoker) Invoke(ctx context.Context, prompt string, imagePaths []string) (string, error) {
	bin, err := exec.LookPath(e.Bin)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnavailable, e.Bin)
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"exec",
		"-m", e.Model,
		"-c", "model_reasoning_effort=low",
		"--skip-git-repo-check",
	}
	for _, p := range imagePaths {
		args = append(args, "-i", p)
	}
	args = append(args, "--", prompt)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("oracle: timed out after %s", timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("oracle: %s", msg)
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}
