package oracle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecInvokerMissingBinary(t *testing.T) {
	inv := &ExecInvoker{Bin: "definitely-not-installed-anywhere", Model: "m"}
	_, err := inv.Invoke(context.Background(), "prompt", nil)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestExecInvokerArgvAndOutput(t *testing.T) {
	// echo prints the argv back, so the response is the flag layout itself.
	inv := &ExecInvoker{Bin: "echo", Model: "test-model"}
	out, err := inv.Invoke(context.Background(), "the prompt", []string{"/tmp/a.png", "/tmp/b.png"})
	require.NoError(t, err)
	require.Equal(t, "exec -m test-model -c model_reasoning_effort=low --skip-git-repo-check -i /tmp/a.png -i /tmp/b.png -- the prompt", out)
}

func TestExecInvokerEmptyOutput(t *testing.T) {
	inv := &ExecInvoker{Bin: "true", Model: "m"}
	_, err := inv.Invoke(context.Background(), "prompt", nil)
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestExecInvokerNonzeroExit(t *testing.T) {
	inv := &ExecInvoker{Bin: "false", Model: "m"}
	_, err := inv.Invoke(context.Background(), "prompt", nil)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnavailable)
	require.NotErrorIs(t, err, ErrEmptyResponse)
}
