package executil

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests require a POSIX shell")
	}
}

func TestRun(t *testing.T) {
	requireShell(t)
	ctx := context.Background()
	runner := NewCommandRunner(nil)

	t.Run("captures stdout", func(t *testing.T) {
		result, err := runner.Run(ctx, "sh", []string{"-c", "echo hello"})
		require.NoError(t, err)
		assert.Equal(t, "hello\n", result.Stdout)
		assert.Equal(t, 0, result.ExitCode)
	})

	t.Run("captures stderr and exit code", func(t *testing.T) {
		result, err := runner.Run(ctx, "sh", []string{"-c", "echo oops >&2; exit 3"})
		require.Error(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "oops\n", result.Stderr)
		assert.Equal(t, 3, result.ExitCode)
	})

	t.Run("environment variables are passed through", func(t *testing.T) {
		result, err := runner.Run(ctx, "sh", []string{"-c", "echo $DEPLOY_REGION"},
			WithEnvVar("DEPLOY_REGION", "eu-west-1"))
		require.NoError(t, err)
		assert.Equal(t, "eu-west-1\n", result.Stdout)
	})

	t.Run("working directory is honored", func(t *testing.T) {
		dir := t.TempDir()
		result, err := runner.Run(ctx, "pwd", nil, WithWorkingDir(dir))
		require.NoError(t, err)
		assert.Contains(t, result.Stdout, dir)
	})

	t.Run("empty program is rejected", func(t *testing.T) {
		_, err := runner.Run(ctx, "", nil)
		require.Error(t, err)
	})

	t.Run("missing program reports exit code -1", func(t *testing.T) {
		result, err := runner.Run(ctx, "definitely-not-a-command-xyz", nil)
		require.Error(t, err)
		assert.Equal(t, -1, result.ExitCode)
	})

	t.Run("retries exhaust and surface the last error", func(t *testing.T) {
		start := time.Now()
		_, err := runner.Run(ctx, "sh", []string{"-c", "exit 1"},
			WithRetry(2, 10*time.Millisecond))
		require.Error(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})
}

func TestDryRunner(t *testing.T) {
	ctx := context.Background()
	runner := NewDryRunner(nil)

	result, err := runner.Run(ctx, "terraform", []string{"apply"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)

	result, err = runner.Run(ctx, "make", []string{"build"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)

	require.Len(t, runner.Calls, 2)
	assert.Equal(t, "terraform", runner.Calls[0].Program)
	assert.Equal(t, []string{"apply"}, runner.Calls[0].Args)
	assert.Equal(t, []string{"build"}, runner.Calls[1].Args)
}
