package engine

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/diillson/bashtool/config"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.New(zap.NewNop())
	cfg.Load()
	e, err := New(t.TempDir(), cfg, zap.NewNop(), true)
	require.NoError(t, err)
	return e
}

func TestTestModeNeverSpawns(t *testing.T) {
	e := newTestEngine(t)
	assert.True(t, e.Available("python"))
	assert.True(t, e.Available("bash"))
	assert.True(t, e.Available("grep"))

	result := e.ExecuteCmd(context.Background(), "dir")
	assert.Equal(t, 0, result.ReturnCode)
	assert.Contains(t, result.Stdout, "dir")
}

func TestStatsCountPerMethod(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.ExecuteCmd(ctx, "echo hi")
	e.ExecutePowershell(ctx, "Write-Output hi")
	e.ExecutePowershell(ctx, "Write-Output bye")

	stats := e.GetStats()
	assert.EqualValues(t, 1, stats["cmd"])
	assert.EqualValues(t, 2, stats["powershell"])
	assert.EqualValues(t, 3, stats["total"])
}

func TestWinToGitBashPath(t *testing.T) {
	assert.Equal(t, "/c/Users/claude/a.txt", winToGitBashPath(`C:\Users\claude\a.txt`))
}

func TestRunMarksDeadlineExceededAsTimedOut(t *testing.T) {
	e := newTestEngine(t)
	e.testMode = false
	// A zero-second bound expires before exec.CommandContext ever starts the
	// process, so Run returns ctx.Err() == DeadlineExceeded deterministically
	// regardless of which binary resolves on the host.
	result := e.run(context.Background(), "cmd", 0, lookupAnyExecutable(t), nil, nil)
	assert.True(t, result.TimedOut)
	assert.Equal(t, 0, result.TimeoutSeconds)
}

// lookupAnyExecutable resolves a binary guaranteed to exist on any host this
// test runs on, so the timeout assertion doesn't depend on OS-specific
// shells like cmd.exe or powershell.exe.
func lookupAnyExecutable(t *testing.T) string {
	t.Helper()
	p, err := exec.LookPath(os.Args[0])
	if err != nil {
		t.Skip("could not resolve test binary's own path")
	}
	return p
}
