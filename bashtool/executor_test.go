package bashtool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/diillson/bashtool/config"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	cfg := config.New(zap.NewNop())
	cfg.Load()
	cfg.Set("BASHTOOL_WORKSPACE_ROOT", t.TempDir())
	cfg.Set("BASHTOOL_TEST_MODE", "true")

	e, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	return e
}

func TestExecuteRejectsEmptyCommand(t *testing.T) {
	e := newTestExecutor(t)
	result := e.Execute(context.Background(), ToolInput{Command: "", Description: "noop"})
	assert.Equal(t, "Error: command parameter is required", result)
}

func TestExecuteRejectsDangerousCommand(t *testing.T) {
	e := newTestExecutor(t)
	result := e.Execute(context.Background(), ToolInput{Command: "format C:", Description: "oops"})
	assert.Contains(t, result, "Error: Security")
}

func TestExecuteRunsSimpleCommandInTestMode(t *testing.T) {
	e := newTestExecutor(t)
	result := e.Execute(context.Background(), ToolInput{Command: "ls -la", Description: "list files"})
	assert.Contains(t, result, "Exit code: 0")
}

func TestExecuteNestingTooDeepReported(t *testing.T) {
	cfg := config.New(zap.NewNop())
	cfg.Load()
	cfg.Set("BASHTOOL_WORKSPACE_ROOT", t.TempDir())
	cfg.Set("BASHTOOL_TEST_MODE", "true")
	cfg.Set("BASHTOOL_NESTING_LIMIT", "0")

	e, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	result := e.Execute(context.Background(), ToolInput{Command: "echo hello $(echo world)", Description: "substitution"})
	assert.Contains(t, result, "Exit code: 1")
	assert.Contains(t, result, "nesting limit of 0 exceeded")
}

func TestDefinitionSchema(t *testing.T) {
	def := Definition()
	assert.Equal(t, "bash_tool", def["name"])
	schema := def["input_schema"].(map[string]any)
	props := schema["properties"].(map[string]any)
	assert.Contains(t, props, "command")
	assert.Contains(t, props, "description")
}
