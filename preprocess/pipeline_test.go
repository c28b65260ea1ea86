package preprocess

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoRunner(t *testing.T) SubRunner {
	t.Helper()
	return func(ctx context.Context, command string, nestingLevel int) (string, error) {
		return strings.TrimPrefix(command, "echo ") + "\n", nil
	}
}

func TestCommandSubstitutionSplicesStdout(t *testing.T) {
	p := NewPipelineLevel(t.TempDir(), 8, echoRunner(t))
	result, err := p.Run(context.Background(), `echo hello $(echo world)`, 0)
	require.NoError(t, err)
	assert.Equal(t, "echo hello world", result.Command)
}

func TestCommandSubstitutionSkipsArithmetic(t *testing.T) {
	p := NewPipelineLevel(t.TempDir(), 8, echoRunner(t))
	result, err := p.Run(context.Background(), `echo $((1+2))`, 0)
	require.NoError(t, err)
	assert.Equal(t, "echo $((1+2))", result.Command)
}

func TestCommandSubstitutionNestingLimit(t *testing.T) {
	deepRunner := func(ctx context.Context, command string, nestingLevel int) (string, error) {
		return "x\n", nil
	}
	p := NewPipelineLevel(t.TempDir(), 1, deepRunner)
	_, err := p.Run(context.Background(), `echo $(echo inner)`, 1)
	require.Error(t, err)
	var nestErr *ErrNestingTooDeep
	assert.ErrorAs(t, err, &nestErr)
}

func TestHeredocMaterializesTempFile(t *testing.T) {
	p := NewPipelineLevel(t.TempDir(), 8, nil)
	command := "cat <<EOF\nline one\nline two\nEOF"
	result, err := p.Run(context.Background(), command, 0)
	require.NoError(t, err)
	require.Len(t, result.TempFiles, 1)

	data, err := os.ReadFile(result.TempFiles[0])
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(data))
	assert.True(t, strings.HasPrefix(result.Command, "cat < "))
}

func TestHeredocDashStripsLeadingTabs(t *testing.T) {
	p := NewPipelineLevel(t.TempDir(), 8, nil)
	command := "cat <<-EOF\n\t\tindented\nEOF"
	result, err := p.Run(context.Background(), command, 0)
	require.NoError(t, err)
	require.Len(t, result.TempFiles, 1)

	data, err := os.ReadFile(result.TempFiles[0])
	require.NoError(t, err)
	assert.Equal(t, "indented\n", string(data))
}

func TestProcessSubstitutionInputSubstitutesTempFile(t *testing.T) {
	p := NewPipelineLevel(t.TempDir(), 8, echoRunner(t))
	result, err := p.Run(context.Background(), `diff <(echo one) <(echo two)`, 0)
	require.NoError(t, err)
	require.Len(t, result.TempFiles, 2)
	assert.False(t, strings.Contains(result.Command, "<("))

	data, err := os.ReadFile(result.TempFiles[0])
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(data))
}

func TestProcessSubstitutionOutputQueuesPostTask(t *testing.T) {
	p := NewPipelineLevel(t.TempDir(), 8, echoRunner(t))
	result, tasks, err := p.RunWithPostTasks(context.Background(), `tee >(wc -l)`, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "wc -l", tasks[0].Command)
	assert.Contains(t, result.Command, tasks[0].OutputFile)
}
