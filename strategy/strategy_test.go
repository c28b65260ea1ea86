package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/bashtool/bashast"
)

type fakeCaps struct {
	available map[string]bool
}

func (f fakeCaps) Available(name string) bool { return f.available[name] }

func parse(t *testing.T, command string) bashast.Node {
	t.Helper()
	n, err := bashast.Parse(command)
	require.NoError(t, err)
	return n
}

func TestAnalyzeSingleCommand(t *testing.T) {
	ast := parse(t, "ls -la")
	d := Analyze("ls -la", ast, fakeCaps{})
	assert.Equal(t, Single, d.Kind)
}

func TestAnalyzeChainOperatorRequiresBashWhenAvailable(t *testing.T) {
	ast := parse(t, "echo hi && echo bye")
	d := Analyze("echo hi && echo bye", ast, fakeCaps{available: map[string]bool{"bash": true}})
	assert.Equal(t, BashRequired, d.Kind)
}

func TestAnalyzeChainOperatorFallsBackToPowershell(t *testing.T) {
	ast := parse(t, "echo hi && echo bye")
	d := Analyze("echo hi && echo bye", ast, fakeCaps{})
	assert.Equal(t, Powershell, d.Kind)
}

func TestAnalyzePipelineWithBashPreferredCommand(t *testing.T) {
	ast := parse(t, "cat file.txt | grep foo")
	d := Analyze("cat file.txt | grep foo", ast, fakeCaps{})
	assert.Equal(t, BashPreferred, d.Kind)
}

func TestAnalyzePlainPipelineGoesToPowershell(t *testing.T) {
	ast := parse(t, "ls | wc")
	d := Analyze("ls | wc", ast, fakeCaps{})
	assert.Equal(t, Powershell, d.Kind)
}

func TestAnalyzeForcedBashRequiredPattern(t *testing.T) {
	ast := parse(t, "find . -name '*.go' | xargs grep foo")
	d := Analyze("find . -name '*.go' | xargs grep foo", ast, fakeCaps{available: map[string]bool{"bash": true}})
	assert.Equal(t, BashRequired, d.Kind)
}

func TestAnalyzeProcessSubstitutionWithoutBashFails(t *testing.T) {
	ast := bashast.ProcessSubstitution{Direction: bashast.ProcSubIn, Command: bashast.SimpleCommand{Command: "echo", Args: []string{"hi"}}}
	d := Analyze("diff <(echo hi) b.txt", ast, fakeCaps{})
	assert.Equal(t, Fail, d.Kind)
}

func TestResolveLeafPrefersNative(t *testing.T) {
	assert.Equal(t, LeafNative, ResolveLeaf("python", true, true, fakeCaps{}))
}

func TestResolveLeafFallsBackToInlineEmulator(t *testing.T) {
	assert.Equal(t, LeafInlineEmulator, ResolveLeaf("ls", false, true, fakeCaps{}))
}

func TestResolveLeafUnsupportedOSSkipsBashForPowershell(t *testing.T) {
	assert.Equal(t, LeafPowershellHeavy, ResolveLeaf("systemctl", false, false, fakeCaps{available: map[string]bool{"bash": true}}))
}

func TestResolveLeafGitBashWhenAvailable(t *testing.T) {
	assert.Equal(t, LeafGitBash, ResolveLeaf("perl", false, false, fakeCaps{available: map[string]bool{"bash": true}}))
}
