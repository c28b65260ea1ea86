package emulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/bashtool/bashast"
)

func TestSupportedKnowsRegisteredCommands(t *testing.T) {
	assert.True(t, Supported("grep"))
	assert.True(t, Supported("ls"))
	assert.False(t, Supported("systemctl"))
}

func TestDispatchNormalizesPython3(t *testing.T) {
	assert.False(t, Supported("python3"))
	result := Dispatch("python3", "python3 --version", []string{"--version"})
	assert.False(t, result.Supported)
}

func TestDispatchUnknownCommandReportsUnsupported(t *testing.T) {
	result := Dispatch("systemctl", "systemctl status", []string{"status"})
	assert.False(t, result.Supported)
	assert.Empty(t, result.Script)
}

func TestTranslateGrepBuildsMatchPipeline(t *testing.T) {
	result := Dispatch("grep", "grep foo", []string{"foo"})
	assert.True(t, result.Supported)
	assert.True(t, result.NeedsPowerShell)
	assert.Contains(t, result.Script, "-match")
	assert.Contains(t, result.Script, "foo")
}

func TestTranslateGrepMissingPatternFails(t *testing.T) {
	result := Dispatch("grep", "grep", nil)
	assert.True(t, result.Supported)
	assert.Contains(t, result.Script, "Write-Error")
}

func TestTranslateUniqConsecutiveOnlyComment(t *testing.T) {
	result := Dispatch("uniq", "uniq", nil)
	assert.True(t, result.Supported)
	assert.Contains(t, result.Script, "$prev")
	assert.Contains(t, result.Script, "$g[0]")
}

func TestTranslateUniqCountFlag(t *testing.T) {
	result := Dispatch("uniq", "uniq -c", []string{"-c"})
	assert.Contains(t, result.Script, "{0,7} {1}")
}

func TestTranslateSedSimpleSubstitution(t *testing.T) {
	result := Dispatch("sed", "sed s/foo/bar/", []string{"s/foo/bar/"})
	assert.True(t, result.Supported)
	assert.Contains(t, result.Script, "-replace")
	assert.Contains(t, result.Script, "foo")
	assert.Contains(t, result.Script, "bar")
}

func TestTranslateSedRejectsNonSubstituteScripts(t *testing.T) {
	result := Dispatch("sed", "sed 2d", []string{"2d"})
	assert.False(t, result.Supported)
}

func TestTranslateAwkRejectsCriticalConstructs(t *testing.T) {
	result := Dispatch("awk", `awk '{ gsub(/a/,"b"); print }'`, []string{`{ gsub(/a/,"b"); print }`})
	assert.False(t, result.Supported)
}

func TestTranslateAwkSimplePrintField(t *testing.T) {
	result := Dispatch("awk", "awk '{print $1}'", []string{"{print $1}"})
	assert.True(t, result.Supported)
	assert.Contains(t, result.Script, "$fld[0]")
}

func TestTranslateEchoRoundTrips(t *testing.T) {
	result := Dispatch("echo", "echo hello world", []string{"hello", "world"})
	assert.True(t, result.Supported)
}

func TestTranslateCutRequiresFieldsFlag(t *testing.T) {
	result := Dispatch("cut", "cut -d, -f1", []string{"-d,", "-f1"})
	assert.True(t, result.Supported)
	assert.Contains(t, result.Script, "$p[0]")
}

func TestTranslateCutMissingFieldsFails(t *testing.T) {
	result := Dispatch("cut", "cut -d,", []string{"-d,"})
	assert.Contains(t, result.Script, "Write-Error")
}

func TestTranslateDiffComparesTwoFiles(t *testing.T) {
	result := Dispatch("diff", "diff a.txt b.txt", []string{"a.txt", "b.txt"})
	assert.True(t, result.Supported)
	assert.Contains(t, result.Script, "Compare-Object")
	assert.Contains(t, result.Script, "a.txt")
	assert.Contains(t, result.Script, "b.txt")
}

func TestTranslateDiffRejectsWrongArgCount(t *testing.T) {
	result := Dispatch("diff", "diff a.txt", []string{"a.txt"})
	assert.False(t, result.Supported)
}

func TestTranslateSeqSingleArgIsLastOnly(t *testing.T) {
	result := Dispatch("seq", "seq 3", []string{"3"})
	assert.True(t, result.Supported)
	assert.Contains(t, result.Script, "$n = 1")
	assert.Contains(t, result.Script, "$n -le 3")
}

func TestTranslateSeqThreeArgsUsesIncrement(t *testing.T) {
	result := Dispatch("seq", "seq 1 2 9", []string{"1", "2", "9"})
	assert.True(t, result.Supported)
	assert.Contains(t, result.Script, "$n += 2")
}

func TestTranslateSeqRejectsZeroIncrement(t *testing.T) {
	result := Dispatch("seq", "seq 1 0 9", []string{"1", "0", "9"})
	assert.False(t, result.Supported)
}

// TestTranslateEchoQuotedArgHasNoLiteralQuotes exercises spec.md §8
// scenario 5 end to end: a quoted argument must not carry its enclosing
// quote characters through the parser into the emulated command.
func TestTranslateEchoQuotedArgHasNoLiteralQuotes(t *testing.T) {
	node, err := bashast.Parse(`echo "count=2"`)
	require.NoError(t, err)
	sc, ok := node.(bashast.SimpleCommand)
	require.True(t, ok)
	require.Equal(t, []string{"count=2"}, sc.Args)

	result := Dispatch(sc.Command, `echo "count=2"`, sc.Args)
	assert.True(t, result.Supported)
	assert.Contains(t, result.Script, "count=2")
	assert.NotContains(t, result.Script, `\"count=2\"`)
	assert.NotContains(t, result.Script, `"count=2"`)
}

// TestTranslateGrepQuotedPatternHasNoLiteralQuotes covers the same defect
// for a multi-word quoted grep pattern: the regex fed to -match must be the
// bare pattern, not the pattern wrapped in its original quote characters.
func TestTranslateGrepQuotedPatternHasNoLiteralQuotes(t *testing.T) {
	node, err := bashast.Parse(`grep "foo bar" file.txt`)
	require.NoError(t, err)
	sc, ok := node.(bashast.SimpleCommand)
	require.True(t, ok)
	require.Equal(t, []string{"foo bar", "file.txt"}, sc.Args)

	result := Dispatch(sc.Command, `grep "foo bar" file.txt`, sc.Args)
	assert.True(t, result.Supported)
	assert.Contains(t, result.Script, "foo bar")
	assert.NotContains(t, result.Script, `"foo bar"`)
}
