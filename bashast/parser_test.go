package bashast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleCommand(t *testing.T) {
	node, err := Parse("ls -la /home/claude")
	require.NoError(t, err)
	sc, ok := node.(SimpleCommand)
	require.True(t, ok)
	assert.Equal(t, "ls", sc.Command)
	assert.Equal(t, []string{"-la", "/home/claude"}, sc.Args)
}

func TestParseDoubleQuotedWordIsDequoted(t *testing.T) {
	node, err := Parse(`echo "hello world"`)
	require.NoError(t, err)
	sc, ok := node.(SimpleCommand)
	require.True(t, ok)
	assert.Equal(t, "echo", sc.Command)
	assert.Equal(t, []string{"hello world"}, sc.Args)
}

func TestParseSingleQuotedWordIsDequoted(t *testing.T) {
	node, err := Parse(`grep 'foo bar' file.txt`)
	require.NoError(t, err)
	sc, ok := node.(SimpleCommand)
	require.True(t, ok)
	assert.Equal(t, "grep", sc.Command)
	assert.Equal(t, []string{"foo bar", "file.txt"}, sc.Args)
}

func TestParseAdjacentQuotedSegmentsConcatenate(t *testing.T) {
	node, err := Parse(`echo "foo"'bar'baz`)
	require.NoError(t, err)
	sc, ok := node.(SimpleCommand)
	require.True(t, ok)
	assert.Equal(t, []string{"foobarbaz"}, sc.Args)
}

func TestParseEmptyQuotedWordIsEmptyArg(t *testing.T) {
	node, err := Parse(`mkdir "my dir" ""`)
	require.NoError(t, err)
	sc, ok := node.(SimpleCommand)
	require.True(t, ok)
	assert.Equal(t, []string{"my dir", ""}, sc.Args)
}

func TestParsePipeline(t *testing.T) {
	node, err := Parse("cat file.txt | grep foo | wc -l")
	require.NoError(t, err)
	pl, ok := node.(Pipeline)
	require.True(t, ok)
	assert.Len(t, pl.Commands, 3)
}

func TestParseAndOrChain(t *testing.T) {
	node, err := Parse("make && make test || echo failed")
	require.NoError(t, err)
	and, ok := node.(AndList)
	require.True(t, ok)
	assert.Equal(t, SimpleCommand{Command: "make"}, and.Left)
	_, ok = and.Right.(OrList)
	assert.True(t, ok)
}

func TestParseSequence(t *testing.T) {
	node, err := Parse("cd /tmp; ls")
	require.NoError(t, err)
	seq, ok := node.(Sequence)
	require.True(t, ok)
	assert.Len(t, seq.Commands, 2)
}

func TestParseRedirects(t *testing.T) {
	node, err := Parse("echo hi > out.txt 2>&1")
	require.NoError(t, err)
	sc := node.(SimpleCommand)
	require.Len(t, sc.Redirects, 2)
	assert.Equal(t, RedirOutWrite, sc.Redirects[0].Op)
	assert.Equal(t, RedirErrToOut, sc.Redirects[1].Op)
}

func TestParseSubshellAndGroup(t *testing.T) {
	node, err := Parse("(cd /tmp && ls)")
	require.NoError(t, err)
	_, ok := node.(Subshell)
	assert.True(t, ok)

	node, err = Parse("{ echo a; echo b; }")
	require.NoError(t, err)
	_, ok = node.(CommandGroup)
	assert.True(t, ok)
}

func TestParseBackground(t *testing.T) {
	node, err := Parse("sleep 5 &")
	require.NoError(t, err)
	_, ok := node.(Background)
	assert.True(t, ok)
}

func TestPipelineMinimumTwoElements(t *testing.T) {
	node, err := Parse("echo hi")
	require.NoError(t, err)
	_, ok := node.(Pipeline)
	assert.False(t, ok, "a single command must not be wrapped as a Pipeline")
}

func TestUnbalancedParensIsParseError(t *testing.T) {
	_, err := Parse("(echo hi")
	require.Error(t, err)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

// TestASTRoundTrip exercises spec.md §8's universal property: re-serializing
// an AST and re-parsing it yields an equal AST.
func TestASTRoundTrip(t *testing.T) {
	inputs := []string{
		"ls -la",
		"cat a.txt | grep foo | sort",
		"make && make test || echo failed",
		"cd /tmp; ls -la; echo done",
		"echo hi > out.txt",
		"sleep 1 &",
		"(cd /tmp && ls)",
		`grep "foo bar" file.txt`,
		`mkdir "my dir"`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first, err := Parse(in)
			require.NoError(t, err)

			second, err := Parse(Serialize(first))
			require.NoError(t, err)

			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("AST not stable across serialize/reparse (-first +second):\n%s", diff)
			}
		})
	}
}
