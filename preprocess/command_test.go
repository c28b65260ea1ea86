package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandLevelExpandsAliasTildeAndVariable(t *testing.T) {
	c := NewCommandLevel(NewAliasTable(), "/c/Users/claude")
	env := Env{"NAME": "world"}

	out := c.Run("ll ~/$NAME", env)
	assert.Equal(t, "ls -la /c/Users/claude/world", out)
}

func TestCommandLevelArithmeticBeforeVariable(t *testing.T) {
	c := NewCommandLevel(NewAliasTable(), "/home/claude")
	env := Env{"N": "3"}

	out := c.Run(`echo $((N+1))`, env)
	assert.Equal(t, "echo 4", out)
}

func TestCommandLevelUnsetVariableLeftIntact(t *testing.T) {
	c := NewCommandLevel(NewAliasTable(), "/home/claude")
	out := c.Run("echo $MISSING", Env{})
	assert.Equal(t, "echo $MISSING", out)
}

func TestCommandLevelBraceExpansion(t *testing.T) {
	c := NewCommandLevel(NewAliasTable(), "/home/claude")
	out := c.Run("echo file{1..3}.txt", Env{})
	assert.Equal(t, "echo file1.txt file2.txt file3.txt", out)
}

func TestExpandVariablesDefaultForm(t *testing.T) {
	out := ExpandVariables("echo ${NAME:-guest}", Env{})
	assert.Equal(t, "echo guest", out)
}

func TestExpandVariablesLength(t *testing.T) {
	out := ExpandVariables("echo ${#NAME}", Env{"NAME": "claude"})
	assert.Equal(t, "echo 6", out)
}

func TestExpandVariablesCaseForms(t *testing.T) {
	assert.Equal(t, "echo WORLD", ExpandVariables("echo ${NAME^^}", Env{"NAME": "world"}))
	assert.Equal(t, "echo world", ExpandVariables("echo ${NAME,,}", Env{"NAME": "WORLD"}))
}
