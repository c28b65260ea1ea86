package bashast

// NodeKind tags the concrete type of a Node without needing a type switch at
// every call site.
type NodeKind int

const (
	KindSimpleCommand NodeKind = iota
	KindPipeline
	KindAndList
	KindOrList
	KindSequence
	KindSubshell
	KindCommandGroup
	KindBackground
	KindProcessSubstitution
)

// Node is implemented by every AST case. The AST is immutable once parsed.
type Node interface {
	Kind() NodeKind
}

// RedirectOp enumerates the supported redirection operators.
type RedirectOp int

const (
	RedirOutWrite RedirectOp = iota
	RedirOutAppend
	RedirIn
	RedirErrWrite
	RedirErrToOut
	RedirBoth
)

// Redirect attaches to a SimpleCommand; it is never a standalone AST node.
type Redirect struct {
	FD     *int
	Op     RedirectOp
	Target string
}

// SimpleCommand is the leaf of the AST: one word list plus any redirects.
type SimpleCommand struct {
	Command   string
	Args      []string
	Redirects []Redirect
}

func (SimpleCommand) Kind() NodeKind { return KindSimpleCommand }

// Pipeline chains two or more commands left to right with `|`.
type Pipeline struct {
	Commands []Node
}

func (Pipeline) Kind() NodeKind { return KindPipeline }

// AndList is `left && right`; right-associative in construction, evaluated
// left to right.
type AndList struct {
	Left, Right Node
}

func (AndList) Kind() NodeKind { return KindAndList }

// OrList is `left || right`.
type OrList struct {
	Left, Right Node
}

func (OrList) Kind() NodeKind { return KindOrList }

// Sequence is a `;`-separated list of commands.
type Sequence struct {
	Commands []Node
}

func (Sequence) Kind() NodeKind { return KindSequence }

// Subshell is `(command)`.
type Subshell struct {
	Command Node
}

func (Subshell) Kind() NodeKind { return KindSubshell }

// CommandGroup is `{ command; }`.
type CommandGroup struct {
	Command Node
}

func (CommandGroup) Kind() NodeKind { return KindCommandGroup }

// Background is `command &`.
type Background struct {
	Command Node
}

func (Background) Kind() NodeKind { return KindBackground }

// ProcSubDirection distinguishes `<(cmd)` from `>(cmd)`.
type ProcSubDirection int

const (
	ProcSubIn ProcSubDirection = iota
	ProcSubOut
)

// ProcessSubstitution represents `<(cmd)`/`>(cmd)` left unresolved by the
// pipeline-level preprocessor (for example because the nesting limit was
// hit, or the construct appears nested inside another unexpanded one).
type ProcessSubstitution struct {
	Direction ProcSubDirection
	Command   Node
}

func (ProcessSubstitution) Kind() NodeKind { return KindProcessSubstitution }
