// Package preprocess implements the two-tier command preprocessor: pure
// string rewrites that are always safe to apply (this file and its
// siblings), and the pipeline-level substitutions that execute subcommands
// and materialize temp files (pipeline.go).
package preprocess

import (
	"regexp"
	"strings"
)

// CommandLevel runs the fixed-order, subprocess-free passes from spec.md
// §4.5: aliases, tilde, arithmetic, variable forms, then braces. None of
// these passes can fail outright — if a pass can't make sense of some
// fragment it leaves the text intact for a downstream shell to interpret.
type CommandLevel struct {
	aliases *AliasTable
	home    string
}

// NewCommandLevel builds a command-level preprocessor. home is the
// expansion target for a bare `~` (see ExpandTilde).
func NewCommandLevel(aliases *AliasTable, home string) *CommandLevel {
	if aliases == nil {
		aliases = NewAliasTable()
	}
	return &CommandLevel{aliases: aliases, home: home}
}

// Run applies every pass in order and returns the fully rewritten command
// string.
func (c *CommandLevel) Run(command string, env Env) string {
	s := c.aliases.ExpandAliases(command)
	s = ExpandTilde(s, c.home)
	effectiveEnv := withInlineAssignments(s, env)
	s = expandArithmeticExpansions(s, effectiveEnv)
	s = ExpandVariables(s, effectiveEnv)
	s = ExpandBraces(s)
	return s
}

// assignmentStmt matches a bare `NAME=value` statement between `;`
// separators, e.g. the `file=a.tar.gz` in `file=a.tar.gz; echo ${file%.*}`.
// export persistence beyond this single command is explicitly a no-op per
// spec.md §9, so these only feed expansion of the REST of this same
// command string, never a later invocation.
var assignmentStmt = regexp.MustCompile(`^\s*(?:export\s+)?([A-Za-z_][A-Za-z0-9_]*)=(\S*)\s*$`)

func withInlineAssignments(command string, base Env) Env {
	merged := make(Env, len(base)+2)
	for k, v := range base {
		merged[k] = v
	}
	for _, stmt := range strings.Split(command, ";") {
		m := assignmentStmt.FindStringSubmatch(stmt)
		if m == nil {
			continue
		}
		merged[m[1]] = strings.Trim(m[2], `'"`)
	}
	return merged
}

// expandArithmeticExpansions finds every balanced $((...)) span, expands
// any variables referenced inside first, evaluates the integer expression,
// and substitutes the result. A span that fails to evaluate (identifiers
// that survive expansion, division by zero, syntax errors) is left intact.
func expandArithmeticExpansions(s string, env Env) string {
	var b strings.Builder
	bareName := regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*\b`)
	i := 0
	for i < len(s) {
		if strings.HasPrefix(s[i:], "$((") {
			end, ok := findArithmeticClose(s, i+3)
			if ok {
				inner := s[i+3 : end]
				expandedInner := ExpandVariables(inner, env)
				// Inside $((...)) a bare name such as N reads variable N.
				expandedInner = bareName.ReplaceAllStringFunc(expandedInner, func(name string) string {
					if v, set := env[name]; set {
						return v
					}
					return name
				})
				if v, err := EvalArithmetic(expandedInner); err == nil {
					b.WriteString(itoa64(v))
					i = end + 2
					continue
				}
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// findArithmeticClose returns the index of the first `)` of the closing
// `))` for a $((  construct whose body starts at from, honoring nested
// parentheses within the arithmetic expression itself.
func findArithmeticClose(s string, from int) (int, bool) {
	depth := 0
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				if i+1 < len(s) && s[i+1] == ')' {
					return i, true
				}
				return 0, false
			}
			depth--
		}
	}
	return 0, false
}

func itoa64(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}
