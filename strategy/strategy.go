// Package strategy implements the pipeline-level StrategyAnalyzer (spec.md
// §4.7): given the raw command string and its parsed AST, it walks the tree
// and decides, per node, which execution backend should run it.
package strategy

import (
	"regexp"
	"strings"

	"github.com/diillson/bashtool/bashast"
)

// Kind tags the chosen backend for a node.
type Kind int

const (
	// Single means: re-evaluate at the leaf (native .exe > inline emulator
	// script > Git Bash > heavy PowerShell emulator).
	Single Kind = iota
	// BashRequired means Git Bash is mandatory; Fail if unavailable.
	BashRequired
	// BashPreferred means Git Bash is tried first, falling back to
	// PowerShell emulation if Git Bash is unavailable.
	BashPreferred
	// Powershell means the PowerShell emulator handles the node directly.
	Powershell
	// Fail means no backend can execute the node (e.g. process
	// substitution with no Git Bash available).
	Fail
)

func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case BashRequired:
		return "bash-required"
	case BashPreferred:
		return "bash-preferred"
	case Powershell:
		return "powershell"
	case Fail:
		return "fail"
	}
	return "unknown"
}

// Capabilities is the subset of engine.Engine's capability map the analyzer
// needs to decide Fail vs BashRequired/BashPreferred.
type Capabilities interface {
	Available(name string) bool
}

// Decision is the outcome for one AST node.
type Decision struct {
	Kind   Kind
	Reason string
}

// bashPreferredCommands is the command set from spec.md §4.7 point 5 whose
// presence anywhere in a pipeline tips the whole pipeline to BashPreferred.
var bashPreferredCommands = map[string]bool{
	"find": true, "awk": true, "sed": true, "grep": true, "diff": true,
	"tar": true, "sort": true, "uniq": true, "split": true, "join": true,
	"comm": true, "paste": true, "xargs": true, "cut": true, "tr": true,
	"tee": true,
}

// bashUnsupportedOS is the Linux-specific-tooling blacklist from §4.7's
// Single re-evaluation: these never make sense routed to Git Bash on a
// Windows host, so a Single command naming one of them skips straight to
// the PowerShell emulator.
var bashUnsupportedOS = map[string]bool{
	"systemctl": true, "apt": true, "yum": true, "iptables": true,
	"mount": true, "ifconfig": true,
}

// forcedBashRequiredPatterns is the fixed table from §4.7 point 4 whose
// first group always forces BashRequired regardless of capability (the
// decision tree still downgrades to Fail if Git Bash truly isn't there —
// that happens in Analyze, not here).
var forcedBashRequiredPatterns = []*regexp.Regexp{
	regexp.MustCompile(`find\s+\S.*\|`),
	regexp.MustCompile(`\bxargs\b`),
	regexp.MustCompile(`\bawk\b.*\|`),
	regexp.MustCompile(`\|.*\bawk\b`),
	regexp.MustCompile(`\bsed\b.*\|`),
	regexp.MustCompile(`\|.*\bsed\b`),
	regexp.MustCompile(`\bcut\b.*\|`),
	regexp.MustCompile(`\btar\b.*\|`),
	regexp.MustCompile(`\bgzip\b.*\|`),
	regexp.MustCompile(`\bdiff\b.*\|`),
}

// simplePowershellPatterns match pipelines cheap enough to always run
// through PowerShell regardless of what else is available, e.g. `echo | base64`.
var simplePowershellPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*echo\b.*\|\s*base64\b\s*$`),
}

// textPipelinePatterns match two-stage text pipelines that prefer Git Bash
// but fall back cleanly to PowerShell.
var textPipelinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bsort\b.*\|.*\buniq\b`),
	regexp.MustCompile(`\bgrep\b.*\|.*\bsort\b`),
	regexp.MustCompile(`\bhead\b\s*\|`),
	regexp.MustCompile(`\btail\b\s*\|`),
	regexp.MustCompile(`\|\s*\bhead\b`),
	regexp.MustCompile(`\|\s*\btail\b`),
}

// Analyze decides the strategy for the whole command string given its
// parsed AST. commandString is the fully preprocessed command (post both
// preprocessor tiers) used for the pattern-table checks in point 4; ast is
// the same command's parsed tree used for the structural checks in points
// 1-3 and 6.
func Analyze(commandString string, ast bashast.Node, caps Capabilities) Decision {
	if containsProcessSubstitution(ast) {
		if caps.Available("bash") {
			return Decision{Kind: BashRequired, Reason: "process substitution requires Git Bash"}
		}
		return Decision{Kind: Fail, Reason: "process substitution requires Git Bash, which is unavailable"}
	}

	if hasStderrRedirection(ast) {
		if caps.Available("bash") {
			return Decision{Kind: BashRequired, Reason: "stderr redirection requires Git Bash"}
		}
		return Decision{Kind: Powershell, Reason: "stderr redirection emulated in PowerShell (Git Bash unavailable)"}
	}

	if hasChainOperator(ast) {
		if caps.Available("bash") {
			return Decision{Kind: BashRequired, Reason: "chain operators (&&, ||, ;) require Git Bash"}
		}
		return Decision{Kind: Powershell, Reason: "chain operators emulated in PowerShell (Git Bash unavailable)"}
	}

	for _, pat := range forcedBashRequiredPatterns {
		if pat.MatchString(commandString) {
			if caps.Available("bash") {
				return Decision{Kind: BashRequired, Reason: "matches fixed bash-required pattern: " + pat.String()}
			}
			return Decision{Kind: Fail, Reason: "requires Git Bash, which is unavailable"}
		}
	}
	for _, pat := range textPipelinePatterns {
		if pat.MatchString(commandString) {
			return Decision{Kind: BashPreferred, Reason: "multi-stage text pipeline"}
		}
	}
	for _, pat := range simplePowershellPatterns {
		if pat.MatchString(commandString) {
			return Decision{Kind: Powershell, Reason: "simple pipeline"}
		}
	}

	if pipelineHasBashPreferredCommand(ast) {
		return Decision{Kind: BashPreferred, Reason: "pipeline contains a bash-preferred command"}
	}
	if _, isPipeline := ast.(bashast.Pipeline); isPipeline {
		return Decision{Kind: Powershell, Reason: "pipeline with no bash-preferred command"}
	}

	return Decision{Kind: Single, Reason: "single command"}
}

// LeafStrategy re-evaluates a Single decision for one simple command,
// picking among native/.exe, inline emulator script, Git Bash, or heavy
// PowerShell emulator, per §4.7's last paragraph.
type LeafStrategy int

const (
	LeafNative LeafStrategy = iota
	LeafInlineEmulator
	LeafGitBash
	LeafPowershellHeavy
	LeafFail
)

// ResolveLeaf decides how a single simple command should run. hasNative
// reports whether a native .exe for cmd is on PATH; isInlineCapable reports
// whether the emulator has a short (<~20 line) script for it.
func ResolveLeaf(cmd string, hasNative, isInlineCapable bool, caps Capabilities) LeafStrategy {
	if hasNative {
		return LeafNative
	}
	if isInlineCapable {
		return LeafInlineEmulator
	}
	if !bashUnsupportedOS[strings.ToLower(cmd)] && caps.Available("bash") {
		return LeafGitBash
	}
	return LeafPowershellHeavy
}

func containsProcessSubstitution(n bashast.Node) bool {
	found := false
	bashast.Walk(n, func(node bashast.Node) bool {
		if _, ok := node.(bashast.ProcessSubstitution); ok {
			found = true
			return false
		}
		return true
	})
	return found
}

func hasStderrRedirection(n bashast.Node) bool {
	found := false
	bashast.Walk(n, func(node bashast.Node) bool {
		if sc, ok := node.(bashast.SimpleCommand); ok {
			for _, r := range sc.Redirects {
				if r.Op == bashast.RedirErrWrite || r.Op == bashast.RedirErrToOut || r.Op == bashast.RedirBoth {
					found = true
					return false
				}
			}
		}
		return true
	})
	return found
}

func hasChainOperator(n bashast.Node) bool {
	switch n.(type) {
	case bashast.AndList, bashast.OrList, bashast.Sequence:
		return true
	}
	return false
}

func pipelineHasBashPreferredCommand(n bashast.Node) bool {
	pl, ok := n.(bashast.Pipeline)
	if !ok {
		return false
	}
	for _, c := range pl.Commands {
		if sc, ok := c.(bashast.SimpleCommand); ok && bashPreferredCommands[strings.ToLower(sc.Command)] {
			return true
		}
	}
	return false
}
