package bashtool

import (
	"fmt"
	"strings"

	"github.com/diillson/bashtool/bashast"
	"github.com/diillson/bashtool/emulator"
)

// buildPowershellScript recursively translates ast into a single PowerShell
// script, used when the strategy analyzer decides Powershell (or
// BashPreferred falls back because Git Bash is unavailable). A leaf command
// the emulator can't express makes the whole translation fail, per §4.6's
// "never silently wrong" failure policy — the caller reports an
// unsupported-construct error instead of running a partial script.
func buildPowershellScript(n bashast.Node) (string, bool) {
	switch v := n.(type) {
	case bashast.SimpleCommand:
		result := emulator.Dispatch(v.Command, bashast.Serialize(v), v.Args)
		if !result.Supported {
			return "", false
		}
		return result.Script, true

	case bashast.Pipeline:
		parts := make([]string, 0, len(v.Commands))
		for _, c := range v.Commands {
			s, ok := buildPowershellScript(c)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " | "), true

	case bashast.AndList:
		l, ok := buildPowershellScript(v.Left)
		if !ok {
			return "", false
		}
		r, ok := buildPowershellScript(v.Right)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s; if ($?) { %s }", l, r), true

	case bashast.OrList:
		l, ok := buildPowershellScript(v.Left)
		if !ok {
			return "", false
		}
		r, ok := buildPowershellScript(v.Right)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s; if (-not $?) { %s }", l, r), true

	case bashast.Sequence:
		parts := make([]string, 0, len(v.Commands))
		for _, c := range v.Commands {
			s, ok := buildPowershellScript(c)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, "; "), true

	case bashast.Subshell:
		inner, ok := buildPowershellScript(v.Command)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("& { %s }", inner), true

	case bashast.CommandGroup:
		inner, ok := buildPowershellScript(v.Command)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("& { %s }", inner), true

	case bashast.Background:
		// The engine awaits every invocation synchronously (spec.md §5), so
		// a backgrounded command just runs in the foreground like any other.
		return buildPowershellScript(v.Command)

	default:
		return "", false
	}
}
