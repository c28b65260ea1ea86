package emulator

import (
	"fmt"
	"strconv"
	"strings"
)

func registerSysOps() {
	register([]string{"echo"}, translateEcho)
	register([]string{"env", "printenv"}, translateEnv)
	register([]string{"export"}, translateExport)
	register([]string{"whoami"}, translateWhoami)
	register([]string{"hostname"}, translateHostname)
	register([]string{"date"}, translateDate)
	register([]string{"sleep"}, translateSleep)
	register([]string{"timeout"}, translateTimeout)
	register([]string{"kill"}, translateKill)
	register([]string{"ps"}, translatePs)
	register([]string{"which"}, translateWhich)
	register([]string{"true"}, translateTrue)
	register([]string{"false"}, translateFalse)
	register([]string{"watch"}, translateWatch)
	register([]string{"yes"}, translateYes)
}

func translateEcho(raw string, args []string) Result {
	noNewline := false
	words := args
	for len(words) > 0 && words[0] == "-n" {
		noNewline = true
		words = words[1:]
	}
	text := strings.Join(words, " ")
	if noNewline {
		return ok(fmt.Sprintf(`Write-Host -NoNewline %s`, psQuote(text)))
	}
	return ok(fmt.Sprintf(`Write-Output %s`, psQuote(text)))
}

func translateEnv(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) == 0 {
		return ok(`Get-ChildItem Env: | ForEach-Object { "{0}={1}" -f $_.Name, $_.Value }`)
	}
	var parts []string
	for _, name := range pos {
		parts = append(parts, fmt.Sprintf(`[Environment]::GetEnvironmentVariable(%s)`, psQuote(name)))
	}
	return ok(strings.Join(parts, "; "))
}

// translateExport is a no-op beyond the single command per spec.md §9 (no
// cross-invocation persistence); it still sets the variable for the rest
// of this PowerShell session so later commands in the same script see it.
func translateExport(raw string, args []string) Result {
	pos := positional(args)
	var parts []string
	for _, a := range pos {
		kv := strings.SplitN(a, "=", 2)
		if len(kv) != 2 {
			continue
		}
		parts = append(parts, fmt.Sprintf(`$env:%s = %s`, kv[0], psQuote(kv[1])))
	}
	if len(parts) == 0 {
		return ok(`$null`)
	}
	return ok(strings.Join(parts, "; "))
}

func translateWhoami(raw string, args []string) Result {
	return ok(`[Environment]::UserName`)
}

func translateHostname(raw string, args []string) Result {
	return ok(`[Environment]::MachineName`)
}

func translateDate(raw string, args []string) Result {
	if len(args) > 0 && strings.HasPrefix(args[0], "+") {
		format := strftimeToDotnet(args[0][1:])
		return ok(fmt.Sprintf(`Get-Date -Format %s`, psQuote(format)))
	}
	return ok(`Get-Date`)
}

// strftimeToDotnet converts the common subset of strftime directives used
// by callers of `date +FMT` into .NET custom date/time format specifiers.
func strftimeToDotnet(fmtStr string) string {
	r := strings.NewReplacer(
		"%Y", "yyyy", "%m", "MM", "%d", "dd",
		"%H", "HH", "%M", "mm", "%S", "ss",
		"%%", "%",
	)
	return r.Replace(fmtStr)
}

func translateSleep(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) == 0 {
		return failure("sleep: missing operand")
	}
	secs, err := strconv.ParseFloat(strings.TrimRight(pos[0], "smhd"), 64)
	if err != nil {
		return failure("sleep: invalid duration " + pos[0])
	}
	return ok(fmt.Sprintf(`Start-Sleep -Seconds %g`, secs))
}

// translateTimeout starts the command as a job and waits with -Timeout,
// killing and returning 124 on expiry, per §4.6.
func translateTimeout(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) < 2 {
		return failure("timeout: missing duration or command")
	}
	secs, err := strconv.Atoi(strings.TrimRight(pos[0], "smhd"))
	if err != nil {
		return failure("timeout: invalid duration " + pos[0])
	}
	innerCmd := strings.Join(pos[1:], " ")
	return ok(fmt.Sprintf(
		`$job = Start-Job -ScriptBlock { powershell -NoProfile -Command %s }; `+
			`if (Wait-Job $job -Timeout %d) { Receive-Job $job; Remove-Job $job } else { Stop-Job $job; Remove-Job $job; exit 124 }`,
		psQuote(innerCmd), secs))
}

func translateKill(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) == 0 {
		return failure("kill: missing pid")
	}
	force := hasFlag(args, '9', "") || hasFlag(args, '9', "-KILL")
	flag := ""
	if force {
		flag = "-Force"
	}
	var parts []string
	for _, p := range pos {
		parts = append(parts, fmt.Sprintf(`Stop-Process -Id %s %s`, p, flag))
	}
	return ok(strings.Join(parts, "; "))
}

func translatePs(raw string, args []string) Result {
	return ok(`Get-Process | ForEach-Object { "{0,7} {1}" -f $_.Id, $_.ProcessName }`)
}

func translateWhich(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) == 0 {
		return failure("which: missing operand")
	}
	return ok(fmt.Sprintf(`(Get-Command %s -ErrorAction SilentlyContinue).Source`, psQuote(pos[0])))
}

func translateTrue(raw string, args []string) Result  { return ok(`exit 0`) }
func translateFalse(raw string, args []string) Result { return ok(`exit 1`) }

// translateWatch is intentionally unsupported: spec.md scopes out job
// control beyond best-effort, and a true `watch` needs an interactive
// terminal loop the capture_output-based engine cannot represent.
func translateWatch(raw string, args []string) Result {
	return Result{Supported: false}
}

func translateYes(raw string, args []string) Result {
	text := "y"
	if pos := positional(args); len(pos) > 0 {
		text = strings.Join(pos, " ")
	}
	return ok(fmt.Sprintf(`1..10000 | ForEach-Object { %s }`, psQuote(text)))
}
