package emulator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

func registerJQ() {
	register([]string{"jq"}, translateJQ)
}

// simpleDotPath matches filters like `.`, `.foo`, `.foo.bar`, `.foo[0]`,
// `.foo[]` — the subset §4.6 says compiles to a PowerShell JSON traversal.
// Anything else (pipes, functions, object construction, select/map) needs
// native jq.exe.
var simpleDotPath = regexp.MustCompile(`^\.([A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*|\[\d*\])*)?$`)

func translateJQ(raw string, args []string) Result {
	pos := positional(args)
	var filter string
	var files []string
	for _, a := range pos {
		if strings.HasPrefix(a, ".") && filter == "" {
			filter = a
			continue
		}
		files = append(files, a)
	}
	if filter == "" || !simpleDotPath.MatchString(filter) {
		return Result{Supported: false}
	}

	readSrc := `[Console]::In.ReadToEnd()`
	if len(files) > 0 {
		readSrc = fmt.Sprintf(`Get-Content -Raw -LiteralPath %s`, psQuote(files[0]))
	}

	expr := "$obj"
	if filter != "." {
		segRe := regexp.MustCompile(`\.([A-Za-z_][A-Za-z0-9_]*)|\[(\d*)\]`)
		for _, m := range segRe.FindAllStringSubmatch(filter, -1) {
			if m[1] != "" {
				expr += "." + m[1]
			} else if m[2] != "" {
				n, _ := strconv.Atoi(m[2])
				expr += fmt.Sprintf("[%d]", n)
			} else {
				expr = fmt.Sprintf("(%s | ForEach-Object { $_ })", expr)
			}
		}
	}
	return ok(fmt.Sprintf(`$obj = %s | ConvertFrom-Json; %s | ConvertTo-Json -Depth 10 -Compress:$false`, readSrc, expr))
}
