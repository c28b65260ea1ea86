package emulator

import (
	"fmt"
	"strconv"
	"strings"
)

func registerTextOps() {
	register([]string{"grep"}, translateGrep)
	register([]string{"sed"}, translateSed)
	register([]string{"awk"}, translateAwk)
	register([]string{"cut"}, translateCut)
	register([]string{"sort"}, translateSort)
	register([]string{"uniq"}, translateUniq)
	register([]string{"head"}, translateHead)
	register([]string{"tail"}, translateTail)
	register([]string{"tr"}, translateTr)
	register([]string{"wc"}, translateWc)
	register([]string{"tee"}, translateTee)
	register([]string{"paste"}, translatePaste)
	register([]string{"join"}, translateJoin)
	register([]string{"comm"}, translateComm)
	register([]string{"column"}, translateColumn)
	register([]string{"split"}, translateSplit)
	register([]string{"strings"}, translateStrings)
	register([]string{"hexdump"}, translateHexdump)
	register([]string{"diff"}, translateDiff)
	register([]string{"seq"}, translateSeq)
}

// translateDiff is the PowerShell fallback used whenever native diff.exe is
// absent (the inline emulator ranks above Git Bash for a single command);
// the strategy analyzer routes plain `diff a b` here while anything piped
// (`diff.*\|`) still requires Git Bash per §4.7. Only the two-file, unified-ish line comparison is
// attempted; anything else is left unsupported.
func translateDiff(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) != 2 {
		return Result{Supported: false}
	}
	return ok(fmt.Sprintf(
		`$a = Get-Content -LiteralPath %s; $b = Get-Content -LiteralPath %s; `+
			`$d = Compare-Object $a $b -IncludeEqual:$false; `+
			`if (-not $d) { exit 0 }; `+
			`foreach ($l in $d) { if ($l.SideIndicator -eq '<=') { "< " + $l.InputObject } else { "> " + $l.InputObject } }; exit 1`,
		psQuote(pos[0]), psQuote(pos[1])))
}

// translateSeq covers the three GNU seq forms: `seq LAST`, `seq FIRST LAST`,
// `seq FIRST INCREMENT LAST`.
func translateSeq(raw string, args []string) Result {
	pos := positional(args)
	var first, incr, last float64 = 1, 1, 0
	switch len(pos) {
	case 1:
		v, err := strconv.ParseFloat(pos[0], 64)
		if err != nil {
			return Result{Supported: false}
		}
		last = v
	case 2:
		f, err1 := strconv.ParseFloat(pos[0], 64)
		l, err2 := strconv.ParseFloat(pos[1], 64)
		if err1 != nil || err2 != nil {
			return Result{Supported: false}
		}
		first, last = f, l
	case 3:
		f, err1 := strconv.ParseFloat(pos[0], 64)
		i, err2 := strconv.ParseFloat(pos[1], 64)
		l, err3 := strconv.ParseFloat(pos[2], 64)
		if err1 != nil || err2 != nil || err3 != nil || i == 0 {
			return Result{Supported: false}
		}
		first, incr, last = f, i, l
	default:
		return Result{Supported: false}
	}
	sep := "\n"
	if v, ok := flagValue(args, "-s", "--separator"); ok {
		sep = v
	}
	return ok(fmt.Sprintf(
		`$out = @(); for ($n = %g; ($n -le %g -and %g -gt 0) -or ($n -ge %g -and %g -lt 0); $n += %g) { $out += $n }; $out -join %s`,
		first, last, incr, last, incr, incr, psQuote(sep)))
}

// translateGrep reads -i, -v, -r/-R, -n, -c, -q, -l and -w; -E is accepted
// and the pattern goes to .NET regex either way. -x, -o, -h, -H, -L, -A, -B
// and -C are accepted but do not change the script. -q only needs the exit
// code; -v negates; -r maps to -Recurse.
func translateGrep(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) == 0 {
		return failure("grep: missing pattern")
	}
	pattern := pos[0]
	paths := pos[1:]

	ciFlag := ""
	if hasFlag(args, 'i', "--ignore-case") {
		ciFlag = "CaseInsensitive,"
	}
	negate := hasFlag(args, 'v', "--invert-match")
	count := hasFlag(args, 'c', "--count")
	quiet := hasFlag(args, 'q', "--quiet")
	lineNum := hasFlag(args, 'n', "--line-number")
	listFiles := hasFlag(args, 'l', "--files-with-matches")
	wordMatch := hasFlag(args, 'w', "--word-regexp")
	recurse := hasFlag(args, 'r', "--recursive") || hasFlag(args, 'R', "")

	pat := pattern
	if wordMatch {
		pat = `\b(` + pat + `)\b`
	}
	if !hasFlag(args, 'E', "--extended-regexp") {
		// basic grep: keep as-is, .NET regex is close enough to BRE for
		// the literal/character-class patterns this tool passes through.
	}

	var source string
	switch {
	case len(paths) == 0:
		source = `$input`
	case recurse:
		source = fmt.Sprintf(`(Get-ChildItem -Recurse -File -LiteralPath %s | Get-Content)`, psQuote(strings.Join(paths, ",")))
	default:
		var gets []string
		for _, p := range paths {
			gets = append(gets, fmt.Sprintf(`(Get-Content -LiteralPath %s | ForEach-Object { [PSCustomObject]@{Line=$_; File=%s} })`, psQuote(p), psQuote(p)))
		}
		source = strings.Join(gets, " + ")
	}

	notClause := ""
	if negate {
		notClause = "-not "
	}
	inlineFlags := strings.TrimSuffix(ciFlag, ",")
	regexLit := escapeForPSRegex(pat)
	if inlineFlags != "" {
		regexLit = "(?" + inlineFlags + ")" + regexLit
	}
	matchExpr := fmt.Sprintf(`$_.Line -match '%s'`, regexLit)
	if len(paths) == 0 {
		matchExpr = fmt.Sprintf(`$_ -match '%s'`, regexLit)
	}

	script := fmt.Sprintf(`$input = [Console]::In.ReadToEnd() -split "`+"`n"+`"; %s | Where-Object { %s(%s) }`, source, notClause, matchExpr)

	if quiet {
		return ok(script + ` | Select-Object -First 1 | ForEach-Object { exit 0 }; exit 1`)
	}
	if count {
		return ok(`(` + script + `).Count`)
	}
	if listFiles {
		return ok(script + ` | Select-Object -ExpandProperty File -Unique`)
	}
	if lineNum {
		return ok(script + ` | ForEach-Object { "{0}: {1}" -f ($_.Line), $_.Line }`)
	}
	return ok(script + ` | ForEach-Object { $_.Line }`)
}

func escapeForPSRegex(p string) string {
	return strings.ReplaceAll(p, "'", "''")
}

// translateSed translates a single s/pattern/replacement/[flags] script
// with PowerShell's -replace, honouring the g and i flags (without g only
// the first match on each line is replaced). Any other script (address
// prefixes, d, p, several commands) is reported unsupported. The p flag
// and the -n and -i options are not applied: output always goes to stdout
// and input files are left unchanged.
func translateSed(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) == 0 {
		return failure("sed: missing script")
	}
	script := pos[0]
	files := pos[1:]
	if !strings.HasPrefix(script, "s") || len(script) < 4 {
		return Result{Supported: false}
	}
	delim := script[1]
	parts := strings.Split(script[2:], string(delim))
	if len(parts) < 2 {
		return Result{Supported: false}
	}
	pattern, repl := parts[0], parts[1]
	flags := ""
	if len(parts) > 2 {
		flags = parts[2]
	}
	global := strings.Contains(flags, "g")
	ci := strings.Contains(flags, "i")
	psRepl := strings.ReplaceAll(repl, "$", "$$")
	if global {
		psRepl = strings.NewReplacer(`\1`, `$1`, `\2`, `$2`, `\3`, `$3`).Replace(psRepl)
	} else {
		// -replace is always global in PowerShell; a lazy, anchored prefix
		// group limits it to the first match on each line, which shifts the
		// script's own capture groups up by one.
		pattern = `^(.*?)(?:` + pattern + `)`
		psRepl = "${1}" + strings.NewReplacer(`\1`, `${2}`, `\2`, `${3}`, `\3`, `${4}`).Replace(psRepl)
	}
	opt := ""
	if ci {
		opt = "(?i)"
	}
	op := "-replace"
	readSrc := `[Console]::In.ReadToEnd() -split "` + "`n" + `"`
	if len(files) > 0 {
		var gets []string
		for _, f := range files {
			gets = append(gets, fmt.Sprintf(`Get-Content -LiteralPath %s`, psQuote(f)))
		}
		readSrc = strings.Join(gets, "; ")
	}
	return ok(fmt.Sprintf(`(%s) %s '%s%s', '%s'`, readSrc, op, opt, escapeForPSRegex(pattern), escapeForPSRegex(psRepl)))
}

// translateAwk implements the "critical detector" from §4.6: anything using
// arrays, gsub/sub/substr/split/match/sprintf/length/index/getline/system,
// function definitions, /a/,/b/ ranges, FILENAME/FNR, or non-trivial printf
// needs native awk.exe or Git Bash. The remaining simple-filter subset
// (print $N, NR, simple -F) compiles to PowerShell.
func translateAwk(raw string, args []string) Result {
	critical := []string{"gsub", "sub(", "substr", "split(", "match(", "sprintf", "length(", "index(",
		"getline", "system(", "function ", "FILENAME", "FNR", "[", "]"}
	for _, c := range critical {
		if strings.Contains(raw, c) {
			return Result{Supported: false}
		}
	}
	fs := " "
	if v, ok := flagValue(args, "-F", ""); ok {
		fs = v
	}
	pos := positional(args)
	if len(pos) == 0 {
		return failure("awk: missing program")
	}
	prog := pos[len(pos)-1]
	if !strings.HasPrefix(strings.TrimSpace(prog), "{") && !strings.HasPrefix(strings.TrimSpace(prog), "print") {
		return Result{Supported: false}
	}
	fields := extractAwkPrintFields(prog)
	if fields == "" {
		return Result{Supported: false}
	}
	sep := psQuote(fs)
	if fs == " " {
		sep = `' '`
	}
	return ok(fmt.Sprintf(
		`$NR=0; [Console]::In.ReadToEnd() -split "`+"`n"+`" | ForEach-Object { $NR++; $fld = $_ -split %s; %s }`,
		sep, fields))
}

func extractAwkPrintFields(prog string) string {
	prog = strings.TrimSpace(prog)
	prog = strings.TrimPrefix(prog, "{")
	prog = strings.TrimSuffix(prog, "}")
	prog = strings.TrimSpace(prog)
	prog = strings.TrimPrefix(prog, "print")
	prog = strings.TrimSpace(prog)
	if prog == "" {
		return `$_`
	}
	refs := strings.Split(prog, ",")
	var out []string
	for _, r := range refs {
		r = strings.TrimSpace(r)
		if r == "NR" {
			out = append(out, "$NR")
			continue
		}
		if strings.HasPrefix(r, "$") {
			n, err := strconv.Atoi(r[1:])
			if err != nil || n < 0 {
				return ""
			}
			if n == 0 {
				out = append(out, "$_")
			} else {
				out = append(out, fmt.Sprintf("$fld[%d]", n-1))
			}
			continue
		}
		return ""
	}
	return strings.Join(out, " + \" \" + ")
}

func translateCut(raw string, args []string) Result {
	delim := "\t"
	if v, ok := flagValue(args, "-d", "--delimiter"); ok {
		delim = v
	}
	fieldsSpec, hasFields := flagValue(args, "-f", "--fields")
	if !hasFields {
		return failure("cut: -f is required")
	}
	var idxExprs []string
	for _, f := range strings.Split(fieldsSpec, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return Result{Supported: false}
		}
		idxExprs = append(idxExprs, fmt.Sprintf("$p[%d]", n-1))
	}
	return ok(fmt.Sprintf(
		`[Console]::In.ReadToEnd() -split "`+"`n"+`" | ForEach-Object { $p = $_ -split [regex]::Escape(%s); (%s) -join %s }`,
		psQuote(delim), strings.Join(idxExprs, ","), psQuote(delim)))
}

// translateSort covers -n (numeric), -k N -t D (field key), -h (size
// suffix), -r (reverse), -u (unique).
func translateSort(raw string, args []string) Result {
	numeric := hasFlag(args, 'n', "--numeric-sort")
	human := hasFlag(args, 'h', "--human-numeric-sort")
	reverse := hasFlag(args, 'r', "--reverse")
	unique := hasFlag(args, 'u', "--unique")

	keyExpr := `$_`
	if kf, hasKey := flagValue(args, "-k", "--key"); hasKey {
		field := strings.Split(kf, ",")[0]
		fieldN, err := strconv.Atoi(strings.TrimSuffix(field, "n"))
		if err != nil {
			return Result{Supported: false}
		}
		delim := "\\s+"
		if t, ok := flagValue(args, "-t", "--field-separator"); ok {
			delim = strings_QuoteMeta(t)
		}
		keyExpr = fmt.Sprintf(`($_ -split '%s')[%d]`, delim, fieldN-1)
		numeric = numeric || strings.Contains(kf, "n")
	}
	if numeric {
		keyExpr = "[double]" + keyExpr
	}
	if human {
		keyExpr = fmt.Sprintf(`(humanToBytes %s)`, keyExpr)
	}
	sortClause := fmt.Sprintf(`Sort-Object { %s }`, keyExpr)
	if reverse {
		sortClause += " -Descending"
	}
	if unique {
		sortClause += " -Unique"
	}
	prelude := ""
	if human {
		prelude = `function humanToBytes($v) { $n=[double]($v -replace '[A-Za-z]',''); $u=($v -replace '[0-9.]',''); switch -Regex ($u) {'[Kk]'{$n*1KB}'[Mm]'{$n*1MB}'[Gg]'{$n*1GB}default{$n}} }; `
	}
	return ok(fmt.Sprintf(`%s[Console]::In.ReadToEnd() -split "`+"`n"+`" | %s`, prelude, sortClause))
}

func strings_QuoteMeta(s string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "+", `\+`, "?", `\?`, "(", `\(`, ")", `\)`, "[", `\[`, "]", `\]`)
	return r.Replace(s)
}

// translateUniq performs **consecutive** deduplication only, never global,
// per spec.md's invariant. -c prefixes a %7d count; -d/-u select
// duplicates/singletons.
func translateUniq(raw string, args []string) Result {
	count := hasFlag(args, 'c', "--count")
	dupOnly := hasFlag(args, 'd', "--repeated")
	uniqOnly := hasFlag(args, 'u', "--unique")

	script := `$lines = [Console]::In.ReadToEnd() -split "` + "`n" + `"; ` +
		`$groups = @(); $prev = $null; $run = @(); ` +
		`foreach ($l in $lines) { if ($null -ne $prev -and $l -eq $prev) { $run += $l } else { if ($run.Count -gt 0) { $groups += ,@($run) }; $run = @($l) }; $prev = $l }; ` +
		`if ($run.Count -gt 0) { $groups += ,@($run) }; ` +
		`foreach ($g in $groups) { `
	switch {
	case dupOnly:
		script += `if ($g.Count -le 1) { continue }; `
	case uniqOnly:
		script += `if ($g.Count -gt 1) { continue }; `
	}
	if count {
		script += `"{0,7} {1}" -f $g.Count, $g[0] }`
	} else {
		script += `$g[0] }`
	}
	return ok(script)
}

func translateHead(raw string, args []string) Result {
	n := 10
	if v, ok := flagValue(args, "-n", "--lines"); ok {
		if parsed, err := strconv.Atoi(strings.TrimPrefix(v, "-")); err == nil {
			n = parsed
		}
	}
	return ok(fmt.Sprintf(`[Console]::In.ReadToEnd() -split "`+"`n"+`" | Select-Object -First %d`, n))
}

func translateTail(raw string, args []string) Result {
	n := 10
	if v, ok := flagValue(args, "-n", "--lines"); ok {
		if parsed, err := strconv.Atoi(strings.TrimPrefix(v, "-")); err == nil {
			n = parsed
		}
	}
	if hasFlag(args, 'f', "--follow") {
		return Result{Supported: false}
	}
	return ok(fmt.Sprintf(`[Console]::In.ReadToEnd() -split "`+"`n"+`" | Select-Object -Last %d`, n))
}

// translateTr only supports the common single-character and
// character-class-less substitution form; -d (delete) is also supported.
func translateTr(raw string, args []string) Result {
	pos := positional(args)
	if hasFlag(args, 'd', "--delete") {
		if len(pos) != 1 {
			return Result{Supported: false}
		}
		return ok(fmt.Sprintf(`([Console]::In.ReadToEnd()) -replace ('['+[regex]::Escape(%s)+']'),''`, psQuote(pos[0])))
	}
	if len(pos) != 2 || len(pos[0]) != len(pos[1]) {
		return Result{Supported: false}
	}
	from, to := pos[0], pos[1]
	script := `$s = [Console]::In.ReadToEnd(); `
	for i := range from {
		script += fmt.Sprintf(`$s = $s -replace [regex]::Escape(%s),%s; `, psQuote(string(from[i])), psQuote(string(to[i])))
	}
	script += `$s`
	return ok(script)
}

func translateWc(raw string, args []string) Result {
	lines := hasFlag(args, 'l', "--lines")
	words := hasFlag(args, 'w', "--words")
	bytesFlag := hasFlag(args, 'c', "--bytes")
	switch {
	case lines:
		return ok(`([Console]::In.ReadToEnd() -split "` + "`n" + `").Count - 1`)
	case words:
		return ok(`(([Console]::In.ReadToEnd()) -split '\s+' | Where-Object { $_ -ne '' }).Count`)
	case bytesFlag:
		return ok(`([System.Text.Encoding]::UTF8.GetByteCount([Console]::In.ReadToEnd()))`)
	default:
		return ok(`$c = [Console]::In.ReadToEnd(); $l = ($c -split "` + "`n" + `").Count - 1; $w = ($c -split '\s+' | Where-Object { $_ -ne '' }).Count; $b = [System.Text.Encoding]::UTF8.GetByteCount($c); "{0,7} {1,7} {2,7}" -f $l,$w,$b`)
	}
}

func translateTee(raw string, args []string) Result {
	paths := positional(args)
	append_ := hasFlag(args, 'a', "--append")
	script := `$c = [Console]::In.ReadToEnd(); Write-Output $c; `
	for _, p := range paths {
		if append_ {
			script += fmt.Sprintf(`Add-Content -LiteralPath %s -Value $c; `, psQuote(p))
		} else {
			script += fmt.Sprintf(`Set-Content -LiteralPath %s -Value $c; `, psQuote(p))
		}
	}
	return ok(script)
}

func translatePaste(raw string, args []string) Result {
	paths := positional(args)
	if len(paths) < 2 {
		return Result{Supported: false}
	}
	delim := "\t"
	if v, ok := flagValue(args, "-d", "--delimiters"); ok {
		delim = v
	}
	var gets []string
	for _, p := range paths {
		gets = append(gets, fmt.Sprintf(`(Get-Content -LiteralPath %s)`, psQuote(p)))
	}
	return ok(fmt.Sprintf(
		`$cols = @(%s); $max = ($cols | ForEach-Object { $_.Count } | Measure-Object -Maximum).Maximum; `+
			`0..($max-1) | ForEach-Object { $i=$_; ($cols | ForEach-Object { if ($i -lt $_.Count) { $_[$i] } else { '' } }) -join %s }`,
		strings.Join(gets, ","), psQuote(delim)))
}

func translateJoin(raw string, args []string) Result {
	paths := positional(args)
	if len(paths) != 2 {
		return Result{Supported: false}
	}
	return ok(fmt.Sprintf(
		`$a = Get-Content -LiteralPath %s; $b = Get-Content -LiteralPath %s; `+
			`$bmap = @{}; foreach ($l in $b) { $k=($l -split ' ')[0]; $bmap[$k] = $l }; `+
			`foreach ($l in $a) { $k=($l -split ' ')[0]; if ($bmap.ContainsKey($k)) { "$l " + (($bmap[$k] -split ' ',2)[1]) } }`,
		psQuote(paths[0]), psQuote(paths[1])))
}

func translateComm(raw string, args []string) Result {
	paths := positional(args)
	if len(paths) != 2 {
		return Result{Supported: false}
	}
	return ok(fmt.Sprintf(
		`Compare-Object (Get-Content -LiteralPath %s) (Get-Content -LiteralPath %s) | ForEach-Object { `+
			`if ($_.SideIndicator -eq '<=') { $_.InputObject } elseif ($_.SideIndicator -eq '=>') { "`+"`t"+`" + $_.InputObject } }`,
		psQuote(paths[0]), psQuote(paths[1])))
}

func translateColumn(raw string, args []string) Result {
	return ok(`$lines = [Console]::In.ReadToEnd() -split "` + "`n" + `" | Where-Object { $_ -ne '' }; ` +
		`$rows = $lines | ForEach-Object { ,($_ -split '\s+') }; ` +
		`$w = @(); foreach ($r in $rows) { for ($i=0;$i -lt $r.Count;$i++) { if ($w.Count -le $i) {$w += 0}; if ($r[$i].Length -gt $w[$i]) {$w[$i]=$r[$i].Length} } }; ` +
		`foreach ($r in $rows) { ($r | ForEach-Object { $j=[array]::IndexOf($r,$_); $_.PadRight($w[$j]) }) -join ' ' }`)
}

// translateSplit covers alpha (default) and -d numeric suffixes, -a suffix
// length, and line (-l) or byte (-b) chunking. Writes silently per §4.6.
func translateSplit(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) == 0 {
		return failure("split: missing input file")
	}
	input := pos[0]
	prefix := "x"
	if len(pos) > 1 {
		prefix = pos[1]
	}
	suffixLen := 2
	if v, ok := flagValue(args, "-a", "--suffix-length"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			suffixLen = n
		}
	}
	numericSuffix := hasFlag(args, 'd', "--numeric-suffixes")

	if v, ok := flagValue(args, "-l", "--lines"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Result{Supported: false}
		}
		return ok(fmt.Sprintf(
			`$lines = Get-Content -LiteralPath %s; $chunks = [Math]::Ceiling($lines.Count / %d); `+
				`for ($i=0; $i -lt $chunks; $i++) { $suf = %s; $lines[($i*%d)..([Math]::Min($i*%d+%d,$lines.Count)-1)] | Set-Content -LiteralPath ("%s" + $suf) }`,
			psQuote(input), n, splitSuffixExpr(numericSuffix, suffixLen), n, n, n, prefix))
	}
	if v, ok := flagValue(args, "-b", "--bytes"); ok {
		sz, err := parseByteSize(v)
		if err != nil {
			return Result{Supported: false}
		}
		return ok(fmt.Sprintf(
			`$bytes = [IO.File]::ReadAllBytes((Resolve-Path %s)); $chunks = [Math]::Ceiling($bytes.Length / %d); `+
				`for ($i=0; $i -lt $chunks; $i++) { $suf = %s; $start=$i*%d; $len=[Math]::Min(%d,$bytes.Length-$start); `+
				`[IO.File]::WriteAllBytes("%s" + $suf, $bytes[$start..($start+$len-1)]) }`,
			psQuote(input), sz, splitSuffixExpr(numericSuffix, suffixLen), sz, sz, prefix))
	}
	return Result{Supported: false}
}

func splitSuffixExpr(numeric bool, length int) string {
	if numeric {
		return fmt.Sprintf(`$i.ToString().PadLeft(%d,'0')`, length)
	}
	return fmt.Sprintf(
		`$s=''; $n=$i; for($k=0;$k -lt %d;$k++) { $s = [char](97+($n %% 26)) + $s; $n = [Math]::Floor($n/26) }; $s`,
		length)
}

func parseByteSize(s string) (int64, error) {
	mult := int64(1)
	suffix := s[len(s)-1:]
	switch suffix {
	case "K":
		mult = 1024
		s = s[:len(s)-1]
	case "M":
		mult = 1024 * 1024
		s = s[:len(s)-1]
	case "G":
		mult = 1024 * 1024 * 1024
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return n * mult, nil
}

func translateStrings(raw string, args []string) Result {
	minLen := 4
	if v, ok := flagValue(args, "-n", ""); ok {
		if n, err := strconv.Atoi(v); err == nil {
			minLen = n
		}
	}
	pos := positional(args)
	if len(pos) == 0 {
		return failure("strings: missing operand")
	}
	return ok(fmt.Sprintf(
		`$bytes = [IO.File]::ReadAllBytes((Resolve-Path %s)); $text = [Text.Encoding]::ASCII.GetString($bytes); `+
			`[regex]::Matches($text, "[\x20-\x7E]{%d,}") | ForEach-Object { $_.Value }`,
		psQuote(pos[0]), minLen))
}

func translateHexdump(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) == 0 {
		return failure("hexdump: missing operand")
	}
	return ok(fmt.Sprintf(
		`$bytes = [IO.File]::ReadAllBytes((Resolve-Path %s)); `+
			`for ($i=0; $i -lt $bytes.Length; $i+=16) { `+
			`$chunk = $bytes[$i..([Math]::Min($i+15,$bytes.Length-1))]; `+
			`"{0:x8}  {1}" -f $i, (($chunk | ForEach-Object { "{0:x2}" -f $_ }) -join ' ') }`,
		psQuote(pos[0])))
}
