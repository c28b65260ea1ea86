package emulator

import (
	"fmt"
	"strings"
)

func registerFileOps() {
	register([]string{"ls"}, translateLs)
	register([]string{"cat"}, translateCat)
	register([]string{"cd"}, translateCd)
	register([]string{"pwd"}, translatePwd)
	register([]string{"mkdir"}, translateMkdir)
	register([]string{"touch"}, translateTouch)
	register([]string{"rm"}, translateRm)
	register([]string{"cp"}, translateCp)
	register([]string{"mv"}, translateMv)
	register([]string{"ln"}, translateLn)
	register([]string{"readlink"}, translateReadlink)
	register([]string{"realpath"}, translateRealpath)
	register([]string{"basename"}, translateBasename)
	register([]string{"dirname"}, translateDirname)
	register([]string{"stat"}, translateStat)
	register([]string{"du"}, translateDu)
	register([]string{"df"}, translateDf)
	register([]string{"find"}, translateFind)
	register([]string{"chmod"}, translateChmod)
	register([]string{"chown"}, translateChown)
	register([]string{"file"}, translateFile)
	register([]string{"test", "["}, translateTest)
}

// translateLs covers the flag union {a,l,h,R,t,r,S,d,1,F} from §4.6: -l, -h
// and -F each force PowerShell with a custom Get-ChildItem format; anything
// else can run through plain `dir`.
func translateLs(raw string, args []string) Result {
	paths := positional(args)
	if len(paths) == 0 {
		paths = []string{"."}
	}
	needsHeavy := hasFlag(args, 'l', "--format=long") || hasFlag(args, 'h', "--human-readable") || hasFlag(args, 'F', "--classify")
	if !needsHeavy {
		dirArgs := "/B"
		if hasFlag(args, 'a', "--all") {
			dirArgs = "/B /A"
		}
		if hasFlag(args, 'R', "--recursive") {
			dirArgs += " /S"
		}
		return okCmd(fmt.Sprintf("dir %s %s", dirArgs, strings.Join(quoteAll(paths), " ")))
	}
	sortClause := "Sort-Object Name"
	if hasFlag(args, 't', "") {
		sortClause = "Sort-Object LastWriteTime -Descending"
	}
	if hasFlag(args, 'S', "") {
		sortClause = "Sort-Object Length -Descending"
	}
	if hasFlag(args, 'r', "--reverse") {
		sortClause += " ; [array]::Reverse($items)"
	}
	recurse := ""
	if hasFlag(args, 'R', "--recursive") {
		recurse = " -Recurse"
	}
	showAll := ""
	if hasFlag(args, 'a', "--all") {
		showAll = " -Force"
	}
	script := fmt.Sprintf(
		`Get-ChildItem %s%s%s | %s | ForEach-Object { `+
			`$t = if ($_.PSIsContainer) {'d'} else {'-'}; `+
			`"{0}{1,10} {2:yyyy-MM-dd HH:mm} {3}" -f $t,$_.Length,$_.LastWriteTime,$_.Name }`,
		strings.Join(quoteAll(paths), ","), recurse, showAll, sortClause)
	return ok(script)
}

// translateCat expands globs before reading (so a missing literal path is
// an error but a non-matching glob is not), and adds the %6d gutter for
// -n/-b.
func translateCat(raw string, args []string) Result {
	paths := positional(args)
	numbered := hasFlag(args, 'n', "--number") || hasFlag(args, 'b', "--number-nonblank")
	if len(paths) == 0 {
		return ok(`[Console]::In.ReadToEnd()`)
	}
	var parts []string
	for _, p := range paths {
		if strings.ContainsAny(p, "*?[") {
			parts = append(parts, fmt.Sprintf(`Get-ChildItem -Path %s -File | Get-Content`, psQuote(p)))
			continue
		}
		parts = append(parts, fmt.Sprintf(`Get-Content -LiteralPath %s -ErrorAction Stop`, psQuote(p)))
	}
	body := strings.Join(parts, "; ")
	if numbered {
		return ok(fmt.Sprintf(`$i=0; (%s) | ForEach-Object { $i++; "{0,6}  {1}" -f $i,$_ }`, body))
	}
	return ok(body)
}

func translateCd(raw string, args []string) Result {
	paths := positional(args)
	target := "~"
	if len(paths) > 0 {
		target = paths[0]
	}
	return ok(fmt.Sprintf(`Set-Location -LiteralPath %s`, psQuote(target)))
}

func translatePwd(raw string, args []string) Result {
	return ok(`(Get-Location).Path`)
}

func translateMkdir(raw string, args []string) Result {
	paths := positional(args)
	flag := ""
	if hasFlag(args, 'p', "--parents") {
		flag = "-Force"
	}
	var parts []string
	for _, p := range paths {
		parts = append(parts, fmt.Sprintf(`New-Item -ItemType Directory %s -Path %s | Out-Null`, flag, psQuote(p)))
	}
	return ok(strings.Join(parts, "; "))
}

func translateTouch(raw string, args []string) Result {
	paths := positional(args)
	var parts []string
	for _, p := range paths {
		parts = append(parts, fmt.Sprintf(
			`if (Test-Path -LiteralPath %s) { (Get-Item -LiteralPath %s).LastWriteTime = Get-Date } else { New-Item -ItemType File -Path %s | Out-Null }`,
			psQuote(p), psQuote(p), psQuote(p)))
	}
	return ok(strings.Join(parts, "; "))
}

func translateRm(raw string, args []string) Result {
	paths := positional(args)
	flags := ""
	if hasFlag(args, 'r', "--recursive") || hasFlag(args, 'R', "") {
		flags = "-Recurse "
	}
	flags += "-Force "
	if hasFlag(args, 'f', "--force") {
		var parts []string
		for _, p := range paths {
			parts = append(parts, fmt.Sprintf(`Remove-Item %s-ErrorAction SilentlyContinue -LiteralPath %s`, flags, psQuote(p)))
		}
		return ok(strings.Join(parts, "; "))
	}
	var parts []string
	for _, p := range paths {
		parts = append(parts, fmt.Sprintf(`Remove-Item %s-LiteralPath %s`, flags, psQuote(p)))
	}
	return ok(strings.Join(parts, "; "))
}

func translateCp(raw string, args []string) Result {
	paths := positional(args)
	if len(paths) < 2 {
		return failure("cp: missing source or destination")
	}
	recurse := ""
	if hasFlag(args, 'r', "--recursive") || hasFlag(args, 'R', "") {
		recurse = "-Recurse "
	}
	dest := paths[len(paths)-1]
	srcs := paths[:len(paths)-1]
	return ok(fmt.Sprintf(`Copy-Item %s-Force -Path %s -Destination %s`, recurse, strings.Join(quoteAll(srcs), ","), psQuote(dest)))
}

func translateMv(raw string, args []string) Result {
	paths := positional(args)
	if len(paths) < 2 {
		return failure("mv: missing source or destination")
	}
	dest := paths[len(paths)-1]
	srcs := paths[:len(paths)-1]
	return ok(fmt.Sprintf(`Move-Item -Force -Path %s -Destination %s`, strings.Join(quoteAll(srcs), ","), psQuote(dest)))
}

func translateLn(raw string, args []string) Result {
	if !hasFlag(args, 's', "--symbolic") {
		return failure("ln: only symbolic links (-s) are supported")
	}
	paths := positional(args)
	if len(paths) != 2 {
		return failure("ln: expected TARGET LINK_NAME")
	}
	return ok(fmt.Sprintf(`New-Item -ItemType SymbolicLink -Path %s -Target %s | Out-Null`, psQuote(paths[1]), psQuote(paths[0])))
}

func translateReadlink(raw string, args []string) Result {
	paths := positional(args)
	if len(paths) == 0 {
		return failure("readlink: missing operand")
	}
	return ok(fmt.Sprintf(`(Get-Item -LiteralPath %s).Target`, psQuote(paths[0])))
}

func translateRealpath(raw string, args []string) Result {
	paths := positional(args)
	if len(paths) == 0 {
		return failure("realpath: missing operand")
	}
	return ok(fmt.Sprintf(`(Resolve-Path -LiteralPath %s).Path`, psQuote(paths[0])))
}

func translateBasename(raw string, args []string) Result {
	paths := positional(args)
	if len(paths) == 0 {
		return failure("basename: missing operand")
	}
	script := fmt.Sprintf(`Split-Path -Leaf %s`, psQuote(paths[0]))
	if len(paths) > 1 {
		suffix := paths[1]
		script = fmt.Sprintf(`(Split-Path -Leaf %s) -replace [regex]::Escape(%s)+'$',''`, psQuote(paths[0]), psQuote(suffix))
	}
	return ok(script)
}

func translateDirname(raw string, args []string) Result {
	paths := positional(args)
	if len(paths) == 0 {
		return failure("dirname: missing operand")
	}
	return ok(fmt.Sprintf(`$p = Split-Path -Parent %s; if ($p -eq '') {'.'} else {$p}`, psQuote(paths[0])))
}

func translateStat(raw string, args []string) Result {
	paths := positional(args)
	if len(paths) == 0 {
		return failure("stat: missing operand")
	}
	return ok(fmt.Sprintf(
		`Get-Item -LiteralPath %s | Format-List Name,Length,LastWriteTime,CreationTime,Mode | Out-String`,
		psQuote(paths[0])))
}

func translateDu(raw string, args []string) Result {
	paths := positional(args)
	if len(paths) == 0 {
		paths = []string{"."}
	}
	human := hasFlag(args, 'h', "--human-readable")
	summarize := hasFlag(args, 's', "--summarize")
	var parts []string
	for _, p := range paths {
		sizeExpr := `($sum)`
		if human {
			sizeExpr = `("{0:N1}K" -f ($sum/1KB))`
		}
		if summarize {
			parts = append(parts, fmt.Sprintf(
				`$sum = (Get-ChildItem -LiteralPath %s -Recurse -File | Measure-Object -Property Length -Sum).Sum; "{0}`+"\t"+`{1}" -f %s,%s`,
				psQuote(p), sizeExpr, psQuote(p)))
		} else {
			parts = append(parts, fmt.Sprintf(
				`Get-ChildItem -LiteralPath %s -Recurse -File | ForEach-Object { "{0}`+"\t"+`{1}" -f $_.Length,$_.FullName }`,
				psQuote(p)))
		}
	}
	return ok(strings.Join(parts, "; "))
}

func translateDf(raw string, args []string) Result {
	return ok(`Get-PSDrive -PSProvider FileSystem | ForEach-Object { "{0}:\t{1}\t{2}" -f $_.Name,$_.Used,$_.Free }`)
}

// translateFind implements §4.6's `find`: a short pipeline with only
// -name/-type/-iname becomes an inline Get-ChildItem/Where-Object; anything
// with -exec sh -c, pipes inside -exec, nested quoting, -printf, or
// -execdir requires Git Bash instead (reported unsupported here so the
// caller routes there).
func translateFind(raw string, args []string) Result {
	if strings.Contains(raw, "-exec") || strings.Contains(raw, "-printf") || strings.Contains(raw, "-execdir") {
		return Result{Supported: false}
	}
	root := "."
	var nameGlob string
	var iname bool
	var typeFilter string
	rest := args
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		root = rest[0]
		rest = rest[1:]
	}
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "-name":
			if i+1 < len(rest) {
				nameGlob = rest[i+1]
				i++
			}
		case "-iname":
			if i+1 < len(rest) {
				nameGlob = rest[i+1]
				iname = true
				i++
			}
		case "-type":
			if i+1 < len(rest) {
				typeFilter = rest[i+1]
				i++
			}
		default:
			return Result{Supported: false}
		}
	}
	filter := "Get-ChildItem -LiteralPath " + psQuote(root) + " -Recurse -Force"
	var where []string
	if nameGlob != "" {
		op := "-like"
		if iname {
			op = "-ilike"
		}
		where = append(where, fmt.Sprintf(`$_.Name %s %s`, op, psQuote(nameGlob)))
	}
	switch typeFilter {
	case "f":
		where = append(where, `-not $_.PSIsContainer`)
	case "d":
		where = append(where, `$_.PSIsContainer`)
	}
	if len(where) > 0 {
		filter += " | Where-Object { " + strings.Join(where, " -and ") + " }"
	}
	return ok(filter + " | Select-Object -ExpandProperty FullName")
}

func translateChmod(raw string, args []string) Result {
	// Windows has no POSIX mode bits; approximate the common case of
	// toggling the read-only attribute, the one chmod effect that is
	// observable on an NTFS volume.
	paths := positional(args)
	if len(paths) < 2 {
		return failure("chmod: missing mode or operand")
	}
	mode := paths[0]
	targets := paths[1:]
	readonly := "$false"
	if strings.Contains(mode, "-w") || mode == "0444" || mode == "444" {
		readonly = "$true"
	}
	var parts []string
	for _, t := range targets {
		parts = append(parts, fmt.Sprintf(`(Get-Item -LiteralPath %s).IsReadOnly = %s`, psQuote(t), readonly))
	}
	return ok(strings.Join(parts, "; "))
}

func translateChown(raw string, args []string) Result {
	return failure("chown: ownership changes are not meaningful on this filesystem")
}

func translateFile(raw string, args []string) Result {
	paths := positional(args)
	if len(paths) == 0 {
		return failure("file: missing operand")
	}
	return ok(fmt.Sprintf(
		`$i = Get-Item -LiteralPath %s; if ($i.PSIsContainer) { "%s: directory" } else { "%s: " + $i.Extension + " file" }`,
		psQuote(paths[0]), paths[0], paths[0]))
}

// translateTest implements the subset of `test`/`[` the engine needs for
// control-flow probes inside already-analyzed simple commands: existence
// and type checks plus string/integer comparisons.
func translateTest(raw string, args []string) Result {
	a := args
	if len(a) > 0 && a[len(a)-1] == "]" {
		a = a[:len(a)-1]
	}
	if len(a) == 2 {
		op, operand := a[0], a[1]
		switch op {
		case "-e":
			return ok(fmt.Sprintf(`if (Test-Path -LiteralPath %s) { exit 0 } else { exit 1 }`, psQuote(operand)))
		case "-f":
			return ok(fmt.Sprintf(`if ((Test-Path -LiteralPath %s) -and -not (Get-Item -LiteralPath %s).PSIsContainer) { exit 0 } else { exit 1 }`, psQuote(operand), psQuote(operand)))
		case "-d":
			return ok(fmt.Sprintf(`if ((Test-Path -LiteralPath %s) -and (Get-Item -LiteralPath %s).PSIsContainer) { exit 0 } else { exit 1 }`, psQuote(operand), psQuote(operand)))
		case "-z":
			return ok(fmt.Sprintf(`if (%s -eq '') { exit 0 } else { exit 1 }`, psQuote(operand)))
		case "-n":
			return ok(fmt.Sprintf(`if (%s -ne '') { exit 0 } else { exit 1 }`, psQuote(operand)))
		}
	}
	if len(a) == 3 {
		lhs, op, rhs := a[0], a[1], a[2]
		psOp := map[string]string{"=": "-eq", "!=": "-ne", "-eq": "-eq", "-ne": "-ne", "-lt": "-lt", "-gt": "-gt", "-le": "-le", "-ge": "-ge"}[op]
		if psOp != "" {
			return ok(fmt.Sprintf(`if (%s %s %s) { exit 0 } else { exit 1 }`, psQuote(lhs), psOp, psQuote(rhs)))
		}
	}
	return failure("test: unsupported expression")
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = psQuote(s)
	}
	return out
}
