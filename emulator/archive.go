package emulator

import (
	"fmt"
	"strings"
)

func registerArchiveOps() {
	register([]string{"tar"}, translateTar)
	register([]string{"gzip"}, translateGzip)
	register([]string{"gunzip"}, translateGunzip)
	register([]string{"zip"}, translateZip)
	register([]string{"unzip"}, translateUnzip)
}

// translateTar, translateGzip and translateGunzip implement the §4.6
// fallback chain: attempt native .exe first (decided upstream by the
// strategy analyzer / engine leaf resolution), and only construct a
// PowerShell script here as the .NET-based last resort.
func translateTar(raw string, args []string) Result {
	if len(args) == 0 {
		return failure("tar: missing operands")
	}
	flags := args[0]
	rest := positional(args[1:])
	fileArg, hasFile := flagValue(args, "-f", "--file")
	if !hasFile && len(rest) > 0 {
		fileArg = rest[0]
		rest = rest[1:]
	}
	create := strings.Contains(flags, "c")
	extract := strings.Contains(flags, "x")
	gz := strings.Contains(flags, "z")

	switch {
	case create && gz:
		return ok(fmt.Sprintf(
			`Compress-Archive -Force -Path %s -DestinationPath %s`,
			strings.Join(quoteAll(rest), ","), psQuote(fileArg+".zip")))
	case create:
		return ok(fmt.Sprintf(
			`Compress-Archive -Force -Path %s -DestinationPath %s`,
			strings.Join(quoteAll(rest), ","), psQuote(fileArg)))
	case extract:
		dest := "."
		if d, ok := flagValue(args, "-C", ""); ok {
			dest = d
		}
		return ok(fmt.Sprintf(`Expand-Archive -Force -LiteralPath %s -DestinationPath %s`, psQuote(fileArg), psQuote(dest)))
	}
	return Result{Supported: false}
}

func translateGzip(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) == 0 {
		return failure("gzip: missing operand")
	}
	keep := hasFlag(args, 'k', "--keep")
	var parts []string
	for _, p := range pos {
		script := fmt.Sprintf(
			`$in = [IO.File]::OpenRead((Resolve-Path %s)); $out = [IO.File]::Create(%s + '.gz'); `+
				`$gz = New-Object System.IO.Compression.GZipStream($out, [System.IO.Compression.CompressionMode]::Compress); `+
				`$in.CopyTo($gz); $gz.Close(); $out.Close(); $in.Close()`,
			psQuote(p), psQuote(p))
		if !keep {
			script += fmt.Sprintf(`; Remove-Item -LiteralPath %s`, psQuote(p))
		}
		parts = append(parts, script)
	}
	return ok(strings.Join(parts, "; "))
}

func translateGunzip(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) == 0 {
		return failure("gunzip: missing operand")
	}
	var parts []string
	for _, p := range pos {
		out := strings.TrimSuffix(p, ".gz")
		parts = append(parts, fmt.Sprintf(
			`$in = [IO.File]::OpenRead((Resolve-Path %s)); $out = [IO.File]::Create(%s); `+
				`$gz = New-Object System.IO.Compression.GZipStream($in, [System.IO.Compression.CompressionMode]::Decompress); `+
				`$gz.CopyTo($out); $gz.Close(); $out.Close(); $in.Close()`,
			psQuote(p), psQuote(out)))
	}
	return ok(strings.Join(parts, "; "))
}

func translateZip(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) < 2 {
		return failure("zip: missing archive name or sources")
	}
	archive := pos[0]
	if !strings.HasSuffix(archive, ".zip") {
		archive += ".zip"
	}
	return ok(fmt.Sprintf(`Compress-Archive -Force -Path %s -DestinationPath %s`, strings.Join(quoteAll(pos[1:]), ","), psQuote(archive)))
}

func translateUnzip(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) == 0 {
		return failure("unzip: missing operand")
	}
	dest := "."
	if d, ok := flagValue(args, "-d", ""); ok {
		dest = d
	}
	return ok(fmt.Sprintf(`Expand-Archive -Force -LiteralPath %s -DestinationPath %s`, psQuote(pos[0]), psQuote(dest)))
}
