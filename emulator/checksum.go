package emulator

import (
	"fmt"
	"strings"
)

func registerChecksumOps() {
	register([]string{"sha256sum"}, checksumTranslator("SHA256"))
	register([]string{"sha1sum"}, checksumTranslator("SHA1"))
	register([]string{"md5sum"}, checksumTranslator("MD5"))
	register([]string{"base64"}, translateBase64)
}

// checksumTranslator builds a translator for one of the GNU-compatible
// *sum utilities: plain mode prints `<hash>  <file>` (two spaces, matching
// GNU); -c switches to check mode against a manifest of that same format.
func checksumTranslator(algo string) Translator {
	return func(raw string, args []string) Result {
		pos := positional(args)
		if hasFlag(args, 'c', "--check") {
			if len(pos) == 0 {
				return failure(algo + "sum: missing manifest")
			}
			return ok(fmt.Sprintf(
				`$ok = $true; Get-Content -LiteralPath %s | ForEach-Object { `+
					`$parts = $_ -split '  ',2; if ($parts.Count -eq 2) { `+
					`$h = (Get-FileHash -Algorithm %s -LiteralPath $parts[1]).Hash.ToLower(); `+
					`if ($h -eq $parts[0]) { "$($parts[1]): OK" } else { "$($parts[1]): FAILED"; $ok = $false } } }; `+
					`if (-not $ok) { exit 1 }`,
				psQuote(pos[0]), algo))
		}
		if len(pos) == 0 {
			return ok(fmt.Sprintf(
				`$b = [Console]::In.ReadToEnd(); $h = [System.Security.Cryptography.%s]::Create().ComputeHash([Text.Encoding]::UTF8.GetBytes($b)); `+
					`(($h | ForEach-Object { "{0:x2}" -f $_ }) -join '') + "  -"`, algo))
		}
		var parts []string
		for _, p := range pos {
			parts = append(parts, fmt.Sprintf(
				`"{0}  {1}" -f (Get-FileHash -Algorithm %s -LiteralPath %s).Hash.ToLower(), %s`,
				algo, psQuote(p), psQuote(p)))
		}
		return ok(strings.Join(parts, "; "))
	}
}

func translateBase64(raw string, args []string) Result {
	pos := positional(args)
	decode := hasFlag(args, 'd', "--decode")
	if decode {
		if len(pos) == 0 {
			return ok(`[Text.Encoding]::UTF8.GetString([Convert]::FromBase64String([Console]::In.ReadToEnd().Trim()))`)
		}
		return ok(fmt.Sprintf(`[Text.Encoding]::UTF8.GetString([Convert]::FromBase64String((Get-Content -Raw -LiteralPath %s).Trim()))`, psQuote(pos[0])))
	}
	if len(pos) == 0 {
		return ok(`[Convert]::ToBase64String([Text.Encoding]::UTF8.GetBytes([Console]::In.ReadToEnd()))`)
	}
	return ok(fmt.Sprintf(`[Convert]::ToBase64String([IO.File]::ReadAllBytes((Resolve-Path %s)))`, psQuote(pos[0])))
}
