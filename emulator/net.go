package emulator

import "fmt"

func registerNetOps() {
	register([]string{"curl"}, translateCurl)
	register([]string{"wget"}, translateWget)
}

// translateCurl covers the common case of downloading a URL to stdout or
// to a file (-o/-O); anything with method-specific flags, headers, or
// multipart bodies is reported unsupported so the caller routes to Git
// Bash instead.
func translateCurl(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) == 0 {
		return failure("curl: missing URL")
	}
	for _, f := range [][2]string{{"-X", "--request"}, {"-H", "--header"}, {"-d", "--data"}, {"-F", "--form"}} {
		if _, has := flagValue(args, f[0], f[1]); has {
			return Result{Supported: false}
		}
	}
	url := pos[len(pos)-1]
	if out, hasOut := flagValue(args, "-o", "--output"); hasOut {
		return ok(fmt.Sprintf(`Invoke-WebRequest -Uri %s -OutFile %s`, psQuote(url), psQuote(out)))
	}
	if hasFlag(args, 'O', "--remote-name") {
		return ok(fmt.Sprintf(`Invoke-WebRequest -Uri %s -OutFile (Split-Path -Leaf %s)`, psQuote(url), psQuote(url)))
	}
	return ok(fmt.Sprintf(`(Invoke-WebRequest -Uri %s -UseBasicParsing).Content`, psQuote(url)))
}

func translateWget(raw string, args []string) Result {
	pos := positional(args)
	if len(pos) == 0 {
		return failure("wget: missing URL")
	}
	url := pos[0]
	out, hasOut := flagValue(args, "-O", "--output-document")
	if !hasOut {
		out = ""
	}
	if out == "" {
		return ok(fmt.Sprintf(`Invoke-WebRequest -Uri %s -OutFile (Split-Path -Leaf %s)`, psQuote(url), psQuote(url)))
	}
	return ok(fmt.Sprintf(`Invoke-WebRequest -Uri %s -OutFile %s`, psQuote(url), psQuote(out)))
}
