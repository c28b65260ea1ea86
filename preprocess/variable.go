package preprocess

import (
	"regexp"
	"strconv"
	"strings"
)

// Env is a read-only snapshot of variables visible to expansion, populated
// from the process environment plus whatever the command string itself set
// via a leading `export VAR=value;`.
type Env map[string]string

// varFormRe matches any of the supported ${...} forms plus the bare $VAR
// form. Longest-match ordering inside the alternation matters only for
// readability; captures are inspected individually below.
var varFormRe = regexp.MustCompile(`\$\{#([A-Za-z_][A-Za-z0-9_]*)\}|\$\{([A-Za-z_][A-Za-z0-9_]*)(#{1,2}|%{1,2}|\^{1,2}|,{1,2}|:-|/{1,2})?((?:[^{}]|\{[^{}]*\})*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// ExpandVariables applies §4.5 point 4, in the fixed form precedence
// documented there. Forms referencing an unset variable are left textually
// intact rather than substituted with the empty string, so a downstream
// bash/PowerShell backend can still make sense of them.
func ExpandVariables(s string, env Env) string {
	return varFormRe.ReplaceAllStringFunc(s, func(m string) string {
		groups := varFormRe.FindStringSubmatch(m)
		lengthName := groups[1]
		if lengthName != "" {
			val, ok := env[lengthName]
			if !ok {
				return m
			}
			return strconv.Itoa(len(val))
		}

		name := groups[2]
		op := groups[3]
		arg := groups[4]
		if name == "" {
			name = groups[5]
			if name == "" {
				return m
			}
			val, ok := env[name]
			if !ok {
				return m
			}
			return val
		}

		val, isSet := env[name]

		switch {
		case op == "" && arg == "":
			if !isSet {
				return m
			}
			return val
		case op == "#":
			if !isSet {
				return m
			}
			return stripPrefix(val, arg, false)
		case op == "##":
			if !isSet {
				return m
			}
			return stripPrefix(val, arg, true)
		case op == "%":
			if !isSet {
				return m
			}
			return stripSuffix(val, arg, false)
		case op == "%%":
			if !isSet {
				return m
			}
			return stripSuffix(val, arg, true)
		case op == "/" || op == "//":
			if !isSet {
				return m
			}
			return substitute(val, arg, op == "//")
		case op == "^" || op == "^^":
			if !isSet {
				return m
			}
			return changeCase(val, op == "^^", true)
		case op == "," || op == ",,":
			if !isSet {
				return m
			}
			return changeCase(val, op == ",,", false)
		case op == ":-":
			if isSet && val != "" {
				return val
			}
			return arg
		}
		return m
	})
}

// stripPrefix removes the shortest (longest=false, `#`) or longest
// (longest=true, `##`) prefix of val matching the POSIX glob pattern.
// Candidate prefix lengths are tried in the order that makes the first
// successful match the one §4.5 point 4 calls for.
func stripPrefix(val, glob string, longest bool) string {
	re := fullMatchRegex(glob)
	if re == nil {
		return val
	}
	if longest {
		for end := len(val); end >= 0; end-- {
			if re.MatchString(val[:end]) {
				return val[end:]
			}
		}
	} else {
		for end := 0; end <= len(val); end++ {
			if re.MatchString(val[:end]) {
				return val[end:]
			}
		}
	}
	return val
}

// stripSuffix removes the shortest (`%`) or longest (`%%`) suffix of val
// matching the POSIX glob pattern.
func stripSuffix(val, glob string, longest bool) string {
	re := fullMatchRegex(glob)
	if re == nil {
		return val
	}
	if longest {
		for start := 0; start <= len(val); start++ {
			if re.MatchString(val[start:]) {
				return val[:start]
			}
		}
	} else {
		for start := len(val); start >= 0; start-- {
			if re.MatchString(val[start:]) {
				return val[:start]
			}
		}
	}
	return val
}

// fullMatchRegex compiles glob into a regex anchored at both ends, so
// MatchString only succeeds when the whole candidate substring matches.
func fullMatchRegex(glob string) *regexp.Regexp {
	re, err := regexp.Compile("^(?:" + globToRegexBody(glob) + ")$")
	if err != nil {
		return nil
	}
	return re
}

func globToRegexBody(glob string) string {
	var b strings.Builder
	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '.', '+', '(', ')', '|', '^', '$', '\\', '{', '}', '[', ']':
			b.WriteString("\\")
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func substitute(val, arg string, global bool) string {
	parts := strings.SplitN(arg, "/", 2)
	oldGlob := parts[0]
	newVal := ""
	if len(parts) > 1 {
		newVal = parts[1]
	}
	body := globToRegexBody(oldGlob)
	re, err := regexp.Compile(body)
	if err != nil {
		return val
	}
	if global {
		return re.ReplaceAllString(val, strings.ReplaceAll(newVal, "$", "$$"))
	}
	loc := re.FindStringIndex(val)
	if loc == nil {
		return val
	}
	return val[:loc[0]] + newVal + val[loc[1]:]
}

func changeCase(val string, all, upper bool) string {
	run := []rune(val)
	limit := len(run)
	if !all {
		limit = 1
		if limit > len(run) {
			limit = len(run)
		}
	}
	for i := 0; i < limit; i++ {
		if upper {
			run[i] = toUpperRune(run[i])
		} else {
			run[i] = toLowerRune(run[i])
		}
	}
	return string(run)
}

func toUpperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func toLowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
