package preprocess

import (
	"strconv"
	"strings"
)

// ExpandBraces implements spec.md §4.5 point 5's brace expansion as a single
// recursive token-cartesian pass: each whitespace/`;`/`|`/`&`-delimited token
// is expanded independently, and nested brace groups are flattened
// bottom-up by recursing into prefix, item, and suffix segments before
// combining them. This produces the same literal outputs as the two
// conceptual passes described there (innermost-first for nested groups,
// then a cartesian product over siblings) without needing destructive
// string markers to track what's already been resolved.
func ExpandBraces(s string) string {
	return expandTokenCartesian(s)
}

// expandTokenCartesian splits s on whitespace/`;`/`|`/`&` preserving the
// delimiters, and for each token containing a flat (non-`$`-prefixed) brace
// pattern computes the cartesian product of its item lists.
func expandTokenCartesian(s string) string {
	tokens, delims := splitPreserveDelims(s)
	var out strings.Builder
	for i, tok := range tokens {
		if strings.Contains(tok, "{") && !strings.HasPrefix(tok, "$") {
			out.WriteString(strings.Join(expandOneToken(tok), " "))
		} else {
			out.WriteString(tok)
		}
		if i < len(delims) {
			out.WriteString(delims[i])
		}
	}
	return out.String()
}

func splitPreserveDelims(s string) (tokens, delims []string) {
	isDelim := func(r byte) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ';' || r == '|' || r == '&'
	}
	start := 0
	for i := 0; i < len(s); i++ {
		if isDelim(s[i]) {
			tokens = append(tokens, s[start:i])
			j := i
			for j < len(s) && isDelim(s[j]) {
				j++
			}
			delims = append(delims, s[i:j])
			i = j - 1
			start = j
		}
	}
	tokens = append(tokens, s[start:])
	return
}

// expandOneToken recursively flattens one token's brace groups into every
// literal string it can produce, in left-to-right, item-major order.
func expandOneToken(tok string) []string {
	open, close, ok := findFlatBrace(tok)
	if !ok {
		return []string{tok}
	}
	prefix := tok[:open]
	suffix := tok[close+1:]
	rawItems := braceItemsOf(tok[open+1 : close])
	if len(rawItems) < 2 {
		// Not a real brace expansion (e.g. `{foo}` with no comma/range):
		// bash leaves it untouched.
		return []string{tok[:open] + "{" + tok[open+1:close] + "}" + suffix}
	}

	var itemExpansions []string
	for _, it := range rawItems {
		itemExpansions = append(itemExpansions, expandOneToken(it)...)
	}
	prefixExpansions := expandOneToken(prefix)
	suffixExpansions := expandOneToken(suffix)

	var results []string
	for _, pre := range prefixExpansions {
		for _, item := range itemExpansions {
			for _, suf := range suffixExpansions {
				results = append(results, pre+item+suf)
			}
		}
	}
	return results
}

// findFlatBrace locates the first top-level `{...}` span in s (one whose
// open/close are at the same nesting depth relative to s), ignoring any
// brace immediately preceded by `$` (arithmetic/variable forms handle those).
func findFlatBrace(s string) (open, close int, ok bool) {
	depth := 0
	open = -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if depth == 0 {
				if i > 0 && s[i-1] == '$' {
					depth++
					continue
				}
				open = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && open != -1 {
				return open, i, true
			}
		}
	}
	return 0, 0, false
}

// braceItemsOf expands the content of a single `{...}` into its item list:
// a numeric range `A..B`, an alpha range `a..z`, or a comma list (splitting
// only on top-level commas, so nested brace groups inside an item survive
// intact for the caller to recurse into).
func braceItemsOf(content string) []string {
	if strings.Contains(content, "..") {
		if idx := topLevelDotDot(content); idx != -1 {
			left, right := content[:idx], content[idx+2:]
			if !strings.ContainsAny(left+right, ",") {
				if items, ok := numericRange(left, right); ok {
					return items
				}
				if items, ok := alphaRange(left, right); ok {
					return items
				}
			}
		}
	}
	return splitTopLevelCommas(content)
}

func topLevelDotDot(s string) int {
	depth := 0
	for i := 0; i < len(s)-1; i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case '.':
			if depth == 0 && s[i+1] == '.' {
				return i
			}
		}
	}
	return -1
}

func splitTopLevelCommas(content string) []string {
	var items []string
	depth := 0
	last := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				items = append(items, content[last:i])
				last = i + 1
			}
		}
	}
	items = append(items, content[last:])
	return items
}

func numericRange(aStr, bStr string) ([]string, bool) {
	a, errA := strconv.Atoi(aStr)
	b, errB := strconv.Atoi(bStr)
	if errA != nil || errB != nil {
		return nil, false
	}
	width := 0
	if (strings.HasPrefix(aStr, "0") && len(aStr) > 1) || (strings.HasPrefix(bStr, "0") && len(bStr) > 1) {
		width = len(aStr)
		if len(bStr) > width {
			width = len(bStr)
		}
	}
	var items []string
	if b >= a {
		for v := a; v <= b; v++ {
			items = append(items, padNum(v, width))
		}
	} else {
		for v := a; v >= b; v-- {
			items = append(items, padNum(v, width))
		}
	}
	return items, true
}

func padNum(v, width int) string {
	s := strconv.Itoa(v)
	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")
	for len(digits) < width {
		digits = "0" + digits
	}
	if neg {
		return "-" + digits
	}
	return digits
}

func alphaRange(aStr, bStr string) ([]string, bool) {
	if len(aStr) != 1 || len(bStr) != 1 {
		return nil, false
	}
	a, b := aStr[0], bStr[0]
	isAlpha := func(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
	if !isAlpha(a) || !isAlpha(b) {
		return nil, false
	}
	var items []string
	if a <= b {
		for c := a; c <= b; c++ {
			items = append(items, string(rune(c)))
			if c == 'z' || c == 'Z' {
				break
			}
		}
	} else {
		for c := a; c >= b; c-- {
			items = append(items, string(rune(c)))
			if c == 0 {
				break
			}
		}
	}
	return items, true
}
