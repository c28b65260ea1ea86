package preprocess

import "regexp"

// tildeRe matches `~/` (or a bare `~` ending the string) at the very start
// of the string or after whitespace or one of `;|&(`.
var tildeRe = regexp.MustCompile(`(^|[\s;|&(])~(/|$)`)

// ExpandTilde rewrites a leading `~/` to home+"/" (or bare `~` to home).
// The calibration choice here — expanding to the virtual Claude home rather
// than the Windows user profile — is made by the caller, which passes that
// directory as home; spec.md §9 leaves it as an explicit open question.
func ExpandTilde(s, home string) string {
	return tildeRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := tildeRe.FindStringSubmatch(m)
		lead, tail := sub[1], sub[2]
		return lead + home + tail
	})
}
