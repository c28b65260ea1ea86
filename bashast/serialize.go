package bashast

import "strings"

// Serialize renders an AST back into a command string. It does not aim to
// reproduce the original byte-for-byte, only to reparse into an equivalent
// (ordering-preserving-normalized) AST — see Parse.
func Serialize(n Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case SimpleCommand:
		writeSimpleCommand(b, v)
	case Pipeline:
		for i, c := range v.Commands {
			if i > 0 {
				b.WriteString(" | ")
			}
			writeNode(b, c)
		}
	case AndList:
		writeNode(b, v.Left)
		b.WriteString(" && ")
		writeNode(b, v.Right)
	case OrList:
		writeNode(b, v.Left)
		b.WriteString(" || ")
		writeNode(b, v.Right)
	case Sequence:
		for i, c := range v.Commands {
			if i > 0 {
				b.WriteString("; ")
			}
			writeNode(b, c)
		}
	case Subshell:
		b.WriteString("(")
		writeNode(b, v.Command)
		b.WriteString(")")
	case CommandGroup:
		b.WriteString("{ ")
		writeNode(b, v.Command)
		b.WriteString("; }")
	case Background:
		writeNode(b, v.Command)
		b.WriteString(" &")
	case ProcessSubstitution:
		if v.Direction == ProcSubOut {
			b.WriteString(">(")
		} else {
			b.WriteString("<(")
		}
		writeNode(b, v.Command)
		b.WriteString(")")
	}
}

func writeSimpleCommand(b *strings.Builder, c SimpleCommand) {
	parts := []string{}
	if c.Command != "" {
		parts = append(parts, quoteWord(c.Command))
	}
	for _, a := range c.Args {
		parts = append(parts, quoteWord(a))
	}
	b.WriteString(strings.Join(parts, " "))
	for _, r := range c.Redirects {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(redirectOpText(r))
		if r.Op != RedirErrToOut {
			b.WriteString(" ")
			b.WriteString(quoteWord(r.Target))
		}
	}
}

// quoteWord re-wraps a dequoted word in double quotes when writing it back
// out would otherwise change its meaning (it's empty, or it contains
// whitespace or a lexer metacharacter that would split it into more than
// one token on reparse) — keeps Parse(Serialize(ast)) stable, the same
// token boundary a WORD had before lexWord stripped its quotes.
func quoteWord(s string) string {
	if !wordNeedsQuoting(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func wordNeedsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', ';', '|', '&', '(', ')', '{', '}', '<', '>', '\'', '"', '\\':
			return true
		}
	}
	return false
}

func redirectOpText(r Redirect) string {
	switch r.Op {
	case RedirOutWrite:
		return ">"
	case RedirOutAppend:
		return ">>"
	case RedirIn:
		return "<"
	case RedirErrWrite:
		if r.FD != nil {
			return itoa(*r.FD) + ">"
		}
		return "2>"
	case RedirErrToOut:
		fd := 2
		if r.FD != nil {
			fd = *r.FD
		}
		return itoa(fd) + ">&1"
	case RedirBoth:
		return "&>"
	}
	return ">"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}
