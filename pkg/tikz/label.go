package tikz

import (
	"regexp"
	"strings"
)

var (
	textbfBraceRe = regexp.MustCompile(`\\textbf\{([^}]+)\}`)
	textbfBareRe  = regexp.MustCompile(`\\textbf([^{])`)
	smallRe       = regexp.MustCompile(`\\+small\s*`)
	cmdBraceRe    = regexp.MustCompile(`\\[a-zA-Z]+\{([^}]*)\}`)
	cmdBareRe     = regexp.MustCompile(`\\[a-zA-Z]+\s*`)
)

// normalizeLabel resolves the recognized LaTeX markup of a label body into
// plain display text with explicit line breaks.
//
// Handled, in order: \textbf{X} keeps X, \small starts a new line, a bare \\
// line break becomes a newline, any remaining \cmd{X} keeps X, remaining
// commands and stray backslashes are dropped.
func normalizeLabel(s string) string {
	for strings.Contains(s, `\textbf`) {
		prev := s
		s = textbfBraceRe.ReplaceAllString(s, "$1")
		s = textbfBareRe.ReplaceAllString(s, "$1")
		if s == prev {
			break
		}
	}
	s = smallRe.ReplaceAllString(s, "\n")
	s = breakLines(s)
	s = cmdBraceRe.ReplaceAllString(s, "$1")
	s = cmdBareRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, `\`, "")
	return strings.TrimSpace(s)
}

// breakLines converts a literal \\ into a newline, leaving longer backslash
// runs (escaped backslashes) for the later cleanup passes.
func breakLines(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '\\' && (i+2 >= len(s) || s[i+2] != '\\') {
			b.WriteByte('\n')
			i += 2
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
