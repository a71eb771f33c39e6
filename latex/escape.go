package latex

import (
	"regexp"
	"strings"
)

// escapeReplacer handles the LaTeX special characters in a single
// left-to-right pass, so the backslashes it inserts are never escaped
// again.
var escapeReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`_`, `\_`,
	`#`, `\#`,
	`%`, `\%`,
	`&`, `\&`,
	`$`, `\$`,
	`~`, `\~{}`,
	`^`, `\^{}`,
	`"`, ``,
	`/`, `\/`,
)

// Three or more dots render as an ellipsis.
var ellipsisRe = regexp.MustCompile(`\.{3,}`)

// Escape renders arbitrary text safe for LaTeX. Special characters are
// escaped, double quotes are dropped, and dotted ellipses become
// \ldots. Paths handed to \includegraphics or \input must not be
// escaped; keep them free of special characters instead.
func Escape(text string) string {
	out := escapeReplacer.Replace(text)
	return ellipsisRe.ReplaceAllString(out, `\ldots{}`)
}
