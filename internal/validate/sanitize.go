package validate

import (
	"regexp"
	"strings"
)

var (
	codeFencePattern  = regexp.MustCompile("(?m)^```[a-zA-Z]*\\s*$")
	xmlTagPattern     = regexp.MustCompile(`</?(?:document|output|response|result|text|answer)>`)
	blankRunPattern   = regexp.MustCompile(`\n{4,}`)
	trailingWSPattern = regexp.MustCompile(`(?m)[ \t]+$`)
	boldMarkerPattern = regexp.MustCompile(`\*{3,}`)
)

// Sanitize strips generation artifacts that are always safe to remove:
// stray code fences, leaked XML wrapper tags, runs of more than three
// blank lines, trailing whitespace. Idempotent and never a cause for
// rejection.
func Sanitize(document string) string {
	out := document
	out = codeFencePattern.ReplaceAllString(out, "")
	out = xmlTagPattern.ReplaceAllString(out, "")
	out = boldMarkerPattern.ReplaceAllString(out, "")
	out = trailingWSPattern.ReplaceAllString(out, "")
	out = blankRunPattern.ReplaceAllString(out, "\n\n\n")
	return strings.TrimSpace(out) + "\n"
}
