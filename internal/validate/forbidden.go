package validate

import (
	"strings"

	"primusgen/internal/logging"
)

// ForbiddenScan is the outcome of a forbidden-pattern pass.
type ForbiddenScan struct {
	HasForbiddenPatterns bool
	Matches              []ForbiddenMatch
}

// ForbiddenMatch records one pattern hit with surrounding context.
type ForbiddenMatch struct {
	Description string
	Severity    Severity
	Snippet     string
	LineNumber  int
}

// CriticalMatches returns only the CRITICAL hits.
func (s *ForbiddenScan) CriticalMatches() []ForbiddenMatch {
	var out []ForbiddenMatch
	for _, m := range s.Matches {
		if m.Severity == SeverityCritical {
			out = append(out, m)
		}
	}
	return out
}

// CheckForbiddenPatterns scans the document against the vocabulary's
// forbidden-pattern table. Any CRITICAL hit means the attempt must be
// discarded and retried with the offending snippet surfaced to the model.
func (v *Vocabulary) CheckForbiddenPatterns(document string) *ForbiddenScan {
	scan := &ForbiddenScan{}
	for _, p := range v.ForbiddenPatterns {
		loc := p.Regexp.FindStringIndex(document)
		if loc == nil {
			continue
		}
		match := ForbiddenMatch{
			Description: p.Description,
			Severity:    p.Severity,
			Snippet:     snippetAround(document, loc[0], loc[1]),
			LineNumber:  1 + strings.Count(document[:loc[0]], "\n"),
		}
		scan.Matches = append(scan.Matches, match)
		if p.Severity == SeverityCritical {
			scan.HasForbiddenPatterns = true
		}
		logging.ValidationWarn("forbidden pattern (%s) at line %d: %s",
			p.Severity, match.LineNumber, p.Description)
	}
	return scan
}

// snippetAround returns the match plus a little surrounding context,
// clipped to line boundaries where possible.
func snippetAround(document string, start, end int) string {
	const margin = 40
	lo := start - margin
	if lo < 0 {
		lo = 0
	}
	hi := end + margin
	if hi > len(document) {
		hi = len(document)
	}
	snippet := document[lo:hi]
	if i := strings.LastIndex(snippet[:start-lo], "\n"); i != -1 {
		snippet = snippet[i+1:]
	}
	if i := strings.Index(snippet, "\n"); i != -1 && i > end-start {
		snippet = snippet[:i]
	}
	return strings.TrimSpace(snippet)
}
