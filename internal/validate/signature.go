package validate

import (
	"regexp"
	"strings"

	"primusgen/internal/logging"
)

// signaturePattern matches an "Approved By: ... Date: ..." block, either
// on one line or with Date on the following line.
var signaturePattern = regexp.MustCompile(`Approved By:[^\n]*(?:Date:[^\n]*|\n\s*Date:[^\n]*)`)

// CutoffAfterSignatures truncates the document after the last full
// signature block, but only when forbidden post-signature markers follow
// it. This is a conservative policy: legitimate trailing prose is left
// untouched; truncation requires positive evidence of contamination.
func (v *Vocabulary) CutoffAfterSignatures(document string) (string, bool) {
	locs := signaturePattern.FindAllStringIndex(document, -1)
	if len(locs) == 0 {
		return document, false
	}

	cut := locs[len(locs)-1][1]
	trailing := document[cut:]
	if strings.TrimSpace(trailing) == "" {
		return document, false
	}

	for _, marker := range v.PostSignatureMarkers {
		if strings.Contains(trailing, marker) {
			logging.Validation("post-signature contamination (%q): truncating %d bytes", marker, len(trailing))
			return strings.TrimRight(document[:cut], " \t") + "\n", true
		}
	}
	return document, false
}
