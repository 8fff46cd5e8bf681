package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var structureHeaderPattern = regexp.MustCompile(`(?m)^(\d{1,2})\.\s+[A-Z]`)

// SectionText returns the body of the numbered top-level section,
// including its header line. Empty string when the section is absent.
func SectionText(document string, section int) string {
	locs := structureHeaderPattern.FindAllStringSubmatchIndex(document, -1)
	for i, loc := range locs {
		num, _ := strconv.Atoi(document[loc[2]:loc[3]])
		if num != section {
			continue
		}
		end := len(document)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		return document[loc[0]:end]
	}
	return ""
}

// PresentSections returns the set of top-level section numbers found.
func PresentSections(document string) map[int]bool {
	present := make(map[int]bool)
	for _, m := range structureHeaderPattern.FindAllStringSubmatch(document, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			present[n] = true
		}
	}
	return present
}

// ValidateStructure enforces the mandatory document skeleton: every
// numbered section present and a minimum total word count as an
// incompleteness signal.
func (v *Vocabulary) ValidateStructure(document string) *Result {
	result := &Result{Valid: true}

	present := PresentSections(document)
	var missing []string
	for n := 1; n <= v.SectionCount; n++ {
		if !present[n] {
			missing = append(missing, strconv.Itoa(n))
		}
	}
	if len(missing) > 0 {
		result.AddError(Error{
			Type:     ErrIncompleteSection,
			Severity: SeverityCritical,
			Message: fmt.Sprintf("document has %d of %d mandatory sections; missing: %s",
				v.SectionCount-len(missing), v.SectionCount, strings.Join(missing, ", ")),
			Context: strings.Join(missing, ","),
		})
	}

	words := len(strings.Fields(document))
	if words < v.MinWordCount {
		result.AddError(Error{
			Type:     ErrTooShort,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("document has %d words, minimum is %d", words, v.MinWordCount),
		})
	}

	return result
}
