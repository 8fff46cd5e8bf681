package validate

import (
	"fmt"
	"strings"

	"primusgen/internal/mapper"
	"primusgen/internal/question"
)

// ValidateAnswersPresent confirms that every core field's formatted value
// appears in the document (approved_by specifically within Section 15)
// and that a "### {code} - " header exists for every requirement mapping.
func ValidateAnswersPresent(document string, answers question.Answers, mappings []mapper.Mapping) *Result {
	result := &Result{Valid: true}

	for _, field := range question.CoreFields() {
		raw, ok := answers[field.ID]
		if !ok {
			continue
		}
		value := question.FormatAnswer(raw)
		if value == "" {
			continue
		}

		haystack := document
		where := "document"
		if field.ID == "approved_by" {
			haystack = SectionText(document, 15)
			where = "Section 15"
		}
		if !strings.Contains(haystack, value) {
			result.AddError(Error{
				Type:     ErrMissingAnswer,
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("answer for %s (%q) not found in %s", field.ID, value, where),
				Context:  field.ID,
			})
		}
	}

	for _, m := range mappings {
		header := "### " + m.Code + " - "
		if !strings.Contains(document, header) {
			result.AddError(Error{
				Type:     ErrMissingHeader,
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("missing requirement header %q", strings.TrimSpace(header)),
				Context:  m.Code,
			})
		}
	}

	return result
}
