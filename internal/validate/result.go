// Package validate implements the output validation and sanitization
// pipeline for generated compliance documents: forbidden-pattern
// scanning, cleanup, signature-boundary truncation, answer placement and
// structural checks. Pattern vocabulary is data-driven and overridable
// from a YAML file so the engine is not welded to one regulatory
// framework's wording.
package validate

// Severity grades a validation error.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
)

// ErrorType classifies a validation error.
type ErrorType string

const (
	ErrForbiddenPattern  ErrorType = "forbidden_pattern"
	ErrMissingAnswer     ErrorType = "missing_answer"
	ErrMissingHeader     ErrorType = "missing_requirement_header"
	ErrIncompleteSection ErrorType = "incomplete_sections"
	ErrTooShort          ErrorType = "too_short"
)

// Error is one validation finding.
type Error struct {
	Type       ErrorType `json:"type"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Context    string    `json:"context,omitempty"`
	LineNumber int       `json:"line_number,omitempty"`
}

// Result is the outcome of one validation pass. Transient: one per
// generation attempt.
type Result struct {
	Valid           bool     `json:"valid"`
	Errors          []Error  `json:"errors"`
	Warnings        []string `json:"warnings"`
	SanitizedOutput string   `json:"sanitized_output,omitempty"`
}

// AddError appends a finding and clears Valid.
func (r *Result) AddError(e Error) {
	r.Errors = append(r.Errors, e)
	r.Valid = false
}

// CriticalErrors returns only the CRITICAL findings.
func (r *Result) CriticalErrors() []Error {
	var out []Error
	for _, e := range r.Errors {
		if e.Severity == SeverityCritical {
			out = append(out, e)
		}
	}
	return out
}
