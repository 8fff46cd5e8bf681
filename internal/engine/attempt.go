package engine

import (
	"fmt"
	"strings"

	"primusgen/internal/validate"
)

// Outcome classifies one generation attempt.
type Outcome int

const (
	// OutcomeAccept means the document passed every gate.
	OutcomeAccept Outcome = iota
	// OutcomeRetry means validation failed recoverably; Feedback carries
	// the corrective block for the next prompt.
	OutcomeRetry
	// OutcomeFail means the attempt hit an unrecoverable condition.
	OutcomeFail
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccept:
		return "accept"
	case OutcomeRetry:
		return "retry"
	case OutcomeFail:
		return "fail"
	default:
		return "unknown"
	}
}

// AttemptResult is the typed outcome of one generation attempt.
type AttemptResult struct {
	Outcome  Outcome
	Document string // set on accept
	Feedback string // set on retry
	Reason   string // human-readable failure summary
}

// NextPrompt derives the prompt for the next attempt from the base prompt
// and the validator's feedback. Pure function: the retry policy is
// testable without invoking the model. Feedback is always appended to the
// base prompt, never to the previous augmented prompt, so corrections do
// not compound across attempts.
func NextPrompt(basePrompt, feedback string) string {
	if feedback == "" {
		return basePrompt
	}
	return basePrompt + "\n\nPREVIOUS ATTEMPT REJECTED\n" + feedback +
		"\nRegenerate the complete document with these corrections applied.\n"
}

// forbiddenFeedback surfaces each offending snippet to the next prompt.
func forbiddenFeedback(scan *validate.ForbiddenScan) string {
	var sb strings.Builder
	sb.WriteString("Your previous output contained text that must never appear in a compliance document:\n")
	for _, m := range scan.CriticalMatches() {
		fmt.Fprintf(&sb, "- %s: %q\n", m.Description, m.Snippet)
	}
	sb.WriteString("Write only the document itself. Do not describe, summarize or comment on your work.")
	return sb.String()
}

// missingAnswerFeedback enumerates exactly what is missing and where each
// item must go.
func missingAnswerFeedback(errs []validate.Error) string {
	var sb strings.Builder
	sb.WriteString("Your previous output was missing required content:\n")
	n := 0
	for _, e := range errs {
		switch e.Type {
		case validate.ErrMissingAnswer, validate.ErrMissingHeader:
			n++
			fmt.Fprintf(&sb, "%d. %s\n", n, e.Message)
		}
	}
	sb.WriteString("Include every listed item verbatim in its designated location.")
	return sb.String()
}

// structureFeedback re-states the full section checklist with an
// instruction to compress rather than omit.
func structureFeedback(errs []validate.Error, sectionCount int) string {
	var sb strings.Builder
	sb.WriteString("Your previous output did not satisfy the mandatory document structure:\n")
	for _, e := range errs {
		fmt.Fprintf(&sb, "- %s\n", e.Message)
	}
	fmt.Fprintf(&sb, "All %d numbered sections are mandatory. ", sectionCount)
	sb.WriteString("If you are running out of room, compress the prose in each section; never omit a section.")
	return sb.String()
}
