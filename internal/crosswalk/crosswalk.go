// Package crosswalk builds the post-hoc compliance crosswalk: a table
// mapping each requirement of the resolved submodule to evidence of its
// fulfillment (or a gap) within a finished document, plus a blended
// compliance summary score.
package crosswalk

import (
	"strings"

	"primusgen/internal/logging"
	"primusgen/internal/microrule"
	"primusgen/internal/spec"
	"primusgen/internal/validate"
)

// Status classifies one crosswalk entry.
type Status string

const (
	StatusFulfilled Status = "FULFILLED"
	StatusGap       Status = "GAP"
)

// Entry is one requirement's row in the crosswalk.
type Entry struct {
	Code            string   `json:"code"`
	Title           string   `json:"title"`
	Mandatory       bool     `json:"mandatory"`
	Status          Status   `json:"status"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	Remediation     string   `json:"remediation,omitempty"`
}

// Report is the full crosswalk over a document.
type Report struct {
	ModuleNumber string  `json:"module_number"`
	Submodule    string  `json:"submodule,omitempty"`
	Entries      []Entry `json:"entries"`
	Fulfilled    int     `json:"fulfilled"`
	Gaps         int     `json:"gaps"`
}

// Generate keyword-matches every requirement of the resolved submodule
// against the document. The threshold rule: requirements with one or two
// keywords need a single hit; larger keyword sets need two. This avoids
// false positives from common-word requirements without over-penalizing
// short keyword lists.
func Generate(loader *spec.Loader, document, moduleNumber, documentName, subModuleName string) (*Report, error) {
	report := &Report{ModuleNumber: moduleNumber}

	sub := loader.FindSubmoduleSpecByName(moduleNumber, documentName, subModuleName)
	if sub == nil {
		logging.Compliance("crosswalk: no submodule resolved for %q, empty report", documentName)
		return report, nil
	}
	report.Submodule = sub.Code

	lower := strings.ToLower(document)
	for _, req := range sub.Requirements {
		keywords := requirementKeywords(req)
		var matched []string
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				matched = append(matched, kw)
			}
		}

		entry := Entry{
			Code:            req.Code,
			Title:           req.Title,
			Mandatory:       req.Mandatory,
			MatchedKeywords: matched,
		}
		if len(matched) >= matchThreshold(len(keywords)) {
			entry.Status = StatusFulfilled
			report.Fulfilled++
		} else {
			entry.Status = StatusGap
			entry.Remediation = remediation(req)
			report.Gaps++
		}
		report.Entries = append(report.Entries, entry)
	}

	logging.Compliance("crosswalk %s: %d fulfilled, %d gaps", sub.Code, report.Fulfilled, report.Gaps)
	return report, nil
}

// matchThreshold returns the hits required for fulfillment.
func matchThreshold(keywordCount int) int {
	if keywordCount > 2 {
		return 2
	}
	return 1
}

// requirementKeywords uses the spec's keyword set, deriving one from the
// title when the spec carries none.
func requirementKeywords(req spec.Requirement) []string {
	if len(req.Keywords) > 0 {
		return req.Keywords
	}
	var out []string
	for _, word := range strings.Fields(strings.ToLower(req.Title)) {
		word = strings.Trim(word, ".,;:()")
		if len(word) > 3 {
			out = append(out, word)
		}
		if len(out) == 4 {
			break
		}
	}
	return out
}

func remediation(req spec.Requirement) string {
	if req.Mandatory {
		return "Mandatory requirement " + req.Code + " is not evidenced in the document. " +
			"Add a procedure covering: " + req.Title + "."
	}
	return "Optional requirement " + req.Code + " (" + req.Title + ") is not addressed; " +
		"document it if applicable to this operation."
}

// SummaryWeights are the blend percentages for the compliance score.
const (
	weightCrosswalk   = 0.40
	weightLint        = 0.30
	weightStructure   = 0.20
	weightPlaceholder = 0.10
)

// Summary blends crosswalk fulfillment, lint cleanliness, structural
// validity and placeholder absence into a single 0-100 score.
func Summary(document string, report *Report, lint *microrule.LintReport, vocab *validate.Vocabulary) int {
	crosswalkScore := 1.0
	if report != nil && len(report.Entries) > 0 {
		crosswalkScore = float64(report.Fulfilled) / float64(len(report.Entries))
	}

	lintScore := 1.0
	if lint != nil && lint.CheckedRules > 0 {
		dirty := len(lint.InsertedIDs) + len(lint.MissingIDs)
		lintScore = 1.0 - float64(dirty)/float64(lint.CheckedRules)
		if lintScore < 0 {
			lintScore = 0
		}
	}

	structureScore := 0.0
	if vocab.ValidateStructure(document).Valid {
		structureScore = 1.0
	} else {
		present := len(validate.PresentSections(document))
		structureScore = float64(present) / float64(vocab.SectionCount)
		if structureScore > 1 {
			structureScore = 1
		}
	}

	placeholderScore := 1.0
	if vocab.CountPlaceholders(document) > 0 {
		placeholderScore = 0.0
	}

	score := 100 * (crosswalkScore*weightCrosswalk +
		lintScore*weightLint +
		structureScore*weightStructure +
		placeholderScore*weightPlaceholder)
	return int(score + 0.5)
}
