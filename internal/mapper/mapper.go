// Package mapper joins answered questions to their regulatory requirement
// codes and assigns each mapping to one of the 15 fixed document sections.
// Mappings are built fresh per generation call and never persisted.
package mapper

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"primusgen/internal/logging"
	"primusgen/internal/question"
	"primusgen/internal/spec"
)

// Mapping links one answered question to its requirement code and its
// target document section.
type Mapping struct {
	Code            string `json:"code"`
	QuestionID      string `json:"question_id"`
	Answer          string `json:"answer"`
	Question        string `json:"question"`
	RequirementText string `json:"requirement_text"`
	SectionNumber   int    `json:"section_number"`
}

var requirementIDPattern = regexp.MustCompile(`^requirement_(\d+)_(\d+)_(\d+)([a-z]?)$`)

// ExtractRequirementCode converts a requirement question ID to the
// canonical M.SS.RR[suffix] form. requirement_2_03_04b -> "2.03.04b".
func ExtractRequirementCode(questionID string) (string, bool) {
	m := requirementIDPattern.FindStringSubmatch(questionID)
	if m == nil {
		return "", false
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	sub, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%d.%02d.%02d%s", major, minor, sub, m[4]), true
}

// sectionRule routes requirement text to a document section. The cascade
// is ordered: the first matching rule wins, so text containing both
// "policy" and "monitor" resolves to section 2.
type sectionRule struct {
	keywords []string
	section  int
}

var sectionCascade = []sectionRule{
	{[]string{"policy", "policies", "commitment"}, 2},
	{[]string{"monitor", "inspection", "check", "frequency"}, 9},
	{[]string{"record", "log", "documentation", "retention"}, 13},
	{[]string{"verif", "audit", "review", "validate"}, 10},
	{[]string{"corrective", "capa", "deviation", "non-conformance", "nonconformance"}, 11},
	{[]string{"hazard", "risk", "assessment", "analysis"}, 7},
	{[]string{"responsib", "role", "personnel", "training", "designated"}, 5},
	{[]string{"traceab", "recall", "lot", "identification"}, 12},
}

const defaultSection = 8 // Procedures

// AssignSection picks the target section for a requirement's combined
// question and requirement text.
func AssignSection(text string) int {
	lower := strings.ToLower(text)
	for _, rule := range sectionCascade {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.section
			}
		}
	}
	return defaultSection
}

// MapAnswersToRequirements builds the requirement mappings for a
// generation call. Core-field answers are skipped; requirement text is
// resolved from the loaded spec, falling back to the question text with a
// logged warning when the spec is unavailable. Output is sorted ascending
// by (major, minor, sub) regardless of input order.
func MapAnswersToRequirements(
	loader *spec.Loader,
	answers question.Answers,
	questions []question.Item,
	moduleNumber, documentName, subModuleName string,
) []Mapping {
	byID := make(map[string]question.Item, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	var sub *spec.SubmoduleSpec
	if loader != nil {
		sub = loader.FindSubmoduleSpecByName(moduleNumber, documentName, subModuleName)
	}
	reqText := make(map[string]string)
	if sub != nil {
		for _, r := range sub.Requirements {
			reqText[r.Code] = r.Text
		}
	}

	var mappings []Mapping
	for id, raw := range answers {
		if question.IsCoreField(id) {
			continue
		}
		code, ok := ExtractRequirementCode(id)
		if !ok {
			continue
		}

		q := byID[id]
		text, found := reqText[code]
		if !found {
			logging.MapperWarn("requirement %s not in spec, falling back to question text", code)
			text = q.Question
		}

		mappings = append(mappings, Mapping{
			Code:            code,
			QuestionID:      id,
			Answer:          question.FormatAnswer(raw),
			Question:        q.Question,
			RequirementText: text,
			SectionNumber:   AssignSection(q.Question + " " + text),
		})
	}

	sort.Slice(mappings, func(i, j int) bool {
		return spec.CompareCodes(mappings[i].Code, mappings[j].Code) < 0
	})

	logging.Mapper("mapped %d requirement answers for module %s", len(mappings), moduleNumber)
	return mappings
}
