// Package question generates the questionnaire for a document request and
// formats user answers for placement in the generated document. The core
// fields are fixed and ordered; extension questions derive from the
// resolved submodule's requirement codes.
package question

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"primusgen/internal/logging"
	"primusgen/internal/spec"
)

// Type enumerates the supported answer types.
type Type string

const (
	TypeText    Type = "text"
	TypeBoolean Type = "boolean"
	TypeDate    Type = "date"
	TypeNumber  Type = "number"
)

// Item is a single question presented to the user. Immutable once
// generated for a request.
type Item struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Type          Type     `json:"type"`
	Hint          string   `json:"hint,omitempty"`
	ChecklistRefs []string `json:"checklist_refs,omitempty"`
}

// Answers maps question IDs to raw answer values (string, bool, float64,
// int or time.Time).
type Answers map[string]interface{}

// CoreField describes a fixed question plus where its formatted answer
// must appear in the generated document.
type CoreField struct {
	ID       string
	Question string
	Type     Type
	Section  int // Document section the answer must land in
}

// CoreFields returns the fixed, ordered core questions. Every document
// request carries these regardless of which submodule resolves.
func CoreFields() []CoreField {
	return []CoreField{
		{ID: "company_name", Question: "What is the company name?", Type: TypeText, Section: 1},
		{ID: "facility_location", Question: "Where is the facility located?", Type: TypeText, Section: 1},
		{ID: "effective_date", Question: "What is the document's effective date?", Type: TypeDate, Section: 1},
		{ID: "review_date", Question: "When is the next scheduled review?", Type: TypeDate, Section: 13},
		{ID: "prepared_by", Question: "Who prepared this document?", Type: TypeText, Section: 15},
		{ID: "approved_by", Question: "Who approves this document?", Type: TypeText, Section: 15},
	}
}

// IsCoreField reports whether a question ID belongs to the fixed core set.
func IsCoreField(id string) bool {
	for _, f := range CoreFields() {
		if f.ID == id {
			return true
		}
	}
	return false
}

// RequirementQuestionID builds the question ID for a requirement code,
// e.g. "5.12.03a" -> "requirement_5_12_03a".
func RequirementQuestionID(code string) string {
	return "requirement_" + strings.ReplaceAll(code, ".", "_")
}

// Generate builds the full questionnaire for a resolved submodule: the
// fixed core fields followed by one question per requirement, in code
// order. With a nil submodule only the core fields are produced, which is
// below the generation threshold by design.
func Generate(sub *spec.SubmoduleSpec, checklist *spec.Checklist) []Item {
	items := make([]Item, 0, len(CoreFields()))
	for _, f := range CoreFields() {
		items = append(items, Item{ID: f.ID, Question: f.Question, Type: f.Type})
	}
	if sub == nil {
		return items
	}

	refs := checklistIndex(checklist)
	for _, req := range sub.Requirements {
		qType := TypeBoolean
		if strings.Contains(strings.ToLower(req.Text), "describe") ||
			strings.Contains(strings.ToLower(req.Text), "list") {
			qType = TypeText
		}
		// Fresh slice: the requirement belongs to the cached spec and must
		// never share a backing array with the generated item.
		var combined []string
		if n := len(req.ChecklistRefs) + len(refs[req.Code]); n > 0 {
			combined = make([]string, 0, n)
			combined = append(combined, req.ChecklistRefs...)
			combined = append(combined, refs[req.Code]...)
		}
		items = append(items, Item{
			ID:            RequirementQuestionID(req.Code),
			Question:      fmt.Sprintf("%s — %s", req.Code, req.Title),
			Type:          qType,
			Hint:          req.Text,
			ChecklistRefs: combined,
		})
	}

	logging.Question("generated %d questions for submodule %s", len(items), sub.Code)
	return items
}

func checklistIndex(c *spec.Checklist) map[string][]string {
	idx := make(map[string][]string)
	if c == nil {
		return idx
	}
	for _, item := range c.Items {
		idx[item.Code] = append(idx[item.Code], item.Text)
	}
	return idx
}

// FormatAnswer renders a raw answer value the way it must appear in the
// generated document: booleans as Yes/No, dates long-form, numbers plain.
func FormatAnswer(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case time.Time:
		return v.Format("January 2, 2006")
	case string:
		return strings.TrimSpace(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
