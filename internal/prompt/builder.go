// Package prompt assembles the constrained generation prompt: the base
// spec-driven prompt plus an answer placement map and a requirement
// structure guidance block, injected ahead of the document structure
// marker so the model reads placement rules before the template.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"primusgen/internal/logging"
	"primusgen/internal/mapper"
	"primusgen/internal/question"
	"primusgen/internal/spec"
)

// ErrInsufficientQuestions is returned when the questionnaire is too
// small for grounded generation. The builder refuses to degrade silently
// into ungrounded output.
var ErrInsufficientQuestions = errors.New("insufficient generated questions for grounded generation")

// MinQuestions is the smallest questionnaire that proves the submodule
// spec resolved (the core fields alone are below this threshold).
const MinQuestions = 7

// structureMarker is the heading in the base prompt ahead of which the
// guidance blocks are injected.
const structureMarker = "MANDATORY DOCUMENT STRUCTURE"

// BuildRequest carries everything the builder needs for one document.
type BuildRequest struct {
	Module       *spec.ModuleSpec
	Submodule    *spec.SubmoduleSpec // nil -> generic structure
	DocumentName string
	Questions    []question.Item
	Answers      question.Answers
	Mappings     []mapper.Mapping
}

// Builder assembles generation prompts.
type Builder struct{}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build assembles the full prompt for a generation attempt.
func (b *Builder) Build(req BuildRequest) (string, error) {
	if len(req.Questions) < MinQuestions {
		return "", fmt.Errorf("%w: have %d questions, need at least %d",
			ErrInsufficientQuestions, len(req.Questions), MinQuestions)
	}

	base := b.buildBasePrompt(req)
	guidance := b.placementMap(req) + "\n" + b.structureGuidance(req)

	idx := strings.Index(base, structureMarker)
	if idx == -1 {
		// No known marker: append the guidance instead of injecting it.
		logging.PromptWarn("structure marker not found in base prompt, appending guidance")
		return base + "\n" + guidance, nil
	}
	assembled := base[:idx] + guidance + "\n" + base[idx:]

	logging.Prompt("built prompt: %d bytes, %d mappings, %d questions",
		len(assembled), len(req.Mappings), len(req.Questions))
	return assembled, nil
}

// buildBasePrompt produces the spec-driven base prompt: role, context,
// the full answer set and the mandatory section template.
func (b *Builder) buildBasePrompt(req BuildRequest) string {
	var sb strings.Builder

	sb.WriteString("You are writing a formal food-safety compliance document for a Primus GFS audit.\n")
	sb.WriteString("Write the complete document text and nothing else: no commentary, no questions, no notes about what you did.\n\n")

	if req.DocumentName != "" {
		fmt.Fprintf(&sb, "Document: %s\n", req.DocumentName)
	}
	if req.Module != nil {
		fmt.Fprintf(&sb, "Module %s: %s\n", req.Module.ModuleNumber, req.Module.Name)
	}
	if req.Submodule != nil {
		fmt.Fprintf(&sb, "Submodule %s: %s (%d requirements)\n",
			req.Submodule.Code, req.Submodule.Name, len(req.Submodule.Requirements))
	}
	sb.WriteString("\n")

	sb.WriteString("USER ANSWERS\n")
	sb.WriteString("Use every answer below verbatim in its designated location.\n\n")
	for _, q := range req.Questions {
		raw, ok := req.Answers[q.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %s\n", q.ID, question.FormatAnswer(raw))
	}
	sb.WriteString("\n")

	sb.WriteString(structureMarker + "\n")
	sb.WriteString("The document must contain exactly these numbered sections, in order, each starting on its own line as \"N. Title\":\n\n")
	for _, s := range sectionTemplate(req.Module) {
		fmt.Fprintf(&sb, "%d. %s\n", s.Number, s.Title)
	}
	sb.WriteString("\nSection 15 must end with the signature block:\n")
	sb.WriteString("Prepared By: <name> Date: <date>\n")
	sb.WriteString("Approved By: <name> Date: <date>\n")
	sb.WriteString("Nothing may follow the final Approved By line.\n")

	return sb.String()
}

// placementMap enumerates exactly where each answered value must appear.
func (b *Builder) placementMap(req BuildRequest) string {
	var sb strings.Builder
	sb.WriteString("ANSWER PLACEMENT MAP\n")

	for _, f := range question.CoreFields() {
		raw, ok := req.Answers[f.ID]
		if !ok {
			continue
		}
		value := question.FormatAnswer(raw)
		if value == "" {
			continue
		}
		fmt.Fprintf(&sb, "- %q must appear in Section %d (%s)\n", value, f.Section, f.ID)
	}
	for _, m := range req.Mappings {
		fmt.Fprintf(&sb, "- Requirement %s: place the answer %q under its \"### %s - \" header in Section %d\n",
			m.Code, m.Answer, m.Code, m.SectionNumber)
	}
	return sb.String()
}

// structureGuidance enumerates every mandatory requirement header plus a
// human-readable verification checklist.
func (b *Builder) structureGuidance(req BuildRequest) string {
	if len(req.Mappings) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("REQUIREMENT STRUCTURE GUIDANCE\n")
	sb.WriteString("Each requirement below must have its own subsection header of the exact form \"### <code> - <title>\":\n\n")
	for _, m := range req.Mappings {
		title := requirementTitle(m)
		fmt.Fprintf(&sb, "### %s - %s (Section %d)\n", m.Code, title, m.SectionNumber)
	}

	sb.WriteString("\nVerification checklist before you finish:\n")
	fmt.Fprintf(&sb, "- [ ] All %d requirement headers present\n", len(req.Mappings))
	sb.WriteString("- [ ] Every user answer appears verbatim in its mapped location\n")
	sb.WriteString("- [ ] All 15 numbered sections present and non-empty\n")
	sb.WriteString("- [ ] Document ends at the Approved By signature line\n")
	return sb.String()
}

func requirementTitle(m mapper.Mapping) string {
	// Question text is "CODE — Title"; strip the code prefix when present.
	if i := strings.Index(m.Question, "—"); i != -1 {
		return strings.TrimSpace(m.Question[i+len("—"):])
	}
	if m.RequirementText != "" && len(m.RequirementText) < 80 {
		return m.RequirementText
	}
	return "Requirement"
}

// defaultSections is the generic 15-section skeleton used when no module
// template is available.
var defaultSections = []spec.SectionTemplate{
	{Number: 1, Title: "Purpose"},
	{Number: 2, Title: "Policy"},
	{Number: 3, Title: "Scope"},
	{Number: 4, Title: "Definitions"},
	{Number: 5, Title: "Roles and Responsibilities"},
	{Number: 6, Title: "Materials and Equipment"},
	{Number: 7, Title: "Hazard Analysis"},
	{Number: 8, Title: "Procedures"},
	{Number: 9, Title: "Monitoring"},
	{Number: 10, Title: "Verification"},
	{Number: 11, Title: "Corrective Actions"},
	{Number: 12, Title: "Traceability"},
	{Number: 13, Title: "Records"},
	{Number: 14, Title: "References"},
	{Number: 15, Title: "Approval"},
}

func sectionTemplate(m *spec.ModuleSpec) []spec.SectionTemplate {
	if m != nil && len(m.DocumentStructureTemplate) > 0 {
		return m.DocumentStructureTemplate
	}
	return defaultSections
}

// TokenBudget sizes the generation budget from the requirement count:
// more requirements need proportionally more output to avoid truncation.
func TokenBudget(requirementCount int) int {
	if requirementCount >= 20 {
		return 35000
	}
	return 25000
}
