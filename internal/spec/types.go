// Package spec loads the hierarchical regulatory requirement taxonomy
// (module -> submodule -> optional sub-submodule -> requirements) from
// static JSON files and caches it for the lifetime of the process.
package spec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RequirementCodePattern matches canonical requirement codes: M.SS.RR with
// an optional lowercase suffix, e.g. "5.12.03" or "2.03.04b".
var RequirementCodePattern = regexp.MustCompile(`\d+\.\d{2}\.\d+[a-z]?`)

// Requirement is a single auditable requirement within a submodule.
type Requirement struct {
	Code          string   `json:"code"`
	Title         string   `json:"title"`
	Text          string   `json:"text"`
	Mandatory     bool     `json:"mandatory"`
	Keywords      []string `json:"keywords,omitempty"`
	ChecklistRefs []string `json:"checklist_refs,omitempty"`
}

// SectionTemplate describes one of the 15 mandatory document sections.
type SectionTemplate struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// SubmoduleRef is a lightweight pointer to a submodule within a ModuleSpec.
type SubmoduleRef struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

// ModuleSpec is the top level of the taxonomy.
type ModuleSpec struct {
	ModuleNumber              string            `json:"module_number"`
	Name                      string            `json:"name"`
	Description               string            `json:"description,omitempty"`
	DocumentStructureTemplate []SectionTemplate `json:"document_structure_template"`
	Submodules                []SubmoduleRef    `json:"submodules"`
}

// SubmoduleSpec holds the requirements for one submodule. When a submodule
// is split into sub-submodule files on disk, the loader synthesizes a
// virtual SubmoduleSpec with the concatenated requirements and
// HasSubSubmodules set.
type SubmoduleSpec struct {
	ModuleNumber     string        `json:"module_number"`
	Code             string        `json:"code"`
	Name             string        `json:"name"`
	Aliases          []string      `json:"aliases,omitempty"`
	Requirements     []Requirement `json:"requirements"`
	HasSubSubmodules bool          `json:"has_sub_submodules,omitempty"`
}

// Checklist carries the audit checklist items for a module.
type Checklist struct {
	ModuleNumber string          `json:"module_number"`
	Items        []ChecklistItem `json:"items"`
}

// ChecklistItem is one checklist line, keyed by requirement code.
type ChecklistItem struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// CodeParts splits a canonical requirement code into its numeric components
// plus the optional letter suffix. Returns an error for malformed codes.
func CodeParts(code string) (major, minor, sub int, suffix string, err error) {
	m := codePartsPattern.FindStringSubmatch(code)
	if m == nil {
		return 0, 0, 0, "", fmt.Errorf("malformed requirement code %q", code)
	}
	major, _ = strconv.Atoi(m[1])
	minor, _ = strconv.Atoi(m[2])
	sub, _ = strconv.Atoi(m[3])
	return major, minor, sub, m[4], nil
}

var codePartsPattern = regexp.MustCompile(`^(\d+)\.(\d{2})\.(\d+)([a-z]?)$`)

// CompareCodes orders two requirement codes ascending by (major, minor,
// sub) with the letter suffix as the final tiebreak. Malformed codes sort
// after well-formed ones.
func CompareCodes(a, b string) int {
	am, an, as, asuf, aerr := CodeParts(a)
	bm, bn, bs, bsuf, berr := CodeParts(b)
	if aerr != nil || berr != nil {
		switch {
		case aerr == nil:
			return -1
		case berr == nil:
			return 1
		default:
			return strings.Compare(a, b)
		}
	}
	if am != bm {
		return am - bm
	}
	if an != bn {
		return an - bn
	}
	if as != bs {
		return as - bs
	}
	return strings.Compare(asuf, bsuf)
}
