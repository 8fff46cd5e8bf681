// Package microrule handles category-scoped mandatory compliance rules
// (pest control, chemical handling, HACCP, ...) that are selected,
// checked and inserted independently of the main requirement taxonomy.
package microrule

import (
	"strings"
)

// Category identifies a micro-rule group.
type Category string

const (
	CategoryPest            Category = "pest"
	CategoryChemical        Category = "chemical"
	CategoryGlass           Category = "glass"
	CategoryDocumentControl Category = "document_control"
	CategoryHACCP           Category = "haccp"
	CategoryTraceability    Category = "traceability"
	CategoryAllergen        Category = "allergen"
)

// Context carries the inputs for group selection.
type Context struct {
	ModuleNumber  string
	SubmoduleName string
	DocumentName  string
}

// categoryKeywords maps each category to the substrings that select it.
var categoryKeywords = map[Category][]string{
	CategoryPest:         {"pest", "rodent", "bait", "trap", "fumigat"},
	CategoryChemical:     {"chemical", "pesticide", "sanitizer", "detergent", "sds", "msds"},
	CategoryGlass:        {"glass", "brittle", "plastic", "breakage"},
	CategoryHACCP:        {"haccp", "ccp", "critical control", "hazard analysis"},
	CategoryTraceability: {"traceab", "recall", "lot code", "mock recall"},
	CategoryAllergen:     {"allergen", "cross-contact", "cross contact"},
	CategoryDocumentControl: {
		"document control", "document management", "record control", "revision control",
	},
}

// traceabilityModules force-includes traceability for these modules.
var traceabilityModules = map[string]bool{"2": true, "4": true, "6": true}

// DetectRelevantGroups classifies the document context into micro-rule
// categories. Pure function: the only failure mode is misclassification.
// Module gates: document_control applies only to module "1"; module "6"
// always biases toward HACCP; traceability is forced for modules 2, 4, 6.
func DetectRelevantGroups(ctx Context) []Category {
	haystack := strings.ToLower(ctx.SubmoduleName + " " + ctx.DocumentName)

	seen := make(map[Category]bool)
	var out []Category
	add := func(c Category) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}

	for category, keywords := range categoryKeywords {
		if category == CategoryDocumentControl && ctx.ModuleNumber != "1" {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				add(category)
				break
			}
		}
	}

	if ctx.ModuleNumber == "6" {
		add(CategoryHACCP)
	}
	if traceabilityModules[ctx.ModuleNumber] {
		add(CategoryTraceability)
	}

	return out
}
