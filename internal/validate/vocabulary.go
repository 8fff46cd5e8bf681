package validate

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// PatternSpec is the on-disk form of a forbidden pattern.
type PatternSpec struct {
	Pattern     string   `yaml:"pattern"`
	Description string   `yaml:"description"`
	Severity    Severity `yaml:"severity"`
}

// Pattern is a compiled forbidden pattern.
type Pattern struct {
	Regexp      *regexp.Regexp
	Description string
	Severity    Severity
}

// Vocabulary holds every framework-specific word list the validator uses.
// The compiled-in defaults cover the Primus GFS vocabulary; deployments
// targeting another framework override them from a YAML file.
type Vocabulary struct {
	ForbiddenPatterns    []Pattern
	PostSignatureMarkers []string
	PlaceholderPatterns  []Pattern
	SectionCount         int
	MinWordCount         int
}

type vocabularyFile struct {
	ForbiddenPatterns    []PatternSpec `yaml:"forbidden_patterns"`
	PostSignatureMarkers []string      `yaml:"post_signature_markers"`
	PlaceholderPatterns  []PatternSpec `yaml:"placeholder_patterns"`
	SectionCount         int           `yaml:"section_count"`
	MinWordCount         int           `yaml:"min_word_count"`
}

var defaultForbiddenSpecs = []PatternSpec{
	{Pattern: `(?i)would you like me to`, Description: "Conversational meta-commentary", Severity: SeverityCritical},
	{Pattern: `(?i)\bI have (now )?(generated|created|completed|written)\b`, Description: "Self-referential generation commentary", Severity: SeverityCritical},
	{Pattern: `(?i)as an AI( language)? model`, Description: "Model self-identification", Severity: SeverityCritical},
	{Pattern: `(?i)\[insert[^\]\n]*\]`, Description: "Unfilled insert placeholder", Severity: SeverityCritical},
	{Pattern: `(?i)\[your[^\]\n]*\]`, Description: "Unfilled template placeholder", Severity: SeverityCritical},
	{Pattern: `(?i)\[to be (completed|determined|filled)[^\]\n]*\]`, Description: "Deferred-content placeholder", Severity: SeverityCritical},
	{Pattern: `COMPLIANCE AUTO-CORRECTION`, Description: "Leaked auto-correction annotation", Severity: SeverityCritical},
	{Pattern: `(?i)let me know if you`, Description: "Conversational closing", Severity: SeverityCritical},
	{Pattern: `(?i)feel free to (adjust|modify|customize)`, Description: "Conversational advice", Severity: SeverityCritical},
	{Pattern: `(?im)^(sure|certainly|of course)[,!]`, Description: "Conversational opener", Severity: SeverityHigh},
	{Pattern: `(?i)please note that this (document|template)`, Description: "Meta-commentary about the document", Severity: SeverityHigh},
	{Pattern: `(?i)this is a (sample|template|draft) document`, Description: "Template disclaimer", Severity: SeverityMedium},
}

var defaultPlaceholderSpecs = []PatternSpec{
	{Pattern: `(?i)\bTBD\b`, Description: "TBD placeholder", Severity: SeverityMedium},
	{Pattern: `(?i)\bXXX+\b`, Description: "Filler placeholder", Severity: SeverityMedium},
	{Pattern: `_{4,}`, Description: "Blank-line placeholder", Severity: SeverityMedium},
	{Pattern: `(?i)\[company name\]`, Description: "Unsubstituted company name", Severity: SeverityHigh},
}

// defaultPostSignatureMarkers are the trailing-content markers that prove
// post-signature contamination. Ordinary prose after the signature is left
// alone; only positive evidence of one of these triggers truncation.
var defaultPostSignatureMarkers = []string{
	"COMPLIANCE SUMMARY",
	"COMPLIANCE CATEGORY",
	"COMPLIANCE AUTO-CORRECTION",
	"CROSSWALK",
	"APPENDIX",
	"MICRO-RULE",
	"AUDIT NOTES",
	"ADDITIONAL REQUIREMENTS",
	"### ",
	"## ",
}

// DefaultVocabulary returns the compiled-in Primus GFS vocabulary.
func DefaultVocabulary() *Vocabulary {
	v := &Vocabulary{
		PostSignatureMarkers: append([]string(nil), defaultPostSignatureMarkers...),
		SectionCount:         15,
		MinWordCount:         1000,
	}
	v.ForbiddenPatterns = mustCompile(defaultForbiddenSpecs)
	v.PlaceholderPatterns = mustCompile(defaultPlaceholderSpecs)
	return v
}

// LoadVocabulary reads a YAML vocabulary file. Fields left empty in the
// file keep their defaults, so a partial override file is valid.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: %w", err)
	}

	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("vocabulary: %w", err)
	}

	v := DefaultVocabulary()
	if len(f.ForbiddenPatterns) > 0 {
		compiled, err := compile(f.ForbiddenPatterns)
		if err != nil {
			return nil, fmt.Errorf("vocabulary forbidden_patterns: %w", err)
		}
		v.ForbiddenPatterns = compiled
	}
	if len(f.PlaceholderPatterns) > 0 {
		compiled, err := compile(f.PlaceholderPatterns)
		if err != nil {
			return nil, fmt.Errorf("vocabulary placeholder_patterns: %w", err)
		}
		v.PlaceholderPatterns = compiled
	}
	if len(f.PostSignatureMarkers) > 0 {
		v.PostSignatureMarkers = f.PostSignatureMarkers
	}
	if f.SectionCount > 0 {
		v.SectionCount = f.SectionCount
	}
	if f.MinWordCount > 0 {
		v.MinWordCount = f.MinWordCount
	}
	return v, nil
}

func compile(specs []PatternSpec) ([]Pattern, error) {
	out := make([]Pattern, 0, len(specs))
	for _, s := range specs {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", s.Pattern, err)
		}
		severity := s.Severity
		if severity == "" {
			severity = SeverityMedium
		}
		out = append(out, Pattern{Regexp: re, Description: s.Description, Severity: severity})
	}
	return out, nil
}

func mustCompile(specs []PatternSpec) []Pattern {
	out, err := compile(specs)
	if err != nil {
		panic(err)
	}
	return out
}
