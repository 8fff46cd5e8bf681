package validate

import (
	"strings"

	"primusgen/internal/logging"
)

// qualityMarkers are phrases whose presence indicates procedurally useful
// content rather than boilerplate. Scoring is soft: it is logged for
// observability and never gates a retry.
var qualityMarkers = []string{
	"shall", "must", "responsible", "frequency", "records are maintained",
	"corrective action", "verified", "reviewed", "documented", "trained",
}

// ScoreQuality computes a 0-100 procedural-quality score for a document.
func (v *Vocabulary) ScoreQuality(document string) int {
	lower := strings.ToLower(document)

	score := 0
	for _, marker := range qualityMarkers {
		if strings.Contains(lower, marker) {
			score += 6
		}
	}

	for _, p := range v.PlaceholderPatterns {
		if p.Regexp.MatchString(document) {
			score -= 10
		}
	}

	present := PresentSections(document)
	score += len(present) * 2
	if len(strings.Fields(document)) >= v.MinWordCount {
		score += 10
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	logging.Validation("procedural quality score: %d", score)
	return score
}

// CountPlaceholders reports how many placeholder patterns still match.
func (v *Vocabulary) CountPlaceholders(document string) int {
	count := 0
	for _, p := range v.PlaceholderPatterns {
		count += len(p.Regexp.FindAllStringIndex(document, -1))
	}
	return count
}
