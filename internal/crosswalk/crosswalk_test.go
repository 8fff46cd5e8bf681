package crosswalk

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primusgen/internal/microrule"
	"primusgen/internal/spec"
	"primusgen/internal/validate"
)

func testLoader() *spec.Loader {
	return spec.NewLoader(filepath.Join("..", "..", "data"))
}

func entryByCode(t *testing.T, report *Report, code string) Entry {
	t.Helper()
	for _, e := range report.Entries {
		if e.Code == code {
			return e
		}
	}
	t.Fatalf("no entry for %s", code)
	return Entry{}
}

func TestGenerate(t *testing.T) {
	loader := testLoader()

	t.Run("two of four keywords fulfill, one of three does not", func(t *testing.T) {
		// 5.12.03 has four keywords (bait, station, map, tamper): two hits
		// clear the threshold. 5.12.02 has three (licensed, operator,
		// training): a single hit is a gap.
		doc := "Bait stations are secured and tamper-resistant. Training records are retained."
		report, err := Generate(loader, doc, "5", "Pest Control Program", "")
		require.NoError(t, err)
		require.Equal(t, "5.12", report.Submodule)
		require.Len(t, report.Entries, 5)

		bait := entryByCode(t, report, "5.12.03")
		assert.Equal(t, StatusFulfilled, bait.Status)
		assert.GreaterOrEqual(t, len(bait.MatchedKeywords), 2)
		assert.Empty(t, bait.Remediation)

		operator := entryByCode(t, report, "5.12.02")
		assert.Equal(t, StatusGap, operator.Status)
		assert.Equal(t, []string{"training"}, operator.MatchedKeywords)
		assert.NotEmpty(t, operator.Remediation)
	})

	t.Run("mandatory and optional gaps get different remediation", func(t *testing.T) {
		report, err := Generate(loader, "unrelated text", "5", "Pest Control Program", "")
		require.NoError(t, err)
		assert.Equal(t, 5, report.Gaps)
		assert.Zero(t, report.Fulfilled)

		mandatory := entryByCode(t, report, "5.12.01")
		assert.Contains(t, mandatory.Remediation, "Mandatory requirement 5.12.01")

		optional := entryByCode(t, report, "5.12.05")
		assert.Contains(t, optional.Remediation, "Optional requirement 5.12.05")
		assert.Contains(t, optional.Remediation, "if applicable")
	})

	t.Run("unresolvable submodule yields an empty report", func(t *testing.T) {
		report, err := Generate(loader, "anything", "5", "completely unrelated", "")
		require.NoError(t, err)
		assert.Empty(t, report.Submodule)
		assert.Empty(t, report.Entries)
	})
}

func TestMatchThreshold(t *testing.T) {
	assert.Equal(t, 1, matchThreshold(1))
	assert.Equal(t, 1, matchThreshold(2))
	assert.Equal(t, 2, matchThreshold(3))
	assert.Equal(t, 2, matchThreshold(8))
}

func TestRequirementKeywords(t *testing.T) {
	t.Run("spec keywords win", func(t *testing.T) {
		req := spec.Requirement{Title: "Some Title", Keywords: []string{"alpha"}}
		assert.Equal(t, []string{"alpha"}, requirementKeywords(req))
	})

	t.Run("derived from title, short words dropped, capped at four", func(t *testing.T) {
		req := spec.Requirement{Title: "Written pest control program for the whole operation site"}
		got := requirementKeywords(req)
		assert.Equal(t, []string{"written", "pest", "control", "program"}, got)
	})
}

func TestSummary(t *testing.T) {
	vocab := validate.DefaultVocabulary()
	vocab.MinWordCount = 1

	fullStructure := "1. A\n2. B\n3. C\n4. D\n5. E\n6. F\n7. G\n8. H\n9. I\n10. J\n11. K\n12. L\n13. M\n14. N\n15. O\n"

	t.Run("perfect inputs score 100", func(t *testing.T) {
		report := &Report{Entries: []Entry{{Status: StatusFulfilled}}, Fulfilled: 1}
		lint := &microrule.LintReport{CheckedRules: 4}
		assert.Equal(t, 100, Summary(fullStructure, report, lint, vocab))
	})

	t.Run("crosswalk gaps cost forty percent", func(t *testing.T) {
		report := &Report{
			Entries:   []Entry{{Status: StatusGap}, {Status: StatusGap}},
			Fulfilled: 0,
			Gaps:      2,
		}
		assert.Equal(t, 60, Summary(fullStructure, report, nil, vocab))
	})

	t.Run("lint insertions reduce the lint share", func(t *testing.T) {
		lint := &microrule.LintReport{CheckedRules: 4, InsertedIDs: []string{"a", "b"}}
		// lint score 0.5 of a 30 percent share: 100 - 15.
		assert.Equal(t, 85, Summary(fullStructure, nil, lint, vocab))
	})

	t.Run("placeholders zero the placeholder share", func(t *testing.T) {
		doc := fullStructure + "TBD\n"
		assert.Equal(t, 90, Summary(doc, nil, nil, vocab))
	})

	t.Run("nil report and lint count as clean", func(t *testing.T) {
		assert.Equal(t, 100, Summary(fullStructure, nil, nil, vocab))
	})
}
