package mapper

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primusgen/internal/question"
	"primusgen/internal/spec"
)

func TestExtractRequirementCode(t *testing.T) {
	tests := []struct {
		id   string
		want string
		ok   bool
	}{
		{"requirement_1_01_01", "1.01.01", true},
		{"requirement_2_03_04b", "2.03.04b", true},
		{"requirement_5_12_3", "5.12.03", true},
		{"company_name", "", false},
		{"requirement_1_01", "", false},
		{"requirement_1_01_01B", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := ExtractRequirementCode(tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssignSection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"policy wins over monitoring", "policy for monitoring pest devices", 2},
		{"monitoring", "device inspection frequency", 9},
		{"records", "retention of logs", 13},
		{"verification", "internal audit and review", 10},
		{"corrective action", "corrective action for deviations", 11},
		{"hazard", "hazard assessment of the operation", 7},
		{"roles", "designated personnel and training", 5},
		{"traceability", "lot identification and recall", 12},
		{"default", "miscellaneous operational text", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssignSection(tt.text))
		})
	}
}

func TestMapAnswersToRequirements(t *testing.T) {
	loader := spec.NewLoader(filepath.Join("..", "..", "data"))
	sub, err := loader.LoadSubmoduleSpec("5", "5.12")
	require.NoError(t, err)
	questions := question.Generate(sub, nil)

	t.Run("sorted ascending regardless of input order", func(t *testing.T) {
		answers := question.Answers{
			"requirement_5_12_04": true,
			"requirement_5_12_01": true,
			"requirement_5_12_03": "Stations mapped quarterly",
			"company_name":        "Acme Farms", // core field skipped
		}
		mappings := MapAnswersToRequirements(loader, answers, questions, "5", "Pest Control Program", "")

		var codes []string
		for _, m := range mappings {
			codes = append(codes, m.Code)
		}
		if diff := cmp.Diff([]string{"5.12.01", "5.12.03", "5.12.04"}, codes); diff != "" {
			t.Errorf("code order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("resolves requirement text from spec", func(t *testing.T) {
		answers := question.Answers{"requirement_5_12_03": true}
		mappings := MapAnswersToRequirements(loader, answers, questions, "5", "Pest Control Program", "")
		require.Len(t, mappings, 1)
		assert.Contains(t, mappings[0].RequirementText, "bait stations")
		assert.Equal(t, "Yes", mappings[0].Answer)
		assert.Equal(t, "requirement_5_12_03", mappings[0].QuestionID)
	})

	t.Run("falls back to question text without a spec", func(t *testing.T) {
		answers := question.Answers{"requirement_9_01_01": true}
		qs := []question.Item{{ID: "requirement_9_01_01", Question: "9.01.01 — Some requirement"}}
		mappings := MapAnswersToRequirements(loader, answers, qs, "9", "", "")
		require.Len(t, mappings, 1)
		assert.Equal(t, "9.01.01 — Some requirement", mappings[0].RequirementText)
	})

	t.Run("non-requirement ids are ignored", func(t *testing.T) {
		answers := question.Answers{"free_text_notes": "hello"}
		assert.Empty(t, MapAnswersToRequirements(loader, answers, nil, "5", "", ""))
	})
}
