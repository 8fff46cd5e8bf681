package microrule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectRelevantGroups(t *testing.T) {
	contains := func(cats []Category, want Category) bool {
		for _, c := range cats {
			if c == want {
				return true
			}
		}
		return false
	}

	t.Run("any text containing pest yields the pest category", func(t *testing.T) {
		for _, text := range []string{"Pest Control Program", "pesticide shed", "carpest inspection"} {
			got := DetectRelevantGroups(Context{ModuleNumber: "5", DocumentName: text})
			assert.True(t, contains(got, CategoryPest), "text %q", text)
		}
	})

	t.Run("neutral text outside module 1 yields nothing", func(t *testing.T) {
		got := DetectRelevantGroups(Context{ModuleNumber: "3", DocumentName: "general operations overview"})
		assert.Empty(t, got)
	})

	t.Run("traceability forced for modules 2, 4 and 6", func(t *testing.T) {
		for _, mod := range []string{"2", "4", "6"} {
			got := DetectRelevantGroups(Context{ModuleNumber: mod, DocumentName: "general operations"})
			assert.True(t, contains(got, CategoryTraceability), "module %s", mod)
		}
	})

	t.Run("module 6 always biases toward haccp", func(t *testing.T) {
		got := DetectRelevantGroups(Context{ModuleNumber: "6", DocumentName: "general operations"})
		assert.True(t, contains(got, CategoryHACCP))
	})

	t.Run("document_control gated to module 1", func(t *testing.T) {
		in1 := DetectRelevantGroups(Context{ModuleNumber: "1", DocumentName: "Document Control SOP"})
		assert.True(t, contains(in1, CategoryDocumentControl))

		in5 := DetectRelevantGroups(Context{ModuleNumber: "5", DocumentName: "Document Control SOP"})
		assert.False(t, contains(in5, CategoryDocumentControl))
	})

	t.Run("output is de-duplicated", func(t *testing.T) {
		got := DetectRelevantGroups(Context{
			ModuleNumber:  "6",
			SubmoduleName: "HACCP Plan",
			DocumentName:  "haccp critical control points",
		})
		seen := make(map[Category]int)
		for _, c := range got {
			seen[c]++
		}
		for c, n := range seen {
			assert.Equal(t, 1, n, "category %s duplicated", c)
		}
	})
}
