package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primusgen/internal/mapper"
	"primusgen/internal/question"
)

func buildRequest(n int) BuildRequest {
	req := BuildRequest{
		DocumentName: "Pest Control Program",
		Answers:      question.Answers{"company_name": "Acme Farms"},
	}
	for _, f := range question.CoreFields() {
		req.Questions = append(req.Questions, question.Item{ID: f.ID, Question: f.Question})
	}
	for i := len(req.Questions); i < n; i++ {
		code := fmt.Sprintf("5.12.%02d", i)
		id := question.RequirementQuestionID(code)
		req.Questions = append(req.Questions, question.Item{
			ID:       id,
			Question: code + " — Requirement " + code,
		})
		req.Answers[id] = true
		req.Mappings = append(req.Mappings, mapper.Mapping{
			Code:          code,
			QuestionID:    id,
			Question:      code + " — Requirement " + code,
			Answer:        "Yes",
			SectionNumber: 8,
		})
	}
	return req
}

func TestBuild(t *testing.T) {
	b := NewBuilder()

	t.Run("too few questions is an error", func(t *testing.T) {
		_, err := b.Build(buildRequest(MinQuestions - 1))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInsufficientQuestions)
	})

	t.Run("guidance injected before the structure marker", func(t *testing.T) {
		out, err := b.Build(buildRequest(9))
		require.NoError(t, err)

		placement := strings.Index(out, "ANSWER PLACEMENT MAP")
		guidance := strings.Index(out, "REQUIREMENT STRUCTURE GUIDANCE")
		marker := strings.Index(out, "MANDATORY DOCUMENT STRUCTURE")
		require.Positive(t, placement)
		require.Positive(t, guidance)
		require.Positive(t, marker)
		assert.Less(t, placement, guidance)
		assert.Less(t, guidance, marker)
	})

	t.Run("answers and placement rules are spelled out", func(t *testing.T) {
		out, err := b.Build(buildRequest(9))
		require.NoError(t, err)

		assert.Contains(t, out, `"Acme Farms" must appear in Section 1`)
		assert.Contains(t, out, "### 5.12.06 - Requirement 5.12.06 (Section 8)")
		assert.Contains(t, out, "- requirement_5_12_06: Yes")
		assert.Contains(t, out, "Nothing may follow the final Approved By line.")
	})

	t.Run("generic section template used without a module", func(t *testing.T) {
		out, err := b.Build(buildRequest(9))
		require.NoError(t, err)
		for _, s := range defaultSections {
			assert.Contains(t, out, fmt.Sprintf("%d. %s\n", s.Number, s.Title))
		}
	})

	t.Run("unanswered questions are omitted from the answer block", func(t *testing.T) {
		req := buildRequest(9)
		delete(req.Answers, "requirement_5_12_07")
		out, err := b.Build(req)
		require.NoError(t, err)
		assert.NotContains(t, out, "- requirement_5_12_07:")
	})
}

func TestTokenBudget(t *testing.T) {
	assert.Equal(t, 25000, TokenBudget(0))
	assert.Equal(t, 25000, TokenBudget(19))
	assert.Equal(t, 35000, TokenBudget(20))
	assert.Equal(t, 35000, TokenBudget(45))
}
