package genpipe

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/PranavPrasannaV/satapp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// questionLine builds one schema-valid candidate line with the given stem.
func questionLine(t *testing.T, stem string) string {
	t.Helper()
	u := domain.QuestionUnit{
		Question:      stem,
		Options:       []string{"first", "second", "third", "fourth"},
		CorrectAnswer: "B",
		Explanations: map[string]string{
			"A": "wrong because of A",
			"B": "right because of B",
			"C": "wrong because of C",
			"D": "wrong because of D",
		},
		CorrectExplanation: "B is correct in depth.",
	}
	raw, err := json.Marshal(u)
	require.NoError(t, err)
	return string(raw)
}

func TestParseCandidateAcceptsValidLine(t *testing.T) {
	unit, err := ParseCandidate(questionLine(t, "What is 2 plus 2?"))
	require.NoError(t, err)
	assert.Equal(t, "What is 2 plus 2?", unit.Question)
	assert.Len(t, unit.Options, 4)
	assert.Equal(t, "B", unit.CorrectAnswer)
	assert.NotEmpty(t, unit.CorrectExplanation)
	for _, label := range domain.AnswerLabels {
		assert.NotEmpty(t, unit.Explanations[label])
	}
}

func TestParseCandidateStripsCodeFence(t *testing.T) {
	line := "```json" + questionLine(t, "Fenced question?") + "```"
	unit, err := ParseCandidate(line)
	require.NoError(t, err)
	assert.Equal(t, "Fenced question?", unit.Question)
}

func TestParseCandidateToleratesSurroundingProse(t *testing.T) {
	line := "Here is your question: " + questionLine(t, "Padded question?")
	unit, err := ParseCandidate(line)
	require.NoError(t, err)
	assert.Equal(t, "Padded question?", unit.Question)
}

func TestParseCandidateRejectsNonJSON(t *testing.T) {
	_, err := ParseCandidate("Sure! I'd be happy to generate questions.")
	assert.Error(t, err)
}

func TestParseCandidateRejectsMalformedJSON(t *testing.T) {
	_, err := ParseCandidate(`{"question": "broken`)
	assert.Error(t, err)
}

func TestParseCandidateRejectsSchemaViolations(t *testing.T) {
	base := func() domain.QuestionUnit {
		var u domain.QuestionUnit
		require.NoError(t, json.Unmarshal([]byte(questionLine(t, "A perfectly fine stem?")), &u))
		return u
	}

	cases := []struct {
		name   string
		mutate func(*domain.QuestionUnit)
	}{
		{"short stem", func(u *domain.QuestionUnit) { u.Question = "Hi?" }},
		{"whitespace stem", func(u *domain.QuestionUnit) { u.Question = "        " }},
		{"three options", func(u *domain.QuestionUnit) { u.Options = u.Options[:3] }},
		{"five options", func(u *domain.QuestionUnit) { u.Options = append(u.Options, "fifth") }},
		{"empty option", func(u *domain.QuestionUnit) { u.Options[2] = "  " }},
		{"bad label", func(u *domain.QuestionUnit) { u.CorrectAnswer = "E" }},
		{"lowercase label", func(u *domain.QuestionUnit) { u.CorrectAnswer = "b" }},
		{"missing explanations", func(u *domain.QuestionUnit) { u.Explanations = nil }},
		{"missing one explanation", func(u *domain.QuestionUnit) { delete(u.Explanations, "C") }},
		{"blank explanation", func(u *domain.QuestionUnit) { u.Explanations["D"] = " " }},
		{"missing correct explanation", func(u *domain.QuestionUnit) { u.CorrectExplanation = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := base()
			tc.mutate(&u)
			raw, err := json.Marshal(u)
			require.NoError(t, err)

			_, err = ParseCandidate(string(raw))
			assert.Error(t, err, fmt.Sprintf("expected rejection for %s", tc.name))
		})
	}
}
