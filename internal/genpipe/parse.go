package genpipe

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/PranavPrasannaV/satapp/internal/domain"
)

// minStemLength is the minimum trimmed stem length for an acceptable
// question. Anything shorter is noise, not a question.
const minStemLength = 5

var (
	errNoJSONObject   = errors.New("no JSON object found in candidate")
	errNotParseable   = errors.New("candidate is not valid JSON")
	errSchemaRejected = errors.New("candidate failed schema validation")
)

// ParseCandidate attempts to turn one raw candidate line into a well-formed
// QuestionUnit. Parse and schema failures are non-fatal by design: the
// caller logs a diagnostic and moves on. The returned unit, when non-nil,
// satisfies every structural invariant of QuestionUnit.
func ParseCandidate(line string) (*domain.QuestionUnit, error) {
	raw := extractJSONObject(line)
	if raw == "" {
		return nil, errNoJSONObject
	}

	var unit domain.QuestionUnit
	if err := json.Unmarshal([]byte(raw), &unit); err != nil {
		return nil, errNotParseable
	}

	if err := validateUnit(&unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// extractJSONObject strips markdown code fences and keeps the text between
// the first '{' and last '}'. Models routinely wrap or pad their output.
func extractJSONObject(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// validateUnit is the structural acceptance test. Any single violation
// rejects the whole candidate; there is no partial acceptance.
func validateUnit(u *domain.QuestionUnit) error {
	if len(strings.TrimSpace(u.Question)) < minStemLength {
		return errSchemaRejected
	}
	if len(u.Options) != 4 {
		return errSchemaRejected
	}
	for _, opt := range u.Options {
		if strings.TrimSpace(opt) == "" {
			return errSchemaRejected
		}
	}
	if !domain.IsAnswerLabel(u.CorrectAnswer) {
		return errSchemaRejected
	}
	if u.Explanations == nil {
		return errSchemaRejected
	}
	for _, label := range domain.AnswerLabels {
		if strings.TrimSpace(u.Explanations[label]) == "" {
			return errSchemaRejected
		}
	}
	if strings.TrimSpace(u.CorrectExplanation) == "" {
		return errSchemaRejected
	}
	return nil
}
