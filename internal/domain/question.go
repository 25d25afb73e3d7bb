package domain

import "strings"

// Section identifies which part of the exam a question belongs to.
type Section string

const (
	SectionReading Section = "Reading"
	SectionMath    Section = "Math"
)

// Difficulty is the requested difficulty tier for generated questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
	DifficultyInsane Difficulty = "Insane"
)

// AnswerLabels are the four fixed answer choice labels, in display order.
var AnswerLabels = []string{"A", "B", "C", "D"}

// IsAnswerLabel reports whether s is one of the four fixed labels.
func IsAnswerLabel(s string) bool {
	switch s {
	case "A", "B", "C", "D":
		return true
	}
	return false
}

// QuestionUnit is one complete multiple-choice question. A QuestionUnit is
// either fully well-formed (non-empty stem, exactly four non-empty options,
// a correct label in A-D, a non-empty explanation per label plus one for the
// correct answer) or it is never surfaced to a caller at all.
type QuestionUnit struct {
	Question           string            `json:"question"`
	Options            []string          `json:"options"`
	CorrectAnswer      string            `json:"correctAnswer"`
	Explanations       map[string]string `json:"explanations"`
	CorrectExplanation string            `json:"correctExplanation"`
}

// MaxQuestionCount is the hard cap on questions per generation request.
// The source product enforced 10 regardless of what was asked for.
const MaxQuestionCount = 10

// DefaultQuestionCount is used when the caller omits count.
const DefaultQuestionCount = 10

// GenerationRequest carries the caller's parameters for one generation run.
type GenerationRequest struct {
	Section        Section    `json:"section"`
	Topic          string     `json:"topic"`
	Count          int        `json:"count"`
	Difficulty     Difficulty `json:"difficulty"`
	RecentMistakes []string   `json:"recentMistakes"`
}

// Normalize clamps Count to [1, MaxQuestionCount] and fills defaults.
// It must be called before the request reaches the orchestrator.
func (r *GenerationRequest) Normalize() {
	if r.Count == 0 {
		r.Count = DefaultQuestionCount
	}
	if r.Count < 1 {
		r.Count = 1
	}
	if r.Count > MaxQuestionCount {
		r.Count = MaxQuestionCount
	}
	if r.Difficulty == "" {
		r.Difficulty = DifficultyMedium
	}
	r.Topic = strings.TrimSpace(r.Topic)
}

// Validate checks the request fields the caller is responsible for.
// Count and difficulty are normalized rather than rejected.
func (r *GenerationRequest) Validate() error {
	var errs ValidationErrors
	if r.Section != SectionReading && r.Section != SectionMath {
		if r.Section == "" {
			errs = append(errs, NewMissingFieldError("section"))
		} else {
			errs = append(errs, NewInvalidFormatError("section", string(r.Section)))
		}
	}
	if strings.TrimSpace(r.Topic) == "" {
		errs = append(errs, NewMissingFieldError("topic"))
	}
	switch r.Difficulty {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyInsane:
	default:
		errs = append(errs, NewInvalidFormatError("difficulty", string(r.Difficulty)))
	}
	for _, m := range r.RecentMistakes {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, NewInvalidFormatError("recentMistakes", "entries must be non-empty strings"))
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
