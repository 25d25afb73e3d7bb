package validation

import (
	"strings"

	"github.com/PranavPrasannaV/satapp/internal/domain"
)

// maxTopicLength bounds free-text topic input before it reaches a prompt.
const maxTopicLength = 200

// maxMistakeLength bounds each prior-mistake reference text.
const maxMistakeLength = 2000

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerationRequest validates the fields of a generation request
// the caller is responsible for. Count is not validated here: it is clamped
// by GenerationRequest.Normalize, never rejected.
func (v *Validator) ValidateGenerationRequest(req *domain.GenerationRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if err := req.Validate(); err != nil {
		if verrs, ok := err.(domain.ValidationErrors); ok {
			errors = append(errors, verrs...)
		}
	}

	if len(strings.TrimSpace(req.Topic)) > maxTopicLength {
		errors = append(errors, domain.NewOutOfRangeError("topic", len(req.Topic), 1, maxTopicLength))
	}
	for _, m := range req.RecentMistakes {
		if len(m) > maxMistakeLength {
			errors = append(errors, domain.NewOutOfRangeError("recentMistakes", len(m), 1, maxMistakeLength))
			break
		}
	}

	return errors
}
