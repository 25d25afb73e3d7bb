package genpipe

import (
	"strings"
	"testing"

	"github.com/PranavPrasannaV/satapp/internal/domain"

	"github.com/stretchr/testify/assert"
)

func promptRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		Section:        domain.SectionMath,
		Topic:          "linear equations",
		Count:          10,
		Difficulty:     domain.DifficultyHard,
		RecentMistakes: []string{"Solved for x but forgot to flip the inequality"},
	}
}

func TestPrimaryPromptCarriesRequestContext(t *testing.T) {
	p := &PromptBuilder{}
	prompt := p.Primary(promptRequest())

	assert.Contains(t, prompt, "10 unique")
	assert.Contains(t, prompt, "Section: Math")
	assert.Contains(t, prompt, "Topic: linear equations")
	assert.Contains(t, prompt, "Difficulty: Hard")
	assert.Contains(t, prompt, "forgot to flip the inequality")
	assert.Contains(t, prompt, `"correctExplanation"`)
}

func TestBulkPromptSubstitutesShortfall(t *testing.T) {
	p := &PromptBuilder{}
	for round := 0; round < p.BulkRounds(); round++ {
		prompt := p.Bulk(promptRequest(), round, 3)
		assert.Contains(t, prompt, "3", "round %d must name the shortfall", round)
		assert.NotContains(t, prompt, "{count}")
		assert.Contains(t, prompt, "Topic: linear equations")
	}
}

func TestBulkRoundsEscalateDistinctly(t *testing.T) {
	p := &PromptBuilder{}
	assert.Equal(t, 3, p.BulkRounds())

	first := p.Bulk(promptRequest(), 0, 2)
	last := p.Bulk(promptRequest(), 2, 2)
	assert.NotEqual(t, first, last)
}

func TestBulkTemplatesAreConfigurable(t *testing.T) {
	p := &PromptBuilder{BulkTemplates: []string{"Need {count} now.", "Really need {count}."}}

	assert.Equal(t, 2, p.BulkRounds())
	assert.Contains(t, p.Bulk(promptRequest(), 0, 4), "Need 4 now.")
	// Rounds past the configured list reuse the last template.
	assert.Contains(t, p.Bulk(promptRequest(), 9, 4), "Really need 4.")
}

func TestSingleAndVariantDiffer(t *testing.T) {
	p := &PromptBuilder{}
	single := p.Single(promptRequest())
	variant := p.SingleVariant(promptRequest())

	assert.Contains(t, single, "ONE")
	assert.NotEqual(t, single, variant)
	for _, prompt := range []string{single, variant} {
		assert.Contains(t, prompt, "Topic: linear equations")
		assert.Contains(t, prompt, `"options"`)
	}
}

func TestPromptsOmitMistakesBlockWhenEmpty(t *testing.T) {
	req := promptRequest()
	req.RecentMistakes = nil
	p := &PromptBuilder{}

	assert.False(t, strings.Contains(p.Primary(req), "recently missed"))
}
