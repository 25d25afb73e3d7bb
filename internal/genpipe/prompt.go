package genpipe

import (
	"fmt"
	"strings"

	"github.com/PranavPrasannaV/satapp/internal/domain"
)

// schemaInstructions describes the line-delimited output contract. Every
// tier reuses it so the same parser works across primary, bulk and single
// attempts.
const schemaInstructions = `Output format (strict):
- One question per line. Each line is ONE minified JSON object. No markdown, no prose, no blank lines.
- Each object has exactly these fields:
  "question": the question text (string),
  "options": array of exactly 4 answer choice strings,
  "correctAnswer": one of "A", "B", "C", "D",
  "explanations": object with keys "A", "B", "C", "D", each a short string explaining why that choice is right or wrong,
  "correctExplanation": a string explaining the correct answer in depth.
- Never use the word PLACEHOLDER anywhere.`

// DefaultBulkTemplates are the escalating bulk top-up prompt headers, one
// per recovery round. {count} is replaced with the remaining shortfall.
// Ordered from polite to terse; round N uses template N.
var DefaultBulkTemplates = []string{
	"The previous batch came up short. Generate exactly {count} additional questions following the same format.",
	"IMPORTANT: respond with exactly {count} lines, each one a single minified JSON question object. Nothing else.",
	"FINAL ATTEMPT. Output {count} JSON lines in the required schema. No explanation, no markdown, JSON lines only.",
}

// PromptBuilder constructs the instruction prompts for every tier of the
// generation ladder.
type PromptBuilder struct {
	// BulkTemplates is the ordered per-round template list for the bulk
	// top-up tier. Empty entries fall back to DefaultBulkTemplates.
	BulkTemplates []string
}

func (p *PromptBuilder) bulkTemplate(round int) string {
	templates := p.BulkTemplates
	if len(templates) == 0 {
		templates = DefaultBulkTemplates
	}
	if round >= len(templates) {
		round = len(templates) - 1
	}
	return templates[round]
}

// BulkRounds returns how many bulk top-up rounds are configured.
func (p *PromptBuilder) BulkRounds() int {
	if len(p.BulkTemplates) == 0 {
		return len(DefaultBulkTemplates)
	}
	return len(p.BulkTemplates)
}

// requestContext renders the shared request parameters every prompt carries.
func requestContext(req domain.GenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Section: %s\n", req.Section)
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	if len(req.RecentMistakes) > 0 {
		b.WriteString("The student recently missed questions like these; steer toward the same weaknesses without repeating them:\n")
		for i, m := range req.RecentMistakes {
			fmt.Fprintf(&b, "%d. %s\n", i+1, m)
		}
	}
	return b.String()
}

// Primary builds the prompt for the primary streaming attempt.
func (p *PromptBuilder) Primary(req domain.GenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert SAT question writer. Write %d unique multiple-choice practice questions.\n\n", req.Count)
	b.WriteString(requestContext(req))
	b.WriteString("\n")
	b.WriteString(schemaInstructions)
	return b.String()
}

// Bulk builds the prompt for one bulk top-up round asking for the
// remaining shortfall.
func (p *PromptBuilder) Bulk(req domain.GenerationRequest, round, shortfall int) string {
	header := strings.ReplaceAll(p.bulkTemplate(round), "{count}", fmt.Sprintf("%d", shortfall))
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(requestContext(req))
	b.WriteString("\n")
	b.WriteString(schemaInstructions)
	return b.String()
}

// Single builds the prompt for one single-item recovery attempt.
func (p *PromptBuilder) Single(req domain.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("Write exactly ONE multiple-choice practice question.\n\n")
	b.WriteString(requestContext(req))
	b.WriteString("\n")
	b.WriteString(schemaInstructions)
	return b.String()
}

// SingleVariant builds the reworded retry used after a single-item attempt
// produced an invalid or duplicate question.
func (p *PromptBuilder) SingleVariant(req domain.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("Write ONE brand-new multiple-choice practice question. It must be clearly different from anything you produced before: different scenario, different numbers, different wording.\n\n")
	b.WriteString(requestContext(req))
	b.WriteString("\n")
	b.WriteString(schemaInstructions)
	return b.String()
}
