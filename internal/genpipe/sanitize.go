package genpipe

import (
	"regexp"
	"strings"

	"github.com/PranavPrasannaV/satapp/internal/domain"
)

// The prompt templates use PLACEHOLDER as a reserved filler token; a model
// occasionally leaks it verbatim into question text. Sanitization strips it
// as a whole word, case-insensitively, then collapses the space runs that
// removal leaves behind.
var (
	placeholderRe = regexp.MustCompile(`(?i)\bplaceholder\b`)
	spaceRunRe    = regexp.MustCompile(` {2,}`)
)

// sanitizeText removes leaked template artifacts from one string.
func sanitizeText(s string) string {
	s = placeholderRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Sanitize normalizes an already-accepted unit in place. It is cosmetic
// only: acceptance was decided before this runs and is never revisited.
// Sanitizing twice yields the same unit.
func Sanitize(u *domain.QuestionUnit) {
	u.Question = sanitizeText(u.Question)
	for i, opt := range u.Options {
		u.Options[i] = sanitizeText(opt)
	}
}
