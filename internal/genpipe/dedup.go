package genpipe

import "strings"

// fingerprintLength bounds the normalized-stem prefix used for duplicate
// detection. Long stems that differ only in a trailing clause still count
// as the same question.
const fingerprintLength = 80

// Fingerprint normalizes a question stem for duplicate detection:
// lower-cased, whitespace collapsed, truncated to a fixed prefix.
func Fingerprint(stem string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(stem), " "))
	runes := []rune(norm)
	if len(runes) > fingerprintLength {
		return string(runes[:fingerprintLength])
	}
	return norm
}

// Deduplicator tracks the fingerprints of every question accepted in one
// generation session. It is session-global: fallback tiers re-prompt the
// model and must not re-count a question the primary stream already
// delivered.
type Deduplicator struct {
	seen map[string]struct{}
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Seen reports whether an equivalent stem was already accepted.
func (d *Deduplicator) Seen(stem string) bool {
	_, ok := d.seen[Fingerprint(stem)]
	return ok
}

// Mark records a stem as accepted.
func (d *Deduplicator) Mark(stem string) {
	d.seen[Fingerprint(stem)] = struct{}{}
}

// Len returns the number of distinct fingerprints recorded.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}
