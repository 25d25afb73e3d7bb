package genpipe

import "strings"

// LineFramer turns an append-only text buffer, filled by inbound stream
// chunks, into discrete candidate lines. The model gives no framing
// guarantee: a chunk may end mid-line, and the final line may arrive with no
// trailing newline at all.
type LineFramer struct {
	buf strings.Builder
}

// NewLineFramer returns an empty framer.
func NewLineFramer() *LineFramer {
	return &LineFramer{}
}

// Feed appends a chunk and returns every complete line now available.
// Text after the last delimiter stays buffered for the next call.
// Blank and whitespace-only lines are discarded silently.
func (f *LineFramer) Feed(chunk string) []string {
	f.buf.WriteString(chunk)
	s := f.buf.String()

	idx := strings.IndexByte(s, '\n')
	if idx < 0 {
		return nil
	}

	var lines []string
	for idx >= 0 {
		line := strings.TrimSpace(s[:idx])
		if line != "" {
			lines = append(lines, line)
		}
		s = s[idx+1:]
		idx = strings.IndexByte(s, '\n')
	}

	f.buf.Reset()
	f.buf.WriteString(s)
	return lines
}

// Flush drains whatever is left at end-of-stream. A generator may omit the
// final delimiter, so the remainder is split on any embedded newlines and
// returned as trailing candidates.
func (f *LineFramer) Flush() []string {
	s := f.buf.String()
	f.buf.Reset()

	var lines []string
	for _, part := range strings.Split(s, "\n") {
		part = strings.TrimSpace(part)
		if part != "" {
			lines = append(lines, part)
		}
	}
	return lines
}
