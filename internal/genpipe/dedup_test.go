package genpipe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintNormalizes(t *testing.T) {
	a := Fingerprint("What  is the\tslope of the line?")
	b := Fingerprint("what is the slope of the LINE?")
	assert.Equal(t, a, b)
}

func TestFingerprintTruncates(t *testing.T) {
	long := strings.Repeat("same prefix ", 20) + "different tail A"
	other := strings.Repeat("same prefix ", 20) + "completely other ending B"
	assert.Equal(t, Fingerprint(long), Fingerprint(other))
}

func TestDeduplicatorSeenAcrossVariants(t *testing.T) {
	d := NewDeduplicator()
	d.Mark("What is the slope of the line?")

	assert.True(t, d.Seen("what IS the slope   of the line?"))
	assert.False(t, d.Seen("What is the intercept of the line?"))
	assert.Equal(t, 1, d.Len())
}

func TestDeduplicatorEmpty(t *testing.T) {
	d := NewDeduplicator()
	assert.False(t, d.Seen("anything"))
	assert.Equal(t, 0, d.Len())
}
