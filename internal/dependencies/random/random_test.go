package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntBetweenStaysInRange(t *testing.T) {
	r := New()
	for i := 0; i < 500; i++ {
		n := IntBetween(r, 5, 12)
		assert.GreaterOrEqual(t, n, 5)
		assert.LessOrEqual(t, n, 12)
	}
}

func TestIntBetweenDegenerateRange(t *testing.T) {
	assert.Equal(t, 7, IntBetween(New(), 7, 7))
	assert.Equal(t, 7, IntBetween(New(), 7, 3))
}

func TestFloatBetweenStaysInRange(t *testing.T) {
	r := New()
	for i := 0; i < 500; i++ {
		f := FloatBetween(r, 0.4, 0.9)
		assert.GreaterOrEqual(t, f, 0.4)
		assert.Less(t, f, 0.9)
	}
}

func TestStringUsesAlphabet(t *testing.T) {
	s := New().String(16, "ab")
	assert.Len(t, s, 16)
	for _, c := range s {
		assert.Contains(t, "ab", string(c))
	}
}
