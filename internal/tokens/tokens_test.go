package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate(t *testing.T) {
	assert.Equal(t, 0, Estimate(""))
	assert.Equal(t, 1, Estimate("a"))
	assert.Equal(t, 2, Estimate("hello"))
	assert.Equal(t, 10, Estimate(strings.Repeat("x", 32)))
	// Three runes plus two lines: ceil(3/3.2) + floor(2*0.5).
	assert.Equal(t, 2, Estimate("a\nb"))
	// Runes, not bytes.
	assert.Equal(t, Estimate("abc"), Estimate("한국어"))
}

func TestEstimateMonotonic(t *testing.T) {
	prev := 0
	text := ""
	for i := 0; i < 200; i++ {
		if i%17 == 0 {
			text += "\n"
		} else {
			text += "w"
		}
		n := Estimate(text)
		assert.GreaterOrEqual(t, n, prev, "appending must not shrink the estimate (len %d)", len(text))
		assert.GreaterOrEqual(t, n, 1)
		prev = n
	}
}

func TestDefaultEstimator(t *testing.T) {
	assert.Equal(t, Estimate("some text here"), Default.Estimate("some text here"))
	custom := EstimatorFunc(func(s string) int { return len(s) })
	assert.Equal(t, 4, custom.Estimate("abcd"))
}

func TestEstimateDisplay(t *testing.T) {
	assert.Equal(t, DisplayEstimate{Tokens: 0, Method: MethodHeuristic}, EstimateDisplay(""))
	assert.Equal(t, 3, EstimateDisplay("abcdefghij").Tokens)
	assert.Equal(t, 2, EstimateDisplay("안녕하세요").Tokens)
	assert.Equal(t, MethodHeuristic, EstimateDisplay("x").Method)
}

func TestHasHangul(t *testing.T) {
	assert.True(t, HasHangul("mixed 한 text"))
	assert.False(t, HasHangul("plain ascii"))
}
