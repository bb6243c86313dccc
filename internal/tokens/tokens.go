// Package tokens provides the heuristic token estimates used for budgeting and display.
package tokens

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// CharsPerToken is the budgeting ratio (runes per token).
	CharsPerToken = 3.2
	// LineWeight is the per-line surcharge for newline-heavy text.
	LineWeight = 0.5
)

// Estimator estimates the token count of a string.
type Estimator interface {
	Estimate(text string) int
}

// EstimatorFunc adapts a function to Estimator.
type EstimatorFunc func(text string) int

// Estimate calls f(text).
func (f EstimatorFunc) Estimate(text string) int { return f(text) }

// Default is the estimator the engine budgets with.
var Default Estimator = EstimatorFunc(Estimate)

// Estimate returns max(1, ceil(runes/3.2) + floor(lines*0.5)) for non-empty text, else 0.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	chars := utf8.RuneCountInString(text)
	lines := strings.Count(text, "\n") + 1
	n := int(math.Ceil(float64(chars)/CharsPerToken)) + int(math.Floor(float64(lines)*LineWeight))
	return max(1, n)
}

// MethodHeuristic labels estimates produced by EstimateDisplay.
const MethodHeuristic = "heuristic"

// DisplayEstimate is a token count shown to users next to the budgeting estimate.
type DisplayEstimate struct {
	Tokens int    `json:"tokens"`
	Method string `json:"method"`
}

// EstimateDisplay uses 3 runes per token for text containing Hangul, else 4.
// It may disagree with Estimate; it is never used for selection.
func EstimateDisplay(text string) DisplayEstimate {
	if text == "" {
		return DisplayEstimate{Tokens: 0, Method: MethodHeuristic}
	}
	divisor := 4.0
	if HasHangul(text) {
		divisor = 3.0
	}
	n := int(math.Ceil(float64(utf8.RuneCountInString(text)) / divisor))
	return DisplayEstimate{Tokens: n, Method: MethodHeuristic}
}

// HasHangul reports whether text contains a precomposed Hangul syllable.
func HasHangul(text string) bool {
	for _, r := range text {
		if r >= 0xAC00 && r <= 0xD7A3 {
			return true
		}
	}
	return false
}
