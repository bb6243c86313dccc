package scorer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rcliao/context-priority/internal/terms"
)

var (
	camelRe = regexp.MustCompile(`^[a-z][a-z0-9]*[A-Z][A-Za-z0-9]*$`)
	snakeRe = regexp.MustCompile(`^[A-Za-z0-9]+(_[A-Za-z0-9]+)+$`)
	kebabRe = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)+$`)
)

// Signals are the rarity-style counts computed over an item's terms.
type Signals struct {
	RareHits       int
	TechnicalHits  int
	NamingHits     int
	UniqueLikeHits int
}

// ComputeSignals counts rare and unique-looking terms against the corpus, and
// technical and naming shapes over the case-preserved surface tokens.
func ComputeSignals(itemTerms, surface terms.Terms, corpus terms.Corpus) Signals {
	var s Signals
	threshold := terms.RareThreshold(corpus.Size)
	for _, term := range itemTerms {
		df := corpus.Frequency[term]
		if df <= threshold {
			s.RareHits++
		}
		if utf8.RuneCountInString(term) >= 6 && df <= 2 {
			s.UniqueLikeHits++
		}
	}
	for _, tok := range surface {
		if IsTechnical(tok) {
			s.TechnicalHits++
		}
		if IsNamingShape(tok) {
			s.NamingHits++
		}
	}
	return s
}

// IsTechnical reports whether a token mixes letters with digits, separators, or an
// inner uppercase letter.
func IsTechnical(tok string) bool {
	var letter, digit, sep, innerUpper bool
	for i, r := range tok {
		switch {
		case unicode.IsLetter(r):
			letter = true
			if i > 0 && unicode.IsUpper(r) {
				innerUpper = true
			}
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune("_./-", r):
			sep = true
		}
	}
	return letter && (digit || sep || innerUpper)
}

// IsNamingShape matches camelCase, snake_case, and kebab-case identifiers.
func IsNamingShape(tok string) bool {
	return camelRe.MatchString(tok) || snakeRe.MatchString(tok) || kebabRe.MatchString(tok)
}
