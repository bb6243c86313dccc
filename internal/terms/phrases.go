package terms

import (
	"sync"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// GenericPhrases are filler phrases that suggest low-specificity content.
var GenericPhrases = []string{
	"for example", "for instance", "generally", "in general", "overview", "summary",
	"basically", "typically", "as mentioned", "in short",
	"예를 들어", "예시", "일반적으로", "개요", "요약", "보통", "기본적으로",
}

// ConstraintPhrases are normative phrases that suggest rules the reader must keep.
var ConstraintPhrases = []string{
	"must", "should not", "shouldn't", "do not", "don't", "never", "required",
	"always", "only if", "forbidden",
	"주의", "규칙", "금지", "항상", "필수", "예외", "반드시", "하지 말",
}

// PhraseMatcher counts distinct phrases from a fixed list inside normalized text.
// The automaton is read-only after construction.
type PhraseMatcher struct {
	ac      ahocorasick.AhoCorasick
	phrases []string
}

// NewPhraseMatcher compiles the given phrases. Phrases are normalized first.
func NewPhraseMatcher(phrases []string) *PhraseMatcher {
	normalized := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if n := Normalize(p); n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) == 0 {
		return &PhraseMatcher{}
	}
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	return &PhraseMatcher{ac: builder.Build(normalized), phrases: normalized}
}

// Count returns how many distinct phrases occur in text. text should already be
// normalized with Normalize.
func (m *PhraseMatcher) Count(text string) int {
	if m == nil || text == "" || len(m.phrases) == 0 {
		return 0
	}
	seen := map[int]bool{}
	for _, match := range m.ac.FindAll(text) {
		seen[match.Pattern()] = true
	}
	return len(seen)
}

var (
	matchersOnce      sync.Once
	genericMatcher    *PhraseMatcher
	constraintMatcher *PhraseMatcher
)

func initMatchers() {
	genericMatcher = NewPhraseMatcher(GenericPhrases)
	constraintMatcher = NewPhraseMatcher(ConstraintPhrases)
}

// GenericHits counts generic filler phrases in normalized text.
func GenericHits(text string) int {
	matchersOnce.Do(initMatchers)
	return genericMatcher.Count(text)
}

// ConstraintHits counts normative phrases in normalized text.
func ConstraintHits(text string) int {
	matchersOnce.Do(initMatchers)
	return constraintMatcher.Count(text)
}
