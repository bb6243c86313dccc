// Package terms turns free text into normalized term sets and computes corpus
// document frequencies over a candidate pool.
package terms

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/rcliao/context-priority/internal/model"
)

// MinTermLength is the shortest token (in runes) kept as a term.
const MinTermLength = 2

// tokenRe accepts alphanumeric runs, identifier punctuation, and Hangul.
var tokenRe = regexp.MustCompile(`[0-9A-Za-z_./\-\x{AC00}-\x{D7A3}\x{3131}-\x{318E}]+`)

const edgePunct = "._/-"

// Terms is an ordered set of terms, in order of first occurrence.
type Terms []string

// Set returns the terms as a membership map.
func (t Terms) Set() map[string]struct{} {
	out := make(map[string]struct{}, len(t))
	for _, term := range t {
		out[term] = struct{}{}
	}
	return out
}

// Normalize applies NFC composition, Unicode lower-casing, and whitespace collapsing.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	// Casers carry state; one per call keeps Normalize safe for concurrent use.
	lowered := cases.Lower(language.Und).String(norm.NFC.String(text))
	return strings.Join(strings.Fields(lowered), " ")
}

// Extract returns the normalized, stopword-filtered terms of text.
func Extract(text string) Terms {
	return collect(Normalize(text), true)
}

// Surface returns case-preserved tokens of text, without stopword filtering.
// Used where letter case carries signal (camelCase, mixed identifiers).
func Surface(text string) Terms {
	if text == "" {
		return nil
	}
	return collect(strings.Join(strings.Fields(norm.NFC.String(text)), " "), false)
}

func collect(text string, dropStopWords bool) Terms {
	var out Terms
	seen := map[string]bool{}
	for _, tok := range tokenRe.FindAllString(text, -1) {
		tok = strings.Trim(tok, edgePunct)
		if utf8.RuneCountInString(tok) < MinTermLength || seen[tok] {
			continue
		}
		if dropStopWords && StopWords[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// ItemText concatenates an item's text with the metadata fields the scorer reads.
func ItemText(it model.Item) string {
	parts := make([]string, 0, 4)
	for _, s := range []string{it.Text, it.Meta("name"), it.Meta("uri"), it.Meta("summary")} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ItemTerms extracts the terms of an item's text and metadata.
func ItemTerms(it model.Item) Terms {
	return Extract(ItemText(it))
}

// Overlap is |A∩B| / max(1, min(|A|,|B|)).
func Overlap(a, b Terms) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	set := large.Set()
	hits := 0
	for _, term := range small {
		if _, ok := set[term]; ok {
			hits++
		}
	}
	return float64(hits) / float64(max(1, len(small)))
}

// Counts returns raw occurrence counts of each token in text after normalization.
// Stopwords are kept; callers filter through their own term set.
func Counts(text string) map[string]int {
	out := map[string]int{}
	for _, tok := range tokenRe.FindAllString(Normalize(text), -1) {
		tok = strings.Trim(tok, edgePunct)
		if utf8.RuneCountInString(tok) < MinTermLength {
			continue
		}
		out[tok]++
	}
	return out
}
