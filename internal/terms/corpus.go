package terms

import "github.com/rcliao/context-priority/internal/model"

// Frequency maps a term to the number of distinct items containing it.
type Frequency map[string]int

// Corpus is the document-frequency view of one candidate pool.
type Corpus struct {
	Frequency Frequency
	Size      int
}

// BuildCorpusFrequency counts, per term, the distinct items that contain it.
func BuildCorpusFrequency(items []model.Item) Frequency {
	freq := Frequency{}
	for _, it := range items {
		// ItemTerms is already deduplicated, so each item counts once per term.
		for _, term := range ItemTerms(it) {
			freq[term]++
		}
	}
	return freq
}

// BuildCorpus returns the frequency table together with the pool size.
func BuildCorpus(items []model.Item) Corpus {
	return Corpus{Frequency: BuildCorpusFrequency(items), Size: len(items)}
}

// RareThreshold is the document frequency at or below which a term counts as rare.
func RareThreshold(corpusSize int) int {
	return max(1, corpusSize*5/100)
}
