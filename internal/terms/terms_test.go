package terms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/context-priority/internal/model"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "hello world", Normalize("  Hello\n\tWORLD  "))
	// Decomposed Hangul composes to the same string as the precomposed form.
	assert.Equal(t, Normalize("한국"), Normalize("한국"))
}

func TestExtract(t *testing.T) {
	got := Extract("The parser should handle config.yaml and the parser/v2 module!")
	assert.Equal(t, Terms{"parser", "should", "handle", "config.yaml", "parser/v2", "module"}, got)
}

func TestExtractDropsShortAndEdgePunctuation(t *testing.T) {
	got := Extract("a b ./cmd/ -x- _id_ ok")
	assert.Equal(t, Terms{"cmd", "id", "ok"}, got)
}

func TestExtractKorean(t *testing.T) {
	got := Extract("그리고 데이터베이스 마이그레이션 규칙")
	assert.Equal(t, Terms{"데이터베이스", "마이그레이션", "규칙"}, got)
}

func TestExtractEmpty(t *testing.T) {
	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("the and of"))
}

func TestSurfaceKeepsCase(t *testing.T) {
	got := Surface("Call parseConfig with HTTPServer")
	assert.Equal(t, Terms{"Call", "parseConfig", "with", "HTTPServer"}, got)
}

func TestItemTextIncludesMetadata(t *testing.T) {
	it := model.Item{
		Text:     "body",
		Metadata: map[string]any{"name": "Title", "uri": "file://a.go", "summary": "short", "other": "skip"},
	}
	assert.Equal(t, "body Title file://a.go short", ItemText(it))
}

func TestOverlap(t *testing.T) {
	assert.Equal(t, 0.0, Overlap(nil, Terms{"a"}))
	assert.Equal(t, 1.0, Overlap(Terms{"db", "index"}, Terms{"db", "index", "query", "plan"}))
	assert.Equal(t, 0.5, Overlap(Terms{"db", "cache"}, Terms{"db", "index", "query"}))
}

func TestCounts(t *testing.T) {
	c := Counts("Cache the cache, CACHE! x")
	assert.Equal(t, 3, c["cache"])
	assert.Equal(t, 1, c["the"])
	assert.NotContains(t, c, "x")
}

func TestBuildCorpusFrequencyCountsDocuments(t *testing.T) {
	items := []model.Item{
		{ID: "a", Text: "sqlite sqlite sqlite index"},
		{ID: "b", Text: "sqlite migration"},
		{ID: "c", Text: "unrelated text"},
	}
	corpus := BuildCorpus(items)
	require.Equal(t, 3, corpus.Size)
	assert.Equal(t, 2, corpus.Frequency["sqlite"], "repeated terms count once per item")
	assert.Equal(t, 1, corpus.Frequency["index"])
	assert.Equal(t, 0, corpus.Frequency["missing"])
}

func TestRareThreshold(t *testing.T) {
	assert.Equal(t, 1, RareThreshold(0))
	assert.Equal(t, 1, RareThreshold(10))
	assert.Equal(t, 5, RareThreshold(100))
	assert.Equal(t, 12, RareThreshold(250))
}

func TestPhraseHits(t *testing.T) {
	text := Normalize("For example, you MUST never do not, must again. For example!")
	assert.Equal(t, 1, GenericHits(text))
	assert.Equal(t, 3, ConstraintHits(text), "distinct phrases: must, never, do not")
	assert.Equal(t, 0, GenericHits(""))
}

func TestPhraseHitsKorean(t *testing.T) {
	text := Normalize("배포 전에 반드시 테스트. 금지 사항 확인")
	assert.Equal(t, 2, ConstraintHits(text))
	assert.Equal(t, 1, GenericHits(Normalize("일반적으로 이렇게 합니다")))
}

func TestPhraseMatcherNil(t *testing.T) {
	var m *PhraseMatcher
	assert.Equal(t, 0, m.Count("anything"))
	assert.Equal(t, 0, NewPhraseMatcher(nil).Count("anything"))
}
