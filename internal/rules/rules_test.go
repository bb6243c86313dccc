package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/context-priority/internal/model"
)

func baseScores() []model.Score {
	return []model.Score{
		{ID: "a", Priority: 0.4, OmissionRisk: 0.3, Bucket: model.BucketOptional, Reasons: []string{"partial request match"}, ManualRule: model.RuleNone},
		{ID: "n", Priority: 0.9, OmissionRisk: 0.8, Bucket: model.BucketMust, Reasons: []string{"high omission risk"}, ManualRule: model.RuleNone},
		{ID: "p", Priority: 0.5, OmissionRisk: 0.2, Bucket: model.BucketRecommended, Reasons: []string{}, ManualRule: model.RuleNone},
		{ID: "x", Priority: 0.2, OmissionRisk: 0.1, Bucket: model.BucketSkippable, Reasons: []string{}, ManualRule: model.RuleNone},
	}
}

func testRules() Map {
	return Map{"a": model.RuleAlways, "n": model.RuleNever, "p": model.RulePin, "ghost": model.RuleAlways}
}

func TestApplyAlways(t *testing.T) {
	got := Apply(baseScores(), testRules())
	a := got[0]
	assert.Equal(t, 0.97, a.Priority)
	assert.Equal(t, 0.9, a.OmissionRisk)
	assert.Equal(t, model.BucketMust, a.Bucket)
	assert.Equal(t, model.RuleAlways, a.ManualRule)
	assert.Equal(t, []string{ReasonAlways, "partial request match"}, a.Reasons)
}

func TestApplyAlwaysKeepsHigherValues(t *testing.T) {
	got := Apply([]model.Score{{ID: "a", Priority: 0.99, OmissionRisk: 0.95}}, Map{"a": model.RuleAlways})
	assert.Equal(t, 0.99, got[0].Priority)
	assert.Equal(t, 0.95, got[0].OmissionRisk)
}

func TestApplyNever(t *testing.T) {
	n := Apply(baseScores(), testRules())[1]
	assert.Equal(t, 0.03, n.Priority)
	assert.Equal(t, 0.08, n.OmissionRisk)
	assert.Equal(t, model.BucketSkippable, n.Bucket)
	assert.Equal(t, model.RuleNever, n.ManualRule)
	assert.Equal(t, ReasonNever, n.Reasons[0])
}

func TestApplyPin(t *testing.T) {
	p := Apply(baseScores(), testRules())[2]
	assert.InDelta(t, 0.58, p.Priority, 1e-9)
	assert.Equal(t, model.BucketRecommended, p.Bucket, "pin leaves the bucket alone")
	assert.Equal(t, model.RulePin, p.ManualRule)
	assert.Equal(t, []string{ReasonPin}, p.Reasons)

	capped := Apply([]model.Score{{ID: "p", Priority: 0.97}}, Map{"p": model.RulePin})[0]
	assert.Equal(t, 1.0, capped.Priority)
}

func TestApplyWithoutRuleIsUnchanged(t *testing.T) {
	in := baseScores()
	got := Apply(in, testRules())
	assert.Equal(t, in[3], got[3])
	assert.Len(t, got, len(in), "rules for unknown ids are ignored")
}

func TestApplyIdempotent(t *testing.T) {
	once := Apply(baseScores(), testRules())
	twice := Apply(once, testRules())
	assert.Equal(t, once, twice)
}

func TestApplyDoesNotAliasInput(t *testing.T) {
	in := baseScores()
	_ = Apply(in, testRules())
	assert.Equal(t, baseScores(), in)
}

func TestApplyKeepsBounds(t *testing.T) {
	scores := []model.Score{
		{ID: "a", Priority: 1, OmissionRisk: 1},
		{ID: "n", Priority: 0, OmissionRisk: 0},
		{ID: "p", Priority: 1},
	}
	for _, s := range Apply(scores, testRules()) {
		assert.True(t, s.Priority >= 0 && s.Priority <= 1, s.ID)
		assert.True(t, s.OmissionRisk >= 0 && s.OmissionRisk <= 1, s.ID)
	}
}

func TestReasonsDedupedAndCapped(t *testing.T) {
	s := model.Score{ID: "a", Reasons: []string{"r1", ReasonAlways, "r2", "r3", "r4", "r5"}}
	got := Apply([]model.Score{s}, Map{"a": model.RuleAlways})[0]
	require.Len(t, got.Reasons, model.MaxOverlayReasons)
	assert.Equal(t, []string{ReasonAlways, "r1", "r2", "r3", "r4"}, got.Reasons)
}

func TestParse(t *testing.T) {
	for in, want := range map[string]model.ManualRule{
		"":       model.RuleNone,
		"none":   model.RuleNone,
		" Pin ":  model.RulePin,
		"ALWAYS": model.RuleAlways,
		"never":  model.RuleNever,
	} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := Parse("sometimes")
	assert.Error(t, err)
}

func TestIDSets(t *testing.T) {
	always, never, pinned := IDSets(Map{
		"z": model.RuleAlways, "b": model.RuleAlways, "n": model.RuleNever,
		"p2": model.RulePin, "p1": model.RulePin, "o": model.RuleNone,
	})
	assert.Equal(t, []string{"b", "z"}, always)
	assert.Equal(t, []string{"n"}, never)
	assert.Equal(t, []string{"p1", "p2"}, pinned)
}
