// Package engine runs the full prioritization pipeline: score the pool, overlay
// manual rules, build the dependency map, and pick a budgeted selection.
package engine

import (
	"time"

	"github.com/rcliao/context-priority/internal/deps"
	"github.com/rcliao/context-priority/internal/model"
	"github.com/rcliao/context-priority/internal/rules"
	"github.com/rcliao/context-priority/internal/scorer"
	"github.com/rcliao/context-priority/internal/selector"
	"github.com/rcliao/context-priority/internal/tokens"
)

// Input is one invocation's worth of caller data.
type Input struct {
	Items         []model.Item
	Relationships []model.Relationship
	Rules         rules.Map
	Request       string
	Budget        int
	Now           time.Time
}

// Settings are the tunables that usually come from configuration.
type Settings struct {
	Dependencies  deps.Options
	OverrunFactor float64
	PinBonus      float64
}

// Output is the pipeline result.
type Output struct {
	Scores        []model.Score         `json:"scores"`
	DependencyMap deps.Map              `json:"dependency_map"`
	Selection     model.SelectionResult `json:"selection"`
	// Warnings collects recoverable input problems, such as a degenerate budget.
	Warnings []error `json:"-"`
}

// ScoreItems scores the pool against the request.
func ScoreItems(items []model.Item, request string, now time.Time) []model.Score {
	return scorer.ScoreItems(items, request, scorer.Options{Now: now})
}

// ApplyManualRules overlays manual rules on scores.
func ApplyManualRules(scores []model.Score, rm rules.Map) []model.Score {
	return rules.Apply(scores, rm)
}

// BuildDependencyMap builds the dependency adjacency from relationships.
func BuildDependencyMap(rels []model.Relationship, opts deps.Options) deps.Map {
	return deps.BuildDependencyMap(rels, opts)
}

// PickBudgeted selects within the budget.
func PickBudgeted(scores []model.Score, budget int, cfg selector.Config) model.SelectionResult {
	return selector.PickBudgeted(scores, budget, cfg)
}

// EstimateTokens is the budgeting estimate for text.
func EstimateTokens(text string) int {
	return tokens.Estimate(text)
}

// Run executes the whole pipeline. It never fails; recoverable problems are
// reported in Output.Warnings.
func Run(in Input, set Settings) Output {
	var out Output
	if err := selector.ValidateBudget(in.Budget); err != nil {
		out.Warnings = append(out.Warnings, err)
	}

	scores := ScoreItems(in.Items, in.Request, in.Now)
	scores = ApplyManualRules(scores, in.Rules)

	depOpts := set.Dependencies
	if depOpts.KnownIDs == nil {
		depOpts.KnownIDs = make(map[string]bool, len(in.Items))
		for _, it := range in.Items {
			depOpts.KnownIDs[it.ID] = true
		}
	}
	depMap := BuildDependencyMap(in.Relationships, depOpts)

	always, never, pinned := rules.IDSets(in.Rules)
	out.Scores = scores
	out.DependencyMap = depMap
	out.Selection = PickBudgeted(scores, in.Budget, selector.Config{
		DependencyMap: depMap,
		AlwaysIDs:     always,
		NeverIDs:      never,
		PinnedIDs:     pinned,
		OverrunFactor: set.OverrunFactor,
		PinBonus:      set.PinBonus,
	})
	return out
}
