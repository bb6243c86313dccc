// Package planner recommends which inactive items to unfold into the working set and
// compiles the active set into prompt text.
package planner

import (
	"math"
	"sort"
	"strings"

	"github.com/rcliao/context-priority/internal/deps"
	"github.com/rcliao/context-priority/internal/model"
	"github.com/rcliao/context-priority/internal/terms"
	"github.com/rcliao/context-priority/internal/tokens"
)

// DefaultClosureKinds are followed when expanding an unfold seed.
var DefaultClosureKinds = []string{"depends", "depends-on", "has-part", "split-from", "references"}

const (
	DefaultTopK            = 8
	DefaultMaxCandidates   = 16
	DefaultBudget          = 1200
	DefaultMaxClosureNodes = 12

	previewChars = 220
	headChars    = 240
)

// PlanParams configures PlanUnfold.
type PlanParams struct {
	Query         string
	Items         []model.Item
	Relationships []model.Relationship
	ActiveIDs     []string

	TopK            int
	MaxCandidates   int
	Budget          int
	ClosureKinds    []string
	Direction       deps.Direction
	MaxClosureNodes int
}

func (p PlanParams) withDefaults() PlanParams {
	if p.TopK <= 0 {
		p.TopK = DefaultTopK
	}
	if p.MaxCandidates <= 0 {
		p.MaxCandidates = DefaultMaxCandidates
	}
	if p.Budget <= 0 {
		p.Budget = 1
	}
	if len(p.ClosureKinds) == 0 {
		p.ClosureKinds = DefaultClosureKinds
	}
	if p.Direction == "" {
		p.Direction = deps.DirectionBoth
	}
	return p
}

// Candidate is one scored unfold seed with its closure cost.
type Candidate struct {
	SeedID          string       `json:"seed_id"`
	SeedKind        model.Kind   `json:"seed_kind"`
	Score           float64      `json:"score"`
	Preview         string       `json:"preview"`
	ClosureIDs      []string     `json:"closure_ids"`
	ClosureAddedIDs []string     `json:"closure_added_ids"`
	MarginalCost    int          `json:"marginal_cost_tokens"`
	MarginalRatio   float64      `json:"marginal_ratio"`
	Closure         deps.Closure `json:"closure_explain"`
}

// Plan is the result of PlanUnfold.
type Plan struct {
	Query               string      `json:"query"`
	QueryTerms          []string    `json:"query_terms"`
	Budget              int         `json:"budget_tokens"`
	Candidates          []Candidate `json:"candidates"`
	RecommendedSeedIDs  []string    `json:"recommended_seed_ids"`
	RecommendedAddedIDs []string    `json:"recommended_added_ids"`
	RecommendedCost     int         `json:"recommended_cost_tokens"`
}

// ScoreText is a lexical match score: earlier query terms weigh more, repeated
// occurrences add up to a cap, and matches near the start get a bonus.
func ScoreText(queryTerms []string, text string) float64 {
	body := terms.Normalize(text)
	if body == "" {
		return 0
	}
	counts := terms.Counts(body)
	head := body
	if r := []rune(body); len(r) > headChars {
		head = string(r[:headChars])
	}
	score := 0.0
	for idx, term := range queryTerms {
		tf := counts[term]
		if tf <= 0 {
			continue
		}
		score += 3.0 / float64(idx+1)
		score += math.Min(2.5, 0.6*float64(tf))
		if strings.Contains(head, term) {
			score += 0.5
		}
	}
	return math.Round(score*10000) / 10000
}

// PlanUnfold ranks inactive items by lexical score and marginal closure cost, then
// greedily recommends seeds whose unselected closure fits the budget.
func PlanUnfold(p PlanParams) Plan {
	p = p.withDefaults()
	queryTerms := terms.Extract(p.Query)
	active := deps.OrderedUnique(p.ActiveIDs)
	activeSet := map[string]bool{}
	for _, id := range active {
		activeSet[id] = true
	}
	byID := indexItems(p.Items)

	var cands []Candidate
	for _, it := range p.Items {
		if it.ID == "" || activeSet[it.ID] {
			continue
		}
		score := ScoreText(queryTerms, it.Text)
		if score <= 0 {
			continue
		}
		closure := deps.ExpandClosure([]string{it.ID}, p.Relationships, deps.ClosureOptions{
			Kinds:     p.ClosureKinds,
			Direction: p.Direction,
			MaxNodes:  p.MaxClosureNodes,
		})
		ordered := knownOnly(closure.OrderedIDs, byID)
		cost := 0
		var added []string
		for _, id := range ordered {
			if id != it.ID {
				added = append(added, id)
			}
			if !activeSet[id] {
				cost += tokens.Estimate(byID[id].Text)
			}
		}
		cands = append(cands, Candidate{
			SeedID:          it.ID,
			SeedKind:        it.Kind,
			Score:           score,
			Preview:         Preview(it.Text, queryTerms, previewChars),
			ClosureIDs:      ordered,
			ClosureAddedIDs: nonNil(added),
			MarginalCost:    cost,
			MarginalRatio:   math.Round(score/float64(max(1, cost))*1e6) / 1e6,
			Closure:         closure,
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.MarginalRatio != b.MarginalRatio {
			return a.MarginalRatio > b.MarginalRatio
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.MarginalCost != b.MarginalCost {
			return a.MarginalCost < b.MarginalCost
		}
		return a.SeedID < b.SeedID
	})
	if len(cands) > p.MaxCandidates {
		cands = cands[:p.MaxCandidates]
	}

	plan := Plan{
		Query:               p.Query,
		QueryTerms:          nonNil(queryTerms),
		Budget:              p.Budget,
		Candidates:          nonNilCandidates(cands),
		RecommendedSeedIDs:  []string{},
		RecommendedAddedIDs: []string{},
	}
	selected := map[string]bool{}
	for id := range activeSet {
		selected[id] = true
	}
	for _, c := range cands {
		var add []string
		cost := 0
		for _, id := range c.ClosureIDs {
			if !selected[id] {
				add = append(add, id)
				cost += tokens.Estimate(byID[id].Text)
			}
		}
		if plan.RecommendedCost+cost > p.Budget {
			continue
		}
		plan.RecommendedSeedIDs = append(plan.RecommendedSeedIDs, c.SeedID)
		plan.RecommendedCost += cost
		for _, id := range add {
			selected[id] = true
			plan.RecommendedAddedIDs = append(plan.RecommendedAddedIDs, id)
		}
		if len(plan.RecommendedSeedIDs) >= p.TopK {
			break
		}
	}
	return plan
}

// SeedStep explains one seed of ApplySeeds.
type SeedStep struct {
	SeedID       string       `json:"seed_id"`
	CandidateIDs []string     `json:"candidate_add_ids"`
	Cost         int          `json:"candidate_cost_tokens"`
	Accepted     bool         `json:"accepted"`
	Closure      deps.Closure `json:"closure"`
}

// Application is the result of ApplySeeds.
type Application struct {
	NextActiveIDs []string   `json:"next_active_ids"`
	AddedIDs      []string   `json:"added_ids"`
	UsedTokens    int        `json:"used_tokens"`
	Budget        int        `json:"budget_tokens"`
	Steps         []SeedStep `json:"steps"`
}

// ApplySeeds unfolds the given seeds in order, admitting each seed's unselected
// closure only while the running cost stays within the budget.
func ApplySeeds(seedIDs []string, p PlanParams) Application {
	p = p.withDefaults()
	byID := indexItems(p.Items)
	active := deps.OrderedUnique(p.ActiveIDs)
	selected := map[string]bool{}
	for _, id := range active {
		selected[id] = true
	}

	app := Application{Budget: p.Budget, AddedIDs: []string{}, Steps: []SeedStep{}}
	for _, seed := range deps.OrderedUnique(seedIDs) {
		if _, ok := byID[seed]; !ok {
			continue
		}
		closure := deps.ExpandClosure([]string{seed}, p.Relationships, deps.ClosureOptions{
			Kinds:     p.ClosureKinds,
			Direction: p.Direction,
			MaxNodes:  p.MaxClosureNodes,
		})
		var add []string
		cost := 0
		for _, id := range knownOnly(closure.OrderedIDs, byID) {
			if !selected[id] {
				add = append(add, id)
				cost += tokens.Estimate(byID[id].Text)
			}
		}
		accepted := app.UsedTokens+cost <= p.Budget
		app.Steps = append(app.Steps, SeedStep{
			SeedID:       seed,
			CandidateIDs: nonNil(add),
			Cost:         cost,
			Accepted:     accepted,
			Closure:      closure,
		})
		if !accepted {
			continue
		}
		app.UsedTokens += cost
		for _, id := range add {
			selected[id] = true
			active = append(active, id)
			app.AddedIDs = append(app.AddedIDs, id)
		}
	}
	app.NextActiveIDs = deps.OrderedUnique(active)
	return app
}

// Preview returns up to maxChars runes of text centred on the first query term found.
func Preview(text string, queryTerms []string, maxChars int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	runes := []rune(text)
	lower := []rune(strings.ToLower(text))
	pos := -1
	if len(lower) == len(runes) {
		low := string(lower)
		for _, t := range queryTerms {
			if i := strings.Index(low, t); i >= 0 {
				pos = len([]rune(low[:i]))
				break
			}
		}
	}
	if pos < 0 {
		if len(runes) <= maxChars {
			return text
		}
		return string(runes[:maxChars]) + "..."
	}
	start := max(0, pos-maxChars/3)
	end := min(len(runes), start+maxChars)
	snippet := strings.TrimSpace(string(runes[start:end]))
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet += "..."
	}
	return snippet
}

func indexItems(items []model.Item) map[string]model.Item {
	out := make(map[string]model.Item, len(items))
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		if _, dup := out[it.ID]; !dup {
			out[it.ID] = it
		}
	}
	return out
}

func knownOnly(ids []string, byID map[string]model.Item) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := byID[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func nonNilCandidates(c []Candidate) []Candidate {
	if c == nil {
		return []Candidate{}
	}
	return c
}
