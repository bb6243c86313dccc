// Package selector picks the subset of scored items that fits a token budget
// without splitting an item from its dependency closure.
package selector

import (
	"sort"

	"github.com/rcliao/context-priority/internal/deps"
	cperrors "github.com/rcliao/context-priority/internal/errors"
	"github.com/rcliao/context-priority/internal/model"
)

const (
	// DefaultOverrunFactor bounds how far must-tier admission may exceed the budget.
	DefaultOverrunFactor = 1.25
	// DefaultPinBonus is added to the value density numerator of pinned items.
	DefaultPinBonus = 0.15
)

// Config carries the selection inputs besides scores and budget.
type Config struct {
	DependencyMap deps.Map
	AlwaysIDs     []string
	NeverIDs      []string
	PinnedIDs     []string

	// OverrunFactor defaults to DefaultOverrunFactor when zero.
	OverrunFactor float64
	// PinBonus defaults to DefaultPinBonus when zero; negative disables it.
	PinBonus float64
}

func (cfg Config) withDefaults() Config {
	if cfg.OverrunFactor <= 0 {
		cfg.OverrunFactor = DefaultOverrunFactor
	}
	if cfg.PinBonus == 0 {
		cfg.PinBonus = DefaultPinBonus
	} else if cfg.PinBonus < 0 {
		cfg.PinBonus = 0
	}
	return cfg
}

// ValidateBudget reports a non-positive budget. PickBudgeted still accepts one and
// admits only must-tier items.
func ValidateBudget(budget int) error {
	if budget <= 0 {
		return cperrors.Invalid("budget", "must be a positive token count, got %d", budget)
	}
	return nil
}

// tagRank orders the final selection.
var tagRank = map[model.SelectionTag]int{
	model.TagAlways:     0,
	model.TagMust:       1,
	model.TagDependency: 2,
	model.TagValue:      3,
}

type picker struct {
	cfg    Config
	budget int

	pool   map[string]*model.Score
	never  map[string]bool
	always map[string]bool
	pinned map[string]bool

	selected map[string]bool
	order    []string
	used     int
}

// PickBudgeted runs the greedy selection: must-tier first with bounded overrun,
// then the rest by value density within the budget. An item and its unselected
// dependency closure are admitted or rejected together.
func PickBudgeted(scores []model.Score, budget int, cfg Config) model.SelectionResult {
	cfg = cfg.withDefaults()
	if budget < 0 {
		budget = 0
	}
	p := &picker{
		cfg:      cfg,
		budget:   budget,
		pool:     map[string]*model.Score{},
		never:    toSet(cfg.NeverIDs),
		always:   toSet(cfg.AlwaysIDs),
		pinned:   toSet(cfg.PinnedIDs),
		selected: map[string]bool{},
	}

	var ids []string
	var neverScores []model.Score
	for _, s := range scores {
		if _, dup := p.pool[s.ID]; dup || s.ID == "" {
			continue
		}
		c := s.Clone()
		c.SelectionTag = model.TagNone
		c.DependencyIDs = nil
		if p.never[s.ID] {
			neverScores = append(neverScores, c)
			continue
		}
		p.pool[s.ID] = &c
		ids = append(ids, s.ID)
	}

	var mustTier, restTier []*model.Score
	for _, id := range ids {
		s := p.pool[id]
		if s.Bucket == model.BucketMust || p.always[id] {
			mustTier = append(mustTier, s)
		} else {
			restTier = append(restTier, s)
		}
	}

	sort.SliceStable(mustTier, func(i, j int) bool {
		a, b := mustTier[i], mustTier[j]
		if p.always[a.ID] != p.always[b.ID] {
			return p.always[a.ID]
		}
		if p.pinned[a.ID] != p.pinned[b.ID] {
			return p.pinned[a.ID]
		}
		return byPriority(a, b)
	})
	sort.SliceStable(restTier, func(i, j int) bool {
		a, b := restTier[i], restTier[j]
		da, db := p.density(a), p.density(b)
		if da != db {
			return da > db
		}
		return byPriority(a, b)
	})

	for _, s := range mustTier {
		if p.selected[s.ID] {
			continue
		}
		tag := model.TagMust
		if p.always[s.ID] {
			tag = model.TagAlways
		}
		p.include(s, tag, true)
	}
	if p.budget > 0 {
		for _, s := range restTier {
			if p.selected[s.ID] {
				continue
			}
			p.include(s, model.TagValue, false)
		}
	}

	return p.result(ids, neverScores)
}

func (p *picker) density(s *model.Score) float64 {
	bonus := 0.0
	if p.pinned[s.ID] {
		bonus = p.cfg.PinBonus
	}
	return (s.Priority + s.OmissionRisk*0.4 + bonus) / float64(max(1, s.EstimatedTokens))
}

// include admits s together with its unselected closure, or nothing.
func (p *picker) include(s *model.Score, tag model.SelectionTag, allowOverrun bool) bool {
	closure := p.cfg.DependencyMap.Reachable(s.ID, func(id string) bool {
		_, inPool := p.pool[id]
		return !inPool || p.selected[id] || p.never[id]
	})
	sort.SliceStable(closure, func(i, j int) bool {
		a, b := p.pool[closure[i]], p.pool[closure[j]]
		if p.pinned[a.ID] != p.pinned[b.ID] {
			return p.pinned[a.ID]
		}
		return byPriority(a, b)
	})

	packageTokens := s.EstimatedTokens
	for _, id := range closure {
		packageTokens += p.pool[id].EstimatedTokens
	}

	next := p.used + packageTokens
	if allowOverrun {
		if float64(next) > float64(p.budget)*p.cfg.OverrunFactor && len(p.selected) > 0 {
			return false
		}
	} else if next > p.budget {
		return false
	}

	for _, id := range closure {
		dep := p.pool[id]
		dep.SelectionTag = model.TagDependency
		p.mark(id)
	}
	s.SelectionTag = tag
	if len(closure) > 0 {
		s.DependencyIDs = closure
	}
	p.mark(s.ID)
	p.used = next
	return true
}

func (p *picker) mark(id string) {
	p.selected[id] = true
	p.order = append(p.order, id)
}

func (p *picker) result(ids []string, neverScores []model.Score) model.SelectionResult {
	res := model.SelectionResult{
		Budget:             p.budget,
		Selected:           []model.Score{},
		Omitted:            []model.Score{},
		UsedTokens:         p.used,
		DependencyAddedIDs: []string{},
	}
	for _, id := range p.order {
		s := *p.pool[id]
		res.Selected = append(res.Selected, s)
		if s.SelectionTag == model.TagDependency {
			res.DependencyAddedIDs = append(res.DependencyAddedIDs, id)
		}
	}
	for _, id := range ids {
		if !p.selected[id] {
			res.Omitted = append(res.Omitted, *p.pool[id])
		}
	}
	res.Omitted = append(res.Omitted, neverScores...)

	sort.SliceStable(res.Selected, func(i, j int) bool {
		a, b := &res.Selected[i], &res.Selected[j]
		if ra, rb := tagRank[a.SelectionTag], tagRank[b.SelectionTag]; ra != rb {
			return ra < rb
		}
		am, bm := a.Bucket == model.BucketMust, b.Bucket == model.BucketMust
		if am != bm {
			return am
		}
		return byPriority(a, b)
	})
	sort.SliceStable(res.Omitted, func(i, j int) bool {
		return byPriority(&res.Omitted[i], &res.Omitted[j])
	})
	sort.Strings(res.DependencyAddedIDs)
	return res
}

// byPriority orders by descending priority, then ascending id.
func byPriority(a, b *model.Score) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.ID < b.ID
}

func toSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
