package store

import (
	"context"
	"fmt"

	"github.com/rcliao/context-priority/internal/model"
)

// Pool returns every live item of scope along with its relationships and rules.
func (s *SQLiteStore) Pool(ctx context.Context, scope string) (*model.Pool, error) {
	items, err := s.ListItems(ctx, ListParams{Scope: scope})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	rels, err := s.Relationships(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	rm, err := s.Rules(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return &model.Pool{Items: items, Relationships: rels, Rules: rm}, nil
}

// ExportPool is Pool under the name the export command uses.
func (s *SQLiteStore) ExportPool(ctx context.Context, scope string) (*model.Pool, error) {
	return s.Pool(ctx, scope)
}

// ImportResult reports what ImportPool wrote.
type ImportResult struct {
	Items         int      `json:"items"`
	Relationships int      `json:"relationships"`
	Rules         int      `json:"rules"`
	Skipped       []string `json:"skipped,omitempty"`
}

// ImportPool writes a pool into scope. Items are upserted by id; relationships and
// rules that fail validation are reported in Skipped instead of aborting the import.
func (s *SQLiteStore) ImportPool(ctx context.Context, scope string, pool *model.Pool) (*ImportResult, error) {
	res := &ImportResult{}
	if pool == nil {
		return res, nil
	}
	for _, it := range pool.Items {
		_, err := s.PutItem(ctx, PutParams{
			Scope:     scope,
			ID:        it.ID,
			Kind:      it.Kind,
			Text:      it.Text,
			CreatedAt: it.CreatedAt,
			Metadata:  it.Metadata,
		})
		if err != nil {
			return res, fmt.Errorf("import item %s: %w", it.ID, err)
		}
		res.Items++
	}
	for _, r := range pool.Relationships {
		if _, err := s.Link(ctx, LinkParams{FromID: r.FromID, ToID: r.ToID, Kind: r.Kind}); err != nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("relationship %s->%s: %v", r.FromID, r.ToID, err))
			continue
		}
		res.Relationships++
	}
	for id, rule := range pool.Rules {
		if err := s.SetRule(ctx, scope, id, rule); err != nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("rule %s: %v", id, err))
			continue
		}
		res.Rules++
	}
	s.log.Info("pool imported", "scope", scopeOrDefault(scope), "items", res.Items,
		"relationships", res.Relationships, "rules", res.Rules, "skipped", len(res.Skipped))
	return res, nil
}
