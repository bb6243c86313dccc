package store

import (
	"context"
	"time"

	cperrors "github.com/rcliao/context-priority/internal/errors"
	"github.com/rcliao/context-priority/internal/model"
	"github.com/rcliao/context-priority/internal/rules"
)

// SetRule stores the manual rule for an item. RuleNone removes any stored rule.
func (s *SQLiteStore) SetRule(ctx context.Context, scope, itemID string, rule model.ManualRule) error {
	if itemID == "" {
		return cperrors.Invalid("id", "item id is required")
	}
	if !model.ValidRules[rule] {
		return cperrors.Invalid("rule", "invalid rule %q", rule)
	}
	scope = scopeOrDefault(scope)

	if rule == model.RuleNone {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM manual_rules WHERE scope = ? AND item_id = ?`, scope, itemID)
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO manual_rules (scope, item_id, rule, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(scope, item_id) DO UPDATE SET rule = excluded.rule, updated_at = excluded.updated_at`,
		scope, itemID, string(rule), now)
	return err
}

// ClearRule removes the manual rule for an item.
func (s *SQLiteStore) ClearRule(ctx context.Context, scope, itemID string) error {
	return s.SetRule(ctx, scope, itemID, model.RuleNone)
}

// Rules returns the manual rules stored for scope. Unknown rule labels are skipped.
func (s *SQLiteStore) Rules(ctx context.Context, scope string) (rules.Map, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, rule FROM manual_rules WHERE scope = ? ORDER BY item_id`, scopeOrDefault(scope))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := rules.Map{}
	for rows.Next() {
		var id, label string
		if err := rows.Scan(&id, &label); err != nil {
			return nil, err
		}
		r, err := rules.Parse(label)
		if err != nil {
			s.log.Warn("skipping stored rule", "item", id, "rule", label)
			continue
		}
		out[id] = r
	}
	return out, rows.Err()
}
