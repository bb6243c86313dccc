package store

import (
	"context"
	"fmt"
	"time"

	cperrors "github.com/rcliao/context-priority/internal/errors"
	"github.com/rcliao/context-priority/internal/model"
)

// LinkParams holds parameters for creating/removing a relationship.
type LinkParams struct {
	FromID string
	ToID   string
	Kind   string // depends | references | has-part | ...
	Remove bool
}

// Link creates or removes a relationship between two items.
func (s *SQLiteStore) Link(ctx context.Context, p LinkParams) (*model.Relationship, error) {
	kind := model.NormalizeRelKind(p.Kind)
	if kind == "" {
		return nil, cperrors.Invalid("kind", "relationship kind is required")
	}
	if p.FromID == "" || p.ToID == "" {
		return nil, cperrors.Invalid("id", "both endpoints are required")
	}
	if p.FromID == p.ToID {
		return nil, cperrors.Invalid("id", "self relationship on %s", p.FromID)
	}

	rel := &model.Relationship{FromID: p.FromID, ToID: p.ToID, Kind: kind}

	if p.Remove {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM relationships WHERE from_id = ? AND to_id = ? AND kind = ?`,
			p.FromID, p.ToID, kind)
		if err != nil {
			return nil, err
		}
		return rel, nil
	}

	if _, err := s.GetItem(ctx, p.FromID); err != nil {
		return nil, fmt.Errorf("resolve from: %w", err)
	}
	if _, err := s.GetItem(ctx, p.ToID); err != nil {
		return nil, fmt.Errorf("resolve to: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO relationships (from_id, to_id, kind, created_at) VALUES (?, ?, ?, ?)`,
		p.FromID, p.ToID, kind, now)
	if err != nil {
		return nil, err
	}
	s.log.Debug("relationship linked", "from", p.FromID, "to", p.ToID, "kind", kind)
	return rel, nil
}

// Relationships returns relationships whose endpoints are both live items of scope.
func (s *SQLiteStore) Relationships(ctx context.Context, scope string) ([]model.Relationship, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.from_id, r.to_id, r.kind FROM relationships r
		 JOIN items a ON a.id = r.from_id AND a.deleted_at IS NULL AND a.scope = ?
		 JOIN items b ON b.id = r.to_id AND b.deleted_at IS NULL AND b.scope = ?
		 ORDER BY r.from_id, r.to_id, r.kind`, scopeOrDefault(scope), scopeOrDefault(scope))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rels []model.Relationship
	for rows.Next() {
		var r model.Relationship
		if err := rows.Scan(&r.FromID, &r.ToID, &r.Kind); err != nil {
			return nil, err
		}
		rels = append(rels, r)
	}
	return rels, rows.Err()
}
