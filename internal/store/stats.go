package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath        string       `json:"db_path"`
	DBSizeBytes   int64        `json:"db_size_bytes"`
	TotalItems    int          `json:"total_items"`
	ActiveItems   int          `json:"active_items"`
	Relationships int          `json:"relationships"`
	Rules         int          `json:"rules"`
	Scopes        []ScopeStats `json:"scopes"`
}

// ScopeStats holds per-scope counts.
type ScopeStats struct {
	Scope string         `json:"scope"`
	Count int            `json:"count"`
	Kinds map[string]int `json:"kinds"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&st.TotalItems)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items WHERE deleted_at IS NULL`).Scan(&st.ActiveItems)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM relationships`).Scan(&st.Relationships)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM manual_rules`).Scan(&st.Rules)

	rows, err := s.db.QueryContext(ctx, `
		SELECT scope, kind, COUNT(*) AS cnt
		FROM items WHERE deleted_at IS NULL
		GROUP BY scope, kind ORDER BY scope, kind`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	byScope := map[string]int{}
	for rows.Next() {
		var scope, kind string
		var cnt int
		rows.Scan(&scope, &kind, &cnt)
		idx, ok := byScope[scope]
		if !ok {
			idx = len(st.Scopes)
			byScope[scope] = idx
			st.Scopes = append(st.Scopes, ScopeStats{Scope: scope, Kinds: map[string]int{}})
		}
		st.Scopes[idx].Count += cnt
		st.Scopes[idx].Kinds[kind] = cnt
	}

	return st, nil
}

// ListScopes returns the scopes that hold at least one live item.
func (s *SQLiteStore) ListScopes(ctx context.Context) ([]ScopeStats, error) {
	st, err := s.Stats(ctx, "")
	if err != nil {
		return nil, err
	}
	return st.Scopes, nil
}
