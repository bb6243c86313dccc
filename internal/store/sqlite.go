package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	cperrors "github.com/rcliao/context-priority/internal/errors"
	"github.com/rcliao/context-priority/internal/logging"
	"github.com/rcliao/context-priority/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	log     *slog.Logger
	mu      sync.Mutex // guards entropy
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		log:     logger,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Debug("workspace opened", "path", dbPath)

	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id          TEXT PRIMARY KEY,
		scope       TEXT NOT NULL,
		kind        TEXT NOT NULL DEFAULT 'message',
		text        TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		metadata    TEXT,
		deleted_at  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_items_scope_kind ON items(scope, kind);
	CREATE INDEX IF NOT EXISTS idx_items_created ON items(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_items_deleted ON items(deleted_at);

	CREATE TABLE IF NOT EXISTS relationships (
		from_id    TEXT NOT NULL REFERENCES items(id),
		to_id      TEXT NOT NULL REFERENCES items(id),
		kind       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (from_id, to_id, kind)
	);
	CREATE INDEX IF NOT EXISTS idx_relationships_to ON relationships(to_id);

	CREATE TABLE IF NOT EXISTS manual_rules (
		scope      TEXT NOT NULL,
		item_id    TEXT NOT NULL,
		rule       TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (scope, item_id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func scopeOrDefault(scope string) string {
	if strings.TrimSpace(scope) == "" {
		return DefaultScope
	}
	return scope
}

func (s *SQLiteStore) PutItem(ctx context.Context, p PutParams) (*model.Item, error) {
	scope := scopeOrDefault(p.Scope)
	id := p.ID
	if id == "" {
		id = s.newID()
	}
	kind := model.ParseKind(string(p.Kind))
	if kind == "" {
		kind = model.KindMessage
	}
	createdAt := p.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}

	var metaPtr *string
	if len(p.Metadata) > 0 {
		b, err := json.Marshal(p.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
		m := string(b)
		metaPtr = &m
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, scope, kind, text, created_at, metadata, deleted_at)
		 VALUES (?, ?, ?, ?, ?, ?, NULL)
		 ON CONFLICT(id) DO UPDATE SET
		   scope = excluded.scope, kind = excluded.kind, text = excluded.text,
		   created_at = excluded.created_at, metadata = excluded.metadata, deleted_at = NULL`,
		id, scope, string(kind), p.Text, createdAt, metaPtr)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	return &model.Item{
		ID:        id,
		Kind:      kind,
		Text:      p.Text,
		CreatedAt: createdAt,
		Metadata:  p.Metadata,
	}, nil
}

func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*model.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, text, created_at, metadata FROM items
		 WHERE id = ? AND deleted_at IS NULL`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, cperrors.New(cperrors.NotFound, fmt.Sprintf("item not found: %s", id))
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *SQLiteStore) ListItems(ctx context.Context, p ListParams) ([]model.Item, error) {
	where := []string{"deleted_at IS NULL", "scope = ?"}
	args := []interface{}{scopeOrDefault(p.Scope)}

	if p.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(model.ParseKind(string(p.Kind))))
	}

	query := `SELECT id, kind, text, created_at, metadata FROM items
	          WHERE ` + strings.Join(where, " AND ") + `
	          ORDER BY created_at DESC, id`
	if p.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, p.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) RmItem(ctx context.Context, p RmParams) error {
	if _, err := s.GetItem(ctx, p.ID); err != nil && !p.Hard {
		return err
	}
	if p.Hard {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()
		if _, err := tx.ExecContext(ctx, `DELETE FROM relationships WHERE from_id = ? OR to_id = ?`, p.ID, p.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM manual_rules WHERE item_id = ?`, p.ID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, p.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return cperrors.New(cperrors.NotFound, fmt.Sprintf("item not found: %s", p.ID))
		}
		return tx.Commit()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `UPDATE items SET deleted_at = ? WHERE id = ?`, now, p.ID)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row scanner) (model.Item, error) {
	var it model.Item
	var kind string
	var meta sql.NullString

	if err := row.Scan(&it.ID, &kind, &it.Text, &it.CreatedAt, &meta); err != nil {
		return it, err
	}
	it.Kind = model.Kind(kind)
	if meta.Valid {
		// Malformed payloads decode to an empty map rather than failing the read.
		it.Metadata = model.DecodeMetadata(meta.String)
	}
	return it, nil
}
