package store

import (
	"context"
	"testing"

	cperrors "github.com/rcliao/context-priority/internal/errors"
	"github.com/rcliao/context-priority/internal/model"
)

func TestLinkCreate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.PutItem(ctx, PutParams{ID: "a", Text: "item a"})
	s.PutItem(ctx, PutParams{ID: "b", Text: "item b"})

	rel, err := s.Link(ctx, LinkParams{FromID: "a", ToID: "b", Kind: "Depends_On"})
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if rel.Kind != "depends-on" {
		t.Errorf("expected normalized kind depends-on, got %s", rel.Kind)
	}

	rels, err := s.Relationships(ctx, "")
	if err != nil {
		t.Fatalf("relationships: %v", err)
	}
	if len(rels) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(rels))
	}

	// Linking again is a no-op.
	s.Link(ctx, LinkParams{FromID: "a", ToID: "b", Kind: "depends-on"})
	rels, _ = s.Relationships(ctx, "")
	if len(rels) != 1 {
		t.Errorf("expected duplicate link ignored, got %d", len(rels))
	}
}

func TestLinkRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.PutItem(ctx, PutParams{ID: "a", Text: "item a"})
	s.PutItem(ctx, PutParams{ID: "b", Text: "item b"})
	s.Link(ctx, LinkParams{FromID: "a", ToID: "b", Kind: "references"})

	if _, err := s.Link(ctx, LinkParams{FromID: "a", ToID: "b", Kind: "references", Remove: true}); err != nil {
		t.Fatalf("remove link: %v", err)
	}
	rels, _ := s.Relationships(ctx, "")
	if len(rels) != 0 {
		t.Errorf("expected 0 relationships after remove, got %d", len(rels))
	}
}

func TestLinkValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.PutItem(ctx, PutParams{ID: "a", Text: "item a"})

	if _, err := s.Link(ctx, LinkParams{FromID: "a", ToID: "a", Kind: "depends"}); !cperrors.IsCode(err, cperrors.InvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT for self link, got %v", err)
	}
	if _, err := s.Link(ctx, LinkParams{FromID: "a", ToID: "b", Kind: ""}); !cperrors.IsCode(err, cperrors.InvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT for empty kind, got %v", err)
	}
	if _, err := s.Link(ctx, LinkParams{FromID: "a", ToID: "missing", Kind: "depends"}); !cperrors.IsCode(err, cperrors.NotFound) {
		t.Errorf("expected NOT_FOUND for missing endpoint, got %v", err)
	}
}

func TestRelationshipsHideDeletedEndpoints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.PutItem(ctx, PutParams{ID: "a", Text: "item a"})
	s.PutItem(ctx, PutParams{ID: "b", Text: "item b"})
	s.PutItem(ctx, PutParams{ID: "c", Text: "item c", Scope: "other"})
	s.Link(ctx, LinkParams{FromID: "a", ToID: "b", Kind: "depends"})
	s.Link(ctx, LinkParams{FromID: "a", ToID: "c", Kind: "depends"})

	rels, _ := s.Relationships(ctx, "")
	if len(rels) != 1 || rels[0].ToID != "b" {
		t.Fatalf("expected only the in-scope edge, got %+v", rels)
	}

	s.RmItem(ctx, RmParams{ID: "b"})
	rels, _ = s.Relationships(ctx, "")
	if len(rels) != 0 {
		t.Errorf("expected edge to deleted item hidden, got %+v", rels)
	}
}

func TestRulesSetAndClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetRule(ctx, "", "a", model.RulePin); err != nil {
		t.Fatalf("set rule: %v", err)
	}
	s.SetRule(ctx, "", "b", model.RuleNever)
	s.SetRule(ctx, "", "a", model.RuleAlways)

	rm, err := s.Rules(ctx, "")
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if rm["a"] != model.RuleAlways || rm["b"] != model.RuleNever {
		t.Errorf("unexpected rules: %v", rm)
	}

	if err := s.ClearRule(ctx, "", "a"); err != nil {
		t.Fatalf("clear rule: %v", err)
	}
	rm, _ = s.Rules(ctx, "")
	if _, ok := rm["a"]; ok {
		t.Errorf("expected rule for a cleared, got %v", rm)
	}

	if err := s.SetRule(ctx, "", "a", "sometimes"); !cperrors.IsCode(err, cperrors.InvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT for bad rule, got %v", err)
	}
}

func TestPoolExportImport(t *testing.T) {
	src := newTestStore(t)
	ctx := context.Background()

	src.PutItem(ctx, PutParams{ID: "a", Kind: model.KindDecision, Text: "item a", Metadata: map[string]any{"name": "a"}})
	src.PutItem(ctx, PutParams{ID: "b", Text: "item b"})
	src.Link(ctx, LinkParams{FromID: "a", ToID: "b", Kind: "depends"})
	src.SetRule(ctx, "", "b", model.RulePin)

	pool, err := src.ExportPool(ctx, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(pool.Items) != 2 || len(pool.Relationships) != 1 || len(pool.Rules) != 1 {
		t.Fatalf("unexpected pool: %+v", pool)
	}

	pool.Relationships = append(pool.Relationships, model.Relationship{FromID: "a", ToID: "a", Kind: "depends"})

	dst := newTestStore(t)
	res, err := dst.ImportPool(ctx, "copy", pool)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Items != 2 || res.Relationships != 1 || res.Rules != 1 {
		t.Errorf("unexpected import result: %+v", res)
	}
	if len(res.Skipped) != 1 {
		t.Errorf("expected the self edge skipped, got %v", res.Skipped)
	}

	got, err := dst.Pool(ctx, "copy")
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if len(got.Items) != 2 || got.Rules["b"] != model.RulePin {
		t.Errorf("unexpected imported pool: %+v", got)
	}
}
