package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cperrors "github.com/rcliao/context-priority/internal/errors"
	"github.com/rcliao/context-priority/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONTEXT_PRIORITY_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.Budget)
	assert.Equal(t, 1.25, cfg.Selector.OverrunFactor)
	assert.Equal(t, 0.15, cfg.Selector.PinBonus)
	assert.True(t, cfg.Dependencies.Bidirectional)
	assert.False(t, cfg.Dependencies.IncludeHasPart)
	assert.Equal(t, "both", cfg.Planner.Direction)
	assert.Equal(t, 8, cfg.Planner.TopK)
	assert.Equal(t, "default", cfg.Scope)
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("CONTEXT_PRIORITY_HOME", t.TempDir())
	path := writeFile(t, "config.yaml", `
budget: 600
selector:
  overrun_factor: 1.5
dependencies:
  include_kinds: [depends, references]
  include_has_part: true
  bidirectional: false
planner:
  direction: out
`)
	t.Setenv("CONTEXT_PRIORITY_BUDGET", "900")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 900, cfg.Budget, "env overrides file")
	assert.Equal(t, 1.5, cfg.Selector.OverrunFactor)
	assert.Equal(t, []string{"depends", "references"}, cfg.Dependencies.IncludeKinds)

	opts := cfg.DependencyOptions()
	assert.True(t, opts.Directed)
	assert.True(t, opts.IncludeHasPart)

	set := cfg.EngineSettings()
	assert.Equal(t, 1.5, set.OverrunFactor)
	assert.Equal(t, 900, cfg.PlanParams().Budget)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Selector.OverrunFactor = 0.9
	assert.True(t, cperrors.IsCode(cfg.Validate(), cperrors.InvalidArgument))

	cfg = DefaultConfig()
	cfg.Planner.Direction = "sideways"
	assert.True(t, cperrors.IsCode(cfg.Validate(), cperrors.InvalidArgument))
}

func TestParsePoolYAML(t *testing.T) {
	pool, err := ParsePool([]byte(`
items:
  - id: a
    kind: Decision
    text: use sqlite
    created_at: 2026-01-01T00:00:00Z
  - id: b
    text: plain message
    metadata:
      role: user
relationships:
  - {from_id: a, to_id: b, kind: depends}
rules:
  b: PIN
`))
	require.NoError(t, err)
	require.Len(t, pool.Items, 2)
	assert.Equal(t, model.KindDecision, pool.Items[0].Kind)
	assert.Equal(t, "2026-01-01T00:00:00Z", pool.Items[0].CreatedAt)
	assert.Equal(t, model.KindMessage, pool.Items[1].Kind)
	assert.Equal(t, "user", pool.Items[1].Meta("role"))
	assert.NotNil(t, pool.Items[0].Metadata)
	assert.Len(t, pool.Relationships, 1)
	assert.Equal(t, model.RulePin, pool.Rules["b"])
}

func TestParsePoolJSON(t *testing.T) {
	path := writeFile(t, "pool.json", `{"items":[{"id":"a","kind":"plan","text":"ship it"}],"rules":{"a":"never"}}`)
	pool, err := LoadPool(path)
	require.NoError(t, err)
	require.Len(t, pool.Items, 1)
	assert.Equal(t, model.KindPlan, pool.Items[0].Kind)
	assert.Equal(t, model.RuleNever, pool.Rules["a"])
}

func TestParsePoolRejectsBadRule(t *testing.T) {
	_, err := ParsePool([]byte(`{"items":[],"rules":{"a":"sometimes"}}`))
	assert.True(t, cperrors.IsCode(err, cperrors.InvalidArgument))
}

func TestWritePoolRoundTrip(t *testing.T) {
	in := &model.Pool{
		Items: []model.Item{{ID: "a", Kind: model.KindAssumption, Text: "x", Metadata: map[string]any{}}},
		Rules: map[string]model.ManualRule{"a": model.RuleAlways},
	}
	data, err := WritePool(in)
	require.NoError(t, err)
	out, err := ParsePool(data)
	require.NoError(t, err)
	assert.Equal(t, in.Items[0].ID, out.Items[0].ID)
	assert.Equal(t, model.RuleAlways, out.Rules["a"])
}
