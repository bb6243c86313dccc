package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/context-priority/internal/model"
)

func rel(from, to, kind string) model.Relationship {
	return model.Relationship{FromID: from, ToID: to, Kind: kind}
}

func TestBuildDependencyMapDefaults(t *testing.T) {
	rels := []model.Relationship{
		rel("a", "b", "references"),
		rel("b", "c", "HAS_PART"),
		rel("c", "d", "likes"),
		rel("d", "e", "depends_on"),
	}
	m := BuildDependencyMap(rels, Options{})
	assert.Equal(t, Map{
		"a": {"b"},
		"b": {"a"},
		"d": {"e"},
		"e": {"d"},
	}, m)
}

func TestBuildDependencyMapHasPart(t *testing.T) {
	m := BuildDependencyMap([]model.Relationship{rel("p", "p#0", "has-part")}, Options{IncludeHasPart: true})
	assert.Equal(t, []string{"p#0"}, m["p"])
	assert.Equal(t, []string{"p"}, m["p#0"])
}

func TestBuildDependencyMapIncludeKindsOverride(t *testing.T) {
	rels := []model.Relationship{rel("a", "b", "references"), rel("a", "c", "custom_link")}
	m := BuildDependencyMap(rels, Options{IncludeKinds: []string{"Custom-Link"}, Directed: true})
	assert.Equal(t, Map{"a": {"c"}}, m)
}

func TestBuildDependencyMapDirected(t *testing.T) {
	m := BuildDependencyMap([]model.Relationship{rel("a", "b", "uses")}, Options{Directed: true})
	assert.Equal(t, Map{"a": {"b"}}, m)
}

func TestBuildDependencyMapIgnoresBadEdges(t *testing.T) {
	rels := []model.Relationship{
		rel("a", "a", "uses"),
		rel("", "b", "uses"),
		rel("a", "", "uses"),
		rel("a", "ghost", "uses"),
		rel("a", "b", "uses"),
		rel("a", "b", "supports"),
		rel("a", "c", "invokes"),
	}
	known := map[string]bool{"a": true, "b": true, "c": true}
	m := BuildDependencyMap(rels, Options{KnownIDs: known})
	assert.Equal(t, []string{"b", "c"}, m["a"], "sorted, unique, unknown ids dropped")
	assert.Equal(t, []string{"a"}, m["b"])
	assert.NotContains(t, m, "ghost")
}

func TestOptionsKinds(t *testing.T) {
	k := Options{}.Kinds()
	assert.Len(t, k, len(DefaultKinds))
	assert.False(t, k[KindHasPart])
	assert.True(t, Options{IncludeHasPart: true}.Kinds()[KindHasPart])
}

func TestReachableTerminatesOnCycles(t *testing.T) {
	m := Map{"a": {"b"}, "b": {"c"}, "c": {"a"}}
	got := m.Reachable("a", nil)
	assert.ElementsMatch(t, []string{"b", "c"}, got)
	assert.NotContains(t, got, "a")
}

func TestReachableSkipDoesNotTraverse(t *testing.T) {
	m := Map{"a": {"b", "d"}, "b": {"c"}}
	got := m.Reachable("a", func(id string) bool { return id == "b" })
	assert.Equal(t, []string{"d"}, got)
}

func TestReachableUnknownStart(t *testing.T) {
	assert.Empty(t, Map{}.Reachable("x", nil))
	var nilMap Map
	assert.Empty(t, nilMap.Reachable("x", nil))
}

func TestOrderedUnique(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, OrderedUnique([]string{"b", "", "a", "b", "c", "a"}))
	assert.Equal(t, []string{}, OrderedUnique(nil))
}

func TestExpandClosureDirections(t *testing.T) {
	rels := []model.Relationship{
		rel("a", "b", "depends"),
		rel("b", "c", "depends"),
		rel("z", "a", "depends"),
		rel("a", "x", "ignored"),
	}
	kinds := []string{"depends"}

	out := ExpandClosure([]string{"a"}, rels, ClosureOptions{Kinds: kinds, Direction: DirectionOut})
	assert.Equal(t, []string{"a", "b", "c"}, out.OrderedIDs)
	assert.Equal(t, []string{"b", "c"}, out.AddedIDs)
	assert.Equal(t, 2, out.VisitedEdges)
	assert.False(t, out.Truncated)

	in := ExpandClosure([]string{"a"}, rels, ClosureOptions{Kinds: kinds, Direction: DirectionIn})
	assert.Equal(t, []string{"a", "z"}, in.OrderedIDs)

	both := ExpandClosure([]string{"a"}, rels, ClosureOptions{Kinds: kinds, Direction: DirectionBoth})
	assert.Equal(t, []string{"a", "b", "c", "z"}, both.OrderedIDs)
	require.NotEmpty(t, both.EdgeTrace)
	assert.Equal(t, TraceEdge{From: "a", To: "b", Kind: "depends", Dir: "out"}, both.EdgeTrace[0])
}

func TestExpandClosureUnknownDirectionFallsBackToOut(t *testing.T) {
	rels := []model.Relationship{rel("a", "b", "depends"), rel("z", "a", "depends")}
	c := ExpandClosure([]string{"a"}, rels, ClosureOptions{Kinds: []string{"depends"}, Direction: "sideways"})
	assert.Equal(t, DirectionOut, c.Direction)
	assert.Equal(t, []string{"a", "b"}, c.OrderedIDs)
}

func TestExpandClosureTruncates(t *testing.T) {
	rels := []model.Relationship{
		rel("s", "a", "depends"), rel("s", "b", "depends"), rel("s", "c", "depends"), rel("s", "d", "depends"),
	}
	c := ExpandClosure([]string{"s"}, rels, ClosureOptions{Kinds: []string{"depends"}, Direction: DirectionOut, MaxNodes: 3})
	assert.True(t, c.Truncated)
	assert.Equal(t, []string{"s", "a", "b"}, c.OrderedIDs)
}

func TestExpandClosureCycle(t *testing.T) {
	rels := []model.Relationship{rel("a", "b", "depends"), rel("b", "a", "depends")}
	c := ExpandClosure([]string{"a", "a", ""}, rels, ClosureOptions{Kinds: []string{"depends"}, Direction: DirectionBoth})
	assert.Equal(t, []string{"a"}, c.SeedIDs)
	assert.Equal(t, []string{"a", "b"}, c.OrderedIDs)
}

func TestExpandClosureNoKinds(t *testing.T) {
	c := ExpandClosure([]string{"a"}, []model.Relationship{rel("a", "b", "depends")}, ClosureOptions{})
	assert.Equal(t, []string{"a"}, c.OrderedIDs)
	assert.Equal(t, []string{}, c.AddedIDs)
}
