// Package deps turns typed relationships into dependency adjacency and computes
// dependency closures over it.
package deps

import (
	"sort"

	"github.com/rcliao/context-priority/internal/model"
)

// KindHasPart links a parent item to one of its parts.
const KindHasPart = "has-part"

// DefaultKinds are the relationship kinds treated as dependency edges by default.
var DefaultKinds = []string{
	"replies-to",
	"attached-to",
	"references",
	"supports",
	"uses",
	"invokes",
	"returns",
	"derived-from",
	"depends-on",
	"split-from",
}

// Options configures BuildDependencyMap.
type Options struct {
	// IncludeKinds overrides DefaultKinds when non-empty.
	IncludeKinds []string
	// IncludeHasPart adds has-part to the default kinds.
	IncludeHasPart bool
	// Directed keeps edges one-way. By default every edge contributes both
	// directions, so linked items travel together.
	Directed bool
	// KnownIDs, when non-nil, drops edges that reference ids outside the pool.
	KnownIDs map[string]bool
}

// Map is an adjacency list keyed by item id. Neighbor lists are sorted and unique.
type Map map[string][]string

// Kinds resolves the effective kind set of the options.
func (o Options) Kinds() map[string]bool {
	kinds := map[string]bool{}
	if len(o.IncludeKinds) > 0 {
		for _, k := range o.IncludeKinds {
			if n := model.NormalizeRelKind(k); n != "" {
				kinds[n] = true
			}
		}
	} else {
		for _, k := range DefaultKinds {
			kinds[k] = true
		}
	}
	if o.IncludeHasPart {
		kinds[KindHasPart] = true
	}
	return kinds
}

// BuildDependencyMap keeps edges whose kind is in the effective kind set. Self-edges
// and edges with empty ids are ignored.
func BuildDependencyMap(rels []model.Relationship, opts Options) Map {
	kinds := opts.Kinds()
	sets := map[string]map[string]bool{}
	add := func(from, to string) {
		if sets[from] == nil {
			sets[from] = map[string]bool{}
		}
		sets[from][to] = true
	}

	for _, r := range rels {
		if r.FromID == "" || r.ToID == "" || r.FromID == r.ToID {
			continue
		}
		if !kinds[model.NormalizeRelKind(r.Kind)] {
			continue
		}
		if opts.KnownIDs != nil && (!opts.KnownIDs[r.FromID] || !opts.KnownIDs[r.ToID]) {
			continue
		}
		add(r.FromID, r.ToID)
		if !opts.Directed {
			add(r.ToID, r.FromID)
		}
	}

	out := make(Map, len(sets))
	for id, set := range sets {
		neighbors := make([]string, 0, len(set))
		for n := range set {
			neighbors = append(neighbors, n)
		}
		sort.Strings(neighbors)
		out[id] = neighbors
	}
	return out
}

// Reachable walks the map from start and returns every reachable id except start,
// in discovery order. Ids for which skip returns true are neither returned nor
// traversed through. The walk tracks visited ids, so cycles terminate.
func (m Map) Reachable(start string, skip func(id string) bool) []string {
	visited := map[string]bool{start: true}
	stack := []string{start}
	var out []string
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range m[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			if skip != nil && skip(next) {
				continue
			}
			out = append(out, next)
			stack = append(stack, next)
		}
	}
	return out
}
