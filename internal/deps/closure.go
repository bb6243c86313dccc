package deps

import (
	"sort"

	"github.com/rcliao/context-priority/internal/model"
)

// Direction controls which edge orientation ExpandClosure follows.
type Direction string

const (
	DirectionOut  Direction = "out"
	DirectionIn   Direction = "in"
	DirectionBoth Direction = "both"
)

// ParseDirection falls back to DirectionOut for unknown values.
func ParseDirection(s string) Direction {
	switch d := Direction(s); d {
	case DirectionOut, DirectionIn, DirectionBoth:
		return d
	}
	return DirectionOut
}

// maxEdgeTrace bounds the edge trace kept on a Closure.
const maxEdgeTrace = 200

// ClosureOptions configures ExpandClosure.
type ClosureOptions struct {
	Kinds     []string
	Direction Direction
	// MaxNodes caps the closure size including seeds. Zero or less means no cap.
	MaxNodes int
}

// TraceEdge is one edge followed during expansion.
type TraceEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
	Dir  string `json:"dir"`
}

// Closure is the explainable result of ExpandClosure.
type Closure struct {
	OrderedIDs   []string    `json:"ordered_ids"`
	SeedIDs      []string    `json:"seed_ids"`
	AddedIDs     []string    `json:"closure_added_ids"`
	VisitedEdges int         `json:"visited_edge_count"`
	Truncated    bool        `json:"truncated"`
	MaxNodes     int         `json:"max_nodes,omitempty"`
	Kinds        []string    `json:"allowed_kinds"`
	Direction    Direction   `json:"direction"`
	EdgeTrace    []TraceEdge `json:"edge_trace"`
}

type halfEdge struct {
	id   string
	kind string
}

// OrderedUnique drops empty and repeated ids, keeping first occurrence order.
func OrderedUnique(ids []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ExpandClosure runs a deterministic breadth-first expansion from seeds over the
// given relationship kinds. Seeds come first in the result, followed by added ids in
// lexical order.
func ExpandClosure(seeds []string, rels []model.Relationship, opts ClosureOptions) Closure {
	seedOrder := OrderedUnique(seeds)
	dir := ParseDirection(string(opts.Direction))

	allowed := map[string]bool{}
	for _, k := range opts.Kinds {
		if n := model.NormalizeRelKind(k); n != "" {
			allowed[n] = true
		}
	}
	kindList := make([]string, 0, len(allowed))
	for k := range allowed {
		kindList = append(kindList, k)
	}
	sort.Strings(kindList)

	c := Closure{
		OrderedIDs: seedOrder,
		SeedIDs:    seedOrder,
		AddedIDs:   []string{},
		MaxNodes:   opts.MaxNodes,
		Kinds:      kindList,
		Direction:  dir,
		EdgeTrace:  []TraceEdge{},
	}
	if len(seedOrder) == 0 || len(allowed) == 0 {
		return c
	}

	outAdj := map[string][]halfEdge{}
	inAdj := map[string][]halfEdge{}
	for _, r := range rels {
		kind := model.NormalizeRelKind(r.Kind)
		if !allowed[kind] || r.FromID == "" || r.ToID == "" {
			continue
		}
		outAdj[r.FromID] = append(outAdj[r.FromID], halfEdge{id: r.ToID, kind: kind})
		inAdj[r.ToID] = append(inAdj[r.ToID], halfEdge{id: r.FromID, kind: kind})
	}
	for _, adj := range []map[string][]halfEdge{outAdj, inAdj} {
		for k := range adj {
			list := adj[k]
			sort.Slice(list, func(i, j int) bool {
				if list[i].id != list[j].id {
					return list[i].id < list[j].id
				}
				return list[i].kind < list[j].kind
			})
		}
	}

	visited := map[string]bool{}
	for _, id := range seedOrder {
		visited[id] = true
	}
	queue := append([]string(nil), seedOrder...)
	visitedEdges := 0

	// offer records the edge and enqueues dst; it returns false once the cap is hit.
	offer := func(src, dst, kind, rel, next string) bool {
		if opts.MaxNodes > 0 && len(visited) >= opts.MaxNodes && !visited[next] {
			c.Truncated = true
			return false
		}
		visitedEdges++
		if len(c.EdgeTrace) < maxEdgeTrace {
			c.EdgeTrace = append(c.EdgeTrace, TraceEdge{From: src, To: dst, Kind: kind, Dir: rel})
		}
		if !visited[next] {
			visited[next] = true
			queue = append(queue, next)
		}
		return true
	}

walk:
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if dir == DirectionOut || dir == DirectionBoth {
			for _, e := range outAdj[cur] {
				if !offer(cur, e.id, e.kind, "out", e.id) {
					break walk
				}
			}
		}
		if dir == DirectionIn || dir == DirectionBoth {
			for _, e := range inAdj[cur] {
				if !offer(e.id, cur, e.kind, "in", e.id) {
					break walk
				}
			}
		}
	}

	seedSet := map[string]bool{}
	for _, id := range seedOrder {
		seedSet[id] = true
	}
	var added []string
	for id := range visited {
		if !seedSet[id] {
			added = append(added, id)
		}
	}
	sort.Strings(added)

	c.OrderedIDs = append(append([]string(nil), seedOrder...), added...)
	if added != nil {
		c.AddedIDs = added
	}
	c.VisitedEdges = visitedEdges
	return c
}
