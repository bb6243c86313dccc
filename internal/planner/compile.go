package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rcliao/context-priority/internal/deps"
	"github.com/rcliao/context-priority/internal/model"
)

// ParentSource records how a parent/child link was discovered.
type ParentSource struct {
	ChildID string `json:"child_id"`
	Source  string `json:"source"`
}

// CompileExplain describes what CompileActive kept and why.
type CompileExplain struct {
	ActiveInputIDs    []string                  `json:"active_input_ids"`
	ExcludedParentIDs []string                  `json:"excluded_parent_ids"`
	KeptIDs           []string                  `json:"kept_node_ids"`
	ParentToChildren  map[string][]string       `json:"parent_to_children"`
	ParentSources     map[string][]ParentSource `json:"parent_sources"`
}

// CompileActive renders the active items in order as prompt text. A parent whose
// parts are also active is left out so its content is not sent twice.
func CompileActive(items []model.Item, activeIDs []string, rels []model.Relationship) (string, CompileExplain) {
	byID := indexItems(items)
	ordered := knownOnly(deps.OrderedUnique(activeIDs), byID)
	activeSet := map[string]bool{}
	for _, id := range ordered {
		activeSet[id] = true
	}

	children := map[string]map[string]bool{}
	sources := map[string][]ParentSource{}
	link := func(parent, child, source string) {
		if children[parent] == nil {
			children[parent] = map[string]bool{}
		}
		children[parent][child] = true
		sources[parent] = append(sources[parent], ParentSource{ChildID: child, Source: source})
	}

	for _, id := range ordered {
		if parent := byID[id].Meta("parent_id"); parent != "" && activeSet[parent] {
			link(parent, id, "metadata.parent_id")
		}
	}
	for _, r := range rels {
		if model.NormalizeRelKind(r.Kind) != deps.KindHasPart {
			continue
		}
		if r.FromID != "" && r.ToID != "" && activeSet[r.FromID] && activeSet[r.ToID] {
			link(r.FromID, r.ToID, "edge.has-part")
		}
	}

	explain := CompileExplain{
		ActiveInputIDs:    ordered,
		ExcludedParentIDs: []string{},
		KeptIDs:           []string{},
		ParentToChildren:  map[string][]string{},
		ParentSources:     sources,
	}
	var parts []string
	for _, id := range ordered {
		if len(children[id]) > 0 {
			explain.ExcludedParentIDs = append(explain.ExcludedParentIDs, id)
			continue
		}
		explain.KeptIDs = append(explain.KeptIDs, id)
		parts = append(parts, renderItem(byID[id]))
	}
	for parent, set := range children {
		list := make([]string, 0, len(set))
		for c := range set {
			list = append(list, c)
		}
		sort.Strings(list)
		explain.ParentToChildren[parent] = list
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n")), explain
}

func renderItem(it model.Item) string {
	kind := string(it.Kind)
	if kind == "" {
		kind = "node"
	}
	short := it.ID
	if len(short) > 6 {
		short = short[:6]
	}
	head := fmt.Sprintf("[%s %s @ %s]", kind, short, it.CreatedAt)
	switch model.ParseKind(kind) {
	case model.KindMessage:
		role := it.Meta("role")
		if role == "" {
			role = "?"
		}
		return fmt.Sprintf("%s role=%s\n%s", head, role, it.Text)
	case model.KindFold:
		title := it.Meta("title")
		if title == "" {
			title = "Fold"
		}
		return fmt.Sprintf("%s title=%s\n%s", head, title, it.Text)
	default:
		return head + "\n" + it.Text
	}
}
