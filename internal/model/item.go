// Package model defines the core data types shared by the scoring and selection engine.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the type of a conversation-memory item.
type Kind string

const (
	KindMessage          Kind = "message"
	KindDecision         Kind = "decision"
	KindAssumption       Kind = "assumption"
	KindPlan             Kind = "plan"
	KindResource         Kind = "resource"
	KindFold             Kind = "fold"
	KindContextCandidate Kind = "context_candidate"
	KindMemoryItem       Kind = "memory_item"
)

// ValidKinds are the kinds the engine knows about. Anything else is scored with the
// default prior.
var ValidKinds = map[Kind]bool{
	KindMessage:          true,
	KindDecision:         true,
	KindAssumption:       true,
	KindPlan:             true,
	KindResource:         true,
	KindFold:             true,
	KindContextCandidate: true,
	KindMemoryItem:       true,
}

// ParseKind normalizes free-form labels such as "Decision" or "context-candidate".
func ParseKind(s string) Kind {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.ReplaceAll(k, "-", "_")
	k = strings.ReplaceAll(k, " ", "_")
	return Kind(k)
}

// Item is one unit of conversation memory supplied by the caller.
type Item struct {
	ID        string         `json:"id" yaml:"id"`
	Kind      Kind           `json:"kind" yaml:"kind"`
	Text      string         `json:"text" yaml:"text"`
	CreatedAt string         `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Meta returns a metadata field as a string. Missing or non-scalar values yield "".
func (it Item) Meta(key string) string {
	if it.Metadata == nil {
		return ""
	}
	switch v := it.Metadata[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case bool, int, int64, float64:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

// DecodeMetadata parses a JSON object. Malformed payloads yield an empty map.
func DecodeMetadata(raw string) map[string]any {
	out := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

// Relationship is a directed, typed edge between two items.
type Relationship struct {
	FromID string `json:"from_id" yaml:"from_id"`
	ToID   string `json:"to_id" yaml:"to_id"`
	Kind   string `json:"kind" yaml:"kind"`
}

// NormalizeRelKind lower-cases a relationship label and maps underscores to hyphens,
// so "HAS_PART" and "has-part" are the same kind.
func NormalizeRelKind(s string) string {
	k := strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(k, "_", "-")
}

// Pool is the candidate set for one scope: items, their relationships, and the
// manual rules a preference store holds for them.
type Pool struct {
	Items         []Item                `json:"items" yaml:"items"`
	Relationships []Relationship        `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Rules         map[string]ManualRule `json:"rules,omitempty" yaml:"rules,omitempty"`
}
