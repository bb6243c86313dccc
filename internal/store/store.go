// Package store provides a SQLite workspace that plays the graph/memory store and
// the preference store for the prioritization engine. The engine itself never
// imports this package.
package store

import (
	"context"

	"github.com/rcliao/context-priority/internal/model"
	"github.com/rcliao/context-priority/internal/rules"
)

// DefaultScope is used when a caller does not name a scope.
const DefaultScope = "default"

// PutParams holds parameters for storing an item.
type PutParams struct {
	Scope     string
	ID        string // empty generates a new id; an existing id is updated in place
	Kind      model.Kind
	Text      string
	CreatedAt string // RFC3339; empty means now
	Metadata  map[string]any
}

// ListParams holds parameters for listing items.
type ListParams struct {
	Scope string
	Kind  model.Kind
	Limit int
}

// RmParams holds parameters for deleting an item.
type RmParams struct {
	ID   string
	Hard bool
}

// Store defines the workspace storage interface.
type Store interface {
	// PutItem stores or updates an item. Returns the stored item.
	PutItem(ctx context.Context, p PutParams) (*model.Item, error)

	// GetItem retrieves a live item by id.
	GetItem(ctx context.Context, id string) (*model.Item, error)

	// ListItems lists live items matching the given filters, newest first.
	ListItems(ctx context.Context, p ListParams) ([]model.Item, error)

	// RmItem soft-deletes (or hard-deletes) an item.
	RmItem(ctx context.Context, p RmParams) error

	// Link creates or removes a relationship between two items.
	Link(ctx context.Context, p LinkParams) (*model.Relationship, error)

	// Relationships returns relationships whose endpoints are both live in scope.
	Relationships(ctx context.Context, scope string) ([]model.Relationship, error)

	// SetRule stores a manual rule; RuleNone clears it.
	SetRule(ctx context.Context, scope, itemID string, rule model.ManualRule) error

	// Rules returns the manual rules of a scope.
	Rules(ctx context.Context, scope string) (rules.Map, error)

	// Pool returns items, relationships, and rules of a scope in one snapshot.
	Pool(ctx context.Context, scope string) (*model.Pool, error)

	// Close closes the store.
	Close() error
}
