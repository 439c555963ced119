// Package hierarchy guards mutations of parent-pointer trees of tasks and
// subtasks: it decides whether a proposed parent is acceptable, dispatches
// single-field updates with their side effects, and sanitizes batch
// reorders. Storage and event delivery are injected collaborators.
package hierarchy

import (
	"context"
	"errors"
)

// Variant selects the traversal rules. Tasks form one project-wide tree
// (unscoped); subtasks are confined to their owning task (scoped).
type Variant string

const (
	VariantTask    Variant = "task"
	VariantSubtask Variant = "subtask"
)

// Scoped reports whether parent references must stay inside a scope.
func (v Variant) Scoped() bool {
	return v == VariantSubtask
}

// DefaultMaxHops returns the ancestor-walk bound used when none is configured.
func (v Variant) DefaultMaxHops() int {
	if v == VariantSubtask {
		return 1000
	}
	return 100
}

// Ref is the minimal projection of a node needed by the ancestor walk.
// Scope is the owning task ID for subtasks and empty for tasks.
type Ref struct {
	ID       string
	Scope    string
	ParentID *string
}

// Relation names a set-valued membership synchronized as a whole.
type Relation string

const (
	RelationLabels          Relation = "labels"
	RelationSubscribedUsers Relation = "subscribed_users"
)

// Store is the persistence collaborator. Lookup returns ok=false when no
// node with that ID exists within scope (scope is ignored by unscoped
// stores). Write persists a column map; a nil value means SQL NULL.
type Store interface {
	Lookup(ctx context.Context, scope, id string) (Ref, bool, error)
	Write(ctx context.Context, id string, fields map[string]any) error
	ReplaceMembership(ctx context.Context, id string, rel Relation, ids []string) error
}

// Event is the "node updated" notification emitted after every applied
// field update. Field names the subject of the call even when the write
// itself was suppressed.
type Event struct {
	NodeID  string  `json:"node_id"`
	Field   string  `json:"field"`
	Variant Variant `json:"variant"`
	Scope   string  `json:"scope,omitempty"`
}

// Sink receives change notifications. Delivery problems are the sink's
// concern and never fail a mutation.
type Sink interface {
	Publish(ctx context.Context, e Event)
}

var (
	// ErrUnsupportedField is returned for commands the variant does not support.
	ErrUnsupportedField = errors.New("field not supported for this node type")
	// ErrReservedField is returned when a generic column write targets a
	// field that has its own command.
	ErrReservedField = errors.New("field must be updated through its dedicated command")
	// ErrInvalidValue is returned for values that can never be written.
	ErrInvalidValue = errors.New("invalid field value")
)
