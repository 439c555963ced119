package hierarchy

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tasktree/internal/domain"
)

// Mutator applies guarded updates to one node collection. It holds no
// cache: every decision reads the store afresh, so a Mutator built over a
// transaction sees that transaction's writes.
type Mutator struct {
	variant Variant
	maxHops int
	store   Store
	sink    Sink
}

type Option func(*Mutator)

// WithMaxHops overrides the bound on store lookups per parent decision,
// counting the candidate itself. Non-positive values are ignored.
func WithMaxHops(n int) Option {
	return func(m *Mutator) {
		if n > 0 {
			m.maxHops = n
		}
	}
}

// WithSink sets the change-notification sink. The default discards events.
func WithSink(s Sink) Option {
	return func(m *Mutator) {
		if s != nil {
			m.sink = s
		}
	}
}

func NewMutator(variant Variant, store Store, opts ...Option) *Mutator {
	m := &Mutator{
		variant: variant,
		maxHops: variant.DefaultMaxHops(),
		store:   store,
		sink:    NoopSink{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mutator) Variant() Variant { return m.variant }

// ProposeParentChange evaluates moving node under candidate. It never
// fails for data reasons (self reference, cycles, missing or foreign
// parents, corrupt chains); only store errors are returned.
func (m *Mutator) ProposeParentChange(ctx context.Context, node Ref, candidate *string) (Decision, error) {
	d, err := m.decide(ctx, node, candidate)
	if err != nil {
		return Decision{}, err
	}
	recordDecision(m.variant, d)
	return d, nil
}

func (m *Mutator) decide(ctx context.Context, node Ref, candidate *string) (Decision, error) {
	if candidate == nil {
		return accept(nil, ReasonDetach), nil
	}
	if *candidate == node.ID {
		return reject(ReasonSelfParent), nil
	}

	parent, ok, err := m.store.Lookup(ctx, node.Scope, *candidate)
	if err != nil {
		return Decision{}, fmt.Errorf("looking up parent %s: %w", *candidate, err)
	}
	if !ok {
		if m.variant.Scoped() {
			return normalize(ReasonOutOfScope), nil
		}
		return reject(ReasonMissingParent), nil
	}

	// The candidate lookup above is the first hop.
	reason, err := walkAncestors(ctx, m.store, node.Scope, node.ID, parent, m.maxHops-1)
	if err != nil {
		return Decision{}, err
	}
	if reason != ReasonNone {
		return reject(reason), nil
	}
	id := parent.ID
	return accept(&id, ReasonNone), nil
}

// Result describes what ApplyFieldUpdate did. Written is nil when nothing
// was persisted (a rejected parent change). Decision is set for SetParent.
type Result struct {
	Field    string
	Written  map[string]any
	Members  []string
	Decision *Decision
}

// ApplyFieldUpdate persists exactly one logical field change and emits a
// change notification naming that field.
func (m *Mutator) ApplyFieldUpdate(ctx context.Context, node Ref, cmd Command) (Result, error) {
	res := Result{Field: cmd.Field()}

	switch c := cmd.(type) {
	case SetParent:
		d, err := m.ProposeParentChange(ctx, node, c.ParentID)
		if err != nil {
			return Result{}, err
		}
		res.Decision = &d
		if d.Applied() {
			res.Written = map[string]any{FieldParentID: nullableString(d.ParentID)}
		}

	case SetPricingType:
		if !domain.ValidPricingTypes[string(c.Type)] {
			return Result{}, fmt.Errorf("pricing type %q: %w", c.Type, ErrInvalidValue)
		}
		res.Written = map[string]any{FieldPricingType: string(c.Type)}
		if c.Type == domain.PricingHourly {
			res.Written[FieldFixedPrice] = nil
		}

	case SetFixedPrice:
		if c.Amount == nil {
			res.Written = map[string]any{FieldFixedPrice: nil}
		} else {
			res.Written = map[string]any{FieldFixedPrice: c.Amount.IntPart()}
		}

	case SetGroup:
		if m.variant != VariantTask {
			return Result{}, fmt.Errorf("%s on %s: %w", FieldGroupID, m.variant, ErrUnsupportedField)
		}
		if c.GroupID == "" {
			return Result{}, fmt.Errorf("empty group id: %w", ErrInvalidValue)
		}
		res.Written = map[string]any{FieldGroupID: c.GroupID, FieldOrderColumn: 0}

	case ReplaceLabels:
		if err := m.replace(ctx, node, RelationLabels, c.IDs); err != nil {
			return Result{}, err
		}
		res.Members = c.IDs

	case ReplaceSubscribers:
		if err := m.replace(ctx, node, RelationSubscribedUsers, c.IDs); err != nil {
			return Result{}, err
		}
		res.Members = c.IDs

	case SetField:
		if c.Name == "" {
			return Result{}, fmt.Errorf("empty field name: %w", ErrInvalidValue)
		}
		if IsReservedField(c.Name) {
			return Result{}, fmt.Errorf("%s: %w", c.Name, ErrReservedField)
		}
		res.Written = map[string]any{c.Name: c.Value}

	default:
		return Result{}, fmt.Errorf("%T: %w", cmd, ErrUnsupportedField)
	}

	if res.Written != nil {
		if err := m.store.Write(ctx, node.ID, res.Written); err != nil {
			return Result{}, err
		}
	}

	recordFieldUpdate(m.variant, res.Field)
	m.sink.Publish(ctx, Event{NodeID: node.ID, Field: res.Field, Variant: m.variant, Scope: node.Scope})
	return res, nil
}

func (m *Mutator) replace(ctx context.Context, node Ref, rel Relation, ids []string) error {
	if m.variant != VariantTask {
		return fmt.Errorf("%s on %s: %w", rel, m.variant, ErrUnsupportedField)
	}
	return m.store.ReplaceMembership(ctx, node.ID, rel, dedupe(ids))
}

// ReorderItem is one entry of a batch reorder request.
type ReorderItem struct {
	ID          string  `json:"id" yaml:"id"`
	ParentID    *string `json:"parent_id" yaml:"parent_id"`
	OrderColumn int     `json:"order_column" yaml:"order_column"`
}

// ItemResult reports how one reorder item was handled. Sanitized is true
// when the requested parent was replaced by nil.
type ItemResult struct {
	ID        string
	Skipped   bool
	Sanitized bool
	Decision  Decision
}

type BatchResult struct {
	Items     []ItemResult
	Applied   int
	Sanitized int
	Skipped   int
}

// BatchReorder applies parent and order changes to every item in scope.
// Items are validated one at a time against the current store state, so
// earlier items' writes are visible to later ones. An item with an
// unacceptable parent is written with parent_id = NULL and its requested
// order; it never blocks the rest of the batch. Items not found in scope
// are skipped.
func (m *Mutator) BatchReorder(ctx context.Context, scope string, items []ReorderItem) (BatchResult, error) {
	var out BatchResult
	out.Items = make([]ItemResult, 0, len(items))

	for _, item := range items {
		ref, ok, err := m.store.Lookup(ctx, scope, item.ID)
		if err != nil {
			return out, fmt.Errorf("looking up reorder item %s: %w", item.ID, err)
		}
		if !ok {
			out.Skipped++
			out.Items = append(out.Items, ItemResult{ID: item.ID, Skipped: true})
			recordReorderItem(m.variant, "skipped")
			continue
		}

		d, err := m.ProposeParentChange(ctx, ref, item.ParentID)
		if err != nil {
			return out, err
		}

		ir := ItemResult{ID: item.ID, Decision: d}
		var parent *string
		if d.Outcome == OutcomeAccept {
			parent = d.ParentID
		} else {
			ir.Sanitized = true
		}

		fields := map[string]any{
			FieldParentID:    nullableString(parent),
			FieldOrderColumn: item.OrderColumn,
		}
		if err := m.store.Write(ctx, ref.ID, fields); err != nil {
			return out, err
		}

		out.Applied++
		if ir.Sanitized {
			out.Sanitized++
			recordReorderItem(m.variant, "sanitized")
		} else {
			recordReorderItem(m.variant, "applied")
		}
		out.Items = append(out.Items, ir)
		m.sink.Publish(ctx, Event{NodeID: ref.ID, Field: FieldOrderColumn, Variant: m.variant, Scope: scope})
	}

	return out, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
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
