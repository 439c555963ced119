package hierarchy

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// memStore is an in-memory node graph. Scope "" matches every node when
// the store is unscoped.
type memStore struct {
	mu      sync.Mutex
	scoped  bool
	nodes   map[string]Ref
	columns map[string]map[string]any
	members map[string]map[Relation][]string
	lookups int
	writes  int
	failOn  string
	err     error
}

func newMemStore(scoped bool) *memStore {
	return &memStore{
		scoped:  scoped,
		nodes:   make(map[string]Ref),
		columns: make(map[string]map[string]any),
		members: make(map[string]map[Relation][]string),
	}
}

func strPtr(s string) *string { return &s }

// add inserts a node; parent "" means root.
func (s *memStore) add(id, scope, parent string) {
	r := Ref{ID: id, Scope: scope}
	if parent != "" {
		r.ParentID = strPtr(parent)
	}
	s.nodes[id] = r
	s.columns[id] = map[string]any{}
}

func (s *memStore) parentOf(id string) *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodes[id].ParentID
}

func (s *memStore) Lookup(_ context.Context, scope, id string) (Ref, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.failOn == "lookup" {
		return Ref{}, false, s.err
	}
	r, ok := s.nodes[id]
	if !ok {
		return Ref{}, false, nil
	}
	if s.scoped && r.Scope != scope {
		return Ref{}, false, nil
	}
	return r, true, nil
}

func (s *memStore) Write(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn == "write" {
		return s.err
	}
	r, ok := s.nodes[id]
	if !ok {
		return errors.New("node not found")
	}
	s.writes++
	for k, v := range fields {
		s.columns[id][k] = v
		if k == FieldParentID {
			if v == nil {
				r.ParentID = nil
			} else {
				r.ParentID = strPtr(v.(string))
			}
		}
	}
	s.nodes[id] = r
	return nil
}

func (s *memStore) ReplaceMembership(_ context.Context, id string, rel Relation, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[id]; !ok {
		s.members[id] = map[Relation][]string{}
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	s.members[id][rel] = sorted
	return nil
}

func (s *memStore) ref(id string) Ref {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodes[id]
}

type recordingSink struct {
	events []Event
}

func (r *recordingSink) Publish(_ context.Context, e Event) {
	r.events = append(r.events, e)
}
