package hierarchy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkAncestors(t *testing.T) {
	tests := []struct {
		name   string
		build  func(*memStore)
		node   string
		start  string
		hops   int
		expect Reason
	}{
		{
			name:   "root candidate",
			build:  func(s *memStore) { s.add("a", "", ""); s.add("x", "", "") },
			node:   "x",
			start:  "a",
			hops:   10,
			expect: ReasonNone,
		},
		{
			name: "node is grandparent of candidate",
			build: func(s *memStore) {
				s.add("x", "", "")
				s.add("m", "", "x")
				s.add("c", "", "m")
			},
			node:   "x",
			start:  "c",
			hops:   10,
			expect: ReasonCycle,
		},
		{
			name: "chain longer than bound",
			build: func(s *memStore) {
				s.add("r", "", "")
				s.add("p", "", "r")
				s.add("q", "", "p")
				s.add("c", "", "q")
				s.add("x", "", "")
			},
			node:   "x",
			start:  "c",
			hops:   2,
			expect: ReasonHopLimit,
		},
		{
			name: "chain exactly at bound",
			build: func(s *memStore) {
				s.add("r", "", "")
				s.add("c", "", "r")
				s.add("x", "", "")
			},
			node:   "x",
			start:  "c",
			hops:   1,
			expect: ReasonNone,
		},
		{
			name:   "self loop in existing data",
			build:  func(s *memStore) { s.add("c", "", "c"); s.add("x", "", "") },
			node:   "x",
			start:  "c",
			hops:   10,
			expect: ReasonCorruptChain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newMemStore(false)
			tt.build(s)
			reason, err := walkAncestors(context.Background(), s, "", tt.node, s.ref(tt.start), tt.hops)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, reason)
			assert.LessOrEqual(t, s.lookups, tt.hops)
		})
	}
}

func TestWalkAncestors_ScopedStopsAtScopeBoundary(t *testing.T) {
	s := newMemStore(true)
	s.add("x", "T", "")
	s.add("c", "T", "foreign") // parent lives under another task
	s.add("foreign", "U", "x")

	reason, err := walkAncestors(context.Background(), s, "T", "x", s.ref("c"), 100)
	require.NoError(t, err)
	assert.Equal(t, ReasonNone, reason)
}
