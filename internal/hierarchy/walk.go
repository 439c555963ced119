package hierarchy

import (
	"context"
	"fmt"
)

// walkAncestors climbs from start toward the root looking for nodeID.
// It returns ReasonNone when the chain ends without meeting nodeID, which
// includes a dangling parent reference. Every step is a fresh lookup; the
// number of lookups never exceeds maxHops.
func walkAncestors(ctx context.Context, store Store, scope, nodeID string, start Ref, maxHops int) (Reason, error) {
	visited := map[string]struct{}{start.ID: {}}
	current := start

	for hops := 0; ; hops++ {
		if current.ParentID == nil {
			return ReasonNone, nil
		}
		next := *current.ParentID
		if next == nodeID {
			return ReasonCycle, nil
		}
		if _, seen := visited[next]; seen {
			return ReasonCorruptChain, nil
		}
		if hops >= maxHops {
			return ReasonHopLimit, nil
		}

		ref, ok, err := store.Lookup(ctx, scope, next)
		if err != nil {
			return ReasonNone, fmt.Errorf("looking up ancestor %s: %w", next, err)
		}
		if !ok {
			return ReasonNone, nil
		}
		visited[ref.ID] = struct{}{}
		current = ref
	}
}
