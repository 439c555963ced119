package hierarchy

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue reads one series from the default registry; zero when absent.
func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(m *dto.Metric, want map[string]string) bool {
	got := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestMetrics_DecisionsCounted(t *testing.T) {
	s := chainStore()
	m := NewMutator(VariantTask, s)
	labels := map[string]string{"variant": "task", "outcome": "reject", "reason": "cycle"}
	before := counterValue(t, "tasktree_hierarchy_decisions_total", labels)

	_, err := m.ProposeParentChange(context.Background(), s.ref("1"), strPtr("3"))
	require.NoError(t, err)

	assert.Equal(t, before+1, counterValue(t, "tasktree_hierarchy_decisions_total", labels))
}

func TestMetrics_GenericFieldsShareLabel(t *testing.T) {
	s := chainStore()
	m := NewMutator(VariantTask, s)
	other := map[string]string{"variant": "task", "field": "other"}
	before := counterValue(t, "tasktree_hierarchy_field_updates_total", other)

	_, err := m.ApplyFieldUpdate(context.Background(), s.ref("1"), SetField{Name: "description", Value: "x"})
	require.NoError(t, err)
	_, err = m.ApplyFieldUpdate(context.Background(), s.ref("1"), SetField{Name: "estimation_min", Value: 30})
	require.NoError(t, err)

	assert.Equal(t, before+2, counterValue(t, "tasktree_hierarchy_field_updates_total", other))
}

func TestMetrics_ReorderResults(t *testing.T) {
	s := newMemStore(true)
	s.add("a", "T", "")
	m := NewMutator(VariantSubtask, s)
	sanitized := map[string]string{"variant": "subtask", "result": "sanitized"}
	skipped := map[string]string{"variant": "subtask", "result": "skipped"}
	beforeSanitized := counterValue(t, "tasktree_hierarchy_reorder_items_total", sanitized)
	beforeSkipped := counterValue(t, "tasktree_hierarchy_reorder_items_total", skipped)

	_, err := m.BatchReorder(context.Background(), "T", []ReorderItem{
		{ID: "a", ParentID: strPtr("a")},
		{ID: "nope"},
	})
	require.NoError(t, err)

	assert.Equal(t, beforeSanitized+1, counterValue(t, "tasktree_hierarchy_reorder_items_total", sanitized))
	assert.Equal(t, beforeSkipped+1, counterValue(t, "tasktree_hierarchy_reorder_items_total", skipped))
}
