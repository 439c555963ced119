package hierarchy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hierarchyDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tasktree",
		Subsystem: "hierarchy",
		Name:      "decisions_total",
		Help:      "Parent change decisions broken down by node type, outcome and reason.",
	}, []string{"variant", "outcome", "reason"})

	hierarchyFieldUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tasktree",
		Subsystem: "hierarchy",
		Name:      "field_updates_total",
		Help:      "Applied single-field updates broken down by node type and field.",
	}, []string{"variant", "field"})

	hierarchyReorderItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tasktree",
		Subsystem: "hierarchy",
		Name:      "reorder_items_total",
		Help:      "Batch reorder items broken down by node type and result.",
	}, []string{"variant", "result"})
)

func recordDecision(v Variant, d Decision) {
	reason := string(d.Reason)
	if reason == "" {
		reason = "none"
	}
	hierarchyDecisions.WithLabelValues(string(v), string(d.Outcome), reason).Inc()
}

func recordFieldUpdate(v Variant, field string) {
	if IsReservedField(field) || field == FieldOrderColumn {
		hierarchyFieldUpdates.WithLabelValues(string(v), field).Inc()
		return
	}
	// Generic column writes share one label.
	hierarchyFieldUpdates.WithLabelValues(string(v), "other").Inc()
}

func recordReorderItem(v Variant, result string) {
	hierarchyReorderItems.WithLabelValues(string(v), result).Inc()
}
