package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
)

func ptr(s string) *string { return &s }

func titles(items []TreeItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestBuildTaskTree_NestsChildrenAndSubtasks(t *testing.T) {
	tasks := []*domain.Task{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", ParentID: ptr("a")},
		{ID: "c", Name: "C"},
	}
	subs := map[string][]*domain.Subtask{
		"a": {{ID: "s1", TaskID: "a", Name: "S1"}},
	}

	items := BuildTaskTree(tasks, subs)
	require.Len(t, items, 4)
	assert.Equal(t, "A", items[0].Title)
	assert.Equal(t, 0, items[0].Level)
	assert.Contains(t, items[1].Title, "S1")
	assert.Equal(t, 1, items[1].Level)
	assert.False(t, items[1].IsLast, "subtask is followed by child task B")
	assert.Equal(t, "B", items[2].Title)
	assert.Equal(t, 1, items[2].Level)
	assert.True(t, items[2].IsLast)
	assert.Equal(t, "C", items[3].Title)
}

func TestBuildTaskTree_DanglingParentIsRoot(t *testing.T) {
	items := BuildTaskTree([]*domain.Task{{ID: "x", Name: "X", ParentID: ptr("gone")}}, nil)
	require.Len(t, items, 1)
	assert.Equal(t, 0, items[0].Level)
}

func TestBuildTaskTree_StoredLoopIsShownOnce(t *testing.T) {
	tasks := []*domain.Task{
		{ID: "a", Name: "A", ParentID: ptr("b")},
		{ID: "b", Name: "B", ParentID: ptr("a")},
	}
	items := BuildTaskTree(tasks, nil)
	assert.ElementsMatch(t, []string{"A", "B"}, titles(items))
}

func TestBuildTaskTree_NestedSubtasks(t *testing.T) {
	subs := map[string][]*domain.Subtask{
		"t": {
			{ID: "s1", Name: "Root", EstimationMin: 30},
			{ID: "s2", Name: "Leaf", ParentID: ptr("s1")},
			{ID: "s3", Name: "Foreign", ParentID: ptr("elsewhere")},
		},
	}
	items := BuildTaskTree([]*domain.Task{{ID: "t", Name: "T"}}, subs)
	require.Len(t, items, 4)
	assert.Equal(t, 1, items[1].Level)
	assert.Equal(t, "30m", items[1].Detail)
	assert.Equal(t, 2, items[2].Level)
	assert.Equal(t, 1, items[3].Level)
	assert.True(t, items[3].IsLast)
}

func TestRenderTree_Connectors(t *testing.T) {
	out := RenderTree([]TreeItem{
		{Title: "root"},
		{Title: "first", Level: 1},
		{Title: "deep", Level: 2, IsLast: true},
		{Title: "second", Level: 1, IsLast: true, Done: true, Detail: "1h"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "├─ ")
	assert.Contains(t, lines[2], "│  └─ ")
	assert.Contains(t, lines[3], "└─ ")
	assert.Contains(t, lines[3], "✔")
	assert.Contains(t, lines[3], "[ 1h ]")
	assert.Empty(t, RenderTree(nil))
}

func TestFormatTaskTree_Empty(t *testing.T) {
	out := FormatTaskTree(&domain.Project{Name: "Site"}, nil, nil)
	assert.Contains(t, out, "SITE")
	assert.Contains(t, out, "No tasks yet.")
}

func TestTaskDetail(t *testing.T) {
	price := int64(50000)
	due := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	got := taskDetail(&domain.Task{EstimationMin: 90, PricingType: domain.PricingFixed, FixedPrice: &price, DueOn: &due})
	assert.Equal(t, "1h 30m · 500.00 · due Jul 1", got)
}

func TestFormatFieldResult(t *testing.T) {
	rejected := hierarchy.Decision{Outcome: hierarchy.OutcomeReject, Reason: hierarchy.ReasonCycle}
	out := FormatFieldResult("task", "0123456789", hierarchy.Result{Field: "parent_id", Decision: &rejected})
	assert.Contains(t, out, "task 01234567")
	assert.Contains(t, out, "parent unchanged")

	out = FormatFieldResult("task", "abc", hierarchy.Result{Field: "name"})
	assert.Contains(t, out, "updated")
	assert.Contains(t, out, "name")
}

func TestFormatBatchResult(t *testing.T) {
	out := FormatBatchResult(hierarchy.BatchResult{
		Applied: 2, Sanitized: 1, Skipped: 1,
		Items: []hierarchy.ItemResult{
			{ID: "keep"},
			{ID: "moved", Sanitized: true, Decision: hierarchy.Decision{Outcome: hierarchy.OutcomeReject, Reason: hierarchy.ReasonSelfParent}},
			{ID: "ghost", Skipped: true},
		},
	})
	assert.Contains(t, out, "Reordered 2 item(s)")
	assert.Contains(t, out, "1 moved to root")
	assert.Contains(t, out, "1 skipped")
	assert.Contains(t, out, "self_parent")
	assert.Contains(t, out, "not found")
	assert.NotContains(t, out, "keep")
}

func TestFormatProjectList(t *testing.T) {
	out := FormatProjectList([]*domain.Project{{ID: "550e8400-e29b", ShortID: "WEB01", Name: "Website", Status: domain.ProjectActive}})
	assert.Contains(t, out, "PROJECTS")
	assert.Contains(t, out, "WEB01")
	assert.Contains(t, out, "Website")
	assert.Contains(t, out, "Active")
}
