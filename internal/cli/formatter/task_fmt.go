package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
)

// FormatProjectList renders projects inside a titled box.
func FormatProjectList(projects []*domain.Project) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{p.DisplayID(), Bold(p.Name), StatusPill(p.Status), TruncID(p.ID)})
	}
	return RenderBox("Projects", RenderTable([]string{"ID", "NAME", "STATUS", "UUID"}, rows))
}

func FormatGroupList(groups []*domain.TaskGroup) string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{fmt.Sprint(g.OrderColumn), Bold(g.Name), TruncID(g.ID)})
	}
	return RenderTable([]string{"#", "GROUP", "ID"}, rows)
}

func FormatLabelList(labels []*domain.Label) string {
	rows := make([][]string, 0, len(labels))
	for _, l := range labels {
		color := Dim("--")
		if l.Color != "" {
			color = l.Color
		}
		rows = append(rows, []string{Bold(l.Name), color, TruncID(l.ID)})
	}
	return RenderTable([]string{"LABEL", "COLOR", "ID"}, rows)
}

// FormatTaskTable lists tasks flat, in storage order.
func FormatTaskTable(tasks []*domain.Task, groupNames map[string]string) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		parent := Dim("--")
		if t.ParentID != nil {
			parent = TruncID(*t.ParentID)
		}
		name := t.Name
		if t.IsCompleted() {
			name = StyleGreen.Render("✔ ") + Dim(name)
		}
		rows = append(rows, []string{
			TruncID(t.ID), name, groupNames[t.GroupID], parent,
			fmt.Sprint(t.OrderColumn), PricingBadge(t),
		})
	}
	return RenderTable([]string{"ID", "TASK", "GROUP", "PARENT", "ORDER", "PRICING"}, rows)
}

// BuildTaskTree nests tasks under their parents and subtasks under their
// tasks. Nodes whose parent is absent are shown as roots. Parent loops in
// stored data are cut at the first repeated node.
func BuildTaskTree(tasks []*domain.Task, subtasks map[string][]*domain.Subtask) []TreeItem {
	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
	}
	children := map[string][]*domain.Task{}
	var roots []*domain.Task
	for _, t := range tasks {
		if t.ParentID != nil && known[*t.ParentID] && *t.ParentID != t.ID {
			children[*t.ParentID] = append(children[*t.ParentID], t)
			continue
		}
		roots = append(roots, t)
	}

	seen := map[string]bool{}
	var items []TreeItem
	var walk func(list []*domain.Task, level int)
	walk = func(list []*domain.Task, level int) {
		for i, t := range list {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			items = append(items, TreeItem{
				Title:  t.Name,
				Ref:    shortRef(t.ID),
				Level:  level,
				IsLast: i == len(list)-1,
				Done:   t.IsCompleted(),
				Detail: taskDetail(t),
			})
			subItems := buildSubtaskItems(subtasks[t.ID], level+1)
			if len(children[t.ID]) > 0 {
				for j := range subItems {
					if subItems[j].Level == level+1 {
						subItems[j].IsLast = false
					}
				}
			}
			items = append(items, subItems...)
			walk(children[t.ID], level+1)
		}
	}
	walk(roots, 0)
	for _, t := range tasks {
		if !seen[t.ID] {
			walk([]*domain.Task{t}, 0)
		}
	}
	return items
}

func buildSubtaskItems(subs []*domain.Subtask, level int) []TreeItem {
	if len(subs) == 0 {
		return nil
	}
	known := make(map[string]bool, len(subs))
	for _, s := range subs {
		known[s.ID] = true
	}
	children := map[string][]*domain.Subtask{}
	var roots []*domain.Subtask
	for _, s := range subs {
		if s.ParentID != nil && known[*s.ParentID] && *s.ParentID != s.ID {
			children[*s.ParentID] = append(children[*s.ParentID], s)
			continue
		}
		roots = append(roots, s)
	}

	seen := map[string]bool{}
	var items []TreeItem
	var walk func(list []*domain.Subtask, level int)
	walk = func(list []*domain.Subtask, level int) {
		for i, s := range list {
			if seen[s.ID] {
				continue
			}
			seen[s.ID] = true
			detail := ""
			if s.EstimationMin > 0 {
				detail = FormatMinutes(s.EstimationMin)
			}
			items = append(items, TreeItem{
				Title:  StyleFg.Render(s.Name),
				Ref:    "·",
				Level:  level,
				IsLast: i == len(list)-1,
				Done:   s.IsCompleted(),
				Detail: detail,
			})
			walk(children[s.ID], level+1)
		}
	}
	walk(roots, level)
	for _, s := range subs {
		if !seen[s.ID] {
			walk([]*domain.Subtask{s}, level)
		}
	}
	return items
}

func taskDetail(t *domain.Task) string {
	var parts []string
	if t.EstimationMin > 0 {
		parts = append(parts, FormatMinutes(t.EstimationMin))
	}
	if t.PricingType == domain.PricingFixed {
		parts = append(parts, FormatPrice(t.FixedPrice))
	}
	if t.DueOn != nil {
		parts = append(parts, "due "+t.DueOn.Format("Jan 2"))
	}
	return strings.Join(parts, " · ")
}

func shortRef(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatTaskTree renders a project's tasks as a tree under a header.
func FormatTaskTree(project *domain.Project, tasks []*domain.Task, subtasks map[string][]*domain.Subtask) string {
	if len(tasks) == 0 {
		return Header(project.Name) + "\n" + Dim("No tasks yet.") + "\n"
	}
	return Header(project.Name) + "\n" + RenderTree(BuildTaskTree(tasks, subtasks))
}

// FormatFieldResult reports one ApplyFieldUpdate outcome.
func FormatFieldResult(kind, id string, res hierarchy.Result) string {
	target := fmt.Sprintf("%s %s", kind, shortRef(id))
	if res.Decision != nil {
		if !res.Decision.Applied() {
			return fmt.Sprintf("%s: parent unchanged, %s", target, DecisionBadge(*res.Decision))
		}
		return fmt.Sprintf("%s: parent %s", target, DecisionBadge(*res.Decision))
	}
	return fmt.Sprintf("%s: updated %s", target, Bold(res.Field))
}

// FormatBatchResult summarizes a reorder and lists sanitized or skipped items.
func FormatBatchResult(res hierarchy.BatchResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Reordered %d item(s)", res.Applied))
	if res.Sanitized > 0 {
		b.WriteString(", " + StyleYellow.Render(fmt.Sprintf("%d moved to root", res.Sanitized)))
	}
	if res.Skipped > 0 {
		b.WriteString(", " + StyleDim.Render(fmt.Sprintf("%d skipped", res.Skipped)))
	}
	b.WriteString("\n")
	for _, item := range res.Items {
		switch {
		case item.Skipped:
			b.WriteString(fmt.Sprintf("  %s %s\n", TruncID(item.ID), Dim("not found")))
		case item.Sanitized:
			b.WriteString(fmt.Sprintf("  %s %s\n", TruncID(item.ID), DecisionBadge(item.Decision)))
		}
	}
	return b.String()
}

func FormatTimeLogs(logs []*domain.TimeLog, total int) string {
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			l.StartedAt.Format("2006-01-02 15:04"), l.UserID, FormatMinutes(l.Minutes), l.Note,
		})
	}
	return RenderTable([]string{"STARTED", "USER", "TIME", "NOTE"}, rows) +
		fmt.Sprintf("%s %s\n", Dim("Total:"), Bold(FormatMinutes(total)))
}
