package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a rendered tree. Level 0 lines have no
// connector; deeper lines are drawn under the nearest shallower line.
type TreeItem struct {
	Title  string
	Ref    string
	Level  int
	IsLast bool
	Done   bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree draws items with box-drawing connectors and right-aligned
// detail badges. Completed items are dimmed behind a green check.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	width := 0
	// open[l] reports whether the branch at level l still has siblings below.
	open := map[int]bool{}

	for i, item := range items {
		var prefix strings.Builder
		for l := 1; l < item.Level; l++ {
			if open[l] {
				prefix.WriteString(treePipe)
			} else {
				prefix.WriteString(treeBlank)
			}
		}
		if item.Level > 0 {
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
			open[item.Level] = !item.IsLast
		}

		title := item.Title
		if item.Ref != "" {
			title = StyleDim.Render(item.Ref+" ") + title
		}
		if item.Done {
			title = StyleGreen.Render("✔ ") + Dim(title)
		}

		contents[i] = prefix.String() + title
		if w := lipgloss.Width(contents[i]); w > width {
			width = w
		}
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Detail != "" {
			pad := width - lipgloss.Width(contents[i])
			b.WriteString(strings.Repeat(" ", pad) + "  " + StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
