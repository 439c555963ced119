package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
)

// RenderBox wraps content in a rounded border with an optional title.
func RenderBox(title string, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return box.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return box.Render(content)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatMinutes renders minutes as "1h 30m", "2h" or "45m".
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h, m := min/60, min%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// FormatPrice renders a price stored in minor units with two decimals.
func FormatPrice(minor *int64) string {
	if minor == nil {
		return "--"
	}
	return decimal.New(*minor, -2).StringFixed(2)
}

// PricingBadge summarizes a task's pricing.
func PricingBadge(t *domain.Task) string {
	if t.PricingType == domain.PricingFixed {
		return StylePurple.Render("fixed " + FormatPrice(t.FixedPrice))
	}
	return StyleDim.Render("hourly")
}

func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// DecisionBadge colors a parent decision by outcome.
func DecisionBadge(d hierarchy.Decision) string {
	text := string(d.Outcome)
	if d.Reason != hierarchy.ReasonNone {
		text += " (" + string(d.Reason) + ")"
	}
	switch d.Outcome {
	case hierarchy.OutcomeAccept:
		return StyleGreen.Render(text)
	case hierarchy.OutcomeNormalize:
		return StyleYellow.Render(text)
	default:
		return StyleRed.Render(text)
	}
}
