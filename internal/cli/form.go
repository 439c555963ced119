package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/tasktree/internal/cli/formatter"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
)

// tasktreeHuhTheme returns a huh theme on the gruvbox palette.
func tasktreeHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// editableFields are offered by the interactive field form. "other" lets
// the user type a free column name.
var editableFields = []string{
	hierarchy.FieldParentID,
	hierarchy.FieldPricingType,
	hierarchy.FieldFixedPrice,
	hierarchy.FieldGroupID,
	hierarchy.FieldLabels,
	hierarchy.FieldSubscribedUsers,
	"name",
	"description",
	"assigned_to",
	"estimation_min",
	"due_on",
	"other",
}

// fieldForm asks for a field and its new value. When "other" is picked
// the value input is read as "column=value".
func fieldForm(field, value *string) *huh.Form {
	options := make([]huh.Option[string], 0, len(editableFields))
	for _, f := range editableFields {
		options = append(options, huh.NewOption(f, f))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Field").
				Options(options...).
				Value(field),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Value").
				Description("Blank clears the field; sets are comma-separated; other takes column=value").
				Value(value).
				Validate(func(s string) error { return validateFieldValue(*field, s) }),
		),
	).WithTheme(tasktreeHuhTheme()).WithShowHelp(false)
}

func validateFieldValue(field, value string) error {
	if field != "other" {
		return nil
	}
	name, _, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("enter column=value")
	}
	return nil
}

// splitOtherField unpacks the "other" form choice into a column and value.
func splitOtherField(field, value string) (string, string) {
	if field != "other" {
		return field, value
	}
	name, v, _ := strings.Cut(value, "=")
	return strings.TrimSpace(name), v
}
