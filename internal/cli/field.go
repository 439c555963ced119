package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
)

// commandFor turns a --field/--value pair into a hierarchy command. Group
// and label values are returned as typed by the user; callers resolve
// names to IDs.
func commandFor(field, value string) (hierarchy.Command, error) {
	field = strings.TrimSpace(strings.ToLower(field))
	value = strings.TrimSpace(value)

	switch field {
	case hierarchy.FieldParentID:
		return hierarchy.SetParent{ParentID: optionalParent(value)}, nil

	case hierarchy.FieldPricingType:
		if !domain.ValidPricingTypes[value] {
			return nil, fmt.Errorf("invalid pricing type %q (want hourly or fixed)", value)
		}
		return hierarchy.SetPricingType{Type: domain.PricingType(value)}, nil

	case hierarchy.FieldFixedPrice:
		if value == "" || value == "none" {
			return hierarchy.SetFixedPrice{}, nil
		}
		amount, err := parsePrice(value)
		if err != nil {
			return nil, err
		}
		return hierarchy.SetFixedPrice{Amount: &amount}, nil

	case hierarchy.FieldGroupID, "group":
		if value == "" {
			return nil, fmt.Errorf("group is required")
		}
		return hierarchy.SetGroup{GroupID: value}, nil

	case hierarchy.FieldLabels:
		return hierarchy.ReplaceLabels{IDs: splitList(value)}, nil

	case hierarchy.FieldSubscribedUsers, "subscribers":
		return hierarchy.ReplaceSubscribers{IDs: splitList(value)}, nil

	case "":
		return nil, fmt.Errorf("field name is required")
	}

	return hierarchy.SetField{Name: field, Value: value}, nil
}

// optionalParent maps "", "root" and "none" to a detach.
func optionalParent(value string) *string {
	switch strings.ToLower(value) {
	case "", "root", "none":
		return nil
	}
	return &value
}

// parsePrice reads a price in major units ("12.50") and returns minor units.
func parsePrice(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price %q: %w", value, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("price must not be negative")
	}
	return d.Shift(2), nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", value)
	}
	return &t, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
