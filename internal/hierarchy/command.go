package hierarchy

import (
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/shopspring/decimal"
)

// Field names as they appear in storage and in change notifications.
const (
	FieldParentID        = "parent_id"
	FieldOrderColumn     = "order_column"
	FieldPricingType     = "pricing_type"
	FieldFixedPrice      = "fixed_price"
	FieldGroupID         = "group_id"
	FieldLabels          = "labels"
	FieldSubscribedUsers = "subscribed_users"
)

// reservedFields have dedicated commands and are refused by SetField.
var reservedFields = map[string]bool{
	FieldParentID:        true,
	FieldPricingType:     true,
	FieldFixedPrice:      true,
	FieldGroupID:         true,
	FieldLabels:          true,
	FieldSubscribedUsers: true,
}

// IsReservedField reports whether name must go through a dedicated command.
func IsReservedField(name string) bool {
	return reservedFields[name]
}

// Command is a single logical field update. The set of implementations is
// closed; ApplyFieldUpdate dispatches on the concrete type.
type Command interface {
	Field() string
	command()
}

// SetParent moves a node under ParentID, or to the root when nil.
type SetParent struct {
	ParentID *string
}

// SetPricingType switches pricing mode. Hourly clears the fixed price.
type SetPricingType struct {
	Type domain.PricingType
}

// SetFixedPrice stores Amount truncated to whole minor units. A nil Amount
// clears the price.
type SetFixedPrice struct {
	Amount *decimal.Decimal
}

// SetGroup moves a task to another workflow column and puts it first.
type SetGroup struct {
	GroupID string
}

// ReplaceLabels replaces the full label set of a task.
type ReplaceLabels struct {
	IDs []string
}

// ReplaceSubscribers replaces the full subscriber set of a task.
type ReplaceSubscribers struct {
	IDs []string
}

// SetField writes any other column as-is.
type SetField struct {
	Name  string
	Value any
}

func (SetParent) Field() string          { return FieldParentID }
func (SetPricingType) Field() string     { return FieldPricingType }
func (SetFixedPrice) Field() string      { return FieldFixedPrice }
func (SetGroup) Field() string           { return FieldGroupID }
func (ReplaceLabels) Field() string      { return FieldLabels }
func (ReplaceSubscribers) Field() string { return FieldSubscribedUsers }
func (c SetField) Field() string         { return c.Name }

func (SetParent) command()          {}
func (SetPricingType) command()     {}
func (SetFixedPrice) command()      {}
func (SetGroup) command()           {}
func (ReplaceLabels) command()      {}
func (ReplaceSubscribers) command() {}
func (SetField) command()           {}
