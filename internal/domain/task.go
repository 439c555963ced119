package domain

import (
	"fmt"
	"time"
)

type Task struct {
	ID          string
	ProjectID   string
	GroupID     string
	ParentID    *string
	Name        string
	Description string
	AssignedTo  *string

	// Pricing
	PricingType PricingType
	FixedPrice  *int64 // minor currency units; cleared when switching to PricingHourly

	EstimationMin int
	DueOn         *time.Time
	OrderColumn   int
	CompletedAt   *time.Time

	// Set-valued relations, synchronized as whole sets.
	Labels          []string
	SubscribedUsers []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCompleted reports whether the task has a completion timestamp.
func (t *Task) IsCompleted() bool {
	return t.CompletedAt != nil
}

// MarkCompleted stamps CompletedAt. Completing an already completed task
// keeps the original timestamp.
func (t *Task) MarkCompleted(now time.Time) {
	if t.CompletedAt == nil {
		t.CompletedAt = &now
	}
	t.UpdatedAt = now
}

// Reopen clears CompletedAt. Only completed tasks can be reopened.
func (t *Task) Reopen(now time.Time) error {
	if t.CompletedAt == nil {
		return fmt.Errorf("cannot reopen task %s: not completed", t.ID)
	}
	t.CompletedAt = nil
	t.UpdatedAt = now
	return nil
}

// ApplyPricingType switches the pricing mode. Hourly pricing drops any
// fixed amount.
func (t *Task) ApplyPricingType(pt PricingType) {
	t.PricingType = pt
	if pt == PricingHourly {
		t.FixedPrice = nil
	}
}
