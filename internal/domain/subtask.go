package domain

import "time"

// Subtask belongs to exactly one task. Its ParentID may only point at
// another subtask of the same task.
type Subtask struct {
	ID            string
	TaskID        string
	ParentID      *string
	Name          string
	AssignedTo    *string
	EstimationMin int
	DueOn         *time.Time
	OrderColumn   int
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s *Subtask) IsCompleted() bool {
	return s.CompletedAt != nil
}
