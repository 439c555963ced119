package domain

import "time"

// TaskGroup is a workflow column on a project board (e.g. "Todo", "Done").
type TaskGroup struct {
	ID          string
	ProjectID   string
	Name        string
	OrderColumn int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Label struct {
	ID        string
	ProjectID string
	Name      string
	Color     string
	CreatedAt time.Time
}
