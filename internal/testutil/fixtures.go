package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithProjectDescription(d string) ProjectOption {
	return func(p *domain.Project) {
		p.Description = d
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n%10000)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestGroup(projectID, name string, order int) *domain.TaskGroup {
	now := time.Now().UTC()
	return &domain.TaskGroup{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Name:        name,
		OrderColumn: order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func NewTestLabel(projectID, name string) *domain.Label {
	return &domain.Label{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Color:     "#458588",
		CreatedAt: time.Now().UTC(),
	}
}

// Task options
type TaskOption func(*domain.Task)

func WithParentID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &id
	}
}

func WithOrderColumn(n int) TaskOption {
	return func(t *domain.Task) {
		t.OrderColumn = n
	}
}

func WithFixedPrice(amount int64) TaskOption {
	return func(t *domain.Task) {
		t.PricingType = domain.PricingFixed
		t.FixedPrice = &amount
	}
}

func WithAssignee(user string) TaskOption {
	return func(t *domain.Task) {
		t.AssignedTo = &user
	}
}

func WithDueOn(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueOn = &d
	}
}

func WithEstimation(min int) TaskOption {
	return func(t *domain.Task) {
		t.EstimationMin = min
	}
}

func NewTestTask(projectID, groupID, name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		GroupID:     groupID,
		Name:        name,
		PricingType: domain.PricingHourly,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Subtask options
type SubtaskOption func(*domain.Subtask)

func WithSubtaskParent(id string) SubtaskOption {
	return func(s *domain.Subtask) {
		s.ParentID = &id
	}
}

func WithSubtaskOrder(n int) SubtaskOption {
	return func(s *domain.Subtask) {
		s.OrderColumn = n
	}
}

func NewTestSubtask(taskID, name string, opts ...SubtaskOption) *domain.Subtask {
	now := time.Now().UTC()
	s := &domain.Subtask{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestTimeLog(taskID string, minutes int) *domain.TimeLog {
	now := time.Now().UTC()
	return &domain.TimeLog{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		UserID:    "tester",
		StartedAt: now.Add(-time.Duration(minutes) * time.Minute),
		Minutes:   minutes,
		CreatedAt: now,
	}
}
