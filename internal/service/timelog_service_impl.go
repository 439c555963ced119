package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/repository"
)

type timeLogService struct {
	logs     repository.TimeLogRepo
	tasks    repository.TaskRepo
	observer UseCaseObserver
}

func NewTimeLogService(logs repository.TimeLogRepo, tasks repository.TaskRepo, observers ...UseCaseObserver) TimeLogService {
	return &timeLogService{logs: logs, tasks: tasks, observer: useCaseObserverOrNoop(observers)}
}

func (s *timeLogService) Log(ctx context.Context, l *domain.TimeLog) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "timelog.log", start, err, map[string]any{"task_id": l.TaskID, "minutes": l.Minutes})
	}()

	if l.Minutes <= 0 {
		return fmt.Errorf("minutes must be positive, got %d: %w", l.Minutes, ErrInvalidInput)
	}
	if strings.TrimSpace(l.UserID) == "" {
		return fmt.Errorf("user is required: %w", ErrInvalidInput)
	}
	if _, err := s.tasks.GetByID(ctx, l.TaskID); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if l.StartedAt.IsZero() {
		l.StartedAt = now.Add(-time.Duration(l.Minutes) * time.Minute)
	}
	l.CreatedAt = now
	return s.logs.Create(ctx, l)
}

func (s *timeLogService) ListByTask(ctx context.Context, taskID string) ([]*domain.TimeLog, error) {
	return s.logs.ListByTask(ctx, taskID)
}

func (s *timeLogService) TotalByTask(ctx context.Context, taskID string) (int, error) {
	return s.logs.TotalMinutesByTask(ctx, taskID)
}

func (s *timeLogService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "timelog.delete", start, err, map[string]any{"log_id": id}) }()
	return s.logs.Delete(ctx, id)
}
