package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/repository"
)

type groupService struct {
	groups   repository.GroupRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewGroupService(groups repository.GroupRepo, uow db.UnitOfWork, observers ...UseCaseObserver) GroupService {
	return &groupService{groups: groups, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Create appends g after the project's existing groups.
func (s *groupService) Create(ctx context.Context, g *domain.TaskGroup) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "group.create", start, err, map[string]any{"project_id": g.ProjectID}) }()

	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("group name is required: %w", ErrInvalidInput)
	}
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, g.ProjectID); err != nil {
			return err
		}
		groups := repository.NewSQLiteGroupRepo(tx)
		existing, err := groups.ListByProject(ctx, g.ProjectID)
		if err != nil {
			return err
		}
		g.OrderColumn = len(existing)
		return groups.Create(ctx, g)
	})
}

func (s *groupService) ListByProject(ctx context.Context, projectID string) ([]*domain.TaskGroup, error) {
	return s.groups.ListByProject(ctx, projectID)
}

func (s *groupService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "group.delete", start, err, map[string]any{"group_id": id}) }()
	return s.groups.Delete(ctx, id)
}
