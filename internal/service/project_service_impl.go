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

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		projects: projects,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create inserts p together with the default workflow groups.
func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "project.create", start, err, map[string]any{"short_id": p.ShortID}) }()

	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	if err := p.ValidateShortID(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required: %w", ErrInvalidInput)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, p); err != nil {
			return err
		}
		groups := repository.NewSQLiteGroupRepo(tx)
		for i, name := range DefaultGroupNames {
			g := &domain.TaskGroup{
				ID: uuid.New().String(), ProjectID: p.ID, Name: name,
				OrderColumn: i, CreatedAt: now, UpdatedAt: now,
			}
			if err := groups.Create(ctx, g); err != nil {
				return fmt.Errorf("creating group %q: %w", name, err)
			}
		}
		return nil
	})
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	return s.projects.GetByShortID(ctx, strings.ToUpper(shortID))
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeArchived)
}

func (s *projectService) Archive(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "project.archive", start, err, map[string]any{"project_id": id}) }()
	return s.projects.Archive(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, id string, force bool) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "project.delete", start, err, map[string]any{"project_id": id, "force": force})
	}()

	if !force {
		p, err := s.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != domain.ProjectArchived {
			return fmt.Errorf("project must be archived before deletion (use --force to override): %w", ErrInvalidInput)
		}
	}
	return s.projects.Delete(ctx, id)
}
