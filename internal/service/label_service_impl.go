package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/repository"
)

var validate = validator.New()

type labelService struct {
	labels   repository.LabelRepo
	projects repository.ProjectRepo
	observer UseCaseObserver
}

func NewLabelService(labels repository.LabelRepo, projects repository.ProjectRepo, observers ...UseCaseObserver) LabelService {
	return &labelService{labels: labels, projects: projects, observer: useCaseObserverOrNoop(observers)}
}

func (s *labelService) Create(ctx context.Context, l *domain.Label) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "label.create", start, err, map[string]any{"project_id": l.ProjectID}) }()

	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("label name is required: %w", ErrInvalidInput)
	}
	if err := validate.Var(l.Color, "omitempty,hexcolor"); err != nil {
		return fmt.Errorf("label color %q must be a hex color: %w", l.Color, ErrInvalidInput)
	}
	if _, err := s.projects.GetByID(ctx, l.ProjectID); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	l.CreatedAt = time.Now().UTC()
	return s.labels.Create(ctx, l)
}

func (s *labelService) ListByProject(ctx context.Context, projectID string) ([]*domain.Label, error) {
	return s.labels.ListByProject(ctx, projectID)
}
