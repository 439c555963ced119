package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/importer"
	"github.com/alexanderramin/tasktree/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "project.import", start, err, map[string]any{"short_id": schema.Project.ShortID})
	}()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, generated.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}

		groups := repository.NewSQLiteGroupRepo(tx)
		for _, g := range generated.Groups {
			if err := groups.Create(ctx, g); err != nil {
				return fmt.Errorf("creating group %q: %w", g.Name, err)
			}
		}

		labels := repository.NewSQLiteLabelRepo(tx)
		for _, l := range generated.Labels {
			if err := labels.Create(ctx, l); err != nil {
				return fmt.Errorf("creating label %q: %w", l.Name, err)
			}
		}

		tasks := repository.NewSQLiteTaskRepo(tx)
		for _, t := range generated.Tasks {
			if err := tasks.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %q: %w", t.Name, err)
			}
		}

		subtasks := repository.NewSQLiteSubtaskRepo(tx)
		for _, st := range generated.Subtasks {
			if err := subtasks.Create(ctx, st); err != nil {
				return fmt.Errorf("creating subtask %q: %w", st.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Project:      generated.Project,
		GroupCount:   len(generated.Groups),
		LabelCount:   len(generated.Labels),
		TaskCount:    len(generated.Tasks),
		SubtaskCount: len(generated.Subtasks),
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
