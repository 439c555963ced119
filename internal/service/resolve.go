package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/tasktree/internal/repository"
)

type prefixMatcher func(ctx context.Context, prefix string, limit int) ([]string, error)

// resolveID maps a full ID or a unique ID prefix to the stored ID.
func resolveID(ctx context.Context, entity, ref string, match prefixMatcher) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%s id is required: %w", entity, ErrInvalidInput)
	}
	ids, err := match(ctx, ref, 2)
	if err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", entity, ref, repository.ErrNotFound)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%s id prefix %q is ambiguous: %w", entity, ref, ErrInvalidInput)
	}
}

func (s *taskService) ResolveID(ctx context.Context, ref string) (string, error) {
	return resolveID(ctx, "task", ref, s.tasks.IDsWithPrefix)
}

func (s *subtaskService) ResolveID(ctx context.Context, ref string) (string, error) {
	return resolveID(ctx, "subtask", ref, s.subtasks.IDsWithPrefix)
}
