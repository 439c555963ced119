package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/domain"
)

const groupColumns = `id, project_id, name, order_column, created_at, updated_at`

type SQLiteGroupRepo struct {
	db db.DBTX
}

func NewSQLiteGroupRepo(conn db.DBTX) *SQLiteGroupRepo {
	return &SQLiteGroupRepo{db: conn}
}

func (r *SQLiteGroupRepo) Create(ctx context.Context, g *domain.TaskGroup) error {
	query := `INSERT INTO task_groups (` + groupColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.ProjectID, g.Name, g.OrderColumn,
		g.CreatedAt.Format(time.RFC3339),
		g.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task group: %w", err)
	}
	return nil
}

func (r *SQLiteGroupRepo) GetByID(ctx context.Context, id string) (*domain.TaskGroup, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM task_groups WHERE id = ?`, id)
	return scanGroup(row)
}

func (r *SQLiteGroupRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.TaskGroup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+groupColumns+` FROM task_groups WHERE project_id = ? ORDER BY order_column, created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing task groups: %w", err)
	}
	defer rows.Close()

	var groups []*domain.TaskGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task groups: %w", err)
	}
	return groups, nil
}

func (r *SQLiteGroupRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task_groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task group: %w", err)
	}
	return requireAffected(res, "task group")
}

func scanGroup(s scanner) (*domain.TaskGroup, error) {
	var g domain.TaskGroup
	var createdAtStr, updatedAtStr string
	err := s.Scan(&g.ID, &g.ProjectID, &g.Name, &g.OrderColumn, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task group: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task group: %w", err)
	}
	g.CreatedAt, g.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing task group timestamps: %w", err)
	}
	return &g, nil
}
