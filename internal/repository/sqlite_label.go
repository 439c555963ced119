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

type SQLiteLabelRepo struct {
	db db.DBTX
}

func NewSQLiteLabelRepo(conn db.DBTX) *SQLiteLabelRepo {
	return &SQLiteLabelRepo{db: conn}
}

func (r *SQLiteLabelRepo) Create(ctx context.Context, l *domain.Label) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO labels (id, project_id, name, color, created_at) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.ProjectID, l.Name, l.Color, l.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting label: %w", err)
	}
	return nil
}

func (r *SQLiteLabelRepo) GetByID(ctx context.Context, id string) (*domain.Label, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, name, color, created_at FROM labels WHERE id = ?`, id)
	return scanLabel(row)
}

func (r *SQLiteLabelRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Label, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, name, color, created_at FROM labels WHERE project_id = ? ORDER BY name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing labels: %w", err)
	}
	defer rows.Close()

	var labels []*domain.Label
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func scanLabel(s scanner) (*domain.Label, error) {
	var l domain.Label
	var createdAtStr string
	if err := s.Scan(&l.ID, &l.ProjectID, &l.Name, &l.Color, &createdAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("label: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning label: %w", err)
	}
	var err error
	if l.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing label created_at: %w", err)
	}
	return &l, nil
}
