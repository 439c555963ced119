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

const subtaskColumns = `id, task_id, parent_id, name, assigned_to, estimation_min, due_on,
		order_column, completed_at, created_at, updated_at`

type SQLiteSubtaskRepo struct {
	db db.DBTX
}

func NewSQLiteSubtaskRepo(conn db.DBTX) *SQLiteSubtaskRepo {
	return &SQLiteSubtaskRepo{db: conn}
}

func (r *SQLiteSubtaskRepo) Create(ctx context.Context, s *domain.Subtask) error {
	query := `INSERT INTO subtasks (` + subtaskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.TaskID,
		nullableStringValue(s.ParentID),
		s.Name,
		nullableStringValue(s.AssignedTo),
		s.EstimationMin,
		nullableTimeToString(s.DueOn, dateLayout),
		s.OrderColumn,
		nullableTimeToString(s.CompletedAt, time.RFC3339),
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting subtask: %w", err)
	}
	return nil
}

func (r *SQLiteSubtaskRepo) GetByID(ctx context.Context, id string) (*domain.Subtask, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+subtaskColumns+` FROM subtasks WHERE id = ?`, id)
	return scanSubtask(row)
}

func (r *SQLiteSubtaskRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.Subtask, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+subtaskColumns+` FROM subtasks WHERE task_id = ? ORDER BY order_column, created_at`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}
	defer rows.Close()

	var subtasks []*domain.Subtask
	for rows.Next() {
		s, err := scanSubtask(rows)
		if err != nil {
			return nil, err
		}
		subtasks = append(subtasks, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subtasks: %w", err)
	}
	return subtasks, nil
}

func (r *SQLiteSubtaskRepo) Update(ctx context.Context, s *domain.Subtask) error {
	query := `UPDATE subtasks SET parent_id = ?, name = ?, assigned_to = ?, estimation_min = ?,
		due_on = ?, order_column = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableStringValue(s.ParentID),
		s.Name,
		nullableStringValue(s.AssignedTo),
		s.EstimationMin,
		nullableTimeToString(s.DueOn, dateLayout),
		s.OrderColumn,
		nullableTimeToString(s.CompletedAt, time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating subtask: %w", err)
	}
	return requireAffected(res, "subtask")
}

func (r *SQLiteSubtaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subtasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting subtask: %w", err)
	}
	return requireAffected(res, "subtask")
}

func scanSubtask(sc scanner) (*domain.Subtask, error) {
	var s domain.Subtask
	var parentID, assignedTo, dueOn, completedAt sql.NullString
	var createdAtStr, updatedAtStr string

	err := sc.Scan(
		&s.ID, &s.TaskID, &parentID, &s.Name, &assignedTo, &s.EstimationMin, &dueOn,
		&s.OrderColumn, &completedAt, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subtask: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning subtask: %w", err)
	}

	s.ParentID = stringPtr(parentID)
	s.AssignedTo = stringPtr(assignedTo)
	s.DueOn = parseNullableTime(dueOn, dateLayout)
	s.CompletedAt = parseNullableTime(completedAt, time.RFC3339)
	s.CreatedAt, s.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing subtask timestamps: %w", err)
	}
	return &s, nil
}
