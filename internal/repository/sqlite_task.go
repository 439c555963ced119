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

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, project_id, group_id, parent_id, name, description, assigned_to,
		pricing_type, fixed_price, estimation_min, due_on, order_column, completed_at,
		created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo. Labels and subscribers are stored in
// join tables and loaded with every task.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.GroupID,
		nullableStringValue(t.ParentID),
		t.Name,
		t.Description,
		nullableStringValue(t.AssignedTo),
		string(t.PricingType),
		nullableInt64Value(t.FixedPrice),
		t.EstimationMin,
		nullableTimeToString(t.DueOn, dateLayout),
		t.OrderColumn,
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	if len(t.Labels) > 0 {
		if err := r.ReplaceLabels(ctx, t.ID, t.Labels); err != nil {
			return err
		}
	}
	if len(t.SubscribedUsers) > 0 {
		if err := r.ReplaceSubscribers(ctx, t.ID, t.SubscribedUsers); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return r.list(ctx, "listing tasks by project",
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY order_column, created_at`, projectID)
}

func (r *SQLiteTaskRepo) ListByGroup(ctx context.Context, groupID string) ([]*domain.Task, error) {
	return r.list(ctx, "listing tasks by group",
		`SELECT `+taskColumns+` FROM tasks WHERE group_id = ? ORDER BY order_column, created_at`, groupID)
}

func (r *SQLiteTaskRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error) {
	return r.list(ctx, "listing child tasks",
		`SELECT `+taskColumns+` FROM tasks WHERE parent_id = ? ORDER BY order_column, created_at`, parentID)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET group_id = ?, parent_id = ?, name = ?, description = ?, assigned_to = ?,
		pricing_type = ?, fixed_price = ?, estimation_min = ?, due_on = ?, order_column = ?,
		completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.GroupID,
		nullableStringValue(t.ParentID),
		t.Name,
		t.Description,
		nullableStringValue(t.AssignedTo),
		string(t.PricingType),
		nullableInt64Value(t.FixedPrice),
		t.EstimationMin,
		nullableTimeToString(t.DueOn, dateLayout),
		t.OrderColumn,
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task")
}

// ReplaceLabels makes labelIDs the task's complete label set.
func (r *SQLiteTaskRepo) ReplaceLabels(ctx context.Context, taskID string, labelIDs []string) error {
	return replaceSet(ctx, r.db, "task_labels", "label_id", taskID, labelIDs)
}

// ReplaceSubscribers makes userIDs the task's complete subscriber set.
func (r *SQLiteTaskRepo) ReplaceSubscribers(ctx context.Context, taskID string, userIDs []string) error {
	return replaceSet(ctx, r.db, "task_subscribers", "user_id", taskID, userIDs)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task")
}

func (r *SQLiteTaskRepo) list(ctx context.Context, op, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	// Release the connection before the relation queries.
	rows.Close()

	for _, t := range tasks {
		if err := r.loadRelations(ctx, t); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) loadRelations(ctx context.Context, t *domain.Task) error {
	var err error
	t.Labels, err = loadSet(ctx, r.db, "task_labels", "label_id", t.ID)
	if err != nil {
		return err
	}
	t.SubscribedUsers, err = loadSet(ctx, r.db, "task_subscribers", "user_id", t.ID)
	return err
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var parentID, assignedTo, dueOn, completedAt sql.NullString
	var fixedPrice sql.NullInt64
	var pricingType, createdAtStr, updatedAtStr string

	err := s.Scan(
		&t.ID, &t.ProjectID, &t.GroupID, &parentID, &t.Name, &t.Description, &assignedTo,
		&pricingType, &fixedPrice, &t.EstimationMin, &dueOn, &t.OrderColumn, &completedAt,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.ParentID = stringPtr(parentID)
	t.AssignedTo = stringPtr(assignedTo)
	t.PricingType = domain.PricingType(pricingType)
	t.FixedPrice = int64Ptr(fixedPrice)
	t.DueOn = parseNullableTime(dueOn, dateLayout)
	t.CompletedAt = parseNullableTime(completedAt, time.RFC3339)
	t.CreatedAt, t.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing task timestamps: %w", err)
	}
	return &t, nil
}

// replaceSet rewrites the (task_id, column) rows of a join table. Table and
// column names come from constants in this package.
func replaceSet(ctx context.Context, conn db.DBTX, table, column, taskID string, ids []string) error {
	if _, err := conn.ExecContext(ctx, `DELETE FROM `+table+` WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}
	insert := `INSERT OR IGNORE INTO ` + table + ` (task_id, ` + column + `) VALUES (?, ?)`
	for _, id := range ids {
		if _, err := conn.ExecContext(ctx, insert, taskID, id); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}
	return nil
}

func loadSet(ctx context.Context, conn db.DBTX, table, column, taskID string) ([]string, error) {
	rows, err := conn.QueryContext(ctx, `SELECT `+column+` FROM `+table+` WHERE task_id = ? ORDER BY `+column, taskID)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", table, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
