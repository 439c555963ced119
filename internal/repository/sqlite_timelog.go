package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/domain"
)

type SQLiteTimeLogRepo struct {
	db db.DBTX
}

func NewSQLiteTimeLogRepo(conn db.DBTX) *SQLiteTimeLogRepo {
	return &SQLiteTimeLogRepo{db: conn}
}

func (r *SQLiteTimeLogRepo) Create(ctx context.Context, l *domain.TimeLog) error {
	query := `INSERT INTO time_logs (id, task_id, user_id, started_at, minutes, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.TaskID, l.UserID,
		l.StartedAt.Format(time.RFC3339),
		l.Minutes, l.Note,
		l.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting time log: %w", err)
	}
	return nil
}

func (r *SQLiteTimeLogRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.TimeLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, user_id, started_at, minutes, note, created_at
		FROM time_logs WHERE task_id = ? ORDER BY started_at DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing time logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.TimeLog
	for rows.Next() {
		var l domain.TimeLog
		var startedAtStr, createdAtStr string
		if err := rows.Scan(&l.ID, &l.TaskID, &l.UserID, &startedAtStr, &l.Minutes, &l.Note, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning time log: %w", err)
		}
		if l.StartedAt, l.CreatedAt, err = parseTimestamps(startedAtStr, createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing time log timestamps: %w", err)
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time logs: %w", err)
	}
	return logs, nil
}

func (r *SQLiteTimeLogRepo) TotalMinutesByTask(ctx context.Context, taskID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(minutes), 0) FROM time_logs WHERE task_id = ?`, taskID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing time logs: %w", err)
	}
	return total, nil
}

func (r *SQLiteTimeLogRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting time log: %w", err)
	}
	return requireAffected(res, "time log")
}
