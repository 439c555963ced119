package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations followed by data repairs.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := repairParentLinks(db); err != nil {
		return fmt.Errorf("repairing parent links: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','archived')),
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS task_groups (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		order_column INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_groups_project ON task_groups(project_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		group_id       TEXT NOT NULL REFERENCES task_groups(id) ON DELETE CASCADE,
		parent_id      TEXT REFERENCES tasks(id) ON DELETE SET NULL,
		name           TEXT NOT NULL,
		assigned_to    TEXT,
		pricing_type   TEXT NOT NULL DEFAULT 'hourly'
		               CHECK(pricing_type IN ('hourly','fixed')),
		fixed_price    INTEGER,
		estimation_min INTEGER NOT NULL DEFAULT 0,
		due_on         TEXT,
		order_column   INTEGER NOT NULL DEFAULT 0,
		completed_at   TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_group ON tasks(group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,

	`CREATE TABLE IF NOT EXISTS subtasks (
		id             TEXT PRIMARY KEY,
		task_id        TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		parent_id      TEXT REFERENCES subtasks(id) ON DELETE SET NULL,
		name           TEXT NOT NULL,
		assigned_to    TEXT,
		estimation_min INTEGER NOT NULL DEFAULT 0,
		due_on         TEXT,
		order_column   INTEGER NOT NULL DEFAULT 0,
		completed_at   TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_subtasks_task ON subtasks(task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_subtasks_parent ON subtasks(parent_id)`,

	`CREATE TABLE IF NOT EXISTS labels (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		color      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		UNIQUE(project_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS task_labels (
		task_id  TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		label_id TEXT NOT NULL REFERENCES labels(id) ON DELETE CASCADE,
		PRIMARY KEY (task_id, label_id)
	)`,

	`CREATE TABLE IF NOT EXISTS task_subscribers (
		task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		PRIMARY KEY (task_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS time_logs (
		id         TEXT PRIMARY KEY,
		task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL DEFAULT '',
		started_at TEXT NOT NULL,
		minutes    INTEGER NOT NULL CHECK(minutes > 0),
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_time_logs_task ON time_logs(task_id)`,

	// Descriptions and notes were added after the first release.
	`ALTER TABLE projects ADD COLUMN description TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE tasks ADD COLUMN description TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE time_logs ADD COLUMN note TEXT NOT NULL DEFAULT ''`,
}

// repairParentLinks clears parent references that can never be valid:
// rows that point at themselves and subtasks whose parent belongs to a
// different task. Rows written by older builds may carry either. Idempotent.
func repairParentLinks(db *sql.DB) error {
	ctx := context.Background()

	stmts := []struct {
		name string
		sql  string
	}{
		{"self-parented tasks", `UPDATE tasks SET parent_id = NULL WHERE parent_id = id`},
		{"self-parented subtasks", `UPDATE subtasks SET parent_id = NULL WHERE parent_id = id`},
		{"cross-task subtasks", `UPDATE subtasks SET parent_id = NULL
			WHERE parent_id IS NOT NULL
			  AND parent_id NOT IN (SELECT p.id FROM subtasks p WHERE p.task_id = subtasks.task_id)`},
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s.sql); err != nil {
			return fmt.Errorf("clearing %s: %w", s.name, err)
		}
	}
	return nil
}
