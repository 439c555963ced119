package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tasktree/internal/db"
)

// idsWithPrefix returns up to limit IDs from table starting with prefix.
// Compares by substr so wildcard characters in prefix match literally.
func idsWithPrefix(ctx context.Context, conn db.DBTX, table, prefix string, limit int) ([]string, error) {
	rows, err := conn.QueryContext(ctx,
		`SELECT id FROM `+table+` WHERE substr(id, 1, length(?)) = ? ORDER BY id LIMIT ?`,
		prefix, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("matching %s ids: %w", table, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning %s id: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteTaskRepo) IDsWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	return idsWithPrefix(ctx, r.db, "tasks", prefix, limit)
}

func (r *SQLiteSubtaskRepo) IDsWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	return idsWithPrefix(ctx, r.db, "subtasks", prefix, limit)
}
