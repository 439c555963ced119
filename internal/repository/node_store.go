package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
)

type columnKind int

const (
	kindText columnKind = iota
	kindNullableText
	kindInt
	kindNullableInt
	kindDate
	kindTimestamp
)

// Writable columns per table. Anything else is refused before SQL is built.
var (
	taskWritableColumns = map[string]columnKind{
		"parent_id":      kindNullableText,
		"group_id":       kindText,
		"order_column":   kindInt,
		"name":           kindText,
		"description":    kindText,
		"assigned_to":    kindNullableText,
		"pricing_type":   kindText,
		"fixed_price":    kindNullableInt,
		"estimation_min": kindInt,
		"due_on":         kindDate,
		"completed_at":   kindTimestamp,
	}
	subtaskWritableColumns = map[string]columnKind{
		"parent_id":      kindNullableText,
		"order_column":   kindInt,
		"name":           kindText,
		"assigned_to":    kindNullableText,
		"estimation_min": kindInt,
		"due_on":         kindDate,
		"completed_at":   kindTimestamp,
	}
)

// TaskNodeStore adapts the tasks table to hierarchy.Store. Tasks are
// unscoped: Lookup ignores scope. WithinProject narrows lookups to one
// project's tasks so a parent from another project reads as missing.
type TaskNodeStore struct {
	db        db.DBTX
	projectID string
}

func NewTaskNodeStore(conn db.DBTX) *TaskNodeStore {
	return &TaskNodeStore{db: conn}
}

func (s *TaskNodeStore) WithinProject(projectID string) *TaskNodeStore {
	return &TaskNodeStore{db: s.db, projectID: projectID}
}

func (s *TaskNodeStore) Lookup(ctx context.Context, _ string, id string) (hierarchy.Ref, bool, error) {
	var parent sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT parent_id FROM tasks WHERE id = ? AND (? = '' OR project_id = ?)`,
		id, s.projectID, s.projectID).Scan(&parent)
	if errors.Is(err, sql.ErrNoRows) {
		return hierarchy.Ref{}, false, nil
	}
	if err != nil {
		return hierarchy.Ref{}, false, fmt.Errorf("looking up task node: %w", err)
	}
	return hierarchy.Ref{ID: id, ParentID: stringPtr(parent)}, true, nil
}

func (s *TaskNodeStore) Write(ctx context.Context, id string, fields map[string]any) error {
	return writeColumns(ctx, s.db, "tasks", "task", taskWritableColumns, id, fields)
}

func (s *TaskNodeStore) ReplaceMembership(ctx context.Context, id string, rel hierarchy.Relation, ids []string) error {
	var err error
	switch rel {
	case hierarchy.RelationLabels:
		err = replaceSet(ctx, s.db, "task_labels", "label_id", id, ids)
	case hierarchy.RelationSubscribedUsers:
		err = replaceSet(ctx, s.db, "task_subscribers", "user_id", id, ids)
	default:
		return fmt.Errorf("task relation %q: %w", rel, hierarchy.ErrUnsupportedField)
	}
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE tasks SET updated_at = ? WHERE id = ?`, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("touching task: %w", err)
	}
	return nil
}

// SubtaskNodeStore adapts the subtasks table to hierarchy.Store. The scope
// is the owning task ID; rows of other tasks are invisible to Lookup.
type SubtaskNodeStore struct {
	db db.DBTX
}

func NewSubtaskNodeStore(conn db.DBTX) *SubtaskNodeStore {
	return &SubtaskNodeStore{db: conn}
}

func (s *SubtaskNodeStore) Lookup(ctx context.Context, scope, id string) (hierarchy.Ref, bool, error) {
	var parent sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT parent_id FROM subtasks WHERE id = ? AND task_id = ?`, id, scope).Scan(&parent)
	if errors.Is(err, sql.ErrNoRows) {
		return hierarchy.Ref{}, false, nil
	}
	if err != nil {
		return hierarchy.Ref{}, false, fmt.Errorf("looking up subtask node: %w", err)
	}
	return hierarchy.Ref{ID: id, Scope: scope, ParentID: stringPtr(parent)}, true, nil
}

func (s *SubtaskNodeStore) Write(ctx context.Context, id string, fields map[string]any) error {
	return writeColumns(ctx, s.db, "subtasks", "subtask", subtaskWritableColumns, id, fields)
}

func (s *SubtaskNodeStore) ReplaceMembership(_ context.Context, _ string, rel hierarchy.Relation, _ []string) error {
	return fmt.Errorf("subtask relation %q: %w", rel, hierarchy.ErrUnsupportedField)
}

// writeColumns issues one UPDATE for fields plus updated_at. Column order
// is sorted so identical field sets produce identical SQL.
func writeColumns(ctx context.Context, conn db.DBTX, table, entity string, allowed map[string]columnKind, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, ok := allowed[name]; !ok {
			return fmt.Errorf("%s column %q: %w", entity, name, hierarchy.ErrUnsupportedField)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names)+1)
	args := make([]any, 0, len(names)+2)
	for _, name := range names {
		v, err := coerce(allowed[name], fields[name])
		if err != nil {
			return fmt.Errorf("%s column %q: %w", entity, name, err)
		}
		sets = append(sets, name+" = ?")
		args = append(args, v)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, nowUTC(), id)

	query := `UPDATE ` + table + ` SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating %s: %w", entity, err)
	}
	return requireAffected(res, entity)
}

// coerce converts a field value into its storage form. Strings from the
// CLI are accepted for every kind; "" means NULL for nullable kinds.
func coerce(kind columnKind, v any) (any, error) {
	switch kind {
	case kindText:
		s, err := cast.ToStringE(v)
		if err != nil || v == nil {
			return nil, fmt.Errorf("expected text: %w", hierarchy.ErrInvalidValue)
		}
		return s, nil

	case kindNullableText:
		if isNullish(v) {
			return nil, nil
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("expected text: %w", hierarchy.ErrInvalidValue)
		}
		return s, nil

	case kindInt, kindNullableInt:
		if isNullish(v) {
			if kind == kindInt {
				return nil, fmt.Errorf("value required: %w", hierarchy.ErrInvalidValue)
			}
			return nil, nil
		}
		n, err := cast.ToInt64E(v)
		if err != nil {
			return nil, fmt.Errorf("expected integer: %w", hierarchy.ErrInvalidValue)
		}
		return n, nil

	case kindDate:
		return formatTimeValue(v, dateLayout)

	case kindTimestamp:
		return formatTimeValue(v, time.RFC3339)
	}
	return nil, fmt.Errorf("unknown column kind %d", kind)
}

func formatTimeValue(v any, layout string) (any, error) {
	if isNullish(v) {
		return nil, nil
	}
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(layout), nil
	case *time.Time:
		return t.UTC().Format(layout), nil
	case string:
		parsed, err := time.Parse(layout, t)
		if err != nil {
			return nil, fmt.Errorf("expected %s: %w", layout, hierarchy.ErrInvalidValue)
		}
		return parsed.Format(layout), nil
	}
	return nil, fmt.Errorf("expected time: %w", hierarchy.ErrInvalidValue)
}

func isNullish(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case *string:
		return t == nil
	case *int64:
		return t == nil
	case *time.Time:
		return t == nil
	}
	return false
}
