package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "concurrent_test.db"))
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringWrite checks that readers listing tasks see
// only fully written rows while a writer inserts.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	b := setupBoard(t, database)
	repo := NewSQLiteTaskRepo(database)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			task := testutil.NewTestTask(b.project.ID, b.group.ID, fmt.Sprintf("Item-%d", i),
				testutil.WithOrderColumn(i))
			task.SubscribedUsers = []string{"watcher"}
			if err := repo.Create(ctx, task); err != nil {
				t.Errorf("writer: create task %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				tasks, err := repo.ListByProject(ctx, b.project.ID)
				if err != nil {
					t.Errorf("reader %d: list tasks: %v", reader, err)
					return
				}
				for _, task := range tasks {
					if task.ID == "" || task.ProjectID != b.project.ID {
						t.Errorf("reader %d: got inconsistent task row", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	tasks, err := repo.ListByProject(ctx, b.project.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 20)
}
