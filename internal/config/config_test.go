package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasktree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.Hierarchy.TaskMaxHops)
	assert.Equal(t, 1000, cfg.Hierarchy.SubtaskMaxHops)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
db:
  path: /tmp/tt.db
log:
  level: debug
  format: json
hierarchy:
  task_max_hops: 25
events:
  log: true
  redis:
    addr: localhost:6379
    channel: board
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tt.db", cfg.DB.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, 25, cfg.Hierarchy.TaskMaxHops)
	assert.Equal(t, 1000, cfg.Hierarchy.SubtaskMaxHops, "unset keys keep defaults")
	assert.True(t, cfg.Events.Log)
	assert.Equal(t, "localhost:6379", cfg.Events.Redis.Addr)
	assert.Equal(t, "board", cfg.Events.Redis.Channel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "hierarchy:\n  subtask_max_hops: 10\n")
	t.Setenv("TASKTREE_HIERARCHY_SUBTASK_MAX_HOPS", "20")
	t.Setenv("TASKTREE_DB", "/tmp/env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Hierarchy.SubtaskMaxHops)
	assert.Equal(t, "/tmp/env.db", cfg.DB.Path)
}

func TestLoad_LongDBPathVariableWins(t *testing.T) {
	path := writeConfig(t, "db:\n  path: /tmp/file.db\n")
	t.Setenv("TASKTREE_DB", "/tmp/short.db")
	t.Setenv("TASKTREE_DB_PATH", "/tmp/long.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/long.db", cfg.DB.Path)
}

func TestLoad_ShortDBVariableWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKTREE_DB", "/tmp/short.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/short.db", cfg.DB.Path)
	assert.Equal(t, 100, cfg.Hierarchy.TaskMaxHops)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero hops", "hierarchy:\n  task_max_hops: 0\n", "TaskMaxHops"},
		{"unknown level", "log:\n  level: loud\n", "Level"},
		{"bad format", "log:\n  format: xml\n", "Format"},
		{"bad redis addr", "events:\n  redis:\n    addr: nohost\n", "Addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
