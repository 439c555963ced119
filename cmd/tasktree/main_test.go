package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tasktree/internal/config"
	"github.com/alexanderramin/tasktree/internal/domain"
)

func TestBootstrap_WiresServicesFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	body := "db:\n  path: " + filepath.Join(dir, "data", "tasktree.db") + "\nevents:\n  log: true\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	app, closeFn, err := bootstrap(cfgPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	ctx := context.Background()
	p := &domain.Project{ShortID: "BOOT01", Name: "Boot"}
	require.NoError(t, app.Projects.Create(ctx, p))

	groups, err := app.Groups.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, groups, 3)
	assert.FileExists(t, filepath.Join(dir, "data", "tasktree.db"))
}

func TestBootstrap_MissingExplicitConfig(t *testing.T) {
	_, _, err := bootstrap(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "info"

	newLogger(cfg, &buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	cfg.Log.Format = "text"
	newLogger(cfg, &buf).Debug("hidden")
	assert.Empty(t, buf.String())
}
