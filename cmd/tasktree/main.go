package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/redis/go-redis/v9"

	"github.com/alexanderramin/tasktree/internal/cli"
	"github.com/alexanderramin/tasktree/internal/config"
	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/events"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
	"github.com/alexanderramin/tasktree/internal/repository"
	"github.com/alexanderramin/tasktree/internal/service"
)

func main() {
	if err := cli.NewRootCmd(bootstrap).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads config, opens the database and wires every service.
func bootstrap(configPath string) (*cli.App, func() error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	closers := []io.Closer{database}

	var sinks events.MultiSink
	if cfg.Events.Log {
		sinks = append(sinks, events.NewLogSink(logger))
	}
	if cfg.Events.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Events.Redis.Addr,
			Password: cfg.Events.Redis.Password,
			DB:       cfg.Events.Redis.DB,
		})
		closers = append(closers, client)
		sinks = append(sinks, events.NewRedisSink(client, cfg.Events.Redis.Channel, logger))
	}

	hierarchyCfg := service.HierarchyConfig{
		TaskMaxHops:    cfg.Hierarchy.TaskMaxHops,
		SubtaskMaxHops: cfg.Hierarchy.SubtaskMaxHops,
		Sink:           sinks,
		Locks:          hierarchy.NewScopeLocks(),
	}
	observer := service.NewLogUseCaseObserver(logger)

	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Projects: service.NewProjectService(projectRepo, uow, observer),
		Groups:   service.NewGroupService(repository.NewSQLiteGroupRepo(database), uow, observer),
		Labels:   service.NewLabelService(repository.NewSQLiteLabelRepo(database), projectRepo, observer),
		Tasks:    service.NewTaskService(taskRepo, uow, hierarchyCfg, observer),
		Subtasks: service.NewSubtaskService(repository.NewSQLiteSubtaskRepo(database), uow, hierarchyCfg, observer),
		TimeLogs: service.NewTimeLogService(repository.NewSQLiteTimeLogRepo(database), taskRepo, observer),
		Import:   service.NewImportService(uow, observer),
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i].Close())
		}
		return errors.Join(errs...)
	}
	return app, closeAll, nil
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
