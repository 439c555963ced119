package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/tasktree/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Groups   service.GroupService
	Labels   service.LabelService
	Tasks    service.TaskService
	Subtasks service.SubtaskService
	TimeLogs service.TimeLogService
	Import   service.ImportService

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// Bootstrap builds the App from the config file named by --config (empty
// means the default search path). The returned func releases resources.
type Bootstrap func(configPath string) (*App, func() error, error)

// session is filled in by the root pre-run hook before any command runs.
type session struct {
	app   *App
	close func() error
}

// NewRootCmd creates the top-level "tasktree" command.
func NewRootCmd(boot Bootstrap) *cobra.Command {
	var configPath, metricsOut string
	s := &session{}

	root := &cobra.Command{
		Use:           "tasktree",
		Short:         "Project boards with nested tasks and subtasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app, closeFn, err := boot(configPath)
			if err != nil {
				return err
			}
			s.app, s.close = app, closeFn
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if metricsOut != "" {
				if err := writeMetrics(prometheus.DefaultGatherer, metricsOut, cmd.ErrOrStderr()); err != nil {
					return err
				}
			}
			if s.close == nil {
				return nil
			}
			return s.close()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./.tasktree/config.yaml or ~/.tasktree/config.yaml)")
	root.PersistentFlags().StringVar(&metricsOut, "metrics-out", "", "Write hierarchy metrics after the command (\"-\" for stderr, else a textfile path)")

	root.AddCommand(
		newProjectCmd(s),
		newGroupCmd(s),
		newLabelCmd(s),
		newTaskCmd(s),
		newSubtaskCmd(s),
		newLogCmd(s),
		newImportCmd(s),
	)
	return root
}
