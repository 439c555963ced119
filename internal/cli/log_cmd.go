package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tasktree/internal/cli/formatter"
	"github.com/alexanderramin/tasktree/internal/domain"
)

func newLogCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record and review time spent on tasks",
	}

	var user, note, at string
	var minutes int
	add := &cobra.Command{
		Use:   "add TASK",
		Short: "Log minutes against a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := s.app.Tasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			started := time.Now().UTC()
			if at != "" {
				if started, err = time.Parse(time.RFC3339, at); err != nil {
					return fmt.Errorf("invalid --at %q (use RFC 3339)", at)
				}
			}
			l := &domain.TimeLog{TaskID: taskID, UserID: user, Minutes: minutes, Note: note, StartedAt: started}
			if err := s.app.TimeLogs.Log(ctx, l); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s on %s\n", formatter.FormatMinutes(minutes), formatter.TruncID(taskID))
			return nil
		},
	}
	add.Flags().IntVar(&minutes, "minutes", 0, "Minutes spent")
	add.Flags().StringVar(&user, "user", "", "User ID")
	add.Flags().StringVar(&note, "note", "", "Optional note")
	add.Flags().StringVar(&at, "at", "", "Start time (RFC 3339, default now)")
	_ = add.MarkFlagRequired("minutes")
	_ = add.MarkFlagRequired("user")

	list := &cobra.Command{
		Use:   "list TASK",
		Short: "List time logged against a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := s.app.Tasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			logs, err := s.app.TimeLogs.ListByTask(ctx, taskID)
			if err != nil {
				return err
			}
			total, err := s.app.TimeLogs.TotalByTask(ctx, taskID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimeLogs(logs, total))
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
