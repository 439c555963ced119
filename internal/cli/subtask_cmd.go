package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tasktree/internal/cli/formatter"
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
)

func newSubtaskCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage subtasks",
	}
	cmd.AddCommand(
		newSubtaskAddCmd(s),
		newSubtaskListCmd(s),
		newSubtaskSetCmd(s),
		newSubtaskReorderCmd(s),
		newSubtaskDoneCmd(s),
		newSubtaskRemoveCmd(s),
	)
	return cmd
}

func newSubtaskAddCmd(s *session) *cobra.Command {
	var name, parent, assignee, due string
	var estimate int

	cmd := &cobra.Command{
		Use:   "add TASK",
		Short: "Create a subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := s.app.Tasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			st := &domain.Subtask{
				TaskID:        taskID,
				Name:          name,
				AssignedTo:    optionalString(assignee),
				EstimationMin: estimate,
			}
			if parent != "" {
				parentID, err := resolveParentRef(ctx, s.app.Subtasks.ResolveID, parent)
				if err != nil {
					return err
				}
				st.ParentID = &parentID
			}
			if st.DueOn, err = parseOptionalDate(due); err != nil {
				return err
			}

			d, err := s.app.Subtasks.Create(ctx, st)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created subtask %s %s\n", st.Name, formatter.TruncID(st.ID))
			if d.Outcome == hierarchy.OutcomeNormalize {
				fmt.Fprintf(out, "Parent dropped: %s\n", formatter.DecisionBadge(d))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Subtask name")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent subtask ID or prefix (same task only)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assigned user")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "Estimated minutes")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSubtaskListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list TASK",
		Short: "Show a task's subtasks as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := s.app.Tasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			task, err := s.app.Tasks.GetByID(ctx, taskID)
			if err != nil {
				return err
			}
			subs, err := s.app.Subtasks.ListByTask(ctx, taskID)
			if err != nil {
				return err
			}
			items := formatter.BuildTaskTree([]*domain.Task{task}, map[string][]*domain.Subtask{taskID: subs})
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTree(items))
			return nil
		},
	}
}

func newSubtaskSetCmd(s *session) *cobra.Command {
	var field, value string

	cmd := &cobra.Command{
		Use:   "set SUBTASK",
		Short: "Update one subtask field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := s.app.Subtasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			if field == "" {
				if !s.app.interactive() {
					return fmt.Errorf("--field is required")
				}
				if err := fieldForm(&field, &value).Run(); err != nil {
					return err
				}
				field, value = splitOtherField(field, value)
			}
			c, err := commandFor(field, value)
			if err != nil {
				return err
			}
			if p, ok := c.(hierarchy.SetParent); ok && p.ParentID != nil {
				resolved, err := resolveParentRef(ctx, s.app.Subtasks.ResolveID, *p.ParentID)
				if err != nil {
					return err
				}
				c = hierarchy.SetParent{ParentID: &resolved}
			}
			res, err := s.app.Subtasks.UpdateField(ctx, id, c)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFieldResult("subtask", id, res))
			return nil
		},
	}
	cmd.Flags().StringVar(&field, "field", "", "Field name")
	cmd.Flags().StringVar(&value, "value", "", "New value (empty for NULL)")
	return cmd
}

func newSubtaskReorderCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder TASK FILE",
		Short: "Apply a batch of subtask parent and order changes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := s.app.Tasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			items, err := loadReorderItems(args[1])
			if err != nil {
				return err
			}
			res, err := s.app.Subtasks.Reorder(ctx, taskID, items)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBatchResult(res))
			return nil
		},
	}
}

func newSubtaskDoneCmd(s *session) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done SUBTASK",
		Short: "Mark a subtask completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := s.app.Subtasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := s.app.Subtasks.SetCompleted(ctx, id, !undo); err != nil {
				return err
			}
			verb := "Completed"
			if undo {
				verb = "Reopened"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s subtask %s\n", verb, formatter.TruncID(id))
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Reopen instead")
	return cmd
}

func newSubtaskRemoveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "remove SUBTASK",
		Short: "Delete a subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := s.app.Subtasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := s.app.Subtasks.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed subtask %s\n", formatter.TruncID(id))
			return nil
		},
	}
}
