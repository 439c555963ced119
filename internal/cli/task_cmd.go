package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/tasktree/internal/cli/formatter"
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
)

func newTaskCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(s),
		newTaskListCmd(s),
		newTaskTreeCmd(s),
		newTaskSetCmd(s),
		newTaskMoveCmd(s),
		newTaskReorderCmd(s),
		newTaskDoneCmd(s, true),
		newTaskDoneCmd(s, false),
		newTaskRemoveCmd(s),
		newTaskBrowseCmd(s),
	)
	return cmd
}

func newTaskAddCmd(s *session) *cobra.Command {
	var (
		name, description, group, parent, assignee string
		pricing, price, due, labels, subscribers   string
		estimate                                   int
	)

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app := s.app
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			t := &domain.Task{
				ProjectID:       projectID,
				Name:            name,
				Description:     description,
				AssignedTo:      optionalString(assignee),
				PricingType:     domain.PricingType(pricing),
				EstimationMin:   estimate,
				SubscribedUsers: splitList(subscribers),
			}
			if group != "" {
				if t.GroupID, err = resolveGroupID(ctx, app, projectID, group); err != nil {
					return err
				}
			}
			if parent != "" {
				parentID, err := app.Tasks.ResolveID(ctx, parent)
				if err != nil {
					return err
				}
				t.ParentID = &parentID
			}
			if price != "" {
				amount, err := parsePrice(price)
				if err != nil {
					return err
				}
				minor := amount.IntPart()
				t.FixedPrice = &minor
				if t.PricingType == "" {
					t.PricingType = domain.PricingFixed
				}
			}
			if t.DueOn, err = parseOptionalDate(due); err != nil {
				return err
			}
			if labels != "" {
				if t.Labels, err = resolveLabelIDs(ctx, app, projectID, splitList(labels)); err != nil {
					return err
				}
			}

			if err := app.Tasks.Create(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s %s\n", t.Name, formatter.TruncID(t.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&group, "group", "", "Group name or ID (default: first group)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task ID or prefix")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assigned user")
	cmd.Flags().StringVar(&pricing, "pricing", "", "Pricing type: hourly or fixed")
	cmd.Flags().StringVar(&price, "price", "", "Fixed price in major units, e.g. 120.50")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "Estimated minutes")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&labels, "labels", "", "Comma-separated label names or IDs")
	cmd.Flags().StringVar(&subscribers, "subscribers", "", "Comma-separated user IDs")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTaskListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, s.app, args[0])
			if err != nil {
				return err
			}
			tasks, err := s.app.Tasks.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
				return nil
			}
			groups, err := s.app.Groups.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(groups))
			for _, g := range groups {
				names[g.ID] = g.Name
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskTable(tasks, names))
			return nil
		},
	}
}

func newTaskTreeCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tree PROJECT",
		Short: "Show tasks and subtasks as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := renderProjectTree(context.Background(), s.app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// renderProjectTree loads a project with all of its tasks and subtasks.
func renderProjectTree(ctx context.Context, app *App, ref string) (string, error) {
	projectID, err := resolveProjectID(ctx, app, ref)
	if err != nil {
		return "", err
	}
	project, err := app.Projects.GetByID(ctx, projectID)
	if err != nil {
		return "", err
	}
	tasks, err := app.Tasks.ListByProject(ctx, projectID)
	if err != nil {
		return "", err
	}
	subs := make(map[string][]*domain.Subtask, len(tasks))
	for _, t := range tasks {
		list, err := app.Subtasks.ListByTask(ctx, t.ID)
		if err != nil {
			return "", err
		}
		subs[t.ID] = list
	}
	return formatter.FormatTaskTree(project, tasks, subs), nil
}

func newTaskSetCmd(s *session) *cobra.Command {
	var field, value string

	cmd := &cobra.Command{
		Use:   "set TASK",
		Short: "Update one task field",
		Long: `Update one field of a task. Dedicated fields are parent_id, pricing_type,
fixed_price, group_id, labels and subscribed_users; any other name is written
to the column of that name. Without --field an interactive form is shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app := s.app
			id, err := app.Tasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}

			if field == "" {
				if !app.interactive() {
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
			if c, err = resolveTaskCommand(ctx, app, id, c); err != nil {
				return err
			}

			res, err := app.Tasks.UpdateField(ctx, id, c)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFieldResult("task", id, res))
			return nil
		},
	}
	cmd.Flags().StringVar(&field, "field", "", "Field name")
	cmd.Flags().StringVar(&value, "value", "", "New value (comma-separated for sets, empty for NULL)")
	return cmd
}

// resolveTaskCommand maps group names, label names and parent prefixes to IDs.
func resolveTaskCommand(ctx context.Context, app *App, taskID string, c hierarchy.Command) (hierarchy.Command, error) {
	switch v := c.(type) {
	case hierarchy.SetParent:
		if v.ParentID == nil {
			return v, nil
		}
		parentID, err := resolveParentRef(ctx, app.Tasks.ResolveID, *v.ParentID)
		if err != nil {
			return nil, err
		}
		return hierarchy.SetParent{ParentID: &parentID}, nil
	case hierarchy.SetGroup, hierarchy.ReplaceLabels:
		task, err := app.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if g, ok := v.(hierarchy.SetGroup); ok {
			groupID, err := resolveGroupID(ctx, app, task.ProjectID, g.GroupID)
			if err != nil {
				return nil, err
			}
			return hierarchy.SetGroup{GroupID: groupID}, nil
		}
		ids, err := resolveLabelIDs(ctx, app, task.ProjectID, v.(hierarchy.ReplaceLabels).IDs)
		if err != nil {
			return nil, err
		}
		return hierarchy.ReplaceLabels{IDs: ids}, nil
	}
	return c, nil
}

func newTaskMoveCmd(s *session) *cobra.Command {
	var parent string
	var root bool

	cmd := &cobra.Command{
		Use:   "move TASK",
		Short: "Move a task under another task or to the root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == (parent != "") {
				return fmt.Errorf("exactly one of --parent or --root is required")
			}
			ctx := context.Background()
			id, err := s.app.Tasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			c, err := resolveTaskCommand(ctx, s.app, id, hierarchy.SetParent{ParentID: optionalString(parent)})
			if err != nil {
				return err
			}
			res, err := s.app.Tasks.UpdateField(ctx, id, c)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFieldResult("task", id, res))
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "New parent task ID or prefix")
	cmd.Flags().BoolVar(&root, "root", false, "Detach to the top level")
	return cmd
}

func newTaskReorderCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder PROJECT FILE",
		Short: "Apply a batch of parent and order changes from a YAML or JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, s.app, args[0])
			if err != nil {
				return err
			}
			items, err := loadReorderItems(args[1])
			if err != nil {
				return err
			}
			res, err := s.app.Tasks.Reorder(ctx, projectID, items)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBatchResult(res))
			return nil
		},
	}
}

// loadReorderItems reads a list of {id, parent_id, order_column} entries.
// JSON input parses as YAML.
func loadReorderItems(path string) ([]hierarchy.ReorderItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reorder file: %w", err)
	}
	var items []hierarchy.ReorderItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing reorder file: %w", err)
	}
	return items, nil
}

func newTaskDoneCmd(s *session, done bool) *cobra.Command {
	use, short, verb := "done TASK", "Mark a task completed", "Completed"
	if !done {
		use, short, verb = "reopen TASK", "Reopen a completed task", "Reopened"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := s.app.Tasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := s.app.Tasks.SetCompleted(ctx, id, done); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s task %s\n", verb, formatter.TruncID(id))
			return nil
		},
	}
}

func newTaskRemoveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "remove TASK",
		Short: "Delete a task; its children move to the top level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := s.app.Tasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := s.app.Tasks.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", formatter.TruncID(id))
			return nil
		},
	}
}
