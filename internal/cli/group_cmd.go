package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tasktree/internal/cli/formatter"
	"github.com/alexanderramin/tasktree/internal/domain"
)

func newGroupCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage workflow groups",
	}

	var name string
	add := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Append a group to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, s.app, args[0])
			if err != nil {
				return err
			}
			g := &domain.TaskGroup{ProjectID: projectID, Name: name}
			if err := s.app.Groups.Create(ctx, g); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created group %s %s\n", g.Name, formatter.TruncID(g.ID))
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Group name")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, s.app, args[0])
			if err != nil {
				return err
			}
			groups, err := s.app.Groups.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGroupList(groups))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove PROJECT GROUP",
		Short: "Delete a group and its tasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, s.app, args[0])
			if err != nil {
				return err
			}
			groupID, err := resolveGroupID(ctx, s.app, projectID, args[1])
			if err != nil {
				return err
			}
			if err := s.app.Groups.Delete(ctx, groupID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed group %s\n", args[1])
			return nil
		},
	}

	cmd.AddCommand(add, list, remove)
	return cmd
}

func newLabelCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage labels",
	}

	var name, color string
	add := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Create a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, s.app, args[0])
			if err != nil {
				return err
			}
			l := &domain.Label{ProjectID: projectID, Name: name, Color: color}
			if err := s.app.Labels.Create(ctx, l); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created label %s\n", l.Name)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Label name")
	add.Flags().StringVar(&color, "color", "", "Hex color, e.g. #cc241d")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's labels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, s.app, args[0])
			if err != nil {
				return err
			}
			labels, err := s.app.Labels.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if len(labels) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No labels.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLabelList(labels))
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
