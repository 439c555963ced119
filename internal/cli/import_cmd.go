package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a project with groups, labels, tasks and subtasks from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := s.app.Import.ImportProject(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported project %s [%s]: %d groups, %d labels, %d tasks, %d subtasks\n",
				res.Project.Name, res.Project.ShortID, res.GroupCount, res.LabelCount, res.TaskCount, res.SubtaskCount)
			return nil
		},
	}
}
