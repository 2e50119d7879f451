package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waypoint/internal/config"
	"github.com/mesh-intelligence/waypoint/pkg/types"
)

func (a *app) newInitCmd() *cobra.Command {
	var name, problem string
	cmd := &cobra.Command{
		Use:   "init <project>",
		Short: "Create a project with an empty state document",
		Long: `Create the project directory and an empty state document in the
empathize phase. Writes a default waypoint.yaml into the workspace if none
exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := config.WriteDefault(a.cfg.Workspace)
			if err != nil {
				return err
			}
			if written {
				a.logger.Info("wrote default configuration", "dir", a.cfg.Workspace)
			}

			svc, err := a.openProject(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(svc.Dir())
			}
			doc, err := svc.Init(cmd.Context(), name, problem)
			if err != nil {
				return err
			}

			if a.flags.jsonMode {
				return a.writeJSON(types.Success(doc))
			}
			a.print.Success("Initialized %s", doc.ProjectName)
			a.print.Field("Path", svc.Path())
			a.print.Field("Phase", doc.Phase)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (default: directory name)")
	cmd.Flags().StringVar(&problem, "problem", "", "problem statement")
	return cmd
}
