package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waypoint/pkg/waypoint"
)

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the waypoint version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.out, "waypoint v%s\nmodule: %s\n", waypoint.Version, waypoint.ModulePath)
			return nil
		},
	}
}
