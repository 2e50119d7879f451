package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waypoint/internal/dispatch"
)

func (a *app) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <project>",
		Short: "Check phase completion criteria",
		Long: `Check whether a phase's completion criteria are met. Defaults to the
project's current phase. Exits 1 when the phase is incomplete.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := changedParams(cmd)
			params["project"] = args[0]
			res := a.dispatcher().Dispatch(cmd.Context(), dispatch.ToolCheckCompletion, params)
			return a.emitCheck(res)
		},
	}
	cmd.Flags().String("phase", "", "phase to check (default: current phase)")
	return cmd
}

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <project>",
		Short: "Validate the state document and list gaps",
		Long: `Validate the state document against the schema and list the work still
missing for the current and earlier phases. Exits 1 when the document is
invalid; gaps alone do not fail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.dispatcher().Dispatch(cmd.Context(), dispatch.ToolValidateState,
				map[string]any{"project": args[0]})
			return a.emitCheck(res)
		},
	}
}
