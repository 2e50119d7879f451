package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/waypoint/internal/dispatch"
	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// changedParams collects the command's own flags that were set on the
// command line, keyed by flag name. Unset flags stay absent so the
// editors leave those fields untouched.
func changedParams(cmd *cobra.Command) map[string]any {
	params := map[string]any{}
	cmd.LocalFlags().Visit(func(f *pflag.Flag) {
		switch f.Value.Type() {
		case "stringArray":
			v, _ := cmd.LocalFlags().GetStringArray(f.Name)
			params[f.Name] = v
		case "bool":
			v, _ := cmd.LocalFlags().GetBool(f.Name)
			params[f.Name] = v
		default:
			params[f.Name] = f.Value.String()
		}
	})
	return params
}

// runTool dispatches tool with the command's changed flags plus extra.
func (a *app) runTool(cmd *cobra.Command, tool string, extra map[string]any) error {
	params := changedParams(cmd)
	for k, v := range extra {
		params[k] = v
	}
	res := a.dispatcher().Dispatch(cmd.Context(), tool, params)
	return a.emitResult(res)
}

func (a *app) newStakeholderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stakeholder <project> <id>",
		Short: "Add or update a stakeholder",
		Long: `Add or update a stakeholder. A new stakeholder needs --name and --type.
List flags replace the stored list unless the matching --append flag is set.

Example:
  waypoint stakeholder onboarding managers --name "Hiring managers" --type group
  waypoint stakeholder onboarding managers --needs "faster ramp-up" --append-needs`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTool(cmd, dispatch.ToolUpdateStakeholder, map[string]any{
				"project": args[0],
				"id":      args[1],
			})
		},
	}
	f := cmd.Flags()
	f.String("name", "", "stakeholder name")
	f.String("type", "", "group or individual")
	f.String("role", "", "role in the project")
	f.StringArray("needs", nil, "need (repeatable)")
	f.StringArray("pain-points", nil, "pain point (repeatable)")
	f.StringArray("notes-links", nil, "research notes link (repeatable)")
	f.Bool("append-needs", false, "append to needs instead of replacing")
	f.Bool("append-pain-points", false, "append to pain points instead of replacing")
	f.Bool("append-notes", false, "append to notes links instead of replacing")
	return cmd
}

func (a *app) newAssumptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assumption <project> <id>",
		Short: "Grade or update an assumption",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTool(cmd, dispatch.ToolGradeAssumption, map[string]any{
				"project": args[0],
				"id":      args[1],
			})
		},
	}
	f := cmd.Flags()
	f.String("certainty", "", "high, medium or low")
	f.String("risk", "", "high, medium or low")
	f.String("validation-plan", "", "how the assumption will be tested")
	f.String("status", "", "open, validating, validated or invalidated")
	return cmd
}

func (a *app) newIdeaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idea <project> <id>",
		Short: "Grade or update an idea",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTool(cmd, dispatch.ToolGradeIdea, map[string]any{
				"project": args[0],
				"id":      args[1],
			})
		},
	}
	f := cmd.Flags()
	f.String("impact", "", "high, medium or low")
	f.String("feasibility", "", "high, medium or low")
	f.String("status", "", "ideated, prototyping, iterating, validated, invalidated or implemented")
	f.String("idea-doc-link", "", "link to the idea document")
	f.StringArray("prototype-links", nil, "prototype link (repeatable)")
	f.Bool("append-prototype-links", false, "append to prototype links instead of replacing")
	return cmd
}

func (a *app) newInsightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insight <project>",
		Short: "Add an insight",
		Long:  "Add an insight. Insights are append-only; an id is generated when --id is omitted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTool(cmd, dispatch.ToolAddInsight, map[string]any{"project": args[0]})
		},
	}
	f := cmd.Flags()
	f.String("id", "", "insight id (default: generated)")
	f.String("title", "", "short title")
	f.String("description", "", "what was learned")
	f.String("confidence", "", "high, medium or low")
	f.StringArray("sources", nil, "source (repeatable)")
	f.String("implications", "", "what the insight implies")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func (a *app) newPlaybackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playback <project>",
		Short: "Record a playback session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			extra := map[string]any{"project": args[0]}
			if !cmd.Flags().Changed("date") {
				extra["date"] = time.Now().Format(types.PlaybackDateLayout)
			}
			return a.runTool(cmd, dispatch.ToolRecordPlayback, extra)
		},
	}
	f := cmd.Flags()
	f.String("id", "", "playback id (default: generated)")
	f.String("date", "", "session date, YYYY-MM-DD (default: today)")
	f.StringArray("audience", nil, "attendee (repeatable)")
	f.String("phase", "", "phase the playback closes")
	f.String("artifacts-link", "", "link to presented artifacts")
	f.StringArray("decisions", nil, "decision taken (repeatable)")
	_ = cmd.MarkFlagRequired("audience")
	return cmd
}

func (a *app) newPhaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phase <project> <phase>",
		Short: "Move the project to a phase",
		Long:  "Move the project to any phase. Completion gates are advisory; run `waypoint check` first.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTool(cmd, dispatch.ToolUpdatePhase, map[string]any{
				"project": args[0],
				"phase":   args[1],
			})
		},
	}
}
