package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waypoint/internal/index"
	"github.com/mesh-intelligence/waypoint/pkg/types"
)

func (a *app) newProjectsCmd() *cobra.Command {
	var (
		phase      string
		incomplete bool
		recent     bool
		byPhase    bool
	)
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the projects in the workspace",
		Long: `List every project under the workspace's projects directory with its
phase, gate status and last update. The listing is served from an index
rebuilt from the state documents on each run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := index.Filter{Incomplete: incomplete}
			if phase != "" {
				p, err := types.ParsePhase(phase)
				if err != nil {
					return err
				}
				filter.Phase = p
			}

			s, err := a.loadSchema()
			if err != nil {
				return err
			}
			idx, err := index.Open(index.Options{
				Path:      a.cfg.IndexPath,
				StateFile: a.cfg.StateFile,
				Schema:    s,
				Logger:    a.logger,
			})
			if err != nil {
				return err
			}
			defer idx.Close()

			if _, err := idx.Rebuild(cmd.Context(), a.cfg.ProjectsPath()); err != nil {
				return err
			}
			if byPhase {
				counts, err := idx.PhaseCounts(cmd.Context())
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return a.writeJSON(counts)
				}
				a.printPhaseCounts(counts)
				return nil
			}
			summaries, err := idx.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if recent {
				index.SortByUpdated(summaries)
			}

			if a.flags.jsonMode {
				if summaries == nil {
					summaries = []index.Summary{}
				}
				return a.writeJSON(summaries)
			}
			a.printProjects(summaries)
			return nil
		},
	}
	cmd.Flags().StringVar(&phase, "phase", "", "only projects in this phase")
	cmd.Flags().BoolVar(&incomplete, "incomplete", false, "only projects whose current phase gate is unmet")
	cmd.Flags().BoolVar(&recent, "recent", false, "order by last update, newest first")
	cmd.Flags().BoolVar(&byPhase, "by-phase", false, "print the number of projects in each phase")
	cmd.MarkFlagsMutuallyExclusive("by-phase", "phase")
	return cmd
}

func (a *app) printProjects(summaries []index.Summary) {
	if len(summaries) == 0 {
		fmt.Fprintln(a.out, "No projects found")
		return
	}
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROJECT\tPHASE\tGATE\tUPDATED\tSTAKEHOLDERS\tINSIGHTS\tIDEAS")
	for _, s := range summaries {
		if s.LoadError != "" {
			fmt.Fprintf(w, "%s\t-\tunreadable\t-\t-\t-\t-\n", s.Name)
			continue
		}
		gate := "open"
		if s.Complete {
			gate = "met"
		}
		if !s.Valid {
			gate = "invalid"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			s.Name, s.Phase, gate, humanize.Time(s.UpdatedAt),
			s.Counts["stakeholders"], s.Counts["insights"], s.Counts["ideas"])
	}
	w.Flush()
	fmt.Fprint(a.out, sb.String())
}

// printPhaseCounts prints one line per phase in workflow order, including
// phases with no projects.
func (a *app) printPhaseCounts(counts map[types.Phase]int) {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PHASE\tPROJECTS")
	for _, p := range types.Phases {
		fmt.Fprintf(w, "%s\t%d\n", p, counts[p])
	}
	w.Flush()
	fmt.Fprint(a.out, sb.String())
}
