package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// printer renders human-readable output. Color is dropped automatically
// when stdout is not a terminal or NO_COLOR is set.
type printer struct {
	out    io.Writer
	errOut io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
	bold   *color.Color
}

func newPrinter(out, errOut io.Writer) *printer {
	return &printer{
		out:    out,
		errOut: errOut,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed, color.Bold),
		cyan:   color.New(color.FgCyan),
		bold:   color.New(color.Bold),
	}
}

// Success prints a green line with a checkmark prefix.
func (p *printer) Success(format string, a ...any) {
	p.green.Fprintf(p.out, "✓ %s\n", fmt.Sprintf(format, a...))
}

// Field prints an indented label and value, skipping empty values.
func (p *printer) Field(label string, value any) {
	s := fmt.Sprint(value)
	if s == "" || s == "[]" {
		return
	}
	fmt.Fprintf(p.out, "  %s %s\n", p.cyan.Sprintf("%s:", label), s)
}

// Error prints a red error line to stderr.
func (p *printer) Error(msg string) {
	p.red.Fprintf(p.errOut, "Error: %s\n", msg)
}

// Result prints the payload of a successful tool call.
func (p *printer) Result(data any) {
	switch d := data.(type) {
	case *types.StakeholderResult:
		verb := "updated"
		if d.Created {
			verb = "created"
		}
		p.Success("Stakeholder %s %s", d.StakeholderID, verb)
		p.Field("Name", d.Stakeholder.Name)
		p.Field("Type", d.Stakeholder.Type)
		p.Field("Role", d.Stakeholder.Role)
		p.Field("Needs", strings.Join(d.Stakeholder.Needs, "; "))
		p.Field("Pain points", strings.Join(d.Stakeholder.PainPoints, "; "))
		p.Field("Notes", strings.Join(d.Stakeholder.NotesLinks, ", "))
		p.Field("Updated", d.UpdatedAt)
	case *types.AssumptionResult:
		p.Success("Assumption %s updated", d.AssumptionID)
		p.Field("Certainty", gradeString(d.Assumption.Certainty))
		p.Field("Risk", gradeString(d.Assumption.Risk))
		p.Field("Validation plan", d.Assumption.ValidationPlan)
		p.Field("Status", d.Assumption.Status)
		p.Field("Updated", d.UpdatedAt)
	case *types.IdeaResult:
		p.Success("Idea %s updated", d.IdeaID)
		p.Field("Title", d.Idea.Title)
		p.Field("Status", d.Idea.Status)
		p.Field("Impact", d.Idea.Impact)
		p.Field("Feasibility", d.Idea.Feasibility)
		p.Field("Prototypes", strings.Join(d.Idea.PrototypeLinks, ", "))
		p.Field("Updated", d.UpdatedAt)
	case *types.InsightResult:
		p.Success("Insight %s added", d.InsightID)
		p.Field("Title", d.Insight.Title)
		p.Field("Confidence", d.Insight.Confidence)
		p.Field("Updated", d.UpdatedAt)
	case *types.PlaybackResult:
		p.Success("Playback %s recorded", d.PlaybackID)
		p.Field("Date", d.Playback.Date)
		p.Field("Audience", strings.Join(d.Playback.Audience, ", "))
		p.Field("Phase", d.Playback.Phase)
		p.Field("Updated", d.UpdatedAt)
	case *types.PhaseResult:
		p.Success("Phase updated: %s → %s", d.OldPhase, d.NewPhase)
		p.Field("Updated", d.UpdatedAt)
	case types.Evaluation:
		p.Evaluation(d)
	case types.ValidationReport:
		p.Report(d)
	default:
		fmt.Fprintf(p.out, "%v\n", d)
	}
}

// Evaluation prints a phase completion check.
func (p *printer) Evaluation(e types.Evaluation) {
	fmt.Fprintf(p.out, "Project: %s\n", e.Project)
	fmt.Fprintf(p.out, "Phase: %s\n", e.Phase)
	if e.Complete {
		fmt.Fprintf(p.out, "Complete: %s\n", p.green.Sprint("✓"))
		fmt.Fprintln(p.out)
		p.Success("Phase completion criteria met")
		fmt.Fprintln(p.out, "  Ready for playback presentation")
		return
	}
	fmt.Fprintf(p.out, "Complete: %s\n", p.red.Sprint("✗"))
	fmt.Fprintln(p.out)
	p.bold.Fprintln(p.out, "Remaining Requirements:")
	for _, r := range e.Reasons {
		fmt.Fprintf(p.out, "  %s %s\n", p.yellow.Sprint("•"), r)
	}
}

// Report prints a validation report.
func (p *printer) Report(r types.ValidationReport) {
	fmt.Fprintf(p.out, "Project: %s\n", r.Project)
	fmt.Fprintf(p.out, "Phase: %s\n", r.Phase)
	if r.Valid {
		fmt.Fprintf(p.out, "Valid: %s\n", p.green.Sprint("✓"))
	} else {
		fmt.Fprintf(p.out, "Valid: %s\n", p.red.Sprint("✗"))
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(p.out)
		p.bold.Fprintln(p.out, "Structure Errors:")
		for _, e := range r.Errors {
			fmt.Fprintf(p.out, "  %s %s\n", p.red.Sprint("✗"), e)
		}
	}
	if len(r.Gaps) > 0 {
		fmt.Fprintln(p.out)
		p.bold.Fprintln(p.out, "Gaps Identified:")
		for _, g := range r.Gaps {
			fmt.Fprintf(p.out, "  %s %s\n", p.yellow.Sprint("•"), g)
		}
	}
	if len(r.Errors) == 0 && len(r.Gaps) == 0 {
		fmt.Fprintln(p.out)
		p.Success("State is valid with no gaps")
	}
}

func gradeString(g *types.Grade) string {
	if g == nil {
		return ""
	}
	return string(*g)
}
