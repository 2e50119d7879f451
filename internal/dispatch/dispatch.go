// Package dispatch routes named tool invocations to the project editors
// and the gate evaluator, returning the uniform result envelope. It is
// the programmatic surface used by agents and by `waypoint tool`.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/waypoint/internal/gate"
	"github.com/mesh-intelligence/waypoint/internal/project"
	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// Tool names.
const (
	ToolUpdateStakeholder = "update_stakeholder"
	ToolGradeAssumption   = "grade_assumption"
	ToolGradeIdea         = "grade_idea"
	ToolAddInsight        = "add_insight"
	ToolRecordPlayback    = "record_playback"
	ToolUpdatePhase       = "update_phase"
	ToolCheckCompletion   = "check_completion"
	ToolValidateState     = "validate_state"
)

// OpenFunc resolves a project argument to its editing service.
type OpenFunc func(project string) (*project.Service, error)

type handler func(ctx context.Context, svc *project.Service, p Params) (any, error)

type tool struct {
	description string
	run         handler
}

// Dispatcher maps tool names to operations.
type Dispatcher struct {
	open   OpenFunc
	logger *log.Logger
	tools  map[string]tool
}

// New returns a Dispatcher that opens projects with open. A nil logger
// discards output.
func New(open OpenFunc, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{
		open:   open,
		logger: logger,
		tools: map[string]tool{
			ToolUpdateStakeholder: {"Add or update a stakeholder", updateStakeholder},
			ToolGradeAssumption:   {"Grade or update an assumption", gradeAssumption},
			ToolGradeIdea:         {"Grade or update an idea", gradeIdea},
			ToolAddInsight:        {"Add an insight", addInsight},
			ToolRecordPlayback:    {"Record a playback session", recordPlayback},
			ToolUpdatePhase:       {"Update the project phase", updatePhase},
			ToolCheckCompletion:   {"Check phase completion criteria", checkCompletion},
			ToolValidateState:     {"Validate the state document and list gaps", validateState},
		},
	}
}

// Tools returns the registered tool names, sorted.
func (d *Dispatcher) Tools() []string {
	names := make([]string, 0, len(d.tools))
	for name := range d.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the one-line description of a tool.
func (d *Dispatcher) Describe(name string) (string, bool) {
	t, ok := d.tools[name]
	return t.description, ok
}

// Dispatch runs tool with params. Every outcome, including an unknown
// tool or a missing project, is reported in the envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, params map[string]any) types.Result {
	t, ok := d.tools[name]
	if !ok {
		return types.Failure(fmt.Errorf("unknown tool: %s. Available tools: %s: %w",
			name, strings.Join(d.Tools(), ", "), types.ErrInvalidValue))
	}
	p := normalize(params)

	projectArg, err := p.String("project")
	if err != nil {
		return types.Failure(err)
	}
	if projectArg == "" {
		return types.Failure(fmt.Errorf("parameter project is required: %w", types.ErrInvalidValue))
	}
	svc, err := d.open(projectArg)
	if err != nil {
		return types.Failure(err)
	}

	d.logger.Debug("dispatch", "tool", name, "project", projectArg)
	data, err := t.run(ctx, svc, p)
	if err != nil {
		d.logger.Debug("tool failed", "tool", name, "kind", types.ErrorKind(err), "err", err)
		return types.Failure(err)
	}
	return types.Success(data)
}

func updateStakeholder(ctx context.Context, svc *project.Service, p Params) (any, error) {
	var (
		patch types.StakeholderPatch
		err   error
	)
	id, err := p.String("id")
	if err != nil {
		return nil, err
	}
	if patch.Name, err = p.OptString("name"); err != nil {
		return nil, err
	}
	if patch.Type, err = p.OptString("type"); err != nil {
		return nil, err
	}
	if patch.Role, err = p.OptString("role"); err != nil {
		return nil, err
	}
	if patch.Needs, err = p.ListUpdate("needs", "append_needs"); err != nil {
		return nil, err
	}
	if patch.PainPoints, err = p.ListUpdate("pain_points", "append_pain_points"); err != nil {
		return nil, err
	}
	if patch.NotesLinks, err = p.ListUpdate("notes_links", "append_notes"); err != nil {
		return nil, err
	}
	return svc.UpdateStakeholder(ctx, id, patch)
}

func gradeAssumption(ctx context.Context, svc *project.Service, p Params) (any, error) {
	var (
		patch types.AssumptionPatch
		err   error
	)
	id, err := p.String("id")
	if err != nil {
		return nil, err
	}
	if patch.Certainty, err = p.OptString("certainty"); err != nil {
		return nil, err
	}
	if patch.Risk, err = p.OptString("risk"); err != nil {
		return nil, err
	}
	if patch.ValidationPlan, err = p.OptString("validation_plan"); err != nil {
		return nil, err
	}
	if patch.Status, err = p.OptString("status"); err != nil {
		return nil, err
	}
	return svc.GradeAssumption(ctx, id, patch)
}

func gradeIdea(ctx context.Context, svc *project.Service, p Params) (any, error) {
	var (
		patch types.IdeaPatch
		err   error
	)
	id, err := p.String("id")
	if err != nil {
		return nil, err
	}
	if patch.Impact, err = p.OptString("impact"); err != nil {
		return nil, err
	}
	if patch.Feasibility, err = p.OptString("feasibility"); err != nil {
		return nil, err
	}
	if patch.Status, err = p.OptString("status"); err != nil {
		return nil, err
	}
	if patch.IdeaDocLink, err = p.OptString("idea_doc_link"); err != nil {
		return nil, err
	}
	if patch.PrototypeLinks, err = p.ListUpdate("prototype_links", "append_prototype_links"); err != nil {
		return nil, err
	}
	return svc.GradeIdea(ctx, id, patch)
}

func addInsight(ctx context.Context, svc *project.Service, p Params) (any, error) {
	var (
		in  types.NewInsight
		err error
	)
	if in.ID, err = p.String("id"); err != nil {
		return nil, err
	}
	if in.Title, err = p.String("title"); err != nil {
		return nil, err
	}
	if in.Description, err = p.String("description"); err != nil {
		return nil, err
	}
	if in.Confidence, err = p.OptString("confidence"); err != nil {
		return nil, err
	}
	if in.Sources, _, err = p.List("sources"); err != nil {
		return nil, err
	}
	if in.Implications, err = p.OptString("implications"); err != nil {
		return nil, err
	}
	return svc.AddInsight(ctx, in)
}

func recordPlayback(ctx context.Context, svc *project.Service, p Params) (any, error) {
	var (
		in  types.NewPlayback
		err error
	)
	if in.ID, err = p.String("id"); err != nil {
		return nil, err
	}
	if in.Date, err = p.String("date"); err != nil {
		return nil, err
	}
	if in.Audience, _, err = p.List("audience"); err != nil {
		return nil, err
	}
	if in.Phase, err = p.OptString("phase"); err != nil {
		return nil, err
	}
	if in.ArtifactsLink, err = p.OptString("artifacts_link"); err != nil {
		return nil, err
	}
	if in.Decisions, _, err = p.List("decisions"); err != nil {
		return nil, err
	}
	return svc.RecordPlayback(ctx, in)
}

func updatePhase(ctx context.Context, svc *project.Service, p Params) (any, error) {
	phase, err := p.String("phase")
	if err != nil {
		return nil, err
	}
	return svc.UpdatePhase(ctx, phase)
}

func checkCompletion(ctx context.Context, svc *project.Service, p Params) (any, error) {
	doc, err := svc.Document(ctx)
	if err != nil {
		return nil, err
	}
	phase, err := p.String("phase")
	if err != nil {
		return nil, err
	}
	if phase == "" {
		return gate.EvaluateCurrent(doc), nil
	}
	return gate.Evaluate(doc, types.Phase(phase)), nil
}

func validateState(ctx context.Context, svc *project.Service, _ Params) (any, error) {
	doc, err := svc.Document(ctx)
	if err != nil {
		return nil, err
	}
	return gate.Report(svc.Schema(), doc), nil
}
