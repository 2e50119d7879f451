package types

import "fmt"

// Phase is a stage of the discovery workflow.
type Phase string

// Phases in workflow order.
const (
	PhaseEmpathize Phase = "empathize"
	PhaseDefine    Phase = "define"
	PhaseIdeate    Phase = "ideate"
	PhasePrototype Phase = "prototype"
	PhaseIterate   Phase = "iterate"
)

// Phases lists every phase in workflow order.
var Phases = []Phase{
	PhaseEmpathize,
	PhaseDefine,
	PhaseIdeate,
	PhasePrototype,
	PhaseIterate,
}

// Valid reports whether p is one of the five declared phases.
func (p Phase) Valid() bool {
	return p.Index() >= 0
}

// Index returns the position of p in workflow order, or -1.
func (p Phase) Index() int {
	for i, ph := range Phases {
		if ph == p {
			return i
		}
	}
	return -1
}

// AtLeast reports whether p is at or beyond other in workflow order.
func (p Phase) AtLeast(other Phase) bool {
	return p.Valid() && p.Index() >= other.Index()
}

// ParsePhase converts s to a Phase. Returns ErrInvalidValue if s is not a
// declared phase.
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if !p.Valid() {
		return "", fmt.Errorf("phase %q (must be one of %v): %w", s, Phases, ErrInvalidValue)
	}
	return p, nil
}

// Grade is a high/medium/low rating for certainty, risk, impact,
// feasibility or confidence.
type Grade string

// Grade values.
const (
	GradeHigh   Grade = "high"
	GradeMedium Grade = "medium"
	GradeLow    Grade = "low"
)

// Stakeholder types.
const (
	StakeholderGroup      = "group"
	StakeholderIndividual = "individual"
)

// Assumption statuses.
const (
	AssumptionOpen        = "open"
	AssumptionValidating  = "validating"
	AssumptionValidated   = "validated"
	AssumptionInvalidated = "invalidated"
)

// Idea statuses.
const (
	IdeaIdeated     = "ideated"
	IdeaPrototyping = "prototyping"
	IdeaIterating   = "iterating"
	IdeaValidated   = "validated"
	IdeaInvalidated = "invalidated"
	IdeaImplemented = "implemented"
)

// GradePtr returns a pointer to g, for nullable grade fields.
func GradePtr(g Grade) *Grade {
	return &g
}
