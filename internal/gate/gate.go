// Package gate decides whether a phase's exit criteria hold for a state
// document. Evaluation is pure: it never mutates the document and never
// touches storage. Every rule of a phase runs, so callers get the full
// list of unmet criteria in one pass.
package gate

import (
	"fmt"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// Thresholds used by the phase rules.
const (
	MinStakeholders   = 2
	MinInsights       = 3
	MinIdeas          = 3
	MinPromisingIdeas = 2
)

// rule inspects a document and returns the reasons it is unmet, if any.
type rule func(doc *types.Document) []string

var phaseRules = map[types.Phase][]rule{
	types.PhaseEmpathize: {
		stakeholderCount,
		stakeholderResearch,
		insightCount("Need at least %d synthesized insights (have %d)"),
	},
	types.PhaseDefine: {
		insightCount("Need at least %d validated insights (have %d)"),
		assumptionsPresent,
		assumptionsGraded,
		validationPlans,
	},
	types.PhaseIdeate: {
		ideaCount,
		ideasGraded,
		promisingIdeas,
	},
	types.PhasePrototype: {
		ideaWithStatus("At least one idea must have a prototype", types.IdeaPrototyping),
	},
	types.PhaseIterate: {
		ideaWithStatus("At least one idea must be validated through iteration",
			types.IdeaValidated, types.IdeaImplemented),
	},
}

// Evaluate checks the completion criteria of phase against doc. A nil
// document is treated as empty. An unknown phase is reported as
// incomplete with a single reason naming it.
//
// Every rule of the phase runs, even when an earlier one already failed.
// With no ideas the ideate gate therefore reports both the idea count and
// the missing medium/high impact ideas.
func Evaluate(doc *types.Document, phase types.Phase) types.Evaluation {
	if doc == nil {
		doc = &types.Document{}
	}
	eval := types.Evaluation{
		Phase:   phase,
		Project: doc.ProjectName,
		Reasons: []string{},
	}

	rules, ok := phaseRules[phase]
	if !ok {
		eval.Reasons = append(eval.Reasons, fmt.Sprintf("Invalid phase: %s", phase))
		return eval
	}
	for _, r := range rules {
		eval.Reasons = append(eval.Reasons, r(doc)...)
	}
	eval.Complete = len(eval.Reasons) == 0
	return eval
}

// EvaluateCurrent checks the criteria of the document's own phase.
func EvaluateCurrent(doc *types.Document) types.Evaluation {
	if doc == nil {
		return Evaluate(nil, "")
	}
	return Evaluate(doc, doc.Phase)
}

func stakeholderCount(doc *types.Document) []string {
	if len(doc.Stakeholders) < MinStakeholders {
		return []string{fmt.Sprintf("Need at least %d stakeholder groups defined", MinStakeholders)}
	}
	return nil
}

func stakeholderResearch(doc *types.Document) []string {
	var reasons []string
	for _, sh := range doc.Stakeholders {
		if len(sh.NotesLinks) == 0 {
			reasons = append(reasons, fmt.Sprintf("Stakeholder '%s' needs research notes", sh.Name))
		}
		if len(sh.Needs) == 0 && len(sh.PainPoints) == 0 {
			reasons = append(reasons, fmt.Sprintf("Stakeholder '%s' needs documented needs or pain points", sh.Name))
		}
	}
	return reasons
}

func insightCount(format string) rule {
	return func(doc *types.Document) []string {
		if n := len(doc.Insights); n < MinInsights {
			return []string{fmt.Sprintf(format, MinInsights, n)}
		}
		return nil
	}
}

func assumptionsPresent(doc *types.Document) []string {
	if len(doc.Assumptions) == 0 {
		return []string{"No assumptions identified"}
	}
	return nil
}

func assumptionsGraded(doc *types.Document) []string {
	var ungraded int
	for _, a := range doc.Assumptions {
		if !a.Graded() {
			ungraded++
		}
	}
	if ungraded > 0 {
		return []string{fmt.Sprintf("%d assumptions need certainty/risk grades", ungraded)}
	}
	return nil
}

// validationPlans counts low certainty, high risk assumptions that have
// no plan yet. Assumptions that already carry a plan satisfy the rule.
func validationPlans(doc *types.Document) []string {
	var missing int
	for _, a := range doc.Assumptions {
		if a.NeedsValidationPlan() && a.ValidationPlan == "" {
			missing++
		}
	}
	if missing > 0 {
		return []string{fmt.Sprintf("%d high-risk assumptions need validation plan", missing)}
	}
	return nil
}

func ideaCount(doc *types.Document) []string {
	if n := len(doc.Ideas); n < MinIdeas {
		return []string{fmt.Sprintf("Need at least %d solution ideas (have %d)", MinIdeas, n)}
	}
	return nil
}

func ideasGraded(doc *types.Document) []string {
	var ungraded int
	for _, idea := range doc.Ideas {
		if !idea.Graded() {
			ungraded++
		}
	}
	if ungraded > 0 {
		return []string{fmt.Sprintf("%d ideas need impact/feasibility grades", ungraded)}
	}
	return nil
}

func promisingIdeas(doc *types.Document) []string {
	var n int
	for _, idea := range doc.Ideas {
		if idea.Impact == types.GradeHigh || idea.Impact == types.GradeMedium {
			n++
		}
	}
	if n < MinPromisingIdeas {
		return []string{fmt.Sprintf("Need at least %d ideas with medium/high impact", MinPromisingIdeas)}
	}
	return nil
}

func ideaWithStatus(reason string, statuses ...string) rule {
	return func(doc *types.Document) []string {
		if hasIdeaWithStatus(doc, statuses...) {
			return nil
		}
		return []string{reason}
	}
}

func hasIdeaWithStatus(doc *types.Document, statuses ...string) bool {
	for _, idea := range doc.Ideas {
		for _, s := range statuses {
			if idea.Status == s {
				return true
			}
		}
	}
	return false
}
