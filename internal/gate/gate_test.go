package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

func insights(n int) []types.Insight {
	out := make([]types.Insight, n)
	for i := range out {
		out[i] = types.Insight{ID: string(rune('a' + i)), Title: "t", Description: "d"}
	}
	return out
}

func assumption(id string, certainty, risk types.Grade) types.Assumption {
	return types.Assumption{
		ID:          id,
		Description: "d",
		Certainty:   types.GradePtr(certainty),
		Risk:        types.GradePtr(risk),
	}
}

func defineDoc() *types.Document {
	doc := types.NewDocument("Onboarding", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	doc.Phase = types.PhaseDefine
	doc.Insights = insights(3)
	doc.Assumptions = []types.Assumption{
		assumption("a1", types.GradeMedium, types.GradeMedium),
		assumption("a2", types.GradeMedium, types.GradeMedium),
	}
	return doc
}

func TestEvaluateDefineScenario(t *testing.T) {
	doc := defineDoc()

	eval := Evaluate(doc, types.PhaseDefine)
	assert.True(t, eval.Complete)
	assert.Empty(t, eval.Reasons)
	assert.NotNil(t, eval.Reasons)
	assert.Equal(t, "Onboarding", eval.Project)

	doc.Assumptions[1] = assumption("a2", types.GradeLow, types.GradeHigh)
	eval = Evaluate(doc, types.PhaseDefine)
	assert.False(t, eval.Complete)
	require.Len(t, eval.Reasons, 1)
	assert.Contains(t, eval.Reasons[0], "validation plan")

	doc.Assumptions[1].ValidationPlan = "interview five managers"
	eval = Evaluate(doc, types.PhaseDefine)
	assert.True(t, eval.Complete)
}

func TestEvaluateDoesNotMutate(t *testing.T) {
	doc := defineDoc()
	before, err := doc.Clone()
	require.NoError(t, err)
	for _, phase := range types.Phases {
		Evaluate(doc, phase)
	}
	assert.Equal(t, before, doc)
}

func TestEvaluateEmpathize(t *testing.T) {
	doc := types.NewDocument("p", time.Now())
	doc.Stakeholders = []types.Stakeholder{
		{ID: "s1", Name: "Customers", Type: types.StakeholderGroup, NotesLinks: []string{"n.md"}, Needs: []string{"speed"}},
		{ID: "s2", Name: "Support", Type: types.StakeholderGroup},
	}
	doc.Insights = insights(1)

	eval := Evaluate(doc, types.PhaseEmpathize)
	assert.False(t, eval.Complete)
	assert.Equal(t, []string{
		"Stakeholder 'Support' needs research notes",
		"Stakeholder 'Support' needs documented needs or pain points",
		"Need at least 3 synthesized insights (have 1)",
	}, eval.Reasons)

	doc.Stakeholders[1].NotesLinks = []string{"s.md"}
	doc.Stakeholders[1].PainPoints = []string{"tickets"}
	doc.Insights = insights(3)
	assert.True(t, Evaluate(doc, types.PhaseEmpathize).Complete)
}

func TestEvaluateReportsEveryRule(t *testing.T) {
	tests := []struct {
		phase   types.Phase
		reasons []string
	}{
		{types.PhaseEmpathize, []string{
			"Need at least 2 stakeholder groups defined",
			"Need at least 3 synthesized insights (have 0)",
		}},
		{types.PhaseDefine, []string{
			"Need at least 3 validated insights (have 0)",
			"No assumptions identified",
		}},
		{types.PhaseIdeate, []string{
			"Need at least 3 solution ideas (have 0)",
			"Need at least 2 ideas with medium/high impact",
		}},
		{types.PhasePrototype, []string{"At least one idea must have a prototype"}},
		{types.PhaseIterate, []string{"At least one idea must be validated through iteration"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			eval := Evaluate(nil, tt.phase)
			assert.False(t, eval.Complete)
			assert.Equal(t, tt.reasons, eval.Reasons)
		})
	}
}

func TestEvaluateIdeate(t *testing.T) {
	doc := types.NewDocument("p", time.Now())
	doc.Ideas = []types.Idea{
		{ID: "i1", Title: "a", Status: types.IdeaIdeated, Impact: types.GradeHigh, Feasibility: types.GradeLow},
		{ID: "i2", Title: "b", Status: types.IdeaIdeated, Impact: types.GradeLow},
		{ID: "i3", Title: "c", Status: types.IdeaIdeated},
	}
	eval := Evaluate(doc, types.PhaseIdeate)
	assert.Equal(t, []string{
		"2 ideas need impact/feasibility grades",
		"Need at least 2 ideas with medium/high impact",
	}, eval.Reasons)

	doc.Ideas[1].Impact = types.GradeMedium
	doc.Ideas[1].Feasibility = types.GradeHigh
	doc.Ideas[2].Impact = types.GradeLow
	doc.Ideas[2].Feasibility = types.GradeLow
	assert.True(t, Evaluate(doc, types.PhaseIdeate).Complete)
}

func TestEvaluateDefineUngraded(t *testing.T) {
	doc := defineDoc()
	doc.Assumptions = append(doc.Assumptions, types.Assumption{ID: "a3", Description: "d"})
	eval := Evaluate(doc, types.PhaseDefine)
	assert.Equal(t, []string{"1 assumptions need certainty/risk grades"}, eval.Reasons)
}

func TestEvaluatePrototypeAndIterate(t *testing.T) {
	doc := types.NewDocument("p", time.Now())
	doc.Ideas = []types.Idea{{ID: "i1", Title: "a", Status: types.IdeaPrototyping}}
	assert.True(t, Evaluate(doc, types.PhasePrototype).Complete)
	assert.False(t, Evaluate(doc, types.PhaseIterate).Complete)

	doc.Ideas[0].Status = types.IdeaImplemented
	assert.False(t, Evaluate(doc, types.PhasePrototype).Complete)
	assert.True(t, Evaluate(doc, types.PhaseIterate).Complete)
}

func TestEvaluateUnknownPhase(t *testing.T) {
	eval := Evaluate(defineDoc(), "launch")
	assert.False(t, eval.Complete)
	assert.Equal(t, []string{"Invalid phase: launch"}, eval.Reasons)
}

func TestEvaluateCurrent(t *testing.T) {
	eval := EvaluateCurrent(defineDoc())
	assert.Equal(t, types.PhaseDefine, eval.Phase)
	assert.True(t, eval.Complete)

	assert.False(t, EvaluateCurrent(nil).Complete)
}
