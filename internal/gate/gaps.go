package gate

import (
	"fmt"

	"github.com/mesh-intelligence/waypoint/internal/schema"
	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// Gaps lists the work still missing for the document's current phase and
// every phase before it. Unlike Evaluate it is cumulative: define-level
// checks keep applying once a project has moved on to ideate.
func Gaps(doc *types.Document) []string {
	gaps := []string{}
	if doc == nil {
		return gaps
	}
	phase := doc.Phase
	if !phase.Valid() {
		phase = types.PhaseEmpathize
	}

	if len(doc.Stakeholders) == 0 {
		gaps = append(gaps, "No stakeholders defined")
	}
	for i, sh := range doc.Stakeholders {
		name := sh.Name
		if name == "" {
			name = fmt.Sprint(i)
		}
		if len(sh.Needs) == 0 && len(sh.PainPoints) == 0 {
			gaps = append(gaps, fmt.Sprintf("Stakeholder '%s' has no needs or pain points", name))
		}
		if len(sh.NotesLinks) == 0 {
			gaps = append(gaps, fmt.Sprintf("Stakeholder '%s' has no research notes linked", name))
		}
	}

	if phase.AtLeast(types.PhaseDefine) {
		if len(doc.Insights) == 0 {
			gaps = append(gaps, "No insights synthesized from research")
		}
		if len(doc.Assumptions) == 0 {
			gaps = append(gaps, "No assumptions identified")
		} else {
			var ungraded int
			for _, a := range doc.Assumptions {
				if !a.Graded() {
					ungraded++
				}
			}
			if ungraded > 0 {
				gaps = append(gaps, fmt.Sprintf("%d assumptions not graded for certainty/risk", ungraded))
			}
		}
	}

	if phase.AtLeast(types.PhaseIdeate) {
		if len(doc.Ideas) == 0 {
			gaps = append(gaps, "No solution ideas generated")
		} else {
			var ungraded int
			for _, idea := range doc.Ideas {
				if !idea.Graded() {
					ungraded++
				}
			}
			if ungraded > 0 {
				gaps = append(gaps, fmt.Sprintf("%d ideas not graded for impact/feasibility", ungraded))
			}
		}
	}

	if phase.AtLeast(types.PhasePrototype) && !hasIdeaWithStatus(doc, types.IdeaPrototyping, types.IdeaIterating) {
		gaps = append(gaps, "No ideas in prototyping or iterating status")
	}

	if !hasPlayback(doc, phase) {
		gaps = append(gaps, fmt.Sprintf("No playback recorded for %s-complete gate", phase))
	}
	return gaps
}

func hasPlayback(doc *types.Document, phase types.Phase) bool {
	for _, pb := range doc.Playbacks {
		if pb.Phase == phase {
			return true
		}
	}
	return false
}

// Report validates doc against s and adds the cumulative gaps. A nil
// schema selects the default one.
func Report(s *schema.Schema, doc *types.Document) types.ValidationReport {
	if s == nil {
		s = schema.Default()
	}
	valid, violations := s.Validate(doc)
	report := types.ValidationReport{
		Valid:  valid,
		Errors: violations,
		Gaps:   Gaps(doc),
	}
	if doc != nil {
		report.Phase = doc.Phase
		report.Project = doc.ProjectName
	}
	return report
}
