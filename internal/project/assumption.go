package project

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// GradeAssumption updates the grades, validation plan or status of an
// existing assumption. Returns ErrNotFound if no assumption has id.
func (s *Service) GradeAssumption(ctx context.Context, id string, patch types.AssumptionPatch) (*types.AssumptionResult, error) {
	if err := requireID("assumption", id); err != nil {
		return nil, err
	}
	if err := s.checkEnums("assumptions", map[string]*string{
		"certainty": patch.Certainty,
		"risk":      patch.Risk,
		"status":    patch.Status,
	}); err != nil {
		return nil, err
	}

	doc, err := s.mutate(ctx, "grade_assumption", func(doc *types.Document) error {
		idx := doc.AssumptionIndex(id)
		if idx < 0 {
			return fmt.Errorf("assumption %q: %w", id, types.ErrNotFound)
		}
		a := &doc.Assumptions[idx]
		if patch.Certainty != nil {
			a.Certainty = types.GradePtr(types.Grade(*patch.Certainty))
		}
		if patch.Risk != nil {
			a.Risk = types.GradePtr(types.Grade(*patch.Risk))
		}
		if patch.ValidationPlan != nil {
			a.ValidationPlan = *patch.ValidationPlan
		}
		if patch.Status != nil {
			a.Status = *patch.Status
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &types.AssumptionResult{
		AssumptionID: id,
		Assumption:   doc.Assumptions[doc.AssumptionIndex(id)],
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}
