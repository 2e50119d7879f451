package project

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// GradeIdea updates the grades, status or links of an existing idea.
// Returns ErrNotFound if no idea has id.
func (s *Service) GradeIdea(ctx context.Context, id string, patch types.IdeaPatch) (*types.IdeaResult, error) {
	if err := requireID("idea", id); err != nil {
		return nil, err
	}
	if err := s.checkEnums("ideas", map[string]*string{
		"impact":      patch.Impact,
		"feasibility": patch.Feasibility,
		"status":      patch.Status,
	}); err != nil {
		return nil, err
	}

	doc, err := s.mutate(ctx, "grade_idea", func(doc *types.Document) error {
		idx := doc.IdeaIndex(id)
		if idx < 0 {
			return fmt.Errorf("idea %q: %w", id, types.ErrNotFound)
		}
		idea := &doc.Ideas[idx]
		if patch.Impact != nil {
			idea.Impact = types.Grade(*patch.Impact)
		}
		if patch.Feasibility != nil {
			idea.Feasibility = types.Grade(*patch.Feasibility)
		}
		if patch.Status != nil {
			idea.Status = *patch.Status
		}
		if patch.IdeaDocLink != nil {
			idea.IdeaDocLink = *patch.IdeaDocLink
		}
		idea.PrototypeLinks = patch.PrototypeLinks.Apply(idea.PrototypeLinks)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &types.IdeaResult{
		IdeaID:    id,
		Idea:      doc.Ideas[doc.IdeaIndex(id)],
		UpdatedAt: doc.UpdatedAt,
	}, nil
}
