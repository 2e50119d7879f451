package project

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// UpdateStakeholder updates the stakeholder with id, creating it when it
// does not exist. Creation requires Name and Type; without them the call
// fails with ErrInvalidValue.
func (s *Service) UpdateStakeholder(ctx context.Context, id string, patch types.StakeholderPatch) (*types.StakeholderResult, error) {
	if err := requireID("stakeholder", id); err != nil {
		return nil, err
	}
	if err := s.checkEnums("stakeholders", map[string]*string{"type": patch.Type}); err != nil {
		return nil, err
	}

	var created bool
	doc, err := s.mutate(ctx, "update_stakeholder", func(doc *types.Document) error {
		idx := doc.StakeholderIndex(id)
		if idx < 0 {
			if patch.Name == nil || *patch.Name == "" || patch.Type == nil || *patch.Type == "" {
				return fmt.Errorf("stakeholder %q: name and type are required for new stakeholders: %w",
					id, types.ErrInvalidValue)
			}
			doc.Stakeholders = append(doc.Stakeholders, types.Stakeholder{ID: id})
			idx = len(doc.Stakeholders) - 1
			created = true
		}

		sh := &doc.Stakeholders[idx]
		if patch.Name != nil {
			sh.Name = *patch.Name
		}
		if patch.Type != nil {
			sh.Type = *patch.Type
		}
		if patch.Role != nil {
			sh.Role = *patch.Role
		}
		sh.Needs = patch.Needs.Apply(sh.Needs)
		sh.PainPoints = patch.PainPoints.Apply(sh.PainPoints)
		sh.NotesLinks = patch.NotesLinks.Apply(sh.NotesLinks)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stakeholder saved", "id", id, "created", created)
	return &types.StakeholderResult{
		StakeholderID: id,
		Stakeholder:   doc.Stakeholders[doc.StakeholderIndex(id)],
		Created:       created,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}
