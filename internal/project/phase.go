package project

import (
	"context"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// UpdatePhase moves the project to phase. Any of the five phases is accepted:
// moving backwards or skipping phases is allowed, since completion gates
// are advisory.
func (s *Service) UpdatePhase(ctx context.Context, phase string) (*types.PhaseResult, error) {
	if _, err := types.ParsePhase(phase); err != nil {
		return nil, err
	}
	if err := s.checkEnums("", map[string]*string{"phase": &phase}); err != nil {
		return nil, err
	}

	var old types.Phase
	doc, err := s.mutate(ctx, "update_phase", func(doc *types.Document) error {
		old = doc.Phase
		doc.Phase = types.Phase(phase)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("phase updated", "from", old, "to", doc.Phase)
	return &types.PhaseResult{
		OldPhase:  old,
		NewPhase:  doc.Phase,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}
