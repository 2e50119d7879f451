package project

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// RecordPlayback appends a playback session. The date must be YYYY-MM-DD
// and at least one audience member is required. Returns ErrAlreadyExists
// if the id is taken; an empty id is replaced with a generated UUID v7.
func (s *Service) RecordPlayback(ctx context.Context, in types.NewPlayback) (*types.PlaybackResult, error) {
	if _, err := time.Parse(types.PlaybackDateLayout, in.Date); err != nil {
		return nil, fmt.Errorf("invalid date %q (must be YYYY-MM-DD): %w", in.Date, types.ErrInvalidValue)
	}
	if len(in.Audience) == 0 {
		return nil, fmt.Errorf("playback audience is required: %w", types.ErrInvalidValue)
	}
	if in.Phase != nil && *in.Phase != "" {
		if _, err := types.ParsePhase(*in.Phase); err != nil {
			return nil, err
		}
	}
	if err := s.checkEnums("playbacks", map[string]*string{"phase": in.Phase}); err != nil {
		return nil, err
	}
	id := in.ID
	if id == "" {
		generated, err := s.newID()
		if err != nil {
			return nil, fmt.Errorf("generating playback id: %w", err)
		}
		id = generated
	}

	playback := types.Playback{
		ID:        id,
		Date:      in.Date,
		Audience:  in.Audience,
		Decisions: in.Decisions,
	}
	if in.Phase != nil {
		playback.Phase = types.Phase(*in.Phase)
	}
	if in.ArtifactsLink != nil {
		playback.ArtifactsLink = *in.ArtifactsLink
	}

	doc, err := s.mutate(ctx, "record_playback", func(doc *types.Document) error {
		if doc.PlaybackIndex(id) >= 0 {
			return fmt.Errorf("playback %q: %w", id, types.ErrAlreadyExists)
		}
		doc.Playbacks = append(doc.Playbacks, playback)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &types.PlaybackResult{
		PlaybackID: id,
		Playback:   doc.Playbacks[doc.PlaybackIndex(id)],
		UpdatedAt:  doc.UpdatedAt,
	}, nil
}
