package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// AddInsight appends a new insight. Returns ErrAlreadyExists if the id is
// taken. An empty id is replaced with a generated UUID v7.
func (s *Service) AddInsight(ctx context.Context, in types.NewInsight) (*types.InsightResult, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("insight title and description are required: %w", types.ErrInvalidValue)
	}
	if err := s.checkEnums("insights", map[string]*string{"confidence": in.Confidence}); err != nil {
		return nil, err
	}
	id := in.ID
	if id == "" {
		generated, err := s.newID()
		if err != nil {
			return nil, fmt.Errorf("generating insight id: %w", err)
		}
		id = generated
	}

	insight := types.Insight{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Sources:     in.Sources,
	}
	if in.Confidence != nil {
		insight.Confidence = types.Grade(*in.Confidence)
	}
	if in.Implications != nil {
		insight.Implications = *in.Implications
	}

	doc, err := s.mutate(ctx, "add_insight", func(doc *types.Document) error {
		if doc.InsightIndex(id) >= 0 {
			return fmt.Errorf("insight %q: %w", id, types.ErrAlreadyExists)
		}
		doc.Insights = append(doc.Insights, insight)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &types.InsightResult{
		InsightID: id,
		Insight:   doc.Insights[doc.InsightIndex(id)],
		UpdatedAt: doc.UpdatedAt,
	}, nil
}
