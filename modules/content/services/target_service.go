package services

import (
	"context"

	"github.com/tanzim-io/tanzim/modules/content/domain/target"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/position"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
	hierarchysvc "github.com/tanzim-io/tanzim/modules/hierarchy/services"
)

// TargetService validates and normalizes content target specs against the
// live hierarchy.
type TargetService struct {
	deriver *hierarchysvc.HierarchyDeriver
}

func NewTargetService(deriver *hierarchysvc.HierarchyDeriver) *TargetService {
	return &TargetService{deriver: deriver}
}

// Validate checks a spec against the derived ancestor chains. For every
// targeted tree the lowest set target is treated as the leaf; each level
// above it must be set to exactly the derived ancestor id. A lower-level
// target with a missing or foreign ancestor target is ErrInconsistentTarget.
func (s *TargetService) Validate(ctx context.Context, spec *target.Spec) error {
	if spec.IsEmpty() {
		return target.ErrEmptyTarget
	}

	for _, kind := range spec.TargetedKinds() {
		leafLevel, leafID, _ := spec.Leaf(kind)

		chain, err := s.deriver.Derive(ctx, kind, leafID)
		if err != nil {
			return err
		}

		for _, level := range target.Levels(kind) {
			want, inChain := chain.IDAtLevel(level)
			got := spec.IDAt(kind, level)

			if level == leafLevel {
				break
			}
			if !inChain {
				continue
			}
			if got == nil || *got != want {
				return target.ErrInconsistentTarget
			}
		}
	}
	return nil
}

// FillFromPosition builds a spec targeting the creating actor's own node in
// its governing tree, ancestors included.
func (s *TargetService) FillFromPosition(ctx context.Context, actor position.ActorPosition) (*target.Spec, error) {
	leafID := actor.ActiveLeafID()
	if leafID == nil {
		return nil, tree.ErrNotFound
	}

	chain, err := s.deriver.Derive(ctx, actor.ActiveHierarchy, *leafID)
	if err != nil {
		return nil, err
	}

	spec := &target.Spec{}
	for _, entry := range chain {
		id := entry.NodeID
		spec.SetIDAt(actor.ActiveHierarchy, entry.Level, &id)
	}
	return spec, nil
}
