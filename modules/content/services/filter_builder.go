package services

import (
	"context"

	"github.com/tanzim-io/tanzim/modules/content/domain/item"
	"github.com/tanzim-io/tanzim/modules/content/domain/target"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/position"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
	hierarchysvc "github.com/tanzim-io/tanzim/modules/hierarchy/services"
	"github.com/tanzim-io/tanzim/pkg/predicate"
)

// VisibilityFilterBuilder turns a viewer's hierarchy position into the
// predicate deciding which targeted content the viewer may read.
type VisibilityFilterBuilder struct {
	deriver *hierarchysvc.HierarchyDeriver
}

func NewVisibilityFilterBuilder(deriver *hierarchysvc.HierarchyDeriver) *VisibilityFilterBuilder {
	return &VisibilityFilterBuilder{deriver: deriver}
}

// BuildVisibilityPredicate matches content whose non-null target ids form a
// prefix of the viewer's ancestor chain in the same tree, the viewer's own
// leaf included: an item targeted at an ancestor of the viewer is visible,
// one targeted at a sibling or a descendant is not. Trees are evaluated
// independently and unioned. ROOT matches everything. A viewer with no
// resolvable position in any of the given trees matches nothing; a null
// target is never a wildcard.
func (b *VisibilityFilterBuilder) BuildVisibilityPredicate(ctx context.Context, viewer position.ActorPosition, trees []tree.TreeKind) (predicate.Expr, error) {
	if viewer.IsRoot() {
		return predicate.MatchAll(), nil
	}

	perTree := make([]predicate.Expr, 0, len(trees))
	for _, kind := range trees {
		leafID := viewer.LeafID(kind)
		if leafID == nil {
			continue
		}

		chain, err := b.deriver.Derive(ctx, kind, *leafID)
		if err != nil {
			return predicate.MatchNone(), err
		}

		// Every target column must be null or equal to the viewer's chain
		// id at that level, and at least one must actually equal; otherwise
		// shared top-level ancestors would leak sibling-targeted content.
		consistent := make([]predicate.Expr, 0, len(target.Levels(kind)))
		matchesAny := make([]predicate.Expr, 0, len(chain))
		for _, level := range target.Levels(kind) {
			column := target.Column(kind, level)
			if id, ok := chain.IDAtLevel(level); ok {
				consistent = append(consistent, predicate.Or(
					predicate.Eq(column, id),
					predicate.IsNull(column),
				))
				matchesAny = append(matchesAny, predicate.Eq(column, id))
			} else {
				// Levels below the viewer's leaf: a set target means the
				// item is aimed at a descendant.
				consistent = append(consistent, predicate.IsNull(column))
			}
		}
		perTree = append(perTree, predicate.And(
			predicate.And(consistent...),
			predicate.Or(matchesAny...),
		))
	}

	return predicate.Or(perTree...), nil
}

// ApprovalOverlay narrows a visibility expression for reviewable content:
// unapproved items stay visible to their creator only. ROOT sees everything.
func (b *VisibilityFilterBuilder) ApprovalOverlay(visible predicate.Expr, viewer position.ActorPosition, kind item.Kind) predicate.Expr {
	if !kind.Reviewable() || viewer.IsRoot() {
		return visible
	}
	return predicate.And(
		visible,
		predicate.Or(
			predicate.Eq(target.ColumnApproved, true),
			predicate.Eq(target.ColumnCreator, viewer.UserID),
		),
	)
}
