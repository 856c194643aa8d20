package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/position"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
)

// PermissionGuard answers the three authorization questions the hierarchy
// supports. Decisions are pure booleans: callers translate false into a
// forbidden outcome. The only error surfaced is tree.ErrNotFound for ids
// that do not resolve, which callers answer with not-found uniformly so
// out-of-scope probes cannot distinguish missing from forbidden.
type PermissionGuard struct {
	store   HierarchyStore
	deriver *HierarchyDeriver
}

func NewPermissionGuard(store HierarchyStore, deriver *HierarchyDeriver) *PermissionGuard {
	return &PermissionGuard{store: store, deriver: deriver}
}

// CanCreateUnder reports whether the scope may create a targetLevel node
// under parentID. The parent must sit inside the authority subtree and
// targetLevel must be exactly one level below it. NATIONAL_LEVEL admins may
// only create Regions under their own NationalLevel node.
func (g *PermissionGuard) CanCreateUnder(ctx context.Context, scope Scope, parentID uuid.UUID, targetLevel tree.Level) (bool, error) {
	parent, err := g.store.GetNode(ctx, parentID)
	if err != nil {
		return false, err
	}
	if !parent.Active {
		// A soft-deleted parent may not accept children; treated the same
		// as a missing id so probes cannot tell the two apart.
		return false, tree.ErrNotFound
	}
	if !targetLevel.IsDirectlyBelow(parent.Level) {
		recordDecision("create_under", false)
		return false, nil
	}

	if scope.IsUniversal() {
		recordDecision("create_under", true)
		return true, nil
	}
	if scope.IsEmpty() {
		recordDecision("create_under", false)
		return false, nil
	}

	if scope.AuthorityLevel == tree.LevelNational && targetLevel != tree.LevelRegion {
		recordDecision("create_under", false)
		return false, nil
	}

	inside, err := g.inAuthoritySubtree(ctx, scope, parent)
	if err != nil {
		return false, err
	}
	recordDecision("create_under", inside)
	return inside, nil
}

// CanModify reports whether the scope covers nodeID: the authority root
// itself or any of its descendants.
func (g *PermissionGuard) CanModify(ctx context.Context, scope Scope, nodeID uuid.UUID) (bool, error) {
	node, err := g.store.GetNode(ctx, nodeID)
	if err != nil {
		return false, err
	}

	if scope.IsUniversal() {
		recordDecision("modify", true)
		return true, nil
	}
	if scope.IsEmpty() {
		recordDecision("modify", false)
		return false, nil
	}

	inside, err := g.inAuthoritySubtree(ctx, scope, node)
	if err != nil {
		return false, err
	}
	recordDecision("modify", inside)
	return inside, nil
}

// CanAssignAdmin reports whether the candidate's leaf assignment lies
// inside the scope's authority subtree. A candidate with no assignment in
// the scope's tree is never assignable by a non-ROOT admin, and no admin
// may grant a rank above their own.
func (g *PermissionGuard) CanAssignAdmin(ctx context.Context, scope Scope, candidate position.ActorPosition) (bool, error) {
	if scope.IsUniversal() {
		recordDecision("assign_admin", true)
		return true, nil
	}
	if scope.IsEmpty() {
		recordDecision("assign_admin", false)
		return false, nil
	}

	if ceiling, ok := position.FromTreeLevel(scope.AuthorityLevel); ok && candidate.AdminLevel.Outranks(ceiling) {
		recordDecision("assign_admin", false)
		return false, nil
	}

	leafID := candidate.LeafID(scope.TreeKind)
	if leafID == nil {
		recordDecision("assign_admin", false)
		return false, nil
	}

	leaf, err := g.store.GetNode(ctx, *leafID)
	if err != nil {
		return false, err
	}
	inside, err := g.inAuthoritySubtree(ctx, scope, leaf)
	if err != nil {
		return false, err
	}
	recordDecision("assign_admin", inside)
	return inside, nil
}

// inAuthoritySubtree re-derives the node's chain and tests whether the
// authority root sits on it. Chains are derived per call rather than
// cached so concurrent hierarchy edits are always observed.
func (g *PermissionGuard) inAuthoritySubtree(ctx context.Context, scope Scope, node tree.Node) (bool, error) {
	if node.TreeKind != scope.TreeKind {
		return false, nil
	}
	if node.ID == scope.AuthorityRootID {
		return true, nil
	}
	// A soft-deleted node is still owned by its subtree admin (who may want
	// to restore it), so the membership test runs from its parent instead.
	from := node.ID
	if !node.Active {
		if node.ParentID == nil {
			return false, nil
		}
		from = *node.ParentID
	}
	chain, err := g.deriver.Derive(ctx, node.TreeKind, from)
	if err != nil {
		return false, err
	}
	return chain.Contains(scope.AuthorityRootID), nil
}
