package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/position"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
)

// HierarchyStore is the persistence surface the engine reads and writes
// hierarchy nodes through. Implementations return tree.ErrNotFound for
// missing ids; an inactive node is still returned by GetNode so callers can
// distinguish soft-deleted nodes where that matters.
type HierarchyStore interface {
	GetNode(ctx context.Context, id uuid.UUID) (tree.Node, error)
	CreateNode(ctx context.Context, node tree.Node) error
	UpdateNode(ctx context.Context, node tree.Node) error
	DeleteNode(ctx context.Context, id uuid.UUID) error

	CountChildren(ctx context.Context, id uuid.UUID) (int, error)
	CountAssignedMembers(ctx context.Context, id uuid.UUID) (int, error)

	// SectorMirrors returns the SECTOR children mirroring the given ORIGINAL
	// node, keyed by sector type. A fully linked original node has exactly
	// four entries.
	SectorMirrors(ctx context.Context, originalID uuid.UUID) (map[tree.SectorType]tree.Node, error)

	// ListUnlinkedSectorNodes returns non-root sector nodes whose
	// parent-sector link is still nil and need manual reconciliation.
	ListUnlinkedSectorNodes(ctx context.Context) ([]tree.Node, error)
}

// PositionStore persists member positions with their denormalized ancestor
// columns. Ancestors are always written from a freshly derived chain.
type PositionStore interface {
	SavePosition(ctx context.Context, pos StoredPosition) error
	GetPosition(ctx context.Context, userID uuid.UUID) (StoredPosition, error)
}

// StoredPosition is a member's leaf assignments plus the derived ancestor
// chain per tree. The chains are denormalized storage, never caller input.
type StoredPosition struct {
	UserID          uuid.UUID
	AdminLevel      string
	ActiveHierarchy tree.TreeKind
	Original        tree.AncestorChain
	Expatriate      tree.AncestorChain
	Sector          tree.AncestorChain
}

// ToActor projects the stored position onto the actor shape permission
// checks consume. Only leaf ids cross over; scopes re-derive chains from
// the store on every check.
func (p StoredPosition) ToActor() position.ActorPosition {
	actor := position.ActorPosition{
		UserID:          p.UserID,
		AdminLevel:      position.AdminLevel(p.AdminLevel),
		ActiveHierarchy: p.ActiveHierarchy,
	}
	if leaf, ok := p.Original.Leaf(); ok {
		id := leaf.NodeID
		actor.OriginalLeafID = &id
	}
	if leaf, ok := p.Expatriate.Leaf(); ok {
		id := leaf.NodeID
		actor.ExpatriateRegionID = &id
	}
	if leaf, ok := p.Sector.Leaf(); ok {
		id := leaf.NodeID
		actor.SectorLeafID = &id
	}
	return actor
}
