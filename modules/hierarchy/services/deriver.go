package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
)

// HierarchyDeriver walks parent links from a leaf to the tree root and
// produces the full ancestor chain. It is a pure read: callers persist the
// result. Every leaf-level write must be followed by a derivation so the
// stored ancestor columns can never drift from the tree.
type HierarchyDeriver struct {
	store HierarchyStore
}

func NewHierarchyDeriver(store HierarchyStore) *HierarchyDeriver {
	return &HierarchyDeriver{store: store}
}

// Derive resolves leafID in the given tree and returns the root-first chain
// of ancestors ending at the leaf itself. A missing or inactive leaf, or a
// leaf belonging to another tree, yields tree.ErrNotFound.
func (d *HierarchyDeriver) Derive(ctx context.Context, kind tree.TreeKind, leafID uuid.UUID) (tree.AncestorChain, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid tree kind: %s", kind)
	}
	if leafID == uuid.Nil {
		return nil, tree.ErrNotFound
	}

	leaf, err := d.store.GetNode(ctx, leafID)
	if err != nil {
		return nil, err
	}
	if !leaf.Active || leaf.TreeKind != kind {
		return nil, tree.ErrNotFound
	}

	chain := tree.AncestorChain{{NodeID: leaf.ID, Level: leaf.Level}}
	current := leaf
	for current.ParentID != nil {
		parent, err := d.store.GetNode(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.TreeKind != kind {
			return nil, fmt.Errorf("node %s: parent %s crosses tree boundary", current.ID, parent.ID)
		}
		if !current.Level.IsDirectlyBelow(parent.Level) {
			return nil, fmt.Errorf("node %s at %s has parent %s at %s", current.ID, current.Level, parent.ID, parent.Level)
		}
		chain = append(chain, tree.ChainEntry{NodeID: parent.ID, Level: parent.Level})
		current = parent
		if len(chain) > len(tree.Levels()) {
			return nil, fmt.Errorf("node %s: ancestor chain exceeds tree depth", leafID)
		}
	}

	// Reverse into root-first order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	recordDerivation(kind)
	return chain, nil
}
