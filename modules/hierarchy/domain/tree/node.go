package tree

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Node is a single entry in one of the administrative trees. ParentID is nil
// only at NationalLevel. SectorType and ParentSectorID are set only for
// SECTOR-tree nodes; ParentSectorID may be nil when link resolution failed
// and the node awaits reconciliation.
type Node struct {
	ID             uuid.UUID
	TreeKind       TreeKind
	Level          Level
	Name           string
	Code           string
	Active         bool
	ParentID       *uuid.UUID
	SectorType     SectorType
	ParentSectorID *uuid.UUID
	// MirrorOfID points a SECTOR node at the ORIGINAL node it mirrors.
	// Parent-sector links are resolved through this id, never by name.
	MirrorOfID *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate enforces the structural invariants that hold for every persisted
// node regardless of tree kind.
func (n Node) Validate() error {
	if n.ID == uuid.Nil {
		return fmt.Errorf("node id is required")
	}
	if !n.TreeKind.IsValid() {
		return fmt.Errorf("invalid tree kind: %s", n.TreeKind)
	}
	if !n.Level.IsValid() {
		return fmt.Errorf("invalid level: %s", n.Level)
	}
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("node name is required")
	}
	if n.Level == n.TreeKind.RootLevel() {
		if n.ParentID != nil {
			return fmt.Errorf("%s node is the root of the %s tree and must not have a parent", n.Level, n.TreeKind)
		}
	} else if n.ParentID == nil {
		return fmt.Errorf("%s node requires a parent", n.Level)
	}
	if n.Level.Depth() < n.TreeKind.RootLevel().Depth() {
		return fmt.Errorf("level %s does not exist in the %s tree", n.Level, n.TreeKind)
	}
	if n.TreeKind == KindSector {
		if !n.SectorType.IsValid() {
			return fmt.Errorf("sector node requires a sector type")
		}
	} else {
		if n.SectorType != "" {
			return fmt.Errorf("sector type is only valid on sector nodes")
		}
		if n.MirrorOfID != nil {
			return fmt.Errorf("mirror link is only valid on sector nodes")
		}
	}
	if n.TreeKind == KindExpatriate && n.Level != LevelRegion {
		return fmt.Errorf("expatriate tree has a single region level")
	}
	return nil
}

// IsRoot reports whether the node is the top of its tree.
func (n Node) IsRoot() bool {
	return n.ParentID == nil
}

// AncestorChain is the path from the tree root down to a leaf, one entry per
// level. Entry 0 is always the NationalLevel node (or the Region node for the
// single-level expatriate tree).
type AncestorChain []ChainEntry

type ChainEntry struct {
	NodeID uuid.UUID
	Level  Level
}

// IDAtLevel returns the chain member at the given level, false when the
// chain does not reach it.
func (c AncestorChain) IDAtLevel(level Level) (uuid.UUID, bool) {
	for _, entry := range c {
		if entry.Level == level {
			return entry.NodeID, true
		}
	}
	return uuid.Nil, false
}

// Contains reports whether id appears anywhere on the chain.
func (c AncestorChain) Contains(id uuid.UUID) bool {
	for _, entry := range c {
		if entry.NodeID == id {
			return true
		}
	}
	return false
}

// Leaf returns the deepest entry, false for an empty chain.
func (c AncestorChain) Leaf() (ChainEntry, bool) {
	if len(c) == 0 {
		return ChainEntry{}, false
	}
	return c[len(c)-1], true
}
