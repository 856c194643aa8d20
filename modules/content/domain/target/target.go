package target

import (
	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
	"github.com/tanzim-io/tanzim/pkg/serrors"
)

var (
	// ErrInconsistentTarget marks a spec whose lower-level target is not
	// accompanied by its true derived ancestors.
	ErrInconsistentTarget = serrors.NewError("TARGET_INCONSISTENT", "target ancestors do not match the derived chain", "")
	// ErrEmptyTarget marks a spec that targets nothing at any level.
	ErrEmptyTarget = serrors.NewError("TARGET_EMPTY", "at least one target must be set", "")
)

// Spec holds the per-(tree kind, level) nullable target ids of a content
// item. A nil id means "not targeted at this level", never "everyone".
type Spec struct {
	NationalID  *uuid.UUID
	RegionID    *uuid.UUID
	LocalityID  *uuid.UUID
	AdminUnitID *uuid.UUID
	DistrictID  *uuid.UUID

	ExpatriateRegionID *uuid.UUID

	SectorRegionID    *uuid.UUID
	SectorLocalityID  *uuid.UUID
	SectorAdminUnitID *uuid.UUID
	SectorDistrictID  *uuid.UUID
}

// IDAt returns the target id for a (tree kind, level) pair, or nil when the
// pair is not reachable for the kind or not targeted.
func (s *Spec) IDAt(kind tree.TreeKind, level tree.Level) *uuid.UUID {
	switch kind {
	case tree.KindOriginal:
		switch level {
		case tree.LevelNational:
			return s.NationalID
		case tree.LevelRegion:
			return s.RegionID
		case tree.LevelLocality:
			return s.LocalityID
		case tree.LevelAdminUnit:
			return s.AdminUnitID
		case tree.LevelDistrict:
			return s.DistrictID
		}
	case tree.KindExpatriate:
		if level == tree.LevelRegion {
			return s.ExpatriateRegionID
		}
	case tree.KindSector:
		switch level {
		case tree.LevelRegion:
			return s.SectorRegionID
		case tree.LevelLocality:
			return s.SectorLocalityID
		case tree.LevelAdminUnit:
			return s.SectorAdminUnitID
		case tree.LevelDistrict:
			return s.SectorDistrictID
		}
	}
	return nil
}

// SetIDAt sets the target id for a (tree kind, level) pair. Unreachable
// pairs are ignored.
func (s *Spec) SetIDAt(kind tree.TreeKind, level tree.Level, id *uuid.UUID) {
	switch kind {
	case tree.KindOriginal:
		switch level {
		case tree.LevelNational:
			s.NationalID = id
		case tree.LevelRegion:
			s.RegionID = id
		case tree.LevelLocality:
			s.LocalityID = id
		case tree.LevelAdminUnit:
			s.AdminUnitID = id
		case tree.LevelDistrict:
			s.DistrictID = id
		}
	case tree.KindExpatriate:
		if level == tree.LevelRegion {
			s.ExpatriateRegionID = id
		}
	case tree.KindSector:
		switch level {
		case tree.LevelRegion:
			s.SectorRegionID = id
		case tree.LevelLocality:
			s.SectorLocalityID = id
		case tree.LevelAdminUnit:
			s.SectorAdminUnitID = id
		case tree.LevelDistrict:
			s.SectorDistrictID = id
		}
	}
}

// Levels returns the levels a tree kind can be targeted at, root first.
// The expatriate tree stops at Region.
func Levels(kind tree.TreeKind) []tree.Level {
	switch kind {
	case tree.KindOriginal:
		return tree.Levels()
	case tree.KindExpatriate:
		return []tree.Level{tree.LevelRegion}
	case tree.KindSector:
		return []tree.Level{tree.LevelRegion, tree.LevelLocality, tree.LevelAdminUnit, tree.LevelDistrict}
	}
	return nil
}

// Leaf returns the lowest targeted (level, id) for a tree kind, or false
// when the kind is not targeted at all.
func (s *Spec) Leaf(kind tree.TreeKind) (tree.Level, uuid.UUID, bool) {
	levels := Levels(kind)
	for i := len(levels) - 1; i >= 0; i-- {
		if id := s.IDAt(kind, levels[i]); id != nil {
			return levels[i], *id, true
		}
	}
	return "", uuid.Nil, false
}

// IsEmpty reports whether no target is set in any tree.
func (s *Spec) IsEmpty() bool {
	for _, kind := range tree.Kinds() {
		if _, _, ok := s.Leaf(kind); ok {
			return false
		}
	}
	return true
}

// MatchesChain reports whether this spec's targets in the given tree form a
// non-empty prefix of the chain: every set target equals the chain id at its
// level and nothing is targeted below the chain's leaf.
func (s *Spec) MatchesChain(kind tree.TreeKind, chain tree.AncestorChain) bool {
	matched := false
	for _, level := range Levels(kind) {
		id := s.IDAt(kind, level)
		if id == nil {
			continue
		}
		want, ok := chain.IDAtLevel(level)
		if !ok || *id != want {
			return false
		}
		matched = true
	}
	return matched
}

// TargetedKinds returns the tree kinds this spec targets.
func (s *Spec) TargetedKinds() []tree.TreeKind {
	var kinds []tree.TreeKind
	for _, kind := range tree.Kinds() {
		if _, _, ok := s.Leaf(kind); ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
