package position

import (
	"errors"

	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
)

// AdminLevel is the administrative rank of an actor. Root outranks every
// hierarchy level; Member carries no administrative authority at all.
type AdminLevel string

const (
	AdminRoot      AdminLevel = "root"
	AdminNational  AdminLevel = "national_level"
	AdminRegion    AdminLevel = "region"
	AdminLocality  AdminLevel = "locality"
	AdminAdminUnit AdminLevel = "admin_unit"
	AdminDistrict  AdminLevel = "district"
	AdminMember    AdminLevel = "member"
)

func NewAdminLevel(l string) (AdminLevel, error) {
	level := AdminLevel(l)
	if !level.IsValid() {
		return "", errors.New("invalid admin level")
	}
	return level, nil
}

func (l AdminLevel) IsValid() bool {
	switch l {
	case AdminRoot, AdminNational, AdminRegion, AdminLocality, AdminAdminUnit, AdminDistrict, AdminMember:
		return true
	}
	return false
}

func (l AdminLevel) String() string {
	return string(l)
}

var adminRank = map[AdminLevel]int{
	AdminRoot:      0,
	AdminNational:  1,
	AdminRegion:    2,
	AdminLocality:  3,
	AdminAdminUnit: 4,
	AdminDistrict:  5,
	AdminMember:    6,
}

func (l AdminLevel) rank() int {
	r, ok := adminRank[l]
	if !ok {
		// Unknown levels carry no authority at all.
		return len(adminRank)
	}
	return r
}

// Outranks reports whether l carries strictly more authority than other.
func (l AdminLevel) Outranks(other AdminLevel) bool {
	return l.rank() < other.rank()
}

// FromTreeLevel is the inverse of TreeLevel.
func FromTreeLevel(level tree.Level) (AdminLevel, bool) {
	switch level {
	case tree.LevelNational:
		return AdminNational, true
	case tree.LevelRegion:
		return AdminRegion, true
	case tree.LevelLocality:
		return AdminLocality, true
	case tree.LevelAdminUnit:
		return AdminAdminUnit, true
	case tree.LevelDistrict:
		return AdminDistrict, true
	}
	return "", false
}

// TreeLevel maps an admin level onto the hierarchy level it governs.
// Root and Member have no corresponding tree level.
func (l AdminLevel) TreeLevel() (tree.Level, bool) {
	switch l {
	case AdminNational:
		return tree.LevelNational, true
	case AdminRegion:
		return tree.LevelRegion, true
	case AdminLocality:
		return tree.LevelLocality, true
	case AdminAdminUnit:
		return tree.LevelAdminUnit, true
	case AdminDistrict:
		return tree.LevelDistrict, true
	}
	return "", false
}

// ActorPosition is an actor's placement across the parallel hierarchies.
// Only leaf ids are stored per tree; ancestors are derived, never supplied.
// ActiveHierarchy selects the governing tree when the actor participates in
// more than one.
type ActorPosition struct {
	UserID             uuid.UUID
	AdminLevel         AdminLevel
	ActiveHierarchy    tree.TreeKind
	OriginalLeafID     *uuid.UUID
	ExpatriateRegionID *uuid.UUID
	SectorLeafID       *uuid.UUID
}

// LeafID returns the actor's leaf assignment in the given tree.
func (p ActorPosition) LeafID(kind tree.TreeKind) *uuid.UUID {
	switch kind {
	case tree.KindOriginal:
		return p.OriginalLeafID
	case tree.KindExpatriate:
		return p.ExpatriateRegionID
	case tree.KindSector:
		return p.SectorLeafID
	}
	return nil
}

// ActiveLeafID returns the leaf assignment in the actor's governing tree.
func (p ActorPosition) ActiveLeafID() *uuid.UUID {
	return p.LeafID(p.ActiveHierarchy)
}

// IsRoot reports whether the actor holds universal authority.
func (p ActorPosition) IsRoot() bool {
	return p.AdminLevel == AdminRoot
}
