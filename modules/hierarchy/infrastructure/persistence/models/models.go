package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type HierarchyNode struct {
	ID             pgtype.UUID
	TreeKind       string
	Level          string
	Name           string
	Code           string
	Active         bool
	ParentID       pgtype.UUID
	SectorType     string
	ParentSectorID pgtype.UUID
	MirrorOfID     pgtype.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type MemberPosition struct {
	UserID          pgtype.UUID
	AdminLevel      string
	ActiveHierarchy string

	OriginalLeafID pgtype.UUID
	ExpatRegionID  pgtype.UUID
	SectorLeafID   pgtype.UUID

	OrigNationalID  pgtype.UUID
	OrigRegionID    pgtype.UUID
	OrigLocalityID  pgtype.UUID
	OrigAdminUnitID pgtype.UUID
	OrigDistrictID  pgtype.UUID

	SectorRegionID    pgtype.UUID
	SectorLocalityID  pgtype.UUID
	SectorAdminUnitID pgtype.UUID
	SectorDistrictID  pgtype.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}
