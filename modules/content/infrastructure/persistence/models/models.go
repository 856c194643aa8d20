package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type ContentItem struct {
	ID        pgtype.UUID
	Kind      string
	Title     string
	Body      string
	CreatorID pgtype.UUID
	Approved  bool

	TargetNationalID  pgtype.UUID
	TargetRegionID    pgtype.UUID
	TargetLocalityID  pgtype.UUID
	TargetAdminUnitID pgtype.UUID
	TargetDistrictID  pgtype.UUID

	TargetExpatRegionID pgtype.UUID

	TargetSectorRegionID    pgtype.UUID
	TargetSectorLocalityID  pgtype.UUID
	TargetSectorAdminUnitID pgtype.UUID
	TargetSectorDistrictID  pgtype.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ContentPlan struct {
	ItemID       pgtype.UUID
	PriceAmount  int64
	Currency     string
	PeriodMonths int32
}
