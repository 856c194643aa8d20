package persistence

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tanzim-io/tanzim/modules/content/domain/item"
	"github.com/tanzim-io/tanzim/modules/content/domain/plan"
	"github.com/tanzim-io/tanzim/modules/content/domain/target"
	"github.com/tanzim-io/tanzim/modules/content/infrastructure/persistence/models"
)

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgUUIDPtr(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgUUID(*id)
}

func uuidPtr(v pgtype.UUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := uuid.UUID(v.Bytes)
	return &id
}

func toDBItem(it *item.Item) models.ContentItem {
	return models.ContentItem{
		ID:        pgUUID(it.ID),
		Kind:      string(it.Kind),
		Title:     it.Title,
		Body:      it.Body,
		CreatorID: pgUUID(it.CreatorID),
		Approved:  it.Approved,

		TargetNationalID:  pgUUIDPtr(it.Target.NationalID),
		TargetRegionID:    pgUUIDPtr(it.Target.RegionID),
		TargetLocalityID:  pgUUIDPtr(it.Target.LocalityID),
		TargetAdminUnitID: pgUUIDPtr(it.Target.AdminUnitID),
		TargetDistrictID:  pgUUIDPtr(it.Target.DistrictID),

		TargetExpatRegionID: pgUUIDPtr(it.Target.ExpatriateRegionID),

		TargetSectorRegionID:    pgUUIDPtr(it.Target.SectorRegionID),
		TargetSectorLocalityID:  pgUUIDPtr(it.Target.SectorLocalityID),
		TargetSectorAdminUnitID: pgUUIDPtr(it.Target.SectorAdminUnitID),
		TargetSectorDistrictID:  pgUUIDPtr(it.Target.SectorDistrictID),

		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

func toDomainItem(row models.ContentItem) *item.Item {
	return &item.Item{
		ID:        row.ID.Bytes,
		Kind:      item.Kind(row.Kind),
		Title:     row.Title,
		Body:      row.Body,
		CreatorID: row.CreatorID.Bytes,
		Approved:  row.Approved,
		Target: target.Spec{
			NationalID:  uuidPtr(row.TargetNationalID),
			RegionID:    uuidPtr(row.TargetRegionID),
			LocalityID:  uuidPtr(row.TargetLocalityID),
			AdminUnitID: uuidPtr(row.TargetAdminUnitID),
			DistrictID:  uuidPtr(row.TargetDistrictID),

			ExpatriateRegionID: uuidPtr(row.TargetExpatRegionID),

			SectorRegionID:    uuidPtr(row.TargetSectorRegionID),
			SectorLocalityID:  uuidPtr(row.TargetSectorLocalityID),
			SectorAdminUnitID: uuidPtr(row.TargetSectorAdminUnitID),
			SectorDistrictID:  uuidPtr(row.TargetSectorDistrictID),
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toDomainPlan(row models.ContentPlan) *plan.Plan {
	return &plan.Plan{
		ItemID:       row.ItemID.Bytes,
		PriceAmount:  row.PriceAmount,
		Currency:     row.Currency,
		PeriodMonths: int(row.PeriodMonths),
	}
}
