package mappers

import (
	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/content/domain/item"
	"github.com/tanzim-io/tanzim/modules/content/domain/plan"
	"github.com/tanzim-io/tanzim/modules/content/domain/target"
	"github.com/tanzim-io/tanzim/modules/content/presentation/viewmodels"
)

func ItemToViewModel(it *item.Item) viewmodels.Item {
	return viewmodels.Item{
		ID:        it.ID.String(),
		Kind:      string(it.Kind),
		Title:     it.Title,
		Body:      it.Body,
		CreatorID: it.CreatorID.String(),
		Approved:  it.Approved,
		Target:    TargetToViewModel(it.Target),
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

func TargetToViewModel(spec target.Spec) viewmodels.Target {
	return viewmodels.Target{
		NationalID:  uuidString(spec.NationalID),
		RegionID:    uuidString(spec.RegionID),
		LocalityID:  uuidString(spec.LocalityID),
		AdminUnitID: uuidString(spec.AdminUnitID),
		DistrictID:  uuidString(spec.DistrictID),

		ExpatriateRegionID: uuidString(spec.ExpatriateRegionID),

		SectorRegionID:    uuidString(spec.SectorRegionID),
		SectorLocalityID:  uuidString(spec.SectorLocalityID),
		SectorAdminUnitID: uuidString(spec.SectorAdminUnitID),
		SectorDistrictID:  uuidString(spec.SectorDistrictID),
	}
}

func PlanToViewModel(p *plan.Plan) viewmodels.Plan {
	return viewmodels.Plan{
		ItemID:       p.ItemID.String(),
		PriceAmount:  p.PriceAmount,
		Currency:     p.Currency,
		PeriodMonths: p.PeriodMonths,
	}
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
