package dtos

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/content/domain/target"
	"github.com/tanzim-io/tanzim/pkg/constants"
)

type TargetDTO struct {
	NationalID  string `json:"national_id" validate:"omitempty,uuid"`
	RegionID    string `json:"region_id" validate:"omitempty,uuid"`
	LocalityID  string `json:"locality_id" validate:"omitempty,uuid"`
	AdminUnitID string `json:"admin_unit_id" validate:"omitempty,uuid"`
	DistrictID  string `json:"district_id" validate:"omitempty,uuid"`

	ExpatriateRegionID string `json:"expat_region_id" validate:"omitempty,uuid"`

	SectorRegionID    string `json:"sector_region_id" validate:"omitempty,uuid"`
	SectorLocalityID  string `json:"sector_locality_id" validate:"omitempty,uuid"`
	SectorAdminUnitID string `json:"sector_admin_unit_id" validate:"omitempty,uuid"`
	SectorDistrictID  string `json:"sector_district_id" validate:"omitempty,uuid"`
}

type CreatePlanDTO struct {
	PriceAmount  int64  `json:"price_amount" validate:"min=0"`
	Currency     string `json:"currency" validate:"required"`
	PeriodMonths int    `json:"period_months" validate:"min=1"`
}

type CreateItemDTO struct {
	Kind   string         `json:"kind" validate:"required"`
	Title  string         `json:"title" validate:"required"`
	Body   string         `json:"body"`
	Target *TargetDTO     `json:"target"`
	Plan   *CreatePlanDTO `json:"plan"`
}

type SetApprovalDTO struct {
	Approved *bool `json:"approved" validate:"required"`
}

func (d *CreateItemDTO) Ok() (map[string]string, bool) {
	return validateStruct(d)
}

func (d *SetApprovalDTO) Ok() (map[string]string, bool) {
	return validateStruct(d)
}

// ToSpec converts the wire target into the domain spec. Validation has
// already checked every field parses as a uuid.
func (d *TargetDTO) ToSpec() *target.Spec {
	spec := &target.Spec{}
	assign := func(dst **uuid.UUID, raw string) {
		if raw == "" {
			return
		}
		if id, err := uuid.Parse(raw); err == nil {
			*dst = &id
		}
	}
	assign(&spec.NationalID, d.NationalID)
	assign(&spec.RegionID, d.RegionID)
	assign(&spec.LocalityID, d.LocalityID)
	assign(&spec.AdminUnitID, d.AdminUnitID)
	assign(&spec.DistrictID, d.DistrictID)
	assign(&spec.ExpatriateRegionID, d.ExpatriateRegionID)
	assign(&spec.SectorRegionID, d.SectorRegionID)
	assign(&spec.SectorLocalityID, d.SectorLocalityID)
	assign(&spec.SectorAdminUnitID, d.SectorAdminUnitID)
	assign(&spec.SectorDistrictID, d.SectorDistrictID)
	return spec
}

func validateStruct(v any) (map[string]string, bool) {
	errorMessages := map[string]string{}
	errs := constants.Validate.Struct(v)
	if errs == nil {
		return errorMessages, true
	}
	for _, err := range errs.(validator.ValidationErrors) {
		errorMessages[err.Field()] = err.Tag()
	}
	return errorMessages, false
}
