package viewmodels

import "time"

type Target struct {
	NationalID  *string `json:"national_id,omitempty"`
	RegionID    *string `json:"region_id,omitempty"`
	LocalityID  *string `json:"locality_id,omitempty"`
	AdminUnitID *string `json:"admin_unit_id,omitempty"`
	DistrictID  *string `json:"district_id,omitempty"`

	ExpatriateRegionID *string `json:"expat_region_id,omitempty"`

	SectorRegionID    *string `json:"sector_region_id,omitempty"`
	SectorLocalityID  *string `json:"sector_locality_id,omitempty"`
	SectorAdminUnitID *string `json:"sector_admin_unit_id,omitempty"`
	SectorDistrictID  *string `json:"sector_district_id,omitempty"`
}

type Item struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	CreatorID string    `json:"creator_id"`
	Approved  bool      `json:"approved"`
	Target    Target    `json:"target"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Plan struct {
	ItemID       string `json:"item_id"`
	PriceAmount  int64  `json:"price_amount"`
	Currency     string `json:"currency"`
	PeriodMonths int    `json:"period_months"`
}
