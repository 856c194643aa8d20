package target

import "github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"

// Column returns the canonical field name for a (tree kind, level) target.
// Services use these names in predicate expressions and the persistence
// layer maps them onto the content_items columns one to one.
func Column(kind tree.TreeKind, level tree.Level) string {
	switch kind {
	case tree.KindOriginal:
		switch level {
		case tree.LevelNational:
			return "target_national_id"
		case tree.LevelRegion:
			return "target_region_id"
		case tree.LevelLocality:
			return "target_locality_id"
		case tree.LevelAdminUnit:
			return "target_admin_unit_id"
		case tree.LevelDistrict:
			return "target_district_id"
		}
	case tree.KindExpatriate:
		if level == tree.LevelRegion {
			return "target_expat_region_id"
		}
	case tree.KindSector:
		switch level {
		case tree.LevelRegion:
			return "target_sector_region_id"
		case tree.LevelLocality:
			return "target_sector_locality_id"
		case tree.LevelAdminUnit:
			return "target_sector_admin_unit_id"
		case tree.LevelDistrict:
			return "target_sector_district_id"
		}
	}
	return ""
}

const (
	ColumnApproved = "is_approved"
	ColumnCreator  = "creator_id"
	ColumnKind     = "kind"
)
