package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
	"github.com/tanzim-io/tanzim/modules/hierarchy/infrastructure/persistence/models"
	"github.com/tanzim-io/tanzim/modules/hierarchy/services"
	"github.com/tanzim-io/tanzim/pkg/composables"
)

type PositionRepository struct{}

func NewPositionRepository() services.PositionStore {
	return &PositionRepository{}
}

// SavePosition upserts a member's leaf assignments together with the derived
// ancestor columns. The whole row is rewritten so stale ancestors from an
// earlier assignment can never survive a move.
func (r *PositionRepository) SavePosition(ctx context.Context, pos services.StoredPosition) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	dbRow := toDBPosition(pos)
	_, err = tx.Exec(ctx, `
		INSERT INTO member_positions (
			user_id, admin_level, active_hierarchy,
			original_leaf_id, expat_region_id, sector_leaf_id,
			orig_national_id, orig_region_id, orig_locality_id, orig_admin_unit_id, orig_district_id,
			sector_region_id, sector_locality_id, sector_admin_unit_id, sector_district_id,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
		ON CONFLICT (user_id) DO UPDATE SET
			admin_level = EXCLUDED.admin_level,
			active_hierarchy = EXCLUDED.active_hierarchy,
			original_leaf_id = EXCLUDED.original_leaf_id,
			expat_region_id = EXCLUDED.expat_region_id,
			sector_leaf_id = EXCLUDED.sector_leaf_id,
			orig_national_id = EXCLUDED.orig_national_id,
			orig_region_id = EXCLUDED.orig_region_id,
			orig_locality_id = EXCLUDED.orig_locality_id,
			orig_admin_unit_id = EXCLUDED.orig_admin_unit_id,
			orig_district_id = EXCLUDED.orig_district_id,
			sector_region_id = EXCLUDED.sector_region_id,
			sector_locality_id = EXCLUDED.sector_locality_id,
			sector_admin_unit_id = EXCLUDED.sector_admin_unit_id,
			sector_district_id = EXCLUDED.sector_district_id,
			updated_at = EXCLUDED.updated_at`,
		dbRow.UserID, dbRow.AdminLevel, dbRow.ActiveHierarchy,
		dbRow.OriginalLeafID, dbRow.ExpatRegionID, dbRow.SectorLeafID,
		dbRow.OrigNationalID, dbRow.OrigRegionID, dbRow.OrigLocalityID,
		dbRow.OrigAdminUnitID, dbRow.OrigDistrictID,
		dbRow.SectorRegionID, dbRow.SectorLocalityID,
		dbRow.SectorAdminUnitID, dbRow.SectorDistrictID,
		time.Now(),
	)
	return err
}

func (r *PositionRepository) GetPosition(ctx context.Context, userID uuid.UUID) (services.StoredPosition, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return services.StoredPosition{}, err
	}

	var row models.MemberPosition
	err = tx.QueryRow(ctx, `
		SELECT user_id, admin_level, active_hierarchy,
		       original_leaf_id, expat_region_id, sector_leaf_id,
		       orig_national_id, orig_region_id, orig_locality_id, orig_admin_unit_id, orig_district_id,
		       sector_region_id, sector_locality_id, sector_admin_unit_id, sector_district_id,
		       created_at, updated_at
		FROM member_positions
		WHERE user_id = $1`, userID,
	).Scan(
		&row.UserID, &row.AdminLevel, &row.ActiveHierarchy,
		&row.OriginalLeafID, &row.ExpatRegionID, &row.SectorLeafID,
		&row.OrigNationalID, &row.OrigRegionID, &row.OrigLocalityID,
		&row.OrigAdminUnitID, &row.OrigDistrictID,
		&row.SectorRegionID, &row.SectorLocalityID,
		&row.SectorAdminUnitID, &row.SectorDistrictID,
		&row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return services.StoredPosition{}, tree.ErrNotFound
		}
		return services.StoredPosition{}, err
	}
	return toDomainPosition(row), nil
}

func toDBPosition(pos services.StoredPosition) models.MemberPosition {
	leafColumn := func(chain tree.AncestorChain) pgtype.UUID {
		leaf, ok := chain.Leaf()
		if !ok {
			return pgtype.UUID{}
		}
		return pgUUID(leaf.NodeID)
	}
	return models.MemberPosition{
		UserID:          pgUUID(pos.UserID),
		AdminLevel:      pos.AdminLevel,
		ActiveHierarchy: string(pos.ActiveHierarchy),

		OriginalLeafID: leafColumn(pos.Original),
		ExpatRegionID:  leafColumn(pos.Expatriate),
		SectorLeafID:   leafColumn(pos.Sector),

		OrigNationalID:  chainColumn(pos.Original, tree.LevelNational),
		OrigRegionID:    chainColumn(pos.Original, tree.LevelRegion),
		OrigLocalityID:  chainColumn(pos.Original, tree.LevelLocality),
		OrigAdminUnitID: chainColumn(pos.Original, tree.LevelAdminUnit),
		OrigDistrictID:  chainColumn(pos.Original, tree.LevelDistrict),

		SectorRegionID:    chainColumn(pos.Sector, tree.LevelRegion),
		SectorLocalityID:  chainColumn(pos.Sector, tree.LevelLocality),
		SectorAdminUnitID: chainColumn(pos.Sector, tree.LevelAdminUnit),
		SectorDistrictID:  chainColumn(pos.Sector, tree.LevelDistrict),
	}
}

func toDomainPosition(row models.MemberPosition) services.StoredPosition {
	pos := services.StoredPosition{
		UserID:          row.UserID.Bytes,
		AdminLevel:      row.AdminLevel,
		ActiveHierarchy: tree.TreeKind(row.ActiveHierarchy),
		Original: chainFromColumns(tree.LevelNational, map[tree.Level]pgtype.UUID{
			tree.LevelNational:  row.OrigNationalID,
			tree.LevelRegion:    row.OrigRegionID,
			tree.LevelLocality:  row.OrigLocalityID,
			tree.LevelAdminUnit: row.OrigAdminUnitID,
			tree.LevelDistrict:  row.OrigDistrictID,
		}),
		Sector: chainFromColumns(tree.LevelRegion, map[tree.Level]pgtype.UUID{
			tree.LevelRegion:    row.SectorRegionID,
			tree.LevelLocality:  row.SectorLocalityID,
			tree.LevelAdminUnit: row.SectorAdminUnitID,
			tree.LevelDistrict:  row.SectorDistrictID,
		}),
	}
	if row.ExpatRegionID.Valid {
		pos.Expatriate = tree.AncestorChain{{NodeID: row.ExpatRegionID.Bytes, Level: tree.LevelRegion}}
	}
	return pos
}
