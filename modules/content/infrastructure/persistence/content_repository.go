package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tanzim-io/tanzim/modules/content/domain/item"
	"github.com/tanzim-io/tanzim/modules/content/domain/plan"
	"github.com/tanzim-io/tanzim/modules/content/infrastructure/persistence/models"
	"github.com/tanzim-io/tanzim/modules/content/services"
	"github.com/tanzim-io/tanzim/pkg/composables"
	"github.com/tanzim-io/tanzim/pkg/predicate"
	"github.com/tanzim-io/tanzim/pkg/repo"
)

const itemColumns = `id, kind, title, body, creator_id, is_approved,
	target_national_id, target_region_id, target_locality_id, target_admin_unit_id, target_district_id,
	target_expat_region_id,
	target_sector_region_id, target_sector_locality_id, target_sector_admin_unit_id, target_sector_district_id,
	created_at, updated_at`

type ContentRepository struct{}

func NewContentRepository() services.ContentStore {
	return &ContentRepository{}
}

func (r *ContentRepository) GetItem(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	row, err := scanItem(tx.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM content_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrNotFound
		}
		return nil, err
	}
	return toDomainItem(row), nil
}

func (r *ContentRepository) CreateItem(ctx context.Context, it *item.Item) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	dbRow := toDBItem(it)
	now := time.Now()
	if dbRow.CreatedAt.IsZero() {
		dbRow.CreatedAt = now
	}
	if dbRow.UpdatedAt.IsZero() {
		dbRow.UpdatedAt = now
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO content_items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		dbRow.ID, dbRow.Kind, dbRow.Title, dbRow.Body, dbRow.CreatorID, dbRow.Approved,
		dbRow.TargetNationalID, dbRow.TargetRegionID, dbRow.TargetLocalityID,
		dbRow.TargetAdminUnitID, dbRow.TargetDistrictID,
		dbRow.TargetExpatRegionID,
		dbRow.TargetSectorRegionID, dbRow.TargetSectorLocalityID,
		dbRow.TargetSectorAdminUnitID, dbRow.TargetSectorDistrictID,
		dbRow.CreatedAt, dbRow.UpdatedAt,
	)
	return err
}

func (r *ContentRepository) SetApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE content_items SET is_approved = $2, updated_at = $3 WHERE id = $1`,
		id, approved, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return item.ErrNotFound
	}
	return nil
}

func (r *ContentRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return item.ErrNotFound
	}
	return nil
}

// ListVisible renders the visibility expression into a parameterized WHERE
// clause. Field names in the expression are the canonical target columns,
// never request input.
func (r *ContentRepository) ListVisible(ctx context.Context, kind item.Kind, visible predicate.Expr, limit, offset int) ([]*item.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	where, args := predicate.ToSQL(visible, 2)
	query := `
		SELECT ` + itemColumns + `
		FROM content_items
		WHERE kind = $1 AND ` + where + `
		ORDER BY created_at DESC`
	if clause := repo.FormatLimitOffset(limit, offset); clause != "" {
		query += " " + clause
	}

	rows, err := tx.Query(ctx, query, append([]interface{}{string(kind)}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*item.Item, 0)
	for rows.Next() {
		row, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, toDomainItem(row))
	}
	return items, rows.Err()
}

func (r *ContentRepository) SavePlan(ctx context.Context, p *plan.Plan) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO content_plans (item_id, price_amount, currency, period_months)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id) DO UPDATE SET
			price_amount = EXCLUDED.price_amount,
			currency = EXCLUDED.currency,
			period_months = EXCLUDED.period_months`,
		p.ItemID, p.PriceAmount, p.Currency, p.PeriodMonths,
	)
	return err
}

func (r *ContentRepository) GetPlan(ctx context.Context, itemID uuid.UUID) (*plan.Plan, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var row models.ContentPlan
	err = tx.QueryRow(ctx, `
		SELECT item_id, price_amount, currency, period_months
		FROM content_plans
		WHERE item_id = $1`, itemID,
	).Scan(&row.ItemID, &row.PriceAmount, &row.Currency, &row.PeriodMonths)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrNotFound
		}
		return nil, err
	}
	return toDomainPlan(row), nil
}

func scanItem(row pgx.Row) (models.ContentItem, error) {
	var it models.ContentItem
	err := row.Scan(
		&it.ID, &it.Kind, &it.Title, &it.Body, &it.CreatorID, &it.Approved,
		&it.TargetNationalID, &it.TargetRegionID, &it.TargetLocalityID,
		&it.TargetAdminUnitID, &it.TargetDistrictID,
		&it.TargetExpatRegionID,
		&it.TargetSectorRegionID, &it.TargetSectorLocalityID,
		&it.TargetSectorAdminUnitID, &it.TargetSectorDistrictID,
		&it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}
