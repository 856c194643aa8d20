package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
	"github.com/tanzim-io/tanzim/modules/hierarchy/infrastructure/persistence/models"
	"github.com/tanzim-io/tanzim/modules/hierarchy/services"
	"github.com/tanzim-io/tanzim/pkg/composables"
)

const nodeColumns = `id, tree_kind, level, name, code, active, parent_id, sector_type, parent_sector_id, mirror_of_id, created_at, updated_at`

type HierarchyRepository struct{}

func NewHierarchyRepository() services.HierarchyStore {
	return &HierarchyRepository{}
}

func (r *HierarchyRepository) GetNode(ctx context.Context, id uuid.UUID) (tree.Node, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return tree.Node{}, err
	}

	row, err := scanNode(tx.QueryRow(ctx,
		`SELECT `+nodeColumns+` FROM hierarchy_nodes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tree.Node{}, tree.ErrNotFound
		}
		return tree.Node{}, err
	}
	return toDomainNode(row), nil
}

func (r *HierarchyRepository) CreateNode(ctx context.Context, node tree.Node) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	dbRow := toDBNode(node)
	now := time.Now()
	if dbRow.CreatedAt.IsZero() {
		dbRow.CreatedAt = now
	}
	if dbRow.UpdatedAt.IsZero() {
		dbRow.UpdatedAt = now
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO hierarchy_nodes (`+nodeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		dbRow.ID, dbRow.TreeKind, dbRow.Level, dbRow.Name, dbRow.Code, dbRow.Active,
		dbRow.ParentID, dbRow.SectorType, dbRow.ParentSectorID, dbRow.MirrorOfID,
		dbRow.CreatedAt, dbRow.UpdatedAt,
	)
	return err
}

func (r *HierarchyRepository) UpdateNode(ctx context.Context, node tree.Node) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	dbRow := toDBNode(node)
	tag, err := tx.Exec(ctx, `
		UPDATE hierarchy_nodes
		SET name = $2,
		    code = $3,
		    active = $4,
		    parent_id = $5,
		    parent_sector_id = $6,
		    mirror_of_id = $7,
		    updated_at = $8
		WHERE id = $1`,
		dbRow.ID, dbRow.Name, dbRow.Code, dbRow.Active,
		dbRow.ParentID, dbRow.ParentSectorID, dbRow.MirrorOfID, time.Now(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return tree.ErrNotFound
	}
	return nil
}

func (r *HierarchyRepository) DeleteNode(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM hierarchy_nodes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return tree.ErrNotFound
	}
	return nil
}

func (r *HierarchyRepository) CountChildren(ctx context.Context, id uuid.UUID) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM hierarchy_nodes WHERE parent_id = $1`, id,
	).Scan(&count)
	return count, err
}

func (r *HierarchyRepository) CountAssignedMembers(ctx context.Context, id uuid.UUID) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var count int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM member_positions
		WHERE original_leaf_id = $1 OR expat_region_id = $1 OR sector_leaf_id = $1`, id,
	).Scan(&count)
	return count, err
}

func (r *HierarchyRepository) SectorMirrors(ctx context.Context, originalID uuid.UUID) (map[tree.SectorType]tree.Node, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		`SELECT `+nodeColumns+` FROM hierarchy_nodes WHERE mirror_of_id = $1`, originalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mirrors := make(map[tree.SectorType]tree.Node)
	for rows.Next() {
		row, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		node := toDomainNode(row)
		mirrors[node.SectorType] = node
	}
	return mirrors, rows.Err()
}

func (r *HierarchyRepository) ListUnlinkedSectorNodes(ctx context.Context) ([]tree.Node, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+nodeColumns+`
		FROM hierarchy_nodes
		WHERE tree_kind = $1 AND level <> $2 AND parent_sector_id IS NULL
		ORDER BY created_at`,
		string(tree.KindSector), string(tree.KindSector.RootLevel()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []tree.Node
	for rows.Next() {
		row, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, toDomainNode(row))
	}
	return nodes, rows.Err()
}

func scanNode(row pgx.Row) (models.HierarchyNode, error) {
	var n models.HierarchyNode
	err := row.Scan(
		&n.ID, &n.TreeKind, &n.Level, &n.Name, &n.Code, &n.Active,
		&n.ParentID, &n.SectorType, &n.ParentSectorID, &n.MirrorOfID,
		&n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}
