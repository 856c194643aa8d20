package persistence

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
	"github.com/tanzim-io/tanzim/modules/hierarchy/infrastructure/persistence/models"
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

func toDBNode(n tree.Node) models.HierarchyNode {
	return models.HierarchyNode{
		ID:             pgUUID(n.ID),
		TreeKind:       string(n.TreeKind),
		Level:          string(n.Level),
		Name:           n.Name,
		Code:           n.Code,
		Active:         n.Active,
		ParentID:       pgUUIDPtr(n.ParentID),
		SectorType:     string(n.SectorType),
		ParentSectorID: pgUUIDPtr(n.ParentSectorID),
		MirrorOfID:     pgUUIDPtr(n.MirrorOfID),
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}
}

func toDomainNode(row models.HierarchyNode) tree.Node {
	return tree.Node{
		ID:             row.ID.Bytes,
		TreeKind:       tree.TreeKind(row.TreeKind),
		Level:          tree.Level(row.Level),
		Name:           row.Name,
		Code:           row.Code,
		Active:         row.Active,
		ParentID:       uuidPtr(row.ParentID),
		SectorType:     tree.SectorType(row.SectorType),
		ParentSectorID: uuidPtr(row.ParentSectorID),
		MirrorOfID:     uuidPtr(row.MirrorOfID),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

// chainColumn returns the pgtype value of the chain member at the given
// level, NULL when the chain stops above it.
func chainColumn(chain tree.AncestorChain, level tree.Level) pgtype.UUID {
	id, ok := chain.IDAtLevel(level)
	if !ok {
		return pgtype.UUID{}
	}
	return pgUUID(id)
}

// chainFromColumns rebuilds a root-first ancestor chain from denormalized
// columns, stopping at the first unset level.
func chainFromColumns(root tree.Level, columns map[tree.Level]pgtype.UUID) tree.AncestorChain {
	var chain tree.AncestorChain
	for _, level := range tree.Levels() {
		if level.Depth() < root.Depth() {
			continue
		}
		v, ok := columns[level]
		if !ok || !v.Valid {
			break
		}
		chain = append(chain, tree.ChainEntry{NodeID: v.Bytes, Level: level})
	}
	return chain
}
