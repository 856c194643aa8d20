package mappers

import (
	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
	"github.com/tanzim-io/tanzim/modules/hierarchy/presentation/viewmodels"
	"github.com/tanzim-io/tanzim/modules/hierarchy/services"
)

func NodeToViewModel(n tree.Node) viewmodels.Node {
	return viewmodels.Node{
		ID:             n.ID.String(),
		TreeKind:       string(n.TreeKind),
		Level:          string(n.Level),
		Name:           n.Name,
		Code:           n.Code,
		Active:         n.Active,
		ParentID:       uuidString(n.ParentID),
		SectorType:     string(n.SectorType),
		ParentSectorID: uuidString(n.ParentSectorID),
		MirrorOfID:     uuidString(n.MirrorOfID),
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}
}

func PositionToViewModel(pos services.StoredPosition) viewmodels.Position {
	return viewmodels.Position{
		UserID:          pos.UserID.String(),
		AdminLevel:      pos.AdminLevel,
		ActiveHierarchy: string(pos.ActiveHierarchy),
		Original:        chainToViewModel(pos.Original),
		Expatriate:      chainToViewModel(pos.Expatriate),
		Sector:          chainToViewModel(pos.Sector),
	}
}

func chainToViewModel(chain tree.AncestorChain) []viewmodels.ChainEntry {
	if len(chain) == 0 {
		return nil
	}
	out := make([]viewmodels.ChainEntry, 0, len(chain))
	for _, entry := range chain {
		out = append(out, viewmodels.ChainEntry{
			NodeID: entry.NodeID.String(),
			Level:  string(entry.Level),
		})
	}
	return out
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
