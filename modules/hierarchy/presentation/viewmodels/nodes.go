package viewmodels

import "time"

type Node struct {
	ID             string    `json:"id"`
	TreeKind       string    `json:"tree_kind"`
	Level          string    `json:"level"`
	Name           string    `json:"name"`
	Code           string    `json:"code,omitempty"`
	Active         bool      `json:"active"`
	ParentID       *string   `json:"parent_id,omitempty"`
	SectorType     string    `json:"sector_type,omitempty"`
	ParentSectorID *string   `json:"parent_sector_id,omitempty"`
	MirrorOfID     *string   `json:"mirror_of_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ChainEntry struct {
	NodeID string `json:"node_id"`
	Level  string `json:"level"`
}

type Position struct {
	UserID          string       `json:"user_id"`
	AdminLevel      string       `json:"admin_level"`
	ActiveHierarchy string       `json:"active_hierarchy,omitempty"`
	Original        []ChainEntry `json:"original,omitempty"`
	Expatriate      []ChainEntry `json:"expatriate,omitempty"`
	Sector          []ChainEntry `json:"sector,omitempty"`
}
