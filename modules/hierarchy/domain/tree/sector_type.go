package tree

import "errors"

// SectorType is the fixed cross-cutting classification carried by every
// SECTOR-tree node. Every ORIGINAL node is mirrored by exactly one SECTOR
// child per sector type.
type SectorType string

const (
	SectorSocial         SectorType = "social"
	SectorEconomic       SectorType = "economic"
	SectorOrganizational SectorType = "organizational"
	SectorPolitical      SectorType = "political"
)

func NewSectorType(s string) (SectorType, error) {
	st := SectorType(s)
	if !st.IsValid() {
		return "", errors.New("invalid sector type")
	}
	return st, nil
}

func (s SectorType) IsValid() bool {
	switch s {
	case SectorSocial, SectorEconomic, SectorOrganizational, SectorPolitical:
		return true
	}
	return false
}

func (s SectorType) String() string {
	return string(s)
}

// Label is the human-readable suffix used when naming mirrored sector nodes.
func (s SectorType) Label() string {
	switch s {
	case SectorSocial:
		return "Social"
	case SectorEconomic:
		return "Economic"
	case SectorOrganizational:
		return "Organizational"
	case SectorPolitical:
		return "Political"
	}
	return ""
}

// SectorTypes lists all sector types in a stable order.
func SectorTypes() []SectorType {
	return []SectorType{SectorSocial, SectorEconomic, SectorOrganizational, SectorPolitical}
}
