package tree

import "errors"

// TreeKind identifies which of the parallel administrative hierarchies a
// node belongs to.
type TreeKind string

const (
	KindOriginal   TreeKind = "original"
	KindExpatriate TreeKind = "expatriate"
	KindSector     TreeKind = "sector"
)

func NewTreeKind(k string) (TreeKind, error) {
	kind := TreeKind(k)
	if !kind.IsValid() {
		return "", errors.New("invalid tree kind")
	}
	return kind, nil
}

func (k TreeKind) IsValid() bool {
	switch k {
	case KindOriginal, KindExpatriate, KindSector:
		return true
	}
	return false
}

func (k TreeKind) String() string {
	return string(k)
}

// Kinds lists all tree kinds in a stable order.
func Kinds() []TreeKind {
	return []TreeKind{KindOriginal, KindExpatriate, KindSector}
}

// RootLevel is the topmost level a tree of this kind reaches. The original
// tree is rooted at NationalLevel; the expatriate and sector trees start at
// Region.
func (k TreeKind) RootLevel() Level {
	switch k {
	case KindOriginal:
		return LevelNational
	case KindExpatriate, KindSector:
		return LevelRegion
	}
	return ""
}
