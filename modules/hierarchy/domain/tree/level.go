package tree

import "errors"

// Level is the depth of a node within a tree. NationalLevel is the root;
// District is the deepest leaf level.
type Level string

const (
	LevelNational  Level = "national_level"
	LevelRegion    Level = "region"
	LevelLocality  Level = "locality"
	LevelAdminUnit Level = "admin_unit"
	LevelDistrict  Level = "district"
)

var levelOrder = []Level{
	LevelNational,
	LevelRegion,
	LevelLocality,
	LevelAdminUnit,
	LevelDistrict,
}

func NewLevel(l string) (Level, error) {
	level := Level(l)
	if !level.IsValid() {
		return "", errors.New("invalid hierarchy level")
	}
	return level, nil
}

func (l Level) IsValid() bool {
	switch l {
	case LevelNational, LevelRegion, LevelLocality, LevelAdminUnit, LevelDistrict:
		return true
	}
	return false
}

func (l Level) String() string {
	return string(l)
}

// Depth returns 0 for NationalLevel through 4 for District, -1 for an
// unknown level.
func (l Level) Depth() int {
	for i, level := range levelOrder {
		if level == l {
			return i
		}
	}
	return -1
}

// Parent returns the level directly above, false at the root.
func (l Level) Parent() (Level, bool) {
	d := l.Depth()
	if d <= 0 {
		return "", false
	}
	return levelOrder[d-1], true
}

// Child returns the level directly below, false at District.
func (l Level) Child() (Level, bool) {
	d := l.Depth()
	if d < 0 || d == len(levelOrder)-1 {
		return "", false
	}
	return levelOrder[d+1], true
}

// IsDirectlyBelow reports whether l sits exactly one level under parent.
func (l Level) IsDirectlyBelow(parent Level) bool {
	return l.Depth() == parent.Depth()+1
}

// Levels lists all levels from root to leaf.
func Levels() []Level {
	out := make([]Level, len(levelOrder))
	copy(out, levelOrder)
	return out
}
