package tree

import "github.com/tanzim-io/tanzim/pkg/serrors"

var (
	// ErrNotFound covers both a missing node id and an inactive node:
	// neither may be silently treated as "no match" by callers.
	ErrNotFound = serrors.NewError("HIERARCHY_NOT_FOUND", "hierarchy node not found", "Hierarchy.NotFound")
)
