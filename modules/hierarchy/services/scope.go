package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/position"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
)

// Scope is the subtree an actor is authorized to act within plus the
// ancestor chain used for visibility matching. The zero value is the empty,
// fail-closed scope that matches nothing.
type Scope struct {
	universal       bool
	AuthorityRootID uuid.UUID
	AuthorityLevel  tree.Level
	TreeKind        tree.TreeKind
	Chain           tree.AncestorChain
}

// UniversalScope matches every node and every content item. Only ROOT
// actors resolve to it.
func UniversalScope() Scope {
	return Scope{universal: true}
}

// EmptyScope matches nothing. Malformed actors degrade to it instead of
// erroring so a missing assignment can never widen access.
func EmptyScope() Scope {
	return Scope{}
}

func (s Scope) IsUniversal() bool {
	return s.universal
}

func (s Scope) IsEmpty() bool {
	return !s.universal && s.AuthorityRootID == uuid.Nil
}

// ScopeResolver turns an actor's stored hierarchy position into a Scope.
type ScopeResolver struct {
	deriver *HierarchyDeriver
}

func NewScopeResolver(deriver *HierarchyDeriver) *ScopeResolver {
	return &ScopeResolver{deriver: deriver}
}

// Resolve computes the actor's authority subtree root and ancestor chain.
// ROOT actors get the universal scope. An admin below ROOT whose leaf
// assignment is missing, dangling, or shallower than their declared level
// resolves to the empty scope rather than an error. Store failures other
// than a missing node propagate so an outage is never reported as a denial.
func (r *ScopeResolver) Resolve(ctx context.Context, actor position.ActorPosition) (Scope, error) {
	if actor.IsRoot() {
		return UniversalScope(), nil
	}

	level, ok := actor.AdminLevel.TreeLevel()
	if !ok {
		// Members and unknown levels hold no administrative scope.
		return EmptyScope(), nil
	}

	leafID := actor.ActiveLeafID()
	if leafID == nil {
		return EmptyScope(), nil
	}

	chain, err := r.deriver.Derive(ctx, actor.ActiveHierarchy, *leafID)
	if errors.Is(err, tree.ErrNotFound) {
		// A dangling assignment fails closed, same as a missing one.
		return EmptyScope(), nil
	}
	if err != nil {
		return Scope{}, err
	}

	rootID, ok := chain.IDAtLevel(level)
	if !ok {
		return EmptyScope(), nil
	}

	return Scope{
		AuthorityRootID: rootID,
		AuthorityLevel:  level,
		TreeKind:        actor.ActiveHierarchy,
		Chain:           chain,
	}, nil
}
