package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/position"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
)

func newGuardFixture(t *testing.T) (*memStore, geoFixture, *PermissionGuard, *ScopeResolver) {
	t.Helper()
	store := newMemStore()
	fix := seedGeoTree(store)
	deriver := NewHierarchyDeriver(store)
	return store, fix, NewPermissionGuard(store, deriver), NewScopeResolver(deriver)
}

func regionScope(t *testing.T, resolver *ScopeResolver, regionID uuid.UUID) Scope {
	t.Helper()
	scope, err := resolver.Resolve(context.Background(), position.ActorPosition{
		UserID:          uuid.New(),
		AdminLevel:      position.AdminRegion,
		ActiveHierarchy: tree.KindOriginal,
		OriginalLeafID:  &regionID,
	})
	require.NoError(t, err)
	require.False(t, scope.IsEmpty())
	return scope
}

func TestCanModify_DescendantInclusive(t *testing.T) {
	_, fix, guard, resolver := newGuardFixture(t)
	scope := regionScope(t, resolver, fix.R1.ID)
	ctx := context.Background()

	for _, node := range []tree.Node{fix.R1, fix.L1, fix.A1, fix.D1} {
		ok, err := guard.CanModify(ctx, scope, node.ID)
		require.NoError(t, err)
		require.True(t, ok, node.Name)
	}
}

func TestCanModify_SiblingAndAncestorDenied(t *testing.T) {
	_, fix, guard, resolver := newGuardFixture(t)
	scope := regionScope(t, resolver, fix.R1.ID)
	ctx := context.Background()

	ok, err := guard.CanModify(ctx, scope, fix.R2.ID)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = guard.CanModify(ctx, scope, fix.N1.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCanModify_OutsideTreeDenied(t *testing.T) {
	store, fix, guard, resolver := newGuardFixture(t)
	scope := regionScope(t, resolver, fix.R1.ID)

	expat := store.addNode(tree.KindExpatriate, tree.LevelRegion, "Gulf", nil)
	ok, err := guard.CanModify(context.Background(), scope, expat.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCanModify_UnknownNodeSurfacesNotFound(t *testing.T) {
	_, fix, guard, resolver := newGuardFixture(t)
	scope := regionScope(t, resolver, fix.R1.ID)

	_, err := guard.CanModify(context.Background(), scope, uuid.New())
	require.ErrorIs(t, err, tree.ErrNotFound)
}

func TestCanModify_RootAlwaysAllowed(t *testing.T) {
	_, fix, guard, _ := newGuardFixture(t)

	ok, err := guard.CanModify(context.Background(), UniversalScope(), fix.N1.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCanModify_EmptyScopeMatchesNothing(t *testing.T) {
	_, fix, guard, _ := newGuardFixture(t)
	ctx := context.Background()

	for _, node := range []tree.Node{fix.N1, fix.R1, fix.D1} {
		ok, err := guard.CanModify(ctx, EmptyScope(), node.ID)
		require.NoError(t, err)
		require.False(t, ok, node.Name)
	}
}

func TestCanModify_SoftDeletedDescendantStillOwned(t *testing.T) {
	store, fix, guard, resolver := newGuardFixture(t)
	scope := regionScope(t, resolver, fix.R1.ID)
	store.setActive(fix.L1.ID, false)

	ok, err := guard.CanModify(context.Background(), scope, fix.L1.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCanCreateUnder_LevelMustBeDirectlyBelow(t *testing.T) {
	_, fix, guard, resolver := newGuardFixture(t)
	scope := regionScope(t, resolver, fix.R1.ID)
	ctx := context.Background()

	ok, err := guard.CanCreateUnder(ctx, scope, fix.R1.ID, tree.LevelLocality)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = guard.CanCreateUnder(ctx, scope, fix.R1.ID, tree.LevelDistrict)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCanCreateUnder_OutsideSubtreeDenied(t *testing.T) {
	_, fix, guard, resolver := newGuardFixture(t)
	scope := regionScope(t, resolver, fix.R1.ID)

	ok, err := guard.CanCreateUnder(context.Background(), scope, fix.R2.ID, tree.LevelLocality)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCanCreateUnder_NationalAdminLimitedToRegions(t *testing.T) {
	_, fix, guard, resolver := newGuardFixture(t)
	scope, err := resolver.Resolve(context.Background(), position.ActorPosition{
		UserID:          uuid.New(),
		AdminLevel:      position.AdminNational,
		ActiveHierarchy: tree.KindOriginal,
		OriginalLeafID:  &fix.N1.ID,
	})
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := guard.CanCreateUnder(ctx, scope, fix.N1.ID, tree.LevelRegion)
	require.NoError(t, err)
	require.True(t, ok)

	// Anything deeper than Region is out of reach for a national admin.
	ok, err = guard.CanCreateUnder(ctx, scope, fix.R1.ID, tree.LevelLocality)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCanCreateUnder_InactiveParentIsNotFound(t *testing.T) {
	store, fix, guard, resolver := newGuardFixture(t)
	scope := regionScope(t, resolver, fix.R1.ID)
	store.setActive(fix.L1.ID, false)

	_, err := guard.CanCreateUnder(context.Background(), scope, fix.L1.ID, tree.LevelAdminUnit)
	require.ErrorIs(t, err, tree.ErrNotFound)
}

func TestCanCreateUnder_RootAllowed(t *testing.T) {
	_, fix, guard, _ := newGuardFixture(t)

	ok, err := guard.CanCreateUnder(context.Background(), UniversalScope(), fix.A1.ID, tree.LevelDistrict)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCanAssignAdmin_InsideSubtree(t *testing.T) {
	_, fix, guard, resolver := newGuardFixture(t)
	scope := regionScope(t, resolver, fix.R1.ID)

	candidate := position.ActorPosition{
		UserID:          uuid.New(),
		AdminLevel:      position.AdminDistrict,
		ActiveHierarchy: tree.KindOriginal,
		OriginalLeafID:  &fix.D1.ID,
	}
	ok, err := guard.CanAssignAdmin(context.Background(), scope, candidate)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCanAssignAdmin_OutsideSubtreeDenied(t *testing.T) {
	_, fix, guard, resolver := newGuardFixture(t)
	scope := regionScope(t, resolver, fix.R1.ID)

	candidate := position.ActorPosition{
		UserID:          uuid.New(),
		AdminLevel:      position.AdminRegion,
		ActiveHierarchy: tree.KindOriginal,
		OriginalLeafID:  &fix.R2.ID,
	}
	ok, err := guard.CanAssignAdmin(context.Background(), scope, candidate)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCanAssignAdmin_NoLeafDenied(t *testing.T) {
	_, fix, guard, resolver := newGuardFixture(t)
	scope := regionScope(t, resolver, fix.R1.ID)

	candidate := position.ActorPosition{
		UserID:     uuid.New(),
		AdminLevel: position.AdminDistrict,
	}
	ok, err := guard.CanAssignAdmin(context.Background(), scope, candidate)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCanAssignAdmin_RankCeiling(t *testing.T) {
	_, fix, guard, resolver := newGuardFixture(t)
	scope := regionScope(t, resolver, fix.R1.ID)

	// A Region admin may grant ranks up to their own, never above.
	for level, want := range map[position.AdminLevel]bool{
		position.AdminRoot:     false,
		position.AdminNational: false,
		position.AdminRegion:   true,
		position.AdminDistrict: true,
		position.AdminMember:   true,
	} {
		candidate := position.ActorPosition{
			UserID:          uuid.New(),
			AdminLevel:      level,
			ActiveHierarchy: tree.KindOriginal,
			OriginalLeafID:  &fix.D1.ID,
		}
		ok, err := guard.CanAssignAdmin(context.Background(), scope, candidate)
		require.NoError(t, err, level)
		require.Equal(t, want, ok, level)
	}
}

func TestCanAssignAdmin_RootAlwaysAllowed(t *testing.T) {
	_, _, guard, _ := newGuardFixture(t)

	ok, err := guard.CanAssignAdmin(context.Background(), UniversalScope(), position.ActorPosition{})
	require.NoError(t, err)
	require.True(t, ok)
}
