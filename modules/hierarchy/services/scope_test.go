package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/position"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
)

func TestResolve_RootIsUniversal(t *testing.T) {
	resolver := NewScopeResolver(NewHierarchyDeriver(newMemStore()))

	scope, err := resolver.Resolve(context.Background(), position.ActorPosition{
		UserID:     uuid.New(),
		AdminLevel: position.AdminRoot,
	})
	require.NoError(t, err)
	require.True(t, scope.IsUniversal())
	require.False(t, scope.IsEmpty())
}

func TestResolve_AdminWithoutLeafFailsClosed(t *testing.T) {
	resolver := NewScopeResolver(NewHierarchyDeriver(newMemStore()))

	for _, level := range []position.AdminLevel{
		position.AdminNational,
		position.AdminRegion,
		position.AdminLocality,
		position.AdminAdminUnit,
		position.AdminDistrict,
	} {
		scope, err := resolver.Resolve(context.Background(), position.ActorPosition{
			UserID:          uuid.New(),
			AdminLevel:      level,
			ActiveHierarchy: tree.KindOriginal,
		})
		require.NoError(t, err, level)
		require.True(t, scope.IsEmpty(), level)
		require.False(t, scope.IsUniversal(), level)
	}
}

func TestResolve_MemberHasNoScope(t *testing.T) {
	store := newMemStore()
	fix := seedGeoTree(store)
	resolver := NewScopeResolver(NewHierarchyDeriver(store))

	scope, err := resolver.Resolve(context.Background(), position.ActorPosition{
		UserID:          uuid.New(),
		AdminLevel:      position.AdminMember,
		ActiveHierarchy: tree.KindOriginal,
		OriginalLeafID:  &fix.D1.ID,
	})
	require.NoError(t, err)
	require.True(t, scope.IsEmpty())
}

func TestResolve_RegionAdmin(t *testing.T) {
	store := newMemStore()
	fix := seedGeoTree(store)
	resolver := NewScopeResolver(NewHierarchyDeriver(store))

	scope, err := resolver.Resolve(context.Background(), position.ActorPosition{
		UserID:          uuid.New(),
		AdminLevel:      position.AdminRegion,
		ActiveHierarchy: tree.KindOriginal,
		OriginalLeafID:  &fix.R1.ID,
	})
	require.NoError(t, err)
	require.False(t, scope.IsEmpty())
	require.Equal(t, fix.R1.ID, scope.AuthorityRootID)
	require.Equal(t, tree.LevelRegion, scope.AuthorityLevel)
	require.Len(t, scope.Chain, 2)
}

func TestResolve_DistrictAdminAuthorityAtDeclaredLevel(t *testing.T) {
	store := newMemStore()
	fix := seedGeoTree(store)
	resolver := NewScopeResolver(NewHierarchyDeriver(store))

	scope, err := resolver.Resolve(context.Background(), position.ActorPosition{
		UserID:          uuid.New(),
		AdminLevel:      position.AdminDistrict,
		ActiveHierarchy: tree.KindOriginal,
		OriginalLeafID:  &fix.D1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, fix.D1.ID, scope.AuthorityRootID)
	require.Len(t, scope.Chain, 5)
}

func TestResolve_DanglingLeafFailsClosed(t *testing.T) {
	store := newMemStore()
	seedGeoTree(store)
	resolver := NewScopeResolver(NewHierarchyDeriver(store))

	missing := uuid.New()
	scope, err := resolver.Resolve(context.Background(), position.ActorPosition{
		UserID:          uuid.New(),
		AdminLevel:      position.AdminRegion,
		ActiveHierarchy: tree.KindOriginal,
		OriginalLeafID:  &missing,
	})
	require.NoError(t, err)
	require.True(t, scope.IsEmpty())
}

type failingStore struct {
	*memStore
	err error
}

func (f *failingStore) GetNode(context.Context, uuid.UUID) (tree.Node, error) {
	return tree.Node{}, f.err
}

func TestResolve_StoreOutagePropagates(t *testing.T) {
	store := newMemStore()
	fix := seedGeoTree(store)
	outage := errors.New("connection refused")
	resolver := NewScopeResolver(NewHierarchyDeriver(&failingStore{memStore: store, err: outage}))

	// Only a missing node fails closed; an infrastructure failure must
	// surface instead of masquerading as a denial.
	_, err := resolver.Resolve(context.Background(), position.ActorPosition{
		UserID:          uuid.New(),
		AdminLevel:      position.AdminRegion,
		ActiveHierarchy: tree.KindOriginal,
		OriginalLeafID:  &fix.R1.ID,
	})
	require.ErrorIs(t, err, outage)
}

func TestResolve_LeafShallowerThanDeclaredLevelFailsClosed(t *testing.T) {
	store := newMemStore()
	fix := seedGeoTree(store)
	resolver := NewScopeResolver(NewHierarchyDeriver(store))

	// A District admin whose assignment stops at Region level has no node
	// at their declared level, so they get no scope at all.
	scope, err := resolver.Resolve(context.Background(), position.ActorPosition{
		UserID:          uuid.New(),
		AdminLevel:      position.AdminDistrict,
		ActiveHierarchy: tree.KindOriginal,
		OriginalLeafID:  &fix.R1.ID,
	})
	require.NoError(t, err)
	require.True(t, scope.IsEmpty())
}
