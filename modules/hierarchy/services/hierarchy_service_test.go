package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/events"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/position"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
	"github.com/tanzim-io/tanzim/pkg/eventbus"
)

func rootActor() position.ActorPosition {
	return position.ActorPosition{UserID: uuid.New(), AdminLevel: position.AdminRoot}
}

func newServiceFixture(store *memStore) (*HierarchyService, *AssignmentService) {
	bus := eventbus.NewEventPublisher(testLogger())
	linker := NewSectorLinker(store, testLogger())
	bus.Subscribe(func(e events.NodeCreatedV1) {
		linker.OnNodeCreated(context.Background(), e.Node)
	})
	return NewHierarchyService(store, bus), NewAssignmentService(store, store, bus)
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, status, svcErr.Status)
}

func TestCreateNode_RegionAdminCreatesLocality(t *testing.T) {
	store := newMemStore()
	fix := seedGeoTree(store)
	svc, _ := newServiceFixture(store)

	actor := position.ActorPosition{
		UserID:          uuid.New(),
		AdminLevel:      position.AdminRegion,
		ActiveHierarchy: tree.KindOriginal,
		OriginalLeafID:  &fix.R1.ID,
	}
	node, err := svc.CreateNode(context.Background(), actor, "req-1", CreateNodeInput{
		TreeKind: tree.KindOriginal,
		Level:    tree.LevelLocality,
		Name:     "L2",
		ParentID: &fix.R1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, tree.LevelLocality, node.Level)

	stored, err := store.GetNode(context.Background(), node.ID)
	require.NoError(t, err)
	require.True(t, stored.Active)
}

func TestCreateNode_SiblingRegionAnsweredNotFound(t *testing.T) {
	store := newMemStore()
	fix := seedGeoTree(store)
	svc, _ := newServiceFixture(store)

	actor := position.ActorPosition{
		UserID:          uuid.New(),
		AdminLevel:      position.AdminRegion,
		ActiveHierarchy: tree.KindOriginal,
		OriginalLeafID:  &fix.R1.ID,
	}
	_, err := svc.CreateNode(context.Background(), actor, "req-1", CreateNodeInput{
		TreeKind: tree.KindOriginal,
		Level:    tree.LevelLocality,
		Name:     "Lx",
		ParentID: &fix.R2.ID,
	})
	requireStatus(t, err, http.StatusNotFound)
}

func TestCreateNode_OriginalTriggersSectorMirroring(t *testing.T) {
	store := newMemStore()
	fix := seedGeoTree(store)
	svc, _ := newServiceFixture(store)
	ctx := context.Background()

	node, err := svc.CreateNode(ctx, rootActor(), "req-1", CreateNodeInput{
		TreeKind: tree.KindOriginal,
		Level:    tree.LevelRegion,
		Name:     "R3",
		ParentID: &fix.N1.ID,
	})
	require.NoError(t, err)

	mirrors, err := store.SectorMirrors(ctx, node.ID)
	require.NoError(t, err)
	require.Len(t, mirrors, 4)
}

func TestDeactivateThenReactivate(t *testing.T) {
	store := newMemStore()
	fix := seedGeoTree(store)
	svc, _ := newServiceFixture(store)
	ctx := context.Background()

	require.NoError(t, svc.DeactivateNode(ctx, rootActor(), "req-1", fix.D1.ID))
	node, err := store.GetNode(ctx, fix.D1.ID)
	require.NoError(t, err)
	require.False(t, node.Active)

	require.NoError(t, svc.ReactivateNode(ctx, rootActor(), "req-2", fix.D1.ID))
	node, err = store.GetNode(ctx, fix.D1.ID)
	require.NoError(t, err)
	require.True(t, node.Active)
}

func TestDeleteNode_BlockedByChildrenAndMembers(t *testing.T) {
	store := newMemStore()
	fix := seedGeoTree(store)
	svc, _ := newServiceFixture(store)
	ctx := context.Background()

	err := svc.DeleteNode(ctx, rootActor(), fix.A1.ID)
	requireStatus(t, err, http.StatusConflict)

	store.setMembers(fix.D1.ID, 3)
	err = svc.DeleteNode(ctx, rootActor(), fix.D1.ID)
	requireStatus(t, err, http.StatusConflict)

	store.setMembers(fix.D1.ID, 0)
	require.NoError(t, svc.DeleteNode(ctx, rootActor(), fix.D1.ID))
	_, err = store.GetNode(ctx, fix.D1.ID)
	require.ErrorIs(t, err, tree.ErrNotFound)
}

func TestCreateNode_NonRootCannotCreateTreeRoot(t *testing.T) {
	store := newMemStore()
	fix := seedGeoTree(store)
	svc, _ := newServiceFixture(store)

	actor := position.ActorPosition{
		UserID:          uuid.New(),
		AdminLevel:      position.AdminRegion,
		ActiveHierarchy: tree.KindOriginal,
		OriginalLeafID:  &fix.R1.ID,
	}
	_, err := svc.CreateNode(context.Background(), actor, "req-1", CreateNodeInput{
		TreeKind: tree.KindOriginal,
		Level:    tree.LevelNational,
		Name:     "N2",
	})
	requireStatus(t, err, http.StatusNotFound)
}

func TestAssignLeaf_DerivesAndStoresChain(t *testing.T) {
	store := newMemStore()
	fix := seedGeoTree(store)
	_, assign := newServiceFixture(store)
	ctx := context.Background()

	userID := uuid.New()
	stored, err := assign.AssignLeaf(ctx, rootActor(), "req-1", AssignLeafInput{
		UserID:     userID,
		AdminLevel: position.AdminMember,
		TreeKind:   tree.KindOriginal,
		LeafID:     fix.D1.ID,
	})
	require.NoError(t, err)
	require.Len(t, stored.Original, 5)
	require.Equal(t, fix.N1.ID, stored.Original[0].NodeID)
	require.Equal(t, fix.D1.ID, stored.Original[4].NodeID)

	persisted, err := assign.Position(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, stored.Original, persisted.Original)
}

func TestAssignLeaf_AdminOutsideScopeAnsweredNotFound(t *testing.T) {
	store := newMemStore()
	fix := seedGeoTree(store)
	_, assign := newServiceFixture(store)

	actor := position.ActorPosition{
		UserID:          uuid.New(),
		AdminLevel:      position.AdminRegion,
		ActiveHierarchy: tree.KindOriginal,
		OriginalLeafID:  &fix.R1.ID,
	}
	_, err := assign.AssignLeaf(context.Background(), actor, "req-1", AssignLeafInput{
		UserID:     uuid.New(),
		AdminLevel: position.AdminLocality,
		TreeKind:   tree.KindOriginal,
		LeafID:     fix.R2.ID,
	})
	requireStatus(t, err, http.StatusNotFound)
}

func TestActor_KnownAndUnknownUsers(t *testing.T) {
	store := newMemStore()
	fix := seedGeoTree(store)
	_, assign := newServiceFixture(store)
	ctx := context.Background()

	userID := uuid.New()
	_, err := assign.AssignLeaf(ctx, rootActor(), "req-1", AssignLeafInput{
		UserID:     userID,
		AdminLevel: position.AdminDistrict,
		TreeKind:   tree.KindOriginal,
		LeafID:     fix.D1.ID,
	})
	require.NoError(t, err)

	actor, err := assign.Actor(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, position.AdminDistrict, actor.AdminLevel)
	require.Equal(t, fix.D1.ID, *actor.OriginalLeafID)

	// A user with no stored position resolves to a positionless member.
	stranger, err := assign.Actor(ctx, uuid.New())
	require.NoError(t, err)
	require.Equal(t, position.AdminMember, stranger.AdminLevel)
	require.Nil(t, stranger.OriginalLeafID)
}

// End-to-end: build N1 -> R1 -> L1 -> A1 -> D1 through the service, with
// sector mirroring riding the event bus, then verify a member's derivation.
func TestEndToEnd_BuildTreeAndDeriveMember(t *testing.T) {
	store := newMemStore()
	svc, assign := newServiceFixture(store)
	ctx := context.Background()
	root := rootActor()

	n1, err := svc.CreateNode(ctx, root, "req-1", CreateNodeInput{
		TreeKind: tree.KindOriginal, Level: tree.LevelNational, Name: "N1",
	})
	require.NoError(t, err)

	r1, err := svc.CreateNode(ctx, root, "req-2", CreateNodeInput{
		TreeKind: tree.KindOriginal, Level: tree.LevelRegion, Name: "R1", ParentID: &n1.ID,
	})
	require.NoError(t, err)
	r2, err := svc.CreateNode(ctx, root, "req-3", CreateNodeInput{
		TreeKind: tree.KindOriginal, Level: tree.LevelRegion, Name: "R2", ParentID: &n1.ID,
	})
	require.NoError(t, err)

	// R1's four sector mirrors exist and are parentless.
	r1Mirrors, err := store.SectorMirrors(ctx, r1.ID)
	require.NoError(t, err)
	require.Len(t, r1Mirrors, 4)
	for _, mirror := range r1Mirrors {
		require.Nil(t, mirror.ParentSectorID)
	}

	l1, err := svc.CreateNode(ctx, root, "req-4", CreateNodeInput{
		TreeKind: tree.KindOriginal, Level: tree.LevelLocality, Name: "L1", ParentID: &r1.ID,
	})
	require.NoError(t, err)

	// L1's mirrors link to R1's matching-type mirrors.
	l1Mirrors, err := store.SectorMirrors(ctx, l1.ID)
	require.NoError(t, err)
	require.Len(t, l1Mirrors, 4)
	for _, sectorType := range tree.SectorTypes() {
		require.Equal(t, r1Mirrors[sectorType].ID, *l1Mirrors[sectorType].ParentSectorID)
	}

	a1, err := svc.CreateNode(ctx, root, "req-5", CreateNodeInput{
		TreeKind: tree.KindOriginal, Level: tree.LevelAdminUnit, Name: "A1", ParentID: &l1.ID,
	})
	require.NoError(t, err)
	d1, err := svc.CreateNode(ctx, root, "req-6", CreateNodeInput{
		TreeKind: tree.KindOriginal, Level: tree.LevelDistrict, Name: "D1", ParentID: &a1.ID,
	})
	require.NoError(t, err)

	userID := uuid.New()
	stored, err := assign.AssignLeaf(ctx, root, "req-7", AssignLeafInput{
		UserID:     userID,
		AdminLevel: position.AdminMember,
		TreeKind:   tree.KindOriginal,
		LeafID:     d1.ID,
	})
	require.NoError(t, err)

	want := []uuid.UUID{n1.ID, r1.ID, l1.ID, a1.ID, d1.ID}
	require.Len(t, stored.Original, len(want))
	for i, id := range want {
		require.Equal(t, id, stored.Original[i].NodeID)
	}
	require.NotEqual(t, r2.ID, stored.Original[1].NodeID)
}
