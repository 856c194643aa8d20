package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
)

// memStore is the in-memory HierarchyStore/PositionStore used across the
// package tests. It mirrors the repository contract, including ErrNotFound
// for missing ids.
type memStore struct {
	mu        sync.RWMutex
	nodes     map[uuid.UUID]tree.Node
	positions map[uuid.UUID]StoredPosition
	members   map[uuid.UUID]int
}

func newMemStore() *memStore {
	return &memStore{
		nodes:     make(map[uuid.UUID]tree.Node),
		positions: make(map[uuid.UUID]StoredPosition),
		members:   make(map[uuid.UUID]int),
	}
}

func (m *memStore) GetNode(_ context.Context, id uuid.UUID) (tree.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, ok := m.nodes[id]
	if !ok {
		return tree.Node{}, tree.ErrNotFound
	}
	return node, nil
}

func (m *memStore) CreateNode(_ context.Context, node tree.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[node.ID] = node
	return nil
}

func (m *memStore) UpdateNode(_ context.Context, node tree.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[node.ID]; !ok {
		return tree.ErrNotFound
	}
	m.nodes[node.ID] = node
	return nil
}

func (m *memStore) DeleteNode(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[id]; !ok {
		return tree.ErrNotFound
	}
	delete(m.nodes, id)
	return nil
}

func (m *memStore) CountChildren(_ context.Context, id uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, node := range m.nodes {
		if node.ParentID != nil && *node.ParentID == id {
			count++
		}
	}
	return count, nil
}

func (m *memStore) CountAssignedMembers(_ context.Context, id uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.members[id], nil
}

func (m *memStore) SectorMirrors(_ context.Context, originalID uuid.UUID) (map[tree.SectorType]tree.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[tree.SectorType]tree.Node)
	for _, node := range m.nodes {
		if node.TreeKind == tree.KindSector && node.MirrorOfID != nil && *node.MirrorOfID == originalID {
			out[node.SectorType] = node
		}
	}
	return out, nil
}

func (m *memStore) ListUnlinkedSectorNodes(_ context.Context) ([]tree.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []tree.Node
	for _, node := range m.nodes {
		if node.TreeKind == tree.KindSector && node.Level != tree.KindSector.RootLevel() && node.ParentSectorID == nil {
			out = append(out, node)
		}
	}
	return out, nil
}

func (m *memStore) SavePosition(_ context.Context, pos StoredPosition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[pos.UserID] = pos
	return nil
}

func (m *memStore) GetPosition(_ context.Context, userID uuid.UUID) (StoredPosition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pos, ok := m.positions[userID]
	if !ok {
		return StoredPosition{}, tree.ErrNotFound
	}
	return pos, nil
}

// addNode inserts a node directly, bypassing the service write path.
func (m *memStore) addNode(kind tree.TreeKind, level tree.Level, name string, parentID *uuid.UUID) tree.Node {
	node := tree.Node{
		ID:       uuid.New(),
		TreeKind: kind,
		Level:    level,
		Name:     name,
		Active:   true,
		ParentID: parentID,
	}
	m.mu.Lock()
	m.nodes[node.ID] = node
	m.mu.Unlock()
	return node
}

func (m *memStore) setActive(id uuid.UUID, active bool) {
	m.mu.Lock()
	node := m.nodes[id]
	node.Active = active
	m.nodes[id] = node
	m.mu.Unlock()
}

func (m *memStore) setMembers(id uuid.UUID, count int) {
	m.mu.Lock()
	m.members[id] = count
	m.mu.Unlock()
}

// geoFixture is the standard original-tree test fixture:
// N1 -> R1 -> L1 -> A1 -> D1, plus sibling region R2.
type geoFixture struct {
	N1, R1, R2, L1, A1, D1 tree.Node
}

func seedGeoTree(store *memStore) geoFixture {
	n1 := store.addNode(tree.KindOriginal, tree.LevelNational, "N1", nil)
	r1 := store.addNode(tree.KindOriginal, tree.LevelRegion, "R1", &n1.ID)
	r2 := store.addNode(tree.KindOriginal, tree.LevelRegion, "R2", &n1.ID)
	l1 := store.addNode(tree.KindOriginal, tree.LevelLocality, "L1", &r1.ID)
	a1 := store.addNode(tree.KindOriginal, tree.LevelAdminUnit, "A1", &l1.ID)
	d1 := store.addNode(tree.KindOriginal, tree.LevelDistrict, "D1", &a1.ID)
	return geoFixture{N1: n1, R1: r1, R2: r2, L1: l1, A1: a1, D1: d1}
}
