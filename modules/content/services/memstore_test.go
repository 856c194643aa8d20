package services

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tanzim-io/tanzim/modules/content/domain/item"
	"github.com/tanzim-io/tanzim/modules/content/domain/plan"
	"github.com/tanzim-io/tanzim/modules/content/domain/target"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
	hierarchysvc "github.com/tanzim-io/tanzim/modules/hierarchy/services"
	"github.com/tanzim-io/tanzim/pkg/eventbus"
	"github.com/tanzim-io/tanzim/pkg/predicate"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// hierStore is the in-memory hierarchy fake backing the content tests.
type hierStore struct {
	mu    sync.RWMutex
	nodes map[uuid.UUID]tree.Node
}

func newHierStore() *hierStore {
	return &hierStore{nodes: make(map[uuid.UUID]tree.Node)}
}

func (m *hierStore) GetNode(_ context.Context, id uuid.UUID) (tree.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, ok := m.nodes[id]
	if !ok {
		return tree.Node{}, tree.ErrNotFound
	}
	return node, nil
}

func (m *hierStore) CreateNode(_ context.Context, node tree.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[node.ID] = node
	return nil
}

func (m *hierStore) UpdateNode(_ context.Context, node tree.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[node.ID]; !ok {
		return tree.ErrNotFound
	}
	m.nodes[node.ID] = node
	return nil
}

func (m *hierStore) DeleteNode(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[id]; !ok {
		return tree.ErrNotFound
	}
	delete(m.nodes, id)
	return nil
}

func (m *hierStore) CountChildren(_ context.Context, id uuid.UUID) (int, error) {
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

func (m *hierStore) CountAssignedMembers(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}

func (m *hierStore) SectorMirrors(_ context.Context, originalID uuid.UUID) (map[tree.SectorType]tree.Node, error) {
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

func (m *hierStore) ListUnlinkedSectorNodes(_ context.Context) ([]tree.Node, error) {
	return nil, nil
}

func (m *hierStore) addNode(kind tree.TreeKind, level tree.Level, name string, parentID *uuid.UUID) tree.Node {
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

// geoFixture is the standard original-tree fixture:
// N1 -> R1 -> L1 -> A1 -> D1, plus sibling region R2 with district D2.
type geoFixture struct {
	N1, R1, R2, L1, A1, D1 tree.Node
	L2, A2, D2             tree.Node
}

func seedGeoTree(store *hierStore) geoFixture {
	n1 := store.addNode(tree.KindOriginal, tree.LevelNational, "N1", nil)
	r1 := store.addNode(tree.KindOriginal, tree.LevelRegion, "R1", &n1.ID)
	r2 := store.addNode(tree.KindOriginal, tree.LevelRegion, "R2", &n1.ID)
	l1 := store.addNode(tree.KindOriginal, tree.LevelLocality, "L1", &r1.ID)
	a1 := store.addNode(tree.KindOriginal, tree.LevelAdminUnit, "A1", &l1.ID)
	d1 := store.addNode(tree.KindOriginal, tree.LevelDistrict, "D1", &a1.ID)
	l2 := store.addNode(tree.KindOriginal, tree.LevelLocality, "L2", &r2.ID)
	a2 := store.addNode(tree.KindOriginal, tree.LevelAdminUnit, "A2", &l2.ID)
	d2 := store.addNode(tree.KindOriginal, tree.LevelDistrict, "D2", &a2.ID)
	return geoFixture{N1: n1, R1: r1, R2: r2, L1: l1, A1: a1, D1: d1, L2: l2, A2: a2, D2: d2}
}

// memContentStore evaluates predicate expressions in memory, mirroring what
// the SQL renderer does against the content_items columns.
type memContentStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*item.Item
	plans map[uuid.UUID]*plan.Plan
}

func newMemContentStore() *memContentStore {
	return &memContentStore{
		items: make(map[uuid.UUID]*item.Item),
		plans: make(map[uuid.UUID]*plan.Plan),
	}
}

func (m *memContentStore) GetItem(_ context.Context, id uuid.UUID) (*item.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *memContentStore) CreateItem(_ context.Context, it *item.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *memContentStore) SetApproval(_ context.Context, id uuid.UUID, approved bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return item.ErrNotFound
	}
	it.Approved = approved
	return nil
}

func (m *memContentStore) DeleteItem(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return item.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memContentStore) ListVisible(_ context.Context, kind item.Kind, visible predicate.Expr, limit, offset int) ([]*item.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*item.Item
	for _, it := range m.items {
		if it.Kind != kind {
			continue
		}
		if evalExpr(visible, it) {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memContentStore) SavePlan(_ context.Context, p *plan.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.plans[p.ItemID] = &cp
	return nil
}

func (m *memContentStore) GetPlan(_ context.Context, itemID uuid.UUID) (*plan.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plans[itemID]
	if !ok {
		return nil, item.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func evalExpr(e predicate.Expr, it *item.Item) bool {
	switch typed := e.(type) {
	case predicate.MatchAllExpr:
		return true
	case predicate.MatchNoneExpr:
		return false
	case predicate.AndExpr:
		for _, op := range typed.Operands {
			if !evalExpr(op, it) {
				return false
			}
		}
		return true
	case predicate.OrExpr:
		for _, op := range typed.Operands {
			if evalExpr(op, it) {
				return true
			}
		}
		return false
	case predicate.EqExpr:
		return evalEq(typed, it)
	case predicate.IsNullExpr:
		return evalIsNull(typed, it)
	}
	return false
}

func evalIsNull(isNull predicate.IsNullExpr, it *item.Item) bool {
	for _, kind := range tree.Kinds() {
		for _, level := range target.Levels(kind) {
			if target.Column(kind, level) == isNull.Field {
				return it.Target.IDAt(kind, level) == nil
			}
		}
	}
	return false
}

func evalEq(eq predicate.EqExpr, it *item.Item) bool {
	switch eq.Field {
	case target.ColumnApproved:
		want, ok := eq.Value.(bool)
		return ok && it.Approved == want
	case target.ColumnCreator:
		want, ok := eq.Value.(uuid.UUID)
		return ok && it.CreatorID == want
	}

	for _, kind := range tree.Kinds() {
		for _, level := range target.Levels(kind) {
			if target.Column(kind, level) != eq.Field {
				continue
			}
			id := it.Target.IDAt(kind, level)
			want, ok := eq.Value.(uuid.UUID)
			return ok && id != nil && *id == want
		}
	}
	return false
}

func newContentFixture() (*hierStore, geoFixture, *memContentStore, *ContentService) {
	hs := newHierStore()
	fix := seedGeoTree(hs)
	cs := newMemContentStore()

	bus := eventbus.NewEventPublisher(testLogger())
	hierarchy := hierarchysvc.NewHierarchyService(hs, bus)
	svc := NewContentService(cs, hierarchy, bus)
	return hs, fix, cs, svc
}
