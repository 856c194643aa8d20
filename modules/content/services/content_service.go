package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/content/domain/events"
	"github.com/tanzim-io/tanzim/modules/content/domain/item"
	"github.com/tanzim-io/tanzim/modules/content/domain/plan"
	"github.com/tanzim-io/tanzim/modules/content/domain/target"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/position"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
	hierarchysvc "github.com/tanzim-io/tanzim/modules/hierarchy/services"
	"github.com/tanzim-io/tanzim/pkg/eventbus"
	"github.com/tanzim-io/tanzim/pkg/predicate"
)

// ContentService owns the lifecycle of distributable content: creation with
// target validation, approval for reviewable kinds and visibility-filtered
// reads.
type ContentService struct {
	store    ContentStore
	targets  *TargetService
	filter   *VisibilityFilterBuilder
	deriver  *hierarchysvc.HierarchyDeriver
	resolver *hierarchysvc.ScopeResolver
	guard    *hierarchysvc.PermissionGuard
	bus      eventbus.EventBus
}

func NewContentService(store ContentStore, hierarchy *hierarchysvc.HierarchyService, bus eventbus.EventBus) *ContentService {
	deriver := hierarchy.Deriver()
	return &ContentService{
		store:    store,
		targets:  NewTargetService(deriver),
		filter:   NewVisibilityFilterBuilder(deriver),
		deriver:  deriver,
		resolver: hierarchy.Resolver(),
		guard:    hierarchy.Guard(),
		bus:      bus,
	}
}

func (s *ContentService) Targets() *TargetService { return s.targets }

func (s *ContentService) Filter() *VisibilityFilterBuilder { return s.filter }

type PlanInput struct {
	PriceAmount  int64
	Currency     string
	PeriodMonths int
}

type CreateItemInput struct {
	Kind   item.Kind
	Title  string
	Body   string
	Target *target.Spec
	Plan   *PlanInput
}

// CreateItem persists a new content item. A nil target is auto-filled from
// the creating actor's own position; explicit targets are validated against
// the derived ancestor chains first. Reviewable kinds start unapproved.
func (s *ContentService) CreateItem(ctx context.Context, actor position.ActorPosition, requestID string, in CreateItemInput) (*item.Item, error) {
	in.Title = strings.TrimSpace(in.Title)
	if !in.Kind.IsValid() || in.Title == "" {
		return nil, newServiceError(http.StatusBadRequest, "CONTENT_INVALID_BODY", "kind and title are required", nil)
	}

	spec := in.Target
	if spec == nil {
		filled, err := s.targets.FillFromPosition(ctx, actor)
		if err != nil {
			return nil, newServiceError(http.StatusBadRequest, "CONTENT_TARGET_REQUIRED", "actor has no position to target; supply an explicit target", err)
		}
		spec = filled
	}

	if err := s.targets.Validate(ctx, spec); err != nil {
		return nil, mapTargetError(err)
	}

	now := time.Now()
	it := &item.Item{
		ID:        uuid.New(),
		Kind:      in.Kind,
		Title:     in.Title,
		Body:      in.Body,
		CreatorID: actor.UserID,
		Approved:  !in.Kind.Reviewable(),
		Target:    *spec,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := it.Validate(); err != nil {
		return nil, newServiceError(http.StatusBadRequest, "CONTENT_INVALID_BODY", err.Error(), err)
	}

	err := inTx(ctx, func(txCtx context.Context) error {
		if err := s.store.CreateItem(txCtx, it); err != nil {
			return err
		}
		if in.Kind == item.KindPlan && in.Plan != nil {
			p := &plan.Plan{
				ItemID:       it.ID,
				PriceAmount:  in.Plan.PriceAmount,
				Currency:     in.Plan.Currency,
				PeriodMonths: in.Plan.PeriodMonths,
			}
			if err := p.Validate(); err != nil {
				return newServiceError(http.StatusBadRequest, "CONTENT_INVALID_PLAN", err.Error(), err)
			}
			return s.store.SavePlan(txCtx, p)
		}
		return nil
	})
	if err != nil {
		return nil, mapPgError(err)
	}

	s.bus.Publish(events.ItemCreatedV1{
		EventVersion:    events.EventVersionV1,
		RequestID:       requestID,
		InitiatorID:     actor.UserID,
		TransactionTime: time.Now(),
		Item:            *it,
	})
	return it, nil
}

// SetApproval flips the approval state of a reviewable item. The acting
// admin's authority subtree must cover the item's target in the admin's own
// tree.
func (s *ContentService) SetApproval(ctx context.Context, actor position.ActorPosition, requestID string, itemID uuid.UUID, approved bool) error {
	it, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return mapPgError(err)
	}
	if !it.Kind.Reviewable() {
		return newServiceError(http.StatusUnprocessableEntity, "CONTENT_NOT_REVIEWABLE", "content kind has no approval workflow", nil)
	}

	if err := s.authorizeManage(ctx, actor, it); err != nil {
		return err
	}

	if err := inTx(ctx, func(txCtx context.Context) error {
		return s.store.SetApproval(txCtx, itemID, approved)
	}); err != nil {
		return mapPgError(err)
	}

	s.bus.Publish(events.ItemApprovedV1{
		EventVersion:    events.EventVersionV1,
		RequestID:       requestID,
		InitiatorID:     actor.UserID,
		TransactionTime: time.Now(),
		ItemID:          itemID,
		Approved:        approved,
	})
	return nil
}

// DeleteItem removes an item. Creators may delete their own items; admins
// may delete items targeted inside their authority subtree.
func (s *ContentService) DeleteItem(ctx context.Context, actor position.ActorPosition, itemID uuid.UUID) error {
	it, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return mapPgError(err)
	}
	if it.CreatorID != actor.UserID {
		if err := s.authorizeManage(ctx, actor, it); err != nil {
			return err
		}
	}
	return mapPgError(inTx(ctx, func(txCtx context.Context) error {
		return s.store.DeleteItem(txCtx, itemID)
	}))
}

// ListVisible returns the items of a kind the viewer may read, approval
// overlay applied for reviewable kinds. An empty predicate skips the store
// entirely.
func (s *ContentService) ListVisible(ctx context.Context, viewer position.ActorPosition, kind item.Kind, limit, offset int) ([]*item.Item, error) {
	if !kind.IsValid() {
		return nil, newServiceError(http.StatusBadRequest, "CONTENT_INVALID_KIND", "invalid content kind", nil)
	}

	visible, err := s.filter.BuildVisibilityPredicate(ctx, viewer, tree.Kinds())
	if err != nil {
		return nil, mapPgError(err)
	}
	visible = s.filter.ApprovalOverlay(visible, viewer, kind)

	if predicate.IsMatchNone(visible) {
		return []*item.Item{}, nil
	}

	items, err := s.store.ListVisible(ctx, kind, visible, limit, offset)
	if err != nil {
		return nil, mapPgError(err)
	}
	return items, nil
}

// GetItem returns a single item if the viewer may read it; everything else
// is a uniform not-found.
func (s *ContentService) GetItem(ctx context.Context, viewer position.ActorPosition, itemID uuid.UUID) (*item.Item, error) {
	it, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, mapPgError(err)
	}

	visible, err := s.visibleTo(ctx, viewer, it)
	if err != nil {
		return nil, mapPgError(err)
	}
	if !visible {
		return nil, forbiddenAsNotFound("CONTENT_NOT_FOUND")
	}
	return it, nil
}

// Plan returns the subscription terms of a plan item, subject to the same
// visibility rule as the item itself.
func (s *ContentService) Plan(ctx context.Context, viewer position.ActorPosition, itemID uuid.UUID) (*plan.Plan, error) {
	if _, err := s.GetItem(ctx, viewer, itemID); err != nil {
		return nil, err
	}
	p, err := s.store.GetPlan(ctx, itemID)
	if err != nil {
		return nil, mapPgError(err)
	}
	return p, nil
}

// visibleTo applies the visibility and approval rules to one loaded item.
func (s *ContentService) visibleTo(ctx context.Context, viewer position.ActorPosition, it *item.Item) (bool, error) {
	if viewer.IsRoot() {
		return true, nil
	}

	matched := false
	for _, kind := range tree.Kinds() {
		leafID := viewer.LeafID(kind)
		if leafID == nil {
			continue
		}
		chain, err := s.deriver.Derive(ctx, kind, *leafID)
		if err != nil {
			return false, err
		}
		if it.Target.MatchesChain(kind, chain) {
			matched = true
		}
	}
	if !matched {
		return false, nil
	}
	if it.Kind.Reviewable() && !it.Approved && it.CreatorID != viewer.UserID {
		return false, nil
	}
	return true, nil
}

// authorizeManage checks that the actor's authority subtree covers the
// item's target leaf in the actor's own tree.
func (s *ContentService) authorizeManage(ctx context.Context, actor position.ActorPosition, it *item.Item) error {
	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return mapPgError(err)
	}
	if scope.IsUniversal() {
		return nil
	}
	if scope.IsEmpty() {
		return forbiddenAsNotFound("CONTENT_NOT_FOUND")
	}

	_, leafID, ok := it.Target.Leaf(scope.TreeKind)
	if !ok {
		return forbiddenAsNotFound("CONTENT_NOT_FOUND")
	}

	allowed, err := s.guard.CanModify(ctx, scope, leafID)
	if err != nil {
		return mapPgError(err)
	}
	if !allowed {
		return forbiddenAsNotFound("CONTENT_NOT_FOUND")
	}
	return nil
}
