package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/events"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/position"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
	"github.com/tanzim-io/tanzim/pkg/eventbus"
)

// AssignmentService writes member positions. A leaf assignment is only ever
// accepted together with a fresh derivation of its ancestor chain; ancestor
// ids supplied by callers are discarded.
type AssignmentService struct {
	positions PositionStore
	deriver   *HierarchyDeriver
	resolver  *ScopeResolver
	guard     *PermissionGuard
	bus       eventbus.EventBus
}

func NewAssignmentService(positions PositionStore, hierarchy HierarchyStore, bus eventbus.EventBus) *AssignmentService {
	deriver := NewHierarchyDeriver(hierarchy)
	return &AssignmentService{
		positions: positions,
		deriver:   deriver,
		resolver:  NewScopeResolver(deriver),
		guard:     NewPermissionGuard(hierarchy, deriver),
		bus:       bus,
	}
}

type AssignLeafInput struct {
	UserID     uuid.UUID
	AdminLevel position.AdminLevel
	TreeKind   tree.TreeKind
	LeafID     uuid.UUID
}

// AssignLeaf binds a user to a leaf node and persists the derived ancestor
// chain. Assigning an administrative level requires the target leaf to lie
// inside the acting admin's authority subtree.
func (s *AssignmentService) AssignLeaf(ctx context.Context, actor position.ActorPosition, requestID string, in AssignLeafInput) (*StoredPosition, error) {
	if in.UserID == uuid.Nil || in.LeafID == uuid.Nil || !in.TreeKind.IsValid() {
		return nil, newServiceError(http.StatusBadRequest, "ASSIGNMENT_INVALID_BODY", "user, tree kind and leaf are required", nil)
	}
	if !in.AdminLevel.IsValid() {
		return nil, newServiceError(http.StatusBadRequest, "ASSIGNMENT_INVALID_BODY", "invalid admin level", nil)
	}

	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	leafID := in.LeafID
	candidate := position.ActorPosition{
		UserID:          in.UserID,
		AdminLevel:      in.AdminLevel,
		ActiveHierarchy: in.TreeKind,
	}
	switch in.TreeKind {
	case tree.KindOriginal:
		candidate.OriginalLeafID = &leafID
	case tree.KindExpatriate:
		candidate.ExpatriateRegionID = &leafID
	case tree.KindSector:
		candidate.SectorLeafID = &leafID
	}

	allowed, err := s.guard.CanAssignAdmin(ctx, scope, candidate)
	if err != nil {
		if errors.Is(err, tree.ErrNotFound) {
			return nil, forbiddenAsNotFound("HIERARCHY_NOT_FOUND")
		}
		return nil, err
	}
	if !allowed {
		return nil, forbiddenAsNotFound("HIERARCHY_NOT_FOUND")
	}

	// The chain is re-derived here even though the guard already walked it:
	// the persisted ancestors must come from this derivation, not from any
	// caller-supplied value.
	chain, err := s.deriver.Derive(ctx, in.TreeKind, in.LeafID)
	if err != nil {
		if errors.Is(err, tree.ErrNotFound) {
			return nil, forbiddenAsNotFound("HIERARCHY_NOT_FOUND")
		}
		return nil, err
	}

	stored, err := s.loadOrInit(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	stored.AdminLevel = in.AdminLevel.String()
	stored.ActiveHierarchy = in.TreeKind
	switch in.TreeKind {
	case tree.KindOriginal:
		stored.Original = chain
	case tree.KindExpatriate:
		stored.Expatriate = chain
	case tree.KindSector:
		stored.Sector = chain
	}

	err = inTx(ctx, func(txCtx context.Context) error {
		return mapPgError(s.positions.SavePosition(txCtx, stored))
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.PositionAssignedV1{
		EventVersion:    events.EventVersionV1,
		RequestID:       requestID,
		InitiatorID:     actor.UserID,
		TransactionTime: time.Now().UTC(),
		UserID:          in.UserID,
		TreeKind:        in.TreeKind,
		LeafID:          in.LeafID,
	})
	return &stored, nil
}

// Actor resolves a user id into the actor shape request handlers attach to
// the context. A user with no stored position is still a valid actor: a
// positionless member who matches no targeted content.
func (s *AssignmentService) Actor(ctx context.Context, userID uuid.UUID) (position.ActorPosition, error) {
	stored, err := s.positions.GetPosition(ctx, userID)
	if err != nil {
		if errors.Is(err, tree.ErrNotFound) || errors.Is(mapPgError(err), tree.ErrNotFound) {
			return position.ActorPosition{UserID: userID, AdminLevel: position.AdminMember}, nil
		}
		return position.ActorPosition{}, mapPgError(err)
	}
	return stored.ToActor(), nil
}

// Position loads a member's stored position with its derived chains.
func (s *AssignmentService) Position(ctx context.Context, userID uuid.UUID) (StoredPosition, error) {
	pos, err := s.positions.GetPosition(ctx, userID)
	if err != nil {
		return StoredPosition{}, mapPgError(err)
	}
	return pos, nil
}

func (s *AssignmentService) loadOrInit(ctx context.Context, userID uuid.UUID) (StoredPosition, error) {
	stored, err := s.positions.GetPosition(ctx, userID)
	if err == nil {
		return stored, nil
	}
	if errors.Is(err, tree.ErrNotFound) || errors.Is(mapPgError(err), tree.ErrNotFound) {
		return StoredPosition{UserID: userID}, nil
	}
	return StoredPosition{}, mapPgError(err)
}
