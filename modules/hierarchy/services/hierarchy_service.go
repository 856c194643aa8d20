package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/events"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/position"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
	"github.com/tanzim-io/tanzim/pkg/eventbus"
)

// HierarchyService is the administrative write path for hierarchy nodes.
// Every mutation resolves the acting admin's scope, consults the guard and
// re-derives ancestor chains from the store; nothing is cached between
// calls. Sector mirroring runs only after the node's own transaction has
// committed, via the event bus.
type HierarchyService struct {
	store    HierarchyStore
	deriver  *HierarchyDeriver
	resolver *ScopeResolver
	guard    *PermissionGuard
	bus      eventbus.EventBus
}

func NewHierarchyService(store HierarchyStore, bus eventbus.EventBus) *HierarchyService {
	deriver := NewHierarchyDeriver(store)
	return &HierarchyService{
		store:    store,
		deriver:  deriver,
		resolver: NewScopeResolver(deriver),
		guard:    NewPermissionGuard(store, deriver),
		bus:      bus,
	}
}

func (s *HierarchyService) Deriver() *HierarchyDeriver { return s.deriver }
func (s *HierarchyService) Resolver() *ScopeResolver   { return s.resolver }
func (s *HierarchyService) Guard() *PermissionGuard    { return s.guard }

type CreateNodeInput struct {
	TreeKind tree.TreeKind
	Level    tree.Level
	Name     string
	Code     string
	ParentID *uuid.UUID
}

// CreateNode persists a new node inside the actor's authority subtree and,
// for ORIGINAL nodes, triggers sector mirroring after commit.
func (s *HierarchyService) CreateNode(ctx context.Context, actor position.ActorPosition, requestID string, in CreateNodeInput) (*tree.Node, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)
	if in.Name == "" || !in.TreeKind.IsValid() || !in.Level.IsValid() {
		return nil, newServiceError(http.StatusBadRequest, "HIERARCHY_INVALID_BODY", "tree kind, level and name are required", nil)
	}

	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	if in.ParentID == nil {
		// Only ROOT may create tree roots.
		if in.Level != in.TreeKind.RootLevel() {
			return nil, newServiceError(http.StatusBadRequest, "HIERARCHY_PARENT_REQUIRED", "non-root level requires a parent", nil)
		}
		if !scope.IsUniversal() {
			return nil, forbiddenAsNotFound("HIERARCHY_NOT_FOUND")
		}
	} else {
		allowed, err := s.guard.CanCreateUnder(ctx, scope, *in.ParentID, in.Level)
		if err != nil {
			if errors.Is(err, tree.ErrNotFound) {
				return nil, forbiddenAsNotFound("HIERARCHY_NOT_FOUND")
			}
			return nil, err
		}
		if !allowed {
			return nil, forbiddenAsNotFound("HIERARCHY_NOT_FOUND")
		}
	}

	node := tree.Node{
		ID:       uuid.New(),
		TreeKind: in.TreeKind,
		Level:    in.Level,
		Name:     in.Name,
		Code:     in.Code,
		Active:   true,
		ParentID: in.ParentID,
	}
	if err := node.Validate(); err != nil {
		return nil, newServiceError(http.StatusBadRequest, "HIERARCHY_INVALID_BODY", err.Error(), err)
	}

	err = inTx(ctx, func(txCtx context.Context) error {
		return mapPgError(s.store.CreateNode(txCtx, node))
	})
	if err != nil {
		return nil, err
	}

	// Published after commit so subscribers (sector linker included) always
	// observe the committed node.
	s.bus.Publish(events.NodeCreatedV1{
		EventVersion:    events.EventVersionV1,
		RequestID:       requestID,
		InitiatorID:     actor.UserID,
		TransactionTime: time.Now().UTC(),
		Node:            node,
	})

	return &node, nil
}

type RenameNodeInput struct {
	NodeID uuid.UUID
	Name   string
	Code   string
}

// RenameNode updates a node's display attributes within the actor's scope.
func (s *HierarchyService) RenameNode(ctx context.Context, actor position.ActorPosition, requestID string, in RenameNodeInput) (*tree.Node, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.NodeID == uuid.Nil || in.Name == "" {
		return nil, newServiceError(http.StatusBadRequest, "HIERARCHY_INVALID_BODY", "id and name are required", nil)
	}

	node, err := s.authorizeModify(ctx, actor, in.NodeID)
	if err != nil {
		return nil, err
	}

	node.Name = in.Name
	if in.Code != "" {
		node.Code = strings.TrimSpace(in.Code)
	}

	err = inTx(ctx, func(txCtx context.Context) error {
		return mapPgError(s.store.UpdateNode(txCtx, *node))
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.NodeUpdatedV1{
		EventVersion:    events.EventVersionV1,
		RequestID:       requestID,
		InitiatorID:     actor.UserID,
		TransactionTime: time.Now().UTC(),
		Node:            *node,
	})
	return node, nil
}

// DeactivateNode soft-deletes a node. Nodes with children or assigned
// members may only ever be soft-deleted, never removed.
func (s *HierarchyService) DeactivateNode(ctx context.Context, actor position.ActorPosition, requestID string, nodeID uuid.UUID) error {
	node, err := s.authorizeModify(ctx, actor, nodeID)
	if err != nil {
		return err
	}

	node.Active = false
	err = inTx(ctx, func(txCtx context.Context) error {
		return mapPgError(s.store.UpdateNode(txCtx, *node))
	})
	if err != nil {
		return err
	}

	s.bus.Publish(events.NodeDeactivatedV1{
		EventVersion:    events.EventVersionV1,
		RequestID:       requestID,
		InitiatorID:     actor.UserID,
		TransactionTime: time.Now().UTC(),
		NodeID:          nodeID,
	})
	return nil
}

// ReactivateNode restores a soft-deleted node.
func (s *HierarchyService) ReactivateNode(ctx context.Context, actor position.ActorPosition, requestID string, nodeID uuid.UUID) error {
	node, err := s.authorizeModify(ctx, actor, nodeID)
	if err != nil {
		return err
	}

	node.Active = true
	err = inTx(ctx, func(txCtx context.Context) error {
		return mapPgError(s.store.UpdateNode(txCtx, *node))
	})
	if err != nil {
		return err
	}

	s.bus.Publish(events.NodeUpdatedV1{
		EventVersion:    events.EventVersionV1,
		RequestID:       requestID,
		InitiatorID:     actor.UserID,
		TransactionTime: time.Now().UTC(),
		Node:            *node,
	})
	return nil
}

// DeleteNode removes a node permanently. The delete is blocked while any
// children or assigned members still reference it.
func (s *HierarchyService) DeleteNode(ctx context.Context, actor position.ActorPosition, nodeID uuid.UUID) error {
	if _, err := s.authorizeModify(ctx, actor, nodeID); err != nil {
		return err
	}

	return inTx(ctx, func(txCtx context.Context) error {
		children, err := s.store.CountChildren(txCtx, nodeID)
		if err != nil {
			return mapPgError(err)
		}
		if children > 0 {
			return newServiceError(http.StatusConflict, "HIERARCHY_HAS_CHILDREN", "node still has children", nil)
		}
		members, err := s.store.CountAssignedMembers(txCtx, nodeID)
		if err != nil {
			return mapPgError(err)
		}
		if members > 0 {
			return newServiceError(http.StatusConflict, "HIERARCHY_HAS_MEMBERS", "node still has assigned members", nil)
		}
		return mapPgError(s.store.DeleteNode(txCtx, nodeID))
	})
}

// GetNode returns a node the actor is allowed to see. Out-of-scope ids are
// answered with not-found, the same as nonexistent ones.
func (s *HierarchyService) GetNode(ctx context.Context, actor position.ActorPosition, nodeID uuid.UUID) (*tree.Node, error) {
	return s.authorizeModify(ctx, actor, nodeID)
}

func (s *HierarchyService) authorizeModify(ctx context.Context, actor position.ActorPosition, nodeID uuid.UUID) (*tree.Node, error) {
	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	allowed, err := s.guard.CanModify(ctx, scope, nodeID)
	if err != nil {
		if errors.Is(err, tree.ErrNotFound) {
			return nil, forbiddenAsNotFound("HIERARCHY_NOT_FOUND")
		}
		return nil, err
	}
	if !allowed {
		return nil, forbiddenAsNotFound("HIERARCHY_NOT_FOUND")
	}

	node, err := s.store.GetNode(ctx, nodeID)
	if err != nil {
		if errors.Is(err, tree.ErrNotFound) {
			return nil, forbiddenAsNotFound("HIERARCHY_NOT_FOUND")
		}
		return nil, err
	}
	return &node, nil
}
