package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
)

const EventVersionV1 = 1

// NodeCreatedV1 is published after a hierarchy node's creation transaction
// has committed. The sector linker and any projections subscribe to it.
type NodeCreatedV1 struct {
	EventVersion    int       `json:"event_version"`
	RequestID       string    `json:"request_id"`
	InitiatorID     uuid.UUID `json:"initiator_id"`
	TransactionTime time.Time `json:"transaction_time"`
	Node            tree.Node `json:"node"`
}

// NodeUpdatedV1 is published after a node rename or re-activation commits.
type NodeUpdatedV1 struct {
	EventVersion    int       `json:"event_version"`
	RequestID       string    `json:"request_id"`
	InitiatorID     uuid.UUID `json:"initiator_id"`
	TransactionTime time.Time `json:"transaction_time"`
	Node            tree.Node `json:"node"`
}

// NodeDeactivatedV1 is published after a soft delete commits.
type NodeDeactivatedV1 struct {
	EventVersion    int       `json:"event_version"`
	RequestID       string    `json:"request_id"`
	InitiatorID     uuid.UUID `json:"initiator_id"`
	TransactionTime time.Time `json:"transaction_time"`
	NodeID          uuid.UUID `json:"node_id"`
}

// PositionAssignedV1 is published after a member's leaf assignment and its
// derived ancestor chain have been persisted.
type PositionAssignedV1 struct {
	EventVersion    int           `json:"event_version"`
	RequestID       string        `json:"request_id"`
	InitiatorID     uuid.UUID     `json:"initiator_id"`
	TransactionTime time.Time     `json:"transaction_time"`
	UserID          uuid.UUID     `json:"user_id"`
	TreeKind        tree.TreeKind `json:"tree_kind"`
	LeafID          uuid.UUID     `json:"leaf_id"`
}
