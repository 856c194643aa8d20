package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/content/domain/item"
)

const EventVersionV1 = 1

// ItemCreatedV1 is published after a content item's creation transaction
// has committed.
type ItemCreatedV1 struct {
	EventVersion    int       `json:"event_version"`
	RequestID       string    `json:"request_id"`
	InitiatorID     uuid.UUID `json:"initiator_id"`
	TransactionTime time.Time `json:"transaction_time"`
	Item            item.Item `json:"item"`
}

// ItemApprovedV1 is published when a reviewable item's approval state
// changes.
type ItemApprovedV1 struct {
	EventVersion    int       `json:"event_version"`
	RequestID       string    `json:"request_id"`
	InitiatorID     uuid.UUID `json:"initiator_id"`
	TransactionTime time.Time `json:"transaction_time"`
	ItemID          uuid.UUID `json:"item_id"`
	Approved        bool      `json:"approved"`
}
