package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/tanzim-io/tanzim/modules/content/domain/item"
	"github.com/tanzim-io/tanzim/modules/content/domain/plan"
	"github.com/tanzim-io/tanzim/pkg/predicate"
)

// ContentStore is the persistence surface of the content module. The pgx
// implementation lives in infrastructure/persistence; tests use an in-memory
// fake.
type ContentStore interface {
	GetItem(ctx context.Context, id uuid.UUID) (*item.Item, error)
	CreateItem(ctx context.Context, it *item.Item) error
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	// ListVisible returns items of the given kind matching the visibility
	// expression, newest first.
	ListVisible(ctx context.Context, kind item.Kind, visible predicate.Expr, limit, offset int) ([]*item.Item, error)

	SavePlan(ctx context.Context, p *plan.Plan) error
	GetPlan(ctx context.Context, itemID uuid.UUID) (*plan.Plan, error)
}
