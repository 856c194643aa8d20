package services

import (
	"context"

	"github.com/tanzim-io/tanzim/pkg/composables"
)

// inTx wraps fn in a database transaction when a pool is present on the
// context. Store implementations without a pool (in-memory fakes) run
// directly; they are not transactional.
func inTx(ctx context.Context, fn func(context.Context) error) error {
	if _, err := composables.UsePool(ctx); err != nil {
		return fn(ctx)
	}
	return composables.InTx(ctx, fn)
}
