package dispatch

import (
	"context"
	"sync"
)

// StoreTx provides the transactional boundary for a dispatch. The Postgres
// implementation lives in cmd/server and wraps a database transaction; the
// in-memory one serializes dispatches with a coarse lock, which is enough
// for the single-process stores it pairs with.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type inMemoryStoreTx struct {
	mu sync.Mutex
}

// NewInMemoryStoreTx returns a StoreTx for in-memory store wiring.
func NewInMemoryStoreTx() StoreTx {
	return &inMemoryStoreTx{}
}

func (t *inMemoryStoreTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}
