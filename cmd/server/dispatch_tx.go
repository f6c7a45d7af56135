package main

import (
	"context"
	"database/sql"
	"time"

	dErrors "atende/pkg/domain-errors"
	"atende/pkg/platform/tx"
)

const defaultDispatchTxTimeout = 5 * time.Second

// dispatchPostgresTx runs a dispatch inside one database transaction. The
// open transaction travels through the context, so the protocol store and the
// module record store both write through it and commit or roll back together.
type dispatchPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newDispatchPostgresTx(db *sql.DB) *dispatchPostgresTx {
	return &dispatchPostgresTx{db: db}
}

func (t *dispatchPostgresTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultDispatchTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	dbTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = dbTx.Rollback()
	}()

	if err := fn(tx.WithTx(ctx, dbTx)); err != nil {
		return err
	}

	return dbTx.Commit()
}
