package service

import (
	"context"
	"database/sql"
	"hash/fnv"
	"sync"
	"time"

	"wasl/internal/lifecycle"
	dErrors "wasl/pkg/domain-errors"
	txcontext "wasl/pkg/platform/tx"
)

// numTxShards spreads in-memory transactions so unrelated candidates do
// not queue behind one lock.
const numTxShards = 128

const defaultTxTimeout = 5 * time.Second

type txKey struct{}

// WithTxKey names what a transaction touches so the in-memory tx can pick a shard.
func WithTxKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, txKey{}, key)
}

// MemoryTx serialises transactions on the same key. It has no rollback, so
// a failure midway leaves earlier writes in place.
type MemoryTx struct {
	shards  [numTxShards]sync.Mutex
	store   lifecycle.Store
	timeout time.Duration
}

func NewMemoryTx(store lifecycle.Store) *MemoryTx {
	return &MemoryTx{store: store, timeout: defaultTxTimeout}
}

func (t *MemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context, store lifecycle.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	shard := t.selectShard(ctx)
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx, t.store)
}

func (t *MemoryTx) selectShard(ctx context.Context) int {
	key, _ := ctx.Value(txKey{}).(string)
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % numTxShards)
}

// PostgresTx runs fn in a SQL transaction carried by ctx. store must read
// its executor from ctx.
type PostgresTx struct {
	db      *sql.DB
	store   lifecycle.Store
	timeout time.Duration
}

func NewPostgresTx(db *sql.DB, store lifecycle.Store) *PostgresTx {
	return &PostgresTx{db: db, store: store, timeout: defaultTxTimeout}
}

func (t *PostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context, store lifecycle.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return txcontext.Run(ctx, t.db, t.timeout, func(ctx context.Context) error {
		return fn(ctx, t.store)
	})
}
