package writer

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB implements Batcher and records every batch it is handed,
// along with the state of the context at send time.
type fakeDB struct {
	mu      sync.Mutex
	batches []*pgx.Batch
	ctxErrs []error
	execErr error
}

func (f *fakeDB) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, b)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return &fakeBatchResults{err: f.execErr}
}

func (f *fakeDB) sent() (batches int, rows int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.batches {
		rows += b.Len()
	}
	return len(f.batches), rows
}

func (f *fakeDB) sendCtxErrs() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]error(nil), f.ctxErrs...)
}

type fakeBatchResults struct {
	err error
}

func (r *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	if r.err != nil {
		return pgconn.CommandTag{}, r.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *fakeBatchResults) Query() (pgx.Rows, error) { return nil, r.err }

func (r *fakeBatchResults) QueryRow() pgx.Row { return nil }

func (r *fakeBatchResults) Close() error { return nil }
