package workerpool

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/dreamware/shardflow/internal/model"
)

// ErrAcquireCanceled is returned by Acquire when its context is done before
// a worker became available. Callers must treat this as job abandonment:
// no worker is held, and nothing needs to be released.
var ErrAcquireCanceled = errors.New("worker acquisition canceled")

// Queue is the Node-Worker Queue (C1): a bounded, cancellable registry of
// workers shared across every ChunkJob and ShardJob in the orchestrator.
//
// Queue is safe for concurrent use. It does not itself retry or heal
// unreachable workers — that is the caller's concern via ChunkJob/ShardJob
// retry — it only tracks which workers are currently checked out.
type Queue struct {
	available chan model.Worker
	all       []string // node identifiers, fixed at construction, for Contains
}

// NewQueue builds a Queue pre-populated with the given workers. The slice
// defines both the pool's fixed capacity and its membership for this
// revision: there is no dynamic join/leave protocol, matching the scope of
// §4.1 (worker HTTP service is an external collaborator, not managed here).
func NewQueue(workers []model.Worker) (*Queue, error) {
	if len(workers) == 0 {
		return nil, fmt.Errorf("workerpool: at least one worker is required")
	}
	q := &Queue{
		available: make(chan model.Worker, len(workers)),
	}
	for _, w := range workers {
		q.available <- w
		q.all = append(q.all, w.NodeIdentifier)
	}
	return q, nil
}

// Acquire blocks until a worker is available or ctx is done. On
// cancellation it returns ErrAcquireCanceled and holds no worker.
func (q *Queue) Acquire(ctx context.Context) (model.Worker, error) {
	select {
	case w := <-q.available:
		return w, nil
	case <-ctx.Done():
		return model.Worker{}, ErrAcquireCanceled
	}
}

// Release returns a worker to the pool. A caller must call it at most once
// per successful Acquire: Release does not track checkouts, so a repeated
// call for the same checkout puts a second copy of the worker into the pool
// (or blocks if the pool is already full). Calling it zero times (e.g. after
// a cancellation) never blocks the release path for other jobs, since no
// slot was consumed.
func (q *Queue) Release(w model.Worker) {
	q.available <- w
}

// Len reports the number of workers currently sitting idle in the pool.
// Used by PoolMonitor for saturation metrics; not part of the acquire/
// release protocol itself.
func (q *Queue) Len() int {
	return len(q.available)
}

// Cap reports the pool's fixed total size.
func (q *Queue) Cap() int {
	return cap(q.available)
}

// Contains reports whether nodeIdentifier is a member of this pool,
// irrespective of whether it is currently checked out.
func (q *Queue) Contains(nodeIdentifier string) bool {
	return slices.Contains(q.all, nodeIdentifier)
}
