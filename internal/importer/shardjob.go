package importer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/dreamware/shardflow/internal/catalog"
	"github.com/dreamware/shardflow/internal/metrics"
	"github.com/dreamware/shardflow/internal/model"
	"github.com/dreamware/shardflow/internal/workerpool"
)

// ShardState is the observable lifecycle stage of a ShardJob (§4.5.4).
//
// Adapted from the teacher's shard.ShardState: a named string type with a
// small fixed set of values, tracked with an atomic store/load rather than
// a mutex since only the current value (never a compound transition) is
// ever read from outside the job's own goroutine.
type ShardState string

const (
	ShardStateScheduled  ShardState = "scheduled"
	ShardStatePolling    ShardState = "polling"
	ShardStateCommitting ShardState = "committing"
	ShardStateDone       ShardState = "done"
)

// ShardJob polls a single worker until it reports a shard done, then commits
// it to the catalog and releases the worker. One ShardJob corresponds to
// exactly one outstanding shard id (§3 invariant: a shard id appears in at
// most one outstanding ChunkJob/ShardJob at a time).
type ShardJob struct {
	shardID model.ShardID
	worker  model.Worker
	imp     model.ShardImport

	workerClient *workerpool.Client
	queue        *workerpool.Queue
	shardMgr     catalog.ShardManager
	executor     *DelayedExecutor

	logger zerolog.Logger

	state     atomic.Value // ShardState
	pollCount atomic.Int64
}

// NewShardJob constructs a ShardJob for shardID, already bound to worker
// (which owns the underlying HTTP connection and, on commit, the node
// identity recorded in the catalog).
func NewShardJob(shardID model.ShardID, worker model.Worker, imp model.ShardImport, workerClient *workerpool.Client, queue *workerpool.Queue, shardMgr catalog.ShardManager, executor *DelayedExecutor, logger zerolog.Logger) *ShardJob {
	j := &ShardJob{
		shardID:      shardID,
		worker:       worker,
		imp:          imp,
		workerClient: workerClient,
		queue:        queue,
		shardMgr:     shardMgr,
		executor:     executor,
		logger:       logger.With().Uint64("shard_id", uint64(shardID)).Str("worker", worker.NodeIdentifier).Logger(),
	}
	j.state.Store(ShardStateScheduled)
	return j
}

// State returns the job's current observable state.
func (j *ShardJob) State() ShardState {
	return j.state.Load().(ShardState)
}

// PollCount returns the number of poll ticks performed so far.
func (j *ShardJob) PollCount() int64 {
	return j.pollCount.Load()
}

// Start schedules the job's first poll tick after initialDelay.
func (j *ShardJob) Start(initialDelay time.Duration) error {
	return j.executor.Schedule(initialDelay, j.tick)
}

// tick performs one poll and either reschedules itself or commits, per the
// §4.5.4 state machine. Per §9's resolved open question, commit is reached
// only when a poll observes Done on that same tick — a stalled or errored
// poll never falls through to commit.
func (j *ShardJob) tick(ctx context.Context) {
	j.state.Store(ShardStatePolling)
	metrics.ShardPollTicks.Inc()
	j.pollCount.Add(1)

	result := j.workerClient.Poll(ctx, j.worker, j.shardID)
	switch result {
	case workerpool.Done:
		j.commit(ctx)
	case workerpool.InProgress, workerpool.PollTransportError, workerpool.UnexpectedStatus:
		if result != workerpool.InProgress {
			j.logger.Warn().Stringer("result", result).Msg("shard poll error, treating as in-progress")
		}
		j.reschedule()
	}
}

func (j *ShardJob) reschedule() {
	j.state.Store(ShardStateScheduled)
	if err := j.executor.Schedule(j.executor.Interval(), j.tick); err != nil {
		j.logger.Error().Err(err).Msg("failed to reschedule shard poll after shutdown")
	}
}

func (j *ShardJob) commit(ctx context.Context) {
	j.state.Store(ShardStateCommitting)
	if err := j.shardMgr.CommitShard(ctx, j.shardID, j.worker.NodeIdentifier); err != nil {
		j.logger.Error().Err(err).Msg("commit shard failed")
	} else {
		metrics.ShardsCommitted.Inc()
	}
	j.queue.Release(j.worker)
	j.state.Store(ShardStateDone)
}
