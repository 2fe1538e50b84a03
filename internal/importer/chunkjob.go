package importer

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/dreamware/shardflow/internal/catalog"
	"github.com/dreamware/shardflow/internal/metrics"
	"github.com/dreamware/shardflow/internal/model"
	"github.com/dreamware/shardflow/internal/workerpool"
)

// ChunkJob drives one chunk through worker acquisition and initiation,
// handing off to a ShardJob once the worker accepts the build (§4.5.3).
type ChunkJob struct {
	shardID model.ShardID
	imp     model.ShardImport

	queue            *workerpool.Queue
	workerClient     *workerpool.Client
	shardMgr         catalog.ShardManager
	chunkExec        *Executor
	shardExec        *DelayedExecutor
	initialPollDelay time.Duration

	logger zerolog.Logger
}

// NewChunkJob constructs a ChunkJob for one (shardID, ShardImport) pair. The
// same ChunkJob value is resubmitted verbatim on retry, so shardID and imp
// are never re-derived from the catalog (property 6: retry idempotence).
// initialPollDelay is the configured delay before the handed-off ShardJob's
// first poll tick (config.Config.InitialShardPollDelay).
func NewChunkJob(shardID model.ShardID, imp model.ShardImport, queue *workerpool.Queue, workerClient *workerpool.Client, shardMgr catalog.ShardManager, chunkExec *Executor, shardExec *DelayedExecutor, initialPollDelay time.Duration, logger zerolog.Logger) *ChunkJob {
	return &ChunkJob{
		shardID:          shardID,
		imp:              imp,
		queue:            queue,
		workerClient:     workerClient,
		shardMgr:         shardMgr,
		chunkExec:        chunkExec,
		shardExec:        shardExec,
		initialPollDelay: initialPollDelay,
		logger:           logger.With().Uint64("shard_id", uint64(shardID)).Logger(),
	}
}

// Submit enqueues the job on its chunk executor.
func (j *ChunkJob) Submit() error {
	return j.chunkExec.Submit(j.run)
}

// run implements the AwaitingWorker → Initiating → (Scheduled | Retry)
// transitions of §4.5.3.
func (j *ChunkJob) run(ctx context.Context) {
	worker, err := j.queue.Acquire(ctx)
	if err != nil {
		if errors.Is(err, workerpool.ErrAcquireCanceled) {
			j.logger.Info().Msg("chunk job abandoned: worker acquisition canceled, shard left uncommitted")
			return
		}
		j.logger.Error().Err(err).Msg("unexpected worker acquisition failure")
		return
	}

	result := j.workerClient.Initiate(ctx, worker, j.shardID, j.imp)
	switch result {
	case workerpool.Accepted:
		shardJob := NewShardJob(j.shardID, worker, j.imp, j.workerClient, j.queue, j.shardMgr, j.shardExec, j.logger)
		if err := shardJob.Start(j.initialPollDelay); err != nil {
			j.logger.Error().Err(err).Msg("failed to schedule shard job, releasing worker")
			j.queue.Release(worker)
		}
	case workerpool.Rejected, workerpool.InitiateTransportError:
		j.queue.Release(worker)
		metrics.ChunkJobRetries.Inc()
		j.logger.Warn().Stringer("result", result).Msg("initiate failed, retrying chunk job")
		if err := j.Submit(); err != nil {
			j.logger.Error().Err(err).Msg("failed to resubmit chunk job after initiate failure")
		}
	}
}
