package importer

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dreamware/shardflow/internal/catalog"
	"github.com/dreamware/shardflow/internal/metrics"
	"github.com/dreamware/shardflow/internal/model"
	"github.com/dreamware/shardflow/internal/source"
	"github.com/dreamware/shardflow/internal/workerpool"
)

// PartitionJob fetches one partition's chunks, registers them with the
// catalog, and fans each (chunk, shardId) pair out to a ChunkJob
// (§4.5.2). A PartitionJob runs exactly once: Fetching or Registering
// errors abandon the partition rather than retrying (§7, §9: "no retry at
// the partition stage").
type PartitionJob struct {
	tableID          uint64
	sourceName       string
	partition        model.Partition
	fields           []model.ImportField
	supplier         source.ChunkSupplier
	shardMgr         catalog.ShardManager
	queue            *workerpool.Queue
	workerClient     *workerpool.Client
	chunkExec        *Executor
	shardExec        *DelayedExecutor
	initialPollDelay time.Duration

	logger zerolog.Logger
}

// NewPartitionJob constructs a PartitionJob bound to one partition's
// supplier.
func NewPartitionJob(
	tableID uint64,
	sourceName string,
	partition model.Partition,
	fields []model.ImportField,
	supplier source.ChunkSupplier,
	shardMgr catalog.ShardManager,
	queue *workerpool.Queue,
	workerClient *workerpool.Client,
	chunkExec *Executor,
	shardExec *DelayedExecutor,
	initialPollDelay time.Duration,
	logger zerolog.Logger,
) *PartitionJob {
	return &PartitionJob{
		tableID:          tableID,
		sourceName:       sourceName,
		partition:        partition,
		fields:           fields,
		supplier:         supplier,
		shardMgr:         shardMgr,
		queue:            queue,
		workerClient:     workerClient,
		chunkExec:        chunkExec,
		shardExec:        shardExec,
		initialPollDelay: initialPollDelay,
		logger:           logger.With().Str("partition", partition.Name).Logger(),
	}
}

// Run performs the Fetching → Registering → Fanout transitions of §4.5.2.
// Called on the partition executor.
func (j *PartitionJob) Run(ctx context.Context) {
	chunks, err := j.supplier.Get(ctx)
	if err != nil {
		metrics.PartitionsAbandoned.Inc()
		j.logger.Error().Err(err).Msg("partition abandoned: source metadata error fetching chunks")
		return
	}

	shardIDs, err := j.shardMgr.CreateImportPartition(ctx, j.tableID, j.partition, len(chunks))
	if err != nil {
		metrics.PartitionsAbandoned.Inc()
		j.logger.Error().Err(err).Msg("partition abandoned: catalog error registering partition")
		return
	}

	for i, chunk := range chunks {
		imp := model.ShardImport{
			SourceName: j.sourceName,
			Chunk:      chunk,
			Fields:     j.fields,
		}
		chunkJob := NewChunkJob(shardIDs[i], imp, j.queue, j.workerClient, j.shardMgr, j.chunkExec, j.shardExec, j.initialPollDelay, j.logger)
		if err := chunkJob.Submit(); err != nil {
			j.logger.Error().Err(err).Uint64("shard_id", uint64(shardIDs[i])).Msg("failed to submit chunk job")
		}
	}
}
