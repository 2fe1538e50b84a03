package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/dreamware/shardflow/internal/catalog"
	"github.com/dreamware/shardflow/internal/config"
	"github.com/dreamware/shardflow/internal/model"
	"github.com/dreamware/shardflow/internal/source"
	"github.com/dreamware/shardflow/internal/workerpool"
)

// SupplierFactory binds a fresh ChunkSupplier to one partition of one
// (database, table) pair. databaseName/tableName are passed through from the
// ImportTable call that triggered the bind, since a single Orchestrator (and
// its one SupplierFactory, bound at construction) serves every ImportTable
// call it receives, not just one table. Production callers pass a closure
// over source.HTTPChunkSupplier; tests pass source.FakeSupplierFactory.For.
type SupplierFactory func(databaseName, tableName string, partition model.Partition) (source.ChunkSupplier, error)

// Orchestrator is the Import Orchestrator (C5): the entry point that turns
// one importTable call into an asynchronous tree of partition, chunk, and
// shard jobs. Collaborators are supplied explicitly at construction — no
// global state, per §9's dependency-injection note.
type Orchestrator struct {
	shardMgr   catalog.ShardManager
	metaClient source.MetadataClient
	suppliers  SupplierFactory
	queue      *workerpool.Queue

	workerClient *workerpool.Client

	partitionExec    *Executor
	chunkExec        *Executor
	shardExec        *DelayedExecutor
	initialPollDelay time.Duration

	monitor *workerpool.PoolMonitor

	logger zerolog.Logger
}

// New constructs an Orchestrator. workers is the fixed pool backing the
// Node-Worker Queue (C1); shardMgr, metaClient, and suppliers are the C3/C2
// collaborators.
func New(cfg config.Config, workers []model.Worker, shardMgr catalog.ShardManager, metaClient source.MetadataClient, suppliers SupplierFactory, logger zerolog.Logger) (*Orchestrator, error) {
	queue, err := workerpool.NewQueue(workers)
	if err != nil {
		return nil, fmt.Errorf("importer: build node-worker queue: %w", err)
	}

	monitor := workerpool.NewPoolMonitor(queue, cfg.ShardPollInterval, logger)
	monitor.Start()

	o := &Orchestrator{
		shardMgr:         shardMgr,
		metaClient:       metaClient,
		suppliers:        suppliers,
		queue:            queue,
		workerClient:     workerpool.NewClient(),
		partitionExec:    NewExecutor(cfg.PartitionParallelism, int(cfg.PartitionParallelism)*4),
		chunkExec:        NewExecutor(cfg.ChunkParallelism, int(cfg.ChunkParallelism)*4),
		shardExec:        NewDelayedExecutor(cfg.ShardPollParallelism, cfg.ShardPollInterval),
		initialPollDelay: cfg.InitialShardPollDelay,
		monitor:          monitor,
		logger:           logger,
	}
	return o, nil
}

// ImportTable is the orchestrator's single public entry point (§4.5.1).
// Preconditions (non-empty fields, sourceName == "hive") are checked
// synchronously; a violation raises ErrInvalidArgument with no catalog,
// source, or HTTP interaction (property 5). On success it returns
// immediately after submitting one PartitionJob per discovered partition;
// the import itself proceeds asynchronously.
func (o *Orchestrator) ImportTable(ctx context.Context, tableID uint64, sourceName, databaseName, tableName string, fields []model.ImportField) error {
	if err := validateImportTableArgs(sourceName, fields); err != nil {
		return err
	}

	importID := uuid.New()
	logger := o.logger.With().Str("import_id", importID.String()).Uint64("table_id", tableID).Logger()

	if err := o.shardMgr.CreateImportTable(ctx, tableID, sourceName, databaseName, tableName); err != nil {
		return fmt.Errorf("importer: create import table: %w", err)
	}

	partitionNames, err := o.metaClient.GetPartitionNames(ctx, databaseName, tableName)
	if err != nil {
		logger.Error().Err(err).Str("database", databaseName).Str("table", tableName).Msg("failed to list partitions, no partitions will be imported")
		return nil
	}

	logger.Info().Int("partitions", len(partitionNames)).Msg("importTable accepted")

	for _, name := range partitionNames {
		partition := model.Partition{Name: name}
		supplier, err := o.suppliers(databaseName, tableName, partition)
		if err != nil {
			logger.Error().Err(err).Str("partition", name).Msg("partition abandoned: failed to bind chunk supplier")
			continue
		}

		job := NewPartitionJob(tableID, sourceName, partition, fields, supplier, o.shardMgr, o.queue, o.workerClient, o.chunkExec, o.shardExec, o.initialPollDelay, logger)
		if err := o.partitionExec.Submit(job.Run); err != nil {
			logger.Error().Err(err).Str("partition", name).Msg("failed to submit partition job")
		}
	}

	return nil
}

func validateImportTableArgs(sourceName string, fields []model.ImportField) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: fields must be non-empty", ErrInvalidArgument)
	}
	if sourceName != model.HiveSourceName {
		return fmt.Errorf("%w: unsupported sourceName %q", ErrInvalidArgument, sourceName)
	}

	var fieldErrs *multierror.Error
	for _, f := range fields {
		if err := f.Validate(); err != nil {
			fieldErrs = multierror.Append(fieldErrs, err)
		}
	}
	if fieldErrs.ErrorOrNil() != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, fieldErrs)
	}
	return nil
}

// Stop performs orderly shutdown of all three executors (§4.5.5): no new
// work is accepted; in-flight jobs run to their next observable state
// transition; delayed ShardJob ticks scheduled after shutdown never fire.
func (o *Orchestrator) Stop() {
	o.monitor.Stop()
	o.partitionExec.Stop()
	o.chunkExec.Stop()
	o.shardExec.Stop()
}
