// Package config loads the Import Orchestrator's tunables from the
// environment. It is the only place environment variables are read;
// everything else in this module takes a Config value explicitly, per the
// "no global state" guidance on dependency injection (§9 of the design).
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries the three executors' independent concurrency budgets plus
// the shard-polling schedule. Field defaults match the reference
// configuration in §6 of the design: 50/50/50 workers, 1s poll interval,
// 1s initial poll delay.
type Config struct {
	// PartitionParallelism bounds how many PartitionJobs run concurrently.
	PartitionParallelism uint32 `envconfig:"PARTITION_PARALLELISM" default:"50"`

	// ChunkParallelism bounds how many ChunkJobs run concurrently.
	ChunkParallelism uint32 `envconfig:"CHUNK_PARALLELISM" default:"50"`

	// ShardPollParallelism bounds how many ShardJob poll ticks may be
	// in flight concurrently.
	ShardPollParallelism uint32 `envconfig:"SHARD_POLL_PARALLELISM" default:"50"`

	// ShardPollInterval is the delay between successive poll ticks for
	// a ShardJob that has not yet observed Done.
	ShardPollInterval time.Duration `envconfig:"SHARD_POLL_INTERVAL" default:"1s"`

	// InitialShardPollDelay is the delay between a successful initiate
	// and the first poll tick.
	InitialShardPollDelay time.Duration `envconfig:"INITIAL_SHARD_POLL_DELAY" default:"1s"`
}

// Load reads Config from the environment, applying the defaults above for
// any variable that is unset. The prefix is applied to every variable name,
// e.g. prefix "IMPORTER" reads IMPORTER_PARTITION_PARALLELISM.
func Load(prefix string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
