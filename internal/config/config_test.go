package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/shardflow/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("IMPORTERTEST")
	require.NoError(t, err)

	assert.Equal(t, uint32(50), cfg.PartitionParallelism)
	assert.Equal(t, uint32(50), cfg.ChunkParallelism)
	assert.Equal(t, uint32(50), cfg.ShardPollParallelism)
	assert.Equal(t, time.Second, cfg.ShardPollInterval)
	assert.Equal(t, time.Second, cfg.InitialShardPollDelay)
}

func TestLoadHonorsPrefixedOverrides(t *testing.T) {
	t.Setenv("IMPORTERTEST_PARTITION_PARALLELISM", "7")
	t.Setenv("IMPORTERTEST_SHARD_POLL_INTERVAL", "250ms")

	cfg, err := config.Load("IMPORTERTEST")
	require.NoError(t, err)

	assert.Equal(t, uint32(7), cfg.PartitionParallelism)
	assert.Equal(t, 250*time.Millisecond, cfg.ShardPollInterval)
	// Unrelated fields keep their defaults.
	assert.Equal(t, uint32(50), cfg.ChunkParallelism)
}

func TestLoadRejectsMalformedValue(t *testing.T) {
	t.Setenv("IMPORTERTEST_CHUNK_PARALLELISM", "not-a-number")

	_, err := config.Load("IMPORTERTEST")
	assert.Error(t, err)
}
