package catalog

import (
	"context"

	"github.com/dreamware/shardflow/internal/model"
)

// ShardManager is the interface the importer depends on, satisfied by both
// Client (the real HTTP-backed catalog) and Fake (the in-memory test
// double).
type ShardManager interface {
	CreateImportTable(ctx context.Context, tableID uint64, sourceName, databaseName, tableName string) error
	CreateImportPartition(ctx context.Context, tableID uint64, partition model.Partition, numChunks int) ([]model.ShardID, error)
	CommitShard(ctx context.Context, shardID model.ShardID, nodeIdentifier string) error
}

var (
	_ ShardManager = (*Client)(nil)
	_ ShardManager = (*Fake)(nil)
)
