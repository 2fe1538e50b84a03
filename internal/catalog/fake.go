package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/dreamware/shardflow/internal/model"
)

// committedShard records the worker a shard was committed against.
type committedShard struct {
	committed      bool
	nodeIdentifier string
}

// Fake is an in-memory ShardManager double for tests, grounded on the
// teacher's ShardRegistry: a map protected by a mutex, returning copies so
// callers can't mutate internal state. Shard ids are assigned sequentially
// rather than by consistent hashing, since this catalog has no notion of
// routing keys to shards — every chunk gets its own shard.
type Fake struct {
	mu sync.Mutex

	nextShardID uint64

	tables map[uint64]bool
	shards map[model.ShardID]*committedShard

	// CommitErr, if set, is returned by CommitShard for every call,
	// simulating a catalog outage during commit.
	CommitErr error
}

// NewFake constructs an empty fake catalog.
func NewFake() *Fake {
	return &Fake{
		tables: make(map[uint64]bool),
		shards: make(map[model.ShardID]*committedShard),
	}
}

func (f *Fake) CreateImportTable(ctx context.Context, tableID uint64, sourceName, databaseName, tableName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[tableID] = true
	return nil
}

func (f *Fake) CreateImportPartition(ctx context.Context, tableID uint64, partition model.Partition, numChunks int) ([]model.ShardID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.tables[tableID] {
		return nil, fmt.Errorf("catalog fake: unknown table id %d", tableID)
	}

	ids := make([]model.ShardID, numChunks)
	for i := 0; i < numChunks; i++ {
		f.nextShardID++
		id := model.ShardID(f.nextShardID)
		f.shards[id] = &committedShard{}
		ids[i] = id
	}
	return ids, nil
}

func (f *Fake) CommitShard(ctx context.Context, shardID model.ShardID, nodeIdentifier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CommitErr != nil {
		return f.CommitErr
	}
	s, ok := f.shards[shardID]
	if !ok {
		return fmt.Errorf("catalog fake: unknown shard id %d", shardID)
	}
	s.committed = true
	s.nodeIdentifier = nodeIdentifier
	return nil
}

// Committed reports whether shardID has been committed. Intended for test
// assertions.
func (f *Fake) Committed(shardID model.ShardID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.shards[shardID]
	return ok && s.committed
}

// CommittedNode returns the node identifier shardID was committed against,
// or "" if it has not been committed.
func (f *Fake) CommittedNode(shardID model.ShardID) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.shards[shardID]
	if !ok {
		return ""
	}
	return s.nodeIdentifier
}

// CommittedCount returns the number of committed shards.
func (f *Fake) CommittedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.shards {
		if s.committed {
			n++
		}
	}
	return n
}
