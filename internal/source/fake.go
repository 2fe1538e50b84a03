package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/dreamware/shardflow/internal/model"
)

// FakeMetadataClient is an in-memory MetadataClient double for tests.
type FakeMetadataClient struct {
	mu sync.Mutex

	// Partitions maps "database/table" to the partition names to return.
	Partitions map[string][]string

	// Err, if set, is returned instead of a lookup (simulates a transient
	// source-metadata failure).
	Err error
}

// NewFakeMetadataClient constructs an empty fake metadata client.
func NewFakeMetadataClient() *FakeMetadataClient {
	return &FakeMetadataClient{Partitions: make(map[string][]string)}
}

func key(databaseName, tableName string) string {
	return databaseName + "/" + tableName
}

// SetPartitions registers the partition names returned for (databaseName,
// tableName).
func (f *FakeMetadataClient) SetPartitions(databaseName, tableName string, names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Partitions[key(databaseName, tableName)] = names
}

func (f *FakeMetadataClient) GetPartitionNames(ctx context.Context, databaseName, tableName string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	names, ok := f.Partitions[key(databaseName, tableName)]
	if !ok {
		return nil, fmt.Errorf("source fake: no partitions registered for %s.%s", databaseName, tableName)
	}
	return names, nil
}

// FakeChunkSupplier is an in-memory ChunkSupplier double bound to one
// partition's chunk list (or error) at construction time.
type FakeChunkSupplier struct {
	Chunks []model.Chunk
	Err    error
}

// NewFakeChunkSupplier binds a fake supplier to a fixed chunk list.
func NewFakeChunkSupplier(chunks []model.Chunk) *FakeChunkSupplier {
	return &FakeChunkSupplier{Chunks: chunks}
}

// NewFailingChunkSupplier binds a fake supplier that always fails with err,
// simulating a transient source error for one partition (S6).
func NewFailingChunkSupplier(err error) *FakeChunkSupplier {
	return &FakeChunkSupplier{Err: err}
}

func (s *FakeChunkSupplier) Get(ctx context.Context) ([]model.Chunk, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Chunks, nil
}

// FakeSupplierFactory builds a ChunkSupplier per partition name, letting
// tests bind different behavior (success or failure) to different
// partitions of the same table (S6: partition isolation).
type FakeSupplierFactory struct {
	mu        sync.Mutex
	suppliers map[string]ChunkSupplier
}

// NewFakeSupplierFactory constructs an empty factory.
func NewFakeSupplierFactory() *FakeSupplierFactory {
	return &FakeSupplierFactory{suppliers: make(map[string]ChunkSupplier)}
}

// Bind registers supplier to be returned for partitionName.
func (f *FakeSupplierFactory) Bind(partitionName string, supplier ChunkSupplier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suppliers[partitionName] = supplier
}

// For returns the supplier bound to partitionName. databaseName/tableName
// are accepted only to satisfy importer.SupplierFactory's signature; this
// fake keys purely on partition name, since tests bind behavior per
// partition regardless of which table they belong to.
func (f *FakeSupplierFactory) For(databaseName, tableName string, partition model.Partition) (ChunkSupplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	supplier, ok := f.suppliers[partition.Name]
	if !ok {
		return nil, fmt.Errorf("source fake: no supplier bound for partition %q", partition.Name)
	}
	return supplier, nil
}
