// Package source implements the out-of-core collaborators consumed by the
// Partition-Chunk Supplier (C2): listing partition names for a table and
// materialising the chunk blobs within one partition. Both are external
// HTTP services this package only talks to; their own implementation is out
// of scope.
//
// Grounded on internal/transport's GetJSON helper (itself generalised from
// the teacher's cluster.PostJSON/GetJSON) for the request/response plumbing.
package source

import (
	"context"
	"fmt"

	"github.com/dreamware/shardflow/internal/model"
	"github.com/dreamware/shardflow/internal/transport"
)

// MetadataClient lists the partitions of one (database, table) pair.
type MetadataClient interface {
	GetPartitionNames(ctx context.Context, databaseName, tableName string) ([]string, error)
}

// ChunkSupplier returns the full, materialised list of chunk blobs for one
// partition it is bound to (§4.2). It is constructed fresh per partition.
type ChunkSupplier interface {
	Get(ctx context.Context) ([]model.Chunk, error)
}

// HTTPMetadataClient is the production MetadataClient, talking to the
// source-side metadata service over HTTP.
type HTTPMetadataClient struct {
	BaseURL string
}

// NewHTTPMetadataClient builds a metadata client against baseURL.
func NewHTTPMetadataClient(baseURL string) *HTTPMetadataClient {
	return &HTTPMetadataClient{BaseURL: baseURL}
}

type partitionNamesResponse struct {
	Partitions []string `json:"partitions"`
}

// GetPartitionNames calls GET {baseURL}/v1/databases/{db}/tables/{table}/partitions.
func (c *HTTPMetadataClient) GetPartitionNames(ctx context.Context, databaseName, tableName string) ([]string, error) {
	url := fmt.Sprintf("%s/v1/databases/%s/tables/%s/partitions", c.BaseURL, databaseName, tableName)
	var resp partitionNamesResponse
	if err := transport.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("source: get partition names: %w", err)
	}
	return resp.Partitions, nil
}

// HTTPChunkSupplier is the production ChunkSupplier, bound to one
// (database, table, partition) triple at construction time.
type HTTPChunkSupplier struct {
	BaseURL      string
	DatabaseName string
	TableName    string
	Partition    model.Partition
}

// NewHTTPChunkSupplier binds a chunk supplier to one partition.
func NewHTTPChunkSupplier(baseURL, databaseName, tableName string, partition model.Partition) *HTTPChunkSupplier {
	return &HTTPChunkSupplier{
		BaseURL:      baseURL,
		DatabaseName: databaseName,
		TableName:    tableName,
		Partition:    partition,
	}
}

type chunksResponse struct {
	Chunks []model.Chunk `json:"chunks"`
}

// Get calls GET {baseURL}/v1/databases/{db}/tables/{table}/partitions/{partition}/chunks.
func (s *HTTPChunkSupplier) Get(ctx context.Context) ([]model.Chunk, error) {
	url := fmt.Sprintf("%s/v1/databases/%s/tables/%s/partitions/%s/chunks", s.BaseURL, s.DatabaseName, s.TableName, s.Partition.Name)
	var resp chunksResponse
	if err := transport.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("source: get chunks for partition %q: %w", s.Partition.Name, err)
	}
	return resp.Chunks, nil
}
