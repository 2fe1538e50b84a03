// Package catalog implements the Shard-Manager Client (C3): the facade over
// the external shard catalog that backs table registration, partition
// registration (which hands back shard ids aligned to chunks), and shard
// commit.
//
// The HTTP client is grounded on the resty usage pattern seen in the
// mycelian-memory indexer (a resty.Client configured once with a base URL
// and timeout, requests built with SetContext/SetBody/SetResult).
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dreamware/shardflow/internal/model"
)

// Client is the C3 Shard-Manager Client.
type Client struct {
	http *resty.Client
}

// NewClient builds a catalog client against baseURL.
func NewClient(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	return &Client{http: c}
}

type createTableRequest struct {
	TableID      uint64 `json:"tableId"`
	SourceName   string `json:"sourceName"`
	DatabaseName string `json:"databaseName"`
	TableName    string `json:"tableName"`
}

// CreateImportTable idempotently registers tableId with the catalog.
// Unlike a sequence-assigned id, tableId is chosen by the caller (§4.3).
func (c *Client) CreateImportTable(ctx context.Context, tableID uint64, sourceName, databaseName, tableName string) error {
	reqBody := createTableRequest{TableID: tableID, SourceName: sourceName, DatabaseName: databaseName, TableName: tableName}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/v1/tables")
	if err != nil {
		return fmt.Errorf("catalog: create import table: %w", err)
	}
	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("catalog: create import table: unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

type createPartitionRequest struct {
	TableID       uint64 `json:"tableId"`
	PartitionName string `json:"partitionName"`
	NumChunks     int    `json:"numChunks"`
}

type createPartitionResponse struct {
	ShardIDs []uint64 `json:"shardIds"`
}

// CreateImportPartition registers a partition under tableID and requests one
// shard id per chunk. The returned slice is aligned index-for-index with the
// chunks the caller intends to send (§4.2, ShardID alignment).
func (c *Client) CreateImportPartition(ctx context.Context, tableID uint64, partition model.Partition, numChunks int) ([]model.ShardID, error) {
	reqBody := createPartitionRequest{TableID: tableID, PartitionName: partition.Name, NumChunks: numChunks}
	var respBody createPartitionResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&reqBody).
		SetResult(&respBody).
		Post("/v1/partitions")
	if err != nil {
		return nil, fmt.Errorf("catalog: create import partition: %w", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("catalog: create import partition: unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(respBody.ShardIDs) != numChunks {
		return nil, fmt.Errorf("catalog: create import partition: expected %d shard ids, got %d", numChunks, len(respBody.ShardIDs))
	}

	ids := make([]model.ShardID, len(respBody.ShardIDs))
	for i, id := range respBody.ShardIDs {
		ids[i] = model.ShardID(id)
	}
	return ids, nil
}

type commitShardRequest struct {
	NodeIdentifier string `json:"nodeIdentifier"`
}

// CommitShard marks shardID as durably complete and assigned to
// nodeIdentifier. It is only ever called after a worker poll has reported
// Done (§4.5.4, §7).
func (c *Client) CommitShard(ctx context.Context, shardID model.ShardID, nodeIdentifier string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&commitShardRequest{NodeIdentifier: nodeIdentifier}).
		Post(fmt.Sprintf("/v1/shards/%d/commit", shardID))
	if err != nil {
		return fmt.Errorf("catalog: commit shard %d: %w", shardID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("catalog: commit shard %d: unexpected status %d: %s", shardID, resp.StatusCode(), resp.String())
	}
	return nil
}
