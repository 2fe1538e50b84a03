// Package model defines the data types shared across the import pipeline:
// table registrations, import fields, partitions, chunks, shards, and the
// worker handles that own them. See §3 of the design for the full lifecycle
// discussion of each type.
package model

import "fmt"

// TableRegistration identifies a table that has been registered with the
// shard manager for a single importTable call. It is created once per call
// and never mutated by the orchestrator thereafter.
type TableRegistration struct {
	// SourceName names the external source this table is imported from.
	// Only "hive" is accepted in this revision.
	SourceName string

	// DatabaseName is the source-side database containing the table.
	DatabaseName string

	// TableName is the source-side table name.
	TableName string

	// TableID is the opaque identifier the caller assigned to this table.
	TableID uint64
}

// HiveSourceName is the only SourceName accepted by importTable in this
// revision.
const HiveSourceName = "hive"

// ImportField describes one column to import: the source column identifier
// plus the target column identifier/type. ImportField values are immutable
// and are passed unchanged from importTable through to each ShardImport.
type ImportField struct {
	// SourceColumn identifies the column on the source side.
	SourceColumn string `json:"sourceColumn"`

	// TargetColumn identifies the column on the target (shard) side.
	TargetColumn string `json:"targetColumn"`

	// TargetType is the target column's type, opaque to this package.
	TargetType string `json:"targetType"`
}

// Validate reports whether f is well-formed: every identifier must be
// non-empty. It never inspects TargetType beyond requiring it be present,
// since type compatibility is the worker's concern, not the orchestrator's.
func (f ImportField) Validate() error {
	if f.SourceColumn == "" {
		return fmt.Errorf("import field: sourceColumn is empty")
	}
	if f.TargetColumn == "" {
		return fmt.Errorf("import field: targetColumn is empty")
	}
	if f.TargetType == "" {
		return fmt.Errorf("import field %q: targetType is empty", f.SourceColumn)
	}
	return nil
}

// Partition is a named slice of a table, discovered from the source and
// registered with the shard manager. Once its chunks have been fanned out
// into ChunkJobs, the orchestrator holds no further reference to it.
type Partition struct {
	Name string
}

// Chunk is an opaque byte blob produced by the source for one partition.
// Its internal structure is private to the source and the worker; the
// orchestrator only ever copies it from the supplier into a ShardImport.
type Chunk []byte

// ShardImport is the payload sent to a worker's initiate RPC: the chunk
// bytes for one shard plus the field list and source tag needed to build
// it. A ShardImport is owned by exactly one ChunkJob at a time and its
// Chunk is never mutated after construction.
type ShardImport struct {
	SourceName string        `json:"sourceName"`
	Chunk      Chunk         `json:"chunk"`
	Fields     []ImportField `json:"fields"`
}

// Worker is an opaque handle to a cluster node capable of building shards
// over HTTP. It is held by a ChunkJob from acquisition until the
// corresponding shard is committed, or surrendered back to the queue on
// retry or cancellation.
type Worker struct {
	// NodeIdentifier is the stable identity of this worker, recorded
	// against a shard at commit time.
	NodeIdentifier string

	// HTTPURI is the worker's HTTP base URI, e.g. "http://10.0.0.4:9090".
	HTTPURI string
}

func (w Worker) String() string {
	return fmt.Sprintf("%s(%s)", w.NodeIdentifier, w.HTTPURI)
}

// ShardID is the 64-bit identifier assigned to a shard by the catalog's
// createImportPartition call.
type ShardID uint64
