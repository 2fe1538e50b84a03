// Package metrics holds the Prometheus collectors published by the import
// orchestrator. Keeping them in one place lets cmd/importer register a
// single /metrics handler without every package importing promauto
// separately. Grounded on the mycelian-memory stack's direct use of
// prometheus/client_golang for service metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// WorkersInUse is a gauge of workers currently checked out of the
	// Node-Worker Queue. At quiescence this should read zero; see the
	// Worker Conservation testable property.
	WorkersInUse = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "shardflow",
		Subsystem: "workerpool",
		Name:      "workers_in_use",
		Help:      "Number of workers currently checked out of the node-worker queue.",
	})

	// WorkerPoolCapacity is a gauge of the pool's fixed total size.
	WorkerPoolCapacity = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "shardflow",
		Subsystem: "workerpool",
		Name:      "capacity",
		Help:      "Total number of workers registered in the node-worker queue.",
	})

	// ShardsCommitted counts successful commitShard calls.
	ShardsCommitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shardflow",
		Subsystem: "importer",
		Name:      "shards_committed_total",
		Help:      "Total number of shards committed to the catalog.",
	})

	// ChunkJobRetries counts ChunkJob resubmissions after a rejected or
	// transport-failed initiate call.
	ChunkJobRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shardflow",
		Subsystem: "importer",
		Name:      "chunk_job_retries_total",
		Help:      "Total number of ChunkJob retries after initiate failure.",
	})

	// ShardPollTicks counts ShardJob poll attempts, successful or not.
	ShardPollTicks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shardflow",
		Subsystem: "importer",
		Name:      "shard_poll_ticks_total",
		Help:      "Total number of ShardJob poll ticks performed.",
	})

	// PartitionsAbandoned counts partitions abandoned after a source or
	// catalog error (§7 SourceMetadataError / CatalogError policy).
	PartitionsAbandoned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shardflow",
		Subsystem: "importer",
		Name:      "partitions_abandoned_total",
		Help:      "Total number of partitions abandoned due to a source or catalog error.",
	})
)

// Registry returns a prometheus.Registerer with every collector above
// registered. Constructing a fresh registry (rather than using the global
// default) keeps repeated test runs from panicking on duplicate
// registration.
func Registry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		WorkersInUse,
		WorkerPoolCapacity,
		ShardsCommitted,
		ChunkJobRetries,
		ShardPollTicks,
		PartitionsAbandoned,
	)
	return reg
}
