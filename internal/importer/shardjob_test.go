package importer_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/shardflow/internal/catalog"
	"github.com/dreamware/shardflow/internal/importer"
	"github.com/dreamware/shardflow/internal/model"
	"github.com/dreamware/shardflow/internal/workerpool"
)

func waitForState(t *testing.T, job *importer.ShardJob, want importer.ShardState, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if job.State() == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("shard job never reached state %q, last seen %q", want, job.State())
}

// TestShardJobCommitsOnlyAfterDone exercises property 3: a shard job that
// sees InProgress on its first few ticks must not commit until the poll
// finally reports Done.
func TestShardJobCommitsOnlyAfterDone(t *testing.T) {
	fw := newFakeWorker()
	defer fw.Close()
	fw.setPollStatuses(7, 202, 202, 200)

	worker := model.Worker{NodeIdentifier: "w1", HTTPURI: fw.URL()}
	queue, err := workerpool.NewQueue([]model.Worker{worker})
	require.NoError(t, err)

	fake := catalog.NewFake()
	workerClient := workerpool.NewClient()
	exec := importer.NewDelayedExecutor(4, 5*time.Millisecond)
	defer exec.Stop()

	// The fake catalog only accepts commits for shards it assigned itself,
	// so seed it with one table/partition and reuse the shard id it hands
	// back rather than an arbitrary literal.
	ctx := context.Background()
	require.NoError(t, fake.CreateImportTable(ctx, 9, "hive", "db", "t"))
	ids, err := fake.CreateImportPartition(ctx, 9, model.Partition{Name: "p1"}, 1)
	require.NoError(t, err)
	shardID := ids[0]
	fw.setPollStatuses(int64(shardID), 202, 202, 200)

	job := importer.NewShardJob(shardID, worker, model.ShardImport{}, workerClient, queue, fake, exec, zerolog.Nop())
	require.NoError(t, job.Start(time.Millisecond))

	waitForState(t, job, importer.ShardStateDone, 2*time.Second)
	assert.True(t, fake.Committed(shardID))
	assert.Equal(t, "w1", fake.CommittedNode(shardID))
	assert.GreaterOrEqual(t, job.PollCount(), int64(3))

	// The worker must have been returned to the queue on commit.
	waitFor(t, time.Second, func() bool { return queue.Len() == 1 })
}

// TestShardJobReschedulesOnTransportError keeps polling (never commits) when
// every poll is a transport error.
func TestShardJobReschedulesOnTransportError(t *testing.T) {
	worker := model.Worker{NodeIdentifier: "w1", HTTPURI: "http://127.0.0.1:1"}
	queue, err := workerpool.NewQueue([]model.Worker{worker})
	require.NoError(t, err)

	fake := catalog.NewFake()
	workerClient := workerpool.NewClient()
	exec := importer.NewDelayedExecutor(4, 3*time.Millisecond)
	defer exec.Stop()

	job := importer.NewShardJob(model.ShardID(1), worker, model.ShardImport{}, workerClient, queue, fake, exec, zerolog.Nop())
	require.NoError(t, job.Start(time.Millisecond))

	waitFor(t, time.Second, func() bool { return job.PollCount() >= 3 })
	assert.NotEqual(t, importer.ShardStateDone, job.State())
	assert.False(t, fake.Committed(model.ShardID(1)))
}
