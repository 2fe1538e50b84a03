package workerpool

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dreamware/shardflow/internal/metrics"
)

// PoolMonitor periodically samples a Queue's depth and publishes it as
// Prometheus gauges. It is pure observability: it never influences
// acquire/release behavior.
//
// Adapted from the teacher's coordinator health monitor (ticker + context +
// wg lifecycle), repointed from per-node liveness polling to pool-depth
// sampling, since this system has no notion of a worker silently going
// unhealthy out of band — a worker that stops answering simply causes its
// ChunkJob/ShardJob to keep retrying/rescheduling forever (§4.5.3, §4.5.4).
type PoolMonitor struct {
	queue    *Queue
	interval time.Duration
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPoolMonitor creates a monitor that samples queue every interval.
func NewPoolMonitor(queue *Queue, interval time.Duration, logger zerolog.Logger) *PoolMonitor {
	ctx, cancel := context.WithCancel(context.Background())
	return &PoolMonitor{
		queue:    queue,
		interval: interval,
		logger:   logger.With().Str("component", "pool_monitor").Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins sampling in a background goroutine. Stop ends it.
func (m *PoolMonitor) Start() {
	metrics.WorkerPoolCapacity.Set(float64(m.queue.Cap()))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-m.ctx.Done():
				return
			case <-ticker.C:
				m.sample()
			}
		}
	}()
}

func (m *PoolMonitor) sample() {
	idle := m.queue.Len()
	cap := m.queue.Cap()
	inUse := cap - idle
	metrics.WorkersInUse.Set(float64(inUse))
	m.logger.Debug().Int("idle", idle).Int("in_use", inUse).Int("capacity", cap).Msg("worker pool sample")
}

// Stop cancels the sampling goroutine and waits for it to exit.
func (m *PoolMonitor) Stop() {
	m.cancel()
	m.wg.Wait()
}
