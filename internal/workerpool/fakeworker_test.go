package workerpool_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// fakeWorker is an httptest-backed double for the worker HTTP service
// (§4.4, §6), simulating PUT/GET /v1/shard/{id}.
//
// Adapted from the teacher's storage.MemoryStore: a map protected by a
// mutex, with a small stats struct, repurposed from tracking key/value
// pairs to tracking per-shard build state and poll counts.
type fakeWorker struct {
	mu sync.Mutex

	// initiateStatusQueue, if set for a shard id, overrides the default 202
	// response to the first N PUTs (used to simulate S2's reject-then-
	// accept scenario). It is consumed (popped) on each PUT.
	initiateStatusQueue map[int64][]int

	// pollStatusQueue holds a queue of statuses to return for each GET,
	// consumed in order; the last entry repeats once exhausted. Used to
	// simulate S3's "stalls for 5 ticks then completes".
	pollStatusQueue map[int64][]int

	initiateCount map[int64]int
	pollCount     map[int64]int

	server *httptest.Server
}

func newFakeWorker() *fakeWorker {
	fw := &fakeWorker{
		initiateStatusQueue: make(map[int64][]int),
		pollStatusQueue:     make(map[int64][]int),
		initiateCount:       make(map[int64]int),
		pollCount:           make(map[int64]int),
	}
	fw.server = httptest.NewServer(http.HandlerFunc(fw.handle))
	return fw
}

func (fw *fakeWorker) URL() string { return fw.server.URL }

func (fw *fakeWorker) Close() { fw.server.Close() }

// setInitiateStatuses queues the sequence of HTTP statuses to return for
// successive PUTs to shardID; once exhausted, subsequent PUTs return 202.
func (fw *fakeWorker) setInitiateStatuses(shardID int64, statuses ...int) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.initiateStatusQueue[shardID] = append([]int{}, statuses...)
}

// setPollStatuses queues the sequence of HTTP statuses to return for
// successive GETs to shardID; once exhausted, the last status repeats.
func (fw *fakeWorker) setPollStatuses(shardID int64, statuses ...int) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.pollStatusQueue[shardID] = append([]int{}, statuses...)
}

func (fw *fakeWorker) initiateCalls(shardID int64) int {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.initiateCount[shardID]
}

func (fw *fakeWorker) pollCalls(shardID int64) int {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.pollCount[shardID]
}

func (fw *fakeWorker) handle(w http.ResponseWriter, r *http.Request) {
	var shardID int64
	if _, err := fmt.Sscanf(strings.TrimPrefix(r.URL.Path, "/v1/shard/"), "%d", &shardID); err != nil {
		http.Error(w, "bad shard id", http.StatusBadRequest)
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		fw.initiateCount[shardID]++
		status := http.StatusAccepted
		if q := fw.initiateStatusQueue[shardID]; len(q) > 0 {
			status = q[0]
			fw.initiateStatusQueue[shardID] = q[1:]
		}
		w.WriteHeader(status)
	case http.MethodGet:
		fw.pollCount[shardID]++
		status := http.StatusOK
		if q := fw.pollStatusQueue[shardID]; len(q) > 0 {
			status = q[0]
			if len(q) > 1 {
				fw.pollStatusQueue[shardID] = q[1:]
			}
		}
		w.WriteHeader(status)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
