package importer_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// fakeWorker is an httptest-backed double for the worker HTTP service,
// mirroring internal/workerpool's fakeworker_test.go double (duplicated
// here rather than shared, since it is a small unexported test type in
// another package's test binary).
type fakeWorker struct {
	mu sync.Mutex

	initiateStatusQueue map[int64][]int
	pollStatusQueue     map[int64][]int
	initiateCount       map[int64]int
	pollCount           map[int64]int

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
func (fw *fakeWorker) Close()      { fw.server.Close() }

func (fw *fakeWorker) setInitiateStatuses(shardID int64, statuses ...int) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.initiateStatusQueue[shardID] = append([]int{}, statuses...)
}

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
