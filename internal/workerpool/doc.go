// Package workerpool implements the Node-Worker Queue (C1) and the Worker
// HTTP Client (C4).
//
// # Overview
//
// The queue is a bounded registry of reachable workers: a fixed set handed
// to NewQueue at construction, checked out by Acquire and returned by
// Release. Every successful Acquire is paired with exactly one Release on
// every exit path — success, retry, or cancellation — which is the
// invariant the rest of the import pipeline depends on (see the Worker
// Conservation property in the top-level design notes).
//
// # Concurrency model
//
//	┌─────────────────────────────┐
//	│           Queue              │
//	│  available: chan Worker      │  buffered, len == pool size
//	├─────────────────────────────┤
//	│ Acquire(ctx) -> <-available  │  blocks until a slot is ready,
//	│                              │  or ctx is done                │
//	│ Release(w)   -> available<-w │  at most once per checkout      │
//	└─────────────────────────────┘
//
// A buffered channel gives FIFO-ish fairness under steady load without a
// separate wait-queue data structure, and acquisition is cancellable by
// selecting on ctx.Done() alongside the channel receive.
//
// The HTTP client wraps the two worker RPCs (initiate, poll) as typed
// result enums rather than raw status codes, so callers (ChunkJob,
// ShardJob) never branch on magic numbers.
package workerpool
