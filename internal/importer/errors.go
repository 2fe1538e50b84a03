// Package importer implements the Import Orchestrator (C5): the three-stage
// pipeline that turns one importTable call into a tree of PartitionJob,
// ChunkJob, and ShardJob state machines running on independent executors.
package importer

import "errors"

// ErrInvalidArgument is raised synchronously from ImportTable when fields is
// empty or sourceName is unsupported. No side effects precede it.
var ErrInvalidArgument = errors.New("importer: invalid argument")

// ErrFatalExecutorFailure is returned when a job cannot be submitted because
// its executor has already been stopped.
var ErrFatalExecutorFailure = errors.New("importer: executor rejected submission after shutdown")
