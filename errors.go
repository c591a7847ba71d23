// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"errors"
	"fmt"
)

// Package errors.
var (
	// ErrUnknownTask is returned when a TaskID does not belong to the graph.
	ErrUnknownTask = errors.New("framegraph: unknown task")

	// ErrUnknownResource is returned when an ImageID or BufferID does not
	// belong to the graph.
	ErrUnknownResource = errors.New("framegraph: unknown resource")

	// ErrCycle is returned by AddDependency when the edge would close a
	// cycle. The graph is left unchanged.
	ErrCycle = errors.New("framegraph: dependency would create a cycle")

	// ErrGraphTooLarge is returned by Schedule with ProfileMaximizeAliasing
	// when the graph exceeds MaxAliasingTasks. The subset DP is exponential
	// in task count.
	ErrGraphTooLarge = errors.New("framegraph: too many tasks for aliasing optimization")

	// ErrNilReference is returned when a read or write is attempted through
	// a nil resource reference.
	ErrNilReference = errors.New("framegraph: nil resource reference")

	// ErrEmptySequence is returned by Sequence when no predecessor tasks
	// are given.
	ErrEmptySequence = errors.New("framegraph: sequence requires at least one task")
)

// HazardKind identifies the resource hazard detected on a reference.
type HazardKind int

const (
	// HazardWriteAfterWrite: the reference was already written. Each write
	// must go through the reference returned by the previous write.
	HazardWriteAfterWrite HazardKind = iota

	// HazardWriteAfterRead: the reference was already read. A write would
	// invalidate readers that synchronized against the old version.
	HazardWriteAfterRead

	// HazardReadAfterWrite: the reference was already written. Reads must
	// go through the new version minted by the write.
	HazardReadAfterWrite
)

// String returns the hazard name.
func (k HazardKind) String() string {
	switch k {
	case HazardWriteAfterWrite:
		return "write-after-write"
	case HazardWriteAfterRead:
		return "write-after-read"
	case HazardReadAfterWrite:
		return "read-after-write"
	default:
		return fmt.Sprintf("HazardKind(%d)", int(k))
	}
}

// HazardError reports a read/write exclusivity violation on a resource
// reference. It is returned synchronously at the point of violation: the
// authoring code expressed accesses out of order, which would produce a
// data race on the GPU if scheduled.
type HazardError struct {
	Kind HazardKind
	// Resource names the offending resource, e.g. "image 3" or "buffer 0".
	Resource string
	// Task is the task that attempted the access.
	Task TaskID
}

// Error implements the error interface.
func (e *HazardError) Error() string {
	return fmt.Sprintf("framegraph: %s hazard on %s (task %d)", e.Kind, e.Resource, e.Task)
}
