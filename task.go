// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

// TaskID identifies a task within one graph. IDs are dense indices in
// authoring order, minted by CreateTask and never reused within a graph.
type TaskID int32

// InvalidTask is the zero-graph sentinel for "no task".
const InvalidTask TaskID = -1

// QueueID identifies the execution queue a task targets. Queue 0 is the
// default queue; the mapping of IDs to device queues belongs to the backend.
type QueueID uint32

// Task is one authored operation in the frame graph. Tasks are immutable
// after creation; only the edges pointing to and from them grow as the
// frame is authored.
type Task struct {
	// Name is a debug label for the task ("gbuffer", "shadow", "present").
	Name string

	// Queue is the execution queue the task targets.
	Queue QueueID
}
