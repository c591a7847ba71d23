// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend defines the contracts between the framegraph core and
// the GPU backend that executes it.
//
// The core touches the device through two narrow surfaces: a Materializer,
// invoked by the aliasing pool only on a miss to allocate (and eventually
// destroy) backing objects, and a Submitter, which consumes a computed task
// order and turns each task into real device commands. Concrete backends
// register themselves by name and are selected via Get or Default.
package backend

import (
	"errors"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/framegraph"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// ImageHandle is an opaque handle to a materialized image backing object.
// Handles are meaningful only to the Materializer that minted them.
type ImageHandle uint64

// BufferHandle is an opaque handle to a materialized buffer backing object.
type BufferHandle uint64

// InvalidHandle is the zero value, representing no object.
const InvalidHandle = 0

// DeviceHandle provides GPU device access from the host application.
//
// The host (e.g. a gogpu.App) implements DeviceHandle and passes it to
// backend constructors, so the framegraph shares the host's device instead
// of creating its own. DeviceHandle is an alias for
// gpucontext.DeviceProvider, keeping backends compatible with the
// gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// Materializer allocates and destroys backing objects for the aliasing
// pool. CreateImage/CreateBuffer are invoked only on a pool miss; they may
// perform real allocation on the device but must not touch the pool's
// bookkeeping. Destroy calls receive ownership of a fully-released object
// and must only run after the device has finished all work referencing it.
type Materializer interface {
	// Name returns the backend identifier (e.g. "gogpu").
	Name() string

	// Init initializes the backend. It must be called before any
	// materialization.
	Init() error

	// CreateImage allocates a backing image for the description.
	CreateImage(desc framegraph.ImageDescription) (ImageHandle, error)

	// DestroyImage releases a backing image.
	DestroyImage(h ImageHandle)

	// CreateBuffer allocates a backing buffer for the description.
	CreateBuffer(desc framegraph.BufferDescription) (BufferHandle, error)

	// DestroyBuffer releases a backing buffer.
	DestroyBuffer(h BufferHandle)

	// Close releases all backend resources. The materializer must not be
	// used after Close.
	Close()
}

// Submitter consumes a computed submission order. It is the sole consumer
// of the scheduler's result: it records each task's commands in order,
// inserting the synchronization the graph's cross-queue edges require.
type Submitter interface {
	Submit(g *framegraph.Graph, order []framegraph.TaskID) error
}
