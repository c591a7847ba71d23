// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gogpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gogpu/gpu"
	"github.com/gogpu/gogpu/gpu/types"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/backend"
)

// Materializer allocates framegraph backing objects on a GPU device driven
// through gogpu's gpu.Backend. It implements backend.Materializer.
//
// Materializer is safe for concurrent use from multiple goroutines; all
// handle-table mutation is protected by a mutex.
type Materializer struct {
	mu sync.RWMutex

	// GPU resources via gogpu
	gpuBackend gpu.Backend
	instance   types.Instance
	adapter    types.Adapter
	device     types.Device
	queue      types.Queue

	// ID generation
	nextID atomic.Uint64

	// Handle tables mapping framegraph handles to gpu/types objects.
	images  map[backend.ImageHandle]types.Texture
	buffers map[backend.BufferHandle]types.Buffer

	initialized bool
}

// NewMaterializer creates a new gogpu materializer.
// It must be initialized with Init before use.
func NewMaterializer() *Materializer {
	return &Materializer{
		images:  make(map[backend.ImageHandle]types.Texture),
		buffers: make(map[backend.BufferHandle]types.Buffer),
	}
}

// Name returns the backend identifier.
func (m *Materializer) Name() string {
	return backend.BackendGoGPU
}

// Init initializes the materializer by creating GPU resources:
// the active gogpu backend (Rust or Pure Go), a WebGPU instance, an
// adapter, a logical device and its queue.
func (m *Materializer) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	gpuBackend := gpu.GetBackend()
	if gpuBackend == nil {
		// Try to initialize the default backend.
		if err := gpu.InitDefaultBackend(); err != nil {
			return fmt.Errorf("%w: %w", ErrNoGPUBackend, err)
		}
		gpuBackend = gpu.GetBackend()
	}
	if gpuBackend == nil {
		return ErrNoGPUBackend
	}
	m.gpuBackend = gpuBackend

	log := framegraph.Logger()
	log.Debug("gogpu: using GPU backend", "name", gpuBackend.Name())

	instance, err := gpuBackend.CreateInstance()
	if err != nil {
		return fmt.Errorf("instance creation failed: %w", err)
	}
	m.instance = instance

	adapter, err := gpuBackend.RequestAdapter(instance, &types.AdapterOptions{
		PowerPreference: types.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPUBackend, err)
	}
	m.adapter = adapter

	device, err := gpuBackend.RequestDevice(adapter, &types.DeviceOptions{
		Label: "framegraph-gogpu-device",
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceCreationFailed, err)
	}
	m.device = device
	m.queue = gpuBackend.GetQueue(device)

	m.initialized = true
	log.Debug("gogpu: materializer initialized")
	return nil
}

// Close releases every live backing object. Callers must have drained the
// device first: Close does not wait for GPU completion.
func (m *Materializer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}

	for h, tex := range m.images {
		m.gpuBackend.ReleaseTexture(tex)
		delete(m.images, h)
	}
	for h, buf := range m.buffers {
		m.gpuBackend.ReleaseBuffer(buf)
		delete(m.buffers, h)
	}

	m.initialized = false
}

// newID mints a process-unique handle value.
func (m *Materializer) newID() uint64 {
	return m.nextID.Add(1)
}
