// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gogpu materializes framegraph backing objects through gogpu's
// gpu.Backend interface, which supports both Rust (wgpu-native) and Pure
// Go (gogpu/wgpu) implementations.
//
// To use this backend, import it for its registration side effect together
// with a GPU backend for gogpu itself:
//
//	import _ "github.com/gogpu/framegraph/backend/gogpu"
//	import _ "github.com/gogpu/gogpu/gpu/backend/native" // Pure Go
package gogpu

import "errors"

// Package errors for the gogpu backend.
var (
	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("gogpu: backend not initialized")

	// ErrNoGPUBackend is returned when no GPU backend is available.
	ErrNoGPUBackend = errors.New("gogpu: no GPU backend available")

	// ErrDeviceCreationFailed is returned when GPU device creation fails.
	ErrDeviceCreationFailed = errors.New("gogpu: device creation failed")

	// ErrInvalidDescription is returned when a resource description has a
	// zero extent or size.
	ErrInvalidDescription = errors.New("gogpu: invalid resource description")

	// ErrUnsupportedDimension is returned for image dimensions other than 2D.
	ErrUnsupportedDimension = errors.New("gogpu: unsupported texture dimension")

	// ErrUnsupportedFormat is returned for texture formats this backend
	// cannot materialize.
	ErrUnsupportedFormat = errors.New("gogpu: unsupported texture format")
)
