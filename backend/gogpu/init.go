// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gogpu

import (
	"github.com/gogpu/framegraph/backend"
)

// init registers the gogpu materializer on package import.
// This enables automatic backend selection when using backend.Default().
//
// The materializer requires a GPU backend to be registered with gogpu.
// Import one of the following to enable GPU support:
//
//	import _ "github.com/gogpu/gogpu/gpu/backend/rust"   // Rust (wgpu-native)
//	import _ "github.com/gogpu/gogpu/gpu/backend/native" // Pure Go
func init() {
	backend.Register(backend.BackendGoGPU, func() backend.Materializer {
		return NewMaterializer()
	})
}
