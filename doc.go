// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package framegraph builds per-frame dependency graphs of GPU tasks and
// schedules them for submission.
//
// # Overview
//
// framegraph is the scheduling and memory-aliasing core of a GPU rendering
// abstraction in the GoGPU ecosystem. A frame is authored as a directed
// acyclic graph of tasks acting on images and buffers. The graph tracks
// resource versions with single-writer semantics, computes a submission
// order for the tasks, and identifies the synchronization points required
// between tasks on different queues.
//
// # Quick Start
//
//	g := framegraph.New()
//
//	gbuf := g.CreateImage(framegraph.ImageDescription{
//	    Width: 1920, Height: 1080, Depth: 1,
//	    MipLevelCount: 1, SampleCount: 1,
//	    Dimension: gputypes.TextureDimension2D,
//	    Format:    gputypes.TextureFormatRGBA8Unorm,
//	    Usage:     gputypes.TextureUsageRenderAttachment,
//	})
//	ref, _ := g.ImageRefFor(gbuf)
//
//	geom := g.CreateTask("geometry", 0)
//	ref, err := g.WriteImage(geom, ref, framegraph.ImageAccess{
//	    Access: framegraph.AccessColorAttachmentWrite,
//	    Stages: framegraph.StageColorAttachmentOutput,
//	    Layout: framegraph.LayoutColorAttachment,
//	})
//	// further tasks read ref, producing new versions on write...
//
//	order, err := g.Schedule(framegraph.ProfileMaximizeAliasing)
//
// The order is consumed by a submission sink (see the backend package)
// together with the graph; turning each task into device commands is outside
// this package.
//
// # Resource versioning
//
// Reading or writing a resource goes through a versioned reference
// ([ImageRef], [BufferRef]). A reference may be read any number of times
// until it is written, and written at most once; each write mints a new
// reference for subsequent accesses. Violations are reported synchronously
// as a [*HazardError], since they indicate an ordering bug that would race
// on the GPU.
//
// # Memory aliasing
//
// Transient resources whose lifetimes provably do not overlap can share a
// backing object. The alias subpackage provides the scope test and the pool
// that performs reuse; [Graph.Schedule] with [ProfileMaximizeAliasing]
// computes an ordering biased toward small resource lifetimes, which
// increases the pool's reuse opportunities.
//
// # Architecture
//
// The module is organized into:
//   - framegraph: task graph, resource versioning, scheduling
//   - alias: scope-based aliasing pool for backing objects
//   - backend: materialization and submission contracts, backend registry
//   - backend/gogpu: materializer over gogpu's gpu.Backend
package framegraph
