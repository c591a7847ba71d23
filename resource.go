// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// ImageID identifies an image within one graph. IDs are dense indices
// minted by CreateImage/ImportImage and never reused within a graph.
type ImageID int32

// BufferID identifies a buffer within one graph.
type BufferID int32

// ImageDescription describes the shape of an image backing object.
// Descriptions compare with ==; two transient images with equal descriptions
// and non-overlapping lifetimes may share one backing object.
type ImageDescription struct {
	// Label is an optional debug label.
	Label string

	// Width, Height, Depth are the image extent in pixels. Depth is the
	// array layer count for 2D images; use 1 for plain 2D.
	Width  uint32
	Height uint32
	Depth  uint32

	// MipLevelCount is the number of mipmap levels. Use 1 for no mipmaps.
	MipLevelCount uint32

	// SampleCount is the number of samples for multisampling. Use 1 for
	// no multisampling.
	SampleCount uint32

	// Dimension is the image dimensionality.
	Dimension gputypes.TextureDimension

	// Format is the pixel format.
	Format gputypes.TextureFormat

	// Usage is the set of usages the backing object must support.
	Usage gputypes.TextureUsage
}

// BufferDescription describes the shape of a buffer backing object.
type BufferDescription struct {
	// Label is an optional debug label.
	Label string

	// Size is the buffer size in bytes.
	Size uint64

	// Usage is the set of usages the backing object must support.
	Usage gputypes.BufferUsage
}

// refState carries the single-assignment read/write flags shared by image
// and buffer references.
type refState struct {
	read    bool
	written bool
}

// markRead validates and records a read access. Reads may repeat freely
// until the reference is written.
func (s *refState) markRead(task TaskID, resource string) error {
	if s.written {
		return &HazardError{Kind: HazardReadAfterWrite, Resource: resource, Task: task}
	}
	s.read = true
	return nil
}

// markWrite validates and records the write access. A reference may be
// written at most once, and only if it was never read.
func (s *refState) markWrite(task TaskID, resource string) error {
	if s.written {
		return &HazardError{Kind: HazardWriteAfterWrite, Resource: resource, Task: task}
	}
	if s.read {
		return &HazardError{Kind: HazardWriteAfterRead, Resource: resource, Task: task}
	}
	s.written = true
	return nil
}

// ImageRef is one version of an image: the handle returned by the operation
// that produced or last wrote the image, consumed by operations that read
// or write it. A write through Graph.WriteImage invalidates the reference
// and mints the next version; the stale reference fails all further accesses.
type ImageRef struct {
	image ImageID

	// task is the producing task, or InvalidTask for the initial version
	// of a transient image.
	task TaskID

	// srcStages are the stages a consumer must wait on. StageTopOfPipe for
	// an initial version (no wait needed).
	srcStages StageFlags

	// srcAccess is the producer's access, for the source half of barriers.
	srcAccess AccessFlags

	// layout is the image layout the version was left in.
	layout ImageLayout

	state refState
}

// Image returns the image this reference versions.
func (r *ImageRef) Image() ImageID { return r.image }

// Task returns the producing task, or InvalidTask for an initial version.
func (r *ImageRef) Task() TaskID { return r.task }

// SrcStages returns the stages consumers of this version wait on.
func (r *ImageRef) SrcStages() StageFlags { return r.srcStages }

// Layout returns the layout this version was left in.
func (r *ImageRef) Layout() ImageLayout { return r.layout }

func (r *ImageRef) resource() string { return fmt.Sprintf("image %d", r.image) }

// BufferRef is one version of a buffer. See ImageRef.
type BufferRef struct {
	buffer    BufferID
	task      TaskID
	srcStages StageFlags
	srcAccess AccessFlags

	state refState
}

// Buffer returns the buffer this reference versions.
func (r *BufferRef) Buffer() BufferID { return r.buffer }

// Task returns the producing task, or InvalidTask for an initial version.
func (r *BufferRef) Task() TaskID { return r.task }

// SrcStages returns the stages consumers of this version wait on.
func (r *BufferRef) SrcStages() StageFlags { return r.srcStages }

func (r *BufferRef) resource() string { return fmt.Sprintf("buffer %d", r.buffer) }

// imageResource is the graph's record of one image.
type imageResource struct {
	desc ImageDescription

	// imported images are externally owned; they never alias pool memory
	// and keep their identity across frames.
	imported bool
}

// bufferResource is the graph's record of one buffer.
type bufferResource struct {
	desc     BufferDescription
	imported bool
}
