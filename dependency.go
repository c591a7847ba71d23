// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import "github.com/gogpu/gputypes"

// DependencyID is an opaque handle to one edge of the graph.
type DependencyID int32

// AccessFlags is a bitmask describing how the destination task accesses
// the resource carried by a dependency.
type AccessFlags uint32

// Access flags.
const (
	// AccessIndirectCommandRead covers indirect draw/dispatch parameter reads.
	AccessIndirectCommandRead AccessFlags = 1 << iota

	// AccessIndexRead covers index buffer reads.
	AccessIndexRead

	// AccessVertexAttributeRead covers vertex buffer reads.
	AccessVertexAttributeRead

	// AccessUniformRead covers uniform buffer reads.
	AccessUniformRead

	// AccessInputAttachmentRead covers reads of an attachment within a
	// render pass.
	AccessInputAttachmentRead

	// AccessShaderRead covers sampled image and storage reads in shaders.
	AccessShaderRead

	// AccessShaderWrite covers storage writes in shaders.
	AccessShaderWrite

	// AccessColorAttachmentRead covers color attachment reads (blending).
	AccessColorAttachmentRead

	// AccessColorAttachmentWrite covers color attachment output.
	AccessColorAttachmentWrite

	// AccessDepthStencilRead covers depth/stencil tests.
	AccessDepthStencilRead

	// AccessDepthStencilWrite covers depth/stencil writes.
	AccessDepthStencilWrite

	// AccessTransferRead covers copy sources.
	AccessTransferRead

	// AccessTransferWrite covers copy destinations.
	AccessTransferWrite

	// AccessHostRead covers host reads of device memory.
	AccessHostRead

	// AccessHostWrite covers host writes of device memory.
	AccessHostWrite

	// AccessMemoryRead covers any read not named above.
	AccessMemoryRead

	// AccessMemoryWrite covers any write not named above.
	AccessMemoryWrite
)

// accessWriteMask is the union of all write accesses.
const accessWriteMask = AccessShaderWrite |
	AccessColorAttachmentWrite |
	AccessDepthStencilWrite |
	AccessTransferWrite |
	AccessHostWrite |
	AccessMemoryWrite

// IsWrite reports whether the mask contains any write access.
func (a AccessFlags) IsWrite() bool { return a&accessWriteMask != 0 }

// StageFlags is a bitmask of pipeline stages. A dependency waits for its
// source stages to complete before its destination stages may begin.
type StageFlags uint32

// Stage flags.
const (
	// StageTopOfPipe is the earliest pipeline stage. As a source stage it
	// means "no wait needed"; initial resource references carry it.
	StageTopOfPipe StageFlags = 1 << iota

	// StageDrawIndirect consumes indirect command parameters.
	StageDrawIndirect

	// StageVertexInput consumes index and vertex buffers.
	StageVertexInput

	// StageVertexShader executes vertex shading.
	StageVertexShader

	// StageFragmentShader executes fragment shading.
	StageFragmentShader

	// StageEarlyFragmentTests runs depth/stencil tests before shading.
	StageEarlyFragmentTests

	// StageLateFragmentTests runs depth/stencil tests after shading.
	StageLateFragmentTests

	// StageColorAttachmentOutput writes color attachments.
	StageColorAttachmentOutput

	// StageComputeShader executes compute dispatches.
	StageComputeShader

	// StageTransfer executes copies and blits.
	StageTransfer

	// StageHost covers host access to device memory.
	StageHost

	// StageBottomOfPipe is the latest pipeline stage. Imported resources
	// are treated as produced at bottom-of-pipe by an external frame.
	StageBottomOfPipe

	// StageAllCommands covers every stage.
	StageAllCommands
)

// ImageLayout is the memory layout an image must be in for a given use.
// Layout transitions are realized by the backend; the graph only records
// the layout each dependency requires.
type ImageLayout uint32

// Image layouts.
const (
	// LayoutUndefined carries no guarantee about image contents.
	LayoutUndefined ImageLayout = iota

	// LayoutGeneral supports any access, at a performance cost.
	LayoutGeneral

	// LayoutColorAttachment is optimal for color attachment output.
	LayoutColorAttachment

	// LayoutDepthStencilAttachment is optimal for depth/stencil use.
	LayoutDepthStencilAttachment

	// LayoutShaderReadOnly is optimal for sampling in shaders.
	LayoutShaderReadOnly

	// LayoutTransferSrc is optimal as a copy source.
	LayoutTransferSrc

	// LayoutTransferDst is optimal as a copy destination.
	LayoutTransferDst

	// LayoutPresent is required for presentation to a surface.
	LayoutPresent
)

// AttachmentInfo binds an image dependency to a render pass attachment slot.
type AttachmentInfo struct {
	// Index is the attachment index within the render pass.
	Index uint32

	// Description is the attachment's image description, recorded so the
	// backend can build the render pass without consulting the resource
	// table again.
	Description ImageDescription
}

// DependencyDetail is the resource-specific part of a dependency. Exactly
// one of ImageDetail, BufferDetail or SequenceDetail is carried per edge.
type DependencyDetail interface {
	isDependencyDetail()
}

// ImageDetail is a dependency on an image resource.
type ImageDetail struct {
	// Image is the graph-local image accessed through this edge.
	Image ImageID

	// NewLayout is the layout the image must be in for the destination task.
	NewLayout ImageLayout

	// Usage is the usage the image must have been created with.
	Usage gputypes.TextureUsage

	// Attachment is set when the destination task binds the image as a
	// render pass attachment.
	Attachment *AttachmentInfo
}

// BufferDetail is a dependency on a buffer resource.
type BufferDetail struct {
	// Buffer is the graph-local buffer accessed through this edge.
	Buffer BufferID

	// Usage is the usage the buffer must have been created with.
	Usage gputypes.BufferUsage
}

// SequenceDetail is a pure ordering constraint between two tasks, not
// associated with any resource.
type SequenceDetail struct{}

func (ImageDetail) isDependencyDetail()    {}
func (BufferDetail) isDependencyDetail()   {}
func (SequenceDetail) isDependencyDetail() {}

// Dependency is a directed edge of the graph: the destination task must not
// execute its DstStages until the source task's SrcStages have completed,
// with Access describing the destination's access to the carried resource.
type Dependency struct {
	// Access is how the destination accesses the resource. Zero for
	// sequence-only edges.
	Access AccessFlags

	// SrcStages are the source-task stages the edge waits on.
	// StageBottomOfPipe when unknown.
	SrcStages StageFlags

	// DstStages are the destination-task stages that wait.
	// StageTopOfPipe when unknown.
	DstStages StageFlags

	// Detail carries the resource-specific part of the edge.
	Detail DependencyDetail
}

// ImageID returns the image this dependency touches, or (0, false) if the
// edge does not carry an image.
func (d *Dependency) ImageID() (ImageID, bool) {
	if det, ok := d.Detail.(ImageDetail); ok {
		return det.Image, true
	}
	return 0, false
}

// BufferID returns the buffer this dependency touches, or (0, false) if the
// edge does not carry a buffer.
func (d *Dependency) BufferID() (BufferID, bool) {
	if det, ok := d.Detail.(BufferDetail); ok {
		return det.Buffer, true
	}
	return 0, false
}

// IsSequence reports whether the edge is a pure ordering constraint.
func (d *Dependency) IsSequence() bool {
	_, ok := d.Detail.(SequenceDetail)
	return ok
}

// SequenceDependency returns a pure ordering edge between two tasks.
func SequenceDependency() Dependency {
	return Dependency{
		SrcStages: StageBottomOfPipe,
		DstStages: StageTopOfPipe,
		Detail:    SequenceDetail{},
	}
}
