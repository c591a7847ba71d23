// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gogpu

import (
	"fmt"

	"github.com/gogpu/gogpu/gpu/types"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/backend"
)

// CreateImage allocates a GPU texture for the description and returns its
// handle. Invoked by the aliasing pool only on a miss.
func (m *Materializer) CreateImage(desc framegraph.ImageDescription) (backend.ImageHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return backend.InvalidHandle, ErrNotInitialized
	}
	if desc.Width == 0 || desc.Height == 0 || desc.Depth == 0 {
		return backend.InvalidHandle, fmt.Errorf("%w: extent %dx%dx%d",
			ErrInvalidDescription, desc.Width, desc.Height, desc.Depth)
	}
	if desc.Dimension != gputypes.TextureDimension2D {
		return backend.InvalidHandle, fmt.Errorf("%w: %v", ErrUnsupportedDimension, desc.Dimension)
	}
	format, err := convertTextureFormat(desc.Format)
	if err != nil {
		return backend.InvalidHandle, err
	}

	td := &types.TextureDescriptor{
		Label: desc.Label,
		Size: types.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: desc.Depth,
		},
		MipLevelCount: desc.MipLevelCount,
		SampleCount:   desc.SampleCount,
		Dimension:     types.TextureDimension2D,
		Format:        format,
		Usage:         convertTextureUsage(desc.Usage),
	}

	texture, err := m.gpuBackend.CreateTexture(m.device, td)
	if err != nil {
		return backend.InvalidHandle, fmt.Errorf("failed to create texture: %w", err)
	}

	h := backend.ImageHandle(m.newID())
	m.images[h] = texture
	return h, nil
}

// DestroyImage releases the texture behind the handle. Unknown handles are
// ignored; destruction of an already-reclaimed object is not an error at
// this layer.
func (m *Materializer) DestroyImage(h backend.ImageHandle) {
	m.mu.Lock()
	texture, ok := m.images[h]
	if ok {
		delete(m.images, h)
	}
	m.mu.Unlock()

	if ok {
		m.gpuBackend.ReleaseTexture(texture)
	}
}

// CreateBuffer allocates a GPU buffer for the description and returns its
// handle.
func (m *Materializer) CreateBuffer(desc framegraph.BufferDescription) (backend.BufferHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return backend.InvalidHandle, ErrNotInitialized
	}
	if desc.Size == 0 {
		return backend.InvalidHandle, fmt.Errorf("%w: zero-size buffer", ErrInvalidDescription)
	}

	bd := &types.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: convertBufferUsage(desc.Usage),
	}

	buffer, err := m.gpuBackend.CreateBuffer(m.device, bd)
	if err != nil {
		return backend.InvalidHandle, fmt.Errorf("failed to create buffer: %w", err)
	}

	h := backend.BufferHandle(m.newID())
	m.buffers[h] = buffer
	return h, nil
}

// DestroyBuffer releases the buffer behind the handle.
func (m *Materializer) DestroyBuffer(h backend.BufferHandle) {
	m.mu.Lock()
	buffer, ok := m.buffers[h]
	if ok {
		delete(m.buffers, h)
	}
	m.mu.Unlock()

	if ok {
		m.gpuBackend.ReleaseBuffer(buffer)
	}
}

// convertTextureFormat converts gputypes.TextureFormat to types.TextureFormat.
// Unknown formats are an error: a silent fallback would materialize a
// wrongly-formatted backing object.
func convertTextureFormat(format gputypes.TextureFormat) (types.TextureFormat, error) {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm:
		return types.TextureFormatRGBA8Unorm, nil
	case gputypes.TextureFormatBGRA8Unorm:
		return types.TextureFormatBGRA8Unorm, nil
	default:
		return types.TextureFormatUndefined, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

// convertTextureUsage converts gputypes.TextureUsage to types.TextureUsage.
func convertTextureUsage(usage gputypes.TextureUsage) types.TextureUsage {
	var result types.TextureUsage

	if usage&gputypes.TextureUsageCopySrc != 0 {
		result |= types.TextureUsageCopySrc
	}
	if usage&gputypes.TextureUsageCopyDst != 0 {
		result |= types.TextureUsageCopyDst
	}
	if usage&gputypes.TextureUsageTextureBinding != 0 {
		result |= types.TextureUsageTextureBinding
	}
	if usage&gputypes.TextureUsageRenderAttachment != 0 {
		result |= types.TextureUsageRenderAttachment
	}

	return result
}

// convertBufferUsage converts gputypes.BufferUsage to types.BufferUsage.
func convertBufferUsage(usage gputypes.BufferUsage) types.BufferUsage {
	var result types.BufferUsage

	if usage&gputypes.BufferUsageMapRead != 0 {
		result |= types.BufferUsageMapRead
	}
	if usage&gputypes.BufferUsageMapWrite != 0 {
		result |= types.BufferUsageMapWrite
	}
	if usage&gputypes.BufferUsageCopySrc != 0 {
		result |= types.BufferUsageCopySrc
	}
	if usage&gputypes.BufferUsageCopyDst != 0 {
		result |= types.BufferUsageCopyDst
	}
	if usage&gputypes.BufferUsageVertex != 0 {
		result |= types.BufferUsageVertex
	}
	if usage&gputypes.BufferUsageUniform != 0 {
		result |= types.BufferUsageUniform
	}
	if usage&gputypes.BufferUsageStorage != 0 {
		result |= types.BufferUsageStorage
	}

	return result
}
