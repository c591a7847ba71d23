// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gogpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gogpu/gpu/types"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/backend"
)

func TestName(t *testing.T) {
	m := NewMaterializer()
	if m.Name() != backend.BackendGoGPU {
		t.Errorf("Name() = %q, want %q", m.Name(), backend.BackendGoGPU)
	}
}

func TestRegisteredOnImport(t *testing.T) {
	if !backend.IsRegistered(backend.BackendGoGPU) {
		t.Error("gogpu backend not registered by package import")
	}
	m := backend.Get(backend.BackendGoGPU)
	if m == nil {
		t.Fatal("Get(gogpu) = nil")
	}
	if _, ok := m.(*Materializer); !ok {
		t.Errorf("Get(gogpu) = %T, want *Materializer", m)
	}
}

func TestCreateBeforeInit(t *testing.T) {
	m := NewMaterializer()

	_, err := m.CreateImage(framegraph.ImageDescription{
		Width: 1, Height: 1, Depth: 1,
		Dimension: gputypes.TextureDimension2D,
	})
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("CreateImage before Init = %v, want ErrNotInitialized", err)
	}

	_, err = m.CreateBuffer(framegraph.BufferDescription{Size: 16})
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("CreateBuffer before Init = %v, want ErrNotInitialized", err)
	}
}

func TestCreateImageValidation(t *testing.T) {
	// Validation runs before any device work, so it is testable without a
	// GPU by flipping the initialized flag.
	m := NewMaterializer()
	m.initialized = true

	tests := []struct {
		name string
		desc framegraph.ImageDescription
		want error
	}{
		{
			name: "zero width",
			desc: framegraph.ImageDescription{
				Height: 1, Depth: 1,
				Dimension: gputypes.TextureDimension2D,
			},
			want: ErrInvalidDescription,
		},
		{
			name: "zero depth",
			desc: framegraph.ImageDescription{
				Width: 4, Height: 4,
				Dimension: gputypes.TextureDimension2D,
			},
			want: ErrInvalidDescription,
		},
		{
			name: "3d unsupported",
			desc: framegraph.ImageDescription{
				Width: 4, Height: 4, Depth: 4,
				Dimension: gputypes.TextureDimension3D,
			},
			want: ErrUnsupportedDimension,
		},
		{
			name: "unsupported format",
			desc: framegraph.ImageDescription{
				Width: 4, Height: 4, Depth: 1,
				Dimension: gputypes.TextureDimension2D,
				Format:    gputypes.TextureFormatDepth24PlusStencil8,
			},
			want: ErrUnsupportedFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.CreateImage(tt.desc)
			if !errors.Is(err, tt.want) {
				t.Errorf("CreateImage = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateBufferValidation(t *testing.T) {
	m := NewMaterializer()
	m.initialized = true

	_, err := m.CreateBuffer(framegraph.BufferDescription{Size: 0})
	if !errors.Is(err, ErrInvalidDescription) {
		t.Errorf("CreateBuffer with zero size = %v, want ErrInvalidDescription", err)
	}
}

func TestDestroyUnknownHandle(t *testing.T) {
	m := NewMaterializer()
	// Unknown handles are ignored without touching the device.
	m.DestroyImage(backend.ImageHandle(42))
	m.DestroyBuffer(backend.BufferHandle(42))
}

func TestConvertTextureFormat(t *testing.T) {
	tests := []struct {
		in   gputypes.TextureFormat
		want types.TextureFormat
	}{
		{gputypes.TextureFormatRGBA8Unorm, types.TextureFormatRGBA8Unorm},
		{gputypes.TextureFormatBGRA8Unorm, types.TextureFormatBGRA8Unorm},
	}
	for _, tt := range tests {
		got, err := convertTextureFormat(tt.in)
		if err != nil {
			t.Errorf("convertTextureFormat(%v) = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("convertTextureFormat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	// Unknown formats error instead of silently materializing the wrong
	// backing object.
	if _, err := convertTextureFormat(gputypes.TextureFormatUndefined); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("convertTextureFormat(Undefined) = %v, want ErrUnsupportedFormat", err)
	}
}

func TestConvertTextureUsage(t *testing.T) {
	in := gputypes.TextureUsageCopySrc | gputypes.TextureUsageRenderAttachment
	got := convertTextureUsage(in)
	if got&types.TextureUsageCopySrc == 0 {
		t.Error("CopySrc bit lost in conversion")
	}
	if got&types.TextureUsageRenderAttachment == 0 {
		t.Error("RenderAttachment bit lost in conversion")
	}
	if got&types.TextureUsageCopyDst != 0 {
		t.Error("conversion set CopyDst without it being requested")
	}
}

func TestConvertBufferUsage(t *testing.T) {
	in := gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst
	got := convertBufferUsage(in)
	if got&types.BufferUsageVertex == 0 {
		t.Error("Vertex bit lost in conversion")
	}
	if got&types.BufferUsageCopyDst == 0 {
		t.Error("CopyDst bit lost in conversion")
	}
	if got&types.BufferUsageUniform != 0 {
		t.Error("conversion set Uniform without it being requested")
	}
}
