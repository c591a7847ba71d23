// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"testing"

	"github.com/gogpu/framegraph"
)

// mockMaterializer implements Materializer for registry tests.
type mockMaterializer struct {
	name   string
	inited bool
	closed bool

	nextImage  ImageHandle
	nextBuffer BufferHandle
}

func (m *mockMaterializer) Name() string { return m.name }

func (m *mockMaterializer) Init() error {
	m.inited = true
	return nil
}

func (m *mockMaterializer) CreateImage(_ framegraph.ImageDescription) (ImageHandle, error) {
	m.nextImage++
	return m.nextImage, nil
}

func (m *mockMaterializer) DestroyImage(_ ImageHandle) {}

func (m *mockMaterializer) CreateBuffer(_ framegraph.BufferDescription) (BufferHandle, error) {
	m.nextBuffer++
	return m.nextBuffer, nil
}

func (m *mockMaterializer) DestroyBuffer(_ BufferHandle) {}

func (m *mockMaterializer) Close() { m.closed = true }

func TestRegisterAndGet(t *testing.T) {
	t.Cleanup(func() { Unregister("mock") })

	Register("mock", func() Materializer {
		return &mockMaterializer{name: "mock"}
	})

	if !IsRegistered("mock") {
		t.Fatal("IsRegistered(mock) = false after Register")
	}

	m := Get("mock")
	if m == nil {
		t.Fatal("Get(mock) = nil")
	}
	if m.Name() != "mock" {
		t.Errorf("Name() = %q, want mock", m.Name())
	}
}

func TestGetUnknown(t *testing.T) {
	if m := Get("no-such-backend"); m != nil {
		t.Errorf("Get of unregistered backend = %v, want nil", m)
	}
}

func TestUnregister(t *testing.T) {
	Register("temp", func() Materializer {
		return &mockMaterializer{name: "temp"}
	})
	Unregister("temp")

	if IsRegistered("temp") {
		t.Error("IsRegistered(temp) = true after Unregister")
	}
	if m := Get("temp"); m != nil {
		t.Errorf("Get(temp) = %v after Unregister, want nil", m)
	}
}

func TestAvailable(t *testing.T) {
	t.Cleanup(func() { Unregister("avail-test") })

	Register("avail-test", func() Materializer {
		return &mockMaterializer{name: "avail-test"}
	})

	found := false
	for _, name := range Available() {
		if name == "avail-test" {
			found = true
		}
	}
	if !found {
		t.Errorf("Available() = %v, missing avail-test", Available())
	}
}

func TestRegisterReplaces(t *testing.T) {
	t.Cleanup(func() { Unregister("replace-test") })

	Register("replace-test", func() Materializer {
		return &mockMaterializer{name: "first"}
	})
	Register("replace-test", func() Materializer {
		return &mockMaterializer{name: "second"}
	})

	if m := Get("replace-test"); m == nil || m.Name() != "second" {
		t.Errorf("Get after re-registration = %v, want the second factory's result", m)
	}
}

func TestDefaultPrefersPriorityBackend(t *testing.T) {
	t.Cleanup(func() {
		Unregister(BackendGoGPU)
		Unregister("fallback")
	})

	Register("fallback", func() Materializer {
		return &mockMaterializer{name: "fallback"}
	})
	Register(BackendGoGPU, func() Materializer {
		return &mockMaterializer{name: BackendGoGPU}
	})

	m := Default()
	if m == nil {
		t.Fatal("Default() = nil with backends registered")
	}
	if m.Name() != BackendGoGPU {
		t.Errorf("Default().Name() = %q, want the priority backend %q", m.Name(), BackendGoGPU)
	}
}

func TestDefaultFallsBack(t *testing.T) {
	t.Cleanup(func() { Unregister("only") })

	Register("only", func() Materializer {
		return &mockMaterializer{name: "only"}
	})

	m := Default()
	if m == nil {
		t.Fatal("Default() = nil, want the only registered backend")
	}
	if m.Name() != "only" {
		t.Errorf("Default().Name() = %q, want only", m.Name())
	}
}

func TestMockLifecycle(t *testing.T) {
	m := &mockMaterializer{name: "lifecycle"}
	if err := m.Init(); err != nil {
		t.Fatalf("Init = %v", err)
	}

	h, err := m.CreateImage(framegraph.ImageDescription{Width: 1, Height: 1, Depth: 1})
	if err != nil {
		t.Fatalf("CreateImage = %v", err)
	}
	if h == InvalidHandle {
		t.Error("CreateImage returned InvalidHandle")
	}
	m.DestroyImage(h)
	m.Close()
	if !m.closed {
		t.Error("Close did not mark the materializer closed")
	}
}
