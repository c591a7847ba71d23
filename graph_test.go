// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func testImageDesc(label string) ImageDescription {
	return ImageDescription{
		Label:         label,
		Width:         1920,
		Height:        1080,
		Depth:         1,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	}
}

func TestCreateTask(t *testing.T) {
	g := New()
	a := g.CreateTask("geometry", 0)
	b := g.CreateTask("lighting", 1)

	if g.TaskCount() != 2 {
		t.Fatalf("TaskCount() = %d, want 2", g.TaskCount())
	}
	if a == b {
		t.Errorf("CreateTask returned duplicate ID %d", a)
	}

	task, ok := g.Task(b)
	if !ok {
		t.Fatalf("Task(%d) not found", b)
	}
	if task.Name != "lighting" || task.Queue != 1 {
		t.Errorf("Task(%d) = %+v, want {lighting 1}", b, task)
	}
}

func TestTaskUnknown(t *testing.T) {
	g := New()
	g.CreateTask("only", 0)

	for _, id := range []TaskID{-1, 1, 99, InvalidTask} {
		if _, ok := g.Task(id); ok {
			t.Errorf("Task(%d) = ok, want not found", id)
		}
	}
}

func TestAddDependency(t *testing.T) {
	g := New()
	a := g.CreateTask("a", 0)
	b := g.CreateTask("b", 0)

	id, err := g.AddDependency(a, b, SequenceDependency())
	if err != nil {
		t.Fatalf("AddDependency(%d, %d) = %v", a, b, err)
	}
	if g.DependencyCount() != 1 {
		t.Fatalf("DependencyCount() = %d, want 1", g.DependencyCount())
	}

	src, dst, ok := g.DependencyEndpoints(id)
	if !ok || src != a || dst != b {
		t.Errorf("DependencyEndpoints(%d) = (%d, %d, %v), want (%d, %d, true)", id, src, dst, ok, a, b)
	}

	dep, ok := g.Dependency(id)
	if !ok {
		t.Fatalf("Dependency(%d) not found", id)
	}
	if !dep.IsSequence() {
		t.Errorf("Dependency(%d).IsSequence() = false, want true", id)
	}

	if out := g.Outgoing(a); len(out) != 1 || out[0] != id {
		t.Errorf("Outgoing(%d) = %v, want [%d]", a, out, id)
	}
	if in := g.Incoming(b); len(in) != 1 || in[0] != id {
		t.Errorf("Incoming(%d) = %v, want [%d]", b, in, id)
	}
}

func TestAddDependencyUnknownTask(t *testing.T) {
	g := New()
	a := g.CreateTask("a", 0)

	if _, err := g.AddDependency(a, 42, SequenceDependency()); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("AddDependency to unknown task = %v, want ErrUnknownTask", err)
	}
	if _, err := g.AddDependency(42, a, SequenceDependency()); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("AddDependency from unknown task = %v, want ErrUnknownTask", err)
	}
}

func TestAddDependencyRejectsSelfEdge(t *testing.T) {
	g := New()
	a := g.CreateTask("a", 0)

	if _, err := g.AddDependency(a, a, SequenceDependency()); !errors.Is(err, ErrCycle) {
		t.Errorf("self edge = %v, want ErrCycle", err)
	}
	if g.DependencyCount() != 0 {
		t.Errorf("DependencyCount() = %d after rejected edge, want 0", g.DependencyCount())
	}
}

func TestAddDependencyRejectsCycle(t *testing.T) {
	g := New()
	a := g.CreateTask("a", 0)
	b := g.CreateTask("b", 0)
	c := g.CreateTask("c", 0)

	mustAddDependency(t, g, a, b)
	mustAddDependency(t, g, b, c)

	if _, err := g.AddDependency(c, a, SequenceDependency()); !errors.Is(err, ErrCycle) {
		t.Errorf("closing edge = %v, want ErrCycle", err)
	}
	if g.DependencyCount() != 2 {
		t.Errorf("DependencyCount() = %d after rejected edge, want 2", g.DependencyCount())
	}

	// The pair a->b, b->a must also be caught.
	if _, err := g.AddDependency(b, a, SequenceDependency()); !errors.Is(err, ErrCycle) {
		t.Errorf("back edge = %v, want ErrCycle", err)
	}
}

func TestAddDependencyParallelEdges(t *testing.T) {
	g := New()
	a := g.CreateTask("a", 0)
	b := g.CreateTask("b", 0)

	// One edge per resource between the same pair is allowed.
	mustAddDependency(t, g, a, b)
	mustAddDependency(t, g, a, b)

	if g.DependencyCount() != 2 {
		t.Errorf("DependencyCount() = %d, want 2", g.DependencyCount())
	}
}

func TestCreateImageTransient(t *testing.T) {
	g := New()
	img := g.CreateImage(testImageDesc("gbuffer"))

	if !g.IsTransientImage(img) {
		t.Errorf("IsTransientImage(%d) = false, want true", img)
	}
	desc, ok := g.ImageDescriptionOf(img)
	if !ok {
		t.Fatalf("ImageDescriptionOf(%d) not found", img)
	}
	if desc.Label != "gbuffer" {
		t.Errorf("description label = %q, want gbuffer", desc.Label)
	}
}

func TestImportImage(t *testing.T) {
	g := New()
	img, ref := g.ImportImage(testImageDesc("swapchain"), LayoutPresent)

	if g.IsTransientImage(img) {
		t.Errorf("IsTransientImage(%d) = true for import, want false", img)
	}
	if ref == nil {
		t.Fatal("ImportImage returned nil reference")
	}
	if ref.Image() != img {
		t.Errorf("ref.Image() = %d, want %d", ref.Image(), img)
	}
	if ref.Layout() != LayoutPresent {
		t.Errorf("ref.Layout() = %d, want LayoutPresent", ref.Layout())
	}

	// Imports create an entry task standing for the external producer; a
	// consumer must be able to wait on it.
	if ref.Task() == InvalidTask {
		t.Fatal("imported reference has no entry task")
	}
	if ref.SrcStages() != StageBottomOfPipe {
		t.Errorf("ref.SrcStages() = %#x, want StageBottomOfPipe", uint32(ref.SrcStages()))
	}
	entry, ok := g.Task(ref.Task())
	if !ok {
		t.Fatalf("entry task %d not in graph", ref.Task())
	}
	if entry.Name != "swapchain" {
		t.Errorf("entry task name = %q, want swapchain", entry.Name)
	}
}

func TestImportBuffer(t *testing.T) {
	g := New()
	buf, ref := g.ImportBuffer(BufferDescription{Size: 256, Usage: gputypes.BufferUsageUniform})

	if g.IsTransientBuffer(buf) {
		t.Errorf("IsTransientBuffer(%d) = true for import, want false", buf)
	}
	if ref.Task() == InvalidTask {
		t.Fatal("imported reference has no entry task")
	}
	if ref.SrcStages() != StageBottomOfPipe {
		t.Errorf("ref.SrcStages() = %#x, want StageBottomOfPipe", uint32(ref.SrcStages()))
	}

	// An unlabeled import gets a generated entry task name.
	entry, _ := g.Task(ref.Task())
	if entry.Name == "" {
		t.Error("entry task for unlabeled import has empty name")
	}
}

func TestRefForUnknownResource(t *testing.T) {
	g := New()

	if _, err := g.ImageRefFor(0); !errors.Is(err, ErrUnknownResource) {
		t.Errorf("ImageRefFor(0) on empty graph = %v, want ErrUnknownResource", err)
	}
	if _, err := g.BufferRefFor(-1); !errors.Is(err, ErrUnknownResource) {
		t.Errorf("BufferRefFor(-1) = %v, want ErrUnknownResource", err)
	}
}

func TestInitialRef(t *testing.T) {
	g := New()
	img := g.CreateImage(testImageDesc(""))

	ref, err := g.ImageRefFor(img)
	if err != nil {
		t.Fatalf("ImageRefFor(%d) = %v", img, err)
	}
	if ref.Task() != InvalidTask {
		t.Errorf("initial ref.Task() = %d, want InvalidTask", ref.Task())
	}
	if ref.SrcStages() != StageTopOfPipe {
		t.Errorf("initial ref.SrcStages() = %#x, want StageTopOfPipe", uint32(ref.SrcStages()))
	}
	if ref.Layout() != LayoutUndefined {
		t.Errorf("initial ref.Layout() = %d, want LayoutUndefined", ref.Layout())
	}
}

func TestSequence(t *testing.T) {
	g := New()
	a := g.CreateTask("a", 0)
	b := g.CreateTask("b", 0)

	barrier, err := g.Sequence("present-barrier", []TaskID{a, b})
	if err != nil {
		t.Fatalf("Sequence() = %v", err)
	}

	in := g.Incoming(barrier)
	if len(in) != 2 {
		t.Fatalf("barrier has %d incoming edges, want 2", len(in))
	}
	for _, eid := range in {
		dep, _ := g.Dependency(eid)
		if !dep.IsSequence() {
			t.Errorf("edge %d is not a sequencing edge", eid)
		}
	}
	if !g.hasPath(a, barrier) || !g.hasPath(b, barrier) {
		t.Error("barrier is not ordered after its predecessors")
	}
}

func TestSequenceEmpty(t *testing.T) {
	g := New()
	if _, err := g.Sequence("barrier", nil); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("Sequence with no predecessors = %v, want ErrEmptySequence", err)
	}
}

func TestSequenceUnknownTask(t *testing.T) {
	g := New()
	if _, err := g.Sequence("barrier", []TaskID{7}); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("Sequence with unknown predecessor = %v, want ErrUnknownTask", err)
	}
}

func TestLastUsesOfImage(t *testing.T) {
	// write(a) -> read(b), read(c); only b and c are last uses.
	g := New()
	a := g.CreateTask("produce", 0)
	b := g.CreateTask("consume1", 0)
	c := g.CreateTask("consume2", 0)

	img := g.CreateImage(testImageDesc(""))
	ref, err := g.ImageRefFor(img)
	if err != nil {
		t.Fatal(err)
	}
	ref, err = g.WriteImage(a, ref, ImageAccess{
		Access: AccessColorAttachmentWrite,
		Stages: StageColorAttachmentOutput,
		Layout: LayoutColorAttachment,
	})
	if err != nil {
		t.Fatal(err)
	}
	readAcc := ImageAccess{
		Access: AccessShaderRead,
		Stages: StageFragmentShader,
		Layout: LayoutShaderReadOnly,
	}
	if err := g.ReadImage(b, ref, readAcc); err != nil {
		t.Fatal(err)
	}
	if err := g.ReadImage(c, ref, readAcc); err != nil {
		t.Fatal(err)
	}

	last := g.LastUsesOfImage(img)
	if len(last) != 2 {
		t.Fatalf("LastUsesOfImage = %v, want exactly the two readers", last)
	}
	seen := map[TaskID]bool{}
	for _, u := range last {
		seen[u] = true
	}
	if !seen[b] || !seen[c] {
		t.Errorf("LastUsesOfImage = %v, want {%d, %d}", last, b, c)
	}
	if seen[a] {
		t.Errorf("producer %d reported as last use despite successor readers", a)
	}
}

func TestLastUsesOfImageLinearChain(t *testing.T) {
	// write(a) -> read(b) -> sequenced(c): b is covered once c also uses it.
	g := New()
	a := g.CreateTask("produce", 0)
	b := g.CreateTask("blur", 0)
	c := g.CreateTask("post", 0)

	img := g.CreateImage(testImageDesc(""))
	ref, err := g.ImageRefFor(img)
	if err != nil {
		t.Fatal(err)
	}
	ref, err = g.WriteImage(a, ref, ImageAccess{
		Access: AccessColorAttachmentWrite,
		Stages: StageColorAttachmentOutput,
		Layout: LayoutColorAttachment,
	})
	if err != nil {
		t.Fatal(err)
	}
	readAcc := ImageAccess{
		Access: AccessShaderRead,
		Stages: StageFragmentShader,
		Layout: LayoutShaderReadOnly,
	}
	if err := g.ReadImage(b, ref, readAcc); err != nil {
		t.Fatal(err)
	}
	if err := g.ReadImage(c, ref, readAcc); err != nil {
		t.Fatal(err)
	}
	mustAddDependency(t, g, b, c)

	last := g.LastUsesOfImage(img)
	if len(last) != 1 || last[0] != c {
		t.Errorf("LastUsesOfImage = %v, want [%d]", last, c)
	}
}

func TestOutgoingReturnsCopy(t *testing.T) {
	g := New()
	a := g.CreateTask("a", 0)
	b := g.CreateTask("b", 0)
	mustAddDependency(t, g, a, b)

	out := g.Outgoing(a)
	out[0] = 99
	if fresh := g.Outgoing(a); fresh[0] == 99 {
		t.Error("Outgoing exposes internal adjacency slice")
	}
}

func mustAddDependency(t *testing.T, g *Graph, src, dst TaskID) DependencyID {
	t.Helper()
	id, err := g.AddDependency(src, dst, SequenceDependency())
	if err != nil {
		t.Fatalf("AddDependency(%d, %d) = %v", src, dst, err)
	}
	return id
}
