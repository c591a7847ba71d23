// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Graph is a frame's directed acyclic graph of tasks and dependencies,
// together with the frame's resource table. A Graph is built by one
// authoring pass, scheduled once, and discarded at end of frame.
//
// Graph is not safe for concurrent use; authoring, scheduling and
// resource acquisition for one frame are sequential (the pool in the alias
// package is the shared, serialized component).
type Graph struct {
	tasks []Task
	edges []edgeRecord

	// adjacency, indexed by TaskID
	out [][]DependencyID
	in  [][]DependencyID

	images  []imageResource
	buffers []bufferResource
}

// edgeRecord is one stored dependency edge.
type edgeRecord struct {
	src, dst TaskID
	dep      Dependency
}

// New creates an empty frame graph.
func New() *Graph {
	return &Graph{}
}

// CreateTask adds a task targeting the given queue and returns its ID.
func (g *Graph) CreateTask(name string, queue QueueID) TaskID {
	id := TaskID(len(g.tasks))
	g.tasks = append(g.tasks, Task{Name: name, Queue: queue})
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return id
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int { return len(g.tasks) }

// Task returns the task with the given ID.
func (g *Graph) Task(id TaskID) (Task, bool) {
	if !g.validTask(id) {
		return Task{}, false
	}
	return g.tasks[id], true
}

func (g *Graph) validTask(id TaskID) bool {
	return id >= 0 && int(id) < len(g.tasks)
}

// AddDependency inserts a dependency edge from src to dst. Multiple edges
// between the same pair of tasks are permitted (one per resource).
//
// The edge is rejected with ErrCycle if it would close a cycle, including
// self-edges; the graph is left unchanged in that case.
func (g *Graph) AddDependency(src, dst TaskID, dep Dependency) (DependencyID, error) {
	if !g.validTask(src) {
		return 0, fmt.Errorf("%w: source %d", ErrUnknownTask, src)
	}
	if !g.validTask(dst) {
		return 0, fmt.Errorf("%w: destination %d", ErrUnknownTask, dst)
	}
	if err := g.validateEdge(src, dst); err != nil {
		return 0, err
	}

	id := DependencyID(len(g.edges))
	g.edges = append(g.edges, edgeRecord{src: src, dst: dst, dep: dep})
	g.out[src] = append(g.out[src], id)
	g.in[dst] = append(g.in[dst], id)
	return id, nil
}

// DependencyCount returns the number of edges in the graph.
func (g *Graph) DependencyCount() int { return len(g.edges) }

// Dependency returns the edge with the given ID.
func (g *Graph) Dependency(id DependencyID) (*Dependency, bool) {
	if id < 0 || int(id) >= len(g.edges) {
		return nil, false
	}
	return &g.edges[id].dep, true
}

// DependencyEndpoints returns the source and destination tasks of an edge.
func (g *Graph) DependencyEndpoints(id DependencyID) (src, dst TaskID, ok bool) {
	if id < 0 || int(id) >= len(g.edges) {
		return 0, 0, false
	}
	e := &g.edges[id]
	return e.src, e.dst, true
}

// Outgoing returns the IDs of the edges leaving the task.
func (g *Graph) Outgoing(id TaskID) []DependencyID {
	if !g.validTask(id) {
		return nil
	}
	res := make([]DependencyID, len(g.out[id]))
	copy(res, g.out[id])
	return res
}

// Incoming returns the IDs of the edges entering the task.
func (g *Graph) Incoming(id TaskID) []DependencyID {
	if !g.validTask(id) {
		return nil
	}
	res := make([]DependencyID, len(g.in[id]))
	copy(res, g.in[id])
	return res
}

// validateEdge reports whether src -> dst could be inserted without closing
// a cycle. It does not mutate the graph.
func (g *Graph) validateEdge(src, dst TaskID) error {
	if src == dst {
		return fmt.Errorf("%w: self edge on task %d", ErrCycle, src)
	}
	if g.hasPath(dst, src) {
		return fmt.Errorf("%w: %d -> %d", ErrCycle, src, dst)
	}
	return nil
}

// hasPath reports whether dst is reachable from src by following edges
// forward. Iterative DFS; the graphs here are a few dozen nodes.
func (g *Graph) hasPath(src, dst TaskID) bool {
	if src == dst {
		return true
	}
	visited := make([]bool, len(g.tasks))
	stack := []TaskID{src}
	visited[src] = true
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, eid := range g.out[n] {
			next := g.edges[eid].dst
			if next == dst {
				return true
			}
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// CreateImage adds a transient image to the frame and returns its ID.
// Transient images are materialized through the aliasing pool and may share
// backing memory with other transients whose lifetimes do not overlap.
func (g *Graph) CreateImage(desc ImageDescription) ImageID {
	id := ImageID(len(g.images))
	g.images = append(g.images, imageResource{desc: desc})
	return id
}

// CreateBuffer adds a transient buffer to the frame and returns its ID.
func (g *Graph) CreateBuffer(desc BufferDescription) BufferID {
	id := BufferID(len(g.buffers))
	g.buffers = append(g.buffers, bufferResource{desc: desc})
	return id
}

// ImportImage adds a persistent, externally owned image to the frame.
// An entry task is created to stand for the external work that produced the
// image; the returned reference waits on bottom-of-pipe, since the producing
// frame's position in the pipeline is unknown. Imported images never alias
// pool memory.
func (g *Graph) ImportImage(desc ImageDescription, layout ImageLayout) (ImageID, *ImageRef) {
	id := ImageID(len(g.images))
	g.images = append(g.images, imageResource{desc: desc, imported: true})

	name := desc.Label
	if name == "" {
		name = fmt.Sprintf("import.image.%d", id)
	}
	entry := g.CreateTask(name, 0)

	return id, &ImageRef{
		image:     id,
		task:      entry,
		srcStages: StageBottomOfPipe,
		srcAccess: AccessMemoryWrite,
		layout:    layout,
	}
}

// ImportBuffer adds a persistent, externally owned buffer to the frame.
// See ImportImage.
func (g *Graph) ImportBuffer(desc BufferDescription) (BufferID, *BufferRef) {
	id := BufferID(len(g.buffers))
	g.buffers = append(g.buffers, bufferResource{desc: desc, imported: true})

	name := desc.Label
	if name == "" {
		name = fmt.Sprintf("import.buffer.%d", id)
	}
	entry := g.CreateTask(name, 0)

	return id, &BufferRef{
		buffer:    id,
		task:      entry,
		srcStages: StageBottomOfPipe,
		srcAccess: AccessMemoryWrite,
	}
}

// ImageRefFor returns the initial reference for a transient image: no
// producing task, top-of-pipe source stages (no wait needed), read and
// write flags clear.
func (g *Graph) ImageRefFor(id ImageID) (*ImageRef, error) {
	if id < 0 || int(id) >= len(g.images) {
		return nil, fmt.Errorf("%w: image %d", ErrUnknownResource, id)
	}
	return &ImageRef{
		image:     id,
		task:      InvalidTask,
		srcStages: StageTopOfPipe,
		layout:    LayoutUndefined,
	}, nil
}

// BufferRefFor returns the initial reference for a transient buffer.
// See ImageRefFor.
func (g *Graph) BufferRefFor(id BufferID) (*BufferRef, error) {
	if id < 0 || int(id) >= len(g.buffers) {
		return nil, fmt.Errorf("%w: buffer %d", ErrUnknownResource, id)
	}
	return &BufferRef{
		buffer:    id,
		task:      InvalidTask,
		srcStages: StageTopOfPipe,
	}, nil
}

// ImageDescriptionOf returns the description of an image, including usage
// bits accumulated from declared accesses.
func (g *Graph) ImageDescriptionOf(id ImageID) (ImageDescription, bool) {
	if id < 0 || int(id) >= len(g.images) {
		return ImageDescription{}, false
	}
	return g.images[id].desc, true
}

// BufferDescriptionOf returns the description of a buffer.
func (g *Graph) BufferDescriptionOf(id BufferID) (BufferDescription, bool) {
	if id < 0 || int(id) >= len(g.buffers) {
		return BufferDescription{}, false
	}
	return g.buffers[id].desc, true
}

// IsTransientImage reports whether the image is frame-local (not imported).
func (g *Graph) IsTransientImage(id ImageID) bool {
	return id >= 0 && int(id) < len(g.images) && !g.images[id].imported
}

// IsTransientBuffer reports whether the buffer is frame-local.
func (g *Graph) IsTransientBuffer(id BufferID) bool {
	return id >= 0 && int(id) < len(g.buffers) && !g.buffers[id].imported
}

// ImageAccess declares how a task accesses an image version.
type ImageAccess struct {
	// Access is the access mask of the consuming task.
	Access AccessFlags

	// Stages are the destination stages that wait on the dependency.
	Stages StageFlags

	// Layout is the layout the image must be in for this access.
	Layout ImageLayout

	// Usage is added to the image's required usage bits.
	Usage gputypes.TextureUsage

	// Attachment is set when the access binds the image as a render pass
	// attachment.
	Attachment *AttachmentInfo
}

// BufferAccess declares how a task accesses a buffer version.
type BufferAccess struct {
	Access AccessFlags
	Stages StageFlags

	// Usage is added to the buffer's required usage bits.
	Usage gputypes.BufferUsage
}

// ReadImage records a read of the referenced image version by task. The
// reference stays valid for further reads. Access must not contain write
// bits.
func (g *Graph) ReadImage(task TaskID, ref *ImageRef, acc ImageAccess) error {
	if ref == nil {
		return ErrNilReference
	}
	if !g.validTask(task) {
		return fmt.Errorf("%w: %d", ErrUnknownTask, task)
	}
	if int(ref.image) >= len(g.images) || ref.image < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownResource, ref.resource())
	}
	if acc.Access.IsWrite() {
		return fmt.Errorf("framegraph: read of %s declared with write access %#x", ref.resource(), uint32(acc.Access))
	}
	// Validate the edge before touching any state, so a rejected access
	// leaves the reference and the resource untouched.
	if ref.task != InvalidTask {
		if err := g.validateEdge(ref.task, task); err != nil {
			return err
		}
	}
	if err := ref.state.markRead(task, ref.resource()); err != nil {
		return err
	}

	g.images[ref.image].desc.Usage |= acc.Usage
	return g.addImageEdge(task, ref, acc)
}

// WriteImage records a write of the referenced image version by task and
// returns the next version. The given reference becomes stale: any further
// read or write through it fails with a HazardError. Access must contain a
// write bit.
func (g *Graph) WriteImage(task TaskID, ref *ImageRef, acc ImageAccess) (*ImageRef, error) {
	if ref == nil {
		return nil, ErrNilReference
	}
	if !g.validTask(task) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTask, task)
	}
	if int(ref.image) >= len(g.images) || ref.image < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, ref.resource())
	}
	if !acc.Access.IsWrite() {
		return nil, fmt.Errorf("framegraph: write of %s declared without write access %#x", ref.resource(), uint32(acc.Access))
	}
	if ref.task != InvalidTask {
		if err := g.validateEdge(ref.task, task); err != nil {
			return nil, err
		}
	}
	if err := ref.state.markWrite(task, ref.resource()); err != nil {
		return nil, err
	}

	g.images[ref.image].desc.Usage |= acc.Usage
	if err := g.addImageEdge(task, ref, acc); err != nil {
		return nil, err
	}

	return &ImageRef{
		image:     ref.image,
		task:      task,
		srcStages: acc.Stages,
		srcAccess: acc.Access,
		layout:    acc.Layout,
	}, nil
}

// addImageEdge inserts the dependency edge for an image access. Initial
// versions have no producing task and need no edge.
func (g *Graph) addImageEdge(task TaskID, ref *ImageRef, acc ImageAccess) error {
	if ref.task == InvalidTask {
		return nil
	}
	_, err := g.AddDependency(ref.task, task, Dependency{
		Access:    acc.Access,
		SrcStages: ref.srcStages,
		DstStages: acc.Stages,
		Detail: ImageDetail{
			Image:      ref.image,
			NewLayout:  acc.Layout,
			Usage:      acc.Usage,
			Attachment: acc.Attachment,
		},
	})
	return err
}

// ReadBuffer records a read of the referenced buffer version by task.
// See ReadImage.
func (g *Graph) ReadBuffer(task TaskID, ref *BufferRef, acc BufferAccess) error {
	if ref == nil {
		return ErrNilReference
	}
	if !g.validTask(task) {
		return fmt.Errorf("%w: %d", ErrUnknownTask, task)
	}
	if int(ref.buffer) >= len(g.buffers) || ref.buffer < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownResource, ref.resource())
	}
	if acc.Access.IsWrite() {
		return fmt.Errorf("framegraph: read of %s declared with write access %#x", ref.resource(), uint32(acc.Access))
	}
	if ref.task != InvalidTask {
		if err := g.validateEdge(ref.task, task); err != nil {
			return err
		}
	}
	if err := ref.state.markRead(task, ref.resource()); err != nil {
		return err
	}

	g.buffers[ref.buffer].desc.Usage |= acc.Usage
	return g.addBufferEdge(task, ref, acc)
}

// WriteBuffer records a write of the referenced buffer version by task and
// returns the next version. See WriteImage.
func (g *Graph) WriteBuffer(task TaskID, ref *BufferRef, acc BufferAccess) (*BufferRef, error) {
	if ref == nil {
		return nil, ErrNilReference
	}
	if !g.validTask(task) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTask, task)
	}
	if int(ref.buffer) >= len(g.buffers) || ref.buffer < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, ref.resource())
	}
	if !acc.Access.IsWrite() {
		return nil, fmt.Errorf("framegraph: write of %s declared without write access %#x", ref.resource(), uint32(acc.Access))
	}
	if ref.task != InvalidTask {
		if err := g.validateEdge(ref.task, task); err != nil {
			return nil, err
		}
	}
	if err := ref.state.markWrite(task, ref.resource()); err != nil {
		return nil, err
	}

	g.buffers[ref.buffer].desc.Usage |= acc.Usage
	if err := g.addBufferEdge(task, ref, acc); err != nil {
		return nil, err
	}

	return &BufferRef{
		buffer:    ref.buffer,
		task:      task,
		srcStages: acc.Stages,
		srcAccess: acc.Access,
	}, nil
}

func (g *Graph) addBufferEdge(task TaskID, ref *BufferRef, acc BufferAccess) error {
	if ref.task == InvalidTask {
		return nil
	}
	_, err := g.AddDependency(ref.task, task, Dependency{
		Access:    acc.Access,
		SrcStages: ref.srcStages,
		DstStages: acc.Stages,
		Detail: BufferDetail{
			Buffer: ref.buffer,
			Usage:  acc.Usage,
		},
	})
	return err
}

// Sequence creates a task ordered after every task in the given set, using
// pure sequencing edges that touch no resource. It forces a barrier point,
// e.g. before presenting or before releasing an imported resource.
func (g *Graph) Sequence(name string, after []TaskID) (TaskID, error) {
	if len(after) == 0 {
		return InvalidTask, ErrEmptySequence
	}
	for _, t := range after {
		if !g.validTask(t) {
			return InvalidTask, fmt.Errorf("%w: %d", ErrUnknownTask, t)
		}
	}
	id := g.CreateTask(name, 0)
	for _, t := range after {
		if _, err := g.AddDependency(t, id, SequenceDependency()); err != nil {
			return InvalidTask, err
		}
	}
	return id, nil
}

// LastUsesOfImage returns the tasks that use the image and have no
// successor that also uses it. Sequencing a barrier after these tasks
// guarantees every access to the image has completed.
func (g *Graph) LastUsesOfImage(id ImageID) []TaskID {
	users := g.imageUsers(id)
	var last []TaskID
	for _, u := range users {
		covered := false
		for _, v := range users {
			if u != v && g.hasPath(u, v) {
				covered = true
				break
			}
		}
		if !covered {
			last = append(last, u)
		}
	}
	return last
}

// imageUsers collects every task touching the image through a dependency
// edge, in edge insertion order.
func (g *Graph) imageUsers(id ImageID) []TaskID {
	seen := make(map[TaskID]bool)
	var users []TaskID
	add := func(t TaskID) {
		if !seen[t] {
			seen[t] = true
			users = append(users, t)
		}
	}
	for i := range g.edges {
		e := &g.edges[i]
		if img, ok := e.dep.ImageID(); ok && img == id {
			add(e.src)
			add(e.dst)
		}
	}
	return users
}
