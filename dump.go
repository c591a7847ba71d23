// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"fmt"
	"io"
	"strings"
)

// accessFlagNames lists every access bit with its display name, in bit order.
var accessFlagNames = []struct {
	flag AccessFlags
	name string
}{
	{AccessIndirectCommandRead, "IndirectCommandRead"},
	{AccessIndexRead, "IndexRead"},
	{AccessVertexAttributeRead, "VertexAttributeRead"},
	{AccessUniformRead, "UniformRead"},
	{AccessInputAttachmentRead, "InputAttachmentRead"},
	{AccessShaderRead, "ShaderRead"},
	{AccessShaderWrite, "ShaderWrite"},
	{AccessColorAttachmentRead, "ColorAttachmentRead"},
	{AccessColorAttachmentWrite, "ColorAttachmentWrite"},
	{AccessDepthStencilRead, "DepthStencilRead"},
	{AccessDepthStencilWrite, "DepthStencilWrite"},
	{AccessTransferRead, "TransferRead"},
	{AccessTransferWrite, "TransferWrite"},
	{AccessHostRead, "HostRead"},
	{AccessHostWrite, "HostWrite"},
	{AccessMemoryRead, "MemoryRead"},
	{AccessMemoryWrite, "MemoryWrite"},
}

// String returns the set bits joined with "|", or "0" for an empty mask.
func (f AccessFlags) String() string {
	if f == 0 {
		return "0"
	}
	var names []string
	for _, e := range accessFlagNames {
		if f&e.flag != 0 {
			names = append(names, e.name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("AccessFlags(%#x)", uint32(f))
	}
	return strings.Join(names, "|")
}

// stageFlagNames lists every stage bit with its display name, in bit order.
var stageFlagNames = []struct {
	flag StageFlags
	name string
}{
	{StageTopOfPipe, "TopOfPipe"},
	{StageDrawIndirect, "DrawIndirect"},
	{StageVertexInput, "VertexInput"},
	{StageVertexShader, "VertexShader"},
	{StageFragmentShader, "FragmentShader"},
	{StageEarlyFragmentTests, "EarlyFragmentTests"},
	{StageLateFragmentTests, "LateFragmentTests"},
	{StageColorAttachmentOutput, "ColorAttachmentOutput"},
	{StageComputeShader, "ComputeShader"},
	{StageTransfer, "Transfer"},
	{StageHost, "Host"},
	{StageBottomOfPipe, "BottomOfPipe"},
	{StageAllCommands, "AllCommands"},
}

// String returns the set bits joined with "|", or "0" for an empty mask.
func (f StageFlags) String() string {
	if f == 0 {
		return "0"
	}
	var names []string
	for _, e := range stageFlagNames {
		if f&e.flag != 0 {
			names = append(names, e.name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("StageFlags(%#x)", uint32(f))
	}
	return strings.Join(names, "|")
}

// String returns the layout name.
func (l ImageLayout) String() string {
	switch l {
	case LayoutUndefined:
		return "Undefined"
	case LayoutGeneral:
		return "General"
	case LayoutColorAttachment:
		return "ColorAttachment"
	case LayoutDepthStencilAttachment:
		return "DepthStencilAttachment"
	case LayoutShaderReadOnly:
		return "ShaderReadOnly"
	case LayoutTransferSrc:
		return "TransferSrc"
	case LayoutTransferDst:
		return "TransferDst"
	case LayoutPresent:
		return "Present"
	default:
		return fmt.Sprintf("ImageLayout(%d)", uint32(l))
	}
}

// dumpWriter threads the first write error through a sequence of prints.
type dumpWriter struct {
	w   io.Writer
	err error
}

func (d *dumpWriter) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

// Dump writes a plain-text description of the frame's resources, tasks and
// dependency edges to w, for inspecting an authored frame.
func (g *Graph) Dump(w io.Writer) error {
	d := &dumpWriter{w: w}

	d.printf("--- RESOURCES ---\n")
	for i := range g.images {
		desc := &g.images[i].desc
		d.printf("Image %s(#%d)\n", desc.Label, i)
		d.printf("  width ............ %d\n", desc.Width)
		d.printf("  height ........... %d\n", desc.Height)
		d.printf("  depth ............ %d\n", desc.Depth)
		d.printf("  format ........... %d\n", uint32(desc.Format))
		d.printf("  usage ............ %#x\n", uint64(desc.Usage))
		d.printf("  imported ......... %t\n", g.images[i].imported)
		d.printf("\n")
	}
	for i := range g.buffers {
		desc := &g.buffers[i].desc
		d.printf("Buffer %s(#%d)\n", desc.Label, i)
		d.printf("  size ............. %d\n", desc.Size)
		d.printf("  usage ............ %#x\n", uint64(desc.Usage))
		d.printf("  imported ......... %t\n", g.buffers[i].imported)
		d.printf("\n")
	}

	d.printf("--- TASKS ---\n")
	for i := range g.tasks {
		d.printf("%s (#%d) queue %d\n", g.tasks[i].Name, i, g.tasks[i].Queue)
	}
	d.printf("\n")

	d.printf("--- DEPS ---\n")
	for i := range g.edges {
		e := &g.edges[i]
		src, dst := &g.tasks[e.src], &g.tasks[e.dst]
		switch det := e.dep.Detail.(type) {
		case ImageDetail:
			d.printf("IMAGE ACCESS %s(#%d) -> %s(#%d)\n", src.Name, e.src, dst.Name, e.dst)
			d.printf("  resource ......... #%d\n", det.Image)
			d.printf("  access ........... %s\n", e.dep.Access)
			d.printf("  srcStageMask ..... %s\n", e.dep.SrcStages)
			d.printf("  dstStageMask ..... %s\n", e.dep.DstStages)
			d.printf("  newLayout ........ %s\n", det.NewLayout)
			if det.Attachment != nil {
				d.printf("  attachment ....... %d\n", det.Attachment.Index)
			}
		case BufferDetail:
			d.printf("BUFFER ACCESS %s(#%d) -> %s(#%d)\n", src.Name, e.src, dst.Name, e.dst)
			d.printf("  resource ......... #%d\n", det.Buffer)
			d.printf("  access ........... %s\n", e.dep.Access)
			d.printf("  srcStageMask ..... %s\n", e.dep.SrcStages)
			d.printf("  dstStageMask ..... %s\n", e.dep.DstStages)
		case SequenceDetail:
			d.printf("SEQUENCE %s(#%d) -> %s(#%d)\n", src.Name, e.src, dst.Name, e.dst)
		}
		d.printf("\n")
	}
	return d.err
}

// DumpGraphviz writes the graph in Graphviz dot format: one diamond node per
// task and one record node per resource dependency, colored by access kind.
// Render with e.g. "dot -Tsvg frame.dot".
func (g *Graph) DumpGraphviz(w io.Writer) error {
	d := &dumpWriter{w: w}

	d.printf("digraph G {\n")
	d.printf("node [shape=box, style=filled, fontcolor=white, fontname=monospace];\n")
	d.printf("rankdir=LR;\n")

	for i := range g.tasks {
		d.printf("T_%d [shape=diamond, fontcolor=black, label=\"%s (#%d)\"];\n",
			i, g.tasks[i].Name, i)
	}
	d.printf("\n")

	for i := range g.edges {
		e := &g.edges[i]
		switch det := e.dep.Detail.(type) {
		case ImageDetail:
			color := "midnightblue"
			if det.Attachment != nil {
				color = "darkgreen"
			} else if e.dep.Access.IsWrite() {
				color = "purple4"
			}
			d.printf("T_%d -> D_%d;\n", e.src, i)
			d.printf("D_%d -> T_%d;\n", i, e.dst)
			d.printf("D_%d [fillcolor=%s, label=\"IMAGE #%d\\naccess %s\\nsrc %s\\ndst %s\\nlayout %s\"];\n",
				i, color, det.Image, e.dep.Access, e.dep.SrcStages, e.dep.DstStages, det.NewLayout)
		case BufferDetail:
			color := "red4"
			if e.dep.Access.IsWrite() {
				color = "violetred4"
			}
			d.printf("T_%d -> D_%d;\n", e.src, i)
			d.printf("D_%d -> T_%d;\n", i, e.dst)
			d.printf("D_%d [fillcolor=%s, label=\"BUFFER #%d\\naccess %s\\nsrc %s\\ndst %s\"];\n",
				i, color, det.Buffer, e.dep.Access, e.dep.SrcStages, e.dep.DstStages)
		case SequenceDetail:
			d.printf("T_%d -> T_%d [style=dashed];\n", e.src, e.dst)
		}
	}

	d.printf("}\n")
	return d.err
}
