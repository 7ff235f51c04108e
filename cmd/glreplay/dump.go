// cmd/glreplay/dump.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mmp/legacygl/pkg/capture"
	"github.com/mmp/legacygl/pkg/gpu"
	"github.com/mmp/legacygl/pkg/util"

	"github.com/goforj/godump"
)

// maxDumpedValues limits how much vertex and index data is shown for
// each command.
const maxDumpedValues = 24

// dumpedCommand is a gpu.Command with only the fields that are relevant
// to its operation set, and with long data truncated.
type dumpedCommand struct {
	Op         string
	Program    string
	Uniform    string
	Values     []float32
	Unit       int
	Texture    uint32
	Stream     int
	Components int
	Bytes      int
	Primitive  string
	Format     string
	Count      int
	Indices    []uint32
}

func truncate[T any](s []T) []T {
	return s[:min(len(s), maxDumpedValues)]
}

func describe(cb *gpu.CommandBuffer, cmd gpu.Command) dumpedCommand {
	d := dumpedCommand{Op: cmd.Op.String()}
	switch cmd.Op {
	case gpu.CommandVertexProgram:
		d.Program = cmd.Program.String()
	case gpu.CommandFragmentProgram:
		if pp, ok := cb.ResolveProgram(cmd.Program); ok && cmd.Program >= gpu.FirstPatchedProgram {
			d.Program = fmt.Sprintf("%s (%s, blend %v)", cmd.Program, pp.Base, pp.Blend.Enabled)
		} else {
			d.Program = cmd.Program.String()
		}
	case gpu.CommandUniform:
		d.Uniform, d.Values = cmd.Uniform, cmd.Values
	case gpu.CommandFragmentTexture:
		d.Unit, d.Texture = cmd.Unit, cmd.Texture
	case gpu.CommandVertexStream:
		d.Stream, d.Components, d.Bytes = cmd.Stream, cmd.Components, len(cmd.Data)
		d.Values = truncate(cmd.Floats())
	case gpu.CommandDraw:
		d.Primitive, d.Count, d.Bytes = cmd.Primitive.String(), cmd.Count, len(cmd.Data)
		d.Format = util.Select(cmd.Format == gpu.IndexU32, "u32", "u16")
		d.Indices = truncate(cmd.Indices())
	}
	return d
}

func dumpFrame(w io.Writer, f *capture.Frame) {
	cb := f.CommandBuffer()
	var cmds []dumpedCommand
	for cmd := range cb.Commands() {
		cmds = append(cmds, describe(cb, cmd))
	}
	fmt.Fprintf(w, "frame %d: %d commands\n", f.Index, len(cmds))
	godump.Fdump(w, cmds)
	godump.Fdump(w, f.Textures)
}

// summarize returns a one-line description of the number of commands of
// each type in the frame.
func summarize(f *capture.Frame) string {
	counts := make(map[gpu.Op]int)
	for cmd := range f.CommandBuffer().Commands() {
		counts[cmd.Op]++
	}
	total := util.ReduceMap(counts, func(_ gpu.Op, n int, sum int) int { return sum + n }, 0)

	var parts []string
	for _, op := range util.SortedMapKeys(counts) {
		parts = append(parts, fmt.Sprintf("%s %d", op, counts[op]))
	}
	return fmt.Sprintf("%d commands (%s); %s", total, strings.Join(parts, ", "), godump.DumpStr(f.Stats))
}
