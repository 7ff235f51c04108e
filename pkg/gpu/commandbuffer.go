// pkg/gpu/commandbuffer.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpu

import (
	"fmt"
	"iter"
	gomath "math"
	"slices"
	"sync"
	"unsafe"
)

// The command buffer stores a series of GPU commands, represented by the
// following values. Each one is followed in the buffer by a number of
// command arguments, after which the next command follows. Comments after
// each command briefly describe its arguments.
//
// Vertex stream and index data are stored directly in the CommandBuffer,
// following CommandRawBuffer; the first argument after that command is the
// length of the buffer in uint32s and then its bytes follow directly.
// Commands that use buffers refer to them by the byte offset from the
// start of the command buffer where the buffer begins. (So one
// CommandBuffer cannot refer to data in another CommandBuffer.)
type Op uint32

const (
	CommandVertexProgram   Op = iota // uint32: program
	CommandFragmentProgram           // uint32: program
	CommandUniform                   // uint32: name index, uint32 n, then n float32
	CommandFragmentTexture           // uint32: unit, uint32: texture
	CommandRawBuffer                 // uint32: size in uint32s, then the data
	CommandVertexStream              // uint32: stream, components, byte offset, byte length
	CommandDraw                      // uint32: primitive, index format, byte offset, count
	CommandInvalid
)

func (op Op) String() string {
	switch op {
	case CommandVertexProgram:
		return "vertex-program"
	case CommandFragmentProgram:
		return "fragment-program"
	case CommandUniform:
		return "uniform"
	case CommandFragmentTexture:
		return "fragment-texture"
	case CommandRawBuffer:
		return "raw-buffer"
	case CommandVertexStream:
		return "vertex-stream"
	case CommandDraw:
		return "draw"
	default:
		return fmt.Sprintf("invalid-%d", uint32(op))
	}
}

// PatchedProgram records the base program and blend state that a patched
// fragment program handle was created for.
type PatchedProgram struct {
	Base  Program
	Blend BlendState
}

// CommandBuffer records the calls made to it through the Backend interface
// in an API-agnostic encoding that can be inspected, saved, and later
// executed by a real GPU backend such as OpenGL2Renderer.
type CommandBuffer struct {
	Buf      []uint32
	Uniforms []string
	Patched  map[Program]PatchedProgram
}

var _ Backend = (*CommandBuffer)(nil)

// CommandBuffers are managed using a sync.Pool so that their buf slice
// allocations persist across multiple uses.
var commandBufferPool = sync.Pool{New: func() any { return &CommandBuffer{} }}

func GetCommandBuffer() *CommandBuffer {
	return commandBufferPool.Get().(*CommandBuffer)
}

func ReturnCommandBuffer(cb *CommandBuffer) {
	cb.Reset()
	clear(cb.Patched)
	commandBufferPool.Put(cb)
}

// Reset resets the command buffer's length to zero so that it can be
// reused. Patched programs persist across Reset, like program objects on
// a real GPU.
func (cb *CommandBuffer) Reset() {
	cb.Buf = cb.Buf[:0]
	cb.Uniforms = cb.Uniforms[:0]
}

// growFor ensures that at least n more values can be added to the end of
// the buffer without going past its capacity.
func (cb *CommandBuffer) growFor(n int) {
	if len(cb.Buf)+n > cap(cb.Buf) {
		sz := 2 * cap(cb.Buf)
		if sz < 1024 {
			sz = 1024
		}
		if sz < len(cb.Buf)+n {
			sz = 2 * (len(cb.Buf) + n)
		}
		b := make([]uint32, len(cb.Buf), sz)
		copy(b, cb.Buf)
		cb.Buf = b
	}
}

func (cb *CommandBuffer) appendFloats(floats ...float32) {
	for _, f := range floats {
		// Convert each one to a uint32 since that's the type that is
		// actually stored...
		cb.Buf = append(cb.Buf, gomath.Float32bits(f))
	}
}

func (cb *CommandBuffer) appendInts(ints ...int) {
	for _, i := range ints {
		cb.Buf = append(cb.Buf, uint32(i))
	}
}

// rawBuffer stores the provided bytes, without further interpretation, in
// the command buffer and returns the byte offset from the start of the
// buffer where they begin.
func (cb *CommandBuffer) rawBuffer(buf []byte) int {
	nints := (len(buf) + 3) / 4
	cb.appendInts(int(CommandRawBuffer), nints)
	offset := 4 * len(cb.Buf)

	cb.growFor(nints)
	start := len(cb.Buf)
	cb.Buf = cb.Buf[:start+nints]
	if nints > 0 {
		// The buffer may be reused, so the padding bytes at the end need
		// to be cleared.
		cb.Buf[start+nints-1] = 0
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&cb.Buf[start])), len(buf)), buf)
	}

	return offset
}

func (cb *CommandBuffer) bytesAt(offset, length int) []byte {
	if length == 0 {
		return nil
	}
	ptr := unsafe.Add(unsafe.Pointer(&cb.Buf[0]), offset)
	return unsafe.Slice((*byte)(ptr), length)
}

func (cb *CommandBuffer) SetVertexProgram(p Program) {
	cb.appendInts(int(CommandVertexProgram), int(p))
}

func (cb *CommandBuffer) SetFragmentProgram(p Program) {
	cb.appendInts(int(CommandFragmentProgram), int(p))
}

// PatchFragmentProgram allocates a new program handle and remembers the
// base program and blend state it stands for.
func (cb *CommandBuffer) PatchFragmentProgram(base Program, blend BlendState) (Program, error) {
	if base != ProgramRGBAFragment && base != ProgramTexture2DFragment {
		return ProgramNone, fmt.Errorf("%s: not a patchable fragment program", base)
	}
	if cb.Patched == nil {
		cb.Patched = make(map[Program]PatchedProgram)
	}
	p := FirstPatchedProgram + Program(len(cb.Patched))
	cb.Patched[p] = PatchedProgram{Base: base, Blend: blend}
	return p, nil
}

// ResolveProgram returns the base program and blend state for p. Base
// programs resolve to themselves with blending disabled.
func (cb *CommandBuffer) ResolveProgram(p Program) (PatchedProgram, bool) {
	if p < FirstPatchedProgram {
		return PatchedProgram{Base: p}, p != ProgramNone
	}
	pp, ok := cb.Patched[p]
	return pp, ok
}

func (cb *CommandBuffer) SetUniform(name string, values []float32) {
	idx := slices.Index(cb.Uniforms, name)
	if idx == -1 {
		idx = len(cb.Uniforms)
		cb.Uniforms = append(cb.Uniforms, name)
	}
	cb.appendInts(int(CommandUniform), idx, len(values))
	cb.appendFloats(values...)
}

func (cb *CommandBuffer) SetFragmentTexture(unit int, texture uint32) {
	cb.appendInts(int(CommandFragmentTexture), unit, int(texture))
}

func (cb *CommandBuffer) SetVertexStream(index int, data []byte, components int) {
	offset := cb.rawBuffer(data)
	cb.appendInts(int(CommandVertexStream), index, components, offset, len(data))
}

func (cb *CommandBuffer) Draw(prim Primitive, format IndexFormat, indices []byte, count int) {
	n := min(len(indices), count*format.Size())
	offset := cb.rawBuffer(indices[:n])
	cb.appendInts(int(CommandDraw), int(prim), int(format), offset, count)
}

///////////////////////////////////////////////////////////////////////////
// Decoding

// Command is a decoded entry from a CommandBuffer. Only the fields that
// are relevant to its Op are set; Data aliases the command buffer's
// storage and is only valid as long as the buffer isn't modified.
type Command struct {
	Op         Op
	Program    Program
	Uniform    string
	Values     []float32
	Unit       int
	Texture    uint32
	Stream     int
	Components int
	Data       []byte
	Primitive  Primitive
	Format     IndexFormat
	Count      int
}

// Floats returns the command's data interpreted as float32 values.
func (c Command) Floats() []float32 {
	return Float32s(c.Data)
}

// Indices returns the indices of a CommandDraw, widened to uint32.
func (c Command) Indices() []uint32 {
	if c.Format == IndexU32 {
		return slices.Clone(Uint32s(c.Data)[:c.Count])
	}
	idx := make([]uint32, c.Count)
	for i, v := range Uint16s(c.Data)[:c.Count] {
		idx[i] = uint32(v)
	}
	return idx
}

// Commands returns an iterator over the commands in the buffer; raw
// buffer commands are skipped since their contents are reported with the
// commands that refer to them. Iteration stops with a CommandInvalid
// command if a malformed entry is found.
func (cb *CommandBuffer) Commands() iter.Seq[Command] {
	return func(yield func(Command) bool) {
		i := 0
		avail := func(n int) bool { return i+n <= len(cb.Buf) }
		ui32 := func() uint32 {
			v := cb.Buf[i]
			i++
			return v
		}
		integer := func() int { return int(ui32()) }
		float := func() float32 { return gomath.Float32frombits(ui32()) }

		for i < len(cb.Buf) {
			cmd := Command{Op: Op(ui32())}
			switch cmd.Op {
			case CommandVertexProgram, CommandFragmentProgram:
				if !avail(1) {
					yield(Command{Op: CommandInvalid})
					return
				}
				cmd.Program = Program(ui32())

			case CommandUniform:
				if !avail(2) {
					yield(Command{Op: CommandInvalid})
					return
				}
				idx, n := integer(), integer()
				if idx >= len(cb.Uniforms) || !avail(n) {
					yield(Command{Op: CommandInvalid})
					return
				}
				cmd.Uniform = cb.Uniforms[idx]
				cmd.Values = make([]float32, n)
				for j := range cmd.Values {
					cmd.Values[j] = float()
				}

			case CommandFragmentTexture:
				if !avail(2) {
					yield(Command{Op: CommandInvalid})
					return
				}
				cmd.Unit = integer()
				cmd.Texture = ui32()

			case CommandRawBuffer:
				if !avail(1) {
					yield(Command{Op: CommandInvalid})
					return
				}
				// Nothing to do for the moment but skip ahead
				n := integer()
				if !avail(n) {
					yield(Command{Op: CommandInvalid})
					return
				}
				i += n
				continue

			case CommandVertexStream:
				if !avail(4) {
					yield(Command{Op: CommandInvalid})
					return
				}
				cmd.Stream, cmd.Components = integer(), integer()
				offset, length := integer(), integer()
				if offset+length > 4*len(cb.Buf) {
					yield(Command{Op: CommandInvalid})
					return
				}
				cmd.Data = cb.bytesAt(offset, length)

			case CommandDraw:
				if !avail(4) {
					yield(Command{Op: CommandInvalid})
					return
				}
				cmd.Primitive, cmd.Format = Primitive(ui32()), IndexFormat(ui32())
				offset := integer()
				cmd.Count = integer()
				length := cmd.Count * cmd.Format.Size()
				if offset+length > 4*len(cb.Buf) {
					yield(Command{Op: CommandInvalid})
					return
				}
				cmd.Data = cb.bytesAt(offset, length)

			default:
				yield(Command{Op: CommandInvalid})
				return
			}

			if !yield(cmd) {
				return
			}
		}
	}
}

// Stats returns statistics about the draws recorded in the command buffer.
func (cb *CommandBuffer) Stats() RendererStats {
	var stats RendererStats
	stats.Buffers++
	stats.BufferBytes += 4 * len(cb.Buf)
	for cmd := range cb.Commands() {
		stats.add(cmd)
	}
	return stats
}
