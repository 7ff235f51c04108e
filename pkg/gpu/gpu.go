// pkg/gpu/gpu.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package gpu defines the narrow interface that the immediate-mode
// assembler uses to talk to a GPU, along with a per-frame temporary memory
// arena, a recording implementation of the interface (CommandBuffer), and
// an OpenGL 2 implementation that executes recorded command buffers.
package gpu

import (
	"fmt"
	"unsafe"
)

// Program identifies a vertex or fragment program known to a Backend.
type Program uint32

// Base programs. Backends may return additional handles from
// PatchFragmentProgram; those are always >= FirstPatchedProgram.
const (
	ProgramNone Program = iota
	ProgramRGBAVertex
	ProgramRGBAFragment
	ProgramTexture2DVertex
	ProgramTexture2DFragment

	FirstPatchedProgram Program = 0x100
)

func (p Program) String() string {
	switch p {
	case ProgramNone:
		return "none"
	case ProgramRGBAVertex:
		return "rgba-vertex"
	case ProgramRGBAFragment:
		return "rgba-fragment"
	case ProgramTexture2DVertex:
		return "texture2d-vertex"
	case ProgramTexture2DFragment:
		return "texture2d-fragment"
	default:
		return fmt.Sprintf("patched-%d", uint32(p))
	}
}

// Primitive is a GPU-native primitive topology. There is deliberately no
// quad primitive; quads are decomposed into triangles before submission.
type Primitive uint32

const (
	PrimitivePoints Primitive = iota
	PrimitiveLines
	PrimitiveTriangles
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
)

func (p Primitive) String() string {
	switch p {
	case PrimitivePoints:
		return "points"
	case PrimitiveLines:
		return "lines"
	case PrimitiveTriangles:
		return "triangles"
	case PrimitiveTriangleStrip:
		return "triangle-strip"
	case PrimitiveTriangleFan:
		return "triangle-fan"
	default:
		return fmt.Sprintf("primitive-%d", uint32(p))
	}
}

// IndexFormat gives the size of the entries of an index buffer.
type IndexFormat uint32

const (
	IndexU16 IndexFormat = iota
	IndexU32
)

// Size returns the number of bytes used by each index.
func (f IndexFormat) Size() int {
	if f == IndexU32 {
		return 4
	}
	return 2
}

// BlendFactor values match the corresponding GL enumerants.
type BlendFactor uint32

const (
	BlendZero             BlendFactor = 0
	BlendOne              BlendFactor = 1
	BlendSrcColor         BlendFactor = 0x0300
	BlendOneMinusSrcColor BlendFactor = 0x0301
	BlendSrcAlpha         BlendFactor = 0x0302
	BlendOneMinusSrcAlpha BlendFactor = 0x0303
	BlendDstAlpha         BlendFactor = 0x0304
	BlendOneMinusDstAlpha BlendFactor = 0x0305
	BlendDstColor         BlendFactor = 0x0306
	BlendOneMinusDstColor BlendFactor = 0x0307
)

// BlendState is the blend configuration that fragment programs are
// patched for. It is comparable so that it can be used as a cache key.
type BlendState struct {
	Enabled  bool
	SrcRGB   BlendFactor
	DstRGB   BlendFactor
	SrcAlpha BlendFactor
	DstAlpha BlendFactor
}

// AlphaBlending is the usual src alpha, 1-src alpha configuration.
var AlphaBlending = BlendState{
	Enabled:  true,
	SrcRGB:   BlendSrcAlpha,
	DstRGB:   BlendOneMinusSrcAlpha,
	SrcAlpha: BlendSrcAlpha,
	DstAlpha: BlendOneMinusSrcAlpha,
}

// Backend is implemented by GPU command submission layers.
type Backend interface {
	SetVertexProgram(p Program)
	SetFragmentProgram(p Program)

	// PatchFragmentProgram returns a handle to a version of the base
	// fragment program that applies the given blend state.
	PatchFragmentProgram(base Program, blend BlendState) (Program, error)

	// SetUniform uploads the given values to the named uniform of the
	// currently-bound programs.
	SetUniform(name string, values []float32)

	SetFragmentTexture(unit int, texture uint32)

	// SetVertexStream binds data as the given vertex stream; each vertex
	// has the given number of float32 components.
	SetVertexStream(index int, data []byte, components int)

	// Draw issues an indexed draw of count indices.
	Draw(prim Primitive, format IndexFormat, indices []byte, count int)
}

///////////////////////////////////////////////////////////////////////////
// Typed views of byte buffers. Buffers handed out by TempArena are 8-byte
// aligned, so these reinterpretations are safe for them.

func Float32s(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/4)
}

func Uint16s(b []byte) []uint16 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(&b[0])), len(b)/2)
}

func Uint32s(b []byte) []uint32 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), len(b)/4)
}
