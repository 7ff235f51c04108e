// pkg/legacy/topology.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package legacy

import (
	"fmt"

	"github.com/mmp/legacygl/pkg/gpu"
)

// Mode is the primitive topology token passed to Begin; the values match
// GL.
type Mode uint32

const (
	Points        Mode = 0x0000
	Lines         Mode = 0x0001
	Triangles     Mode = 0x0004
	TriangleStrip Mode = 0x0005
	TriangleFan   Mode = 0x0006
	Quads         Mode = 0x0007
)

func (m Mode) String() string {
	if t, ok := topologies[m]; ok {
		return t.name
	}
	return fmt.Sprintf("mode-0x%04x", uint32(m))
}

// topology describes how the vertices of a bracket with a given mode are
// turned into a GPU draw.
type topology struct {
	name      string
	primitive gpu.Primitive
	// elementsPerUnit is the number of vertices in one primitive; a
	// bracket's vertex count must be a multiple of it for anything to be
	// drawn.
	elementsPerUnit int
	// filled topologies are the ones discarded when polygon drawing is
	// disabled.
	filled bool
	// indexCount returns the number of indices needed to draw n vertices.
	indexCount func(n int) int
	// decompose fills the index buffer for n vertices; it is called with
	// exactly indexCount(n) entries of either uint16 or uint32.
	decompose16 func(idx []uint16)
	decompose32 func(idx []uint32)
}

var topologies = map[Mode]topology{
	Points:        identityTopology("points", gpu.PrimitivePoints, 1, false),
	Lines:         identityTopology("lines", gpu.PrimitiveLines, 2, false),
	Triangles:     identityTopology("triangles", gpu.PrimitiveTriangles, 3, true),
	TriangleStrip: identityTopology("triangle-strip", gpu.PrimitiveTriangleStrip, 1, true),
	TriangleFan:   identityTopology("triangle-fan", gpu.PrimitiveTriangleFan, 1, true),
	Quads: {
		name:            "quads",
		primitive:       gpu.PrimitiveTriangles,
		elementsPerUnit: 4,
		filled:          true,
		indexCount:      func(n int) int { return n / 4 * 6 },
		decompose16:     quadIndices[uint16],
		decompose32:     quadIndices[uint32],
	},
}

func identityTopology(name string, prim gpu.Primitive, perUnit int, filled bool) topology {
	return topology{
		name:            name,
		primitive:       prim,
		elementsPerUnit: perUnit,
		filled:          filled,
		indexCount:      func(n int) int { return n },
		decompose16:     identityIndices[uint16],
		decompose32:     identityIndices[uint32],
	}
}

type index interface {
	uint16 | uint32
}

func identityIndices[T index](idx []T) {
	for i := range idx {
		idx[i] = T(i)
	}
}

// quadIndices splits each quad (b, b+1, b+2, b+3), wound around its
// perimeter, into the triangles (b, b+1, b+3) and (b+1, b+2, b+3).
func quadIndices[T index](idx []T) {
	for q := 0; q < len(idx)/6; q++ {
		b := T(4 * q)
		i := idx[6*q : 6*q+6]
		i[0], i[1], i[2] = b, b+1, b+3
		i[3], i[4], i[5] = b+1, b+2, b+3
	}
}
