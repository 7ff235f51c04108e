// pkg/legacy/assemble.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package legacy

import (
	"fmt"
	"log/slog"

	"github.com/mmp/legacygl/pkg/gpu"
	"github.com/mmp/legacygl/pkg/texture"
)

// maxU16Vertices is the largest vertex count that can be addressed with
// 16-bit indices.
const maxU16Vertices = 1 << 16

// geometry is a bracket converted to GPU buffers, ready to be drawn.
type geometry struct {
	primitive gpu.Primitive

	// textured geometry pairs texcoords with the positions; otherwise
	// colors are used.
	textured bool
	unit     *texture.Unit
	slot     texture.Slot

	positions           []byte
	attributes          []byte
	attributeComponents int

	format  gpu.IndexFormat
	indices []byte
	count   int
}

func (c *Context) alloc(n int, what string) ([]byte, error) {
	b, err := c.arena.Alloc(n)
	if err != nil {
		return nil, fmt.Errorf("%s: %d bytes: %w", what, n, err)
	}
	c.stats.ArenaBytes += n
	return b, nil
}

// assemble converts the accumulated stream into vertex, attribute and
// index buffers allocated from the context's arena.
func (c *Context) assemble() (geometry, error) {
	n := c.stream.len()
	g := geometry{
		primitive: c.topology.primitive,
		count:     c.topology.indexCount(n),
	}

	var resident bool
	g.unit, g.slot, resident = c.textures.Resident()
	g.textured = resident && len(c.stream.texcoords) > 0

	pos, err := c.alloc(n*3*4, "positions")
	if err != nil {
		return geometry{}, err
	}
	clear(pos)
	pf := gpu.Float32s(pos)
	for i, p := range c.stream.positions {
		copy(pf[3*i:3*i+3], p[:])
	}
	g.positions = pos

	if g.textured {
		if g.attributes, err = c.assembleTexCoords(n); err != nil {
			return geometry{}, err
		}
		g.attributeComponents = 2
	} else {
		if g.attributes, err = c.assembleColors(n); err != nil {
			return geometry{}, err
		}
		g.attributeComponents = 4
	}

	if n > maxU16Vertices {
		g.format = gpu.IndexU32
	}
	if g.indices, err = c.alloc(g.count*g.format.Size(), "indices"); err != nil {
		return geometry{}, err
	}
	if g.format == gpu.IndexU32 {
		c.topology.decompose32(gpu.Uint32s(g.indices))
	} else {
		c.topology.decompose16(gpu.Uint16s(g.indices))
	}

	return g, nil
}

func (c *Context) assembleColors(n int) ([]byte, error) {
	b, err := c.alloc(n*4*4, "colors")
	if err != nil {
		return nil, err
	}
	f := gpu.Float32s(b)
	for i, rgba := range c.stream.colors {
		f[4*i], f[4*i+1], f[4*i+2], f[4*i+3] = rgba.R, rgba.G, rgba.B, rgba.A
	}
	return b, nil
}

// assembleTexCoords returns one texture coordinate per vertex. Vertices
// without a texture coordinate get (0, 0) and extra coordinates are
// ignored.
func (c *Context) assembleTexCoords(n int) ([]byte, error) {
	tc := c.stream.texcoords
	if len(tc) != n {
		c.lg.Warn("texture coordinate count doesn't match vertex count",
			slog.Int("vertices", n), slog.Int("texcoords", len(tc)))
		c.stats.TexCoordMismatches++
	}

	b, err := c.alloc(n*2*4, "texcoords")
	if err != nil {
		return nil, err
	}
	clear(b)
	f := gpu.Float32s(b)
	for i := range min(n, len(tc)) {
		f[2*i], f[2*i+1] = tc[i][0], tc[i][1]
	}
	return b, nil
}
