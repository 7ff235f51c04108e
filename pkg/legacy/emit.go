// pkg/legacy/emit.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package legacy

// Vertex3f adds a vertex with the current color to the open bracket.
func (c *Context) Vertex3f(x, y, z float32) {
	if c.phase != accumulating {
		c.setError(InvalidOperation, "Vertex3f")
		return
	}
	c.stream.addVertex([3]float32{x, y, z}, c.color)
}

func (c *Context) Vertex3fv(v [3]float32) {
	if c.phase != accumulating {
		c.setError(InvalidOperation, "Vertex3fv")
		return
	}
	c.stream.addVertex(v, c.color)
}

// Vertex2f adds the vertex (x, y, 0).
func (c *Context) Vertex2f(x, y float32) {
	if c.phase != accumulating {
		c.setError(InvalidOperation, "Vertex2f")
		return
	}
	c.stream.addVertex([3]float32{x, y, 0}, c.color)
}

// The color calls only update the current color and are allowed both
// inside and outside of brackets.

func (c *Context) Color3f(r, g, b float32) {
	c.color = RGBA{R: r, G: g, B: b, A: 1}
}

func (c *Context) Color3fv(v [3]float32) {
	c.color = RGBA{R: v[0], G: v[1], B: v[2], A: 1}
}

func (c *Context) Color3ub(r, g, b uint8) {
	c.color = RGBAFromUInt8(r, g, b, 255)
}

func (c *Context) Color3ubv(v [3]uint8) {
	c.color = RGBAFromUInt8(v[0], v[1], v[2], 255)
}

func (c *Context) Color4f(r, g, b, a float32) {
	c.color = RGBA{R: r, G: g, B: b, A: a}
}

func (c *Context) Color4fv(v [4]float32) {
	c.color = RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}
}

func (c *Context) Color4ub(r, g, b, a uint8) {
	c.color = RGBAFromUInt8(r, g, b, a)
}

func (c *Context) Color4ubv(v [4]uint8) {
	c.color = RGBAFromUInt8(v[0], v[1], v[2], v[3])
}

// TexCoord2f adds a texture coordinate to the open bracket. Texture
// coordinates are stored separately from vertices; callers are expected
// to provide one per vertex.
func (c *Context) TexCoord2f(s, t float32) {
	if c.phase != accumulating {
		c.setError(InvalidOperation, "TexCoord2f")
		return
	}
	c.stream.addTexCoord([2]float32{s, t})
}

func (c *Context) TexCoord2fv(v [2]float32) {
	if c.phase != accumulating {
		c.setError(InvalidOperation, "TexCoord2fv")
		return
	}
	c.stream.addTexCoord(v)
}

func (c *Context) TexCoord2i(s, t int32) {
	if c.phase != accumulating {
		c.setError(InvalidOperation, "TexCoord2i")
		return
	}
	c.stream.addTexCoord([2]float32{float32(s), float32(t)})
}
