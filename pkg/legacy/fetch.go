// pkg/legacy/fetch.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package legacy

import (
	"log/slog"
)

// ArrayElement adds the i'th element of the client unit's enabled arrays
// to the open bracket. Nothing is added if the vertex array is disabled.
// The color comes from the color array if it is enabled and is the
// current color otherwise; a texture coordinate is only added if the
// texture coordinate array is enabled.
func (c *Context) ArrayElement(i int) {
	if i < 0 {
		c.setError(InvalidValue, "ArrayElement")
		return
	}
	if c.phase != accumulating {
		c.setError(InvalidOperation, "ArrayElement")
		return
	}

	u := c.textures.Client()
	if u == nil || !u.VertexArray.Enabled {
		return
	}

	var p [3]float32
	if u.VertexArray.Read(i, p[:], false) == 0 {
		c.lg.Warn("ArrayElement: unable to read vertex", slog.Int("index", i))
		return
	}

	color := c.color
	if u.ColorArray.Enabled {
		v := [4]float32{0, 0, 0, 1}
		if u.ColorArray.Read(i, v[:], true) == 0 {
			c.lg.Warn("ArrayElement: unable to read color", slog.Int("index", i))
		} else {
			color = RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}
		}
	}
	c.stream.addVertex(p, color)

	if u.TexCoordArray.Enabled {
		var st [2]float32
		if u.TexCoordArray.Read(i, st[:], false) == 0 {
			c.lg.Warn("ArrayElement: unable to read texture coordinate", slog.Int("index", i))
		}
		c.stream.addTexCoord(st)
	}
}
