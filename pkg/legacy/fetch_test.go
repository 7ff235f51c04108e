// pkg/legacy/fetch_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package legacy

import (
	"slices"
	"testing"
	"unsafe"

	"github.com/mmp/legacygl/pkg/texture"
)

func enableArray[T texture.Component](a *texture.ClientArray, components, stride int, data []T) {
	texture.SetSlice(a, components, stride, data)
	a.Enabled = true
}

func TestArrayElementPositions(t *testing.T) {
	e := newTestEnv(t, Options{})
	u := e.tex.Client()
	pos := make([]float32, 3*8)
	for i := range pos {
		pos[i] = float32(i)
	}
	enableArray(&u.VertexArray, 3, 0, pos)

	e.ctx.Color3f(0, 1, 0)
	e.ctx.Begin(Points)
	e.ctx.ArrayElement(5)
	e.ctx.ArrayElement(0)

	s := &e.ctx.stream
	// Tightly packed: element 5 starts at byte 5*3*4 = 60, float 15.
	if s.positions[0] != [3]float32{15, 16, 17} || s.positions[1] != [3]float32{0, 1, 2} {
		t.Errorf("positions = %v", s.positions)
	}
	if s.colors[0] != (RGBA{0, 1, 0, 1}) || s.colors[1] != (RGBA{0, 1, 0, 1}) {
		t.Errorf("colors = %v, want current color", s.colors)
	}
	if len(s.texcoords) != 0 {
		t.Errorf("texcoords added with texcoord array disabled")
	}
	e.ctx.End()
	e.checkError(t, NoError)
	if len(e.draws()) != 1 {
		t.Errorf("ArrayElement bracket not drawn")
	}
}

func TestArrayElementRawPointer(t *testing.T) {
	e := newTestEnv(t, Options{})
	u := e.tex.Client()
	pos := make([]float32, 3*8)
	pos[15], pos[16], pos[17] = 7, 8, 9
	u.VertexArray.SetPointer(3, texture.Float, 0, unsafe.Pointer(&pos[0]))
	u.VertexArray.Enabled = true

	if off := u.VertexArray.Offset(5); off != 60 {
		t.Errorf("Offset(5) = %d, want 60", off)
	}
	e.ctx.Begin(Points)
	e.ctx.ArrayElement(5)
	if got := e.ctx.stream.positions[0]; got != [3]float32{7, 8, 9} {
		t.Errorf("position = %v, want [7 8 9]", got)
	}
	e.ctx.End()
}

func TestArrayElementInterleaved(t *testing.T) {
	e := newTestEnv(t, Options{})
	u := e.tex.Client()

	// x, y, s, t per vertex.
	data := []float32{
		0, 0, 0, 0,
		1, 0, 1, 0,
		1, 1, 1, 1,
	}
	enableArray(&u.VertexArray, 2, 16, data)
	enableArray(&u.TexCoordArray, 2, 16, data[2:])

	e.ctx.Begin(Triangles)
	for i := range 3 {
		e.ctx.ArrayElement(i)
	}
	s := &e.ctx.stream
	wantPos := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}}
	wantUV := [][2]float32{{0, 0}, {1, 0}, {1, 1}}
	if !slices.Equal(s.positions, wantPos) || !slices.Equal(s.texcoords, wantUV) {
		t.Errorf("positions = %v texcoords = %v", s.positions, s.texcoords)
	}
	e.ctx.End()
}

func TestArrayElementColors(t *testing.T) {
	tests := []struct {
		name string
		set  func(a *texture.ClientArray)
		want RGBA
	}{
		{"ubyte4", func(a *texture.ClientArray) { enableArray(a, 4, 0, []uint8{255, 0, 51, 0}) }, RGBA{1, 0, 0.2, 0}},
		{"ubyte3", func(a *texture.ClientArray) { enableArray(a, 3, 0, []uint8{0, 255, 0}) }, RGBA{0, 1, 0, 1}},
		{"float3", func(a *texture.ClientArray) { enableArray(a, 3, 0, []float32{0.5, 0.25, 1}) }, RGBA{0.5, 0.25, 1, 1}},
		{"float4", func(a *texture.ClientArray) { enableArray(a, 4, 0, []float32{0.5, 0.25, 1, 0.5}) }, RGBA{0.5, 0.25, 1, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t, Options{})
			u := e.tex.Client()
			enableArray(&u.VertexArray, 3, 0, []float32{1, 2, 3})
			tt.set(&u.ColorArray)

			e.ctx.Color4f(0.1, 0.1, 0.1, 0.1)
			e.ctx.Begin(Points)
			e.ctx.ArrayElement(0)
			if got := e.ctx.stream.colors[0]; got != tt.want {
				t.Errorf("color = %+v, want %+v", got, tt.want)
			}
			// The current color is not changed by the color array.
			if e.ctx.CurrentColor() != (RGBA{0.1, 0.1, 0.1, 0.1}) {
				t.Errorf("current color changed to %+v", e.ctx.CurrentColor())
			}
			e.ctx.End()
		})
	}
}

func TestArrayElementNegativeIndex(t *testing.T) {
	e := newTestEnv(t, Options{})
	enableArray(&e.tex.Client().VertexArray, 3, 0, []float32{1, 2, 3})

	e.ctx.Begin(Points)
	e.ctx.ArrayElement(-1)
	e.checkError(t, InvalidValue)
	if e.ctx.stream.len() != 0 {
		t.Errorf("negative index accumulated a vertex")
	}
	if !e.ctx.Accumulating() {
		t.Errorf("negative index closed the bracket")
	}
	e.ctx.End()
	if len(e.draws()) != 0 {
		t.Errorf("empty bracket was drawn")
	}
}

func TestArrayElementDisabledVertexArray(t *testing.T) {
	e := newTestEnv(t, Options{})
	u := e.tex.Client()
	texture.SetSlice(&u.VertexArray, 3, 0, []float32{1, 2, 3})
	enableArray(&u.TexCoordArray, 2, 0, []float32{0, 0})

	e.ctx.Begin(Points)
	e.ctx.ArrayElement(0)
	e.checkError(t, NoError)
	if e.ctx.stream.len() != 0 || len(e.ctx.stream.texcoords) != 0 {
		t.Errorf("disabled vertex array accumulated data")
	}
	e.ctx.End()
}

func TestArrayElementClientUnit(t *testing.T) {
	e := newTestEnv(t, Options{})
	enableArray(&e.tex.Units[1].VertexArray, 3, 0, []float32{4, 5, 6})

	e.ctx.Begin(Points)
	e.ctx.ArrayElement(0)
	if e.ctx.stream.len() != 0 {
		t.Errorf("read from a unit other than the client unit")
	}
	if err := e.tex.SetClientActive(1); err != nil {
		t.Fatal(err)
	}
	e.ctx.ArrayElement(0)
	if e.ctx.stream.len() != 1 || e.ctx.stream.positions[0] != [3]float32{4, 5, 6} {
		t.Errorf("positions = %v", e.ctx.stream.positions)
	}
	e.ctx.End()
}

func TestArrayElementOutOfBounds(t *testing.T) {
	e := newTestEnv(t, Options{})
	enableArray(&e.tex.Client().VertexArray, 3, 0, []float32{1, 2, 3})

	e.ctx.Begin(Points)
	e.ctx.ArrayElement(1)
	if e.ctx.stream.len() != 0 {
		t.Errorf("read past the end of a slice-backed array")
	}
	e.ctx.End()

	// Negative strides are rejected rather than reading before the slice.
	backing := []float32{111, 222, 333, 1, 2, 3}
	enableArray(&e.tex.Client().VertexArray, 3, -12, backing[3:])
	e.ctx.Begin(Points)
	e.ctx.ArrayElement(1)
	if n := e.ctx.stream.len(); n != 0 {
		t.Errorf("negative stride accumulated %d vertices: %v", n, e.ctx.stream.positions)
	}
	e.ctx.End()
	e.checkError(t, NoError)
}
