// pkg/legacy/context_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package legacy

import (
	"slices"
	"testing"

	"github.com/mmp/legacygl/pkg/gpu"
	"github.com/mmp/legacygl/pkg/texture"
	"github.com/mmp/legacygl/pkg/transform"
)

type testEnv struct {
	ctx   *Context
	cb    *gpu.CommandBuffer
	arena *gpu.TempArena
	tex   *texture.State
	xf    *transform.Stack
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	return newTestEnvWithArena(t, gpu.NewTempArena(0, 0), opts)
}

func newTestEnvWithArena(t *testing.T, arena *gpu.TempArena, opts Options) *testEnv {
	t.Helper()
	cb := gpu.GetCommandBuffer()
	t.Cleanup(func() { gpu.ReturnCommandBuffer(cb) })

	e := &testEnv{cb: cb, arena: arena, tex: texture.New(2), xf: transform.New()}
	ctx, err := NewContext(cb, e.arena, e.tex, e.xf, opts)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	e.ctx = ctx
	return e
}

func (e *testEnv) commands(op gpu.Op) []gpu.Command {
	var cmds []gpu.Command
	for cmd := range e.cb.Commands() {
		if cmd.Op == op {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (e *testEnv) draws() []gpu.Command {
	return e.commands(gpu.CommandDraw)
}

// stream returns the most recently bound data for the given vertex
// stream.
func (e *testEnv) stream(t *testing.T, index int) gpu.Command {
	t.Helper()
	var last gpu.Command
	found := false
	for _, cmd := range e.commands(gpu.CommandVertexStream) {
		if cmd.Stream == index {
			last, found = cmd, true
		}
	}
	if !found {
		t.Fatalf("no vertex stream %d bound", index)
	}
	return last
}

func (e *testEnv) uniform(t *testing.T, name string) []float32 {
	t.Helper()
	var v []float32
	for _, cmd := range e.commands(gpu.CommandUniform) {
		if cmd.Uniform == name {
			v = cmd.Values
		}
	}
	if v == nil {
		t.Fatalf("uniform %q not set", name)
	}
	return v
}

func (e *testEnv) checkError(t *testing.T, want Error) {
	t.Helper()
	if err := e.ctx.GetError(); err != want {
		t.Errorf("GetError() = %v, want %v", err, want)
	}
}

func identity(n int) []uint32 {
	idx := make([]uint32, n)
	for i := range idx {
		idx[i] = uint32(i)
	}
	return idx
}

func TestBeginEnd(t *testing.T) {
	e := newTestEnv(t, Options{})
	if e.ctx.Accumulating() {
		t.Fatalf("new context is accumulating")
	}
	e.ctx.Begin(Points)
	if !e.ctx.Accumulating() {
		t.Errorf("Begin did not open a bracket")
	}
	e.ctx.Vertex3f(1, 2, 3)
	e.ctx.End()
	if e.ctx.Accumulating() {
		t.Errorf("End did not close the bracket")
	}
	e.checkError(t, NoError)

	if d := e.draws(); len(d) != 1 || d[0].Primitive != gpu.PrimitivePoints || d[0].Count != 1 {
		t.Errorf("draws = %+v, want a single point", d)
	}
}

func TestBeginWhileAccumulating(t *testing.T) {
	e := newTestEnv(t, Options{})
	e.ctx.Begin(Triangles)
	e.ctx.Vertex3f(0, 0, 0)
	e.ctx.Vertex3f(1, 0, 0)

	e.ctx.Begin(Lines)
	e.checkError(t, InvalidOperation)
	if !e.ctx.Accumulating() || e.ctx.mode != Triangles || e.ctx.stream.len() != 2 {
		t.Fatalf("second Begin changed state: mode %s, %d vertices", e.ctx.mode, e.ctx.stream.len())
	}

	e.ctx.Vertex3f(1, 1, 0)
	e.ctx.End()
	d := e.draws()
	if len(d) != 1 || d[0].Primitive != gpu.PrimitiveTriangles || d[0].Count != 3 {
		t.Errorf("draws = %+v, want one triangle", d)
	}
}

func TestBeginInvalidMode(t *testing.T) {
	e := newTestEnv(t, Options{})
	for _, m := range []Mode{0x0002, 0x0003, 0x0008, 0x1234} {
		e.ctx.Begin(m)
		e.checkError(t, InvalidEnum)
		if e.ctx.Accumulating() {
			t.Errorf("Begin(%s) opened a bracket", m)
		}
	}

	// An invalid mode while accumulating leaves the open bracket alone.
	e.ctx.Begin(Lines)
	e.ctx.Vertex2f(0, 0)
	e.ctx.Begin(0x0042)
	if e.ctx.GetError() == NoError || e.ctx.mode != Lines || e.ctx.stream.len() != 1 {
		t.Errorf("Begin with invalid mode changed the open bracket")
	}
}

func TestEndWhileIdle(t *testing.T) {
	e := newTestEnv(t, Options{})
	e.ctx.End()
	e.checkError(t, InvalidOperation)
	if e.ctx.Accumulating() || len(e.draws()) != 0 {
		t.Errorf("End while idle changed state")
	}
	if s := e.ctx.Stats(); s.Brackets != 0 {
		t.Errorf("End while idle counted a bracket: %+v", s)
	}
}

func TestEmitWhileIdle(t *testing.T) {
	emit := []struct {
		name string
		f    func(c *Context)
	}{
		{"Vertex3f", func(c *Context) { c.Vertex3f(1, 2, 3) }},
		{"Vertex3fv", func(c *Context) { c.Vertex3fv([3]float32{1, 2, 3}) }},
		{"Vertex2f", func(c *Context) { c.Vertex2f(1, 2) }},
		{"TexCoord2f", func(c *Context) { c.TexCoord2f(1, 2) }},
		{"TexCoord2fv", func(c *Context) { c.TexCoord2fv([2]float32{1, 2}) }},
		{"TexCoord2i", func(c *Context) { c.TexCoord2i(1, 2) }},
		{"ArrayElement", func(c *Context) { c.ArrayElement(0) }},
	}
	for _, em := range emit {
		t.Run(em.name, func(t *testing.T) {
			e := newTestEnv(t, Options{})
			var a texture.ClientArray
			texture.SetSlice(&a, 3, 0, []float32{1, 2, 3})
			a.Enabled = true
			e.tex.Client().VertexArray = a

			em.f(e.ctx)
			e.checkError(t, InvalidOperation)
			if e.ctx.stream.len() != 0 || len(e.ctx.stream.texcoords) != 0 {
				t.Errorf("%s while idle modified the stream", em.name)
			}
		})
	}
}

func TestColorOutsideBracket(t *testing.T) {
	e := newTestEnv(t, Options{})
	e.ctx.Color3f(0.5, 0.25, 0)
	e.checkError(t, NoError)
	if c := e.ctx.CurrentColor(); c != (RGBA{R: 0.5, G: 0.25, B: 0, A: 1}) {
		t.Errorf("CurrentColor() = %+v", c)
	}
}

func TestGetError(t *testing.T) {
	e := newTestEnv(t, Options{})
	e.checkError(t, NoError)

	e.ctx.End()
	e.ctx.Begin(0x99)
	// The register holds the most recent error until it is read.
	e.checkError(t, InvalidEnum)
	e.checkError(t, NoError)

	e.ctx.Vertex3f(0, 0, 0)
	e.ctx.Begin(Points)
	e.ctx.Vertex3f(0, 0, 0)
	e.ctx.End()
	e.checkError(t, InvalidOperation)

	if s := e.ctx.Stats(); s.Errors != 3 {
		t.Errorf("Stats().Errors = %d, want 3", s.Errors)
	}
}

func TestErrorStrings(t *testing.T) {
	tests := []struct {
		err  Error
		want string
	}{
		{NoError, "no error"},
		{InvalidEnum, "invalid enum"},
		{InvalidValue, "invalid value"},
		{InvalidOperation, "invalid operation"},
		{0x0505, "GL error 0x0505"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error(0x%x).Error() = %q, want %q", uint32(tt.err), got, tt.want)
		}
	}
}

func TestElementsPerUnit(t *testing.T) {
	tests := []struct {
		mode Mode
		want int
	}{
		{Points, 1},
		{Lines, 2},
		{Triangles, 3},
		{TriangleStrip, 1},
		{TriangleFan, 1},
		{Quads, 4},
	}
	for _, tt := range tests {
		if got := topologies[tt.mode].elementsPerUnit; got != tt.want {
			t.Errorf("%s: elementsPerUnit = %d, want %d", tt.mode, got, tt.want)
		}
	}
}

func TestStreamCapacityRetained(t *testing.T) {
	e := newTestEnv(t, Options{})
	e.ctx.Begin(Points)
	for i := range 100 {
		e.ctx.Vertex2f(float32(i), 0)
		e.ctx.TexCoord2f(0, 0)
	}
	e.ctx.End()

	s := &e.ctx.stream
	if s.len() != 0 || len(s.colors) != 0 || len(s.texcoords) != 0 {
		t.Errorf("stream not emptied after End: %d %d %d", s.len(), len(s.colors), len(s.texcoords))
	}
	if cap(s.positions) < 100 || cap(s.texcoords) < 100 {
		t.Errorf("stream capacity not retained: %d %d", cap(s.positions), cap(s.texcoords))
	}

	s.positions = make([][3]float32, 0, 2*maxRetainedVertices)
	s.reset()
	if s.positions != nil {
		t.Errorf("oversized stream storage retained")
	}
}

func TestStats(t *testing.T) {
	e := newTestEnv(t, Options{})
	e.ctx.Begin(Triangles)
	for range 6 {
		e.ctx.Vertex2f(0, 0)
	}
	e.ctx.End()
	e.ctx.Begin(Lines)
	e.ctx.Vertex2f(0, 0)
	e.ctx.End()

	s := e.ctx.Stats()
	want := Stats{Brackets: 2, Skipped: 1, Draws: 1, Vertices: 6, Indices: 6, ArenaBytes: 6*12 + 6*16 + 6*2}
	if s != want {
		t.Errorf("Stats() = %+v, want %+v", s, want)
	}

	var merged Stats
	merged.Merge(s)
	merged.Merge(s)
	if merged.Draws != 2 || merged.ArenaBytes != 2*s.ArenaBytes {
		t.Errorf("Merge = %+v", merged)
	}

	e.ctx.ResetStats()
	if e.ctx.Stats() != (Stats{}) {
		t.Errorf("ResetStats did not clear the statistics")
	}
	if !slices.Equal(e.draws()[0].Indices(), identity(6)) {
		t.Errorf("indices = %v", e.draws()[0].Indices())
	}
}
