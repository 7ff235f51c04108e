// pkg/capture/capture_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package capture

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/mmp/legacygl/pkg/gpu"
	"github.com/mmp/legacygl/pkg/legacy"
	"github.com/mmp/legacygl/pkg/texture"
	"github.com/mmp/legacygl/pkg/transform"
)

type recorder struct {
	ctx *legacy.Context
	cb  *gpu.CommandBuffer
	tex *texture.State
}

func newRecorder(t *testing.T) *recorder {
	t.Helper()
	cb := gpu.GetCommandBuffer()
	t.Cleanup(func() { gpu.ReturnCommandBuffer(cb) })
	tex := texture.New(1)
	ctx, err := legacy.NewContext(cb, gpu.NewTempArena(0, 0), tex, transform.New(), legacy.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return &recorder{ctx: ctx, cb: cb, tex: tex}
}

func (r *recorder) quad() {
	r.ctx.Begin(legacy.Quads)
	r.ctx.Vertex2f(0, 0)
	r.ctx.Vertex2f(1, 0)
	r.ctx.Vertex2f(1, 1)
	r.ctx.Vertex2f(0, 1)
	r.ctx.End()
}

func draws(cb *gpu.CommandBuffer) []gpu.Command {
	var d []gpu.Command
	for cmd := range cb.Commands() {
		if cmd.Op == gpu.CommandDraw {
			d = append(d, cmd)
		}
	}
	return d
}

func TestRecordCopies(t *testing.T) {
	r := newRecorder(t)
	c := New()

	r.quad()
	f := c.Record(r.cb, r.ctx.Stats(), r.tex)
	n := len(f.Commands)

	r.cb.Reset()
	r.quad()
	r.quad()
	if len(c.Frames[0].Commands) != n {
		t.Errorf("recorded frame changed when the command buffer was reused")
	}
	if f.Renderer.DrawCalls != 1 || f.Stats.Draws != 1 {
		t.Errorf("frame stats = %+v %+v", f.Renderer, f.Stats)
	}

	d := draws(f.CommandBuffer())
	if len(d) != 1 || !slices.Equal(d[0].Indices(), []uint32{0, 1, 3, 1, 2, 3}) {
		t.Errorf("replayed draws = %+v", d)
	}
}

func TestSaveLoad(t *testing.T) {
	r := newRecorder(t)
	r.tex.Units[0].Env = texture.Decal
	c := New()
	for i := range 3 {
		r.cb.Reset()
		r.ctx.ResetStats()
		for range i + 1 {
			r.quad()
		}
		c.Record(r.cb, r.ctx.Stats(), r.tex)
	}

	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		t.Fatal(err)
	}
	lc, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if len(lc.Frames) != 3 {
		t.Fatalf("loaded %d frames, want 3", len(lc.Frames))
	}
	for i, f := range lc.Frames {
		if f.Index != i || !slices.Equal(f.Commands, c.Frames[i].Commands) {
			t.Errorf("frame %d: commands differ after round trip", i)
		}
		if f.Stats != c.Frames[i].Stats || f.Renderer != c.Frames[i].Renderer {
			t.Errorf("frame %d: stats = %+v %+v", i, f.Stats, f.Renderer)
		}
		if len(f.Textures.Units) != 1 || f.Textures.Units[0].Env != texture.Decal {
			t.Errorf("frame %d: textures = %+v", i, f.Textures)
		}
		if got := len(draws(f.CommandBuffer())); got != i+1 {
			t.Errorf("frame %d: %d draws, want %d", i, got, i+1)
		}
		for p, pp := range c.Frames[i].Patched {
			if f.Patched[p] != pp {
				t.Errorf("frame %d: patched program %s = %+v, want %+v", i, p, f.Patched[p], pp)
			}
		}
	}

	ls, rs := lc.Stats()
	if ls.Draws != 6 || rs.DrawCalls != 6 || rs.Triangles != 12 {
		t.Errorf("Stats() = %+v %+v", ls, rs)
	}
}

func TestLoadVersion(t *testing.T) {
	c := &Capture{Version: Version + 1}
	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(&buf); !errors.Is(err, ErrVersion) {
		t.Errorf("Load err = %v, want ErrVersion", err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	if _, err := Load(bytes.NewReader([]byte("not a capture"))); err == nil {
		t.Errorf("Load of garbage succeeded")
	}
}

func TestFiles(t *testing.T) {
	r := newRecorder(t)
	r.quad()
	c := New()
	c.Record(r.cb, r.ctx.Stats(), nil)

	path := filepath.Join(t.TempDir(), "frames.msgpack.zst")
	if err := c.SaveFile(path); err != nil {
		t.Fatal(err)
	}
	lc, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(lc.Frames) != 1 || !slices.Equal(lc.Frames[0].Commands, c.Frames[0].Commands) {
		t.Errorf("file round trip lost data")
	}
}
