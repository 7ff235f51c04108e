// pkg/legacy/context.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package legacy implements the immediate-mode subset of fixed-function
// GL on top of a submission-only GPU backend: the glBegin/glEnd bracket,
// per-vertex attribute calls, glArrayElement, and the conversion of
// each bracket into a single indexed draw.
package legacy

import (
	"log/slog"

	"github.com/mmp/legacygl/pkg/gpu"
	"github.com/mmp/legacygl/pkg/log"
	"github.com/mmp/legacygl/pkg/math"
	"github.com/mmp/legacygl/pkg/texture"
)

// Allocator provides the per-frame temporary memory that assembled
// geometry is written to. The memory returned must stay valid until the
// owner's frame boundary. *gpu.TempArena implements it.
type Allocator interface {
	Alloc(n int) ([]byte, error)
}

// Transforms provides the matrices that geometry is transformed by.
// Dirty reports whether either has changed since ClearDirty was last
// called. *transform.Stack implements it.
type Transforms interface {
	Projection() math.Matrix4
	ModelView() math.Matrix4
	Dirty() bool
	ClearDirty()
}

type phase int

const (
	idle phase = iota
	accumulating
)

type Options struct {
	Logger *log.Logger
	// FragmentCacheSize is the number of patched fragment programs that
	// are remembered; zero selects a default.
	FragmentCacheSize int
	// NoPolygons causes filled primitives to be discarded without being
	// drawn, as when both faces are culled.
	NoPolygons bool
}

// Context holds the state of the immediate-mode API. It is not safe for
// concurrent use.
type Context struct {
	backend    gpu.Backend
	arena      Allocator
	textures   *texture.State
	transforms Transforms
	lg         *log.Logger

	phase    phase
	mode     Mode
	topology topology
	stream   stream
	color    RGBA

	noPolygons bool
	blend      gpu.BlendState
	programs   *programCache
	mvp        math.Matrix4

	err   Error
	stats Stats
}

func NewContext(backend gpu.Backend, arena Allocator, textures *texture.State, transforms Transforms,
	opts Options) (*Context, error) {
	programs, err := newProgramCache(backend, opts.FragmentCacheSize)
	if err != nil {
		return nil, err
	}
	return &Context{
		backend:    backend,
		arena:      arena,
		textures:   textures,
		transforms: transforms,
		lg:         opts.Logger,
		color:      White,
		noPolygons: opts.NoPolygons,
		programs:   programs,
		mvp:        math.Identity4x4(),
	}, nil
}

// Begin opens a bracket drawing primitives of the given mode.
func (c *Context) Begin(mode Mode) {
	if c.phase == accumulating {
		c.setError(InvalidOperation, "Begin")
		return
	}
	t, ok := topologies[mode]
	if !ok {
		c.setError(InvalidEnum, "Begin")
		return
	}

	c.phase = accumulating
	c.mode = mode
	c.topology = t
	c.stream.reset()
}

// End closes the current bracket and draws its vertices. Brackets whose
// vertex count is zero or not a multiple of the number of vertices in
// the mode's primitive are discarded without an error.
func (c *Context) End() {
	if c.phase != accumulating {
		c.setError(InvalidOperation, "End")
		return
	}
	c.phase = idle
	c.stats.Brackets++
	defer c.stream.reset()

	n := c.stream.len()
	if n == 0 || n%c.topology.elementsPerUnit != 0 {
		c.stats.Skipped++
		c.lg.Debug("discarding bracket", slog.String("mode", c.mode.String()), slog.Int("vertices", n))
		return
	}
	if c.noPolygons && c.topology.filled {
		c.stats.Culled++
		return
	}

	g, err := c.assemble()
	if err != nil {
		c.stats.AllocFailures++
		c.lg.Warn("unable to assemble geometry", slog.String("mode", c.mode.String()),
			slog.Int("vertices", n), slog.Any("error", err))
		return
	}
	c.dispatch(g)
}

// Accumulating reports whether a bracket is open.
func (c *Context) Accumulating() bool {
	return c.phase == accumulating
}

// SetNoPolygons sets whether filled primitives are discarded.
func (c *Context) SetNoPolygons(b bool) {
	c.noPolygons = b
}

// SetBlend sets the blend state that fragment programs are patched for.
func (c *Context) SetBlend(b gpu.BlendState) {
	c.blend = b
}

func (c *Context) Blend() gpu.BlendState {
	return c.blend
}

// CurrentColor returns the color that is assigned to vertices emitted
// with Vertex*.
func (c *Context) CurrentColor() RGBA {
	return c.color
}

func (c *Context) Textures() *texture.State {
	return c.textures
}

// Stats returns the statistics accumulated since the last call to
// ResetStats.
func (c *Context) Stats() Stats {
	return c.stats
}

// ResetStats clears the statistics; it is generally called at the start
// of each frame.
func (c *Context) ResetStats() {
	c.stats = Stats{}
}
