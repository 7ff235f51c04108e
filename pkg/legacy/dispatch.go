// pkg/legacy/dispatch.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package legacy

import (
	"github.com/mmp/legacygl/pkg/gpu"
	"github.com/mmp/legacygl/pkg/texture"
)

// updateMVP recomputes the combined transform if the transform stack has
// changed since it was last computed.
func (c *Context) updateMVP() {
	if c.transforms.Dirty() {
		c.mvp = c.transforms.Projection().PostMultiply(c.transforms.ModelView())
		c.transforms.ClearDirty()
	}
}

// dispatch binds the programs, uniforms and streams for g and draws it.
func (c *Context) dispatch(g geometry) {
	c.updateMVP()

	if g.textured {
		c.backend.SetVertexProgram(gpu.ProgramTexture2DVertex)
		c.backend.SetFragmentProgram(c.programs.fragment(gpu.ProgramTexture2DFragment, c.blend, c.lg))
		c.uploadTextureUniforms(g.unit)
		c.backend.SetFragmentTexture(0, g.slot.Handle)
		c.stats.TexturedDraws++
	} else {
		c.backend.SetVertexProgram(gpu.ProgramRGBAVertex)
		c.backend.SetFragmentProgram(c.programs.fragment(gpu.ProgramRGBAFragment, c.blend, c.lg))
		c.backend.SetUniform("wvp", c.mvp[:])
	}

	c.backend.SetVertexStream(0, g.positions, 3)
	c.backend.SetVertexStream(1, g.attributes, g.attributeComponents)
	c.backend.Draw(g.primitive, g.format, g.indices, g.count)

	c.stats.Draws++
	c.stats.Vertices += c.stream.len()
	c.stats.Indices += g.count
}

func (c *Context) uploadTextureUniforms(u *texture.Unit) {
	ts := c.textures
	c.backend.SetUniform("wvp", c.mvp[:])
	c.backend.SetUniform("texEnv", []float32{float32(u.Env)})
	c.backend.SetUniform("texEnvColor", u.EnvColor[:])
	tint := c.color.Floats()
	c.backend.SetUniform("tintColor", tint[:])
	c.backend.SetUniform("alphaTest", []float32{float32(ts.AlphaFunc), ts.AlphaRef})
}
