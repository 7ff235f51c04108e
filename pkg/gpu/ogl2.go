// pkg/gpu/ogl2.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpu

import (
	"fmt"
	"unsafe"

	"github.com/mmp/legacygl/pkg/log"

	"github.com/go-gl/gl/v2.1/gl"
)

// OpenGL2Renderer executes recorded CommandBuffers using the OpenGL 2.1
// fixed-function pipeline: the RGBA programs map to per-vertex color
// arrays and the texture2d programs to texture coordinate arrays with
// GL_TEXTURE_2D enabled. A GL context must be current on the calling
// thread.
type OpenGL2Renderer struct {
	lg *log.Logger
}

// NewOpenGL2Renderer initializes the GL function pointers for the current
// context.
func NewOpenGL2Renderer(lg *log.Logger) (*OpenGL2Renderer, error) {
	lg.Info("Starting OpenGL2Renderer initialization")
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	lg.Infof("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))
	lg.Info("Finished OpenGL2Renderer initialization")
	return &OpenGL2Renderer{lg: lg}, nil
}

func glPrimitive(p Primitive) uint32 {
	switch p {
	case PrimitivePoints:
		return gl.POINTS
	case PrimitiveLines:
		return gl.LINES
	case PrimitiveTriangleStrip:
		return gl.TRIANGLE_STRIP
	case PrimitiveTriangleFan:
		return gl.TRIANGLE_FAN
	default:
		return gl.TRIANGLES
	}
}

func (ogl2 *OpenGL2Renderer) applyFragmentProgram(cb *CommandBuffer, p Program) {
	pp, ok := cb.ResolveProgram(p)
	if !ok {
		ogl2.lg.Errorf("%s: unknown fragment program", p)
		return
	}

	if pp.Base == ProgramTexture2DFragment {
		gl.Enable(gl.TEXTURE_2D)
	} else {
		gl.Disable(gl.TEXTURE_2D)
	}

	if pp.Blend.Enabled {
		gl.Enable(gl.BLEND)
		gl.BlendFuncSeparate(uint32(pp.Blend.SrcRGB), uint32(pp.Blend.DstRGB),
			uint32(pp.Blend.SrcAlpha), uint32(pp.Blend.DstAlpha))
	} else {
		gl.Disable(gl.BLEND)
	}
}

func (ogl2 *OpenGL2Renderer) applyUniform(cmd Command) {
	v := cmd.Values
	switch cmd.Uniform {
	case "wvp":
		if len(v) != 16 {
			ogl2.lg.Errorf("wvp: expected 16 values, got %d", len(v))
			return
		}
		// The uniform is the full combined transform, so the projection
		// matrix is left as the identity.
		gl.MatrixMode(gl.PROJECTION)
		gl.LoadIdentity()
		gl.MatrixMode(gl.MODELVIEW)
		gl.LoadMatrixf(&v[0])

	case "tintColor":
		if len(v) == 4 {
			gl.Color4f(v[0], v[1], v[2], v[3])
		}

	case "texEnv":
		if len(v) == 1 {
			gl.TexEnvi(gl.TEXTURE_ENV, gl.TEXTURE_ENV_MODE, int32(v[0]))
		}

	case "texEnvColor":
		if len(v) == 4 {
			gl.TexEnvfv(gl.TEXTURE_ENV, gl.TEXTURE_ENV_COLOR, &v[0])
		}

	case "alphaTest":
		// func, reference value; a zero func disables the test.
		if len(v) == 2 {
			if v[0] == 0 {
				gl.Disable(gl.ALPHA_TEST)
			} else {
				gl.Enable(gl.ALPHA_TEST)
				gl.AlphaFunc(uint32(v[0]), v[1])
			}
		}

	default:
		ogl2.lg.Debugf("%s: ignoring unknown uniform", cmd.Uniform)
	}
}

// RenderCommandBuffer executes all of the commands encoded in the
// provided command buffer, returning statistics about what was rendered.
func (ogl2 *OpenGL2Renderer) RenderCommandBuffer(cb *CommandBuffer) RendererStats {
	var stats RendererStats
	stats.Buffers++
	stats.BufferBytes += 4 * len(cb.Buf)

	textured := false
	for cmd := range cb.Commands() {
		switch cmd.Op {
		case CommandVertexProgram:
			textured = cmd.Program == ProgramTexture2DVertex

		case CommandFragmentProgram:
			ogl2.applyFragmentProgram(cb, cmd.Program)

		case CommandUniform:
			ogl2.applyUniform(cmd)

		case CommandFragmentTexture:
			gl.ActiveTexture(gl.TEXTURE0 + uint32(cmd.Unit))
			gl.BindTexture(gl.TEXTURE_2D, cmd.Texture)

		case CommandVertexStream:
			if len(cmd.Data) == 0 {
				continue
			}
			ptr := unsafe.Pointer(&cmd.Data[0])
			nc := int32(cmd.Components)
			switch {
			case cmd.Stream == 0:
				gl.EnableClientState(gl.VERTEX_ARRAY)
				gl.VertexPointer(nc, gl.FLOAT, 0, ptr)
			case textured:
				gl.EnableClientState(gl.TEXTURE_COORD_ARRAY)
				gl.TexCoordPointer(nc, gl.FLOAT, 0, ptr)
			default:
				gl.EnableClientState(gl.COLOR_ARRAY)
				gl.ColorPointer(nc, gl.FLOAT, 0, ptr)
			}

		case CommandDraw:
			if cmd.Count == 0 {
				continue
			}
			xtype := uint32(gl.UNSIGNED_SHORT)
			if cmd.Format == IndexU32 {
				xtype = gl.UNSIGNED_INT
			}
			gl.DrawElements(glPrimitive(cmd.Primitive), int32(cmd.Count), xtype, unsafe.Pointer(&cmd.Data[0]))
			stats.add(cmd)

			gl.DisableClientState(gl.VERTEX_ARRAY)
			gl.DisableClientState(gl.COLOR_ARRAY)
			gl.DisableClientState(gl.TEXTURE_COORD_ARRAY)

		case CommandInvalid:
			ogl2.lg.Error("malformed command buffer")
		}
	}

	return stats
}
