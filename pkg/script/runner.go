// pkg/script/runner.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package script

import (
	"fmt"
	"log/slog"

	"github.com/mmp/legacygl/pkg/gpu"
	"github.com/mmp/legacygl/pkg/legacy"
	"github.com/mmp/legacygl/pkg/log"
	"github.com/mmp/legacygl/pkg/math"
	"github.com/mmp/legacygl/pkg/texture"
	"github.com/mmp/legacygl/pkg/transform"
)

type function struct {
	args []argKind
	run  func(r *Runner, a args) error
}

func f(kinds ...argKind) []argKind { return kinds }

var functions = map[string]function{
	"Begin": {f(argMode), func(r *Runner, a args) error {
		r.ctx.Begin(legacy.Mode(a.enum(0, argMode)))
		return nil
	}},
	"End": {nil, func(r *Runner, a args) error { r.ctx.End(); return nil }},

	"Vertex2f": {f(argFloat, argFloat), func(r *Runner, a args) error {
		r.ctx.Vertex2f(a.float(0), a.float(1))
		return nil
	}},
	"Vertex3f": {f(argFloat, argFloat, argFloat), func(r *Runner, a args) error {
		r.ctx.Vertex3f(a.float(0), a.float(1), a.float(2))
		return nil
	}},
	"Vertex3fv": {f(argFloat, argFloat, argFloat), func(r *Runner, a args) error {
		r.ctx.Vertex3fv([3]float32(a.floats(3)))
		return nil
	}},

	"Color3f": {f(argFloat, argFloat, argFloat), func(r *Runner, a args) error {
		r.ctx.Color3f(a.float(0), a.float(1), a.float(2))
		return nil
	}},
	"Color3fv": {f(argFloat, argFloat, argFloat), func(r *Runner, a args) error {
		r.ctx.Color3fv([3]float32(a.floats(3)))
		return nil
	}},
	"Color3ub": {f(argUByte, argUByte, argUByte), func(r *Runner, a args) error {
		b := a.bytes(3)
		r.ctx.Color3ub(b[0], b[1], b[2])
		return nil
	}},
	"Color3ubv": {f(argUByte, argUByte, argUByte), func(r *Runner, a args) error {
		r.ctx.Color3ubv([3]uint8(a.bytes(3)))
		return nil
	}},
	"Color4f": {f(argFloat, argFloat, argFloat, argFloat), func(r *Runner, a args) error {
		r.ctx.Color4f(a.float(0), a.float(1), a.float(2), a.float(3))
		return nil
	}},
	"Color4fv": {f(argFloat, argFloat, argFloat, argFloat), func(r *Runner, a args) error {
		r.ctx.Color4fv([4]float32(a.floats(4)))
		return nil
	}},
	"Color4ub": {f(argUByte, argUByte, argUByte, argUByte), func(r *Runner, a args) error {
		b := a.bytes(4)
		r.ctx.Color4ub(b[0], b[1], b[2], b[3])
		return nil
	}},
	"Color4ubv": {f(argUByte, argUByte, argUByte, argUByte), func(r *Runner, a args) error {
		r.ctx.Color4ubv([4]uint8(a.bytes(4)))
		return nil
	}},

	"TexCoord2f": {f(argFloat, argFloat), func(r *Runner, a args) error {
		r.ctx.TexCoord2f(a.float(0), a.float(1))
		return nil
	}},
	"TexCoord2fv": {f(argFloat, argFloat), func(r *Runner, a args) error {
		r.ctx.TexCoord2fv([2]float32(a.floats(2)))
		return nil
	}},
	"TexCoord2i": {f(argInt, argInt), func(r *Runner, a args) error {
		r.ctx.TexCoord2i(int32(a.integer(0)), int32(a.integer(1)))
		return nil
	}},

	"ArrayElement": {f(argInt), func(r *Runner, a args) error {
		r.ctx.ArrayElement(a.integer(0))
		return nil
	}},
	"VertexPointer": {f(argArray, argInt, argInt), func(r *Runner, a args) error {
		return r.setPointer(a, func(u *texture.Unit) *texture.ClientArray { return &u.VertexArray })
	}},
	"ColorPointer": {f(argArray, argInt, argInt), func(r *Runner, a args) error {
		return r.setPointer(a, func(u *texture.Unit) *texture.ClientArray { return &u.ColorArray })
	}},
	"TexCoordPointer": {f(argArray, argInt, argInt), func(r *Runner, a args) error {
		return r.setPointer(a, func(u *texture.Unit) *texture.ClientArray { return &u.TexCoordArray })
	}},
	"EnableClientState": {f(argClientState), func(r *Runner, a args) error {
		return r.clientState(a.enum(0, argClientState), true)
	}},
	"DisableClientState": {f(argClientState), func(r *Runner, a args) error {
		return r.clientState(a.enum(0, argClientState), false)
	}},

	"Enable": {f(argCapability), func(r *Runner, a args) error {
		return r.capability(a.enum(0, argCapability), true)
	}},
	"Disable": {f(argCapability), func(r *Runner, a args) error {
		return r.capability(a.enum(0, argCapability), false)
	}},
	"BlendFunc": {f(argBlendFactor, argBlendFactor), func(r *Runner, a args) error {
		src, dst := gpu.BlendFactor(a.enum(0, argBlendFactor)), gpu.BlendFactor(a.enum(1, argBlendFactor))
		r.blend.SrcRGB, r.blend.SrcAlpha = src, src
		r.blend.DstRGB, r.blend.DstAlpha = dst, dst
		r.ctx.SetBlend(r.blend)
		return nil
	}},
	"AlphaFunc": {f(argAlphaFunc, argFloat), func(r *Runner, a args) error {
		r.alphaFunc = texture.AlphaFunc(a.enum(0, argAlphaFunc))
		r.tex.AlphaRef = math.Clamp(a.float(1), 0, 1)
		if r.tex.AlphaFunc != texture.AlphaDisabled {
			r.tex.AlphaFunc = r.alphaFunc
		}
		return nil
	}},
	"NoPolygons": {f(argBool), func(r *Runner, a args) error {
		r.ctx.SetNoPolygons(a.boolean(0))
		return nil
	}},

	"BindTexture": {f(argInt), func(r *Runner, a args) error {
		i := a.integer(0)
		if i < 0 || i >= len(r.slots) {
			return fmt.Errorf("%d: no such texture", i)
		}
		return r.tex.Bind(r.slots[i])
	}},
	"ActiveTexture": {f(argInt), func(r *Runner, a args) error {
		return r.tex.SetActive(a.integer(0))
	}},
	"ClientActiveTexture": {f(argInt), func(r *Runner, a args) error {
		return r.tex.SetClientActive(a.integer(0))
	}},
	"TexEnv": {f(argEnvMode), func(r *Runner, a args) error {
		m := texture.EnvMode(a.enum(0, argEnvMode))
		if !m.Valid() {
			return fmt.Errorf("0x%x: invalid texture environment mode", uint32(m))
		}
		r.tex.Server().Env = m
		return nil
	}},
	"TexEnvColor": {f(argFloat, argFloat, argFloat, argFloat), func(r *Runner, a args) error {
		r.tex.Server().EnvColor = [4]float32(a.floats(4))
		return nil
	}},

	"MatrixMode": {f(argMatrixMode), func(r *Runner, a args) error {
		return r.xf.MatrixMode(transform.Mode(a.enum(0, argMatrixMode)))
	}},
	"LoadIdentity": {nil, func(r *Runner, a args) error { r.xf.LoadIdentity(); return nil }},
	"Translate": {f(argFloat, argFloat, argFloat), func(r *Runner, a args) error {
		r.xf.Translate(a.float(0), a.float(1), a.float(2))
		return nil
	}},
	"Scale": {f(argFloat, argFloat, argFloat), func(r *Runner, a args) error {
		r.xf.Scale(a.float(0), a.float(1), a.float(2))
		return nil
	}},
	"Rotate": {f(argFloat, argFloat, argFloat, argFloat), func(r *Runner, a args) error {
		r.xf.Rotate(a.float(0), a.float(1), a.float(2), a.float(3))
		return nil
	}},
	"Ortho": {f(argFloat, argFloat, argFloat, argFloat, argFloat, argFloat), func(r *Runner, a args) error {
		r.xf.Ortho(a.float(0), a.float(1), a.float(2), a.float(3), a.float(4), a.float(5))
		return nil
	}},
	"Frustum": {f(argFloat, argFloat, argFloat, argFloat, argFloat, argFloat), func(r *Runner, a args) error {
		r.xf.Frustum(a.float(0), a.float(1), a.float(2), a.float(3), a.float(4), a.float(5))
		return nil
	}},
	"PushMatrix": {nil, func(r *Runner, a args) error { return r.xf.Push() }},
	"PopMatrix":  {nil, func(r *Runner, a args) error { return r.xf.Pop() }},

	"ExpectError": {f(argError), func(r *Runner, a args) error {
		want := legacy.Error(a.enum(0, argError))
		if got := r.ctx.GetError(); got != want {
			return fmt.Errorf("GetError() = %v, want %v", got, want)
		}
		return nil
	}},
}

// Runner executes the frames of a script.
type Runner struct {
	script *Script
	ctx    *legacy.Context
	tex    *texture.State
	xf     *transform.Stack
	lg     *log.Logger

	arrays    map[string]func(a *texture.ClientArray, components, stride int)
	slots     []int
	blend     gpu.BlendState
	alphaFunc texture.AlphaFunc
}

// NewRunner returns a Runner for s that issues calls to ctx and xf; the
// script's textures are registered with ctx's texture state.
func NewRunner(s *Script, ctx *legacy.Context, xf *transform.Stack, lg *log.Logger) *Runner {
	r := &Runner{
		script:    s,
		ctx:       ctx,
		tex:       ctx.Textures(),
		xf:        xf,
		lg:        lg,
		arrays:    make(map[string]func(*texture.ClientArray, int, int)),
		slots:     []int{0},
		blend:     gpu.BlendState{SrcRGB: gpu.BlendOne, SrcAlpha: gpu.BlendOne},
		alphaFunc: texture.AlphaAlways,
	}
	for name, arr := range s.Arrays {
		r.arrays[name] = makeArray(arr)
	}
	for _, h := range s.Textures {
		r.slots = append(r.slots, r.tex.CreateSlot(h))
	}
	return r
}

func makeArray(arr Array) func(*texture.ClientArray, int, int) {
	switch componentTypes[arr.Type] {
	case texture.Byte:
		return arraySetter[int8](arr.Data)
	case texture.UnsignedByte:
		return arraySetter[uint8](arr.Data)
	case texture.Short:
		return arraySetter[int16](arr.Data)
	case texture.UnsignedShort:
		return arraySetter[uint16](arr.Data)
	case texture.Int:
		return arraySetter[int32](arr.Data)
	default:
		return arraySetter[float32](arr.Data)
	}
}

func arraySetter[T texture.Component](data []float64) func(*texture.ClientArray, int, int) {
	v := make([]T, len(data))
	for i, d := range data {
		v[i] = T(d)
	}
	return func(a *texture.ClientArray, components, stride int) {
		texture.SetSlice(a, components, stride, v)
	}
}

func (r *Runner) client() (*texture.Unit, error) {
	u := r.tex.Client()
	if u == nil {
		return nil, fmt.Errorf("%d: %w", r.tex.ClientUnit, texture.ErrInvalidUnit)
	}
	return u, nil
}

func (r *Runner) setPointer(a args, array func(*texture.Unit) *texture.ClientArray) error {
	u, err := r.client()
	if err != nil {
		return err
	}
	components, stride := a.integer(1), a.integer(2)
	if components < 1 || components > 4 || stride < 0 {
		return fmt.Errorf("%d components, stride %d: invalid array layout", components, stride)
	}
	ca := array(u)
	r.arrays[a.name(0)](ca, components, stride)
	return nil
}

func (r *Runner) clientState(which uint32, enable bool) error {
	u, err := r.client()
	if err != nil {
		return err
	}
	switch which {
	case vertexArray:
		u.VertexArray.Enabled = enable
	case colorArray:
		u.ColorArray.Enabled = enable
	case textureCoordArray:
		u.TexCoordArray.Enabled = enable
	default:
		return fmt.Errorf("0x%x: unknown client state", which)
	}
	return nil
}

func (r *Runner) capability(which uint32, enable bool) error {
	switch which {
	case capTexture2D:
		u := r.tex.Server()
		if u == nil {
			return fmt.Errorf("%d: %w", r.tex.ServerUnit, texture.ErrInvalidUnit)
		}
		u.Enabled = enable
	case capBlend:
		r.blend.Enabled = enable
		r.ctx.SetBlend(r.blend)
	case capAlphaTest:
		if enable {
			r.tex.AlphaFunc = r.alphaFunc
		} else {
			r.tex.AlphaFunc = texture.AlphaDisabled
		}
	default:
		return fmt.Errorf("0x%x: unknown capability", which)
	}
	return nil
}

// RunFrame executes the calls of the i'th frame.
func (r *Runner) RunFrame(i int) error {
	if i < 0 || i >= len(r.script.Frames) {
		return fmt.Errorf("%d: no such frame", i)
	}
	fr := r.script.Frames[i]
	r.lg.Debug("running frame", slog.Int("frame", i), slog.String("name", fr.Name))

	for j, call := range fr.Calls {
		fn, ok := functions[call.Name()]
		if !ok || len(call)-1 != len(fn.args) {
			return fmt.Errorf("frame %d (%s): call %d: %v: invalid call", i, fr.Name, j, call)
		}
		if err := fn.run(r, args{call: call}); err != nil {
			return fmt.Errorf("frame %d (%s): call %d: %s: %w", i, fr.Name, j, call.Name(), err)
		}
	}
	return nil
}

// Run executes all of the script's frames, calling endFrame after each
// one. Execution stops at the first error.
func (r *Runner) Run(endFrame func(i int, name string) error) error {
	for i, fr := range r.script.Frames {
		if err := r.RunFrame(i); err != nil {
			return err
		}
		if endFrame != nil {
			if err := endFrame(i, fr.Name); err != nil {
				return err
			}
		}
	}
	return nil
}
