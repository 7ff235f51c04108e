// pkg/script/args.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package script

import (
	"fmt"

	"github.com/mmp/legacygl/pkg/texture"
)

type argKind int

const (
	argFloat argKind = iota
	argInt
	argUByte
	argBool
	argArray
	// The remaining kinds are GL enumerants, given either by name or as
	// an integer.
	argMode
	argClientState
	argCapability
	argEnvMode
	argAlphaFunc
	argBlendFactor
	argMatrixMode
	argError
)

const (
	vertexArray       = 0x8074
	colorArray        = 0x8076
	textureCoordArray = 0x8078

	capTexture2D = 0x0DE1
	capBlend     = 0x0BE2
	capAlphaTest = 0x0BC0
)

var enums = map[argKind]map[string]uint32{
	argMode: {
		"points":         0x0000,
		"lines":          0x0001,
		"triangles":      0x0004,
		"triangle_strip": 0x0005,
		"triangle_fan":   0x0006,
		"quads":          0x0007,
	},
	argClientState: {
		"vertex_array":        vertexArray,
		"color_array":         colorArray,
		"texture_coord_array": textureCoordArray,
	},
	argCapability: {
		"texture_2d": capTexture2D,
		"blend":      capBlend,
		"alpha_test": capAlphaTest,
	},
	argEnvMode: {
		"modulate": uint32(texture.Modulate),
		"decal":    uint32(texture.Decal),
		"blend":    uint32(texture.Blend),
		"replace":  uint32(texture.Replace),
		"add":      uint32(texture.Add),
	},
	argAlphaFunc: {
		"never":    uint32(texture.AlphaNever),
		"less":     uint32(texture.AlphaLess),
		"equal":    uint32(texture.AlphaEqual),
		"lequal":   uint32(texture.AlphaLEqual),
		"greater":  uint32(texture.AlphaGreater),
		"notequal": uint32(texture.AlphaNotEqual),
		"gequal":   uint32(texture.AlphaGEqual),
		"always":   uint32(texture.AlphaAlways),
	},
	argBlendFactor: {
		"zero":                0,
		"one":                 1,
		"src_color":           0x0300,
		"one_minus_src_color": 0x0301,
		"src_alpha":           0x0302,
		"one_minus_src_alpha": 0x0303,
		"dst_alpha":           0x0304,
		"one_minus_dst_alpha": 0x0305,
		"dst_color":           0x0306,
		"one_minus_dst_color": 0x0307,
	},
	argMatrixMode: {
		"modelview":  0x1700,
		"projection": 0x1701,
	},
	argError: {
		"no_error":          0,
		"invalid_enum":      0x0500,
		"invalid_value":     0x0501,
		"invalid_operation": 0x0502,
	},
}

var componentTypes = map[string]texture.ComponentType{
	"byte":           texture.Byte,
	"unsigned_byte":  texture.UnsignedByte,
	"short":          texture.Short,
	"unsigned_short": texture.UnsignedShort,
	"int":            texture.Int,
	"float":          texture.Float,
}

func checkArg(s *Script, kind argKind, v any) error {
	switch kind {
	case argFloat:
		switch v.(type) {
		case int, float64:
			return nil
		}
		return fmt.Errorf("%v: expected a number", v)

	case argInt:
		if _, ok := v.(int); !ok {
			return fmt.Errorf("%v: expected an integer", v)
		}
		return nil

	case argUByte:
		if n, ok := v.(int); !ok || n < 0 || n > 255 {
			return fmt.Errorf("%v: expected an integer in 0..255", v)
		}
		return nil

	case argBool:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("%v: expected true or false", v)
		}
		return nil

	case argArray:
		name, ok := v.(string)
		if !ok {
			return fmt.Errorf("%v: expected an array name", v)
		}
		if _, ok := s.Arrays[name]; !ok {
			return fmt.Errorf("%s: unknown array", name)
		}
		return nil

	default:
		switch e := v.(type) {
		case int:
			return nil
		case string:
			if _, ok := enums[kind][e]; ok {
				return nil
			}
		}
		return fmt.Errorf("%v: unknown value", v)
	}
}

// args provides typed access to the arguments of a call that has passed
// validation.
type args struct {
	call Call
}

func (a args) float(i int) float32 {
	switch v := a.call[i+1].(type) {
	case int:
		return float32(v)
	case float64:
		return float32(v)
	default:
		return 0
	}
}

func (a args) integer(i int) int {
	v, _ := a.call[i+1].(int)
	return v
}

func (a args) boolean(i int) bool {
	v, _ := a.call[i+1].(bool)
	return v
}

func (a args) name(i int) string {
	v, _ := a.call[i+1].(string)
	return v
}

func (a args) enum(i int, kind argKind) uint32 {
	switch v := a.call[i+1].(type) {
	case int:
		return uint32(v)
	case string:
		return enums[kind][v]
	default:
		return 0
	}
}

func (a args) floats(n int) []float32 {
	f := make([]float32, n)
	for i := range f {
		f[i] = a.float(i)
	}
	return f
}

func (a args) bytes(n int) []uint8 {
	b := make([]uint8, n)
	for i := range b {
		b[i] = uint8(a.integer(i))
	}
	return b
}
