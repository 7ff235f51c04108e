// pkg/legacy/color.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package legacy

import (
	"github.com/mmp/legacygl/pkg/math"
)

type RGBA struct {
	R, G, B, A float32
}

var White = RGBA{R: 1, G: 1, B: 1, A: 1}

func RGBAFromUInt8(r, g, b, a uint8) RGBA {
	return RGBA{R: math.Normalize8(r), G: math.Normalize8(g), B: math.Normalize8(b), A: math.Normalize8(a)}
}

func (c RGBA) Floats() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}
