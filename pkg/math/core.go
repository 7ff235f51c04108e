// pkg/math/core.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

// Radians converts degrees, as taken by Rotate and Perspective, to radians.
func Radians(deg float32) float32 {
	return deg * (math32.Pi / 180)
}

// float32 trig for the matrix builders.
var (
	Sin  = math32.Sin
	Cos  = math32.Cos
	Tan  = math32.Tan
	Sqrt = math32.Sqrt
)

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

// Normalize8 maps an 8-bit channel value to [0,1].
func Normalize8(v uint8) float32 {
	return float32(v) / 255
}
