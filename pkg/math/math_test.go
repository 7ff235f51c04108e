// pkg/math/math_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"testing"
)

func approxEqual(a, b [3]float32) bool {
	for i := range a {
		if Abs(a[i]-b[i]) > 1e-5 {
			return false
		}
	}
	return true
}

func TestMatrix4Identity(t *testing.T) {
	m := Identity4x4()
	p := [3]float32{1, -2, 3}
	if got := m.TransformPoint(p); got != p {
		t.Errorf("Identity4x4().TransformPoint(%v) = %v, want %v", p, got, p)
	}
	if got := m.PostMultiply(m); got != m {
		t.Errorf("identity * identity = %v, want identity", got)
	}
}

func TestMatrix4TranslateScale(t *testing.T) {
	m := Identity4x4().Translate(1, 2, 3).Scale(2, 2, 2)
	// Scale is applied first, then translation.
	got := m.TransformPoint([3]float32{1, 1, 1})
	want := [3]float32{3, 4, 5}
	if !approxEqual(got, want) {
		t.Errorf("TransformPoint = %v, want %v", got, want)
	}

	// Column-major layout: translation lives in the last column.
	if m[12] != 1 || m[13] != 2 || m[14] != 3 {
		t.Errorf("translation column = %v, want [1 2 3]", m[12:15])
	}
}

func TestMatrix4Ortho(t *testing.T) {
	m := Identity4x4().Ortho(0, 640, 480, 0, -1, 1)
	tests := []struct {
		p, want [3]float32
	}{
		{[3]float32{0, 0, 0}, [3]float32{-1, 1, 0}},
		{[3]float32{640, 480, 0}, [3]float32{1, -1, 0}},
		{[3]float32{320, 240, 0}, [3]float32{0, 0, 0}},
	}
	for _, tt := range tests {
		if got := m.TransformPoint(tt.p); !approxEqual(got, tt.want) {
			t.Errorf("Ortho.TransformPoint(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestMatrix4Rotate(t *testing.T) {
	m := Identity4x4().Rotate(Radians(90), 0, 0, 1)
	got := m.TransformPoint([3]float32{1, 0, 0})
	if want := [3]float32{0, 1, 0}; !approxEqual(got, want) {
		t.Errorf("Rotate(90).TransformPoint = %v, want %v", got, want)
	}
}

func TestNormalize8(t *testing.T) {
	for _, tt := range []struct {
		v    uint8
		want float32
	}{{0, 0}, {255, 1}, {51, 0.2}} {
		if got := Normalize8(tt.v); Abs(got-tt.want) > 1e-6 {
			t.Errorf("Normalize8(%d) = %f, want %f", tt.v, got, tt.want)
		}
	}
}
