// pkg/math/matrix.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

// Matrix4 is a 4x4 matrix stored in column-major order, matching the
// layout that GL and GPU uniform uploads expect: element (row r, column c)
// is at index c*4+r.
type Matrix4 [16]float32

func Identity4x4() Matrix4 {
	var m Matrix4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// At returns the element at row r and column c.
func (m Matrix4) At(r, c int) float32 {
	return m[c*4+r]
}

func (m *Matrix4) set(r, c int, v float32) {
	m[c*4+r] = v
}

// PostMultiply returns m*m2.
func (m Matrix4) PostMultiply(m2 Matrix4) Matrix4 {
	var result Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			result.set(r, c, m.At(r, 0)*m2.At(0, c)+m.At(r, 1)*m2.At(1, c)+
				m.At(r, 2)*m2.At(2, c)+m.At(r, 3)*m2.At(3, c))
		}
	}
	return result
}

func (m Matrix4) Translate(x, y, z float32) Matrix4 {
	t := Identity4x4()
	t[12], t[13], t[14] = x, y, z
	return m.PostMultiply(t)
}

func (m Matrix4) Scale(x, y, z float32) Matrix4 {
	s := Identity4x4()
	s[0], s[5], s[10] = x, y, z
	return m.PostMultiply(s)
}

// Rotate rotates by theta radians around the (normalized) axis (x, y, z).
func (m Matrix4) Rotate(theta, x, y, z float32) Matrix4 {
	if l := Sqrt(x*x + y*y + z*z); l != 0 {
		x, y, z = x/l, y/l, z/l
	}
	s, c := Sin(theta), Cos(theta)
	ic := 1 - c

	var r Matrix4
	r.set(0, 0, x*x*ic+c)
	r.set(0, 1, x*y*ic-z*s)
	r.set(0, 2, x*z*ic+y*s)
	r.set(1, 0, y*x*ic+z*s)
	r.set(1, 1, y*y*ic+c)
	r.set(1, 2, y*z*ic-x*s)
	r.set(2, 0, x*z*ic-y*s)
	r.set(2, 1, y*z*ic+x*s)
	r.set(2, 2, z*z*ic+c)
	r.set(3, 3, 1)
	return m.PostMultiply(r)
}

// Ortho post-multiplies an orthographic projection, a la glOrtho.
func (m Matrix4) Ortho(left, right, bottom, top, near, far float32) Matrix4 {
	o := Identity4x4()
	o.set(0, 0, 2/(right-left))
	o.set(1, 1, 2/(top-bottom))
	o.set(2, 2, -2/(far-near))
	o.set(0, 3, -(right+left)/(right-left))
	o.set(1, 3, -(top+bottom)/(top-bottom))
	o.set(2, 3, -(far+near)/(far-near))
	return m.PostMultiply(o)
}

// Frustum post-multiplies a perspective projection, a la glFrustum.
func (m Matrix4) Frustum(left, right, bottom, top, near, far float32) Matrix4 {
	var f Matrix4
	f.set(0, 0, 2*near/(right-left))
	f.set(1, 1, 2*near/(top-bottom))
	f.set(0, 2, (right+left)/(right-left))
	f.set(1, 2, (top+bottom)/(top-bottom))
	f.set(2, 2, -(far+near)/(far-near))
	f.set(3, 2, -1)
	f.set(2, 3, -2*far*near/(far-near))
	return m.PostMultiply(f)
}

// Perspective is the gluPerspective equivalent; fovy is in degrees.
func (m Matrix4) Perspective(fovy, aspect, near, far float32) Matrix4 {
	top := near * Tan(Radians(fovy)/2)
	right := top * aspect
	return m.Frustum(-right, right, -top, top, near, far)
}

func (m Matrix4) TransformPoint(p [3]float32) [3]float32 {
	var r [4]float32
	for i := 0; i < 4; i++ {
		r[i] = m.At(i, 0)*p[0] + m.At(i, 1)*p[1] + m.At(i, 2)*p[2] + m.At(i, 3)
	}
	if r[3] != 0 && r[3] != 1 {
		return [3]float32{r[0] / r[3], r[1] / r[3], r[2] / r[3]}
	}
	return [3]float32{r[0], r[1], r[2]}
}
