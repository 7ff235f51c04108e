// pkg/transform/transform.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package transform implements the fixed-function projection and
// modelview matrix stacks.
package transform

import (
	"errors"
	"fmt"

	"github.com/mmp/legacygl/pkg/math"
)

// Mode selects the matrix stack that matrix operations apply to; the
// values match GL.
type Mode uint32

const (
	ModelView  Mode = 0x1700
	Projection Mode = 0x1701
)

func (m Mode) String() string {
	switch m {
	case ModelView:
		return "modelview"
	case Projection:
		return "projection"
	default:
		return fmt.Sprintf("mode-0x%x", uint32(m))
	}
}

const (
	MaxModelViewDepth  = 32
	MaxProjectionDepth = 4
)

var (
	ErrInvalidMode    = errors.New("invalid matrix mode")
	ErrStackOverflow  = errors.New("matrix stack overflow")
	ErrStackUnderflow = errors.New("matrix stack underflow")
)

type stack struct {
	m        []math.Matrix4
	maxDepth int
}

func (s *stack) top() *math.Matrix4 {
	return &s.m[len(s.m)-1]
}

// Stack holds the projection and modelview stacks. Every change to the
// top of either stack marks it dirty; consumers that cache the combined
// matrix call ClearDirty once they have recomputed it.
type Stack struct {
	mode       Mode
	modelview  stack
	projection stack
	dirty      bool
}

// New returns a Stack with both matrices set to the identity and
// ModelView selected. It starts out dirty.
func New() *Stack {
	return &Stack{
		mode:       ModelView,
		modelview:  stack{m: []math.Matrix4{math.Identity4x4()}, maxDepth: MaxModelViewDepth},
		projection: stack{m: []math.Matrix4{math.Identity4x4()}, maxDepth: MaxProjectionDepth},
		dirty:      true,
	}
}

func (s *Stack) current() *stack {
	if s.mode == Projection {
		return &s.projection
	}
	return &s.modelview
}

func (s *Stack) apply(f func(math.Matrix4) math.Matrix4) {
	t := s.current().top()
	*t = f(*t)
	s.dirty = true
}

func (s *Stack) Mode() Mode { return s.mode }

func (s *Stack) MatrixMode(m Mode) error {
	if m != ModelView && m != Projection {
		return fmt.Errorf("%s: %w", m, ErrInvalidMode)
	}
	s.mode = m
	return nil
}

func (s *Stack) LoadIdentity() {
	s.apply(func(math.Matrix4) math.Matrix4 { return math.Identity4x4() })
}

// LoadMatrix replaces the current matrix with m, given in column-major
// order.
func (s *Stack) LoadMatrix(m math.Matrix4) {
	s.apply(func(math.Matrix4) math.Matrix4 { return m })
}

func (s *Stack) MultMatrix(m math.Matrix4) {
	s.apply(func(c math.Matrix4) math.Matrix4 { return c.PostMultiply(m) })
}

func (s *Stack) Translate(x, y, z float32) {
	s.apply(func(c math.Matrix4) math.Matrix4 { return c.Translate(x, y, z) })
}

func (s *Stack) Scale(x, y, z float32) {
	s.apply(func(c math.Matrix4) math.Matrix4 { return c.Scale(x, y, z) })
}

// Rotate rotates by angle degrees about (x, y, z).
func (s *Stack) Rotate(angle, x, y, z float32) {
	s.apply(func(c math.Matrix4) math.Matrix4 { return c.Rotate(math.Radians(angle), x, y, z) })
}

func (s *Stack) Ortho(left, right, bottom, top, near, far float32) {
	s.apply(func(c math.Matrix4) math.Matrix4 { return c.Ortho(left, right, bottom, top, near, far) })
}

func (s *Stack) Frustum(left, right, bottom, top, near, far float32) {
	s.apply(func(c math.Matrix4) math.Matrix4 { return c.Frustum(left, right, bottom, top, near, far) })
}

// Push duplicates the top of the current stack.
func (s *Stack) Push() error {
	st := s.current()
	if len(st.m) >= st.maxDepth {
		return fmt.Errorf("%s: %w", s.mode, ErrStackOverflow)
	}
	st.m = append(st.m, *st.top())
	return nil
}

func (s *Stack) Pop() error {
	st := s.current()
	if len(st.m) == 1 {
		return fmt.Errorf("%s: %w", s.mode, ErrStackUnderflow)
	}
	st.m = st.m[:len(st.m)-1]
	s.dirty = true
	return nil
}

// Depth returns the depth of the current stack; it is always at least 1.
func (s *Stack) Depth() int {
	return len(s.current().m)
}

func (s *Stack) Projection() math.Matrix4 { return *s.projection.top() }

func (s *Stack) ModelView() math.Matrix4 { return *s.modelview.top() }

// MVP returns projection * modelview.
func (s *Stack) MVP() math.Matrix4 {
	return s.Projection().PostMultiply(s.ModelView())
}

func (s *Stack) Dirty() bool { return s.dirty }

func (s *Stack) ClearDirty() { s.dirty = false }
