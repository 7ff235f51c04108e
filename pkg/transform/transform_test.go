// pkg/transform/transform_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package transform

import (
	"errors"
	"testing"

	"github.com/mmp/legacygl/pkg/math"
)

func TestNew(t *testing.T) {
	s := New()
	if s.Mode() != ModelView {
		t.Errorf("Mode() = %s, want modelview", s.Mode())
	}
	if !s.Dirty() {
		t.Errorf("new stack is not dirty")
	}
	if s.MVP() != math.Identity4x4() {
		t.Errorf("MVP() = %v, want identity", s.MVP())
	}
}

func TestModeSelection(t *testing.T) {
	s := New()
	if err := s.MatrixMode(0x1702); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("MatrixMode(texture) err = %v", err)
	}
	if s.Mode() != ModelView {
		t.Errorf("invalid mode changed the selection to %s", s.Mode())
	}

	if err := s.MatrixMode(Projection); err != nil {
		t.Fatal(err)
	}
	s.Ortho(0, 2, 0, 2, -1, 1)
	if s.ModelView() != math.Identity4x4() {
		t.Errorf("projection operation modified the modelview matrix")
	}
	if p := s.Projection(); p.At(0, 0) != 1 || p.At(0, 3) != -1 {
		t.Errorf("Projection() = %v", p)
	}
}

func TestDirty(t *testing.T) {
	s := New()
	s.ClearDirty()

	ops := []struct {
		name string
		f    func()
	}{
		{"LoadIdentity", s.LoadIdentity},
		{"Translate", func() { s.Translate(1, 2, 3) }},
		{"Scale", func() { s.Scale(2, 2, 2) }},
		{"Rotate", func() { s.Rotate(90, 0, 0, 1) }},
		{"LoadMatrix", func() { s.LoadMatrix(math.Identity4x4()) }},
		{"MultMatrix", func() { s.MultMatrix(math.Identity4x4()) }},
		{"Frustum", func() { s.Frustum(-1, 1, -1, 1, 1, 10) }},
	}
	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			s.ClearDirty()
			op.f()
			if !s.Dirty() {
				t.Errorf("%s did not mark the stack dirty", op.name)
			}
		})
	}

	s.ClearDirty()
	s.Push()
	if s.Dirty() {
		t.Errorf("Push marked the stack dirty")
	}
	s.Pop()
	if !s.Dirty() {
		t.Errorf("Pop did not mark the stack dirty")
	}
}

func TestPushPop(t *testing.T) {
	s := New()
	s.Translate(1, 0, 0)
	if err := s.Push(); err != nil {
		t.Fatal(err)
	}
	s.Translate(0, 5, 0)
	if p := s.ModelView().TransformPoint([3]float32{}); p != [3]float32{1, 5, 0} {
		t.Errorf("pushed transform gives %v, want [1 5 0]", p)
	}
	if err := s.Pop(); err != nil {
		t.Fatal(err)
	}
	if p := s.ModelView().TransformPoint([3]float32{}); p != [3]float32{1, 0, 0} {
		t.Errorf("popped transform gives %v, want [1 0 0]", p)
	}
	if err := s.Pop(); !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("Pop at depth 1 err = %v", err)
	}

	s.MatrixMode(Projection)
	for i := 1; i < MaxProjectionDepth; i++ {
		if err := s.Push(); err != nil {
			t.Fatalf("Push %d: %v", i, err)
		}
	}
	if err := s.Push(); !errors.Is(err, ErrStackOverflow) {
		t.Errorf("Push past max depth err = %v", err)
	}
	if s.Depth() != MaxProjectionDepth {
		t.Errorf("Depth() = %d, want %d", s.Depth(), MaxProjectionDepth)
	}
}

func TestMVP(t *testing.T) {
	s := New()
	s.MatrixMode(Projection)
	s.Scale(2, 2, 2)
	s.MatrixMode(ModelView)
	s.Translate(1, 1, 0)

	// Projection is applied after modelview.
	if p := s.MVP().TransformPoint([3]float32{1, 0, 0}); p != [3]float32{4, 2, 0} {
		t.Errorf("MVP point = %v, want [4 2 0]", p)
	}
}
