// pkg/texture/texture.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package texture holds the texture-unit state that immediate-mode
// drawing consults: which units are enabled and what they are bound to,
// per-unit texture environment settings, and the client arrays that
// ArrayElement reads from.
package texture

import (
	"errors"
	"fmt"
)

// EnvMode is the texture environment mode; values match GL.
type EnvMode uint32

const (
	Modulate EnvMode = 0x2100
	Decal    EnvMode = 0x2101
	Blend    EnvMode = 0x0BE2
	Replace  EnvMode = 0x1E01
	Add      EnvMode = 0x0104
)

func (m EnvMode) Valid() bool {
	switch m {
	case Modulate, Decal, Blend, Replace, Add:
		return true
	default:
		return false
	}
}

// AlphaFunc is the alpha test comparison; values match GL, with zero
// meaning that alpha testing is disabled.
type AlphaFunc uint32

const (
	AlphaDisabled AlphaFunc = 0
	AlphaNever    AlphaFunc = 0x0200
	AlphaLess     AlphaFunc = 0x0201
	AlphaEqual    AlphaFunc = 0x0202
	AlphaLEqual   AlphaFunc = 0x0203
	AlphaGreater  AlphaFunc = 0x0204
	AlphaNotEqual AlphaFunc = 0x0205
	AlphaGEqual   AlphaFunc = 0x0206
	AlphaAlways   AlphaFunc = 0x0207
)

var (
	ErrInvalidUnit = errors.New("invalid texture unit")
	ErrInvalidSlot = errors.New("invalid texture slot")
)

// Slot is a texture name as seen by GL code; Handle is the id of the
// texture on the GPU.
type Slot struct {
	Valid  bool
	Handle uint32
}

// Unit is a single texture unit.
type Unit struct {
	Enabled bool
	// Bound is the index of the bound slot.
	Bound    int
	Env      EnvMode
	EnvColor [4]float32

	VertexArray   ClientArray
	ColorArray    ClientArray
	TexCoordArray ClientArray
}

// State is the collection of texture units and slots.
type State struct {
	Units []Unit
	Slots []Slot

	// ServerUnit is the unit selected by glActiveTexture; ClientUnit is the
	// one selected by glClientActiveTexture and owns the client arrays.
	ServerUnit int
	ClientUnit int

	AlphaFunc AlphaFunc
	AlphaRef  float32
}

// New returns a State with n units, all disabled, with the modulate
// texture environment and slot 0 (the default texture) reserved.
func New(n int) *State {
	s := &State{
		Units: make([]Unit, n),
		Slots: make([]Slot, 1),
	}
	for i := range s.Units {
		s.Units[i].Env = Modulate
	}
	return s
}

func (s *State) unit(i int) (*Unit, error) {
	if i < 0 || i >= len(s.Units) {
		return nil, fmt.Errorf("%d: %w", i, ErrInvalidUnit)
	}
	return &s.Units[i], nil
}

// Server returns the active server texture unit, or nil if none is.
func (s *State) Server() *Unit {
	u, _ := s.unit(s.ServerUnit)
	return u
}

// Client returns the active client texture unit, or nil if none is.
func (s *State) Client() *Unit {
	u, _ := s.unit(s.ClientUnit)
	return u
}

func (s *State) SetActive(i int) error {
	if _, err := s.unit(i); err != nil {
		return err
	}
	s.ServerUnit = i
	return nil
}

func (s *State) SetClientActive(i int) error {
	if _, err := s.unit(i); err != nil {
		return err
	}
	s.ClientUnit = i
	return nil
}

// CreateSlot registers a texture that has been uploaded to the GPU with
// the given handle and returns its slot index.
func (s *State) CreateSlot(handle uint32) int {
	s.Slots = append(s.Slots, Slot{Valid: true, Handle: handle})
	return len(s.Slots) - 1
}

// DeleteSlot invalidates a slot; units that are bound to it stop being
// textured.
func (s *State) DeleteSlot(i int) error {
	if i <= 0 || i >= len(s.Slots) {
		return fmt.Errorf("%d: %w", i, ErrInvalidSlot)
	}
	s.Slots[i] = Slot{}
	return nil
}

// Bind binds slot to the active server unit.
func (s *State) Bind(slot int) error {
	u := s.Server()
	if u == nil {
		return fmt.Errorf("%d: %w", s.ServerUnit, ErrInvalidUnit)
	}
	if slot < 0 || slot >= len(s.Slots) {
		return fmt.Errorf("%d: %w", slot, ErrInvalidSlot)
	}
	u.Bound = slot
	return nil
}

// Resident returns the active server unit and the slot it is bound to if
// that unit is enabled and bound to a valid texture.
func (s *State) Resident() (*Unit, Slot, bool) {
	u := s.Server()
	if u == nil || !u.Enabled || u.Bound < 0 || u.Bound >= len(s.Slots) {
		return nil, Slot{}, false
	}
	slot := s.Slots[u.Bound]
	return u, slot, slot.Valid
}

// Snapshot is a plain copy of the texturing state without the client
// arrays, which refer to caller memory.
type Snapshot struct {
	Units []UnitSnapshot
	Slots []Slot

	ServerUnit, ClientUnit int
	AlphaFunc              AlphaFunc
	AlphaRef               float32
}

type UnitSnapshot struct {
	Enabled  bool
	Bound    int
	Env      EnvMode
	EnvColor [4]float32

	VertexArray, ColorArray, TexCoordArray bool
}

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Slots:      append([]Slot(nil), s.Slots...),
		ServerUnit: s.ServerUnit,
		ClientUnit: s.ClientUnit,
		AlphaFunc:  s.AlphaFunc,
		AlphaRef:   s.AlphaRef,
	}
	for _, u := range s.Units {
		snap.Units = append(snap.Units, UnitSnapshot{
			Enabled:       u.Enabled,
			Bound:         u.Bound,
			Env:           u.Env,
			EnvColor:      u.EnvColor,
			VertexArray:   u.VertexArray.Enabled,
			ColorArray:    u.ColorArray.Enabled,
			TexCoordArray: u.TexCoordArray.Enabled,
		})
	}
	return snap
}
