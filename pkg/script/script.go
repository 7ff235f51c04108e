// pkg/script/script.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package script runs sequences of GL calls described in YAML against a
// legacy.Context. A script provides client arrays and textures and a
// list of frames, each of which is a list of calls:
//
//	arrays:
//	  quad: {type: float, data: [0, 0, 1, 0, 1, 1, 0, 1]}
//	textures: [17]
//	frames:
//	  - name: flat quad
//	    calls:
//	      - [Color3f, 1, 0, 0]
//	      - [Begin, quads]
//	      - [Vertex2f, 0, 0]
//	      - ...
//	      - [End]
//	      - [ExpectError, no_error]
package script

import (
	"bytes"
	"fmt"
	"os"

	"github.com/mmp/legacygl/pkg/util"

	"gopkg.in/yaml.v3"
)

type Script struct {
	Arrays map[string]Array `yaml:"arrays"`
	// Textures gives the GPU handles of the textures that the script
	// uses; BindTexture's argument is an index into it, starting at 1,
	// with 0 being the default texture.
	Textures []uint32 `yaml:"textures"`
	Frames   []Frame  `yaml:"frames"`
}

// Array is client array data; Type is the component type, one of the
// keys of componentTypes.
type Array struct {
	Type string    `yaml:"type"`
	Data []float64 `yaml:"data"`
}

type Frame struct {
	Name  string `yaml:"name"`
	Calls []Call `yaml:"calls"`
}

// Call is a function name followed by its arguments.
type Call []any

func (c Call) Name() string {
	if len(c) == 0 {
		return ""
	}
	s, _ := c[0].(string)
	return s
}

func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every call names a known function with the right
// number of arguments and that referenced arrays exist.
func (s *Script) Validate() error {
	var e util.ErrorLogger

	for _, name := range util.SortedMapKeys(s.Arrays) {
		e.Push("array " + name)
		if _, ok := componentTypes[s.Arrays[name].Type]; !ok {
			e.ErrorString("%q: unknown component type", s.Arrays[name].Type)
		}
		e.Pop()
	}

	for i, f := range s.Frames {
		e.Push(fmt.Sprintf("frame %d (%s)", i, f.Name))
		for j, call := range f.Calls {
			e.Push(fmt.Sprintf("call %d", j))
			s.validateCall(call, &e)
			e.Pop()
		}
		e.Pop()
	}

	return e.Err()
}

func (s *Script) validateCall(call Call, e *util.ErrorLogger) {
	fn, ok := functions[call.Name()]
	if !ok {
		e.ErrorString("%v: unknown function", call)
		return
	}
	if n := len(call) - 1; n != len(fn.args) {
		e.ErrorString("%s: expected %d arguments, got %d", call.Name(), len(fn.args), n)
		return
	}
	for i, kind := range fn.args {
		if err := checkArg(s, kind, call[i+1]); err != nil {
			e.ErrorString("%s: argument %d: %v", call.Name(), i+1, err)
		}
	}
}
