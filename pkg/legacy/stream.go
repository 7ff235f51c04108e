// pkg/legacy/stream.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package legacy

// maxRetainedVertices bounds the capacity that a stream keeps between
// brackets; a single very large bracket shouldn't pin its memory forever.
const maxRetainedVertices = 1 << 16

// stream accumulates the vertices of the current bracket. positions and
// colors always have the same length; texcoords is filled independently
// by the TexCoord calls and by ArrayElement.
type stream struct {
	positions [][3]float32
	colors    []RGBA
	texcoords [][2]float32
}

func (s *stream) addVertex(p [3]float32, c RGBA) {
	s.positions = append(s.positions, p)
	s.colors = append(s.colors, c)
}

func (s *stream) addTexCoord(st [2]float32) {
	s.texcoords = append(s.texcoords, st)
}

func (s *stream) len() int {
	return len(s.positions)
}

// reset empties the stream, keeping its storage for the next bracket
// unless it has grown unusually large.
func (s *stream) reset() {
	if cap(s.positions) > maxRetainedVertices {
		s.positions, s.colors = nil, nil
	} else {
		s.positions, s.colors = s.positions[:0], s.colors[:0]
	}
	if cap(s.texcoords) > maxRetainedVertices {
		s.texcoords = nil
	} else {
		s.texcoords = s.texcoords[:0]
	}
}
