// pkg/legacy/stats.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package legacy

import (
	"fmt"
	"log/slog"
)

// Stats records what a Context has done since its statistics were last
// reset.
type Stats struct {
	Brackets int
	// Skipped brackets had a vertex count that wasn't a multiple of their
	// primitive's size; Culled ones were filled primitives discarded
	// because polygon drawing was disabled.
	Skipped int
	Culled  int

	Draws         int
	TexturedDraws int
	Vertices      int
	Indices       int

	ArenaBytes         int
	AllocFailures      int
	TexCoordMismatches int
	Errors             int
}

func (s Stats) String() string {
	return fmt.Sprintf("brackets %d (skipped %d culled %d) draws %d (textured %d) vertices %d indices %d arena %d bytes",
		s.Brackets, s.Skipped, s.Culled, s.Draws, s.TexturedDraws, s.Vertices, s.Indices, s.ArenaBytes)
}

func (s *Stats) Merge(o Stats) {
	s.Brackets += o.Brackets
	s.Skipped += o.Skipped
	s.Culled += o.Culled
	s.Draws += o.Draws
	s.TexturedDraws += o.TexturedDraws
	s.Vertices += o.Vertices
	s.Indices += o.Indices
	s.ArenaBytes += o.ArenaBytes
	s.AllocFailures += o.AllocFailures
	s.TexCoordMismatches += o.TexCoordMismatches
	s.Errors += o.Errors
}

func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("brackets", s.Brackets),
		slog.Int("skipped", s.Skipped),
		slog.Int("culled", s.Culled),
		slog.Int("draws", s.Draws),
		slog.Int("textured_draws", s.TexturedDraws),
		slog.Int("vertices", s.Vertices),
		slog.Int("indices", s.Indices),
		slog.Int("arena_bytes", s.ArenaBytes),
		slog.Int("alloc_failures", s.AllocFailures),
		slog.Int("texcoord_mismatches", s.TexCoordMismatches),
		slog.Int("errors", s.Errors))
}
