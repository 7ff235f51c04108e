// pkg/gpu/stats.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpu

import (
	"fmt"
	"log/slog"
)

// RendererStats encapsulates assorted statistics from rendering.
type RendererStats struct {
	Buffers, BufferBytes     int
	DrawCalls                int
	Points, Lines, Triangles int
	Indices                  int
}

func (rs *RendererStats) add(cmd Command) {
	if cmd.Op != CommandDraw {
		return
	}
	rs.DrawCalls++
	rs.Indices += cmd.Count
	switch cmd.Primitive {
	case PrimitivePoints:
		rs.Points += cmd.Count
	case PrimitiveLines:
		rs.Lines += cmd.Count / 2
	case PrimitiveTriangles:
		rs.Triangles += cmd.Count / 3
	case PrimitiveTriangleStrip, PrimitiveTriangleFan:
		rs.Triangles += max(cmd.Count-2, 0)
	}
}

func (rs *RendererStats) String() string {
	return fmt.Sprintf("%d buffers (%.2f MB), %d draw calls: %d points, %d lines, %d tris",
		rs.Buffers, float32(rs.BufferBytes)/(1024*1024), rs.DrawCalls, rs.Points, rs.Lines, rs.Triangles)
}

func (rs *RendererStats) Merge(s RendererStats) {
	rs.Buffers += s.Buffers
	rs.BufferBytes += s.BufferBytes
	rs.DrawCalls += s.DrawCalls
	rs.Points += s.Points
	rs.Lines += s.Lines
	rs.Triangles += s.Triangles
	rs.Indices += s.Indices
}

func (rs RendererStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("buffers", rs.Buffers),
		slog.Int("buffer_memory", rs.BufferBytes),
		slog.Int("draw_calls", rs.DrawCalls),
		slog.Int("points_drawn", rs.Points),
		slog.Int("lines", rs.Lines),
		slog.Int("tris", rs.Triangles),
		slog.Int("indices", rs.Indices),
	)
}
