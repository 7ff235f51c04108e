// pkg/capture/capture.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package capture records the GPU commands generated for a sequence of
// frames so that they can be saved, inspected and replayed later.
package capture

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mmp/legacygl/pkg/gpu"
	"github.com/mmp/legacygl/pkg/legacy"
	"github.com/mmp/legacygl/pkg/texture"

	"github.com/brunoga/deep"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Version is incremented whenever the capture format changes
// incompatibly.
const Version = 1

var ErrVersion = errors.New("unsupported capture version")

// Frame holds everything that was submitted to the GPU for a single
// frame.
type Frame struct {
	Index    int
	Commands []uint32
	Uniforms []string
	Patched  map[gpu.Program]gpu.PatchedProgram

	Stats    legacy.Stats
	Renderer gpu.RendererStats
	Textures texture.Snapshot
}

type Capture struct {
	Version int
	Frames  []Frame
}

func New() *Capture {
	return &Capture{Version: Version}
}

// Record adds a frame holding a copy of the current contents of cb; cb
// may be reset and reused afterward.
func (c *Capture) Record(cb *gpu.CommandBuffer, stats legacy.Stats, tex *texture.State) *Frame {
	f := Frame{
		Index:    len(c.Frames),
		Commands: deep.MustCopy(cb.Buf),
		Uniforms: deep.MustCopy(cb.Uniforms),
		Patched:  deep.MustCopy(cb.Patched),
		Stats:    stats,
		Renderer: cb.Stats(),
	}
	if tex != nil {
		f.Textures = tex.Snapshot()
	}
	c.Frames = append(c.Frames, f)
	return &c.Frames[len(c.Frames)-1]
}

// CommandBuffer returns a command buffer holding the frame's commands;
// it does not share storage with the frame.
func (f *Frame) CommandBuffer() *gpu.CommandBuffer {
	return &gpu.CommandBuffer{
		Buf:      deep.MustCopy(f.Commands),
		Uniforms: deep.MustCopy(f.Uniforms),
		Patched:  deep.MustCopy(f.Patched),
	}
}

// Stats returns the sum of the statistics of all of the frames.
func (c *Capture) Stats() (legacy.Stats, gpu.RendererStats) {
	var ls legacy.Stats
	var rs gpu.RendererStats
	for _, f := range c.Frames {
		ls.Merge(f.Stats)
		rs.Merge(f.Renderer)
	}
	return ls, rs
}

// Save writes the capture to w as zstd-compressed msgpack.
func (c *Capture) Save(w io.Writer) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := msgpack.NewEncoder(zw).Encode(c); err != nil {
		zw.Close()
		return fmt.Errorf("failed to encode capture: %w", err)
	}
	return zw.Close()
}

func Load(r io.Reader) (*Capture, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var c Capture
	if err := msgpack.NewDecoder(zr).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode capture: %w", err)
	}
	if c.Version != Version {
		return nil, fmt.Errorf("%d: %w", c.Version, ErrVersion)
	}
	return &c, nil
}

func (c *Capture) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func LoadFile(path string) (*Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
