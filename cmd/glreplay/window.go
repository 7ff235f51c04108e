// cmd/glreplay/window.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"

	"github.com/mmp/legacygl/pkg/gpu"
	"github.com/mmp/legacygl/pkg/log"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// window is a hidden GLFW window whose OpenGL 2.1 context is used to
// execute command buffers.
type window struct {
	w        *glfw.Window
	renderer *gpu.OpenGL2Renderer
}

func newWindow(width, height int, lg *log.Logger) (*window, error) {
	lg.Info("Starting GLFW initialization")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}
	lg.Infof("GLFW: %s", glfw.GetVersionString())

	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Visible, 0)

	w, err := glfw.CreateWindow(width, height, "glreplay", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	w.MakeContextCurrent()

	r, err := gpu.NewOpenGL2Renderer(lg)
	if err != nil {
		w.Destroy()
		glfw.Terminate()
		return nil, err
	}
	return &window{w: w, renderer: r}, nil
}

func (w *window) render(cb *gpu.CommandBuffer) gpu.RendererStats {
	rs := w.renderer.RenderCommandBuffer(cb)
	w.w.SwapBuffers()
	glfw.PollEvents()
	return rs
}

func (w *window) close() {
	w.w.Destroy()
	glfw.Terminate()
}
