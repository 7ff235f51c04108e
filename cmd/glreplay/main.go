// cmd/glreplay/main.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// glreplay runs immediate-mode GL scripts through the geometry assembler,
// records the GPU commands they generate, and optionally executes them
// with OpenGL.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/mmp/legacygl/pkg/capture"
	"github.com/mmp/legacygl/pkg/config"
	"github.com/mmp/legacygl/pkg/gpu"
	"github.com/mmp/legacygl/pkg/legacy"
	"github.com/mmp/legacygl/pkg/log"
	"github.com/mmp/legacygl/pkg/script"
	"github.com/mmp/legacygl/pkg/texture"
	"github.com/mmp/legacygl/pkg/transform"
)

var (
	configFile  = flag.String("config", "", "YAML configuration file")
	scriptFile  = flag.String("script", "", "YAML script to run")
	captureFile = flag.String("capture", "", "file to save the commands generated by -script to")
	inspectFile = flag.String("inspect", "", "capture file to summarize")
	dump        = flag.Bool("dump", false, "dump the decoded commands of each frame")
	openWindow  = flag.Bool("window", false, "execute the commands with OpenGL in a hidden window")
	logLevel    = flag.String("loglevel", "", "logging level: debug, info, warn, error (overrides the config file)")
)

func init() {
	// OpenGL calls must all be made from the main thread.
	runtime.LockOSThread()
}

func main() {
	flag.Parse()
	os.Exit(glreplay())
}

// glreplay runs the tool and returns the process exit status.
func glreplay() int {
	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if *inspectFile == "" && *scriptFile == "" {
		flag.Usage()
		return 2
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	lg := log.New(cfg.LogLevel, cfg.LogDir)

	var w *window
	if *openWindow {
		var err error
		if w, err = newWindow(1024, 768, lg); err != nil {
			lg.Errorf("%v", err)
			return 1
		}
		defer w.close()
	}

	var err error
	if *inspectFile != "" {
		err = inspect(*inspectFile, w, lg)
	} else {
		err = run(cfg, *scriptFile, w, lg)
	}
	if err != nil {
		lg.Errorf("%v", err)
		return 1
	}
	return 0
}

func run(cfg config.Config, filename string, w *window, lg *log.Logger) error {
	s, err := script.Load(filename)
	if err != nil {
		return err
	}

	arena := gpu.NewTempArena(cfg.ArenaChunkSize, cfg.ArenaMaxSize)
	cb := gpu.GetCommandBuffer()
	defer gpu.ReturnCommandBuffer(cb)
	tex := texture.New(cfg.TextureUnits)
	xf := transform.New()

	ctx, err := legacy.NewContext(cb, arena, tex, xf, legacy.Options{
		Logger:            lg,
		FragmentCacheSize: cfg.FragmentCacheSize,
		NoPolygons:        cfg.NoPolygons,
	})
	if err != nil {
		return err
	}

	c := capture.New()
	runner := script.NewRunner(s, ctx, xf, lg)
	err = runner.Run(func(i int, name string) error {
		stats := ctx.Stats()
		f := c.Record(cb, stats, tex)
		lg.Info("frame", slog.Int("frame", i), slog.String("name", name), slog.Any("stats", stats),
			slog.Int("arena_peak", arena.Peak()))

		if *dump {
			dumpFrame(os.Stdout, f)
		}
		if w != nil {
			rs := w.render(cb)
			lg.Debug("rendered", slog.Int("frame", i), slog.Any("renderer", rs))
		}

		cb.Reset()
		arena.Reset()
		ctx.ResetStats()
		return nil
	})
	if err != nil {
		return err
	}

	ls, rs := c.Stats()
	lg.Info("finished", slog.String("script", filename), slog.Int("frames", len(c.Frames)),
		slog.Any("stats", ls), slog.Any("renderer", rs))
	fmt.Printf("%d frames: %s\n", len(c.Frames), ls)

	if *captureFile != "" {
		if err := c.SaveFile(*captureFile); err != nil {
			return err
		}
		lg.Infof("%s: saved capture", *captureFile)
	}
	return nil
}

func inspect(filename string, w *window, lg *log.Logger) error {
	c, err := capture.LoadFile(filename)
	if err != nil {
		return err
	}

	for i := range c.Frames {
		f := &c.Frames[i]
		fmt.Printf("frame %d: %s\n", f.Index, summarize(f))
		if *dump {
			dumpFrame(os.Stdout, f)
		}
		if w != nil {
			cb := f.CommandBuffer()
			rs := w.render(cb)
			lg.Debug("rendered", slog.Int("frame", f.Index), slog.Any("renderer", rs))
		}
	}

	ls, rs := c.Stats()
	fmt.Printf("total: %s\n       %s\n", ls, rs.String())
	return nil
}
