// pkg/legacy/pipeline.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package legacy

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mmp/legacygl/pkg/gpu"
	"github.com/mmp/legacygl/pkg/log"
)

const defaultProgramCacheSize = 32

type programKey struct {
	base  gpu.Program
	blend gpu.BlendState
}

// programCache holds fragment programs that the backend has patched for
// particular blend states.
type programCache struct {
	backend gpu.Backend
	cache   *lru.Cache[programKey, gpu.Program]
}

func newProgramCache(backend gpu.Backend, size int) (*programCache, error) {
	if size <= 0 {
		size = defaultProgramCacheSize
	}
	cache, err := lru.New[programKey, gpu.Program](size)
	if err != nil {
		return nil, fmt.Errorf("fragment program cache: %w", err)
	}
	return &programCache{backend: backend, cache: cache}, nil
}

// fragment returns the version of base that applies blend. If the
// backend is unable to patch the program, base is returned.
func (pc *programCache) fragment(base gpu.Program, blend gpu.BlendState, lg *log.Logger) gpu.Program {
	key := programKey{base: base, blend: blend}
	if p, ok := pc.cache.Get(key); ok {
		return p
	}

	p, err := pc.backend.PatchFragmentProgram(base, blend)
	if err != nil {
		lg.Error("unable to patch fragment program", slog.String("program", base.String()),
			slog.Any("blend", blend), slog.Any("error", err))
		return base
	}
	pc.cache.Add(key, p)
	return p
}

// PurgePrograms forgets all patched fragment programs; it must be called
// if the backend discards the programs it has returned.
func (c *Context) PurgePrograms() {
	c.programs.cache.Purge()
}
