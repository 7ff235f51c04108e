// pkg/gpu/arena.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpu

import (
	"errors"
	"unsafe"
)

var ErrArenaExhausted = errors.New("temporary GPU memory arena exhausted")

const arenaAlignment = 8

// TempArena is a bump allocator for GPU-visible memory that only needs to
// live until the end of the current frame. Its owner calls Reset at each
// frame boundary; after that, previously returned buffers must no longer
// be used.
//
// Memory is held in chunks so that growing the arena never moves buffers
// that were already handed out during the frame.
type TempArena struct {
	chunkSize int
	maxSize   int

	chunks [][]uint64
	cur    int // index of the chunk currently being allocated from
	offset int // byte offset into chunks[cur]
	used   int
	peak   int
	frame  uint64
}

// NewTempArena returns an arena that allocates chunkSize-byte chunks as
// needed. If maxSize is positive, allocations that would take the total
// past it fail with ErrArenaExhausted.
func NewTempArena(chunkSize, maxSize int) *TempArena {
	if chunkSize <= 0 {
		chunkSize = 1 << 20
	}
	chunkSize = (chunkSize + arenaAlignment - 1) &^ (arenaAlignment - 1)
	return &TempArena{chunkSize: chunkSize, maxSize: maxSize}
}

// Alloc returns n bytes of 8-byte aligned memory. The contents are
// unspecified; callers that need zeroed memory must clear it.
func (a *TempArena) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.New("negative allocation size")
	} else if n == 0 {
		return []byte{}, nil
	}
	sz := (n + arenaAlignment - 1) &^ (arenaAlignment - 1)
	if a.maxSize > 0 && a.used+sz > a.maxSize {
		return nil, ErrArenaExhausted
	}

	for {
		if a.cur < len(a.chunks) {
			chunk := a.chunks[a.cur]
			if a.offset+sz <= 8*len(chunk) {
				ptr := unsafe.Add(unsafe.Pointer(&chunk[0]), a.offset)
				a.offset += sz
				a.used += sz
				a.peak = max(a.peak, a.used)
				return unsafe.Slice((*byte)(ptr), sz)[:n:n], nil
			}
			if a.offset == 0 && 8*len(chunk) < sz {
				// A chunk left over from an earlier frame that is too
				// small for this request; replace it.
				a.chunks[a.cur] = make([]uint64, max(a.chunkSize, sz)/8)
				continue
			}
			a.cur++
			a.offset = 0
			continue
		}
		a.chunks = append(a.chunks, make([]uint64, max(a.chunkSize, sz)/8))
	}
}

// Reset releases all allocations, retaining the chunks for reuse.
func (a *TempArena) Reset() {
	a.cur, a.offset, a.used = 0, 0, 0
	a.frame++
}

// Used returns the number of bytes allocated since the last Reset.
func (a *TempArena) Used() int { return a.used }

// Peak returns the largest value Used has reached.
func (a *TempArena) Peak() int { return a.peak }

// Capacity returns the total size of the chunks held by the arena.
func (a *TempArena) Capacity() int {
	c := 0
	for _, ch := range a.chunks {
		c += 8 * len(ch)
	}
	return c
}

// Frame returns the number of times Reset has been called.
func (a *TempArena) Frame() uint64 { return a.frame }
