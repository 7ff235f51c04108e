// pkg/config/config.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package config loads the settings for tools that drive the
// immediate-mode context from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mmp/legacygl/pkg/log"
	"github.com/mmp/legacygl/pkg/util"

	"gopkg.in/yaml.v3"
)

const maxConfigSize = 1024 * 1024

type Config struct {
	LogLevel string `yaml:"log_level"`
	LogDir   string `yaml:"log_dir"`

	TextureUnits int `yaml:"texture_units"`

	// Sizes of the per-frame temporary arena, in bytes. A zero maximum
	// means the arena grows without limit.
	ArenaChunkSize int `yaml:"arena_chunk_size"`
	ArenaMaxSize   int `yaml:"arena_max_size"`

	FragmentCacheSize int  `yaml:"fragment_cache_size"`
	NoPolygons        bool `yaml:"no_polygons"`
}

func Default() Config {
	return Config{
		LogLevel:          "info",
		TextureUnits:      4,
		ArenaChunkSize:    1 << 20,
		FragmentCacheSize: 32,
	}
}

// Load reads the configuration at path. Settings that the file doesn't
// specify keep their default values.
func Load(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, err
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("%s: config file too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML configuration; unknown keys are
// reported as errors.
func Parse(data []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var e util.ErrorLogger
	e.Push("config")
	defer e.Pop()

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		e.Error(err)
	}
	if c.TextureUnits < 1 || c.TextureUnits > 32 {
		e.ErrorString("texture_units: %d: must be between 1 and 32", c.TextureUnits)
	}
	if c.ArenaChunkSize < 0 {
		e.ErrorString("arena_chunk_size: %d: must not be negative", c.ArenaChunkSize)
	}
	if c.ArenaMaxSize < 0 {
		e.ErrorString("arena_max_size: %d: must not be negative", c.ArenaMaxSize)
	} else if c.ArenaMaxSize > 0 && c.ArenaMaxSize < c.ArenaChunkSize {
		e.ErrorString("arena_max_size: %d: smaller than arena_chunk_size %d", c.ArenaMaxSize, c.ArenaChunkSize)
	}
	if c.FragmentCacheSize < 0 {
		e.ErrorString("fragment_cache_size: %d: must not be negative", c.FragmentCacheSize)
	}

	return e.Err()
}
