// pkg/legacy/errors.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package legacy

import (
	"fmt"
	"log/slog"
)

// Error is a GL error code as reported by GetError.
type Error uint32

const (
	NoError          Error = 0
	InvalidEnum      Error = 0x0500
	InvalidValue     Error = 0x0501
	InvalidOperation Error = 0x0502
)

func (e Error) Error() string {
	switch e {
	case NoError:
		return "no error"
	case InvalidEnum:
		return "invalid enum"
	case InvalidValue:
		return "invalid value"
	case InvalidOperation:
		return "invalid operation"
	default:
		return fmt.Sprintf("GL error 0x%04x", uint32(e))
	}
}

// setError records err in the context's error register. The register
// holds the most recent error until GetError is called.
func (c *Context) setError(err Error, op string) {
	c.err = err
	c.stats.Errors++
	c.lg.Debug("GL error", slog.String("op", op), slog.String("error", err.Error()))
}

// GetError returns the most recently recorded error and resets the
// register to NoError.
func (c *Context) GetError() Error {
	err := c.err
	c.err = NoError
	return err
}
