// pkg/log/stack.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

const (
	modulePrefix  = "github.com/mmp/legacygl/pkg/"
	thisPackage   = modulePrefix + "log."
	maxStackDepth = 12
)

type StackFrame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

func (f StackFrame) String() string {
	return f.File + ":" + strconv.Itoa(f.Line) + ":" + f.Function
}

// Stack is a call stack, innermost frame first.
type Stack []StackFrame

// Callstack returns the call stack starting at the function that called
// into the logger. It stops at main.main, at the first runtime frame, or
// after maxStackDepth frames.
func Callstack() Stack {
	var pcs [maxStackDepth + 8]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var s Stack
	for {
		frame, more := frames.Next()
		fn := frame.Function
		if strings.HasPrefix(fn, thisPackage+"(*Logger).") || fn == thisPackage+"Callstack" {
			if !more {
				break
			}
			continue
		}
		if strings.HasPrefix(fn, "runtime.") {
			break
		}

		short := strings.TrimPrefix(strings.TrimPrefix(fn, modulePrefix), "main.")
		s = append(s, StackFrame{File: filepath.Base(frame.File), Line: frame.Line, Function: short})

		if !more || fn == "main.main" || len(s) == maxStackDepth {
			break
		}
	}
	return s
}

func (s Stack) LogValue() slog.Value {
	f := make([]string, len(s))
	for i, fr := range s {
		f[i] = fr.String()
	}
	return slog.AnyValue(f)
}
