// pkg/texture/clientarray.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package texture

import (
	"encoding/binary"
	"fmt"
	gomath "math"
	"unsafe"

	"github.com/mmp/legacygl/pkg/math"
)

// ComponentType gives the type of the components of a client array; the
// values match the GL enumerants.
type ComponentType uint32

const (
	Byte          ComponentType = 0x1400
	UnsignedByte  ComponentType = 0x1401
	Short         ComponentType = 0x1402
	UnsignedShort ComponentType = 0x1403
	Int           ComponentType = 0x1404
	Float         ComponentType = 0x1406
)

// Size returns the number of bytes used by one component, or 0 for
// unknown types.
func (t ComponentType) Size() int {
	switch t {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort:
		return 2
	case Int, Float:
		return 4
	default:
		return 0
	}
}

func (t ComponentType) String() string {
	switch t {
	case Byte:
		return "byte"
	case UnsignedByte:
		return "unsigned-byte"
	case Short:
		return "short"
	case UnsignedShort:
		return "unsigned-short"
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("type-0x%x", uint32(t))
	}
}

// Component is the set of Go types that client arrays can be created from.
type Component interface {
	int8 | uint8 | int16 | uint16 | int32 | float32
}

func componentType[T Component]() ComponentType {
	var v T
	switch any(v).(type) {
	case int8:
		return Byte
	case uint8:
		return UnsignedByte
	case int16:
		return Short
	case uint16:
		return UnsignedShort
	case int32:
		return Int
	default:
		return Float
	}
}

// ClientArray describes a caller-owned, possibly strided, array of
// per-vertex attributes, a la glVertexPointer and friends.
type ClientArray struct {
	Enabled    bool
	Components int
	Type       ComponentType
	// Stride is the byte distance between consecutive elements; zero
	// means the elements are tightly packed.
	Stride int

	base unsafe.Pointer
	// length is the size of the memory at base in bytes, or -1 if it
	// isn't known.
	length int
}

// SetPointer specifies the array from a raw pointer, as the GL pointer
// functions do. The length of the memory is unknown, so reads are not
// bounds checked; the caller guarantees that every index it fetches is
// valid.
func (a *ClientArray) SetPointer(components int, typ ComponentType, stride int, ptr unsafe.Pointer) {
	a.Components, a.Type, a.Stride = components, typ, stride
	a.base, a.length = ptr, -1
}

// SetSlice specifies the array from a Go slice; reads past its end are
// rejected.
func SetSlice[T Component](a *ClientArray, components int, stride int, data []T) {
	a.Components, a.Type, a.Stride = components, componentType[T](), stride
	if len(data) == 0 {
		a.base, a.length = nil, 0
		return
	}
	var v T
	a.base = unsafe.Pointer(&data[0])
	a.length = len(data) * int(unsafe.Sizeof(v))
}

// SetBytes specifies the array from raw bytes holding components of the
// given type.
func (a *ClientArray) SetBytes(components int, typ ComponentType, stride int, data []byte) {
	a.Components, a.Type, a.Stride = components, typ, stride
	if len(data) == 0 {
		a.base, a.length = nil, 0
		return
	}
	a.base, a.length = unsafe.Pointer(&data[0]), len(data)
}

// ElementSize returns the number of bytes in a single element.
func (a *ClientArray) ElementSize() int {
	return a.Components * a.Type.Size()
}

// Offset returns the byte offset of the i'th element from the start of
// the array.
func (a *ClientArray) Offset(i int) int {
	if a.Stride != 0 {
		return i * a.Stride
	}
	return i * a.ElementSize()
}

// Element returns the bytes of the i'th element. It returns false if the
// array has no memory, the index or stride is negative, or the element
// lies past the end of an array with known length.
//
// This is the only place where client memory is accessed through raw
// pointer arithmetic.
func (a *ClientArray) Element(i int) ([]byte, bool) {
	sz := a.ElementSize()
	if a.base == nil || i < 0 || a.Stride < 0 || sz <= 0 {
		return nil, false
	}
	if a.length >= 0 {
		// i*step may overflow, so bound the index instead.
		step := a.Stride
		if step == 0 {
			step = sz
		}
		if sz > a.length || i > (a.length-sz)/step {
			return nil, false
		}
	}
	return unsafe.Slice((*byte)(unsafe.Add(a.base, a.Offset(i))), sz), true
}

// Read decodes the i'th element into dst, converting each component to
// float32; if normalize is set, integer components are mapped to [0,1]
// (unsigned) or [-1,1] (signed). It returns the number of components
// written, which is at most len(dst).
func (a *ClientArray) Read(i int, dst []float32, normalize bool) int {
	b, ok := a.Element(i)
	if !ok {
		return 0
	}

	ne := binary.NativeEndian
	n := min(a.Components, len(dst))
	for c := 0; c < n; c++ {
		switch a.Type {
		case Float:
			dst[c] = gomath.Float32frombits(ne.Uint32(b[4*c:]))
		case UnsignedByte:
			if normalize {
				dst[c] = math.Normalize8(b[c])
			} else {
				dst[c] = float32(b[c])
			}
		case Byte:
			v := float32(int8(b[c]))
			if normalize {
				v = math.Clamp(v/127, -1, 1)
			}
			dst[c] = v
		case UnsignedShort:
			v := float32(ne.Uint16(b[2*c:]))
			if normalize {
				v /= 65535
			}
			dst[c] = v
		case Short:
			v := float32(int16(ne.Uint16(b[2*c:])))
			if normalize {
				v = math.Clamp(v/32767, -1, 1)
			}
			dst[c] = v
		case Int:
			dst[c] = float32(int32(ne.Uint32(b[4*c:])))
		}
	}
	return n
}
