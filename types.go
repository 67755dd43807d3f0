package sktable

import "encoding/binary"

// TypeDescriptor describes a primitive integer type stored in a record.
type TypeDescriptor struct {
	Name    string
	Width   int  // stored width in bytes, 1..4
	Format  byte // native format code
	Padding int  // zero bytes appended to reach the native width
	Signed  bool
}

// NativeWidth returns the width after padding.
func (t TypeDescriptor) NativeWidth() int { return t.Width + t.Padding }

var typeRegistry = map[string]TypeDescriptor{
	"int8":   {Name: "int8", Width: 1, Format: 'b', Signed: true},
	"uint8":  {Name: "uint8", Width: 1, Format: 'B'},
	"int16":  {Name: "int16", Width: 2, Format: 'h', Signed: true},
	"uint16": {Name: "uint16", Width: 2, Format: 'H'},
	"int24":  {Name: "int24", Width: 3, Format: 'i', Padding: 1, Signed: true},
	"uint24": {Name: "uint24", Width: 3, Format: 'I', Padding: 1},
	"int32":  {Name: "int32", Width: 4, Format: 'i', Signed: true},
	"uint32": {Name: "uint32", Width: 4, Format: 'I'},
}

// LookupType returns the descriptor of a named type.
func LookupType(name string) (TypeDescriptor, bool) {
	t, ok := typeRegistry[name]
	return t, ok
}

// formatWidth returns the native width of a format code.
func formatWidth(code byte) int {
	switch code {
	case 'b', 'B':
		return 1
	case 'h', 'H':
		return 2
	case 'i', 'I':
		return 4
	}
	return 0
}

// decodeNative decodes a single little-endian native value.
func decodeNative(code byte, p []byte) int64 {
	switch code {
	case 'b':
		return int64(int8(p[0]))
	case 'B':
		return int64(p[0])
	case 'h':
		return int64(int16(binary.LittleEndian.Uint16(p)))
	case 'H':
		return int64(binary.LittleEndian.Uint16(p))
	case 'i':
		return int64(int32(binary.LittleEndian.Uint32(p)))
	case 'I':
		return int64(binary.LittleEndian.Uint32(p))
	}
	return 0
}
