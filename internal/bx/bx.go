// Package bx provides fixed little-endian encode/decode helpers for the
// on-disk layouts (catalog, record slots) that must be stable across
// platforms regardless of host endianness.
package bx

import (
	"encoding/binary"
	"math"
)

var le = binary.LittleEndian

func U32(b []byte) uint32       { return le.Uint32(b) }
func PutU32(b []byte, v uint32) { le.PutUint32(b, v) }
func I32(b []byte) int32        { return int32(le.Uint32(b)) }
func PutI32(b []byte, v int32)  { le.PutUint32(b, uint32(v)) }

func F32(b []byte) float32       { return math.Float32frombits(le.Uint32(b)) }
func PutF32(b []byte, v float32) { le.PutUint32(b, math.Float32bits(v)) }
