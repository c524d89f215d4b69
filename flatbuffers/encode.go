package flatbuffers

import (
	"encoding/binary"
	"math"
)

// Every multi-byte integer on the wire is little-endian, independent of
// host byte order — these helpers are the only place that fact is encoded.

func GetBool(b []byte) bool { return b[0] != 0 }

func WriteBool(b []byte, v bool) {
	if v {
		b[0] = 1
	} else {
		b[0] = 0
	}
}

func GetByte(b []byte) byte  { return b[0] }
func WriteByte(b []byte, v byte) { b[0] = v }

func GetUint8(b []byte) uint8  { return b[0] }
func WriteUint8(b []byte, v uint8) { b[0] = v }

func GetInt8(b []byte) int8  { return int8(b[0]) }
func WriteInt8(b []byte, v int8) { b[0] = byte(v) }

func GetUint16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func WriteUint16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }

func GetInt16(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) }
func WriteInt16(b []byte, v int16) { binary.LittleEndian.PutUint16(b, uint16(v)) }

func GetUint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func WriteUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

func GetInt32(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) }
func WriteInt32(b []byte, v int32) { binary.LittleEndian.PutUint32(b, uint32(v)) }

func GetUint64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
func WriteUint64(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }

func GetInt64(b []byte) int64 { return int64(binary.LittleEndian.Uint64(b)) }
func WriteInt64(b []byte, v int64) { binary.LittleEndian.PutUint64(b, uint64(v)) }

func GetFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
func WriteFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

func GetFloat64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}
func WriteFloat64(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}

// GetUOffsetT/WriteUOffsetT, GetSOffsetT/WriteSOffsetT and
// GetVOffsetT/WriteVOffsetT handle the three offset widths used throughout
// the vtable, table, and envelope layouts.

func GetUOffsetT(b []byte) UOffsetT { return UOffsetT(GetUint32(b)) }
func WriteUOffsetT(b []byte, v UOffsetT) { WriteUint32(b, uint32(v)) }

func GetSOffsetT(b []byte) SOffsetT { return SOffsetT(GetInt32(b)) }
func WriteSOffsetT(b []byte, v SOffsetT) { WriteInt32(b, int32(v)) }

func GetVOffsetT(b []byte) VOffsetT { return VOffsetT(GetUint16(b)) }
func WriteVOffsetT(b []byte, v VOffsetT) { WriteUint16(b, uint16(v)) }

// EncodeScalar writes v (one of the built-in scalar Go types) to dst in its
// natural width, little-endian. dst must have at least ScalarKind.Size()
// bytes available.
func EncodeScalar(dst []byte, v interface{}) {
	switch x := v.(type) {
	case bool:
		WriteBool(dst, x)
	case int8:
		WriteInt8(dst, x)
	case uint8:
		WriteUint8(dst, x)
	case int16:
		WriteInt16(dst, x)
	case uint16:
		WriteUint16(dst, x)
	case int32:
		WriteInt32(dst, x)
	case uint32:
		WriteUint32(dst, x)
	case int64:
		WriteInt64(dst, x)
	case uint64:
		WriteUint64(dst, x)
	case float32:
		WriteFloat32(dst, x)
	case float64:
		WriteFloat64(dst, x)
	default:
		panic("flatbuffers: EncodeScalar: not a scalar type")
	}
}

// DecodeScalar reads a value of kind k from src, little-endian, returning it
// boxed as the matching Go type.
func DecodeScalar(k ScalarKind, src []byte) interface{} {
	switch k {
	case KindBool:
		return GetBool(src)
	case KindInt8:
		return GetInt8(src)
	case KindUint8:
		return GetUint8(src)
	case KindInt16:
		return GetInt16(src)
	case KindUint16:
		return GetUint16(src)
	case KindInt32:
		return GetInt32(src)
	case KindUint32:
		return GetUint32(src)
	case KindInt64:
		return GetInt64(src)
	case KindUint64:
		return GetUint64(src)
	case KindFloat32:
		return GetFloat32(src)
	case KindFloat64:
		return GetFloat64(src)
	default:
		panic("flatbuffers: DecodeScalar: unknown scalar kind")
	}
}
