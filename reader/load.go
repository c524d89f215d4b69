// Package reader implements the tolerant reader. Load walks a saved buffer
// driven by the wire vtable rather than any in-memory vtable.VTable — a
// foreign buffer's vtable may declare more or fewer fields than the host
// type currently does, which is exactly what forward/backward compatibility
// requires.
//
// Every bounds violation (a truncated buffer, an offset or length that
// would read past buf's end) is reported as ferr.Truncated. Field decoding
// happens through a chain of small unexported visitors, each one several
// calls deep into buf; rather than thread an error return through every
// traits.Visitor method (the interface has none to give), an out-of-bounds
// access panics with the unexported boundsError sentinel and Load recovers
// it at the top, converting it back into a normal error return — the same
// shape encoding/gob uses for its decode path.
package reader

import (
	"fmt"

	"github.com/nsfard/foundationdb/envelope"
	fb "github.com/nsfard/foundationdb/flatbuffers"
	"github.com/nsfard/foundationdb/ferr"
	"github.com/nsfard/foundationdb/traits"
)

type boundsError struct{ msg string }

func fail(format string, args ...interface{}) {
	panic(boundsError{msg: fmt.Sprintf(format, args...)})
}

// failKind panics with a fully-formed *ferr.Error of a specific kind, for
// the one read-path failure that isn't a bounds violation: a union tag
// that exceeds its declared alternative count (ferr.BadUnionTag).
func failKind(k ferr.Kind, format string, args ...interface{}) {
	panic(ferr.New(k, format, args...))
}

func need(buf []byte, addr, n int) {
	if addr < 0 || n < 0 || addr+n > len(buf) {
		fail("reader: need %d bytes at %d, buffer is %d bytes", n, addr, len(buf))
	}
}

// Load parses buf as a saved buffer with the given file identifier and
// populates root, which must be the same concrete type (or at least the
// same field declaration order) as the table originally saved.
func Load(buf []byte, fileID uint32, root traits.TableValue) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if be, ok := r.(boundsError); ok {
				err = ferr.New(ferr.Truncated, "%s", be.msg)
				return
			}
			if fe, ok := r.(*ferr.Error); ok {
				err = fe
				return
			}
			panic(r)
		}
	}()

	rootAddr, envErr := envelope.Read(buf, fileID)
	if envErr != nil {
		return envErr
	}
	loadTable(buf, rootAddr, root)
	return nil
}

// loadTable reads the vtable back-reference at addr, validates the vtable
// and table-frame bounds, and replays t.Serialize against a tableVisitor
// scoped to that frame.
func loadTable(buf []byte, addr int, t traits.TableValue) {
	need(buf, addr, fb.SizeSOffsetT)
	back := fb.GetSOffsetT(buf[addr : addr+fb.SizeSOffsetT])
	vtableAddr := addr - int(back)
	need(buf, vtableAddr, fb.SizeVOffsetT*fb.VtableMetadataFields)
	vtableLen := int(fb.GetVOffsetT(buf[vtableAddr : vtableAddr+fb.SizeVOffsetT]))
	tableLen := int(fb.GetVOffsetT(buf[vtableAddr+fb.SizeVOffsetT : vtableAddr+2*fb.SizeVOffsetT]))
	need(buf, vtableAddr, vtableLen)
	need(buf, addr, tableLen)
	entryCount := (vtableLen - fb.SizeVOffsetT*fb.VtableMetadataFields) / fb.SizeVOffsetT

	tv := &tableVisitor{buf: buf, tableAddr: addr, vtableAddr: vtableAddr, entryCount: entryCount}
	t.Serialize(tv)
}

// tableVisitor is the traits.Visitor used to load one table's fields. Each
// call consumes the next vtable entry (two, for a union) in declaration
// order — the same implicit field-position tracking the writer's
// writeVisitor uses, per traits.Visitor's contract.
type tableVisitor struct {
	buf                   []byte
	tableAddr, vtableAddr int
	entryCount, fieldIdx  int
}

func (t *tableVisitor) IsLoading() bool { return true }

// slot returns the absolute field address and whether this field is
// present: present iff the entry index is within the vtable's declared
// count and its stored slot value is >= 4.
func (t *tableVisitor) slot() (addr int, present bool) {
	idx := t.fieldIdx
	t.fieldIdx++
	if idx >= t.entryCount {
		return 0, false
	}
	o := t.vtableAddr + fb.SizeVOffsetT*(fb.VtableMetadataFields+idx)
	need(t.buf, o, fb.SizeVOffsetT)
	sv := fb.GetVOffsetT(t.buf[o : o+fb.SizeVOffsetT])
	if sv < fb.SizeSOffsetT {
		return 0, false
	}
	return t.tableAddr + int(sv), true
}

func (t *tableVisitor) Bool(p *bool) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	need(t.buf, addr, fb.SizeBool)
	*p = fb.GetBool(t.buf[addr : addr+fb.SizeBool])
}
func (t *tableVisitor) Int8(p *int8) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	need(t.buf, addr, fb.SizeInt8)
	*p = fb.GetInt8(t.buf[addr : addr+fb.SizeInt8])
}
func (t *tableVisitor) Uint8(p *uint8) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	need(t.buf, addr, fb.SizeUint8)
	*p = fb.GetUint8(t.buf[addr : addr+fb.SizeUint8])
}
func (t *tableVisitor) Int16(p *int16) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	need(t.buf, addr, fb.SizeInt16)
	*p = fb.GetInt16(t.buf[addr : addr+fb.SizeInt16])
}
func (t *tableVisitor) Uint16(p *uint16) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	need(t.buf, addr, fb.SizeUint16)
	*p = fb.GetUint16(t.buf[addr : addr+fb.SizeUint16])
}
func (t *tableVisitor) Int32(p *int32) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	need(t.buf, addr, fb.SizeInt32)
	*p = fb.GetInt32(t.buf[addr : addr+fb.SizeInt32])
}
func (t *tableVisitor) Uint32(p *uint32) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	need(t.buf, addr, fb.SizeUint32)
	*p = fb.GetUint32(t.buf[addr : addr+fb.SizeUint32])
}
func (t *tableVisitor) Int64(p *int64) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	need(t.buf, addr, fb.SizeInt64)
	*p = fb.GetInt64(t.buf[addr : addr+fb.SizeInt64])
}
func (t *tableVisitor) Uint64(p *uint64) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	need(t.buf, addr, fb.SizeUint64)
	*p = fb.GetUint64(t.buf[addr : addr+fb.SizeUint64])
}
func (t *tableVisitor) Float32(p *float32) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	need(t.buf, addr, fb.SizeFloat32)
	*p = fb.GetFloat32(t.buf[addr : addr+fb.SizeFloat32])
}
func (t *tableVisitor) Float64(p *float64) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	need(t.buf, addr, fb.SizeFloat64)
	*p = fb.GetFloat64(t.buf[addr : addr+fb.SizeFloat64])
}

func (t *tableVisitor) Struct(s traits.StructValue) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	offsets, size, _ := fb.StructLayout(s.FieldSizes())
	need(t.buf, addr, size)
	sub := &inlineVisitor{buf: t.buf, base: addr, offsets: offsets}
	s.Serialize(sub)
}

func (t *tableVisitor) Table(slot traits.TableSlot) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	need(t.buf, addr, fb.SizeUOffsetT)
	rel := int32(fb.GetUint32(t.buf[addr : addr+fb.SizeUOffsetT]))
	if rel == 0 {
		return
	}
	target := addr + int(rel)
	loadTable(t.buf, target, slot.New())
}

func (t *tableVisitor) Vector(vec traits.VectorValue) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	need(t.buf, addr, fb.SizeUOffsetT)
	rel := int32(fb.GetUint32(t.buf[addr : addr+fb.SizeUOffsetT]))
	if rel == 0 {
		return
	}
	loadVector(t.buf, addr+int(rel), vec)
}

func (t *tableVisitor) Dynamic(d traits.DynamicValue) {
	addr, ok := t.slot()
	if !ok {
		return
	}
	need(t.buf, addr, fb.SizeUOffsetT)
	rel := int32(fb.GetUint32(t.buf[addr : addr+fb.SizeUOffsetT]))
	if rel == 0 {
		return
	}
	loadDynamic(t.buf, addr+int(rel), d)
}

func (t *tableVisitor) Union(u traits.UnionValue) {
	tagAddr, tagOK := t.slot()
	offAddr, offOK := t.slot()
	if !tagOK {
		u.SetAlternative(-1)
		return
	}
	need(t.buf, tagAddr, 1)
	tag := fb.GetUint8(t.buf[tagAddr : tagAddr+1])
	if tag == 0 {
		u.SetAlternative(-1)
		return
	}
	altIdx := int(tag) - 1
	if altIdx >= u.NumAlternatives() {
		failKind(ferr.BadUnionTag, "union tag %d exceeds %d declared alternatives", tag, u.NumAlternatives())
	}
	if !offOK {
		fail("union tag %d present but offset slot is absent", tag)
	}
	need(t.buf, offAddr, fb.SizeUOffsetT)
	rel := int32(fb.GetUint32(t.buf[offAddr : offAddr+fb.SizeUOffsetT]))
	target := offAddr + int(rel)
	alt := u.SetAlternative(altIdx)
	loadTable(t.buf, target, alt)
}

func loadVector(buf []byte, addr int, vec traits.VectorValue) {
	need(buf, addr, fb.SizeUOffsetT)
	n := int(fb.GetUint32(buf[addr : addr+fb.SizeUOffsetT]))
	stride := vec.ElemStride()
	need(buf, addr+fb.SizeUOffsetT, n*stride)
	start := vec.Grow(n)
	bodyStart := addr + fb.SizeUOffsetT
	indirect := indirectKind(vec.ElemKind())
	for i := 0; i < n; i++ {
		elemAddr := bodyStart + i*stride
		if indirect {
			ev := &elemVisitor{buf: buf, elemAddr: elemAddr}
			vec.VisitElem(ev, start+i)
		} else {
			ev := &inlineVisitor{buf: buf, base: elemAddr, offsets: []int{0}}
			vec.VisitElem(ev, start+i)
		}
	}
}

func loadDynamic(buf []byte, addr int, d traits.DynamicValue) {
	need(buf, addr, fb.SizeUOffsetT)
	n := int(fb.GetUint32(buf[addr : addr+fb.SizeUOffsetT]))
	need(buf, addr+fb.SizeUOffsetT, n)
	d.Load(buf[addr+fb.SizeUOffsetT : addr+fb.SizeUOffsetT+n])
}

func indirectKind(k traits.Kind) bool {
	switch k {
	case traits.KindTable, traits.KindVector, traits.KindDynamic, traits.KindUnion:
		return true
	default:
		return false
	}
}

// inlineVisitor reads a struct's fields, or a scalar/struct vector
// element, directly from a frame with no vtable indirection: every field
// is always present, at a statically known offset supplied by the caller
// (flatbuffers.StructLayout for a struct, or [0] for a bare vector
// element).
type inlineVisitor struct {
	buf      []byte
	base     int
	offsets  []int
	fieldIdx int
}

func (v *inlineVisitor) IsLoading() bool { return true }

func (v *inlineVisitor) next(width int) []byte {
	off := v.offsets[v.fieldIdx]
	v.fieldIdx++
	addr := v.base + off
	need(v.buf, addr, width)
	return v.buf[addr : addr+width]
}

func (v *inlineVisitor) Bool(p *bool)       { *p = fb.GetBool(v.next(fb.SizeBool)) }
func (v *inlineVisitor) Int8(p *int8)       { *p = fb.GetInt8(v.next(fb.SizeInt8)) }
func (v *inlineVisitor) Uint8(p *uint8)     { *p = fb.GetUint8(v.next(fb.SizeUint8)) }
func (v *inlineVisitor) Int16(p *int16)     { *p = fb.GetInt16(v.next(fb.SizeInt16)) }
func (v *inlineVisitor) Uint16(p *uint16)   { *p = fb.GetUint16(v.next(fb.SizeUint16)) }
func (v *inlineVisitor) Int32(p *int32)     { *p = fb.GetInt32(v.next(fb.SizeInt32)) }
func (v *inlineVisitor) Uint32(p *uint32)   { *p = fb.GetUint32(v.next(fb.SizeUint32)) }
func (v *inlineVisitor) Int64(p *int64)     { *p = fb.GetInt64(v.next(fb.SizeInt64)) }
func (v *inlineVisitor) Uint64(p *uint64)   { *p = fb.GetUint64(v.next(fb.SizeUint64)) }
func (v *inlineVisitor) Float32(p *float32) { *p = fb.GetFloat32(v.next(fb.SizeFloat32)) }
func (v *inlineVisitor) Float64(p *float64) { *p = fb.GetFloat64(v.next(fb.SizeFloat64)) }

func (v *inlineVisitor) Struct(s traits.StructValue) {
	off := v.offsets[v.fieldIdx]
	v.fieldIdx++
	offsets, size, _ := fb.StructLayout(s.FieldSizes())
	addr := v.base + off
	need(v.buf, addr, size)
	sub := &inlineVisitor{buf: v.buf, base: addr, offsets: offsets}
	s.Serialize(sub)
}

// A struct field is never a table/vector/dynamic/union, and loadVector hands
// indirect vector elements to elemVisitor rather than to inlineVisitor, so
// these four methods are reached only by a host type that visits an
// indirect field from inside a struct.
func (v *inlineVisitor) Table(traits.TableSlot)    { panic("reader: indirect field inside struct") }
func (v *inlineVisitor) Vector(traits.VectorValue) { panic("reader: indirect field inside struct") }
func (v *inlineVisitor) Dynamic(traits.DynamicValue) {
	panic("reader: indirect field inside struct")
}
func (v *inlineVisitor) Union(traits.UnionValue) { panic("reader: indirect field inside struct") }

// elemVisitor reads a single indirect (table/vector/dynamic/union) vector
// element: the body holds a bare UOffsetT relative offset, not a vtable
// field slot.
type elemVisitor struct {
	buf      []byte
	elemAddr int
}

func (e *elemVisitor) IsLoading() bool { return true }

func (e *elemVisitor) Bool(*bool)       { panic("reader: scalar element via elemVisitor") }
func (e *elemVisitor) Int8(*int8)       { panic("reader: scalar element via elemVisitor") }
func (e *elemVisitor) Uint8(*uint8)     { panic("reader: scalar element via elemVisitor") }
func (e *elemVisitor) Int16(*int16)     { panic("reader: scalar element via elemVisitor") }
func (e *elemVisitor) Uint16(*uint16)   { panic("reader: scalar element via elemVisitor") }
func (e *elemVisitor) Int32(*int32)     { panic("reader: scalar element via elemVisitor") }
func (e *elemVisitor) Uint32(*uint32)   { panic("reader: scalar element via elemVisitor") }
func (e *elemVisitor) Int64(*int64)     { panic("reader: scalar element via elemVisitor") }
func (e *elemVisitor) Uint64(*uint64)   { panic("reader: scalar element via elemVisitor") }
func (e *elemVisitor) Float32(*float32) { panic("reader: scalar element via elemVisitor") }
func (e *elemVisitor) Float64(*float64) { panic("reader: scalar element via elemVisitor") }
func (e *elemVisitor) Struct(traits.StructValue) {
	panic("reader: struct element via elemVisitor")
}

func (e *elemVisitor) Table(slot traits.TableSlot) {
	need(e.buf, e.elemAddr, fb.SizeUOffsetT)
	rel := int32(fb.GetUint32(e.buf[e.elemAddr : e.elemAddr+fb.SizeUOffsetT]))
	loadTable(e.buf, e.elemAddr+int(rel), slot.New())
}

func (e *elemVisitor) Vector(vec traits.VectorValue) {
	need(e.buf, e.elemAddr, fb.SizeUOffsetT)
	rel := int32(fb.GetUint32(e.buf[e.elemAddr : e.elemAddr+fb.SizeUOffsetT]))
	loadVector(e.buf, e.elemAddr+int(rel), vec)
}

func (e *elemVisitor) Dynamic(d traits.DynamicValue) {
	need(e.buf, e.elemAddr, fb.SizeUOffsetT)
	rel := int32(fb.GetUint32(e.buf[e.elemAddr : e.elemAddr+fb.SizeUOffsetT]))
	loadDynamic(e.buf, e.elemAddr+int(rel), d)
}

func (e *elemVisitor) Union(traits.UnionValue) {
	panic("reader: union-typed vector elements are not supported")
}
