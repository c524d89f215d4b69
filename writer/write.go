// Package writer implements the two-pass writer. planner (see plan.go)
// performs pass 1, computing every address without writing a byte;
// materializer here performs pass 2, replaying the identical traversal and
// consuming pass 1's recorded addresses to compute every relative offset.
package writer

import (
	"github.com/nsfard/foundationdb/envelope"
	fb "github.com/nsfard/foundationdb/flatbuffers"
	"github.com/nsfard/foundationdb/flatbuffers/alloc"
	"github.com/nsfard/foundationdb/ferr"
	"github.com/nsfard/foundationdb/traits"
	"github.com/nsfard/foundationdb/vtable"
)

// Save runs the two-pass writer over root and returns the finished buffer,
// obtained from al. The only errors returned are ferr.DuplicateTraits (a
// registry conflict surfaced at first use) and ferr.InternalLayout (pass 2
// disagreed with pass 1 on the buffer's size, an assertion); every other
// write-path problem is a host programming error and panics.
func Save(al alloc.Allocator, root traits.TableValue, fileID uint32) ([]byte, error) {
	if err := traits.CheckConflicts(); err != nil {
		return nil, err
	}

	p := newPlanner()
	rootAddr := p.planTable(root)

	vtableRegionStart := p.cursor
	vtableAddr := make(map[*vtable.VTable]int, len(p.vtables))
	off := vtableRegionStart
	for _, vt := range p.vtables {
		vtableAddr[vt] = off
		off += len(vt.Bytes)
	}
	trailerStart := fb.RightAlign(off, envelope.Alignment)
	total := trailerStart + envelope.TrailerSize

	buf := al.Allocate(total)
	if len(buf) != total {
		return nil, ferr.New(ferr.InternalLayout, "allocator returned %d bytes, pass 1 computed %d", len(buf), total)
	}

	m := &materializer{buf: buf, addrs: p.addrs, vtableAddr: vtableAddr}
	m.writeTable(root, rootAddr)

	pos := vtableRegionStart
	for _, vt := range p.vtables {
		copy(buf[pos:pos+len(vt.Bytes)], vt.Bytes)
		pos += len(vt.Bytes)
	}
	for i := off; i < trailerStart; i++ {
		buf[i] = 0
	}

	envelope.Write(buf[trailerStart:], rootAddr-trailerStart, fileID)

	return buf, nil
}

// materializer is pass 2: it re-walks the object graph exactly as planner
// did and writes real bytes, consuming addrs in the same order planner
// appended them.
type materializer struct {
	buf        []byte
	addrs      []int
	idx        int
	vtableAddr map[*vtable.VTable]int
}

func (m *materializer) nextAddr() int {
	a := m.addrs[m.idx]
	m.idx++
	return a
}

func (m *materializer) writeTable(t traits.TableValue, addr int) {
	vt := vtableFor(t)
	va := m.vtableAddr[vt]
	fb.WriteSOffsetT(m.buf[addr:addr+fb.SizeSOffsetT], fb.SOffsetT(int32(addr-va)))
	frame := m.buf[addr : addr+vt.TableLength]
	wv := &writeVisitor{m: m, frame: frame, tableAddr: addr, vt: vt}
	t.Serialize(wv)
}

func (m *materializer) writeVector(vec traits.VectorValue, addr int) {
	n := vec.Len()
	fb.WriteUint32(m.buf[addr:addr+fb.SizeUOffsetT], uint32(n))
	stride := vec.ElemStride()
	bodyStart := addr + fb.SizeUOffsetT
	for i := 0; i < n; i++ {
		elemAddr := bodyStart + i*stride
		ev := &writeVisitor{
			m:         m,
			frame:     m.buf[elemAddr : elemAddr+stride],
			tableAddr: elemAddr,
			vt:        &vtable.VTable{FieldOffsets: []int{0}},
		}
		vec.VisitElem(ev, i)
	}
}

func (m *materializer) writeDynamic(d traits.DynamicValue, addr int) {
	b := d.Bytes()
	fb.WriteUint32(m.buf[addr:addr+fb.SizeUOffsetT], uint32(len(b)))
	copy(m.buf[addr+fb.SizeUOffsetT:addr+fb.SizeUOffsetT+len(b)], b)
}

// writeVisitor is the traits.Visitor used during pass 2. One instance
// writes one frame — a table's field area, a struct's inline bytes, or a
// single vector element — addressed relative to frame/tableAddr; vt.
// FieldOffsets supplies each successive call's byte offset within frame.
type writeVisitor struct {
	m         *materializer
	frame     []byte
	tableAddr int
	vt        *vtable.VTable
	fieldIdx  int
}

func (v *writeVisitor) IsLoading() bool { return false }

func (v *writeVisitor) nextOffset() int {
	off := v.vt.FieldOffsets[v.fieldIdx]
	v.fieldIdx++
	return off
}

func (v *writeVisitor) Bool(p *bool)       { fb.WriteBool(v.field(fb.SizeBool), *p) }
func (v *writeVisitor) Int8(p *int8)       { fb.WriteInt8(v.field(fb.SizeInt8), *p) }
func (v *writeVisitor) Uint8(p *uint8)     { fb.WriteUint8(v.field(fb.SizeUint8), *p) }
func (v *writeVisitor) Int16(p *int16)     { fb.WriteInt16(v.field(fb.SizeInt16), *p) }
func (v *writeVisitor) Uint16(p *uint16)   { fb.WriteUint16(v.field(fb.SizeUint16), *p) }
func (v *writeVisitor) Int32(p *int32)     { fb.WriteInt32(v.field(fb.SizeInt32), *p) }
func (v *writeVisitor) Uint32(p *uint32)   { fb.WriteUint32(v.field(fb.SizeUint32), *p) }
func (v *writeVisitor) Int64(p *int64)     { fb.WriteInt64(v.field(fb.SizeInt64), *p) }
func (v *writeVisitor) Uint64(p *uint64)   { fb.WriteUint64(v.field(fb.SizeUint64), *p) }
func (v *writeVisitor) Float32(p *float32) { fb.WriteFloat32(v.field(fb.SizeFloat32), *p) }
func (v *writeVisitor) Float64(p *float64) { fb.WriteFloat64(v.field(fb.SizeFloat64), *p) }

func (v *writeVisitor) field(width int) []byte {
	off := v.nextOffset()
	return v.frame[off : off+width]
}

func (v *writeVisitor) Struct(s traits.StructValue) {
	off := v.nextOffset()
	sizes := s.FieldSizes()
	offsets, size, _ := fb.StructLayout(sizes)
	sub := &writeVisitor{
		m:         v.m,
		frame:     v.frame[off : off+size],
		tableAddr: v.tableAddr + off,
		vt:        &vtable.VTable{FieldOffsets: offsets},
	}
	s.Serialize(sub)
}

func (v *writeVisitor) Table(slot traits.TableSlot) {
	off := v.nextOffset()
	tv := slot.Get()
	if tv == nil {
		fb.WriteUint32(v.frame[off:off+fb.SizeUOffsetT], 0)
		return
	}
	addr := v.m.nextAddr()
	slotAddr := v.tableAddr + off
	fb.WriteUint32(v.frame[off:off+fb.SizeUOffsetT], uint32(int32(addr-slotAddr)))
	v.m.writeTable(tv, addr)
}

func (v *writeVisitor) Vector(vec traits.VectorValue) {
	off := v.nextOffset()
	addr := v.m.nextAddr()
	slotAddr := v.tableAddr + off
	fb.WriteUint32(v.frame[off:off+fb.SizeUOffsetT], uint32(int32(addr-slotAddr)))
	v.m.writeVector(vec, addr)
}

func (v *writeVisitor) Dynamic(d traits.DynamicValue) {
	off := v.nextOffset()
	addr := v.m.nextAddr()
	slotAddr := v.tableAddr + off
	fb.WriteUint32(v.frame[off:off+fb.SizeUOffsetT], uint32(int32(addr-slotAddr)))
	v.m.writeDynamic(d, addr)
}

func (v *writeVisitor) Union(u traits.UnionValue) {
	tagOff := v.nextOffset()
	offOff := v.nextOffset()
	idx := u.ActiveIndex()
	if idx < 0 {
		fb.WriteUint8(v.frame[tagOff:tagOff+1], 0)
		fb.WriteUint32(v.frame[offOff:offOff+fb.SizeUOffsetT], 0)
		return
	}
	fb.WriteUint8(v.frame[tagOff:tagOff+1], uint8(idx+1))
	alt := u.Alternative()
	addr := v.m.nextAddr()
	slotAddr := v.tableAddr + offOff
	fb.WriteUint32(v.frame[offOff:offOff+fb.SizeUOffsetT], uint32(int32(addr-slotAddr)))
	v.m.writeTable(alt, addr)
}
