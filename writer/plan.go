package writer

import (
	fb "github.com/nsfard/foundationdb/flatbuffers"
	"github.com/nsfard/foundationdb/traits"
	"github.com/nsfard/foundationdb/vtable"
)

// planner is pass 1 of the two-pass writer: a deterministic pre-order walk
// of the object graph, assigning every table, vector, and dynamic-bytes
// blob a final address and recording, in visitation order, the address
// handed to each indirect field. Pass 2 (materializer) repeats the
// identical walk and consumes these addresses in the same order — so a
// field's address must land in p.addrs *before* that field's own children
// are visited, exactly mirroring writeVisitor's nextAddr()-then-recurse
// order. (A root value's address is returned directly and never goes
// through p.addrs — it has no parent slot to be consumed from.)
//
// Addresses are assigned in plain ascending order (each new object placed
// after everything already reserved), so a table's own frame always lands
// before its children's. Relative offsets are stored as the wrapped int32
// difference target-slot regardless of sign, so this ascending order is a
// layout choice, not a correctness requirement: reader and writer agree on
// the same arithmetic, and Go's fixed-width wraparound makes it exact
// either direction.
type planner struct {
	cursor      int
	addrs       []int
	vtables     []*vtable.VTable
	vtableIndex map[*vtable.VTable]int
}

func newPlanner() *planner {
	return &planner{vtableIndex: make(map[*vtable.VTable]int)}
}

// reserve right-aligns the cursor to align, then carves out n bytes at the
// resulting address. align is the frame's own required alignment: a
// table's max field alignment, or 4 for a vector/dynamic-bytes length
// prefix.
func (p *planner) reserve(n, align int) int {
	p.cursor = fb.RightAlign(p.cursor, align)
	addr := p.cursor
	p.cursor += n
	return addr
}

func (p *planner) recordVTable(vt *vtable.VTable) {
	if _, ok := p.vtableIndex[vt]; ok {
		return
	}
	p.vtableIndex[vt] = len(p.vtables)
	p.vtables = append(p.vtables, vt)
}

// reserveTable carves out t's field area, without visiting its fields.
func (p *planner) reserveTable(t traits.TableValue) int {
	vt := vtableFor(t)
	p.recordVTable(vt)
	return p.reserve(vt.TableLength, vt.Align)
}

// planTable reserves and recursively lays out t, returning its address.
// Used only for the root table, which has no parent slot to record an
// address into.
func (p *planner) planTable(t traits.TableValue) int {
	addr := p.reserveTable(t)
	t.Serialize(&sizeVisitor{p: p})
	return addr
}

// reserveVector carves out vec's 4-byte length prefix plus its element
// body, without visiting any indirect elements.
func (p *planner) reserveVector(vec traits.VectorValue) int {
	n := vec.Len()
	stride := vec.ElemStride()
	return p.reserve(4+n*stride, fb.SizeUOffsetT)
}

// planDynamic reserves d's 4-byte length prefix plus its payload.
func (p *planner) planDynamic(d traits.DynamicValue) int {
	return p.reserve(4+len(d.Bytes()), fb.SizeUOffsetT)
}

func indirectKind(k traits.Kind) bool {
	switch k {
	case traits.KindTable, traits.KindVector, traits.KindDynamic, traits.KindUnion:
		return true
	default:
		return false
	}
}

// sizeVisitor is the traits.Visitor used during pass 1. It ignores every
// inline field (scalar, struct) — those need no address, only their
// eventual byte value, which pass 2 reads fresh from the host — and
// recurses into every present indirect field, appending the child's
// address to p.addrs in the exact order pass 2's writeVisitor will later
// consume it.
type sizeVisitor struct{ p *planner }

func (v *sizeVisitor) IsLoading() bool { return false }

func (v *sizeVisitor) Bool(*bool)       {}
func (v *sizeVisitor) Int8(*int8)       {}
func (v *sizeVisitor) Uint8(*uint8)     {}
func (v *sizeVisitor) Int16(*int16)     {}
func (v *sizeVisitor) Uint16(*uint16)   {}
func (v *sizeVisitor) Int32(*int32)     {}
func (v *sizeVisitor) Uint32(*uint32)   {}
func (v *sizeVisitor) Int64(*int64)     {}
func (v *sizeVisitor) Uint64(*uint64)   {}
func (v *sizeVisitor) Float32(*float32) {}
func (v *sizeVisitor) Float64(*float64) {}

// Struct fields are fixed-size and inline — indirect struct fields are not
// a supported encoding — so pass 1 has nothing to reserve for them.
func (v *sizeVisitor) Struct(traits.StructValue) {}

// Table reserves the child's address and records it before recursing into
// the child's own fields, so p.addrs holds the child's address ahead of
// any of its descendants' — matching the order writeVisitor.Table
// consumes them in (nextAddr, then recurse).
func (v *sizeVisitor) Table(slot traits.TableSlot) {
	tv := slot.Get()
	if tv == nil {
		return
	}
	addr := v.p.reserveTable(tv)
	v.p.addrs = append(v.p.addrs, addr)
	tv.Serialize(&sizeVisitor{p: v.p})
}

func (v *sizeVisitor) Vector(vec traits.VectorValue) {
	addr := v.p.reserveVector(vec)
	v.p.addrs = append(v.p.addrs, addr)
	if indirectKind(vec.ElemKind()) {
		sv := &sizeVisitor{p: v.p}
		n := vec.Len()
		for i := 0; i < n; i++ {
			vec.VisitElem(sv, i)
		}
	}
}

func (v *sizeVisitor) Dynamic(d traits.DynamicValue) {
	addr := v.p.planDynamic(d)
	v.p.addrs = append(v.p.addrs, addr)
}

func (v *sizeVisitor) Union(u traits.UnionValue) {
	if u.ActiveIndex() < 0 {
		return
	}
	alt := u.Alternative()
	addr := v.p.reserveTable(alt)
	v.p.addrs = append(v.p.addrs, addr)
	alt.Serialize(&sizeVisitor{p: v.p})
}
