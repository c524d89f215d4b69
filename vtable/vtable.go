// Package vtable implements vtable generation and process-wide interning.
// A vtable is generated from the ordered list of a table type's field
// shapes — absent trailing fields shrink the vtable, absent interior
// fields leave a zero slot — and two types whose field shapes are
// byte-identical after that trimming share one interned *VTable.
package vtable

import (
	"sort"
	"sync"

	fb "github.com/nsfard/foundationdb/flatbuffers"
)

// Field describes one table member's contribution to a vtable at
// generation time. Size/Align are 4/4 for any indirect class (table,
// vector, dynamic-bytes, union offset), or the natural scalar/struct width
// otherwise — see flatbuffers.FieldVTableShape. Present is false when this
// particular instance omitted the field.
type Field struct {
	Size    int
	Align   int
	Present bool
}

// VTable is an interned, immutable vtable: the encoded wire bytes, plus the
// per-field table offsets a writer needs when placing that instance's field
// values.
type VTable struct {
	// Bytes is vtable_length, table_length, then one u16 per field slot —
	// ready to copy verbatim into the output buffer's vtable region.
	Bytes []byte
	// FieldOffsets[i] is the byte offset of field i within the table's
	// field area (including the leading 4-byte vtable back-ref), or 0 if
	// field i is absent.
	FieldOffsets []int
	// TableLength is the byte size of the table's field area, right-aligned
	// to the max alignment among its present fields.
	TableLength int
	// Align is the max alignment among the table's present fields (at
	// least 1), the alignment a writer must right-align a table's own
	// frame start to.
	Align int
}

// cache interns VTables keyed by their field shape, process-wide and
// lazily populated — LoadOrStore is the idempotent primitive that makes
// first concurrent access safe without an external lock.
var cache sync.Map // string(shape key) -> *VTable

// Generate returns the interned VTable for fields (in declaration order),
// building one on first use.
func Generate(fields []Field) *VTable {
	key := shapeKey(fields)
	if v, ok := cache.Load(key); ok {
		return v.(*VTable)
	}
	vt := build(fields)
	actual, _ := cache.LoadOrStore(key, vt)
	return actual.(*VTable)
}

func shapeKey(fields []Field) string {
	n := len(fields)
	for n > 0 && !fields[n-1].Present {
		n--
	}
	buf := make([]byte, 0, n*3)
	for _, f := range fields[:n] {
		if !f.Present {
			buf = append(buf, 0, 0, 0)
			continue
		}
		buf = append(buf, 1, byte(f.Size), byte(f.Align))
	}
	return string(buf)
}

type fieldOrder struct {
	index int
	align int
}

func build(fields []Field) *VTable {
	effectiveN := 0
	for i, f := range fields {
		if f.Present {
			effectiveN = i + 1
		}
	}

	order := make([]fieldOrder, 0, effectiveN)
	for i := 0; i < effectiveN; i++ {
		if fields[i].Present {
			order = append(order, fieldOrder{index: i, align: fields[i].Align})
		}
	}
	// Most-aligned first, ties broken by declaration order — SliceStable
	// preserves the ascending-index order we appended in, so a plain
	// descending-alignment comparator suffices.
	sort.SliceStable(order, func(a, b int) bool { return order[a].align > order[b].align })

	offsets := make([]int, effectiveN)
	cursor := fb.SizeSOffsetT // field area starts past the table's vtable back-ref
	maxAlign := 1
	for _, o := range order {
		f := fields[o.index]
		cursor = fb.RightAlign(cursor, f.Align)
		offsets[o.index] = cursor
		cursor += f.Size
		if f.Align > maxAlign {
			maxAlign = f.Align
		}
	}
	tableLength := fb.RightAlign(cursor, maxAlign)

	vtableLength := fb.SizeVOffsetT * (fb.VtableMetadataFields + effectiveN)
	bytes := make([]byte, vtableLength)
	fb.WriteVOffsetT(bytes[0:2], fb.VOffsetT(vtableLength))
	fb.WriteVOffsetT(bytes[2:4], fb.VOffsetT(tableLength))
	for i := 0; i < effectiveN; i++ {
		o := fb.SizeVOffsetT * (fb.VtableMetadataFields + i)
		fb.WriteVOffsetT(bytes[o:o+fb.SizeVOffsetT], fb.VOffsetT(offsets[i]))
	}

	return &VTable{Bytes: bytes, FieldOffsets: offsets, TableLength: tableLength, Align: maxAlign}
}
