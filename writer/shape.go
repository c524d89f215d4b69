package writer

import (
	"reflect"
	"sync"

	fb "github.com/nsfard/foundationdb/flatbuffers"
	"github.com/nsfard/foundationdb/traits"
	"github.com/nsfard/foundationdb/vtable"
)

// tableVTables interns one *vtable.VTable per concrete host table type,
// process-wide: a table type's Serialize method calls the same sequence of
// Visitor methods on every instance, so its vtable shape only needs to be
// derived once, via shapeVisitor, and is then shared by every instance of
// that type for the remainder of the process — and by any other type
// whose shape happens to match (vtable.Generate interns by shape, not by
// reflect.Type).
var tableVTables sync.Map // reflect.Type -> *vtable.VTable

func vtableFor(t traits.TableValue) *vtable.VTable {
	rt := reflect.TypeOf(t)
	if v, ok := tableVTables.Load(rt); ok {
		return v.(*vtable.VTable)
	}
	sv := &shapeVisitor{}
	t.Serialize(sv)
	vt := vtable.Generate(sv.fields)
	actual, _ := tableVTables.LoadOrStore(rt, vt)
	return actual.(*vtable.VTable)
}

// shapeVisitor derives a table type's vtable.Field list by running one
// Serialize call and recording each visited field's (size, alignment) —
// never the field's value, so it is safe to run before any real data
// exists. Struct fields are sized via flatbuffers.StructLayout; every
// indirect class (table/vector/dynamic) contributes one 4/4 slot; a union
// contributes two: a 1-byte tag, then a 4-byte offset.
type shapeVisitor struct {
	fields []vtable.Field
}

func (s *shapeVisitor) IsLoading() bool { return false }

// append records one declared field's shape. Present is always true here:
// per-type vtable generation fixes the slot layout for every instance of
// the type, so a given instance's omission of a field (e.g. a nil
// optional table pointer) is expressed later as a zero offset value
// written into an always-present slot, not as a narrower vtable.
func (s *shapeVisitor) append(size, align int) {
	s.fields = append(s.fields, vtable.Field{Size: size, Align: align, Present: true})
}

func (s *shapeVisitor) Bool(*bool)       { s.append(fb.SizeBool, fb.SizeBool) }
func (s *shapeVisitor) Int8(*int8)       { s.append(fb.SizeInt8, fb.SizeInt8) }
func (s *shapeVisitor) Uint8(*uint8)     { s.append(fb.SizeUint8, fb.SizeUint8) }
func (s *shapeVisitor) Int16(*int16)     { s.append(fb.SizeInt16, fb.SizeInt16) }
func (s *shapeVisitor) Uint16(*uint16)   { s.append(fb.SizeUint16, fb.SizeUint16) }
func (s *shapeVisitor) Int32(*int32)     { s.append(fb.SizeInt32, fb.SizeInt32) }
func (s *shapeVisitor) Uint32(*uint32)   { s.append(fb.SizeUint32, fb.SizeUint32) }
func (s *shapeVisitor) Int64(*int64)     { s.append(fb.SizeInt64, fb.SizeInt64) }
func (s *shapeVisitor) Uint64(*uint64)   { s.append(fb.SizeUint64, fb.SizeUint64) }
func (s *shapeVisitor) Float32(*float32) { s.append(fb.SizeFloat32, fb.SizeFloat32) }
func (s *shapeVisitor) Float64(*float64) { s.append(fb.SizeFloat64, fb.SizeFloat64) }

func (s *shapeVisitor) Struct(v traits.StructValue) {
	_, size, align := fb.StructLayout(v.FieldSizes())
	s.append(size, align)
}

func (s *shapeVisitor) Table(traits.TableSlot) { s.append(fb.SizeUOffsetT, fb.SizeUOffsetT) }
func (s *shapeVisitor) Vector(traits.VectorValue) { s.append(fb.SizeUOffsetT, fb.SizeUOffsetT) }
func (s *shapeVisitor) Dynamic(traits.DynamicValue) { s.append(fb.SizeUOffsetT, fb.SizeUOffsetT) }
func (s *shapeVisitor) Union(traits.UnionValue) {
	s.append(1, 1)
	s.append(fb.SizeUOffsetT, fb.SizeUOffsetT)
}
