// Package traits classifies host Go types into one of six wire encoding
// classes. There is no compile-time template specialization in Go, so this
// uses a sealed Kind enumeration plus five small interfaces, one per
// non-scalar encoding class, and a process-wide registry that host types
// opt into from an init() so a type claimed by two classes is caught
// before it ever reaches the writer.
//
// Built-in scalars (bool and every sized int/uint/float) never go through
// the registry: flatbuffers.ClassifyScalar handles them by a type switch.
package traits

import (
	"reflect"
	"sync"

	"github.com/nsfard/foundationdb/ferr"
)

// Kind is the sealed encoding-class enumeration.
type Kind uint8

const (
	KindScalar Kind = iota
	KindStruct
	KindTable
	KindVector
	KindDynamic
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindStruct:
		return "struct"
	case KindTable:
		return "table"
	case KindVector:
		return "vector"
	case KindDynamic:
		return "dynamic"
	case KindUnion:
		return "union"
	default:
		return "unknown"
	}
}

// StructValue is a fixed-size, inline composite of scalars (structs do not
// nest): a list of field types in declaration order, each with a plain
// get/set. Structs have no vtable; every field is always present, so
// Serialize is called identically on save and load.
type StructValue interface {
	// FieldSizes reports each field's byte width (1, 2, 4, or 8) in
	// declaration order — the input flatbuffers.StructLayout expects.
	FieldSizes() []int
	Serialize(v Visitor)
}

// TableValue is the catch-all class: any aggregate type not otherwise
// classified is a table and must provide Serialize. Serialize must visit
// the same fields, in the same order, on every call — the Visitor
// implementation (not the host type) decides whether that traversal is
// sizing, writing, or loading.
type TableValue interface {
	Serialize(v Visitor)
}

// VectorValue is a length-prefixed contiguous array of one element type.
type VectorValue interface {
	// Len reports the current element count (the save-path length).
	Len() int
	// ElemKind reports the element's Kind, so the writer/reader can choose
	// inline-copy versus offset-indirection per element without per-call
	// type assertions.
	ElemKind() Kind
	// ElemStride is the fixed per-element byte width within the vector
	// body: 4 for any indirect element kind (table/vector/dynamic), the
	// natural width for a scalar element, or a struct element's total
	// flatbuffers.StructLayout size.
	ElemStride() int
	// VisitElem visits element i through v: for scalar/struct elements v
	// reads/writes the element in place; for table/vector/dynamic elements
	// v recurses into the indirect target. Union-kind elements are not
	// supported by the writer or the reader; wrap a union in a one-field
	// table to store it in a vector.
	VisitElem(v Visitor, i int)
	// Grow appends n zero-valued elements during load and returns the
	// index of the first one, so the reader can VisitElem each in turn.
	Grow(n int) int
}

// DynamicValue is a length-prefixed byte sequence: a string or an opaque
// blob.
type DynamicValue interface {
	// Bytes returns the payload to write. The reference allows
	// "one-or-more contiguous byte blocks"; no host type in this module
	// needs scatter-gather, so a single slice suffices.
	Bytes() []byte
	// Load replaces the host's contents with a copy of src. src is only
	// valid for the duration of the call.
	Load(src []byte)
}

// UnionValue is a tagged choice among table alternatives. Non-table
// alternatives are ensure-table-wrapped by the caller (see package union)
// before being exposed here — a UnionValue always hands the writer/reader a
// TableValue.
type UnionValue interface {
	// ActiveIndex returns -1 for "empty", else the 0-based alternative
	// index (the wire tag is this value + 1).
	ActiveIndex() int
	// NumAlternatives is the declared alternative count (at most 254).
	NumAlternatives() int
	// Alternative returns the active alternative's TableValue. Only valid
	// when ActiveIndex() >= 0.
	Alternative() TableValue
	// SetAlternative installs alternative i (0-based) as active during
	// load, handing back the TableValue the reader should populate. i == -1
	// sets the union to empty and SetAlternative returns nil.
	SetAlternative(i int) TableValue
}

// Visitor is handed to a TableValue's or StructValue's Serialize method.
// Exactly one typed method is called per declared field, in declaration
// order, every time Serialize runs — on save pass 1, save pass 2, and load
// alike. The Visitor implementation (writer or reader), not the host type,
// tracks field position and decides whether a call reads or writes.
type Visitor interface {
	// IsLoading reports whether this traversal populates the host (true)
	// or reads it (false). Host Serialize methods only need this to guard
	// pointer allocation for optional table fields; most fields don't
	// care.
	IsLoading() bool

	Bool(v *bool)
	Int8(v *int8)
	Uint8(v *uint8)
	Int16(v *int16)
	Uint16(v *uint16)
	Int32(v *int32)
	Uint32(v *uint32)
	Int64(v *int64)
	Uint64(v *uint64)
	Float32(v *float32)
	Float64(v *float64)

	Struct(v StructValue)
	Table(slot TableSlot)
	Vector(v VectorValue)
	Dynamic(v DynamicValue)
	Union(v UnionValue)
}

// TableSlot adapts an optional table-typed field (a **T pointer, nil when
// the field is absent) so Visitor.Table can get, allocate, and set it
// without the host type boxing anything through reflection. Build one with
// TableField.
type TableSlot interface {
	// Get returns the current value, or nil if the field is absent.
	Get() TableValue
	// New allocates a zero-valued *T, installs it as the field's value,
	// and returns it for the reader to populate.
	New() TableValue
}

// TablePtr constrains PT to be a pointer to T that also implements
// TableValue — the generic equivalent of the registry-backed
// "host provides exactly one implementation" rule, enforced by the
// compiler instead of at first use.
type TablePtr[T any] interface {
	*T
	TableValue
}

type tableSlot[T any, PT TablePtr[T]] struct{ ptr *PT }

// TableField builds a TableSlot over an optional table field declared as
// `Child PT` where PT is a pointer type implementing TableValue (e.g.
// `Child *ChildTable`). A nil field is "absent" on save; New allocates a
// fresh value during load.
func TableField[T any, PT TablePtr[T]](ptr *PT) TableSlot {
	return tableSlot[T, PT]{ptr: ptr}
}

func (s tableSlot[T, PT]) Get() TableValue {
	if *s.ptr == nil {
		return nil
	}
	return TableValue(*s.ptr)
}

func (s tableSlot[T, PT]) New() TableValue {
	var t T
	p := PT(&t)
	*s.ptr = p
	return p
}

// registry records, for every host reflect.Type that has ever registered,
// the Kind it registered under. Lazily populated, safe under concurrent
// first access: LoadOrStore is the idempotent primitive, no external lock
// is needed.
var registry sync.Map // reflect.Type -> Kind

// conflicts records every reflect.Type for which a second, different Kind
// was registered. writer.Save consults CheckConflicts before running pass
// 1, surfacing ferr.DuplicateTraits as a normal error return rather than a
// panic — registration conflicts are data (a caller can fix its program and
// retry), not an invariant violation.
var conflicts sync.Map // reflect.Type -> struct{}

func register(t reflect.Type, k Kind) {
	actual, loaded := registry.LoadOrStore(t, k)
	if loaded && actual.(Kind) != k {
		conflicts.Store(t, struct{}{})
	}
}

func RegisterTable(t reflect.Type)   { register(t, KindTable) }
func RegisterStruct(t reflect.Type)  { register(t, KindStruct) }
func RegisterVector(t reflect.Type)  { register(t, KindVector) }
func RegisterDynamic(t reflect.Type) { register(t, KindDynamic) }
func RegisterUnion(t reflect.Type)   { register(t, KindUnion) }

// KindOf reports the Kind t registered under, or false if t was never
// registered.
func KindOf(t reflect.Type) (Kind, bool) {
	v, ok := registry.Load(t)
	if !ok {
		return 0, false
	}
	return v.(Kind), true
}

// CheckConflicts reports the first recorded registration conflict as a
// ferr.DuplicateTraits error, or nil if none were recorded.
func CheckConflicts() error {
	var err error
	conflicts.Range(func(key, _ interface{}) bool {
		t := key.(reflect.Type)
		err = ferr.New(ferr.DuplicateTraits, "type %s registered under more than one encoding class", t)
		return false
	})
	return err
}
