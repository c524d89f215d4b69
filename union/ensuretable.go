// Package union supplies the union/variant codec's supporting machinery.
// The tag/offset state machine itself lives in each host UnionValue
// implementation (a tag byte plus an offset, which traits.UnionValue and
// writer/reader already model directly); this package supplies the one
// piece every non-table alternative needs: EnsureTable, a transparent
// one-field-table wrapper so a scalar, struct, or dynamic-bytes value is
// reachable through the same 32-bit offset slot a table alternative uses.
package union

import "github.com/nsfard/foundationdb/traits"

// MaxAlternatives is the largest declared alternative count a UnionValue may
// report. Tag value 0 is reserved for empty; 255 is reserved.
const MaxAlternatives = 254

// EnsureTable wraps a single scalar, struct, or dynamic-bytes value as a
// one-field TableValue, so it is reachable through a union's 32-bit offset
// slot exactly like any other table alternative. Visit is the function
// used to serialize the wrapped value: it is called with a pointer to
// Value on both save and load, e.g.
//
//	func (w *EnsureTable[int32]) Serialize(v traits.Visitor) { v.Int32(&w.Value) }
//
// is what EnsureTable would do if Go let a generic type switch on its type
// parameter; instead each instantiation site supplies its own Serialize
// via the Visit field, set once at construction.
type EnsureTable[T any] struct {
	Value T
	// Visit performs the single field's Serialize call. Set by whichever
	// constructor below matches T's encoding class.
	Visit func(v traits.Visitor, value *T)
}

func (w *EnsureTable[T]) Serialize(v traits.Visitor) { w.Visit(v, &w.Value) }

// NewScalarTable wraps a scalar value, where visit is one of Visitor's
// typed scalar methods (e.g. func(v traits.Visitor, p *int32) { v.Int32(p) }).
func NewScalarTable[T any](value T, visit func(v traits.Visitor, value *T)) *EnsureTable[T] {
	return &EnsureTable[T]{Value: value, Visit: visit}
}

// NewStructTable wraps a traits.StructValue.
func NewStructTable[T traits.StructValue](value T) *EnsureTable[T] {
	return &EnsureTable[T]{
		Value: value,
		Visit: func(v traits.Visitor, p *T) { v.Struct(*p) },
	}
}

// DynamicTable wraps a traits.DynamicValue alternative (a string or opaque
// blob union member).
type DynamicTable struct {
	Inner traits.DynamicValue
}

func (d *DynamicTable) Serialize(v traits.Visitor) { v.Dynamic(d.Inner) }

var (
	_ traits.TableValue = (*EnsureTable[int32])(nil)
	_ traits.TableValue = (*DynamicTable)(nil)
)
