// Package fdbmsg supplies a small family of distributed-database message
// types (client log events, a storage-server interface description, and a
// replication policy) that exercise this module's scalar, table, vector,
// dynamic-bytes, and union encodings end to end; none of the types here is
// a struct (traits.StructValue). Every type here
// implements one of the traits interfaces and registers itself from
// init(), the way a real caller of this module would.
package fdbmsg

import "github.com/nsfard/foundationdb/traits"

// DynString is a traits.DynamicValue over a Go string.
type DynString struct {
	S string
}

func (d *DynString) Bytes() []byte { return []byte(d.S) }
func (d *DynString) Load(src []byte) {
	d.S = string(src)
}

// StringVector is a traits.VectorValue of plain strings, e.g. a storage
// server's known shard boundaries.
type StringVector struct {
	Items []DynString
}

func (v *StringVector) Len() int             { return len(v.Items) }
func (v *StringVector) ElemKind() traits.Kind { return traits.KindDynamic }
func (v *StringVector) ElemStride() int       { return 4 }
func (v *StringVector) VisitElem(vis traits.Visitor, i int) { vis.Dynamic(&v.Items[i]) }
func (v *StringVector) Grow(n int) int {
	start := len(v.Items)
	v.Items = append(v.Items, make([]DynString, n)...)
	return start
}

func init() {
	traits.RegisterDynamic(typeOf((*DynString)(nil)))
	traits.RegisterVector(typeOf((*StringVector)(nil)))
}
