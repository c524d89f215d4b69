package fdbmsg

import "github.com/nsfard/foundationdb/traits"

// FileIDPolicyMessage is PolicyMessage's root file identifier.
const FileIDPolicyMessage uint32 = 0x504f4c43 // "POLC"

// Policy alternative indices: a replication policy is one of "pick one
// server", "pick across an attribute", or "satisfy every child policy",
// expressed here as a closed Go sum type rather than a virtual class
// hierarchy.
const (
	PolicyKindOne = iota
	PolicyKindAcross
	PolicyKindAnd
)

// PolicyOneTable mirrors PolicyOne: a leaf with no fields.
type PolicyOneTable struct{}

func (*PolicyOneTable) Serialize(traits.Visitor) {}

// PolicyAcrossTable mirrors PolicyAcross: a replication count, an
// attribute key, and one recursive child policy.
type PolicyAcrossTable struct {
	Count     int32
	AttribKey DynString
	Child     *PolicyUnion
}

func (p *PolicyAcrossTable) Serialize(v traits.Visitor) {
	v.Int32(&p.Count)
	v.Dynamic(&p.AttribKey)
	if p.Child == nil {
		p.Child = &PolicyUnion{Kind: -1}
	}
	v.Union(p.Child)
}

// PolicyBox wraps one Policy as a single-field table, so a PolicyUnion can
// sit inside a vector slot (which only ever holds table/vector/dynamic
// elements) — the same one-field-table indirection idea as union.
// EnsureTable, generalized from "non-table union alternative" to "union
// value used where only a table fits".
type PolicyBox struct {
	Value *PolicyUnion
}

func (b *PolicyBox) Serialize(v traits.Visitor) {
	if b.Value == nil {
		b.Value = &PolicyUnion{Kind: -1}
	}
	v.Union(b.Value)
}

// PolicyVector is a traits.VectorValue of *PolicyBox: PolicyAnd's list of
// sub-policies.
type PolicyVector struct {
	Items []*PolicyBox
}

func (v *PolicyVector) Len() int             { return len(v.Items) }
func (v *PolicyVector) ElemKind() traits.Kind { return traits.KindTable }
func (v *PolicyVector) ElemStride() int       { return 4 }
func (v *PolicyVector) VisitElem(vis traits.Visitor, i int) {
	vis.Table(traits.TableField[PolicyBox](&v.Items[i]))
}
func (v *PolicyVector) Grow(n int) int {
	start := len(v.Items)
	v.Items = append(v.Items, make([]*PolicyBox, n)...)
	return start
}

// PolicyAndTable mirrors PolicyAnd: conjunction over a list of
// sub-policies.
type PolicyAndTable struct {
	Policies PolicyVector
}

func (p *PolicyAndTable) Serialize(v traits.Visitor) {
	v.Vector(&p.Policies)
}

// PolicyUnion is the traits.UnionValue tying the three alternatives
// together. Kind == -1 means empty.
type PolicyUnion struct {
	Kind   int
	One    *PolicyOneTable
	Across *PolicyAcrossTable
	And    *PolicyAndTable
}

func (u *PolicyUnion) ActiveIndex() int     { return u.Kind }
func (u *PolicyUnion) NumAlternatives() int { return 3 }

func (u *PolicyUnion) Alternative() traits.TableValue {
	switch u.Kind {
	case PolicyKindOne:
		return u.One
	case PolicyKindAcross:
		return u.Across
	case PolicyKindAnd:
		return u.And
	default:
		return nil
	}
}

func (u *PolicyUnion) SetAlternative(i int) traits.TableValue {
	u.Kind = i
	switch i {
	case PolicyKindOne:
		u.One = &PolicyOneTable{}
		return u.One
	case PolicyKindAcross:
		u.Across = &PolicyAcrossTable{}
		return u.Across
	case PolicyKindAnd:
		u.And = &PolicyAndTable{}
		return u.And
	default:
		return nil
	}
}

// PolicyMessage is a root table wrapping a single PolicyUnion field,
// exercising the union/variant codec directly at the root.
type PolicyMessage struct {
	Root *PolicyUnion
}

func (m *PolicyMessage) Serialize(v traits.Visitor) {
	if m.Root == nil {
		m.Root = &PolicyUnion{Kind: -1}
	}
	v.Union(m.Root)
}

func init() {
	traits.RegisterTable(typeOf((*PolicyOneTable)(nil)))
	traits.RegisterTable(typeOf((*PolicyAcrossTable)(nil)))
	traits.RegisterTable(typeOf((*PolicyAndTable)(nil)))
	traits.RegisterTable(typeOf((*PolicyBox)(nil)))
	traits.RegisterVector(typeOf((*PolicyVector)(nil)))
	traits.RegisterUnion(typeOf((*PolicyUnion)(nil)))
	traits.RegisterTable(typeOf((*PolicyMessage)(nil)))
}
