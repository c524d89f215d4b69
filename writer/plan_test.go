package writer

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsfard/foundationdb/traits"
)

func typeOf(zero interface{}) reflect.Type { return reflect.TypeOf(zero).Elem() }

// planLeaf and planMid form a two-level nested table fixture used to pin
// down p.addrs ordering directly, independent of any particular
// pkg/fdbmsg type's field layout.
type planLeaf struct{ X int64 }

func (l *planLeaf) Serialize(v traits.Visitor) { v.Int64(&l.X) }

type planMid struct{ Child *planLeaf }

func (m *planMid) Serialize(v traits.Visitor) {
	v.Table(traits.TableField[planLeaf](&m.Child))
}

type planTop struct{ Mid *planMid }

func (t *planTop) Serialize(v traits.Visitor) {
	v.Table(traits.TableField[planMid](&t.Mid))
}

func init() {
	traits.RegisterTable(typeOf((*planLeaf)(nil)))
	traits.RegisterTable(typeOf((*planMid)(nil)))
	traits.RegisterTable(typeOf((*planTop)(nil)))
}

// A Mid table nested inside a Top table must have its own address appended
// to p.addrs before planTable recurses into Mid's fields and reserves
// Leaf's address — otherwise pass 2, which consumes nextAddr() before
// recursing, would hand Leaf's address to the Mid field slot.
func TestSizeVisitorAppendsParentAddressBeforeRecursing(t *testing.T) {
	p := newPlanner()
	top := &planTop{Mid: &planMid{Child: &planLeaf{X: 7}}}

	rootAddr := p.planTable(top)

	require.Len(t, p.addrs, 2, "one address for the Mid field, one for the Child field")
	midAddr, leafAddr := p.addrs[0], p.addrs[1]

	require.Less(t, rootAddr, midAddr, "Top's own frame must precede Mid's")
	require.Less(t, midAddr, leafAddr, "Mid's own frame must precede Leaf's")
}

// planLeaf carries an int64 field, so its table's required alignment is 8;
// reserving it after an odd-sized frame must still land it on an 8-byte
// boundary.
func TestReserveAlignsFrameStart(t *testing.T) {
	p := newPlanner()
	p.reserve(1, 1) // unaligned filler, puts the cursor at an odd offset

	top := &planTop{Mid: &planMid{Child: &planLeaf{X: 7}}}
	p.planTable(top)

	leafAddr := p.addrs[1]
	require.Zero(t, leafAddr%8, "planLeaf's int64 field requires its table frame 8-byte aligned")
}
