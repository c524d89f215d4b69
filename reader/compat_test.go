package reader

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsfard/foundationdb/flatbuffers/alloc"
	"github.com/nsfard/foundationdb/traits"
	"github.com/nsfard/foundationdb/writer"
)

func typeOf(zero interface{}) reflect.Type { return reflect.TypeOf(zero).Elem() }

const compatFileID uint32 = 0x434f4d50 // "COMP"

// widerTable and narrowerTable share a common field prefix (Type, Note) —
// widerTable declares one extra trailing field, exercising forward/backward
// compatibility in both directions.
type widerTable struct {
	Type  int32
	Note  dynStr
	Extra int64
}

func (w *widerTable) Serialize(v traits.Visitor) {
	v.Int32(&w.Type)
	v.Dynamic(&w.Note)
	v.Int64(&w.Extra)
}

type narrowerTable struct {
	Type int32
	Note dynStr
}

func (n *narrowerTable) Serialize(v traits.Visitor) {
	v.Int32(&n.Type)
	v.Dynamic(&n.Note)
}

type dynStr struct{ s string }

func (d *dynStr) Bytes() []byte { return []byte(d.s) }
func (d *dynStr) Load(src []byte) {
	d.s = string(src)
}

func init() {
	traits.RegisterTable(typeOf((*widerTable)(nil)))
	traits.RegisterTable(typeOf((*narrowerTable)(nil)))
}

func TestForwardCompatibilityIgnoresTrailingFields(t *testing.T) {
	sent := &widerTable{Type: 7, Note: dynStr{s: "n"}, Extra: 99}
	buf, err := writer.Save(alloc.NewGoAllocator(), sent, compatFileID)
	require.NoError(t, err)

	got := &narrowerTable{}
	require.NoError(t, Load(buf, compatFileID, got))
	require.Equal(t, int32(7), got.Type)
	require.Equal(t, "n", got.Note.s)
}

func TestBackwardCompatibilityDefaultsMissingFields(t *testing.T) {
	sent := &narrowerTable{Type: 7, Note: dynStr{s: "n"}}
	buf, err := writer.Save(alloc.NewGoAllocator(), sent, compatFileID)
	require.NoError(t, err)

	got := &widerTable{Extra: -1}
	require.NoError(t, Load(buf, compatFileID, got))
	require.Equal(t, int32(7), got.Type)
	require.Equal(t, "n", got.Note.s)
	require.Equal(t, int64(-1), got.Extra, "absent trailing field must be left untouched by the reader")
}

func TestLoadRejectsTruncatedBuffer(t *testing.T) {
	err := Load(make([]byte, 2), compatFileID, &narrowerTable{})
	require.Error(t, err)
}
