package vtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateInternsIdenticalShapes(t *testing.T) {
	a := Generate([]Field{{Size: 4, Align: 4, Present: true}, {Size: 8, Align: 8, Present: true}})
	b := Generate([]Field{{Size: 4, Align: 4, Present: true}, {Size: 8, Align: 8, Present: true}})
	require.Same(t, a, b, "identical field shapes must share one interned VTable")
}

func TestGenerateDistinguishesShapes(t *testing.T) {
	a := Generate([]Field{{Size: 4, Align: 4, Present: true}})
	b := Generate([]Field{{Size: 8, Align: 8, Present: true}})
	require.NotSame(t, a, b)
}

func TestBuildOrdersFieldsByDescendingAlignment(t *testing.T) {
	// Field 0 (1-byte) declared before field 1 (8-byte): the 8-byte field
	// must be placed first in the table's field area.
	vt := build([]Field{
		{Size: 1, Align: 1, Present: true},
		{Size: 8, Align: 8, Present: true},
	})
	require.Less(t, vt.FieldOffsets[1], vt.FieldOffsets[0], "more-aligned field must be placed first")
}

func TestBuildRightAlignsTableLength(t *testing.T) {
	vt := build([]Field{{Size: 1, Align: 1, Present: true}, {Size: 8, Align: 8, Present: true}})
	require.Zero(t, vt.TableLength%8, "table length must be right-aligned to the max field alignment")
}

func TestBuildEmitsCorrectVTableLength(t *testing.T) {
	vt := build([]Field{
		{Size: 4, Align: 4, Present: true},
		{Size: 4, Align: 4, Present: true},
		{Size: 4, Align: 4, Present: true},
	})
	// vtable_length = 2 * (2 + n) bytes.
	require.Len(t, vt.Bytes, 2*(2+3))
}
