package flatbuffers

// StructLayout computes the per-field byte offsets, total size, and overall
// alignment of a struct whose field byte sizes are given in declaration
// order. Each field is right-aligned to its own size; the struct's own
// alignment is the max field alignment, rounded to a power of two and
// capped at 8; the total size is right-aligned to that.
//
// Struct nesting is forbidden — callers pass only scalar field sizes
// (1, 2, 4, or 8), never the size of a nested struct.
func StructLayout(fieldSizes []int) (offsets []int, size, align int) {
	offsets = make([]int, len(fieldSizes))
	cursor := 0
	align = 1
	for i, fs := range fieldSizes {
		a := AlignToPowerOfTwo(fs)
		if a > align {
			align = a
		}
		cursor = RightAlign(cursor, fs)
		offsets[i] = cursor
		cursor += fs
	}
	size = RightAlign(cursor, align)
	if size < 1 {
		size = 1
	}
	return offsets, size, align
}

// FieldVTableShape reports the (size, alignment) pair a table field
// contributes to its vtable's interning key: 4 bytes for any indirect class
// (table, vector, string, opaque bytes, and a union's offset slot), or the
// field's own natural size/alignment for scalar and struct fields.
func FieldVTableShape(indirect bool, inlineSize int) (size, align int) {
	if indirect {
		return SizeUOffsetT, SizeUOffsetT
	}
	return inlineSize, AlignToPowerOfTwo(inlineSize)
}
