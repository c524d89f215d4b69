package union

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsfard/foundationdb/traits"
)

type capturingVisitor struct {
	traits.Visitor
	gotInt32 *int32
}

func (c *capturingVisitor) Int32(p *int32) { c.gotInt32 = p }

func TestScalarTableWrapsValue(t *testing.T) {
	w := NewScalarTable(int32(42), func(v traits.Visitor, p *int32) { v.Int32(p) })
	cv := &capturingVisitor{}
	w.Serialize(cv)
	require.Equal(t, int32(42), *cv.gotInt32)
}

func TestMaxAlternativesMatchesSpec(t *testing.T) {
	require.Equal(t, 254, MaxAlternatives)
}
