package traits

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsfard/foundationdb/ferr"
)

type conflictingType struct{}

func TestCheckConflictsDetectsDoubleRegistration(t *testing.T) {
	rt := reflect.TypeOf(conflictingType{})
	RegisterTable(rt)
	RegisterVector(rt)

	err := CheckConflicts()
	require.Error(t, err)
	require.True(t, ferr.Is(err, ferr.DuplicateTraits))
}

type soleType struct{}

func TestRegisterIsIdempotent(t *testing.T) {
	rt := reflect.TypeOf(soleType{})
	RegisterStruct(rt)
	RegisterStruct(rt)

	k, ok := KindOf(rt)
	require.True(t, ok)
	require.Equal(t, KindStruct, k)
}

type intSlot struct{ child *intSlot }

func (intSlot) Serialize(Visitor) {}

func TestTableFieldReflectsNilAsAbsent(t *testing.T) {
	var child *intSlot
	slot := TableField[intSlot](&child)
	require.Nil(t, slot.Get())

	got := slot.New()
	require.NotNil(t, got)
	require.NotNil(t, child)
	require.Equal(t, TableValue(child), got)
}
