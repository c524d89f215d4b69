package writer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsfard/foundationdb/flatbuffers/alloc"
	"github.com/nsfard/foundationdb/pkg/fdbmsg"
	"github.com/nsfard/foundationdb/reader"
)

func TestSaveLoadScalarAndDynamicFields(t *testing.T) {
	want := &fdbmsg.EventGet{
		Type:      fdbmsg.EventGetLatency,
		StartTs:   1234.5,
		Latency:   0.002,
		ValueSize: 128,
		Key:       fdbmsg.DynString{S: "hello/key"},
	}
	buf, err := Save(alloc.NewGoAllocator(), want, fdbmsg.FileIDEventGet)
	require.NoError(t, err)

	got := &fdbmsg.EventGet{}
	require.NoError(t, reader.Load(buf, fdbmsg.FileIDEventGet, got))

	require.Equal(t, want.Type, got.Type)
	require.Equal(t, want.StartTs, got.StartTs)
	require.Equal(t, want.Latency, got.Latency)
	require.Equal(t, want.ValueSize, got.ValueSize)
	require.Equal(t, want.Key.S, got.Key.S)
}

func TestSaveLoadNestedTablesAndVectors(t *testing.T) {
	want := &fdbmsg.StorageServerInterface{
		Address: fdbmsg.DynString{S: "10.0.0.1:4500"},
		ShardBoundaries: fdbmsg.StringVector{Items: []fdbmsg.DynString{
			{S: ""}, {S: "a"}, {S: "m"}, {S: "z"},
		}},
		Endpoints: fdbmsg.EndpointVector{Items: []*fdbmsg.Endpoint{
			{Address: fdbmsg.DynString{S: "10.0.0.2"}, Port: 4500},
			{Address: fdbmsg.DynString{S: "10.0.0.3"}, Port: 4501},
		}},
	}
	buf, err := Save(alloc.NewGoAllocator(), want, fdbmsg.FileIDStorageServerInterface)
	require.NoError(t, err)

	got := &fdbmsg.StorageServerInterface{}
	require.NoError(t, reader.Load(buf, fdbmsg.FileIDStorageServerInterface, got))

	require.Equal(t, want.Address.S, got.Address.S)
	require.Len(t, got.ShardBoundaries.Items, len(want.ShardBoundaries.Items))
	for i, s := range want.ShardBoundaries.Items {
		require.Equal(t, s.S, got.ShardBoundaries.Items[i].S)
	}
	require.Len(t, got.Endpoints.Items, len(want.Endpoints.Items))
	for i, e := range want.Endpoints.Items {
		require.Equal(t, e.Address.S, got.Endpoints.Items[i].Address.S)
		require.Equal(t, e.Port, got.Endpoints.Items[i].Port)
	}
}

func TestSaveLoadLargeMap(t *testing.T) {
	const n = 1000
	items := make([]*fdbmsg.StringPair, n)
	for i := range items {
		items[i] = &fdbmsg.StringPair{
			Key:   fdbmsg.DynString{S: keyFor(i)},
			Value: fdbmsg.DynString{S: keyFor(i) + "-value"},
		}
	}
	want := &fdbmsg.StorageServerInterface{
		Address: fdbmsg.DynString{S: "big-map-host"},
		Tags:    fdbmsg.StringPairVector{Items: items},
	}
	buf, err := Save(alloc.NewGoAllocator(), want, fdbmsg.FileIDStorageServerInterface)
	require.NoError(t, err)

	got := &fdbmsg.StorageServerInterface{}
	require.NoError(t, reader.Load(buf, fdbmsg.FileIDStorageServerInterface, got))
	require.Len(t, got.Tags.Items, n)
	require.Equal(t, items[999].Key.S, got.Tags.Items[999].Key.S)
	require.Equal(t, items[999].Value.S, got.Tags.Items[999].Value.S)
}

func keyFor(i int) string {
	digits := "0123456789"
	s := make([]byte, 0, 8)
	if i == 0 {
		return "0"
	}
	for i > 0 {
		s = append([]byte{digits[i%10]}, s...)
		i /= 10
	}
	return string(s)
}

func TestSaveLoadUnion(t *testing.T) {
	want := &fdbmsg.PolicyMessage{
		Root: &fdbmsg.PolicyUnion{
			Kind: fdbmsg.PolicyKindAcross,
			Across: &fdbmsg.PolicyAcrossTable{
				Count:     3,
				AttribKey: fdbmsg.DynString{S: "zoneid"},
				Child: &fdbmsg.PolicyUnion{
					Kind: fdbmsg.PolicyKindAnd,
					And: &fdbmsg.PolicyAndTable{
						Policies: fdbmsg.PolicyVector{Items: []*fdbmsg.PolicyBox{
							{Value: &fdbmsg.PolicyUnion{Kind: fdbmsg.PolicyKindOne, One: &fdbmsg.PolicyOneTable{}}},
							{Value: &fdbmsg.PolicyUnion{Kind: fdbmsg.PolicyKindOne, One: &fdbmsg.PolicyOneTable{}}},
						}},
					},
				},
			},
		},
	}
	buf, err := Save(alloc.NewGoAllocator(), want, fdbmsg.FileIDPolicyMessage)
	require.NoError(t, err)

	got := &fdbmsg.PolicyMessage{}
	require.NoError(t, reader.Load(buf, fdbmsg.FileIDPolicyMessage, got))

	require.Equal(t, fdbmsg.PolicyKindAcross, got.Root.Kind)
	require.Equal(t, int32(3), got.Root.Across.Count)
	require.Equal(t, "zoneid", got.Root.Across.AttribKey.S)
	require.Equal(t, fdbmsg.PolicyKindAnd, got.Root.Across.Child.Kind)
	require.Len(t, got.Root.Across.Child.And.Policies.Items, 2)
	require.Equal(t, fdbmsg.PolicyKindOne, got.Root.Across.Child.And.Policies.Items[0].Value.Kind)
}

func TestSaveLoadEmptyUnionIsPreserved(t *testing.T) {
	want := &fdbmsg.PolicyMessage{Root: &fdbmsg.PolicyUnion{Kind: -1}}
	buf, err := Save(alloc.NewGoAllocator(), want, fdbmsg.FileIDPolicyMessage)
	require.NoError(t, err)

	got := &fdbmsg.PolicyMessage{}
	require.NoError(t, reader.Load(buf, fdbmsg.FileIDPolicyMessage, got))
	require.Equal(t, -1, got.Root.Kind)
}

func TestVTableIsSharedAcrossIdenticallyShapedTypes(t *testing.T) {
	ev := &fdbmsg.EventGetVersion{Type: 1, StartTs: 2, Latency: 3}
	ping := &fdbmsg.PingLatency{Type: 1, StartTs: 2, Latency: 3}
	require.Same(t, vtableFor(ev), vtableFor(ping), "identically shaped table types must share one interned VTable")
}
