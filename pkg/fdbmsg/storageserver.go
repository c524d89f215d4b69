package fdbmsg

import "github.com/nsfard/foundationdb/traits"

// FileIDStorageServerInterface is StorageServerInterface's root file
// identifier.
const FileIDStorageServerInterface uint32 = 0x53534946 // "SSIF"

// Endpoint is a minimal stand-in for a RequestStream endpoint: a network
// address and port, reachable as a table so EndpointVector can exercise
// vector-of-table.
type Endpoint struct {
	Address DynString
	Port    int32
}

func (e *Endpoint) Serialize(v traits.Visitor) {
	v.Dynamic(&e.Address)
	v.Int32(&e.Port)
}

// EndpointVector is a traits.VectorValue of *Endpoint: a server's list of
// known endpoints.
type EndpointVector struct {
	Items []*Endpoint
}

func (v *EndpointVector) Len() int             { return len(v.Items) }
func (v *EndpointVector) ElemKind() traits.Kind { return traits.KindTable }
func (v *EndpointVector) ElemStride() int       { return 4 }
func (v *EndpointVector) VisitElem(vis traits.Visitor, i int) {
	vis.Table(traits.TableField[Endpoint](&v.Items[i]))
}
func (v *EndpointVector) Grow(n int) int {
	start := len(v.Items)
	v.Items = append(v.Items, make([]*Endpoint, n)...)
	return start
}

// StringPair is a table wrapping one key/value string pair, used to encode
// a map as a vector of pairs.
type StringPair struct {
	Key   DynString
	Value DynString
}

func (p *StringPair) Serialize(v traits.Visitor) {
	v.Dynamic(&p.Key)
	v.Dynamic(&p.Value)
}

// StringPairVector is a traits.VectorValue of *StringPair: a map's wire
// encoding.
type StringPairVector struct {
	Items []*StringPair
}

func (v *StringPairVector) Len() int             { return len(v.Items) }
func (v *StringPairVector) ElemKind() traits.Kind { return traits.KindTable }
func (v *StringPairVector) ElemStride() int       { return 4 }
func (v *StringPairVector) VisitElem(vis traits.Visitor, i int) {
	vis.Table(traits.TableField[StringPair](&v.Items[i]))
}
func (v *StringPairVector) Grow(n int) int {
	start := len(v.Items)
	v.Items = append(v.Items, make([]*StringPair, n)...)
	return start
}

// StorageServerInterface mirrors the shape (not the full RPC surface) of a
// storage server's interface: an identifying address, the shard boundaries
// it serves, its peer endpoints, and a free-form string tag map.
type StorageServerInterface struct {
	Address         DynString
	ShardBoundaries StringVector
	Endpoints       EndpointVector
	Tags            StringPairVector
}

func (s *StorageServerInterface) Serialize(v traits.Visitor) {
	v.Dynamic(&s.Address)
	v.Vector(&s.ShardBoundaries)
	v.Vector(&s.Endpoints)
	v.Vector(&s.Tags)
}

func init() {
	traits.RegisterTable(typeOf((*Endpoint)(nil)))
	traits.RegisterVector(typeOf((*EndpointVector)(nil)))
	traits.RegisterTable(typeOf((*StringPair)(nil)))
	traits.RegisterVector(typeOf((*StringPairVector)(nil)))
	traits.RegisterTable(typeOf((*StorageServerInterface)(nil)))
}
