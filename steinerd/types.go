// Types shared by the steinerd operations.
package main

import (
	"encoding/json"
	"sync"

	"github.com/juju/errors"
)

type GUID string
type VertexId uint32

type OperationDescription struct {
	Class string
	Data  map[string]interface{}
}

type OperationInstance struct {
	GUID      GUID
	Inputs    map[string]GUID
	Outputs   map[string]GUID
	Operation OperationDescription
}

type VertexSet struct {
	sync.Mutex
	MappingToUnordered []int64
	MappingToOrdered   map[int64]VertexId
}

func (vs *VertexSet) GetMappingToOrdered() map[int64]VertexId {
	vs.Lock()
	defer vs.Unlock()
	if vs.MappingToOrdered == nil {
		vs.MappingToOrdered = make(map[int64]VertexId, len(vs.MappingToUnordered))
		for i, j := range vs.MappingToUnordered {
			vs.MappingToOrdered[j] = VertexId(i)
		}
	}
	return vs.MappingToOrdered
}

type EdgeBundle struct {
	Src         []VertexId
	Dst         []VertexId
	EdgeMapping []int64
}

func NewEdgeBundle(size int, maxSize int) *EdgeBundle {
	return &EdgeBundle{
		Src:         make([]VertexId, size, maxSize),
		Dst:         make([]VertexId, size, maxSize),
		EdgeMapping: make([]int64, size, maxSize),
	}
}

type DoubleAttribute struct {
	Values  []float64
	Defined []bool
}

type LongAttribute struct {
	Values  []int64
	Defined []bool
}

type StringAttribute struct {
	Values  []string
	Defined []bool
}

// A scalar is stored as its JSON encoding. If you need the real value,
// unmarshal it for yourself.
type Scalar []byte

func ScalarFrom(value interface{}) (Scalar, error) {
	jsonEncoding, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Annotate(err, "marshaling scalar")
	}
	return Scalar(jsonEncoding), nil
}

func (scalar *Scalar) LoadTo(dst interface{}) error {
	if err := json.Unmarshal([]byte(*scalar), dst); err != nil {
		return errors.Annotate(err, "unmarshaling scalar")
	}
	return nil
}
