// Helper methods to read and write entities.
package main

import (
	"bufio"
	"io/ioutil"
	"os"

	"github.com/juju/errors"
)

type Entity interface {
	typeName() string // This will help deserializing a serialized entity
	estimatedMemUsage() int
}

// TabularEntity is an entity with a parquet row form for the unordered
// (Spark id based) representation.
type TabularEntity interface {
	Entity
	unorderedRow() interface{}
}

func (_ *Scalar) typeName() string {
	return "Scalar"
}
func (_ *VertexSet) typeName() string {
	return "VertexSet"
}
func (_ *EdgeBundle) typeName() string {
	return "EdgeBundle"
}
func (_ *DoubleAttribute) typeName() string {
	return "DoubleAttribute"
}
func (_ *LongAttribute) typeName() string {
	return "LongAttribute"
}
func (_ *StringAttribute) typeName() string {
	return "StringAttribute"
}

func createEntity(typeName string) (Entity, error) {
	switch typeName {
	case "VertexSet":
		return &VertexSet{}, nil
	case "EdgeBundle":
		return &EdgeBundle{}, nil
	case "Scalar":
		return &Scalar{}, nil
	case "DoubleAttribute":
		return &DoubleAttribute{}, nil
	case "LongAttribute":
		return &LongAttribute{}, nil
	case "StringAttribute":
		return &StringAttribute{}, nil
	default:
		return nil, errors.Errorf("unknown entity to load: %v", typeName)
	}
}

type UnorderedVertexRow struct {
	Id int64 `parquet:"name=id, type=INT64"`
}

func (_ *VertexSet) unorderedRow() interface{} {
	return new(UnorderedVertexRow)
}
func (v *VertexSet) toUnorderedRows() []interface{} {
	rows := make([]interface{}, len(v.MappingToUnordered))
	for i, id := range v.MappingToUnordered {
		rows[i] = UnorderedVertexRow{Id: id}
	}
	return rows
}

type UnorderedEdgeRow struct {
	Id  int64 `parquet:"name=id, type=INT64"`
	Src int64 `parquet:"name=src, type=INT64"`
	Dst int64 `parquet:"name=dst, type=INT64"`
}

func (_ *EdgeBundle) unorderedRow() interface{} {
	return new(UnorderedEdgeRow)
}
func (eb *EdgeBundle) toUnorderedRows(vs1 *VertexSet, vs2 *VertexSet) []interface{} {
	rows := make([]interface{}, len(eb.EdgeMapping))
	for i, sparkId := range eb.EdgeMapping {
		rows[i] = UnorderedEdgeRow{
			Id:  sparkId,
			Src: vs1.MappingToUnordered[eb.Src[i]],
			Dst: vs2.MappingToUnordered[eb.Dst[i]],
		}
	}
	return rows
}

type UnorderedDoubleRow struct {
	Id    int64   `parquet:"name=id, type=INT64"`
	Value float64 `parquet:"name=value, type=DOUBLE"`
}

func (_ *DoubleAttribute) unorderedRow() interface{} {
	return new(UnorderedDoubleRow)
}
func (a *DoubleAttribute) toUnorderedRows(vs *VertexSet) []interface{} {
	rows := make([]interface{}, 0, len(a.Values))
	for i, v := range a.Values {
		if a.Defined[i] {
			rows = append(rows, UnorderedDoubleRow{Id: vs.MappingToUnordered[i], Value: v})
		}
	}
	return rows
}

type UnorderedLongRow struct {
	Id    int64 `parquet:"name=id, type=INT64"`
	Value int64 `parquet:"name=value, type=INT64"`
}

func (_ *LongAttribute) unorderedRow() interface{} {
	return new(UnorderedLongRow)
}
func (a *LongAttribute) toUnorderedRows(vs *VertexSet) []interface{} {
	rows := make([]interface{}, 0, len(a.Values))
	for i, v := range a.Values {
		if a.Defined[i] {
			rows = append(rows, UnorderedLongRow{Id: vs.MappingToUnordered[i], Value: v})
		}
	}
	return rows
}

type UnorderedStringRow struct {
	Id    int64  `parquet:"name=id, type=INT64"`
	Value string `parquet:"name=value, type=UTF8"`
}

func (_ *StringAttribute) unorderedRow() interface{} {
	return new(UnorderedStringRow)
}
func (a *StringAttribute) toUnorderedRows(vs *VertexSet) []interface{} {
	rows := make([]interface{}, 0, len(a.Values))
	for i, v := range a.Values {
		if a.Defined[i] {
			rows = append(rows, UnorderedStringRow{Id: vs.MappingToUnordered[i], Value: v})
		}
	}
	return rows
}

func (s *Scalar) write(dirName string) error {
	fname := dirName + "/serialized_data"
	f, err := os.Create(fname)
	if err != nil {
		return errors.Annotate(err, "writing scalar")
	}
	defer f.Close()
	fw := bufio.NewWriter(f)
	if _, err := fw.Write([]byte(*s)); err != nil {
		return errors.Annotate(err, "writing scalar")
	}
	fw.Flush()
	successFile := dirName + "/_SUCCESS"
	if err := ioutil.WriteFile(successFile, nil, 0775); err != nil {
		return errors.Annotate(err, "writing success file")
	}
	return nil
}

func readScalar(dirName string) (Scalar, error) {
	fname := dirName + "/serialized_data"
	jsonEncoding, err := ioutil.ReadFile(fname)
	if err != nil {
		return nil, errors.Annotate(err, "reading scalar")
	}
	return Scalar(jsonEncoding), nil
}
