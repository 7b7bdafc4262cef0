// The ordered disk format: one Arrow file per entity, next to a
// type_name file and a _SUCCESS marker.

package main

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/apache/arrow/go/arrow"
	"github.com/apache/arrow/go/arrow/array"
	"github.com/apache/arrow/go/arrow/ipc"
	"github.com/apache/arrow/go/arrow/memory"
	"github.com/juju/errors"
)

var arrowAllocator = memory.NewGoAllocator()

// ArrowEntity is an entity with an Arrow record form for the ordered
// representation.
type ArrowEntity interface {
	Entity
	toOrderedRecord() array.Record
	readFromOrdered(rec array.Record) error
}

var vertexSchema = arrow.NewSchema(
	[]arrow.Field{{Name: "sparkId", Type: arrow.PrimitiveTypes.Int64}}, nil)

func (v *VertexSet) toOrderedRecord() array.Record {
	b := array.NewRecordBuilder(arrowAllocator, vertexSchema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues(v.MappingToUnordered, nil)
	return b.NewRecord()
}

func (v *VertexSet) readFromOrdered(rec array.Record) error {
	ids := rec.Column(0).(*array.Int64).Int64Values()
	v.MappingToUnordered = append([]int64(nil), ids...)
	return nil
}

var edgeSchema = arrow.NewSchema(
	[]arrow.Field{
		{Name: "src", Type: arrow.PrimitiveTypes.Int64},
		{Name: "dst", Type: arrow.PrimitiveTypes.Int64},
		{Name: "sparkId", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

func (eb *EdgeBundle) toOrderedRecord() array.Record {
	b := array.NewRecordBuilder(arrowAllocator, edgeSchema)
	defer b.Release()
	src := b.Field(0).(*array.Int64Builder)
	dst := b.Field(1).(*array.Int64Builder)
	id := b.Field(2).(*array.Int64Builder)
	for i := range eb.Src {
		src.Append(int64(eb.Src[i]))
		dst.Append(int64(eb.Dst[i]))
		id.Append(eb.EdgeMapping[i])
	}
	return b.NewRecord()
}

func (eb *EdgeBundle) readFromOrdered(rec array.Record) error {
	src := rec.Column(0).(*array.Int64).Int64Values()
	dst := rec.Column(1).(*array.Int64).Int64Values()
	ids := rec.Column(2).(*array.Int64).Int64Values()
	n := len(ids)
	eb.Src = make([]VertexId, n)
	eb.Dst = make([]VertexId, n)
	eb.EdgeMapping = make([]int64, n)
	for i := 0; i < n; i++ {
		eb.Src[i] = VertexId(src[i])
		eb.Dst[i] = VertexId(dst[i])
		eb.EdgeMapping[i] = ids[i]
	}
	return nil
}

func attributeSchema(valueType arrow.DataType) *arrow.Schema {
	return arrow.NewSchema(
		[]arrow.Field{
			{Name: "value", Type: valueType},
			{Name: "defined", Type: arrow.FixedWidthTypes.Boolean},
		}, nil)
}

var doubleAttributeSchema = attributeSchema(arrow.PrimitiveTypes.Float64)
var longAttributeSchema = attributeSchema(arrow.PrimitiveTypes.Int64)
var stringAttributeSchema = attributeSchema(arrow.BinaryTypes.String)

func (a *DoubleAttribute) toOrderedRecord() array.Record {
	b := array.NewRecordBuilder(arrowAllocator, doubleAttributeSchema)
	defer b.Release()
	b.Field(0).(*array.Float64Builder).AppendValues(a.Values, nil)
	b.Field(1).(*array.BooleanBuilder).AppendValues(a.Defined, nil)
	return b.NewRecord()
}

func (a *DoubleAttribute) readFromOrdered(rec array.Record) error {
	values := rec.Column(0).(*array.Float64).Float64Values()
	defined := rec.Column(1).(*array.Boolean)
	a.Values = append([]float64(nil), values...)
	a.Defined = make([]bool, defined.Len())
	for i := range a.Defined {
		a.Defined[i] = defined.Value(i)
	}
	return nil
}

func (a *LongAttribute) toOrderedRecord() array.Record {
	b := array.NewRecordBuilder(arrowAllocator, longAttributeSchema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues(a.Values, nil)
	b.Field(1).(*array.BooleanBuilder).AppendValues(a.Defined, nil)
	return b.NewRecord()
}

func (a *LongAttribute) readFromOrdered(rec array.Record) error {
	values := rec.Column(0).(*array.Int64).Int64Values()
	defined := rec.Column(1).(*array.Boolean)
	a.Values = append([]int64(nil), values...)
	a.Defined = make([]bool, defined.Len())
	for i := range a.Defined {
		a.Defined[i] = defined.Value(i)
	}
	return nil
}

func (a *StringAttribute) toOrderedRecord() array.Record {
	b := array.NewRecordBuilder(arrowAllocator, stringAttributeSchema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).AppendValues(a.Values, nil)
	b.Field(1).(*array.BooleanBuilder).AppendValues(a.Defined, nil)
	return b.NewRecord()
}

func (a *StringAttribute) readFromOrdered(rec array.Record) error {
	values := rec.Column(0).(*array.String)
	defined := rec.Column(1).(*array.Boolean)
	a.Values = make([]string, values.Len())
	a.Defined = make([]bool, defined.Len())
	for i := range a.Values {
		a.Values[i] = values.Value(i)
		a.Defined[i] = defined.Value(i)
	}
	return nil
}

func saveToOrderedDisk(e Entity, dataDir string, guid GUID) error {
	log.Printf("saveToOrderedDisk guid %v", guid)
	typeName := e.typeName()
	dirName := fmt.Sprintf("%v/%v", dataDir, guid)
	_ = os.Mkdir(dirName, 0775)
	typeFName := fmt.Sprintf("%v/type_name", dirName)
	typeFile, err := os.Create(typeFName)
	if err != nil {
		return errors.Trace(err)
	}
	tfw := bufio.NewWriter(typeFile)
	if _, err := tfw.WriteString(typeName); err != nil {
		return errors.Annotate(err, "creating type file")
	}
	tfw.Flush()
	switch e := e.(type) {
	case ArrowEntity:
		onDisk, err := hasOnDisk(dataDir, guid)
		if err != nil {
			return errors.Trace(err)
		}
		if onDisk {
			log.Printf("guid %v is already on disk", guid)
			return nil
		}
		fname := fmt.Sprintf("%v/data.arrow", dirName)
		successFile := fmt.Sprintf("%v/_SUCCESS", dirName)
		f, err := os.Create(fname)
		if err != nil {
			return errors.Annotate(err, "creating Arrow file")
		}
		rec := e.toOrderedRecord()
		defer rec.Release()
		w, err := ipc.NewFileWriter(
			f, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(arrowAllocator))
		if err != nil {
			return errors.Annotate(err, "creating Arrow writer")
		}
		if err = w.Write(rec); err != nil {
			return errors.Annotate(err, "writing Arrow file")
		}
		if err = w.Close(); err != nil {
			return errors.Annotate(err, "writing Arrow file")
		}
		if err = f.Close(); err != nil {
			return errors.Annotate(err, "writing Arrow file")
		}
		if err = ioutil.WriteFile(successFile, nil, 0775); err != nil {
			return errors.Annotate(err, "writing success file")
		}
		return nil
	case *Scalar:
		return e.write(dirName)
	default:
		return errors.Errorf("can't write entity with GUID %v to ordered disk", guid)
	}
}

func loadFromOrderedDisk(dataDir string, guid GUID) (Entity, error) {
	log.Printf("loadFromOrderedDisk: %v", guid)
	dirName := fmt.Sprintf("%v/%v", dataDir, guid)
	typeFName := fmt.Sprintf("%v/type_name", dirName)
	typeData, err := ioutil.ReadFile(typeFName)
	if err != nil {
		return nil, errors.Annotatef(err, "reading type of %v", dirName)
	}
	e, err := createEntity(string(typeData))
	if err != nil {
		return nil, errors.Trace(err)
	}
	switch e := e.(type) {
	case ArrowEntity:
		fname := fmt.Sprintf("%v/data.arrow", dirName)
		onDisk, err := hasOnDisk(dataDir, guid)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if !onDisk {
			return nil, errors.Errorf("path is not present: %v", dirName)
		}
		f, err := os.Open(fname)
		if err != nil {
			return nil, errors.Trace(err)
		}
		defer f.Close()
		r, err := ipc.NewFileReader(f, ipc.WithAllocator(arrowAllocator))
		if err != nil {
			return nil, errors.Annotatef(err, "opening %v", dirName)
		}
		defer r.Close()
		// Zero records for empty entities, one otherwise. Never more.
		if r.NumRecords() == 1 {
			rec, err := r.Record(0)
			if err != nil {
				return nil, errors.Annotatef(err, "reading %v", dirName)
			}
			defer rec.Release()
			if err = e.readFromOrdered(rec); err != nil {
				return nil, errors.Annotatef(err, "reading %v", dirName)
			}
		} else if r.NumRecords() > 1 {
			return nil, errors.Errorf("%v has %v records, expected 1", dirName, r.NumRecords())
		}
	case *Scalar:
		*e, err = readScalar(dirName)
		if err != nil {
			return nil, errors.Trace(err)
		}
	default:
		return nil, errors.Errorf("failed to read entity with GUID %v from ordered disk", guid)
	}
	return e, nil
}

func hasOnDisk(dataDir string, guid GUID) (bool, error) {
	filename := fmt.Sprintf("%v/%v/_SUCCESS", dataDir, guid)
	_, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
