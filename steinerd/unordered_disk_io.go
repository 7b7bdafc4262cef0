// Functions to read and write the unordered (Spark id based) disk
// format: one parquet file per entity, plus a _SUCCESS marker.

package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

const parquetThreads int64 = 4

func sortIds(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func toUnorderedRows(e TabularEntity, vs1 *VertexSet, vs2 *VertexSet) []interface{} {
	switch e := e.(type) {
	case *VertexSet:
		return e.toUnorderedRows()
	case *EdgeBundle:
		return e.toUnorderedRows(vs1, vs2)
	case *DoubleAttribute:
		return e.toUnorderedRows(vs1)
	case *LongAttribute:
		return e.toUnorderedRows(vs1)
	case *StringAttribute:
		return e.toUnorderedRows(vs1)
	default:
		panic(fmt.Sprintf("unhandled tabular entity %T", e))
	}
}

// writeToUnorderedDisk writes the cached entity under
// unorderedDataDir/guid. Attributes and edge bundles need the vertex
// sets they are defined on so their rows can carry Spark ids.
func (s *Server) writeToUnorderedDisk(guid GUID, vsguid1, vsguid2 GUID) error {
	entity, exists := s.entityCache.Get(guid)
	if !exists {
		return errors.Errorf("guid %v is missing", guid)
	}
	log.Printf("Writing %v %v to unordered disk.", entity.typeName(), guid)
	dirName := fmt.Sprintf("%v/%v", s.unorderedDataDir, guid)
	_ = os.Mkdir(dirName, 0775)
	fname := fmt.Sprintf("%v/part-00000.parquet", dirName)
	successFile := fmt.Sprintf("%v/_SUCCESS", dirName)
	switch e := entity.(type) {
	case TabularEntity:
		fw, err := local.NewLocalFileWriter(fname)
		if err != nil {
			return errors.Annotate(err, "creating parquet file")
		}
		defer fw.Close()
		pw, err := writer.NewParquetWriter(fw, e.unorderedRow(), parquetThreads)
		if err != nil {
			return errors.Annotate(err, "creating parquet writer")
		}
		var vs1, vs2 *VertexSet
		if vsguid1 != "" {
			if vs1, err = s.getVertexSet(vsguid1); err != nil {
				return errors.Trace(err)
			}
		}
		if vsguid2 != "" {
			if vs2, err = s.getVertexSet(vsguid2); err != nil {
				return errors.Trace(err)
			}
		}
		for _, row := range toUnorderedRows(e, vs1, vs2) {
			if err := pw.Write(row); err != nil {
				return errors.Annotate(err, "writing parquet file")
			}
		}
		if err := pw.WriteStop(); err != nil {
			return errors.Annotate(err, "closing parquet file")
		}
		if err := ioutil.WriteFile(successFile, nil, 0775); err != nil {
			return errors.Annotate(err, "writing success file")
		}
		return nil
	case *Scalar:
		return e.write(dirName)
	default:
		return errors.Errorf("can't write entity %v with GUID %v to unordered disk", entity, guid)
	}
}

func openPartFiles(dirName string) ([]source.ParquetFile, func(), error) {
	files, err := ioutil.ReadDir(dirName)
	if err != nil {
		return nil, nil, errors.Annotate(err, "reading directory")
	}
	fileReaders := make([]source.ParquetFile, 0, len(files))
	closeAll := func() {
		for _, fr := range fileReaders {
			fr.Close()
		}
	}
	for _, f := range files {
		fname := f.Name()
		if strings.HasPrefix(fname, "part-") && strings.HasSuffix(fname, ".parquet") {
			fr, err := local.NewLocalFileReader(fmt.Sprintf("%v/%v", dirName, fname))
			if err != nil {
				closeAll()
				return nil, nil, errors.Annotate(err, "opening parquet file")
			}
			fileReaders = append(fileReaders, fr)
		}
	}
	return fileReaders, closeAll, nil
}

func readVertexRows(fileReaders []source.ParquetFile) ([]UnorderedVertexRow, error) {
	var rows []UnorderedVertexRow
	for _, fr := range fileReaders {
		pr, err := reader.NewParquetReader(fr, new(UnorderedVertexRow), parquetThreads)
		if err != nil {
			return nil, errors.Annotate(err, "creating parquet reader")
		}
		partial := make([]UnorderedVertexRow, int(pr.GetNumRows()))
		if err := pr.Read(&partial); err != nil {
			return nil, errors.Annotate(err, "reading parquet file")
		}
		pr.ReadStop()
		rows = append(rows, partial...)
	}
	return rows, nil
}

func readEdgeRows(fileReaders []source.ParquetFile) ([]UnorderedEdgeRow, error) {
	var rows []UnorderedEdgeRow
	for _, fr := range fileReaders {
		pr, err := reader.NewParquetReader(fr, new(UnorderedEdgeRow), parquetThreads)
		if err != nil {
			return nil, errors.Annotate(err, "creating parquet reader")
		}
		partial := make([]UnorderedEdgeRow, int(pr.GetNumRows()))
		if err := pr.Read(&partial); err != nil {
			return nil, errors.Annotate(err, "reading parquet file")
		}
		pr.ReadStop()
		rows = append(rows, partial...)
	}
	return rows, nil
}

// translateIds rewrites Spark ids to ordered ids in place. ids must be
// sorted ascending; get/set access the id being translated.
func translateIds(mapping []int64, n int, get func(int) int64, set func(int, int64)) {
	for i, j := 0, 0; i < len(mapping) && j < n; {
		if mapping[i] == get(j) {
			set(j, int64(i))
			j++
		} else {
			i++
		}
	}
}

// readFromUnorderedDisk loads the entity under unorderedDataDir/guid
// into the cache, translating Spark ids to ordered ids.
func (s *Server) readFromUnorderedDisk(guid GUID, typeName string, vsguid1, vsguid2 GUID) error {
	dirName := fmt.Sprintf("%v/%v", s.unorderedDataDir, guid)
	log.Printf("Reading %v %v from unordered disk.", typeName, guid)
	entity, err := createEntity(typeName)
	if err != nil {
		return errors.Trace(err)
	}
	if _, isScalar := entity.(*Scalar); !isScalar {
		fileReaders, closeAll, err := openPartFiles(dirName)
		if err != nil {
			return errors.Trace(err)
		}
		defer closeAll()
		switch e := entity.(type) {
		case *VertexSet:
			rows, err := readVertexRows(fileReaders)
			if err != nil {
				return errors.Trace(err)
			}
			mappingToUnordered := make([]int64, len(rows))
			for i, v := range rows {
				mappingToUnordered[i] = v.Id
			}
			sortIds(mappingToUnordered)
			entity = &VertexSet{MappingToUnordered: mappingToUnordered}
		case *EdgeBundle:
			vs1, err := s.getVertexSet(vsguid1)
			if err != nil {
				return errors.Trace(err)
			}
			vs2, err := s.getVertexSet(vsguid2)
			if err != nil {
				return errors.Trace(err)
			}
			rows, err := readEdgeRows(fileReaders)
			if err != nil {
				return errors.Trace(err)
			}
			sort.Slice(rows, func(i, j int) bool { return rows[i].Src < rows[j].Src })
			translateIds(vs1.MappingToUnordered, len(rows),
				func(j int) int64 { return rows[j].Src },
				func(j int, v int64) { rows[j].Src = v })
			sort.Slice(rows, func(i, j int) bool { return rows[i].Dst < rows[j].Dst })
			translateIds(vs2.MappingToUnordered, len(rows),
				func(j int) int64 { return rows[j].Dst },
				func(j int, v int64) { rows[j].Dst = v })
			sort.Slice(rows, func(i, j int) bool { return rows[i].Id < rows[j].Id })
			es := NewEdgeBundle(len(rows), len(rows))
			for i, row := range rows {
				es.EdgeMapping[i] = row.Id
				es.Src[i] = VertexId(row.Src)
				es.Dst[i] = VertexId(row.Dst)
			}
			entity = es
		case *DoubleAttribute:
			if entity, err = s.readDoubleAttribute(fileReaders, vsguid1); err != nil {
				return errors.Trace(err)
			}
		case *LongAttribute:
			if entity, err = s.readLongAttribute(fileReaders, vsguid1); err != nil {
				return errors.Trace(err)
			}
		case *StringAttribute:
			if entity, err = s.readStringAttribute(fileReaders, vsguid1); err != nil {
				return errors.Trace(err)
			}
		default:
			return errors.Errorf("can't read entity of type %T from unordered disk", e)
		}
	} else {
		sc, err := readScalar(dirName)
		if err != nil {
			return errors.Trace(err)
		}
		entity = &sc
	}
	s.entityCache.Set(guid, entity)
	return nil
}

func (s *Server) readDoubleAttribute(fileReaders []source.ParquetFile, vsguid GUID) (*DoubleAttribute, error) {
	vs, err := s.getVertexSet(vsguid)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var rows []UnorderedDoubleRow
	for _, fr := range fileReaders {
		pr, err := reader.NewParquetReader(fr, new(UnorderedDoubleRow), parquetThreads)
		if err != nil {
			return nil, errors.Annotate(err, "creating parquet reader")
		}
		partial := make([]UnorderedDoubleRow, int(pr.GetNumRows()))
		if err := pr.Read(&partial); err != nil {
			return nil, errors.Annotate(err, "reading parquet file")
		}
		pr.ReadStop()
		rows = append(rows, partial...)
	}
	mappingToOrdered := vs.GetMappingToOrdered()
	n := len(vs.MappingToUnordered)
	attr := &DoubleAttribute{Values: make([]float64, n), Defined: make([]bool, n)}
	for _, row := range rows {
		i, exists := mappingToOrdered[row.Id]
		if !exists {
			return nil, errors.Errorf("id %v is not in the vertex set", row.Id)
		}
		attr.Values[i] = row.Value
		attr.Defined[i] = true
	}
	return attr, nil
}

func (s *Server) readLongAttribute(fileReaders []source.ParquetFile, vsguid GUID) (*LongAttribute, error) {
	vs, err := s.getVertexSet(vsguid)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var rows []UnorderedLongRow
	for _, fr := range fileReaders {
		pr, err := reader.NewParquetReader(fr, new(UnorderedLongRow), parquetThreads)
		if err != nil {
			return nil, errors.Annotate(err, "creating parquet reader")
		}
		partial := make([]UnorderedLongRow, int(pr.GetNumRows()))
		if err := pr.Read(&partial); err != nil {
			return nil, errors.Annotate(err, "reading parquet file")
		}
		pr.ReadStop()
		rows = append(rows, partial...)
	}
	mappingToOrdered := vs.GetMappingToOrdered()
	n := len(vs.MappingToUnordered)
	attr := &LongAttribute{Values: make([]int64, n), Defined: make([]bool, n)}
	for _, row := range rows {
		i, exists := mappingToOrdered[row.Id]
		if !exists {
			return nil, errors.Errorf("id %v is not in the vertex set", row.Id)
		}
		attr.Values[i] = row.Value
		attr.Defined[i] = true
	}
	return attr, nil
}

func (s *Server) readStringAttribute(fileReaders []source.ParquetFile, vsguid GUID) (*StringAttribute, error) {
	vs, err := s.getVertexSet(vsguid)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var rows []UnorderedStringRow
	for _, fr := range fileReaders {
		pr, err := reader.NewParquetReader(fr, new(UnorderedStringRow), parquetThreads)
		if err != nil {
			return nil, errors.Annotate(err, "creating parquet reader")
		}
		partial := make([]UnorderedStringRow, int(pr.GetNumRows()))
		if err := pr.Read(&partial); err != nil {
			return nil, errors.Annotate(err, "reading parquet file")
		}
		pr.ReadStop()
		rows = append(rows, partial...)
	}
	mappingToOrdered := vs.GetMappingToOrdered()
	n := len(vs.MappingToUnordered)
	attr := &StringAttribute{Values: make([]string, n), Defined: make([]bool, n)}
	for _, row := range rows {
		i, exists := mappingToOrdered[row.Id]
		if !exists {
			return nil, errors.Errorf("id %v is not in the vertex set", row.Id)
		}
		attr.Values[i] = row.Value
		attr.Defined[i] = true
	}
	return attr, nil
}
