package stp

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/juju/errors"
)

// ReadGraph loads an instance from two headerless CSV files.
//
// The vertex file has one row per vertex: "id,prize,fixed", with ids
// numbered 0..n-1 in order and fixed either 0 or 1. The edge file has
// one row per arc: "src,dst,cost". The root is the first fixed vertex,
// or vertex 0 when no vertex is fixed.
func ReadGraph(vertexFile, edgeFile string) (*Graph, error) {
	vertices, err := readRows(vertexFile, 3)
	if err != nil {
		return nil, errors.Annotatef(err, "reading vertices from %v", vertexFile)
	}
	g := NewGraph(len(vertices))
	g.Root = -1
	for i, row := range vertices {
		id, err := strconv.Atoi(row[0])
		if err != nil || id != i {
			return nil, errors.Errorf("vertex row %v has id %q, want %v", i, row[0], i)
		}
		prize, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, errors.Annotatef(err, "vertex %v prize", i)
		}
		g.Prize[i] = Value(prize)
		if row[2] == "1" {
			g.Fixed[i] = true
			if g.Root == -1 {
				g.Root = i
			}
		}
		g.Terminal[i] = g.Fixed[i] || g.Prize[i] > 0
	}
	if g.Root == -1 {
		g.Root = 0
	}

	edges, err := readRows(edgeFile, 3)
	if err != nil {
		return nil, errors.Annotatef(err, "reading edges from %v", edgeFile)
	}
	for i, row := range edges {
		src, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, errors.Annotatef(err, "edge %v src", i)
		}
		dst, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, errors.Annotatef(err, "edge %v dst", i)
		}
		cost, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, errors.Annotatef(err, "edge %v cost", i)
		}
		if src < 0 || src >= g.Nodes || dst < 0 || dst >= g.Nodes {
			return nil, errors.Errorf("edge %v endpoints (%v,%v) out of range", i, src, dst)
		}
		g.AddArc(src, dst, Value(cost))
	}
	return g, nil
}

func readRows(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = fields
	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, errors.Trace(err)
		}
		rows = append(rows, row)
	}
}
