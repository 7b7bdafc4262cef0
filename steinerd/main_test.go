package main

import (
	"io/ioutil"
	"os"
	"reflect"
	"testing"
)

func testServer(t *testing.T) (*Server, func()) {
	t.Helper()
	dataDir, err := ioutil.TempDir("", "steinerd-ordered")
	if err != nil {
		t.Fatal(err)
	}
	unorderedDataDir, err := ioutil.TempDir("", "steinerd-unordered")
	if err != nil {
		os.RemoveAll(dataDir)
		t.Fatal(err)
	}
	s := &Server{
		entityCache:      NewEntityCache(),
		dataDir:          dataDir,
		unorderedDataDir: unorderedDataDir,
	}
	return s, func() {
		os.RemoveAll(dataDir)
		os.RemoveAll(unorderedDataDir)
	}
}

func cachedScalar(t *testing.T, s *Server, guid GUID, dst interface{}) {
	t.Helper()
	e, exists := s.entityCache.Get(guid)
	if !exists {
		t.Fatalf("guid %v is not cached", guid)
	}
	if err := e.(*Scalar).LoadTo(dst); err != nil {
		t.Fatal(err)
	}
}

func TestRunBatch(t *testing.T) {
	s, cleanup := testServer(t)
	defer cleanup()
	treeCost := GUID("tree-cost")
	steps := []BatchStep{
		{Compute: &OperationInstance{
			GUID: "op-example",
			Outputs: map[string]GUID{
				"vertices": "vs", "edges": "es", "terminals": "term",
				"edge_costs": "cost", "name": "name"},
			Operation: OperationDescription{
				Class: "com.graphmining.steinerdp.operations.ExampleGraph"},
		}},
		{Compute: &OperationInstance{
			GUID:   "op-steiner",
			Inputs: map[string]GUID{"es": "es", "terminals": "term", "edge_costs": "cost"},
			Outputs: map[string]GUID{
				"nodes": "tree-nodes", "cost": treeCost, "exact": "tree-exact"},
			Operation: OperationDescription{
				Class: "com.graphmining.steinerdp.operations.SteinerTree",
				Data:  map[string]interface{}{},
			},
		}},
		{Compute: &OperationInstance{
			GUID:    "op-count",
			Inputs:  map[string]GUID{"vertices": "vs"},
			Outputs: map[string]GUID{"count": "vertex-count"},
			Operation: OperationDescription{
				Class: "com.graphmining.steinerdp.operations.CountVertices"},
		}},
		{WriteOrdered: &treeCost},
	}
	if err := s.RunBatch(steps); err != nil {
		t.Fatal(err)
	}
	var cost float64
	cachedScalar(t, s, treeCost, &cost)
	if cost != 3 {
		t.Errorf("tree cost = %v, want 3", cost)
	}
	var exact bool
	cachedScalar(t, s, "tree-exact", &exact)
	if !exact {
		t.Error("expected an exact tree on the example graph")
	}
	var count int
	cachedScalar(t, s, "vertex-count", &count)
	if count != 5 {
		t.Errorf("vertex count = %v, want 5", count)
	}
	nodesEntity, exists := s.entityCache.Get("tree-nodes")
	if !exists {
		t.Fatal("tree-nodes is not cached")
	}
	nodes := nodesEntity.(*DoubleAttribute)
	wantDefined := []bool{true, true, true, false, true}
	if !reflect.DeepEqual(nodes.Defined, wantDefined) {
		t.Errorf("tree nodes defined %v, want %v", nodes.Defined, wantDefined)
	}
	// The ordered write must be loadable on its own.
	loaded, err := loadFromOrderedDisk(s.dataDir, treeCost)
	if err != nil {
		t.Fatal(err)
	}
	var loadedCost float64
	if err := loaded.(*Scalar).LoadTo(&loadedCost); err != nil {
		t.Fatal(err)
	}
	if loadedCost != 3 {
		t.Errorf("loaded tree cost = %v, want 3", loadedCost)
	}
}

func TestUnorderedRoundTrip(t *testing.T) {
	s, cleanup := testServer(t)
	defer cleanup()
	vs := &VertexSet{MappingToUnordered: []int64{10, 20, 30}}
	// Edges on out-of-order Spark ids exercise the id translation.
	es := &EdgeBundle{
		Src:         []VertexId{0, 2, 1},
		Dst:         []VertexId{1, 0, 2},
		EdgeMapping: []int64{100, 200, 300},
	}
	weight := &DoubleAttribute{
		Values:  []float64{1.5, 0, 2.5},
		Defined: []bool{true, false, true},
	}
	label := &StringAttribute{
		Values:  []string{"depot", "", "port"},
		Defined: []bool{true, false, true},
	}
	rank := &LongAttribute{
		Values:  []int64{7, 0, -2},
		Defined: []bool{true, false, true},
	}
	s.entityCache.Set("vs", vs)
	s.entityCache.Set("es", es)
	s.entityCache.Set("weight", weight)
	s.entityCache.Set("label", label)
	s.entityCache.Set("rank", rank)
	writes := []BatchStep{
		{WriteUnordered: &UnorderedTransfer{Guid: "vs", Type: "VertexSet"}},
		{WriteUnordered: &UnorderedTransfer{Guid: "es", Type: "EdgeBundle", Vsguid1: "vs", Vsguid2: "vs"}},
		{WriteUnordered: &UnorderedTransfer{Guid: "weight", Type: "DoubleAttribute", Vsguid1: "vs"}},
		{WriteUnordered: &UnorderedTransfer{Guid: "label", Type: "StringAttribute", Vsguid1: "vs"}},
		{WriteUnordered: &UnorderedTransfer{Guid: "rank", Type: "LongAttribute", Vsguid1: "vs"}},
	}
	if err := s.RunBatch(writes); err != nil {
		t.Fatal(err)
	}
	s.entityCache.Clear()
	// The vertex set must come back before anything defined on it.
	reads := []BatchStep{
		{ReadUnordered: &UnorderedTransfer{Guid: "vs", Type: "VertexSet"}},
		{ReadUnordered: &UnorderedTransfer{Guid: "es", Type: "EdgeBundle", Vsguid1: "vs", Vsguid2: "vs"}},
		{ReadUnordered: &UnorderedTransfer{Guid: "weight", Type: "DoubleAttribute", Vsguid1: "vs"}},
		{ReadUnordered: &UnorderedTransfer{Guid: "label", Type: "StringAttribute", Vsguid1: "vs"}},
		{ReadUnordered: &UnorderedTransfer{Guid: "rank", Type: "LongAttribute", Vsguid1: "vs"}},
	}
	if err := s.RunBatch(reads); err != nil {
		t.Fatal(err)
	}
	// The attribute reads build the Spark id map of the cached vertex
	// set, so the expected one needs it too.
	wantVs := &VertexSet{MappingToUnordered: []int64{10, 20, 30}}
	wantVs.GetMappingToOrdered()
	want := map[GUID]Entity{
		"vs":     wantVs,
		"es":     es,
		"weight": weight,
		"label":  label,
		"rank":   rank,
	}
	for guid, wantEntity := range want {
		got, exists := s.entityCache.Get(guid)
		if !exists {
			t.Fatalf("guid %v is not cached after the read", guid)
		}
		if !reflect.DeepEqual(got, wantEntity) {
			t.Errorf("round trip of %v gave %v, want %v", guid, got, wantEntity)
		}
	}
}
