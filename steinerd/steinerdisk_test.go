package main

import (
	"io/ioutil"
	"os"
	"reflect"
	"testing"
)

func TestEntityIO(t *testing.T) {
	dataDir, err := ioutil.TempDir("", "steinerd-ordered")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dataDir)
	entities := map[GUID]Entity{
		"vs": &VertexSet{MappingToUnordered: []int64{0, 1, 7, 42}},
		"es": &EdgeBundle{
			Src:         []VertexId{0, 1, 2},
			Dst:         []VertexId{1, 2, 3},
			EdgeMapping: []int64{10, 20, 30},
		},
		"cost": &DoubleAttribute{
			Values:  []float64{1.5, 0, 2.5},
			Defined: []bool{true, false, true},
		},
		"rank": &LongAttribute{
			Values:  []int64{3, 0, -1},
			Defined: []bool{true, false, true},
		},
		"name": &StringAttribute{
			Values:  []string{"depot", "", "port"},
			Defined: []bool{true, false, true},
		},
	}
	for guid, entity := range entities {
		if err := saveToOrderedDisk(entity, dataDir, guid); err != nil {
			t.Fatalf("saving %v: %v", guid, err)
		}
		onDisk, err := hasOnDisk(dataDir, guid)
		if err != nil {
			t.Fatal(err)
		}
		if !onDisk {
			t.Errorf("%v is not on disk after save", guid)
		}
		loaded, err := loadFromOrderedDisk(dataDir, guid)
		if err != nil {
			t.Fatalf("loading %v: %v", guid, err)
		}
		if !reflect.DeepEqual(entity, loaded) {
			t.Errorf("saved %v as %v, loaded %v", guid, entity, loaded)
		}
	}
}

func TestScalarIO(t *testing.T) {
	dataDir, err := ioutil.TempDir("", "steinerd-scalar")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dataDir)
	scalar, err := ScalarFrom(3.25)
	if err != nil {
		t.Fatal(err)
	}
	if err := saveToOrderedDisk(&scalar, dataDir, "cost"); err != nil {
		t.Fatal(err)
	}
	loaded, err := loadFromOrderedDisk(dataDir, "cost")
	if err != nil {
		t.Fatal(err)
	}
	var value float64
	if err := loaded.(*Scalar).LoadTo(&value); err != nil {
		t.Fatal(err)
	}
	if value != 3.25 {
		t.Errorf("loaded %v, want 3.25", value)
	}
}
