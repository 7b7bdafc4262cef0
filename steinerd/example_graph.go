// Implements the ExampleGraph operation: a small Steiner instance for
// demos and tests. Vertices 0, 2 and 4 are terminals; vertex 1 is the
// cheap hub connecting them, vertex 3 is a dead end.

package main

func init() {
	operationRepository["ExampleGraph"] = Operation{
		execute: func(ea *EntityAccessor) error {
			vertexSet := VertexSet{MappingToUnordered: []int64{0, 1, 2, 3, 4}}
			ea.output("vertices", &vertexSet)
			eb := &EdgeBundle{
				Src:         []VertexId{0, 1, 1, 1, 0},
				Dst:         []VertexId{1, 2, 3, 4, 4},
				EdgeMapping: []int64{0, 1, 2, 3, 4},
			}
			ea.output("edges", eb)
			terminals := &DoubleAttribute{
				Values:  []float64{1, 0, 1, 0, 1},
				Defined: []bool{true, false, true, false, true},
			}
			ea.output("terminals", terminals)
			edgeCosts := &DoubleAttribute{
				Values:  []float64{1, 1, 2, 1, 5},
				Defined: []bool{true, true, true, true, true},
			}
			ea.output("edge_costs", edgeCosts)
			name := &StringAttribute{
				Values:  []string{"depot", "hub", "mill", "quarry", "port"},
				Defined: []bool{true, true, true, true, true},
			}
			ea.output("name", name)
			return nil
		},
	}
}
