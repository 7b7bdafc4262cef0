package stp

import (
	"testing"
)

// 0 -> 1 -> 2 with a costly shortcut 0 -> 3 and a cheap branch 1 -> 3.
// Vertices 2 and 3 are fixed terminals.
func forkingGraph() *Graph {
	g := NewGraph(4)
	g.AddArc(0, 1, 1)
	g.AddArc(1, 2, 1)
	g.AddArc(0, 3, 5)
	g.AddArc(1, 3, 1)
	g.Root = 0
	g.MarkTerminal(2)
	g.MarkTerminal(3)
	return g
}

func TestShortestPathCollectsTerminals(t *testing.T) {
	g := forkingGraph()
	s := shortestPath(g, make([]Value, g.Arcs))
	for i := range g.Terminal {
		if g.Terminal[i] && !s.Nodes[i] {
			t.Errorf("terminal %v is not built", i)
		}
	}
	if got := s.TreeCost(); got != 3 {
		t.Errorf("tree cost = %v, want 3 (expensive arc 0->3 taken?)", got)
	}
	if s.Arcs[2] {
		t.Errorf("non-optimal solution: arc 0->3 built")
	}
}

func TestStrongPruneCutsUnprofitableSubtree(t *testing.T) {
	g := NewGraph(2)
	g.AddArc(0, 1, 2)
	g.Root = 0
	g.Prize[1] = 1
	g.Terminal[1] = true

	s := shortestPath(g, make([]Value, g.Arcs))
	if !s.Nodes[1] {
		t.Fatalf("vertex 1 not built")
	}
	netWorth := make([]Value, g.Nodes)
	strongPrune(s, g, g.Root, netWorth)
	if s.Nodes[1] || s.Arcs[0] {
		t.Errorf("unprofitable subtree not pruned: %v %v", s.Nodes, s.Arcs)
	}
	if s.Profit != 0 {
		t.Errorf("profit = %v, want 0", s.Profit)
	}
}

func TestStrongPruneKeepsFixedVertices(t *testing.T) {
	g := forkingGraph()
	s := shortestPath(g, make([]Value, g.Arcs))
	netWorth := make([]Value, g.Nodes)
	strongPrune(s, g, g.Root, netWorth)
	for i := range g.Fixed {
		if g.Fixed[i] && !s.Nodes[i] {
			t.Errorf("fixed vertex %v pruned", i)
		}
	}
}

func TestPrimalHeuristicFeasible(t *testing.T) {
	g := forkingGraph()
	s := PrimalHeuristic(g)
	for i := range g.Fixed {
		if g.Fixed[i] && !s.Nodes[i] {
			t.Errorf("fixed vertex %v missing from heuristic solution", i)
		}
	}
}
