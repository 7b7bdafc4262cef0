package dpborder

import (
	"testing"

	"github.com/juju/errors"

	"github.com/graphmining/steinerdp/stp"
)

func solNodes(r *Result) []int {
	var nodes []int
	for v, sol := range r.NodesIsSol {
		if sol {
			nodes = append(nodes, v)
		}
	}
	return nodes
}

func checkSolution(t *testing.T, r *Result, cost stp.Value, nodes ...int) {
	t.Helper()
	if r.Cost != cost {
		t.Errorf("cost = %v, want %v", r.Cost, cost)
	}
	want := make(map[int]bool)
	for _, v := range nodes {
		want[v] = true
	}
	for v, sol := range r.NodesIsSol {
		if sol != want[v] {
			t.Errorf("vertex %v marked %v, want %v", v, sol, want[v])
		}
	}
}

func TestSolvePath(t *testing.T) {
	g := stp.NewGraph(3)
	g.AddArc(0, 1, 1)
	g.AddArc(1, 2, 1)
	g.MarkTerminal(0)
	g.MarkTerminal(2)

	r, err := Solver{}.Solve(g)
	if err != nil {
		t.Fatal(err)
	}
	checkSolution(t, r, 2, 0, 1, 2)
}

func TestSolveSingleTerminal(t *testing.T) {
	g := stp.NewGraph(3)
	g.AddArc(0, 1, 1)
	g.AddArc(1, 2, 1)
	g.MarkTerminal(1)

	r, err := Solver{}.Solve(g)
	if err != nil {
		t.Fatal(err)
	}
	checkSolution(t, r, 0, 1)
}

func TestSolvePicksCheapDetour(t *testing.T) {
	// The direct edge to vertex 3 costs 5; going through vertex 1
	// costs 2 and shares an edge with the path to vertex 2.
	g := stp.NewGraph(4)
	g.AddArc(0, 1, 1)
	g.AddArc(1, 2, 1)
	g.AddArc(0, 3, 5)
	g.AddArc(1, 3, 1)
	g.MarkTerminal(0)
	g.MarkTerminal(2)
	g.MarkTerminal(3)

	r, err := Solver{}.Solve(g)
	if err != nil {
		t.Fatal(err)
	}
	checkSolution(t, r, 3, 0, 1, 2, 3)
}

func TestSolveUsesSteinerNode(t *testing.T) {
	// Star through the non-terminal center 3 costs 3; any tree on the
	// direct edges costs at least 3.8.
	g := stp.NewGraph(4)
	g.AddArc(3, 0, 1)
	g.AddArc(3, 1, 1)
	g.AddArc(3, 2, 1)
	g.AddArc(0, 1, 1.9)
	g.AddArc(1, 2, 1.9)
	g.AddArc(2, 0, 1.9)
	g.MarkTerminal(0)
	g.MarkTerminal(1)
	g.MarkTerminal(2)

	r, err := Solver{}.Solve(g)
	if err != nil {
		t.Fatal(err)
	}
	checkSolution(t, r, 3, 0, 1, 2, 3)
}

func TestSolveSkipsUselessBranch(t *testing.T) {
	// Vertex 3 hangs off the tree and is not a terminal; it must not
	// be marked.
	g := stp.NewGraph(4)
	g.AddArc(0, 1, 1)
	g.AddArc(1, 2, 1)
	g.AddArc(1, 3, 1)
	g.MarkTerminal(0)
	g.MarkTerminal(2)

	r, err := Solver{}.Solve(g)
	if err != nil {
		t.Fatal(err)
	}
	checkSolution(t, r, 2, 0, 1, 2)
}

func TestSolveParallelEdges(t *testing.T) {
	g := stp.NewGraph(2)
	g.AddArc(0, 1, 4)
	g.AddArc(0, 1, 3)
	g.AddArc(1, 0, 7)
	g.MarkTerminal(0)
	g.MarkTerminal(1)

	r, err := Solver{}.Solve(g)
	if err != nil {
		t.Fatal(err)
	}
	checkSolution(t, r, 3, 0, 1)
}

func TestSolveCycleGraph(t *testing.T) {
	// Terminals on a 5-cycle; the optimum drops the expensive arc.
	g := stp.NewGraph(5)
	g.AddArc(0, 1, 1)
	g.AddArc(1, 2, 1)
	g.AddArc(2, 3, 1)
	g.AddArc(3, 4, 1)
	g.AddArc(4, 0, 10)
	g.MarkTerminal(0)
	g.MarkTerminal(2)
	g.MarkTerminal(4)

	r, err := Solver{}.Solve(g)
	if err != nil {
		t.Fatal(err)
	}
	checkSolution(t, r, 4, 0, 1, 2, 3, 4)
}

func TestSolveNoTerminals(t *testing.T) {
	g := stp.NewGraph(2)
	g.AddArc(0, 1, 1)

	if _, err := (Solver{}).Solve(g); errors.Cause(err) != ErrNoTerminals {
		t.Fatalf("err = %v, want ErrNoTerminals", err)
	}
}

func TestSolveDisconnected(t *testing.T) {
	g := stp.NewGraph(4)
	g.AddArc(0, 1, 1)
	g.AddArc(2, 3, 1)
	g.MarkTerminal(0)
	g.MarkTerminal(3)

	if _, err := (Solver{}).Solve(g); errors.Cause(err) != ErrDisconnected {
		t.Fatalf("err = %v, want ErrDisconnected", err)
	}
}

func TestSolveBorderTooWide(t *testing.T) {
	g := stp.NewGraph(4)
	g.AddArc(0, 1, 1)
	g.AddArc(0, 2, 1)
	g.AddArc(0, 3, 1)
	g.AddArc(1, 2, 1)
	g.AddArc(1, 3, 1)
	g.AddArc(2, 3, 1)
	g.MarkTerminal(0)
	g.MarkTerminal(3)

	if _, err := (Solver{MaxWidth: 1}).Solve(g); errors.Cause(err) != ErrBorderTooWide {
		t.Fatalf("err = %v, want ErrBorderTooWide", err)
	}
}
