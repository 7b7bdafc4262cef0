/*
Package stp models Steiner tree problems in graphs and provides the
bounding machinery shared by the exact and heuristic solvers: a dual
ascent lower bound and a shortest-path primal heuristic with strong
pruning, following "A Dual Ascent-Based Branch-and-Bound Framework for
the Prize-Collecting Steiner Tree and Related Problems" by Leitner et
al.
*/
package stp

import (
	"math"
	"strconv"
)

// Value is the type for representing costs and prizes.
type Value float64

func (v Value) ToString() string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

// ValueMax is the maximal value for Value. It doubles as the
// "unreachable" sentinel for distances and DP costs.
const ValueMax = Value(math.MaxFloat64)

// Graph represents the problem statement. Arcs are directed; callers
// that work on undirected instances either add both directions or use
// both incidence lists (the border DP does the latter).
type Graph struct {
	// Arcs
	Arcs int     // The number of arcs in the graph
	Cost []Value // The cost for including the given arc
	Src  []int   // The source vertex id for the arc
	Dst  []int   // The destination vertex id for the arc

	// Vertices
	Root     int     // The vertex id of the root of the solution tree
	Nodes    int     // The number of vertices
	Prize    []Value // The reward for including the given vertex in the tree
	Fixed    []bool  // True if the given vertex must be part of the solution
	Terminal []bool  // The Prize is positive or Fixed is true
	Incoming [][]int // For a given vertex, the list of incoming arc ids
	Outgoing [][]int // For a given vertex, the list of outgoing arc ids
}

// NewGraph returns an arcless graph on nodes vertices.
func NewGraph(nodes int) *Graph {
	return &Graph{
		Nodes:    nodes,
		Prize:    make([]Value, nodes),
		Fixed:    make([]bool, nodes),
		Terminal: make([]bool, nodes),
		Incoming: make([][]int, nodes),
		Outgoing: make([][]int, nodes),
	}
}

// AddArc appends an arc from src to dst and returns its id.
func (g *Graph) AddArc(src, dst int, cost Value) int {
	id := g.Arcs
	g.Arcs++
	g.Cost = append(g.Cost, cost)
	g.Src = append(g.Src, src)
	g.Dst = append(g.Dst, dst)
	g.Outgoing[src] = append(g.Outgoing[src], id)
	g.Incoming[dst] = append(g.Incoming[dst], id)
	return id
}

// MarkTerminal makes the given vertex a fixed terminal.
func (g *Graph) MarkTerminal(v int) {
	g.Fixed[v] = true
	g.Terminal[v] = true
}

// Bidirected returns a copy of g in which every arc also exists in the
// reverse direction. The first g.Arcs arc ids of the copy coincide
// with the arc ids of g.
func Bidirected(g *Graph) *Graph {
	b := NewGraph(g.Nodes)
	b.Root = g.Root
	copy(b.Prize, g.Prize)
	copy(b.Fixed, g.Fixed)
	copy(b.Terminal, g.Terminal)
	for a := 0; a < g.Arcs; a++ {
		b.AddArc(g.Src[a], g.Dst[a], g.Cost[a])
	}
	for a := 0; a < g.Arcs; a++ {
		b.AddArc(g.Dst[a], g.Src[a], g.Cost[a])
	}
	return b
}

func NewSolution(g *Graph) *Solution {
	return &Solution{Graph: g, Profit: 0,
		Arcs: make([]bool, g.Arcs), Nodes: make([]bool, g.Nodes)}
}

type Solution struct {
	Arcs   []bool
	Nodes  []bool
	Graph  *Graph
	Profit Value
}

// BuildArc maintains the profit and the nodes when building an arc.
func (s *Solution) BuildArc(arcID int) {
	if s.Arcs[arcID] {
		panic("Already built")
	}
	dst := s.Graph.Dst[arcID]
	s.Nodes[dst] = true // Assume src is already connected
	s.Arcs[arcID] = true
	s.Profit += s.Graph.Prize[dst] - s.Graph.Cost[arcID]
}

// TreeCost sums the cost of the built arcs, ignoring prizes.
func (s *Solution) TreeCost() Value {
	var total Value
	for a, built := range s.Arcs {
		if built {
			total += s.Graph.Cost[a]
		}
	}
	return total
}
