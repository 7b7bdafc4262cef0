// Implements the backend for the "Find Steiner tree" operation.

package main

import (
	"log"

	"github.com/juju/errors"

	"github.com/graphmining/steinerdp/dpborder"
	"github.com/graphmining/steinerdp/stp"
)

// steinerGraph converts the attribute terms of the problem to an
// stp.Graph. Edges are undirected; a vertex whose terminals attribute
// is defined and positive must be part of the tree.
func steinerGraph(
	terminals *DoubleAttribute,
	edgeCosts *DoubleAttribute,
	edges *EdgeBundle) *stp.Graph {

	g := stp.NewGraph(len(terminals.Values))
	for i := range edges.Src {
		c := 0.0
		if edgeCosts.Defined[i] && edgeCosts.Values[i] > 0 {
			c = edgeCosts.Values[i]
		}
		g.AddArc(int(edges.Src[i]), int(edges.Dst[i]), stp.Value(c))
	}
	for i, v := range terminals.Values {
		if terminals.Defined[i] && v > 0 {
			g.MarkTerminal(i)
		}
	}
	return g
}

type steinerSolution struct {
	Nodes DoubleAttribute
	Cost  Scalar
	Exact Scalar
}

// heuristicTree runs the shortest-path heuristic on a rooted,
// bidirected copy of the graph. Used when the exact DP gives up on a
// too-wide border.
func heuristicTree(g *stp.Graph) ([]bool, stp.Value) {
	for v := 0; v < g.Nodes; v++ {
		if g.Terminal[v] {
			g.Root = v
			break
		}
	}
	b := stp.Bidirected(g)
	sol := stp.PrimalHeuristic(b)
	return sol.Nodes, sol.TreeCost()
}

func doSteinerTree(
	terminals *DoubleAttribute,
	edgeCosts *DoubleAttribute,
	edges *EdgeBundle,
	maxWidth int) (steinerSolution, error) {

	g := steinerGraph(terminals, edgeCosts, edges)
	exact := true
	var nodesIsSol []bool
	var cost stp.Value
	result, err := dpborder.Solver{MaxWidth: maxWidth}.Solve(g)
	switch {
	case err == nil:
		nodesIsSol = result.NodesIsSol
		cost = result.Cost
	case errors.Cause(err) == dpborder.ErrBorderTooWide:
		log.Printf("Falling back to the primal heuristic: %v", err)
		exact = false
		nodesIsSol, cost = heuristicTree(g)
	default:
		return steinerSolution{}, errors.Trace(err)
	}

	costScalar, err := ScalarFrom(float64(cost))
	if err != nil {
		return steinerSolution{}, errors.Trace(err)
	}
	exactScalar, err := ScalarFrom(exact)
	if err != nil {
		return steinerSolution{}, errors.Trace(err)
	}
	solution := steinerSolution{
		Nodes: DoubleAttribute{
			Values:  make([]float64, g.Nodes),
			Defined: make([]bool, g.Nodes),
		},
		Cost:  costScalar,
		Exact: exactScalar,
	}
	for v, sol := range nodesIsSol {
		if sol {
			solution.Nodes.Values[v] = 1.0
			solution.Nodes.Defined[v] = true
		}
	}
	return solution, nil
}

var defaultMaxBorderWidth = getNumericEnv(
	"STEINERD_MAX_BORDER_WIDTH", dpborder.DefaultMaxWidth)

func init() {
	operationRepository["SteinerTree"] = Operation{
		execute: func(ea *EntityAccessor) error {
			es := ea.getEdgeBundle("es")
			terminals := ea.getDoubleAttribute("terminals")
			edgeCosts := ea.getDoubleAttribute("edge_costs")
			maxWidth := int(ea.GetFloatParamWithDefault("maxWidth", float64(defaultMaxBorderWidth)))
			solution, err := doSteinerTree(terminals, edgeCosts, es, maxWidth)
			if err != nil {
				return errors.Trace(err)
			}
			ea.output("nodes", &solution.Nodes)
			ea.output("cost", &solution.Cost)
			ea.output("exact", &solution.Exact)
			return nil
		},
	}
}
