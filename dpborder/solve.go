package dpborder

import (
	"log"

	"github.com/juju/errors"

	"github.com/graphmining/steinerdp/stp"
)

var (
	// ErrBorderTooWide is returned when the vertex order produces a
	// border wider than the solver's limit. Callers are expected to
	// fall back to a heuristic.
	ErrBorderTooWide = errors.New("border exceeds the width limit")

	// ErrNoTerminals is returned for instances without terminals.
	ErrNoTerminals = errors.New("instance has no terminals")

	// ErrDisconnected is returned when some terminal cannot be reached
	// from the root terminal.
	ErrDisconnected = errors.New("terminals are not connected")
)

// DefaultMaxWidth bounds the border size (and thereby the number of
// partition characters per level) unless the Solver says otherwise.
const DefaultMaxWidth = 16

// Solver runs the border DP over a whole instance. The zero value is
// ready to use.
type Solver struct {
	MaxWidth int  // widest allowed border; 0 means DefaultMaxWidth
	Verbose  bool // log per-level progress
}

// Result is an optimal Steiner tree, reported as a vertex bitmap the
// way the host consumes it.
type Result struct {
	NodesIsSol []bool
	Cost       stp.Value
}

// Solve computes a minimum-cost tree connecting all terminals of g.
// Arcs are treated as undirected edges. The DP processes vertices in
// BFS order from the first terminal and tracks, per prefix, every
// achievable partition of the border into tree components.
func (sv Solver) Solve(g *stp.Graph) (*Result, error) {
	maxWidth := sv.MaxWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}

	root := -1
	nterminals := 0
	for v := 0; v < g.Nodes; v++ {
		if g.Terminal[v] {
			nterminals++
			if root == -1 {
				root = v
			}
		}
	}
	if root == -1 {
		return nil, ErrNoTerminals
	}

	adj := adjacency(g)
	order, reached := bfsOrder(g, adj, root)
	for v := 0; v < g.Nodes; v++ {
		if g.Terminal[v] && !reached[v] {
			return nil, ErrDisconnected
		}
	}

	b := NewBorder(g.Nodes)
	s := b.Store()

	// Level 0: the border is just the root, carrying character 0.
	b.PushLevel(&Level{
		Delimiter:  1,
		ExtNode:    root,
		ExtChar:    0,
		NodesToOrg: []int{root},
	}, nil, nil)
	s.grow(1)
	s.chars = append(s.chars, 0)
	rootIdx := s.push(s.TopEnd()+1, true)
	s.SetCost(rootIdx, 0, -1)

	border := []int{root}
	processed := make([]bool, g.Nodes)
	processed[root] = true
	parts := []int{rootIdx}
	terminalsLeft := nterminals
	if g.Terminal[root] {
		terminalsLeft--
	}

	best := stp.ValueMax
	bestPos := -1
	recordCandidates := func(delimiter Char) {
		if terminalsLeft > 0 {
			return
		}
		for _, pi := range parts {
			if s.Card(pi, delimiter) == 1 && s.costs[pi] < best {
				best = s.costs[pi]
				bestPos = pi
			}
		}
	}
	recordCandidates(1)

	for step := 1; step < len(order); step++ {
		ext := order[step]
		processed[ext] = true

		lvl, charMap, charDists, newBorder := transition(g, adj, border, processed, ext)
		if int(lvl.Delimiter) > maxWidth {
			return nil, errors.Annotatef(ErrBorderTooWide, "level %v has border %v", step, lvl.Delimiter)
		}
		b.PushLevel(lvl, charMap, charDists)

		parts = expandLevel(g, b, parts, border, ext)
		if sv.Verbose {
			log.Printf("dpborder: level %v ext %v border %v partitions %v",
				step, ext, lvl.Delimiter, len(parts))
		}
		border = newBorder
		if g.Terminal[ext] {
			terminalsLeft--
		}
		recordCandidates(lvl.Delimiter)
		if len(parts) == 0 {
			break
		}
	}

	if bestPos == -1 {
		return nil, ErrDisconnected
	}
	b.SetOptimum(bestPos)
	nodesIsSol := make([]bool, g.Nodes)
	b.MarkSolutionNodes(nodesIsSol)
	return &Result{NodesIsSol: nodesIsSol, Cost: best}, nil
}

type neighbor struct {
	node int
	cost stp.Value
}

// adjacency flattens both incidence lists into undirected neighbor
// lists.
func adjacency(g *stp.Graph) [][]neighbor {
	adj := make([][]neighbor, g.Nodes)
	for a := 0; a < g.Arcs; a++ {
		src, dst := g.Src[a], g.Dst[a]
		if src == dst {
			continue
		}
		adj[src] = append(adj[src], neighbor{dst, g.Cost[a]})
		adj[dst] = append(adj[dst], neighbor{src, g.Cost[a]})
	}
	return adj
}

func bfsOrder(g *stp.Graph, adj [][]neighbor, root int) ([]int, []bool) {
	order := make([]int, 0, g.Nodes)
	seen := make([]bool, g.Nodes)
	seen[root] = true
	order = append(order, root)
	for head := 0; head < len(order); head++ {
		for _, nb := range adj[order[head]] {
			if !seen[nb.node] {
				seen[nb.node] = true
				order = append(order, nb.node)
			}
		}
	}
	return order, seen
}

// transition computes the level metadata for adding ext: which border
// positions survive, where they move, how much connecting each of them
// to ext costs, and whether ext itself stays on the border.
func transition(g *stp.Graph, adj [][]neighbor, border []int, processed []bool, ext int) (
	*Level, []Char, []stp.Value, []int) {

	prevDelim := Char(len(border))
	charMap := make([]Char, prevDelim+1)
	charDists := make([]stp.Value, prevDelim)
	newBorder := make([]int, 0, len(border)+1)

	for c, u := range border {
		charDists[c] = stp.ValueMax
		stays := false
		for _, nb := range adj[u] {
			if nb.node == ext && nb.cost < charDists[c] {
				charDists[c] = nb.cost
			}
			if !processed[nb.node] {
				stays = true
			}
		}
		if stays {
			charMap[c] = Char(len(newBorder))
			newBorder = append(newBorder, u)
		} else {
			charMap[c] = NoChar
		}
	}

	// ext always gets a character at its own level, even without
	// unprocessed neighbors; otherwise the completed tree's partition
	// could not be represented at the level of the last vertex. It
	// drops out at the next transition.
	extChar := Char(len(newBorder))
	newBorder = append(newBorder, ext)

	newDelim := Char(len(newBorder))
	charMap[prevDelim] = newDelim
	nodesToOrg := make([]int, len(newBorder))
	copy(nodesToOrg, newBorder)

	return &Level{
		Delimiter:  newDelim,
		ExtNode:    ext,
		ExtChar:    extChar,
		NodesToOrg: nodesToOrg,
	}, charMap, charDists, newBorder
}

// expandLevel builds all children of the given partitions for the
// transition that was just pushed, deduplicating canonically equal
// children and keeping the cheapest cost and predecessor per child.
func expandLevel(g *stp.Graph, b *Border, parts []int, border []int, ext int) []int {
	s := b.Store()
	prevDelim := Char(len(border))
	extChar := b.topLevel().ExtChar
	seen := make(map[string]int)
	var next []int
	var sub []int

	for _, pi := range parts {
		parent := s.Partition(pi, prevDelim)
		pcost := s.costs[pi]

		// The extension vertex may stay out of the tree, unless it is
		// a terminal.
		if !g.Terminal[ext] {
			if idx := b.BuildChildExclusive(parent); idx >= 0 {
				next = registerChild(s, seen, next, idx, pcost, pi)
			}
		}

		// Union children: one per selection of connectable subsets.
		// The empty selection starts a fresh component at ext and only
		// makes sense while ext is still on the border.
		cands := b.CandidateStarts(parent)
		for mask := 0; mask < 1<<uint(len(cands)); mask++ {
			if mask == 0 && extChar == NoChar {
				continue
			}
			sub = sub[:0]
			for i := range cands {
				if mask&(1<<uint(i)) != 0 {
					sub = append(sub, cands[i])
				}
			}
			cost := pcost + b.ConnectionCost(parent, sub)
			if cost >= stp.ValueMax {
				continue
			}
			if idx := b.BuildChildUnion(parent, sub); idx >= 0 {
				next = registerChild(s, seen, next, idx, cost, pi)
			}
		}
	}
	return next
}

// registerChild deduplicates the just-appended child idx against the
// level's canonical map. The extension flag is part of the key: equal
// character strings with different flags are distinct DP states.
func registerChild(s *Store, seen map[string]int, next []int, idx int, cost stp.Value, pred int) []int {
	key := childKey(s, idx)
	if other, ok := seen[key]; ok {
		if cost < s.costs[other] {
			s.SetCost(other, cost, pred)
		}
		s.dropTop()
		return next
	}
	seen[key] = idx
	s.SetCost(idx, cost, pred)
	return append(next, idx)
}

func childKey(s *Store, idx int) string {
	chars := s.chars[s.starts[idx]:s.starts[idx+1]]
	buf := make([]byte, 2*len(chars)+1)
	for i, c := range chars {
		buf[2*i] = byte(uint16(c))
		buf[2*i+1] = byte(uint16(c) >> 8)
	}
	if s.useExt[idx] {
		buf[2*len(chars)] = 1
	}
	return string(buf)
}
