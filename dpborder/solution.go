package dpborder

// MarkSolutionNodes sets nodesIsSol[v] for every original-graph vertex
// v of the optimal Steiner tree, by walking the predecessor chain from
// the installed optimum back to the root partition. The slice must
// have one entry per original vertex; it is cleared first.
func (b *Border) MarkSolutionNodes(nodesIsSol []bool) {
	s := b.store
	for i := range nodesIsSol {
		nodesIsSol[i] = false
	}

	nlevels := 0
	for pos := b.optPos; pos != 0; pos = s.preds[pos] {
		nlevels++
	}

	for pos, level := b.optPos, nlevels; pos != 0; pos, level = s.preds[pos], level-1 {
		lvl := b.levels[level]
		nodemap := lvl.NodesToOrg
		delimiter := lvl.Delimiter

		if s.useExt[pos] {
			nodesIsSol[lvl.ExtNode] = true
		}
		for _, c := range s.chars[s.starts[pos]:s.starts[pos+1]] {
			if c != delimiter {
				nodesIsSol[nodemap[c]] = true
			}
		}
	}

	nodesIsSol[b.levels[0].ExtNode] = true
}
