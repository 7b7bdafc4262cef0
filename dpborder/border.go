package dpborder

import (
	"github.com/graphmining/steinerdp/stp"
)

// Level holds the per-step metadata of the border. Levels are ordered
// from 0 (the root) upward; level l is created when the l-th vertex is
// added to the processed part of the graph.
type Level struct {
	Delimiter  Char  // delimiter value at this level; equals the border size
	ExtNode    int   // original-graph vertex added at this level
	ExtChar    Char  // border character of ExtNode, or NoChar
	NodesToOrg []int // border character -> original-graph vertex
}

// Border is the DP engine state: the stored partitions, the level
// history, and the scratch describing the transition to the top level.
// A Border is not safe for concurrent use.
type Border struct {
	nnodes int
	levels []*Level
	store  *Store

	// Transition from the previous level to the top level.
	charMap   []Char      // previous char -> new char, NoChar if dropped
	charDists []stp.Value // previous char -> cheapest connection to ExtNode

	optPos int // partition index carrying the best completed DP value

	marks []bool // scratch for BuildChildUnion; always all-false between calls
}

// NewBorder returns an engine for a graph on nnodes vertices with an
// empty level history.
func NewBorder(nnodes int) *Border {
	return &Border{
		nnodes: nnodes,
		store:  NewStore(),
		optPos: -1,
	}
}

// Store exposes the partition store.
func (b *Border) Store() *Store {
	return b.store
}

// NumLevels returns the number of pushed levels.
func (b *Border) NumLevels() int {
	return len(b.levels)
}

// Delimiter returns the delimiter value valid at the given level.
func (b *Border) Delimiter(level int) Char {
	return b.levels[level].Delimiter
}

// TopDelimiter returns the delimiter of the newest level.
func (b *Border) TopDelimiter() Char {
	return b.levels[len(b.levels)-1].Delimiter
}

func (b *Border) topLevel() *Level {
	return b.levels[len(b.levels)-1]
}

// PushLevel installs the next level. charMap has one entry per
// previous-level character plus one for the previous delimiter, which
// must map to the new delimiter; charDists has one entry per
// previous-level character. Both are nil for level 0.
func (b *Border) PushLevel(lvl *Level, charMap []Char, charDists []stp.Value) {
	if len(b.levels) > 0 {
		prev := b.TopDelimiter()
		if len(charMap) != int(prev)+1 || len(charDists) != int(prev) {
			panic("border level transition arrays have the wrong length")
		}
		if charMap[prev] != lvl.Delimiter {
			panic("previous delimiter must remap to the new delimiter")
		}
	}
	b.levels = append(b.levels, lvl)
	b.charMap = charMap
	b.charDists = charDists
}

// SetOptimum installs the partition index holding the optimal DP
// value. The outer driver calls this at termination.
func (b *Border) SetOptimum(pos int) {
	b.optPos = pos
}

// Optimum returns the installed optimal partition index, or -1.
func (b *Border) Optimum() int {
	return b.optPos
}

// CandidateStarts returns the starts of the subsets of the partition
// that can be connected to the extension vertex of the top level: a
// subset qualifies when any of its characters has a finite connection
// distance, and contributes its start index once.
func (b *Border) CandidateStarts(p Partition) []int {
	var candstarts []int
	size := len(p.Chars)
	for i := 0; i < size; i++ {
		c := p.Chars[i]
		if c == p.Delimiter {
			continue
		}
		if b.charDists[c] < stp.ValueMax {
			startpos := i
			for startpos > 0 && p.Chars[startpos] != p.Delimiter {
				startpos--
			}
			if p.Chars[startpos] == p.Delimiter {
				startpos++
			}
			candstarts = append(candstarts, startpos)

			// Move to the next subset of the partition.
			for i < size && p.Chars[i] != p.Delimiter {
				i++
			}
		}
	}
	return candstarts
}

// ConnectionCost returns the cost of connecting the chosen subsets of
// the partition to the extension vertex: per chosen start the cheapest
// connection among the subset's characters, summed over the starts.
func (b *Border) ConnectionCost(p Partition, candstartsSub []int) stp.Value {
	var costsum stp.Value
	size := len(p.Chars)
	for _, candstart := range candstartsSub {
		minedgecost := stp.ValueMax
		for j := candstart; j < size; j++ {
			c := p.Chars[j]
			if c == p.Delimiter {
				break
			}
			if b.charDists[c] < minedgecost {
				minedgecost = b.charDists[c]
			}
		}
		costsum += minedgecost
		if costsum >= stp.ValueMax {
			return stp.ValueMax
		}
	}
	return costsum
}
