package dpborder

import (
	"github.com/graphmining/steinerdp/stp"
)

// Store is the append-only arena holding every partition ever
// produced, plus the per-partition side arrays (cost, predecessor,
// extension flag) that the DP updates. Offset 0 of the character
// buffer is reserved, so the first partition starts at offset 1 and a
// stored predecessor of 0 always means the root partition.
//
// A Store has a single writer; the builders in this package hold it
// exclusively while they append.
type Store struct {
	chars  []Char      // character arena; chars[0] is reserved
	starts []int       // len == Count()+1; starts[i] is where partition i begins
	costs  []stp.Value // best known DP cost per partition
	preds  []int       // predecessor partition on the optimal path, -1 if none
	useExt []bool      // whether the construction incorporated the extension vertex
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		chars:  make([]Char, 1, 64),
		starts: []int{1},
	}
}

// Count returns the number of stored partitions.
func (s *Store) Count() int {
	return len(s.starts) - 1
}

// TopEnd returns the offset where the next partition will begin.
func (s *Store) TopEnd() int {
	return s.starts[len(s.starts)-1]
}

// grow makes room for at least n more characters without moving the
// arena during a build. Growth is geometric.
func (s *Store) grow(n int) {
	need := len(s.chars) + n
	if need <= cap(s.chars) {
		return
	}
	newcap := 2 * cap(s.chars)
	for newcap < need {
		newcap *= 2
	}
	grown := make([]Char, len(s.chars), newcap)
	copy(grown, s.chars)
	s.chars = grown
}

// push records the partition occupying [TopEnd(), end) with an
// infinite initial cost and no predecessor. The four side arrays
// advance together; there is no other append path.
func (s *Store) push(end int, useExt bool) int {
	s.starts = append(s.starts, end)
	s.costs = append(s.costs, stp.ValueMax)
	s.preds = append(s.preds, -1)
	s.useExt = append(s.useExt, useExt)
	s.checkSync()
	return s.Count() - 1
}

// dropTop retracts the most recently appended partition. The driver
// uses it when a freshly built child duplicates an earlier one.
func (s *Store) dropTop() {
	n := s.Count()
	if n == 0 {
		panic("dropTop on empty store")
	}
	s.chars = s.chars[:s.starts[n-1]]
	s.starts = s.starts[:n]
	s.costs = s.costs[:n-1]
	s.preds = s.preds[:n-1]
	s.useExt = s.useExt[:n-1]
	s.checkSync()
}

func (s *Store) checkSync() {
	n := s.Count()
	if len(s.costs) != n || len(s.preds) != n || len(s.useExt) != n {
		panic("partition store side arrays out of sync")
	}
}

// Partition returns a read-only view of partition i. The delimiter is
// supplied by the caller, who knows the partition's level; no
// per-partition level is stored because children always live at the
// top level of their construction time.
func (s *Store) Partition(i int, delimiter Char) Partition {
	return Partition{
		Chars:     s.chars[s.starts[i]:s.starts[i+1]],
		Delimiter: delimiter,
	}
}

// Cost returns the best known DP cost of partition i.
func (s *Store) Cost(i int) stp.Value {
	return s.costs[i]
}

// SetCost records a new best cost together with the predecessor that
// achieved it.
func (s *Store) SetCost(i int, cost stp.Value, pred int) {
	s.costs[i] = cost
	s.preds[i] = pred
}

// Pred returns the predecessor of partition i on the optimal path.
func (s *Store) Pred(i int) int {
	return s.preds[i]
}

// UsesExtension reports whether partition i was built with the
// extension vertex of its level.
func (s *Store) UsesExtension(i int) bool {
	return s.useExt[i]
}

// Card returns the number of subsets of partition i.
func (s *Store) Card(i int, delimiter Char) int {
	card := 1
	for _, c := range s.chars[s.starts[i]:s.starts[i+1]] {
		if c == delimiter {
			card++
		}
	}
	return card
}
