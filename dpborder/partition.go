/*
Package dpborder implements a dynamic programming solver for Steiner
tree subproblems whose graphs have a small border: the vertices are
processed one by one, and for every prefix only the frontier towards
the unprocessed part (the border) matters. A DP state is a partition
of the border positions into the connected components of a partial
tree, stored as a flat run of small characters separated by a
delimiter. The engine keeps every partition ever produced in an
append-only store together with its best cost and predecessor, and
reconstructs the optimal tree by walking the predecessor chain.
*/
package dpborder

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

// Char identifies a border position at some level. Within a stored
// partition, values below the level's delimiter are border positions
// and the delimiter value itself separates subsets.
type Char int16

// NoChar marks a character that has dropped out of the border in a
// character remap, and a missing extension character.
const NoChar Char = -1

// Partition is a read-only view of one bordered partition: an ordered
// list of nonempty disjoint subsets of border positions.
type Partition struct {
	Chars     []Char
	Delimiter Char
}

// Size returns the number of stored characters, separators included.
func (p Partition) Size() int {
	return len(p.Chars)
}

// Validate reports which partition invariant is violated, if any:
// nonempty, no leading, trailing or doubled delimiter, every character
// within the delimiter bound, and no duplicated border position.
func (p Partition) Validate() error {
	size := len(p.Chars)
	if size == 0 {
		return errors.New("partition is empty")
	}
	if p.Chars[0] == p.Delimiter {
		return errors.New("partition starts with delimiter")
	}
	if p.Chars[size-1] == p.Delimiter {
		return errors.New("partition ends with delimiter")
	}
	for i := 1; i < size; i++ {
		if p.Chars[i] == p.Delimiter && p.Chars[i-1] == p.Delimiter {
			return errors.Errorf("empty subset at %v %v", i-1, i)
		}
	}
	seen := make(map[Char]int, size)
	for i, c := range p.Chars {
		if c < 0 || c > p.Delimiter {
			return errors.Errorf("char %v at position %v out of range", c, i)
		}
		if c == p.Delimiter {
			continue
		}
		if j, dup := seen[c]; dup {
			return errors.Errorf("duplicate char %v, positions %v %v", c, j, i)
		}
		seen[c] = i
	}
	return nil
}

// IsValid reports whether the partition satisfies all invariants.
func (p Partition) IsValid() bool {
	return p.Validate() == nil
}

// String renders the partition with "X" for the delimiter, one token
// per character.
func (p Partition) String() string {
	var sb strings.Builder
	for i, c := range p.Chars {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if c == p.Delimiter {
			sb.WriteByte('X')
			continue
		}
		fmt.Fprintf(&sb, "%d", c)
	}
	return sb.String()
}

// sortSubsets reorders the characters within each subset into strictly
// ascending order, in place. The subset order itself is unchanged.
// Unlike the usual sentinel-before-the-buffer trick, the insertion
// loop is bounded by the subset start, so chars may be any slice.
func sortSubsets(chars []Char, delimiter Char) {
	size := len(chars)
	for iter := 0; iter < size; iter++ {
		iter2 := iter + 1
		for iter2 < size && chars[iter2] != delimiter {
			iter2++
		}

		for i := iter + 1; i < iter2; i++ {
			curr := chars[i]
			j := i - 1
			for j >= iter && curr < chars[j] {
				chars[j+1] = chars[j]
				j--
			}
			chars[j+1] = curr
		}
		iter = iter2
	}
}
