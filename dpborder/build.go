package dpborder

// BuildChildUnion appends the child partition that merges the subsets
// whose starts are listed in candstartsSub, adds the extension
// character to the merged subset if the extension vertex is on the new
// border, and carries every other subset over through the character
// remap. The child lives at the top level and is returned by index.
//
// candstartsSub must contain subset starts of the parent, as produced
// by CandidateStarts (any subsequence of it is fine, including the
// empty one). On failure -1 is returned and the store is unchanged;
// the parent is never written to.
func (b *Border) BuildChildUnion(parent Partition, candstartsSub []int) int {
	s := b.store
	chars := parent.Chars
	size := len(chars)
	delimPrev := parent.Delimiter
	delimNew := b.TopDelimiter()
	extChar := b.topLevel().ExtChar

	start := s.TopEnd()
	s.grow(size + 2)
	if len(b.marks) < size {
		b.marks = make([]bool, size)
	}
	marks := b.marks[:size]

	// Merged subset first: the union of the chosen subsets, remapped,
	// plus the extension character.
	for _, candstart := range candstartsSub {
		for j := candstart; j < size && chars[j] != delimPrev; j++ {
			if m := b.charMap[chars[j]]; m != NoChar {
				s.chars = append(s.chars, m)
			}
		}
		// Mark the start so the second pass skips the whole subset.
		marks[candstart] = true
	}
	if extChar >= 0 {
		s.chars = append(s.chars, extChar)
	}

	if len(s.chars) == start {
		// Every chosen character dropped out and there is no extension
		// character: the merged subset is empty.
		clearMarks(marks)
		return -1
	}

	if !marks[0] {
		s.chars = append(s.chars, delimNew)
	}

	// Now add the remaining subsets of the parent.
	copying := true
	valid := true
	for i := 0; i < size; i++ {
		if marks[i] {
			marks[i] = false
			copying = false
			continue
		}
		c := chars[i]
		if c == delimPrev {
			// A valid parent never ends with a delimiter, so i+1 is in
			// range.
			if !marks[i+1] {
				if s.chars[len(s.chars)-1] == delimNew {
					// The previous subset remapped to nothing.
					valid = false
					break
				}
				s.chars = append(s.chars, delimNew)
				copying = true
			}
			continue
		}
		if !copying {
			continue
		}
		if m := b.charMap[c]; m != NoChar {
			s.chars = append(s.chars, m)
		}
	}

	if valid && s.chars[len(s.chars)-1] == delimNew {
		valid = false
	}
	if !valid {
		clearMarks(marks)
		s.chars = s.chars[:start]
		return -1
	}

	end := len(s.chars)
	sortSubsets(s.chars[start:end], delimNew)
	return s.push(end, true)
}

// BuildChildExclusive appends the child obtained by only remapping the
// parent through the character map, dropping the characters that left
// the border; the extension vertex does not join any subset. Returns
// the child's index, or -1 when the remap empties a subset or the
// whole partition. On failure nothing is mutated.
func (b *Border) BuildChildExclusive(parent Partition) int {
	s := b.store
	delimNew := b.TopDelimiter()

	start := s.TopEnd()
	s.grow(len(parent.Chars))
	for _, c := range parent.Chars {
		if m := b.charMap[c]; m != NoChar {
			s.chars = append(s.chars, m)
		}
	}

	end := len(s.chars)
	if end == start || s.chars[start] == delimNew || s.chars[end-1] == delimNew {
		s.chars = s.chars[:start]
		return -1
	}
	for i := start + 1; i < end; i++ {
		if s.chars[i] == delimNew && s.chars[i-1] == delimNew {
			s.chars = s.chars[:start]
			return -1
		}
	}

	sortSubsets(s.chars[start:end], delimNew)
	return s.push(end, false)
}

func clearMarks(marks []bool) {
	for i := range marks {
		marks[i] = false
	}
}
