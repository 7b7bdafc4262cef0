package dpborder

import (
	"reflect"
	"testing"
)

func TestPartitionValidate(t *testing.T) {
	cases := []struct {
		name  string
		chars []Char
		delim Char
		ok    bool
	}{
		{"single subset", []Char{0, 1, 2}, 3, true},
		{"two subsets", []Char{0, 2, 3, 1}, 3, true},
		{"singletons", []Char{2, 3, 0, 3, 1}, 3, true},
		{"empty", nil, 3, false},
		{"leading delimiter", []Char{3, 0}, 3, false},
		{"trailing delimiter", []Char{0, 3}, 3, false},
		{"doubled delimiter", []Char{0, 3, 3, 1}, 3, false},
		{"char out of range", []Char{0, 4}, 3, false},
		{"negative char", []Char{0, -1}, 3, false},
		{"duplicate in one subset", []Char{0, 1, 0}, 3, false},
		{"duplicate across subsets", []Char{0, 3, 0}, 3, false},
	}
	for _, c := range cases {
		p := Partition{Chars: c.chars, Delimiter: c.delim}
		if got := p.IsValid(); got != c.ok {
			t.Errorf("%v: IsValid() = %v, want %v (%v)", c.name, got, c.ok, p.Validate())
		}
	}
}

func TestSortSubsets(t *testing.T) {
	cases := []struct {
		in    []Char
		delim Char
		want  []Char
	}{
		{[]Char{3, 1, 2, 6, 5, 4}, 6, []Char{1, 2, 3, 6, 4, 5}},
		{[]Char{0}, 1, []Char{0}},
		{[]Char{2, 1, 0}, 3, []Char{0, 1, 2}},
		{[]Char{0, 1, 2}, 3, []Char{0, 1, 2}},
		{[]Char{1, 3, 0, 3, 2}, 3, []Char{1, 3, 0, 3, 2}},
		{[]Char{4, 0, 5, 2, 1, 3}, 5, []Char{0, 4, 5, 1, 2, 3}},
	}
	for _, c := range cases {
		chars := append([]Char(nil), c.in...)
		sortSubsets(chars, c.delim)
		if !reflect.DeepEqual(chars, c.want) {
			t.Errorf("sortSubsets(%v, %v) = %v, want %v", c.in, c.delim, chars, c.want)
		}
		// Within every subset the characters are strictly ascending.
		for i := 0; i+1 < len(chars); i++ {
			if chars[i] == c.delim || chars[i+1] == c.delim {
				continue
			}
			if chars[i] >= chars[i+1] {
				t.Errorf("sortSubsets(%v, %v): %v not ascending at %v", c.in, c.delim, chars, i)
			}
		}
	}
}

func TestPartitionString(t *testing.T) {
	p := Partition{Chars: []Char{0, 2, 3, 1}, Delimiter: 3}
	if got := p.String(); got != "0 2 X 1" {
		t.Errorf("String() = %q, want %q", got, "0 2 X 1")
	}
}
