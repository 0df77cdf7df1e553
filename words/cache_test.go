package words

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testCache() *PatternCache {
	// indices:   0      1      2      3      4      5
	list := List{"cat", "cot", "car", "dog", "dot", "din"}
	return NewPatternCache(3, list)
}

func TestMatches(t *testing.T) {
	c := testCache()
	tests := []struct {
		pattern string
		want    IndexList
	}{
		{"___", IndexList{0, 1, 2, 3, 4, 5}},
		{"c__", IndexList{0, 1, 2}},
		{"__t", IndexList{0, 1, 4}},
		{"d__", IndexList{3, 4, 5}},
		{"x__", IndexList{}},
		{"dog", IndexList{3}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, c.Matches(tt.pattern)); diff != "" {
			t.Errorf("Matches(%q) mismatch (-want +got):\n%s", tt.pattern, diff)
		}
	}
}

func TestMatchesIdempotent(t *testing.T) {
	c := testCache()
	a := c.Matches("c__")
	b := c.Matches("c__")
	if &a[0] != &b[0] {
		t.Error("repeated Matches with the same pattern returned different lists")
	}
}

func TestMatchesPrune(t *testing.T) {
	c := testCache()
	base := c.Matches("___")
	// current word is index 2 ("car"), cursor just past it
	cursor := 3
	sig := "___"
	// remove words with 'o' in the middle: cot, dog, dot
	out := c.MatchesPrune(base, &cursor, &sig, "_o_")
	if diff := cmp.Diff(IndexList{0, 2, 5}, out); diff != "" {
		t.Fatalf("pruned list mismatch (-want +got):\n%s", diff)
	}
	if sig != "____o_" {
		t.Errorf("signature = %q, want %q", sig, "____o_")
	}
	// "car" survived at position 1, cursor resumes just past it
	if cursor != 2 {
		t.Errorf("cursor = %d, want 2", cursor)
	}
}

func TestMatchesPruneCurrentRemoved(t *testing.T) {
	c := testCache()
	base := c.Matches("___")
	// current word is index 1 ("cot"), which the prune removes
	cursor := 2
	sig := "___"
	out := c.MatchesPrune(base, &cursor, &sig, "_o_")
	if diff := cmp.Diff(IndexList{0, 2, 5}, out); diff != "" {
		t.Fatalf("pruned list mismatch (-want +got):\n%s", diff)
	}
	// scanning resumes at "car", the first survivor after "cot"
	if cursor != 1 {
		t.Errorf("cursor = %d, want 1", cursor)
	}
}

func TestMatchesPruneNothingRemoved(t *testing.T) {
	c := testCache()
	base := c.Matches("c__")
	cursor := 1
	sig := "c__"
	out := c.MatchesPrune(base, &cursor, &sig, "x__")
	if &out[0] != &base[0] {
		t.Error("no-op prune should return the base list unchanged")
	}
	if sig != "c__" || cursor != 1 {
		t.Errorf("no-op prune modified sig/cursor: %q %d", sig, cursor)
	}
}

// Refinement correctness: pruning is the set difference between the base
// list and the matches of the intersected pattern.
func TestMatchesPruneLaw(t *testing.T) {
	c := testCache()
	base := c.Matches("___")
	cursor := 0
	sig := "___"
	out := c.MatchesPrune(base, &cursor, &sig, "d__")
	matching := c.Matches("d__")
	inMatching := map[int]bool{}
	for _, i := range matching {
		inMatching[i] = true
	}
	want := IndexList{}
	for _, i := range base {
		if !inMatching[i] {
			want = append(want, i)
		}
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("refinement law violated (-want +got):\n%s", diff)
	}
}

func TestMatchesPruneCompositeKeyIdempotent(t *testing.T) {
	c := testCache()
	base := c.Matches("___")
	cursor1, sig1 := 0, "___"
	out1 := c.MatchesPrune(base, &cursor1, &sig1, "_o_")
	cursor2, sig2 := 0, "___"
	out2 := c.MatchesPrune(base, &cursor2, &sig2, "_o_")
	if &out1[0] != &out2[0] {
		t.Error("same refinement sequence returned different lists")
	}
	if sig1 != sig2 {
		t.Errorf("signatures diverged: %q vs %q", sig1, sig2)
	}
}
