package xw

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"xwfill.io/xwfill/words"
)

func dict(t *testing.T, list ...string) *words.Words {
	t.Helper()
	w := words.New(1)
	if err := w.ReadFrom(strings.NewReader(strings.Join(list, "\n")), false); err != nil {
		t.Fatal(err)
	}
	return w
}

// openGrid builds a fully open rows x cols grid: one across slot per row,
// one down slot per column, linked at every cell.
func openGrid(g *Grid, rows, cols int) (across, down []*Slot) {
	for i := range rows {
		across = append(across, g.AddSlot(NewSlot(cols, i, 0, true)))
	}
	for j := range cols {
		down = append(down, g.AddSlot(NewSlot(rows, 0, j, false)))
	}
	for i := range rows {
		for j := range cols {
			g.AddLink(across[i], j, down[j], i)
		}
	}
	return across, down
}

func checkSolution(t *testing.T, g *Grid) {
	t.Helper()
	for _, s := range g.Slots {
		if !s.Filled {
			t.Fatalf("slot %s unfilled in a solution", s.Name)
		}
		for p := range s.Len {
			if s.Pattern[p] != '_' && s.Word[p] != s.Pattern[p] {
				t.Errorf("slot %s: word %q disagrees with pattern %q at %d", s.Name, s.Word, s.Pattern, p)
			}
			link := s.Links[p]
			if link.Empty() {
				continue
			}
			o := g.Slots[link.To]
			if s.Word[p] != o.Word[link.Pos] {
				t.Errorf("linked cells disagree: %s[%d]=%c vs %s[%d]=%c",
					s.Name, p, s.Word[p], o.Name, link.Pos, o.Word[link.Pos])
			}
		}
	}
	if g.ctx.Opts.AllowDups {
		return
	}
	seen := map[string]string{}
	for _, s := range g.Slots {
		if s.StackLevel < 0 {
			continue // preset slots may legitimately repeat
		}
		if other, ok := seen[s.Word]; ok {
			t.Errorf("duplicate word %q in slots %s and %s", s.Word, other, s.Name)
		}
		seen[s.Word] = s.Name
	}
}

// enumerate runs the search to exhaustion, returning each solution as the
// across words joined by '|'.
func enumerate(t *testing.T, g *Grid, across []*Slot) []string {
	t.Helper()
	var got []string
	ctrl := &Controller{OnSolution: func(g *Grid) Action {
		checkSolution(t, g)
		var parts []string
		for _, s := range across {
			parts = append(parts, s.Word)
		}
		got = append(got, strings.Join(parts, "|"))
		return Continue
	}}
	res := g.FindSolutions(ctrl)
	if res.Status != Exhausted {
		t.Fatalf("status = %v, want Exhausted", res.Status)
	}
	if g.StackDepth() != 0 {
		t.Errorf("stack depth %d after exhaustion, want 0", g.StackDepth())
	}
	return got
}

func TestThreeByThreeEnumeration(t *testing.T) {
	list := []string{"cat", "cot", "oar", "tan", "tea", "arc", "act", "are", "ate"}

	// with duplicates allowed the grid has exactly the two symmetric
	// fillings; without, symmetry forces duplicates and nothing survives
	w := dict(t, list...)
	ctx := NewContext(w, Options{AllowDups: true})
	g := NewGrid(ctx)
	across, _ := openGrid(g, 3, 3)
	g.Prepare()
	got := enumerate(t, g, across)
	sort.Strings(got)
	want := []string{"cat|are|tea", "cat|ate|tea"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("solutions mismatch (-want +got):\n%s", diff)
	}

	w = dict(t, list...)
	ctx = NewContext(w, Options{})
	g = NewGrid(ctx)
	across, _ = openGrid(g, 3, 3)
	g.Prepare()
	if got := enumerate(t, g, across); len(got) != 0 {
		t.Errorf("expected no duplicate-free solutions, got %v", got)
	}
}

func TestNoSolutions(t *testing.T) {
	w := dict(t, "cat", "dog", "owl")
	ctx := NewContext(w, Options{})
	g := NewGrid(ctx)
	across, _ := openGrid(g, 3, 3)
	g.Prepare()
	if got := enumerate(t, g, across); len(got) != 0 {
		t.Errorf("expected no solutions, got %v", got)
	}
}

// Two 3-letter slots crossing only at their middle cell; the other cells
// are unchecked. The shared cell forces agreement there and nothing else.
func crossPair(g *Grid) (*Slot, *Slot) {
	s := g.AddSlot(NewSlot(3, 0, 1, false))
	u := g.AddSlot(NewSlot(3, 1, 0, true))
	g.AddLink(s, 1, u, 1)
	return s, u
}

func TestCrossingPairDups(t *testing.T) {
	w := dict(t, "abc", "adc")
	ctx := NewContext(w, Options{AllowDups: true})
	g := NewGrid(ctx)
	s, u := crossPair(g)
	g.Prepare()
	var got [][2]string
	ctrl := &Controller{OnSolution: func(g *Grid) Action {
		checkSolution(t, g)
		got = append(got, [2]string{s.Word, u.Word})
		return Continue
	}}
	g.FindSolutions(ctrl)
	// agreement at the shared middle letter, so only equal pairs
	want := [][2]string{{"abc", "abc"}, {"adc", "adc"}}
	sort.Slice(got, func(i, j int) bool { return got[i][0] < got[j][0] })
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("solutions mismatch (-want +got):\n%s", diff)
	}
}

func TestCrossingPairNoDups(t *testing.T) {
	w := dict(t, "abc", "adc")
	ctx := NewContext(w, Options{})
	g := NewGrid(ctx)
	crossPair(g)
	g.Prepare()
	n := 0
	ctrl := &Controller{OnSolution: func(g *Grid) Action {
		n++
		return Continue
	}}
	res := g.FindSolutions(ctrl)
	if res.Status != Exhausted || n != 0 {
		t.Errorf("want 0 solutions and exhaustion, got %d, %v", n, res.Status)
	}
}

func TestCrossingPairPreset(t *testing.T) {
	w := dict(t, "abc", "adc")
	ctx := NewContext(w, Options{AllowDups: true})
	g := NewGrid(ctx)
	s := g.AddSlot(NewSlot(3, 0, 1, false))
	u := g.AddSlot(NewSlot(3, 1, 0, true))
	// preset the shared cell on both sides; no link is created for it
	s.PresetChar(1, 'b')
	u.PresetChar(1, 'b')
	g.Prepare()
	n := 0
	ctrl := &Controller{OnSolution: func(g *Grid) Action {
		if s.Word != "abc" || u.Word != "abc" {
			t.Errorf("want abc/abc, got %s/%s", s.Word, u.Word)
		}
		n++
		return Continue
	}}
	g.FindSolutions(ctrl)
	if n != 1 {
		t.Errorf("want exactly 1 solution, got %d", n)
	}
}

func TestAllPresetGridTrivial(t *testing.T) {
	w := dict(t, "cat")
	ctx := NewContext(w, Options{})
	g := NewGrid(ctx)
	s := g.AddSlot(NewSlot(3, 0, 0, true))
	for i, c := range []byte("cat") {
		s.PresetChar(i, c)
	}
	g.Prepare()
	if g.NPreset != 1 || !s.Filled || s.Word != "cat" {
		t.Fatalf("preset slot not prepared as filled: %+v", s)
	}
	n := 0
	ctrl := &Controller{OnSolution: func(g *Grid) Action {
		n++
		return Continue
	}}
	res := g.FindSolutions(ctrl)
	if n != 1 || res.Status != Exhausted {
		t.Errorf("trivial grid: %d solutions, status %v", n, res.Status)
	}
}

func TestLenOneSlot(t *testing.T) {
	w := dict(t, "a", "b")
	ctx := NewContext(w, Options{})
	g := NewGrid(ctx)
	g.AddSlot(NewSlot(1, 0, 0, true))
	g.Prepare()
	n := 0
	ctrl := &Controller{OnSolution: func(g *Grid) Action {
		n++
		return Continue
	}}
	g.FindSolutions(ctrl)
	if n != 2 {
		t.Errorf("len-1 unchecked slot: want 2 solutions, got %d", n)
	}
}

// Install/uninstall must leave an open neighbor exactly as it was.
func TestUninstallRestoresNeighbors(t *testing.T) {
	w := dict(t, "cat", "cot", "oar", "tan", "tea", "arc", "act", "are", "ate")
	ctx := NewContext(w, Options{})
	g := NewGrid(ctx)
	_, down := openGrid(g, 3, 3)
	g.Prepare()

	beforePat := make([]string, len(down))
	beforeCompat := make([]words.IndexList, len(down))
	for i, s := range down {
		beforePat[i] = string(s.Pattern)
		beforeCompat[i] = s.Compatible
	}
	if !g.pushNextSlot() {
		t.Fatal("pushNextSlot failed on a solvable grid")
	}
	pushed := g.stack[len(g.stack)-1]
	for p := range pushed.Len {
		link := pushed.Links[p]
		if link.Empty() {
			continue
		}
		o := g.Slots[link.To]
		if o.Filled {
			continue
		}
		if o.Pattern[link.Pos] != pushed.Word[p] {
			t.Errorf("install did not propagate to %s", o.Name)
		}
	}
	pushed.uninstall(g)
	g.stack = g.stack[:0]
	pushed.Filled = false
	for i, s := range down {
		if s == pushed {
			continue
		}
		if string(s.Pattern) != beforePat[i] {
			t.Errorf("slot %s pattern %q, want %q", s.Name, s.Pattern, beforePat[i])
		}
		if diff := cmp.Diff(beforeCompat[i], s.Compatible); diff != "" {
			t.Errorf("slot %s compatible list changed:\n%s", s.Name, diff)
		}
	}
}

func TestRestartPurity(t *testing.T) {
	list := []string{"cat", "cot", "oar", "tan", "tea", "arc", "act", "are", "ate"}
	run := func() []string {
		w := dict(t, list...)
		w.Shuffle()
		ctx := NewContext(w, Options{AllowDups: true})
		g := NewGrid(ctx)
		across, _ := openGrid(g, 3, 3)
		g.Prepare()
		ctx.Restart(g)
		return enumerate(t, g, across)
	}
	a := run()
	b := run()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed, different solution sequences:\n%s", diff)
	}
	if len(a) != 2 {
		t.Errorf("expected 2 solutions after restart, got %d", len(a))
	}
}

func TestRestartResetsState(t *testing.T) {
	w := dict(t, "cat", "cot", "oar", "tan", "tea", "arc", "act", "are", "ate")
	ctx := NewContext(w, Options{AllowDups: true})
	g := NewGrid(ctx)
	_, _ = openGrid(g, 3, 3)
	g.Prepare()
	ctrl := &Controller{OnSolution: func(g *Grid) Action { return Stop }}
	res := g.FindSolutions(ctrl)
	if res.Status != Stopped {
		t.Fatalf("expected a solution, got %v", res.Status)
	}
	ctx.Restart(g)
	if g.StackDepth() != 0 {
		t.Errorf("stack depth %d after restart", g.StackDepth())
	}
	for _, s := range g.Slots {
		if s.Filled {
			t.Errorf("slot %s still filled after restart", s.Name)
		}
		if string(s.Pattern) != string(s.Preset) {
			t.Errorf("slot %s pattern %q not reset to preset %q", s.Name, s.Pattern, s.Preset)
		}
	}
}
