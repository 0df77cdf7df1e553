package board

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"xwfill.io/xwfill/words"
	"xwfill.io/xwfill/xw"
)

const grid5 = `*...*
.....
.....
.....
*...*
`

// grid5Words fills grid5 at least once (rows cat / shore / tones / arena /
// est give columns sta / chore / aones / trent / esa) plus decoys.
var grid5Words = []string{
	"cat", "est", "sta", "esa", "tan", "ora",
	"shore", "tones", "arena", "chore", "aones", "trent", "snore", "crane",
}

func solveAll(t *testing.T, gridText string, opts xw.Options, list []string) ([]string, int64) {
	t.Helper()
	b := parse(t, gridText)
	w := words.New(1)
	if err := w.ReadFrom(strings.NewReader(strings.Join(list, "\n")), false); err != nil {
		t.Fatal(err)
	}
	ctx := xw.NewContext(w, opts)
	g := xw.NewGrid(ctx)
	if err := b.Build(g); err != nil {
		t.Fatalf("Build: %v", err)
	}
	g.Prepare()
	var sols []string
	ctrl := &xw.Controller{OnSolution: func(g *xw.Grid) xw.Action {
		var sb strings.Builder
		b.Render(&sb)
		sols = append(sols, sb.String())
		return xw.Continue
	}}
	res := g.FindSolutions(ctrl)
	if res.Status != xw.Exhausted {
		t.Fatalf("status %v, want exhausted", res.Status)
	}
	sort.Strings(sols)
	return sols, res.Steps
}

func TestFiveByFive(t *testing.T) {
	sols, _ := solveAll(t, grid5, xw.Options{}, grid5Words)
	if len(sols) == 0 {
		t.Fatal("expected at least one solution")
	}
	want := strings.Join([]string{
		"* c a t * ",
		"s h o r e ",
		"t o n e s ",
		"a r e n a ",
		"* e s t * ",
		"",
	}, "\n")
	found := false
	for _, s := range sols {
		if s == want {
			found = true
		}
		// no duplicate across words in any solution
		seen := map[string]bool{}
		for _, line := range strings.Split(s, "\n") {
			word := strings.ReplaceAll(strings.Trim(line, "* "), " ", "")
			if word == "" {
				continue
			}
			if seen[word] {
				t.Errorf("duplicate across word %q in solution:\n%s", word, s)
			}
			seen[word] = true
		}
	}
	if !found {
		t.Errorf("known filling not found; got:\n%s", strings.Join(sols, "---\n"))
	}
}

// Backjumping and pruning must not change the solution set, and each may
// only shrink the work.
func TestFlagEquivalence(t *testing.T) {
	base, baseSteps := solveAll(t, grid5, xw.Options{}, grid5Words)
	variants := []struct {
		name string
		opts xw.Options
	}{
		{"backjump", xw.Options{Backjump: true}},
		{"prune", xw.Options{Prune: true}},
		{"both", xw.Options{Backjump: true, Prune: true}},
	}
	for _, v := range variants {
		sols, steps := solveAll(t, grid5, v.opts, grid5Words)
		if diff := cmp.Diff(base, sols); diff != "" {
			t.Errorf("%s changed the solution set:\n%s", v.name, diff)
		}
		if steps > baseSteps {
			t.Errorf("%s took %d steps, plain search %d", v.name, steps, baseSteps)
		}
	}
}

// A wrapped, twisted single row: the slot covers the whole row and the
// preset pins the only word.
func TestWrapTwistRow(t *testing.T) {
	grid := strings.Join([]string{
		"wrap_row",
		"twist_row",
		"-------",
		"|q . .|",
		"-------",
		"",
	}, "\n")
	sols, _ := solveAll(t, grid, xw.Options{}, []string{"qui", "ion", "out"})
	if len(sols) != 1 {
		t.Fatalf("want exactly 1 solution, got %d", len(sols))
	}
	if !strings.Contains(sols[0], "q u i") {
		t.Errorf("row should read qui:\n%s", sols[0])
	}
}

func TestNoFillingTerminates(t *testing.T) {
	sols, _ := solveAll(t, "...\n...\n...\n", xw.Options{}, []string{"cat", "dog", "owl"})
	if len(sols) != 0 {
		t.Errorf("expected no solutions, got %d", len(sols))
	}
}
