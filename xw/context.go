// Package xw is the fill engine for generalized crossword grids: slots
// linked at shared cells, filled by backtracking over per-pattern candidate
// lists with forward checking, optional duplicate rejection, optional
// backjumping and optional conflict pruning.
package xw

import (
	"xwfill.io/xwfill/words"
)

// Options are the search behavior switches.
type Options struct {
	AllowDups bool // allow the same word in two slots
	Backjump  bool // on dead end, pop to the topmost affecting slot
	Prune     bool // on backtrack, prune candidates conflicting with higher slots
}

// Context carries the dictionary, the per-length pattern caches and the
// options through the search. Grids and slots do not reach for globals;
// everything mutable during a search hangs off here or off the Grid.
type Context struct {
	Words  *words.Words
	Caches [words.MaxLen + 1]*words.PatternCache
	Opts   Options
}

// NewContext builds the pattern caches over the dictionary's current lists.
func NewContext(w *words.Words, opts Options) *Context {
	ctx := &Context{Words: w, Opts: opts}
	for l := 1; l <= words.MaxLen; l++ {
		ctx.Caches[l] = words.NewPatternCache(l, w.Lists[l])
	}
	return ctx
}

// Restart resets the grid to its preset state, reshuffles the dictionary,
// clears the caches (index lists reference the old order) and re-prepares
// the grid. Each restart draws a new shuffle from the dictionary's RNG, so
// the order differs from the previous one; with a fixed seed and the same
// inputs, the sequence of solutions after a restart is reproducible.
func (ctx *Context) Restart(g *Grid) {
	for _, s := range g.Slots {
		copy(s.Pattern, s.Preset)
		s.Filled = false
		s.Word = ""
		s.Compatible = nil
		s.NextWord = 0
		s.StackLevel = -1
		s.DupStackLevel = -1
	}
	g.stack = g.stack[:0]
	ctx.Words.Shuffle()
	for l := 1; l <= words.MaxLen; l++ {
		ctx.Caches[l].Clear(ctx.Words.Lists[l])
	}
	g.Prepare()
}
