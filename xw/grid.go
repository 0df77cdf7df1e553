package xw

import (
	"fortio.org/log"
)

// Grid owns the slots (links address them by index) and runs the fill: the
// filled stack, slot selection, word installation and backtracking.
type Grid struct {
	Slots   []*Slot
	NPreset int   // slots fully determined by presets; filled but never stacked
	Steps   int64 // words installed so far (performance counter)

	stack []*Slot
	ctx   *Context
}

// NewGrid returns an empty grid bound to the search context.
func NewGrid(ctx *Context) *Grid {
	return &Grid{ctx: ctx}
}

// Context returns the search context the grid was built with.
func (g *Grid) Context() *Context {
	return g.ctx
}

// AddSlot registers a slot; its Num is its registration order, which is
// also the tie-break order for slot selection.
func (g *Grid) AddSlot(s *Slot) *Slot {
	s.Num = len(g.Slots)
	g.Slots = append(g.Slots, s)
	return s
}

// AddLink ties together two positions sharing a cell. If either side is
// preset, the letter is copied to the other side instead of linking: a
// determined cell constrains both slots at build time and needs no
// propagation during search.
func (g *Grid) AddLink(s1 *Slot, pos1 int, s2 *Slot, pos2 int) {
	c1 := s1.Preset[pos1]
	c2 := s2.Preset[pos2]
	switch {
	case c1 != '_':
		s2.Preset[pos2] = c1
	case c2 != '_':
		s1.Preset[pos1] = c2
	default:
		s1.AddLink(pos1, s2, pos2)
		s2.AddLink(pos2, s1, pos1)
	}
}

// Prepare seals the grid after slots, links and presets are in place:
// every slot gets its initial pattern and candidate list, and preset slots
// are counted as filled.
func (g *Grid) Prepare() {
	g.NPreset = 0
	for _, s := range g.Slots {
		s.prepare(g.ctx)
		if s.Filled {
			g.NPreset++
		}
	}
}

// StackDepth returns the number of slots on the filled stack.
func (g *Grid) StackDepth() int {
	return len(g.stack)
}

// Solved reports whether every slot is filled.
func (g *Grid) Solved() bool {
	return len(g.stack)+g.NPreset == len(g.Slots)
}

// pushNextSlot picks the unfilled slot with the fewest compatible words
// (first registered wins ties), scans it for a usable word, and if one
// exists pushes and installs it. False means the most constrained slot is
// stuck and the caller must backtrack.
func (g *Grid) pushNextSlot() bool {
	var best *Slot
	for _, s := range g.Slots {
		if s.Filled {
			continue
		}
		if best == nil || len(s.Compatible) < len(best.Compatible) {
			best = s
		}
	}
	if best == nil {
		log.Fatalf("pushNextSlot: no unfilled slot")
	}
	if g.ctx.Opts.Prune {
		for i := range best.Len {
			link := best.Links[i]
			if link.Empty() {
				continue
			}
			t := g.Slots[link.To]
			if t.Filled {
				t.RefByHigher[link.Pos] = true
			}
		}
	}
	best.NextWord = 0
	best.DupStackLevel = -1
	clearMarks(best.RefByHigher)
	if !best.findNextUsableWord(g) {
		log.LogVf("slot %s: no usable words", best.Name)
		return false
	}
	best.Filled = true
	best.StackLevel = len(g.stack)
	g.stack = append(g.stack, best)
	best.PruneSig = string(best.Pattern)
	g.installWord(best)
	return true
}

// installWord pushes s's word into its open crossing slots. Each crossing
// slot either keeps a wildcard (candidate list refreshed; empty means the
// forward check lied, which is a bug) or becomes fully determined and is
// itself marked filled and stacked, with no candidate list of its own.
func (g *Grid) installWord(s *Slot) {
	g.Steps++
	log.LogVf("installing %q in slot %s", s.Word, s.Name)
	for i := range s.Len {
		link := s.Links[i]
		if link.Empty() || s.Pattern[i] != '_' {
			continue
		}
		t := g.Slots[link.To]
		t.Pattern[link.Pos] = s.Word[i]
		if hasWildcard(t.Pattern) {
			t.Compatible = g.ctx.Caches[t.Len].Matches(string(t.Pattern))
			if len(t.Compatible) == 0 {
				log.Fatalf("empty compatible list for slot %s pattern %q", t.Name, t.Pattern)
			}
			continue
		}
		if t.Filled {
			log.Fatalf("slot %s is already filled", t.Name)
		}
		t.Compatible = nil
		t.Filled = true
		t.Word = string(t.Pattern)
		t.StackLevel = len(g.stack)
		t.DupStackLevel = -1
		clearMarks(t.RefByHigher)
		g.stack = append(g.stack, t)
	}
}

func clearMarks(marks []bool) {
	for i := range marks {
		marks[i] = false
	}
}

// backtrack unwinds the stack until some slot yields a new usable word
// (true) or the stack empties (false, search exhausted). With pruning, a
// popped-to slot first drops candidates conflicting with what the slots
// above wanted; if nothing above constrained it, replacing its word cannot
// help and it is popped outright. With backjumping, a popped slot drags
// the stack down to its topmost affecting level.
func (g *Grid) backtrack() bool {
	for {
		if len(g.stack) == 0 {
			return false
		}
		s := g.stack[len(g.stack)-1]
		log.LogVf("backtrack to slot %s", s.Name)
		s.uninstall(g)
		if s.Compatible != nil {
			tryNext := true
			if g.ctx.Opts.Prune {
				tryNext = s.prune(g.ctx)
			}
			if tryNext && s.findNextUsableWord(g) {
				g.installWord(s)
				return true
			}
		}
		g.stack = g.stack[:len(g.stack)-1]
		s.Filled = false
		if len(g.stack) == 0 {
			s.StackLevel = -1
			return false
		}
		if !g.ctx.Opts.Backjump {
			s.StackLevel = -1
			continue
		}
		level := s.topAffectingLevel(g)
		s.StackLevel = -1
		for len(g.stack) > level+1 {
			top := g.stack[len(g.stack)-1]
			top.uninstall(g)
			top.Filled = false
			top.StackLevel = -1
			g.stack = g.stack[:len(g.stack)-1]
		}
	}
}

// LogState dumps the whole grid, filled stack first.
func (g *Grid) LogState(showLinks bool) {
	for _, s := range g.stack {
		s.LogState(showLinks)
	}
	for _, s := range g.Slots {
		if !s.Filled {
			s.LogState(showLinks)
		}
	}
}
