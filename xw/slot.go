package xw

import (
	"fmt"

	"fortio.org/log"
	"xwfill.io/xwfill/words"
)

// Link connects a position in one slot to the position in another slot that
// shares the same physical cell. Links come in complementary pairs. The
// target is a slot index into the owning Grid, not a pointer: the Grid is
// the arena.
type Link struct {
	To  int // slot index, -1 if no link
	Pos int // position in the target slot
}

// Empty reports whether there is no link out of this position.
func (l Link) Empty() bool {
	return l.To < 0
}

// Slot is one word-shaped run of cells. During the search it is either
// unfilled (Pattern reflects letters contributed by filled crossing slots,
// Compatible is the matching candidate list) or filled (Word is installed,
// and if it was pushed rather than preset, StackLevel is its position on
// the filled stack).
type Slot struct {
	Num    int // index in the grid (registration order)
	Len    int
	Row    int
	Col    int
	Across bool
	Name   string // e.g. A(2,0)

	Links   []Link
	Preset  []byte // preset letters, '_' where free
	Pattern []byte // current known letters (presets + crossing contributions)

	Filled     bool
	Word       string // valid iff Filled
	NextWord   int    // next candidate position in Compatible
	Compatible words.IndexList

	StackLevel    int // position on the filled stack, -1 otherwise
	DupStackLevel int // level whose word last blocked a candidate here, -1 if none

	RefByHigher []bool // positions constrained by higher-stack slots, for prune
	PruneSig    string // pattern at push time; cache-key prefix for refinements

	// Per-position, per-letter memo of forward-check outcomes for the
	// current stay on the stack. Cleared whenever the candidate scan
	// restarts from the top.
	letterChecked [words.MaxLen][26]bool
	letterOK      [words.MaxLen][26]bool
}

// NewSlot creates an unlinked slot of the given length at the given grid
// position. Length may be grown with GrowTo while the builder walks cells.
func NewSlot(length, row, col int, across bool) *Slot {
	s := &Slot{
		Len:           length,
		Row:           row,
		Col:           col,
		Across:        across,
		StackLevel:    -1,
		DupStackLevel: -1,
	}
	s.resize()
	return s
}

func (s *Slot) resize() {
	for len(s.Links) < s.Len {
		s.Links = append(s.Links, Link{To: -1})
	}
	for len(s.Preset) < s.Len {
		s.Preset = append(s.Preset, '_')
		s.Pattern = append(s.Pattern, '_')
		s.RefByHigher = append(s.RefByHigher, false)
	}
}

// GrowTo extends the slot to the given length (builder use only).
func (s *Slot) GrowTo(length int) {
	if length <= s.Len {
		return
	}
	s.Len = length
	s.resize()
}

// AddLink records a link from this slot's position pos to other's position
// otherPos. Linking the same position twice is a programming fault.
func (s *Slot) AddLink(pos int, other *Slot, otherPos int) {
	if !s.Links[pos].Empty() {
		log.Fatalf("slot %d pos %d: already linked", s.Num, pos)
	}
	s.Links[pos] = Link{To: other.Num, Pos: otherPos}
}

// PresetChar fixes the letter at pos. If a crossing slot shares the cell,
// the builder must preset it there too (no link is created for preset
// cells).
func (s *Slot) PresetChar(pos int, c byte) {
	s.Preset[pos] = c
}

// prepare seals the slot for searching: the pattern starts as the presets,
// and the slot is either open with its initial candidate list, or fully
// determined and marked filled (preset slots never go on the stack).
func (s *Slot) prepare(ctx *Context) {
	copy(s.Pattern, s.Preset)
	dir := byte('A')
	if !s.Across {
		dir = 'D'
	}
	s.Name = fmt.Sprintf("%c(%d,%d)", dir, s.Row, s.Col)
	if hasWildcard(s.Pattern) {
		s.Compatible = ctx.Caches[s.Len].Matches(string(s.Pattern))
		s.Filled = false
		return
	}
	s.Compatible = nil
	s.Word = string(s.Pattern)
	s.Filled = true
}

func hasWildcard(p []byte) bool {
	for _, c := range p {
		if c == '_' {
			return true
		}
	}
	return false
}

// findNextUsableWord scans Compatible from NextWord for a candidate that
// passes the forward check (each crossing open slot keeps at least one
// compatible word) and, unless dups are allowed, is not already installed
// somewhere on the stack. On success the candidate becomes Word and the
// cursor is left past it.
//
// For each linked open position and each letter we check compatibility at
// most once per stay: the first candidate proposing letter c at position p
// decides letterOK for every later candidate proposing the same.
func (s *Slot) findNextUsableWord(g *Grid) bool {
	if s.Compatible == nil {
		return false
	}
	if s.NextWord == 0 {
		s.letterChecked = [words.MaxLen][26]bool{}
		s.letterOK = [words.MaxLen][26]bool{}
	}
	list := g.ctx.Words.Lists[s.Len]
	for s.NextWord < len(s.Compatible) {
		ind := s.Compatible[s.NextWord]
		s.NextWord++
		w := list[ind]
		log.LogVf("slot %s: checking %q", s.Name, w)
		usable := true
		for i := range s.Len {
			if s.Links[i].Empty() || s.Pattern[i] != '_' {
				continue
			}
			c := w[i]
			nc := c - 'a'
			if !s.letterChecked[i][nc] {
				s.letterChecked[i][nc] = true
				s.letterOK[i][nc] = s.letterCompatible(g, i, c)
			}
			if !s.letterOK[i][nc] {
				usable = false
				break
			}
		}
		if usable && !g.ctx.Opts.AllowDups {
			for _, s2 := range g.stack {
				if s2.Word == w {
					usable = false
					s.DupStackLevel = s2.StackLevel
					break
				}
			}
		}
		if usable {
			s.Word = w
			return true
		}
	}
	return false
}

// letterCompatible reports whether putting c at the linked position leaves
// the crossing slot with at least one compatible word. When pruning, the
// filled slots crossing that open slot are marked as constraining it:
// their letters are part of why its candidate scan looks the way it does.
func (s *Slot) letterCompatible(g *Grid, pos int, c byte) bool {
	link := s.Links[pos]
	t := g.Slots[link.To]
	if t.Filled {
		return true
	}
	trial := make([]byte, t.Len)
	copy(trial, t.Pattern)
	trial[link.Pos] = c
	if g.ctx.Opts.Prune {
		for j := range t.Len {
			l2 := t.Links[j]
			if l2.Empty() {
				continue
			}
			u := g.Slots[l2.To]
			if u.Filled {
				u.RefByHigher[l2.Pos] = true
			}
		}
	}
	return t.checkPattern(g, string(trial))
}

// checkPattern reports whether any current candidate matches the trial
// pattern (which differs from Pattern by one extra letter, so only the
// current Compatible list needs scanning).
func (s *Slot) checkPattern(g *Grid, trial string) bool {
	list := g.ctx.Words.Lists[s.Len]
	for _, i := range s.Compatible {
		if words.Match(trial, list[i]) {
			return true
		}
	}
	return false
}

// uninstall removes this slot's word from its open crossing slots: their
// patterns lose the contributed letter and their candidate lists are
// refreshed. An empty refreshed list means the engine let an unfillable
// slot survive, which is a bug.
func (s *Slot) uninstall(g *Grid) {
	for i := range s.Len {
		link := s.Links[i]
		if link.Empty() {
			continue
		}
		t := g.Slots[link.To]
		if t.Filled {
			continue
		}
		t.Pattern[link.Pos] = '_'
		t.Compatible = g.ctx.Caches[t.Len].Matches(string(t.Pattern))
		if len(t.Compatible) == 0 {
			log.Fatalf("empty compatible list for slot %s pattern %q", t.Name, t.Pattern)
		}
	}
}

// prune narrows Compatible by dropping candidates that agree with the
// current word at every position some higher slot constrained. Returns
// false when no position is so constrained (nothing above cared about this
// word, so trying siblings of it cannot help).
func (s *Slot) prune(ctx *Context) bool {
	pattern := make([]byte, s.Len)
	found := false
	for i := range s.Len {
		if s.RefByHigher[i] {
			pattern[i] = s.Word[i]
			found = true
		} else {
			pattern[i] = '_'
		}
	}
	if !found {
		return false
	}
	s.Compatible = ctx.Caches[s.Len].MatchesPrune(s.Compatible, &s.NextWord, &s.PruneSig, string(pattern))
	return true
}

// topAffectingLevel returns the stack level of the topmost slot whose
// choice could have contributed to this slot running dry: a duplicate
// conflict, a filled direct neighbor, or a filled slot crossing an open
// direct neighbor. Backjumping pops down to that level. Short-circuits as
// soon as the level just below this slot is reached.
func (s *Slot) topAffectingLevel(g *Grid) int {
	maxLevel := -1
	if s.DupStackLevel >= 0 {
		maxLevel = s.DupStackLevel
		if maxLevel == s.StackLevel-1 {
			return maxLevel
		}
	}
	for i := range s.Len {
		link := s.Links[i]
		if link.Empty() {
			continue
		}
		t := g.Slots[link.To]
		if t.Filled {
			if t.StackLevel > maxLevel {
				maxLevel = t.StackLevel
				if maxLevel == s.StackLevel-1 {
					return maxLevel
				}
			}
			continue
		}
		for j := range t.Len {
			l2 := t.Links[j]
			if l2.Empty() {
				continue
			}
			u := g.Slots[l2.To]
			if u.Filled && u.StackLevel > maxLevel {
				maxLevel = u.StackLevel
				if maxLevel == s.StackLevel-1 {
					return maxLevel
				}
			}
		}
	}
	return maxLevel
}

// LogState dumps the slot for -show_grid and debugging.
func (s *Slot) LogState(showLinks bool) {
	state := "unfilled"
	if s.Filled {
		state = fmt.Sprintf("filled; word %q index %d", s.Word, s.NextWord)
	}
	log.Infof("slot %s: len %d; %s; pattern %q; %d compatible",
		s.Name, s.Len, state, s.Pattern, len(s.Compatible))
	if !showLinks {
		return
	}
	for i := range s.Len {
		if s.Links[i].Empty() {
			continue
		}
		log.Infof("   pos %d -> slot %d pos %d", i, s.Links[i].To, s.Links[i].Pos)
	}
}
