package words

import "fortio.org/log"

// PatternCache memoizes, for one word length, the mapping from a pattern to
// the list of word indices matching it. Nothing is ever evicted during a
// search; Clear is called only on restart. Not actually much of a cache.
type PatternCache struct {
	len  int
	list List // the dictionary's list for this length (not owned)
	m    map[string]IndexList
}

// NewPatternCache returns a cache over the given list of words of length l.
func NewPatternCache(l int, list List) *PatternCache {
	return &PatternCache{len: l, list: list, m: make(map[string]IndexList)}
}

// Clear drops all entries and rebinds the cache to the (possibly
// reshuffled) list. Index lists handed out earlier become meaningless.
func (c *PatternCache) Clear(list List) {
	c.list = list
	c.m = make(map[string]IndexList)
}

// Matches returns the indices of words matching pattern, computing and
// memoizing on first use. The same list is returned for the same pattern
// string; callers must not mutate it.
func (c *PatternCache) Matches(pattern string) IndexList {
	if ilist, ok := c.m[pattern]; ok {
		return ilist
	}
	ilist := IndexList{}
	for i, word := range c.list {
		if Match(pattern, word) {
			ilist = append(ilist, i)
		}
	}
	c.m[pattern] = ilist
	return ilist
}

// MatchesPrune refines base: it removes every word that matches
// prunePattern and returns the rest. base is the list the caller is
// scanning with *cursor as the next position to try (so the current word
// sits at *cursor-1). If nothing is removed, base is returned and signature
// and cursor are left alone. Otherwise the refined list is installed under
// the composite key *signature + prunePattern, the signature is extended,
// and *cursor is rewritten so the scan resumes at the first survivor after
// the formerly-current word. Refining repeatedly with the same pattern
// sequence hits the same cache entries.
func (c *PatternCache) MatchesPrune(base IndexList, cursor *int, signature *string, prunePattern string) IndexList {
	cur := -1
	if *cursor > 0 && *cursor-1 < len(base) {
		cur = base[*cursor-1]
	}
	out := IndexList{}
	removed := false
	newCursor := 0
	for _, i := range base {
		if Match(prunePattern, c.list[i]) {
			removed = true
			if i == cur {
				newCursor = len(out) // resume at the next survivor
			}
			continue
		}
		out = append(out, i)
		if i == cur {
			newCursor = len(out) // just past the current word
		}
	}
	if !removed {
		return base
	}
	key := *signature + prunePattern
	if cached, ok := c.m[key]; ok {
		out = cached // keep the canonical list for this key
	} else {
		c.m[key] = out
	}
	log.LogVf("prune len %d: %d -> %d words, key %q", c.len, len(base), len(out), key)
	*signature = key
	*cursor = newCursor
	return out
}
