// Package words holds the per-length word lists and the pattern match
// caches used by the grid filler. Words are lowercase ASCII; a pattern is a
// word-length string over a-z plus '_' as a wildcard.
package words

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"fortio.org/log"
	"fortio.org/sets"
)

// MaxLen is one more than the longest usable word; words at least this long
// are dropped on read.
const MaxLen = 29

// List is an ordered list of words of a single length. A word's identity is
// its index in the list, so within one search the list must not be
// reallocated or reordered (shuffling happens only between searches).
type List []string

// IndexList is a subset of a List, as indices, in List order.
type IndexList []int

// Words is the dictionary: one List per word length, plus the veto sets
// applied while reading.
type Words struct {
	Lists  [MaxLen + 1]List
	vetoed [MaxLen + 1]sets.Set[string]
	rng    *rand.Rand
}

// New returns an empty dictionary whose shuffle order is driven by the given
// seed. The same seed gives the same shuffle sequence.
func New(seed uint64) *Words {
	return &Words{rng: rand.New(rand.NewPCG(seed, seed+1))}
}

// ReadVeto loads the veto sets from one-word-per-line file. A missing file
// is not an error; vetoes are optional. Calling it again replaces the sets
// (the interactive veto command rewrites the file and rereads it).
func (w *Words) ReadVeto(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.LogVf("No veto file %s, continuing without", path)
			return nil
		}
		return err
	}
	defer f.Close()
	for i := range w.vetoed {
		w.vetoed[i] = nil
	}
	sc := bufio.NewScanner(f)
	n := 0
	for sc.Scan() {
		word := sc.Text()
		l := len(word)
		if l == 0 || l >= MaxLen {
			continue
		}
		if w.vetoed[l] == nil {
			w.vetoed[l] = sets.New[string]()
		}
		w.vetoed[l].Add(word)
		n++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	log.Infof("Read %d vetoed words from %s", n, path)
	return nil
}

// Read loads the word list from a one-word-per-line file, dropping vetoed
// words and words of length >= MaxLen. File order is preserved. With
// reverse, each word's reversal is appended as an additional entry.
// Calling it again replaces the lists.
func (w *Words) Read(path string, reverse bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return w.ReadFrom(f, reverse)
}

// ReadFrom is Read from an arbitrary reader.
func (w *Words) ReadFrom(r io.Reader, reverse bool) error {
	for i := range w.Lists {
		w.Lists[i] = nil
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		word := sc.Text()
		l := len(word)
		if l == 0 || l >= MaxLen {
			continue
		}
		if w.vetoed[l] != nil && w.vetoed[l].Has(word) {
			continue
		}
		w.Lists[l] = append(w.Lists[l], word)
		if reverse {
			w.Lists[l] = append(w.Lists[l], reverseWord(word))
		}
	}
	return sc.Err()
}

func reverseWord(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// Shuffle permutes each per-length list in place. Only valid between
// searches: index lists handed out by the caches reference the old order.
func (w *Words) Shuffle() {
	for l := 1; l <= MaxLen; l++ {
		list := w.Lists[l]
		if len(list) == 0 {
			continue
		}
		w.rng.Shuffle(len(list), func(i, j int) {
			list[i], list[j] = list[j], list[i]
		})
	}
}

// LogCounts reports the per-length word counts.
func (w *Words) LogCounts() {
	for l := 1; l <= MaxLen; l++ {
		if len(w.Lists[l]) == 0 {
			continue
		}
		log.Infof("len %d: %d words", l, len(w.Lists[l]))
	}
}

// Match reports whether word matches pattern positionwise: '_' matches
// anything, a letter must match exactly. Both must have the same length.
func Match(pattern, word string) bool {
	for i := range len(pattern) {
		if pattern[i] != '_' && pattern[i] != word[i] {
			return false
		}
	}
	return true
}
