// Package board reads grid files (black-square and bar-delimited formats),
// derives the slots, links and presets for the fill engine, and renders
// partially or fully filled grids.
package board

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/log"
	"xwfill.io/xwfill/words"
	"xwfill.io/xwfill/xw"
)

// Board is a parsed grid file plus, after Build, the cell to slot/position
// maps used for rendering.
type Board struct {
	Bar  bool // bar-delimited format (vs black-square)
	Rows int
	Cols int

	mirror bool
	// wrap[0]/twist[0] apply to across movement (row wrapping), index 1 to
	// down movement.
	wrap  [2]bool
	twist [2]bool

	// cells[row][col]: '*' black (black-square only), ' ' open blank, or a
	// preset lowercase letter.
	cells [][]byte

	// bar format only.
	barLeft, barRight, barAbove, barBelow [][]bool
	fileRows                              [][]byte // raw bar-file chars, for rendering

	acrossSlot, downSlot [][]*xw.Slot
	acrossPos, downPos   [][]int
}

// Load reads and parses a grid file, auto-detecting the format.
func Load(path string) (*Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse parses a grid file. A first content line made only of '-' and ' '
// marks the bar-delimited format; anything else is black-square.
func Parse(r io.Reader) (*Board, error) {
	b := &Board{}
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		switch line {
		case "mirror":
			b.mirror = true
		case "wrap_row":
			b.wrap[0] = true
		case "wrap_col":
			b.wrap[1] = true
		case "twist_row":
			b.twist[0] = true
		case "twist_col":
			b.twist[1] = true
		case "":
			// ignore blank lines between flags and grid
		default:
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty grid file")
	}
	if isBarRow(lines[0]) {
		b.Bar = true
		if err := b.parseBar(lines); err != nil {
			return nil, err
		}
	} else if err := b.parseBlackSquare(lines); err != nil {
		return nil, err
	}
	log.LogVf("parsed %dx%d grid, bar=%v wrap=%v twist=%v mirror=%v",
		b.Rows, b.Cols, b.Bar, b.wrap, b.twist, b.mirror)
	return b, nil
}

func isBarRow(line string) bool {
	for i := range len(line) {
		if line[i] != '-' && line[i] != ' ' {
			return false
		}
	}
	return true
}

// mirrorRows appends the 180 degree rotation of all but the last row.
func mirrorRows(rows [][]byte) [][]byte {
	n := len(rows)
	cols := len(rows[0])
	for i := range n - 1 {
		src := rows[n-i-2]
		row := make([]byte, cols)
		for j := range cols {
			row[j] = src[cols-j-1]
		}
		rows = append(rows, row)
	}
	return rows
}

func (b *Board) size(coord int) int {
	if coord == 0 {
		return b.Rows
	}
	return b.Cols
}

// next returns the coordinates following c in the across (coord 0) or down
// (coord 1) direction, wrapping and twisting at the boundary. The twist
// formula d[coord] = size[coord] - c[coord] - 1 is authoritative, fixed
// points included.
func (b *Board) next(c [2]int, coord int) [2]int {
	d := c
	coord2 := 1 - coord
	d[coord2]++
	if d[coord2] == b.size(coord2) {
		d[coord2] = 0
		if b.twist[coord] {
			d[coord] = b.size(coord) - c[coord] - 1
		}
	}
	return d
}

// prev is next's inverse on the same direction.
func (b *Board) prev(c [2]int, coord int) [2]int {
	d := c
	coord2 := 1 - coord
	d[coord2]--
	if d[coord2] < 0 {
		d[coord2] = b.size(coord2) - 1
		if b.twist[coord] {
			d[coord] = b.size(coord) - c[coord] - 1
		}
	}
	return d
}

// Build derives slots, links and presets from the parsed grid and registers
// them with g. Call once per Board.
func (b *Board) Build(g *xw.Grid) error {
	b.acrossSlot = make([][]*xw.Slot, b.Rows)
	b.downSlot = make([][]*xw.Slot, b.Rows)
	b.acrossPos = make([][]int, b.Rows)
	b.downPos = make([][]int, b.Rows)
	for i := range b.Rows {
		b.acrossSlot[i] = make([]*xw.Slot, b.Cols)
		b.downSlot[i] = make([]*xw.Slot, b.Cols)
		b.acrossPos[i] = make([]int, b.Cols)
		b.downPos[i] = make([]int, b.Cols)
	}
	var err error
	if b.Bar {
		err = b.buildBar(g)
	} else {
		err = b.buildBlackSquare(g)
	}
	if err != nil {
		return err
	}
	for _, s := range g.Slots {
		if s.Len >= words.MaxLen {
			return fmt.Errorf("slot at (%d,%d) is %d cells, longer than any word", s.Row, s.Col, s.Len)
		}
	}
	return b.linkAndPreset(g)
}

// linkAndPreset walks the cells once more: presets go to both crossing
// slots, open cells shared by two slots get a link pair.
func (b *Board) linkAndPreset(g *xw.Grid) error {
	for i := range b.Rows {
		for j := range b.Cols {
			c := b.cells[i][j]
			if c == '*' {
				continue
			}
			aslot := b.acrossSlot[i][j]
			dslot := b.downSlot[i][j]
			if !b.Bar && (aslot == nil || dslot == nil) {
				return fmt.Errorf("unchecked cell at %d %d", i, j)
			}
			if aslot == nil && dslot == nil {
				return fmt.Errorf("no slot at %d %d", i, j)
			}
			if c == ' ' {
				if aslot != nil && dslot != nil {
					g.AddLink(aslot, b.acrossPos[i][j], dslot, b.downPos[i][j])
				}
				continue
			}
			if aslot != nil {
				aslot.PresetChar(b.acrossPos[i][j], c)
			}
			if dslot != nil {
				dslot.PresetChar(b.downPos[i][j], c)
			}
		}
	}
	return nil
}
