package board

import (
	"fmt"

	"xwfill.io/xwfill/xw"
)

// Black-square format: a rectangle of characters, '*' blocked, '.' or
// space an open blank cell, a lowercase letter a preset. All rows must
// have the same length. By convention such grids have no unchecked cells.
func (b *Board) parseBlackSquare(lines []string) error {
	cols := len(lines[0])
	rows := make([][]byte, 0, len(lines))
	for _, line := range lines {
		if len(line) != cols {
			return fmt.Errorf("size mismatch: row %q, want %d columns", line, cols)
		}
		row := make([]byte, cols)
		for j := range cols {
			c := line[j]
			switch {
			case c == '*':
				row[j] = '*'
			case c == '.' || c == ' ':
				row[j] = ' '
			case c >= 'a' && c <= 'z':
				row[j] = c
			default:
				return fmt.Errorf("bad cell %q in row %q", c, line)
			}
		}
		rows = append(rows, row)
	}
	if b.mirror {
		rows = mirrorRows(rows)
	}
	b.cells = rows
	b.Rows = len(rows)
	b.Cols = cols
	return nil
}

func (b *Board) black(c [2]int) bool {
	return b.cells[c[0]][c[1]] == '*'
}

// prevBlack reports whether the cell before c in the given direction is
// blocked; without wrapping, the edge counts as blocked.
func (b *Board) prevBlack(c [2]int, coord int) bool {
	coord2 := 1 - coord
	if c[coord2] == 0 {
		if !b.wrap[coord] {
			return true
		}
		return b.black(b.prev(c, coord))
	}
	d := c
	d[coord2]--
	return b.black(d)
}

func (b *Board) nextBlack(c [2]int, coord int) bool {
	coord2 := 1 - coord
	if c[coord2] == b.size(coord2)-1 {
		if !b.wrap[coord] {
			return true
		}
		return b.black(b.next(c, coord))
	}
	d := c
	d[coord2]++
	return b.black(d)
}

// buildBlackSquare scans rows then columns, creating a slot at each open
// cell whose predecessor is blocked and extending it until the next block.
// With wrapping, a slot reaching the edge continues past the (possibly
// twisted) boundary; a wrapped line with no block at all never starts a
// slot and is rejected by the unchecked-cell check.
func (b *Board) buildBlackSquare(g *xw.Grid) error {
	for coord := range 2 {
		sz, sz2 := b.size(coord), b.size(1-coord)
		for fixed := range sz {
			c := [2]int{fixed, 0}
			if coord == 1 {
				c = [2]int{0, fixed}
			}
			var slot *xw.Slot
			wrapped := false
			visited := 0
			for {
				if b.black(c) {
					slot = nil
					if wrapped {
						break
					}
				} else if slot != nil {
					b.setCell(coord, c, slot, slot.Len)
					slot.GrowTo(slot.Len + 1)
					if b.nextBlack(c, coord) {
						slot = nil
					}
				} else if b.prevBlack(c, coord) {
					slot = xw.NewSlot(1, c[0], c[1], coord == 0)
					b.setCell(coord, c, slot, 0)
					g.AddSlot(slot)
				}
				visited++
				if visited > sz2+sz*sz2 {
					return fmt.Errorf("wrapped line at %v has no black square", c)
				}
				if c[1-coord] == sz2-1 {
					if slot != nil && b.wrap[coord] {
						c = b.next(c, coord)
						wrapped = true
					} else {
						break
					}
				} else {
					c[1-coord]++
				}
			}
		}
	}
	return nil
}

func (b *Board) setCell(coord int, c [2]int, slot *xw.Slot, pos int) {
	if coord == 0 {
		b.acrossSlot[c[0]][c[1]] = slot
		b.acrossPos[c[0]][c[1]] = pos
	} else {
		b.downSlot[c[0]][c[1]] = slot
		b.downPos[c[0]][c[1]] = pos
	}
}
