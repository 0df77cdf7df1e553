package board

import (
	"fmt"

	"xwfill.io/xwfill/xw"
)

// Bar-delimited format: odd file rows hold cells at even columns ('.'
// blank or a preset letter) and vertical bars '|' at odd columns; even
// file rows hold horizontal bars '-' at odd columns. Both file dimensions
// must be odd. Unchecked cells are permitted.
func (b *Board) parseBar(lines []string) error {
	cols := len(lines[0])
	if cols%2 == 0 {
		return fmt.Errorf("first row must have odd length: %q", lines[0])
	}
	rows := make([][]byte, 0, len(lines))
	for n, line := range lines {
		if n%2 == 1 {
			if err := validOddRow(line); err != nil {
				return err
			}
			if len(line) != cols {
				return fmt.Errorf("size mismatch in %q: want %d, got %d", line, cols, len(line))
			}
		} else {
			if !isBarRow(line) {
				return fmt.Errorf("invalid row %d: %q", n, line)
			}
			if len(line) > cols {
				return fmt.Errorf("size mismatch in %q: %d > %d", line, len(line), cols)
			}
		}
		row := make([]byte, cols)
		copy(row, line)
		for j := len(line); j < cols; j++ {
			row[j] = ' '
		}
		rows = append(rows, row)
	}
	if b.mirror {
		rows = mirrorRows(rows)
	}
	if len(rows)%2 == 0 {
		return fmt.Errorf("grid must have an odd number of rows")
	}
	b.fileRows = rows
	b.Rows = len(rows) / 2
	b.Cols = cols / 2

	b.cells = make([][]byte, b.Rows)
	b.barLeft = make([][]bool, b.Rows)
	b.barRight = make([][]bool, b.Rows)
	b.barAbove = make([][]bool, b.Rows)
	b.barBelow = make([][]bool, b.Rows)
	for i := range b.Rows {
		b.cells[i] = make([]byte, b.Cols)
		b.barLeft[i] = make([]bool, b.Cols)
		b.barRight[i] = make([]bool, b.Cols)
		b.barAbove[i] = make([]bool, b.Cols)
		b.barBelow[i] = make([]bool, b.Cols)
		for j := range b.Cols {
			c := rows[i*2+1][j*2+1]
			if c >= 'a' && c <= 'z' {
				b.cells[i][j] = c
			} else {
				b.cells[i][j] = ' '
			}
			b.barLeft[i][j] = rows[i*2+1][j*2] == '|'
			b.barRight[i][j] = rows[i*2+1][j*2+2] == '|'
			b.barAbove[i][j] = rows[i*2][j*2+1] == '-'
			b.barBelow[i][j] = rows[i*2+2][j*2+1] == '-'
		}
	}
	return nil
}

func validOddRow(line string) error {
	for i := range len(line) {
		c := line[i]
		if i%2 == 1 {
			if c == '.' || (c >= 'a' && c <= 'z') {
				continue
			}
		} else if c == '|' || c == ' ' {
			continue
		}
		return fmt.Errorf("invalid row %q", line)
	}
	return nil
}

// barBefore/barAfter are the bar-format equivalents of a blocked
// predecessor/successor cell.
func (b *Board) barBefore(c [2]int, coord int) bool {
	if coord == 0 {
		return b.barLeft[c[0]][c[1]]
	}
	return b.barAbove[c[0]][c[1]]
}

func (b *Board) barAfter(c [2]int, coord int) bool {
	if coord == 0 {
		return b.barRight[c[0]][c[1]]
	}
	return b.barBelow[c[0]][c[1]]
}

// buildBar scans rows then columns. A slot starts at a cell with no bar
// after it (single cells between bars get no slot in that direction:
// unchecked) and extends until a bar. With wrapping, a slot at the edge
// with no closing bar continues past the (possibly twisted) boundary.
func (b *Board) buildBar(g *xw.Grid) error {
	for coord := range 2 {
		sz, sz2 := b.size(coord), b.size(1-coord)
		for fixed := range sz {
			c := [2]int{fixed, 0}
			if coord == 1 {
				c = [2]int{0, fixed}
			}
			var slot *xw.Slot
			visited := 0
			for {
				if slot != nil && !b.barBefore(c, coord) {
					b.setCell(coord, c, slot, slot.Len)
					slot.GrowTo(slot.Len + 1)
					if b.barAfter(c, coord) {
						slot = nil
					}
				} else if slot == nil && !b.barAfter(c, coord) {
					slot = xw.NewSlot(1, c[0], c[1], coord == 0)
					b.setCell(coord, c, slot, 0)
					g.AddSlot(slot)
				}
				visited++
				if visited > sz*sz2 {
					return fmt.Errorf("wrapped line at %v has no bar", c)
				}
				if c[1-coord] == sz2-1 {
					if slot != nil && b.wrap[coord] && !b.barAfter(c, coord) {
						c = b.next(c, coord)
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
