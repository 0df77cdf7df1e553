package board

import (
	"fmt"
	"io"
	"strings"

	"github.com/vyevs/ansi"
)

// ansiHome moves the cursor to the top left so a repaint overwrites the
// previous frame instead of scrolling.
const ansiHome = "\x1b[H"

// CellLetter returns the current letter at a cell: the installed word's
// letter if a covering slot is filled, the pattern letter otherwise ('_'
// when unknown, '*' for a blocked cell).
func (b *Board) CellLetter(row, col int) byte {
	slot := b.acrossSlot[row][col]
	pos := b.acrossPos[row][col]
	if slot == nil {
		slot = b.downSlot[row][col]
		pos = b.downPos[row][col]
	}
	if slot == nil {
		return '*'
	}
	if slot.Filled {
		return slot.Word[pos]
	}
	return slot.Pattern[pos]
}

// Render writes the grid in the same shape as the input file: bar grids
// reproduce the bar rows, black-square grids print letters spaced out with
// '*' blocks.
func (b *Board) Render(w io.Writer) {
	if b.Bar {
		b.renderBar(w, false)
		return
	}
	b.renderBlackSquare(w, false)
}

// RenderANSI repaints the grid in place (cursor home; black-square preset
// letters in green, bar grids drawn entirely in cyan) for the curses-style
// live display.
func (b *Board) RenderANSI(w io.Writer) {
	fmt.Fprint(w, ansiHome)
	if b.Bar {
		b.renderBar(w, true)
	} else {
		b.renderBlackSquare(w, true)
	}
}

func (b *Board) renderBlackSquare(w io.Writer, color bool) {
	var sb strings.Builder
	for i := range b.Rows {
		for j := range b.Cols {
			c := b.CellLetter(i, j)
			if color && b.cells[i][j] != ' ' && b.cells[i][j] != '*' {
				sb.WriteString(ansi.FGColorName("green"))
				sb.WriteByte(c)
				sb.WriteString(ansi.Clear)
			} else {
				sb.WriteByte(c)
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(w, sb.String())
}

func (b *Board) renderBar(w io.Writer, color bool) {
	out := make([][]byte, len(b.fileRows))
	for i := range b.fileRows {
		out[i] = append([]byte(nil), b.fileRows[i]...)
	}
	for i := range b.Rows {
		for j := range b.Cols {
			out[i*2+1][j*2+1] = b.CellLetter(i, j)
		}
	}
	var sb strings.Builder
	for _, row := range out {
		if color {
			sb.WriteString(ansi.FGColorName("cyan"))
			sb.Write(row)
			sb.WriteString(ansi.Clear)
		} else {
			sb.Write(row)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(w, sb.String())
}
