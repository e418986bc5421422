// Package render prints a sim.Snapshot as rows of characters:
// '#' for reserved cells, '.' for free cells, and the first character of
// the owning process name otherwise.
package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/inference-sim/memsim/sim"
)

// DefaultWidth is the number of cells printed per row.
const DefaultWidth = 80

const (
	reservedGlyph = '#'
	freeGlyph     = '.'
)

// Glyph returns the character drawn for one cell.
func Glyph(c sim.CellState) rune {
	switch c.Kind {
	case sim.CellReserved:
		return reservedGlyph
	case sim.CellFree:
		return freeGlyph
	default:
		r, _ := utf8.DecodeRuneInString(c.Process)
		return r
	}
}

// Rows splits the snapshot into strings of width cells each. The last row
// may be shorter. width <= 0 means DefaultWidth.
func Rows(snap sim.Snapshot, width int) []string {
	if width <= 0 {
		width = DefaultWidth
	}
	rows := make([]string, 0, (len(snap.Cells)+width-1)/width)
	var b strings.Builder
	for i, c := range snap.Cells {
		b.WriteRune(Glyph(c))
		if (i+1)%width == 0 {
			rows = append(rows, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		rows = append(rows, b.String())
	}
	return rows
}

// Snapshot writes a "Memory at time T:" header followed by the rows.
func Snapshot(w io.Writer, snap sim.Snapshot, width int) error {
	if _, err := fmt.Fprintf(w, "Memory at time %d:\n", snap.Time); err != nil {
		return err
	}
	for _, row := range Rows(snap, width) {
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

// Defrag writes the compaction report.
func Defrag(w io.Writer, report sim.DefragReport) error {
	_, err := fmt.Fprintf(w, "Performing defragmentation...\nDefragmentation completed.\nRelocated %d processes to create free memory block of %d units (%.2f%% of total memory).\n",
		report.Moved, report.FreeCells, report.FreePercent)
	return err
}
