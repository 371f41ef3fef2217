package terminal

import (
	"strings"

	"github.com/hinshun/vt10x"
)

// cursorGlyph marks the cursor position in rendered screens.
const cursorGlyph = '█'

// Screen models the terminal display. Feeding raw PTY output advances
// the emulation; Render projects the character grid to plain text.
//
// Screen is not safe for concurrent use on its own; the Manager
// serializes all access.
type Screen struct {
	term vt10x.Terminal
	rows int
	cols int
}

// NewScreen creates an empty screen of the given size.
func NewScreen(rows, cols int) *Screen {
	return &Screen{
		term: vt10x.New(vt10x.WithSize(cols, rows)),
		rows: rows,
		cols: cols,
	}
}

// Feed advances the emulation with raw terminal output.
func (s *Screen) Feed(p []byte) {
	if len(p) == 0 {
		return
	}
	s.term.Write(p)
}

// Render projects the grid to text. When the cursor is visible its
// glyph is inserted at the cursor column, shifting the rest of that
// row right; trailing whitespace is trimmed after the insertion so a
// cursor at end of line survives the trim. Rows are joined with
// newlines.
func (s *Screen) Render() string {
	cursor := s.term.Cursor()
	showCursor := s.term.CursorVisible()

	lines := make([]string, 0, s.rows)
	for y := 0; y < s.rows; y++ {
		row := make([]rune, 0, s.cols+1)
		for x := 0; x < s.cols; x++ {
			ch := s.term.Cell(x, y).Char
			if ch == 0 {
				ch = ' '
			}
			row = append(row, ch)
		}
		if showCursor && y == cursor.Y {
			col := cursor.X
			if col < 0 {
				col = 0
			}
			if col > len(row) {
				col = len(row)
			}
			row = append(row[:col], append([]rune{cursorGlyph}, row[col:]...)...)
		}
		lines = append(lines, strings.TrimRight(string(row), " \t"))
	}
	return strings.Join(lines, "\n")
}
