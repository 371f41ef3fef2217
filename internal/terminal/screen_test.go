package terminal

import (
	"strings"
	"testing"
)

func TestRenderCursorOnBlankScreen(t *testing.T) {
	s := NewScreen(3, 10)

	// CUP is 1-based: row 2, column 3 lands the cursor at row 1,
	// column 2 of the grid.
	s.Feed([]byte("\x1b[2;3H"))

	got := s.Render()
	want := "\n  █\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderCursorAfterText(t *testing.T) {
	s := NewScreen(2, 10)
	s.Feed([]byte("hi"))

	got := s.Render()
	want := "hi█\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderCursorInsertsMidLine(t *testing.T) {
	s := NewScreen(2, 10)
	s.Feed([]byte("hello\rHE"))

	// The cursor sits between the overwritten prefix and the rest of
	// the word; its glyph shifts the tail right instead of hiding it.
	got := s.Render()
	want := "HE█llo\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderHiddenCursor(t *testing.T) {
	s := NewScreen(2, 10)
	s.Feed([]byte("hi\x1b[?25l"))

	got := s.Render()
	want := "hi\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderLineWrap(t *testing.T) {
	s := NewScreen(3, 10)
	s.Feed([]byte("0123456789AB"))

	got := s.Render()
	want := "0123456789\nAB█\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderClearScreen(t *testing.T) {
	s := NewScreen(2, 10)
	s.Feed([]byte("junk\x1b[2J\x1b[H"))

	got := s.Render()
	want := "█\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderStripsColorSequences(t *testing.T) {
	s := NewScreen(2, 20)
	s.Feed([]byte("\x1b[31mred\x1b[0m text"))

	got := s.Render()
	if !strings.HasPrefix(got, "red text") {
		t.Errorf("Render() = %q, want prefix %q", got, "red text")
	}
	if strings.Contains(got, "\x1b") {
		t.Errorf("Render() leaked escape bytes: %q", got)
	}
}

func TestRenderRowCount(t *testing.T) {
	s := NewScreen(5, 10)
	got := s.Render()
	if n := strings.Count(got, "\n"); n != 4 {
		t.Errorf("Render() has %d newlines, want 4", n)
	}
}

func TestFeedEmpty(t *testing.T) {
	s := NewScreen(2, 10)
	s.Feed(nil)
	s.Feed([]byte{})

	got := s.Render()
	want := "█\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}
