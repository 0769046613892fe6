// Package termscreen is a small virtual terminal used by tests to check what
// the live view actually leaves on screen.
package termscreen

import (
	"regexp"
	"strings"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes CSI escape sequences.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// Screen is a fixed-size grid of runes with a cursor.
type Screen struct {
	rows, cols int
	cells      [][]rune
	x, y       int

	altScreen     bool
	cursorVisible bool
}

// New creates a blank screen.
func New(rows, cols int) *Screen {
	s := &Screen{rows: rows, cols: cols, cursorVisible: true}
	s.cells = make([][]rune, rows)
	for i := range s.cells {
		s.cells[i] = blankRow(cols)
	}
	return s
}

// Parse feeds output into a fresh screen.
func Parse(output string, rows, cols int) *Screen {
	s := New(rows, cols)
	s.Write([]byte(output))
	return s
}

func blankRow(cols int) []rune {
	row := make([]rune, cols)
	for i := range row {
		row[i] = ' '
	}
	return row
}

// Write interprets output. It never fails, so a Screen can stand in for a terminal writer.
func (s *Screen) Write(p []byte) (int, error) {
	runes := []rune(string(p))
	for i := 0; i < len(runes); {
		switch r := runes[i]; {
		case r == '\x1b' && i+1 < len(runes) && runes[i+1] == '[':
			i = s.csi(runes, i+2)
		case r == '\r':
			s.x = 0
			i++
		case r == '\n':
			s.lineFeed()
			i++
		case r == '\b':
			if s.x > 0 {
				s.x--
			}
			i++
		default:
			s.put(r)
			i++
		}
	}
	return len(p), nil
}

func (s *Screen) csi(runes []rune, i int) int {
	private := false
	if i < len(runes) && runes[i] == '?' {
		private = true
		i++
	}
	var params []int
	current, seen := 0, false
	for ; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r >= '0' && r <= '9':
			current = current*10 + int(r-'0')
			seen = true
		case r == ';':
			params = append(params, current)
			current, seen = 0, false
		default:
			if seen {
				params = append(params, current)
			}
			if private {
				s.privateMode(r, params)
			} else {
				s.command(r, params)
			}
			return i + 1
		}
	}
	return i
}

func param(params []int, idx, def int) int {
	if idx < len(params) && params[idx] > 0 {
		return params[idx]
	}
	return def
}

func (s *Screen) privateMode(cmd rune, params []int) {
	on := cmd == 'h'
	if cmd != 'h' && cmd != 'l' {
		return
	}
	switch param(params, 0, 0) {
	case 1049:
		s.altScreen = on
	case 25:
		s.cursorVisible = on
	}
}

func (s *Screen) command(cmd rune, params []int) {
	switch cmd {
	case 'H', 'f':
		s.y = min(param(params, 0, 1)-1, s.rows-1)
		s.x = min(param(params, 1, 1)-1, s.cols-1)
	case 'J':
		mode := 0
		if len(params) > 0 {
			mode = params[0]
		}
		switch mode {
		case 0:
			s.clearRange(s.y, s.x, s.rows-1, s.cols-1)
		case 1:
			s.clearRange(0, 0, s.y, s.x)
		case 2, 3:
			s.clearRange(0, 0, s.rows-1, s.cols-1)
		}
	case 'K':
		mode := 0
		if len(params) > 0 {
			mode = params[0]
		}
		switch mode {
		case 0:
			s.clearRange(s.y, s.x, s.y, s.cols-1)
		case 1:
			s.clearRange(s.y, 0, s.y, s.x)
		case 2:
			s.clearRange(s.y, 0, s.y, s.cols-1)
		}
	case 'A':
		s.y = max(0, s.y-param(params, 0, 1))
	case 'B':
		s.y = min(s.rows-1, s.y+param(params, 0, 1))
	case 'C':
		s.x = min(s.cols-1, s.x+param(params, 0, 1))
	case 'D':
		s.x = max(0, s.x-param(params, 0, 1))
	}
}

// clearRange blanks cells from (r0,c0) to (r1,c1) inclusive in reading order.
func (s *Screen) clearRange(r0, c0, r1, c1 int) {
	for r := r0; r <= r1 && r < s.rows; r++ {
		if r < 0 {
			continue
		}
		from, to := 0, s.cols-1
		if r == r0 {
			from = c0
		}
		if r == r1 {
			to = c1
		}
		for c := max(from, 0); c <= to && c < s.cols; c++ {
			s.cells[r][c] = ' '
		}
	}
}

func (s *Screen) put(r rune) {
	if s.x >= s.cols {
		s.x = 0
		s.lineFeed()
	}
	if s.y < 0 || s.y >= s.rows {
		return
	}
	s.cells[s.y][s.x] = r
	s.x++
}

func (s *Screen) lineFeed() {
	s.x = 0
	s.y++
	if s.y >= s.rows {
		copy(s.cells, s.cells[1:])
		s.cells[s.rows-1] = blankRow(s.cols)
		s.y = s.rows - 1
	}
}

// Line returns one row without trailing spaces.
func (s *Screen) Line(row int) string {
	if row < 0 || row >= s.rows {
		return ""
	}
	return strings.TrimRight(string(s.cells[row]), " ")
}

// String returns the whole screen, rows joined by newlines.
func (s *Screen) String() string {
	lines := make([]string, s.rows)
	for i := range lines {
		lines[i] = s.Line(i)
	}
	return strings.Join(lines, "\n")
}

// Contains reports whether text appears on screen.
func (s *Screen) Contains(text string) bool {
	return strings.Contains(s.String(), text)
}

// AltScreen reports whether the alternate screen is active.
func (s *Screen) AltScreen() bool { return s.altScreen }

// CursorVisible reports whether the cursor is shown.
func (s *Screen) CursorVisible() bool { return s.cursorVisible }
