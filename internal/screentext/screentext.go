// Package screentext holds the decoded, screen-partitioned text buffers.
package screentext

import "strings"

const (
	ScreenNumChars = 19
	ScreenNumLines = 4
	NumScreens     = 4
	TotalLines     = NumScreens * ScreenNumLines
	// BufferLength is the byte capacity of one Grid.
	BufferLength = TotalLines * ScreenNumChars
)

// Line is one fixed-width row. Short text is NUL padded; a full line has no terminator.
type Line [ScreenNumChars]byte

// Set zero-fills the line and copies at most ScreenNumChars bytes of src into it.
func (l *Line) Set(src []byte) {
	*l = Line{}
	copy(l[:], src)
}

// String returns the printable part of the line, up to the first NUL with
// trailing spaces removed.
func (l Line) String() string {
	n := len(l)
	for i, b := range l {
		if b == 0 {
			n = i
			break
		}
	}
	return strings.TrimRight(string(l[:n]), " ")
}

// Grid is NumScreens screens of ScreenNumLines lines each.
type Grid [NumScreens][ScreenNumLines]Line

// Row returns the line at absolute row i, or false when i is out of range.
func (g *Grid) Row(i int) (*Line, bool) {
	if i < 0 || i >= TotalLines {
		return nil, false
	}
	return &g[i/ScreenNumLines][i%ScreenNumLines], true
}

// At returns the line addressed by (screen, line).
func (g *Grid) At(screen, line int) (*Line, bool) {
	if screen < 0 || screen >= NumScreens || line < 0 || line >= ScreenNumLines {
		return nil, false
	}
	return &g[screen][line], true
}

// Screen returns the lines of one screen as strings.
func (g *Grid) Screen(screen int) []string {
	if screen < 0 || screen >= NumScreens {
		return nil
	}
	out := make([]string, ScreenNumLines)
	for i, l := range g[screen] {
		out[i] = l.String()
	}
	return out
}

// Bytes flattens the grid row by row.
func (g *Grid) Bytes() []byte {
	out := make([]byte, 0, BufferLength)
	for s := range g {
		for l := range g[s] {
			out = append(out, g[s][l][:]...)
		}
	}
	return out
}

// IsZero reports whether every byte in the grid is zero.
func (g Grid) IsZero() bool {
	return g == Grid{}
}
