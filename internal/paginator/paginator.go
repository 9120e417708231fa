// Package paginator tracks which screen of the text grid is selected.
package paginator

import "github.com/photonicat/mintaka_screen/internal/screentext"

type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// Paginator holds the selected screen index, clamped to [0, NumScreens).
type Paginator struct {
	index int
}

func New() *Paginator {
	return &Paginator{}
}

// Advance moves one screen in dir, saturating at both ends. It reports
// whether the index changed.
func (p *Paginator) Advance(dir Direction) bool {
	switch dir {
	case Forward:
		if p.index < screentext.NumScreens-1 {
			p.index++
			return true
		}
	case Backward:
		if p.index > 0 {
			p.index--
			return true
		}
	}
	return false
}

func (p *Paginator) Index() int { return p.index }

// Window returns the half-open range of absolute rows for the selected screen.
func (p *Paginator) Window() (first, last int) {
	first = p.index * screentext.ScreenNumLines
	return first, first + screentext.ScreenNumLines
}
