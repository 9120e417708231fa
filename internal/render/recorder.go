package render

import (
	"fmt"
	"image/color"
)

// Recorder is a Surface that records every call. It backs headless runs and tests.
type Recorder struct {
	Calls   []string
	Powered bool
	Err     error
}

func NewRecorder() *Recorder {
	return &Recorder{Powered: true}
}

func (r *Recorder) add(format string, args ...any) error {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
	return r.Err
}

func (r *Recorder) Power(on bool) error {
	r.Powered = on
	return r.add("power(%v)", on)
}

func (r *Recorder) Clear() error { return r.add("clear") }

func (r *Recorder) DrawImage(id ImageID) error { return r.add("image(%d)", id) }

func (r *Recorder) DrawText(x, y int, f Font, text string) error {
	return r.add("text(%d,%d,%d,%q)", x, y, f, text)
}

func (r *Recorder) DrawTextRecolored(x, y int, f Font, text string, fg, bg color.Color) error {
	return r.add("recolored(%d,%d,%d,%q)", x, y, f, text)
}

// TextWidth assumes a fixed 6 pixel advance.
func (r *Recorder) TextWidth(f Font, text string) int { return 6 * len(text) }

func (r *Recorder) Flush() error { return r.add("flush") }

// Reset forgets recorded calls.
func (r *Recorder) Reset() { r.Calls = nil }

// Count returns how many recorded calls equal call.
func (r *Recorder) Count(call string) int {
	n := 0
	for _, c := range r.Calls {
		if c == call {
			n++
		}
	}
	return n
}
