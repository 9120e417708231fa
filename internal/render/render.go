// Package render draws the subsystem's modes onto an external drawing surface.
package render

import (
	"image/color"
	"log"

	"github.com/photonicat/mintaka_screen/internal/screentext"
)

type Font int

const (
	FontNormal Font = iota
	FontLarge
)

type ImageID int

const (
	ImageSplash ImageID = iota
)

const (
	normalLineHeight = 16
	largeLineHeight  = 32
	noticeLines      = 2
)

var (
	StatusFG = color.Black
	StatusBG = color.White
)

// Surface is the drawing device the renderer targets.
type Surface interface {
	Power(on bool) error
	Clear() error
	DrawImage(id ImageID) error
	DrawText(x, y int, f Font, text string) error
	DrawTextRecolored(x, y int, f Font, text string, fg, bg color.Color) error
	TextWidth(f Font, text string) int
	Flush() error
}

// Mode is one of SplashMode, ScreenMode or NoticeMode.
type Mode interface {
	modeName() string
}

type SplashMode struct{}

type ScreenMode struct {
	Index int
}

type NoticeMode struct {
	Lines [noticeLines]string
}

func (SplashMode) modeName() string { return "splash" }
func (ScreenMode) modeName() string { return "screen" }
func (NoticeMode) modeName() string { return "notice" }

// ModeName returns a short label for logs and the state endpoint.
func ModeName(m Mode) string {
	if m == nil {
		return "none"
	}
	return m.modeName()
}

// Renderer owns no protocol state; it only remembers the last mode drawn.
type Renderer struct {
	surface Surface
	width   int
	mode    Mode
}

// New returns a renderer for a surface width pixels wide.
func New(surface Surface, width int) *Renderer {
	return &Renderer{surface: surface, width: width}
}

func (r *Renderer) Mode() Mode { return r.mode }

// Splash clears the surface and draws the boot image.
func (r *Renderer) Splash() {
	r.mode = SplashMode{}
	r.check("clear", r.surface.Clear())
	r.check("draw splash", r.surface.DrawImage(ImageSplash))
	r.check("flush", r.surface.Flush())
}

// Screen draws the lines of screen index from grid, one per text row. A
// non-empty status is drawn inverted at the right end of the first row.
func (r *Renderer) Screen(grid *screentext.Grid, index int, status string) {
	lines := grid.Screen(index)
	if lines == nil {
		log.Printf("render: screen index %d out of range", index)
		return
	}
	r.mode = ScreenMode{Index: index}
	r.check("clear", r.surface.Clear())
	for j, text := range lines {
		r.check("draw line", r.surface.DrawText(0, j*normalLineHeight, FontNormal, text))
	}
	if status != "" {
		x := r.width - r.surface.TextWidth(FontNormal, status)
		if x < 0 {
			x = 0
		}
		r.check("draw status", r.surface.DrawTextRecolored(x, 0, FontNormal, status, StatusFG, StatusBG))
	}
	r.check("flush", r.surface.Flush())
}

// Notice draws two lines in the large font.
func (r *Renderer) Notice(first, second string) {
	m := NoticeMode{Lines: [noticeLines]string{first, second}}
	r.mode = m
	r.check("clear", r.surface.Clear())
	for i, text := range m.Lines {
		r.check("draw notice", r.surface.DrawText(0, i*largeLineHeight, FontLarge, text))
	}
	r.check("flush", r.surface.Flush())
}

// Power switches the surface on or off.
func (r *Renderer) Power(on bool) {
	r.check("power", r.surface.Power(on))
}

// Flush pushes whatever is pending to the device.
func (r *Renderer) Flush() {
	r.check("flush", r.surface.Flush())
}

func (r *Renderer) check(op string, err error) {
	if err != nil {
		log.Printf("render: %s failed: %v", op, err)
	}
}
