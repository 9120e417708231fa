// Package surface implements render.Surface on an in-memory RGBA frame that
// is pushed to a panel on Flush.
package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"sync"

	"github.com/llgcode/draw2d/draw2dimg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/photonicat/mintaka_screen/internal/render"
)

const (
	OLED_WIDTH  = 128
	OLED_HEIGHT = 64
)

var (
	OLED_ON  = color.RGBA{255, 255, 255, 255}
	OLED_OFF = color.RGBA{0, 0, 0, 255}
)

// Sink receives finished frames. The OLED panel is one; nil means headless.
type Sink interface {
	Show(img image.Image) error
	Power(on bool) error
}

// Image is a render.Surface backed by an image.RGBA. Snapshot is safe to call
// from other goroutines; drawing calls come from the subsystem's loop only.
type Image struct {
	sink   Sink
	faces  map[render.Font]font.Face
	splash *image.RGBA

	frameMutex sync.RWMutex
	frame      *image.RGBA
	shown      *image.RGBA
	powered    bool
	flushes    int
}

func NewImage(width, height int, faces map[render.Font]font.Face, splash *image.RGBA, sink Sink) *Image {
	s := &Image{
		sink:    sink,
		faces:   faces,
		splash:  splash,
		frame:   image.NewRGBA(image.Rect(0, 0, width, height)),
		shown:   image.NewRGBA(image.Rect(0, 0, width, height)),
		powered: true,
	}
	clearFrame(s.frame)
	clearFrame(s.shown)
	return s
}

func clearFrame(frame *image.RGBA) {
	for i := 0; i < len(frame.Pix); i += 4 {
		frame.Pix[i] = 0
		frame.Pix[i+1] = 0
		frame.Pix[i+2] = 0
		frame.Pix[i+3] = 255
	}
}

func (s *Image) Power(on bool) error {
	s.frameMutex.Lock()
	s.powered = on
	s.frameMutex.Unlock()
	if s.sink != nil {
		return s.sink.Power(on)
	}
	return nil
}

func (s *Image) Clear() error {
	clearFrame(s.frame)
	return nil
}

func (s *Image) DrawImage(id render.ImageID) error {
	if id != render.ImageSplash || s.splash == nil {
		return fmt.Errorf("image %d not loaded", id)
	}
	draw.Draw(s.frame, s.frame.Bounds(), s.splash, image.Point{}, draw.Src)
	return nil
}

func (s *Image) face(f render.Font) (font.Face, error) {
	face, ok := s.faces[f]
	if !ok {
		return nil, fmt.Errorf("font %d not loaded", f)
	}
	return face, nil
}

func (s *Image) DrawText(x, y int, f render.Font, text string) error {
	face, err := s.face(f)
	if err != nil {
		return err
	}
	drawText(s.frame, text, x, y, face, OLED_ON)
	return nil
}

// DrawTextRecolored draws text over a rounded box filled with bg.
func (s *Image) DrawTextRecolored(x, y int, f render.Font, text string, fg, bg color.Color) error {
	face, err := s.face(f)
	if err != nil {
		return err
	}
	m := face.Metrics()
	w := float64(font.MeasureString(face, text).Round() + 2)
	h := float64(m.Ascent.Round() + m.Descent.Round())

	gc := draw2dimg.NewGraphicContext(s.frame)
	gc.SetFillColor(bg)
	drawRoundedRect(gc, float64(x)-1, float64(y), w, h, 2)
	gc.Fill()

	drawText(s.frame, text, x, y, face, fg)
	return nil
}

func (s *Image) TextWidth(f render.Font, text string) int {
	face, err := s.face(f)
	if err != nil {
		return 0
	}
	return font.MeasureString(face, text).Round()
}

// Flush publishes the frame and pushes it to the sink while powered.
func (s *Image) Flush() error {
	s.frameMutex.Lock()
	copy(s.shown.Pix, s.frame.Pix)
	s.flushes++
	powered := s.powered
	s.frameMutex.Unlock()

	if s.sink == nil || !powered {
		return nil
	}
	if err := s.sink.Show(s.shown); err != nil {
		log.Printf("surface: panel write error: %v", err)
		return err
	}
	return nil
}

// Snapshot returns a copy of the last flushed frame. A powered-off surface
// reads as black.
func (s *Image) Snapshot() *image.RGBA {
	s.frameMutex.RLock()
	defer s.frameMutex.RUnlock()
	out := image.NewRGBA(s.shown.Bounds())
	if s.powered {
		copy(out.Pix, s.shown.Pix)
	} else {
		clearFrame(out)
	}
	return out
}

func (s *Image) Powered() bool {
	s.frameMutex.RLock()
	defer s.frameMutex.RUnlock()
	return s.powered
}

// Flushes returns how many frames have been published.
func (s *Image) Flushes() int {
	s.frameMutex.RLock()
	defer s.frameMutex.RUnlock()
	return s.flushes
}

// drawText draws text with its top edge at posY.
func drawText(img *image.RGBA, text string, posX, posY int, face font.Face, clr color.Color) (finishX int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: face,
	}
	d.Dot = fixed.P(posX, posY+face.Metrics().Ascent.Round())
	d.DrawString(text)
	return d.Dot.X.Round()
}

func drawRoundedRect(gc *draw2dimg.GraphicContext, x, y, w, h, r float64) {
	gc.MoveTo(x+r, y)
	gc.LineTo(x+w-r, y)
	gc.ArcTo(x+w-r, y+r, r, r, -math.Pi/2, math.Pi/2)
	gc.LineTo(x+w, y+h-r)
	gc.ArcTo(x+w-r, y+h-r, r, r, 0, math.Pi/2)
	gc.LineTo(x+r, y+h)
	gc.ArcTo(x+r, y+h-r, r, r, math.Pi/2, math.Pi/2)
	gc.LineTo(x, y+r)
	gc.ArcTo(x+r, y+r, r, r, math.Pi, math.Pi/2)
	gc.Close()
}
