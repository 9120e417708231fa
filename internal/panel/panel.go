// Package panel drives the 128x64 SSD1306-class OLED over I2C.
package panel

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"log"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"
)

// maxContrast is the level the controller is initialised with.
const maxContrast = 0xFF

type Config struct {
	Bus      string
	Width    int
	Height   int
	Rotated  bool
	Contrast uint8
}

// OLED implements surface.Sink.
type OLED struct {
	closer   io.Closer
	dev      *ssd1306.Dev
	buf      *image1bit.VerticalLSB
	contrast uint8
	halted   bool
}

func Open(cfg Config) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.Bus, err)
	}
	o, err := newOLED(bus, cfg)
	if err != nil {
		bus.Close()
		return nil, err
	}
	o.closer = bus
	log.Printf("panel: %s on i2c bus %q", o.dev, cfg.Bus)
	return o, nil
}

func newOLED(bus i2c.Bus, cfg Config) (*OLED, error) {
	opts := ssd1306.DefaultOpts
	opts.W = cfg.Width
	opts.H = cfg.Height
	opts.Rotated = cfg.Rotated
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("ssd1306 init: %w", err)
	}
	contrast := uint8(maxContrast)
	if cfg.Contrast != 0 {
		contrast = cfg.Contrast
		if err := dev.SetContrast(contrast); err != nil {
			log.Printf("panel: set contrast: %v", err)
		}
	}
	return &OLED{
		dev:      dev,
		buf:      image1bit.NewVerticalLSB(dev.Bounds()),
		contrast: contrast,
	}, nil
}

// Show converts img to 1 bit and writes it to the panel, waking it first.
func (o *OLED) Show(img image.Image) error {
	if err := o.Power(true); err != nil {
		return err
	}
	toMono(o.buf, img)
	return o.dev.Draw(o.buf.Bounds(), o.buf, image.Point{})
}

// Power halts the controller when off. Turning it on sends a command, which
// the driver prefixes with display-on; Draw alone sends nothing when the
// frame is unchanged.
func (o *OLED) Power(on bool) error {
	if on {
		if !o.halted {
			return nil
		}
		if err := o.dev.SetContrast(o.contrast); err != nil {
			return fmt.Errorf("panel wake: %w", err)
		}
		o.halted = false
		return nil
	}
	if o.halted {
		return nil
	}
	if err := o.dev.Halt(); err != nil {
		return err
	}
	o.halted = true
	return nil
}

func (o *OLED) Close() error {
	if err := o.dev.Halt(); err != nil {
		log.Printf("panel: halt on close: %v", err)
	}
	if o.closer == nil {
		return nil
	}
	return o.closer.Close()
}

func toMono(dst *image1bit.VerticalLSB, src image.Image) {
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
}
