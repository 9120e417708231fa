package surface

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"

	"github.com/photonicat/mintaka_screen/internal/render"
)

// FontConfig holds parameters for a font. An empty FontPath selects the
// bundled Go Mono face.
type FontConfig struct {
	FontPath string
	FontSize float64
}

// DefaultFonts fits 19 columns of text on a 128 pixel wide panel.
var DefaultFonts = map[render.Font]FontConfig{
	render.FontNormal: {FontSize: 10},
	render.FontLarge:  {FontSize: 22},
}

// LoadFace parses the configured font into a face.
func LoadFace(f render.Font, cfg FontConfig) (font.Face, error) {
	var data []byte
	if cfg.FontPath != "" {
		b, err := os.ReadFile(cfg.FontPath)
		if err != nil {
			return nil, fmt.Errorf("error reading font file: %w", err)
		}
		data = b
	} else if f == render.FontLarge {
		data = gomonobold.TTF
	} else {
		data = gomono.TTF
	}

	ttf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing font: %w", err)
	}
	return opentype.NewFace(ttf, &opentype.FaceOptions{
		Size:    cfg.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// LoadFaces loads every font in cfgs, falling back to DefaultFonts for
// fonts cfgs does not name.
func LoadFaces(cfgs map[render.Font]FontConfig) (map[render.Font]font.Face, error) {
	faces := make(map[render.Font]font.Face, len(DefaultFonts))
	for f, def := range DefaultFonts {
		c, ok := cfgs[f]
		if !ok {
			c = def
		}
		if c.FontSize == 0 {
			c.FontSize = def.FontSize
		}
		face, err := LoadFace(f, c)
		if err != nil {
			return nil, fmt.Errorf("font %d: %w", f, err)
		}
		faces[f] = face
	}
	return faces, nil
}
